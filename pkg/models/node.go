// Package models defines the core domain models for the node-based
// pipeline editor: nodes, edges, documents and validation results.
package models

// NodeType is the category discriminator for a node.
type NodeType string

// Built-in node categories.
const (
	NodeTypeAgent  NodeType = "agent"  // LLM agent invocation
	NodeTypeData   NodeType = "data"   // Static or referenced data source
	NodeTypeAction NodeType = "action" // Side-effecting operation (http, transform, ...)
	NodeTypeLogic  NodeType = "logic"  // Branching / merging control flow
	NodeTypeInput  NodeType = "input"  // Pipeline entry point
	NodeTypeOutput NodeType = "output" // Pipeline exit point
)

// Position is a node's location on the canvas.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is a single typed unit in the pipeline graph. ID and Type are
// fixed for the node's lifetime; everything else is mutable through the
// graph store.
type Node struct {
	ID       string   `json:"id"       validate:"required"`
	Type     NodeType `json:"type"     validate:"required"`
	Position Position `json:"position"`
	Data     NodeData `json:"data"`

	// Transient UI flags, not meaningful outside an editing session.
	Selected bool `json:"selected,omitempty"`
	Dragging bool `json:"dragging,omitempty"`
}

// Clone returns a deep copy of the node.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}

	cp := *n
	if n.Data != nil {
		cp.Data = n.Data.Clone()
	}

	return &cp
}

// EdgeValidationStatus tracks the last structural verdict attached to an edge.
type EdgeValidationStatus string

const (
	EdgeStatusValid   EdgeValidationStatus = "valid"
	EdgeStatusInvalid EdgeValidationStatus = "invalid"
	EdgeStatusWarning EdgeValidationStatus = "warning"
	EdgeStatusPending EdgeValidationStatus = "pending"
)

// EdgeData carries per-edge metadata.
type EdgeData struct {
	ValidationStatus EdgeValidationStatus `json:"validationStatus,omitempty"`
}

// Edge is a directed connection between two nodes' ports. Source and
// Target must reference nodes present in the graph; the store removes
// edges eagerly when either endpoint is removed.
type Edge struct {
	ID           string   `json:"id"     validate:"required"`
	Source       string   `json:"source" validate:"required"`
	Target       string   `json:"target" validate:"required"`
	SourceHandle string   `json:"sourceHandle,omitempty"`
	TargetHandle string   `json:"targetHandle,omitempty"`
	Type         string   `json:"type,omitempty"`
	Data         EdgeData `json:"data"`
}

// Clone returns a copy of the edge.
func (e *Edge) Clone() *Edge {
	if e == nil {
		return nil
	}

	cp := *e

	return &cp
}
