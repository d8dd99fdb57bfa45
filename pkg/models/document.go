package models

import (
	"slices"
	"time"
)

// DocumentMetadata carries authorship and lifecycle information.
type DocumentMetadata struct {
	Author    string    `json:"author,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Tags      []string  `json:"tags,omitempty"`
}

// ExecutionSettings are optional limits a runner would enforce. The
// editor only stores them; execution itself happens elsewhere.
type ExecutionSettings struct {
	MaxExecutionTimeMS int    `json:"max_execution_time_ms,omitempty"`
	RetryPolicy        string `json:"retry_policy,omitempty"` // none, linear, exponential
	LogLevel           string `json:"log_level,omitempty"`
	MaxPayloadBytes    int64  `json:"max_payload_bytes,omitempty"`
}

// WorkflowDocument is the externally visible aggregate of a pipeline:
// the full node and edge lists plus metadata. It is always rebuilt
// wholesale from the graph store, never partially persisted.
type WorkflowDocument struct {
	ID          string             `json:"id"      validate:"required"`
	Name        string             `json:"name"    validate:"required,min=1"`
	Description string             `json:"description,omitempty"`
	Version     string             `json:"version" validate:"required"`
	Nodes       []*Node            `json:"nodes"`
	Edges       []*Edge            `json:"edges"`
	Metadata    DocumentMetadata   `json:"metadata"`
	Settings    *ExecutionSettings `json:"settings,omitempty"`
}

// Clone returns a deep copy of the document, suitable for history
// snapshots.
func (d *WorkflowDocument) Clone() *WorkflowDocument {
	if d == nil {
		return nil
	}

	cp := *d
	cp.Metadata.Tags = slices.Clone(d.Metadata.Tags)

	if d.Settings != nil {
		s := *d.Settings
		cp.Settings = &s
	}

	cp.Nodes = make([]*Node, len(d.Nodes))
	for i, n := range d.Nodes {
		cp.Nodes[i] = n.Clone()
	}

	cp.Edges = make([]*Edge, len(d.Edges))
	for i, e := range d.Edges {
		cp.Edges[i] = e.Clone()
	}

	return &cp
}

// NodeByID returns the node with the given id, or nil.
func (d *WorkflowDocument) NodeByID(id string) *Node {
	for _, n := range d.Nodes {
		if n.ID == id {
			return n
		}
	}

	return nil
}

// EdgeByID returns the edge with the given id, or nil.
func (d *WorkflowDocument) EdgeByID(id string) *Edge {
	for _, e := range d.Edges {
		if e.ID == id {
			return e
		}
	}

	return nil
}
