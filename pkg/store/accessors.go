package store

import (
	"github.com/nodeloom/nodeloom/pkg/models"
)

// Connections groups the edges touching one node.
type Connections struct {
	Incoming []*models.Edge
	Outgoing []*models.Edge
}

// Nodes returns the current node list. The returned nodes are deep
// copies; mutations go through the store API.
func (s *Store) Nodes() []*models.Node {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*models.Node, len(s.nodes))
	for i, n := range s.nodes {
		out[i] = n.Clone()
	}

	return out
}

// Edges returns the current edge list as deep copies.
func (s *Store) Edges() []*models.Edge {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*models.Edge, len(s.edges))
	for i, e := range s.edges {
		out[i] = e.Clone()
	}

	return out
}

// NodeByID returns a copy of the node, or nil when absent.
func (s *Store) NodeByID(id string) *models.Node {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.nodeByIDLocked(id).Clone()
}

// EdgeByID returns a copy of the edge, or nil when absent.
func (s *Store) EdgeByID(id string) *models.Edge {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.edgeByIDLocked(id).Clone()
}

// HasNode reports whether a node with the given id exists.
func (s *Store) HasNode(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.nodeByIDLocked(id) != nil
}

// ConnectedNodes returns every node joined to the given node by at
// least one edge, in either direction.
func (s *Store) ConnectedNodes(id string) []*models.Node {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]bool)

	var out []*models.Node

	for _, e := range s.edges {
		var other string

		switch id {
		case e.Source:
			other = e.Target
		case e.Target:
			other = e.Source
		default:
			continue
		}

		if seen[other] {
			continue
		}

		seen[other] = true

		if n := s.nodeByIDLocked(other); n != nil {
			out = append(out, n.Clone())
		}
	}

	return out
}

// NodeConnections returns the incoming and outgoing edges of a node.
func (s *Store) NodeConnections(id string) Connections {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.nodeConnectionsLocked(id)
}

func (s *Store) nodeConnectionsLocked(id string) Connections {
	var conns Connections

	for _, e := range s.edges {
		if e.Target == id {
			conns.Incoming = append(conns.Incoming, e.Clone())
		}

		if e.Source == id {
			conns.Outgoing = append(conns.Outgoing, e.Clone())
		}
	}

	return conns
}

// IncomingCount returns the number of edges ending at the node,
// optionally narrowed to one target handle.
func (s *Store) IncomingCount(id, targetHandle string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0

	for _, e := range s.edges {
		if e.Target != id {
			continue
		}

		if targetHandle != "" && e.TargetHandle != targetHandle {
			continue
		}

		count++
	}

	return count
}

// SelectNode marks the node as the current selection. An empty id
// clears node selection.
func (s *Store) SelectNode(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id != "" && s.nodeByIDLocked(id) == nil {
		s.logger.Debug("Ignoring selection of missing node", "node_id", id)

		return
	}

	s.selectedNodeID = id
	for _, n := range s.nodes {
		n.Selected = n.ID == id
	}
}

// SelectEdge marks the edge as the current selection.
func (s *Store) SelectEdge(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id != "" && s.edgeByIDLocked(id) == nil {
		s.logger.Debug("Ignoring selection of missing edge", "edge_id", id)

		return
	}

	s.selectedEdgeID = id
}

// ClearSelection drops both node and edge selection.
func (s *Store) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selectedNodeID = ""
	s.selectedEdgeID = ""

	for _, n := range s.nodes {
		n.Selected = false
	}
}

// SelectedNodeID returns the selected node id, or empty.
func (s *Store) SelectedNodeID() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.selectedNodeID
}

// SelectedEdgeID returns the selected edge id, or empty.
func (s *Store) SelectedEdgeID() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.selectedEdgeID
}

// Document rebuilds and returns the document aggregate as a deep copy
// of current state.
func (s *Store) Document() *models.WorkflowDocument {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snapshotLocked()
}

// NodeIDs returns the ids of all nodes, in insertion order.
func (s *Store) NodeIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, len(s.nodes))
	for i, n := range s.nodes {
		ids[i] = n.ID
	}

	return ids
}
