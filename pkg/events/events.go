// Package events defines the change notifications emitted at the graph
// store's mutation boundary. Consumers such as the canvas layer or the
// autosave runner subscribe through the event bus.
package events

import (
	"time"

	"github.com/google/uuid"
)

// Type identifies a graph change event.
type Type string

const (
	NodeAdded      Type = "graph.node.added"
	NodeUpdated    Type = "graph.node.updated"
	NodeRemoved    Type = "graph.node.removed"
	NodeDuplicated Type = "graph.node.duplicated"
	EdgeAdded      Type = "graph.edge.added"
	EdgeUpdated    Type = "graph.edge.updated"
	EdgeRemoved    Type = "graph.edge.removed"
	DocumentLoaded Type = "document.loaded"
	DocumentSaved  Type = "document.saved"
)

// GraphEvent describes one committed mutation.
type GraphEvent struct {
	ID         string    `json:"id"`
	Type       Type      `json:"type"`
	DocumentID string    `json:"document_id"`
	NodeID     string    `json:"node_id,omitempty"`
	EdgeID     string    `json:"edge_id,omitempty"`
	At         time.Time `json:"at"`
}

// NewGraphEvent builds an event with a fresh id and timestamp.
func NewGraphEvent(eventType Type, documentID string) GraphEvent {
	return GraphEvent{
		ID:         uuid.New().String(),
		Type:       eventType,
		DocumentID: documentID,
		At:         time.Now().UTC(),
	}
}
