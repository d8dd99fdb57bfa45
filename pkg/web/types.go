package web

import "github.com/nodeloom/nodeloom/pkg/models"

// CreateDocumentRequest is the payload for creating an empty document.
// Nodes and edges are managed through the editor, not the create call.
type CreateDocumentRequest struct {
	Name        string   `json:"name"        validate:"required,min=1"`
	Description string   `json:"description"`
	Author      string   `json:"author"`
	Tags        []string `json:"tags"`
}

// UpdateDocumentRequest is a partial update of a stored document.
type UpdateDocumentRequest struct {
	Name        *string                   `json:"name,omitempty"`
	Description *string                   `json:"description,omitempty"`
	Nodes       []*models.Node            `json:"nodes,omitempty"`
	Edges       []*models.Edge            `json:"edges,omitempty"`
	Settings    *models.ExecutionSettings `json:"settings,omitempty"`
}
