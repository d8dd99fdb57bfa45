// Package document implements export and import of workflow documents
// to and from their transportable JSON form. Import is all-or-nothing:
// malformed input is rejected wholesale and never touches live state.
package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/xeipuuv/gojsonschema"

	"github.com/nodeloom/nodeloom/pkg/models"
)

// ErrMalformedDocument is returned for any import failure: parse
// errors, schema violations or broken referential integrity. The raw
// cause is wrapped, never surfaced as a panic.
var ErrMalformedDocument = errors.New("malformed workflow document")

var structValidator = validator.New()

// Export serializes the document as deterministic, human-diffable
// indented JSON. Field order follows struct declaration order, so two
// exports of equal documents are byte-identical.
func Export(doc *models.WorkflowDocument) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("cannot export nil document")
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to export document %s: %w", doc.ID, err)
	}

	return data, nil
}

// Import parses and verifies a serialized document. On any failure it
// returns an error wrapping ErrMalformedDocument and no document.
func Import(data []byte) (*models.WorkflowDocument, error) {
	schemaResult, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(documentSchema()),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}

	if !schemaResult.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrMalformedDocument, schemaMessages(schemaResult))
	}

	var doc models.WorkflowDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}

	if err := structValidator.Struct(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}

	if err := checkIntegrity(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}

	if doc.Nodes == nil {
		doc.Nodes = []*models.Node{}
	}

	if doc.Edges == nil {
		doc.Edges = []*models.Edge{}
	}

	return &doc, nil
}

// checkIntegrity verifies id uniqueness and that every edge references
// nodes present in the document.
func checkIntegrity(doc *models.WorkflowDocument) error {
	nodeIDs := make(map[string]bool, len(doc.Nodes))

	for _, node := range doc.Nodes {
		if nodeIDs[node.ID] {
			return fmt.Errorf("duplicate node id %q", node.ID)
		}

		nodeIDs[node.ID] = true
	}

	edgeIDs := make(map[string]bool, len(doc.Edges))

	for _, edge := range doc.Edges {
		if edgeIDs[edge.ID] {
			return fmt.Errorf("duplicate edge id %q", edge.ID)
		}

		edgeIDs[edge.ID] = true

		if !nodeIDs[edge.Source] {
			return fmt.Errorf("edge %q references missing source node %q", edge.ID, edge.Source)
		}

		if !nodeIDs[edge.Target] {
			return fmt.Errorf("edge %q references missing target node %q", edge.ID, edge.Target)
		}
	}

	return nil
}

func schemaMessages(result *gojsonschema.Result) string {
	messages := make([]string, 0, len(result.Errors()))
	for _, resErr := range result.Errors() {
		messages = append(messages, resErr.String())
	}

	return strings.Join(messages, "; ")
}

// documentSchema is the shape check applied before unmarshalling.
func documentSchema() *models.JSONSchema {
	return &models.JSONSchema{
		Type:  "object",
		Title: "Workflow document",
		Properties: map[string]*models.Property{
			"id":      {Type: "string"},
			"name":    {Type: "string"},
			"version": {Type: "string"},
			"nodes": {
				Type: "array",
				Items: &models.Property{
					Type: "object",
					Properties: map[string]*models.Property{
						"id":   {Type: "string"},
						"type": {Type: "string"},
						"position": {
							Type: "object",
							Properties: map[string]*models.Property{
								"x": {Type: "number"},
								"y": {Type: "number"},
							},
						},
					},
					Required: []string{"id", "type"},
				},
			},
			"edges": {
				Type: "array",
				Items: &models.Property{
					Type: "object",
					Properties: map[string]*models.Property{
						"id":     {Type: "string"},
						"source": {Type: "string"},
						"target": {Type: "string"},
					},
					Required: []string{"id", "source", "target"},
				},
			},
		},
		Required: []string{"id", "name", "version", "nodes", "edges"},
	}
}
