// Package registry holds the node-type definition table: per-category
// metadata, default configuration, connection arity limits and config
// schemas. The table is injected into the store and validation engine
// so new categories can be added without touching either.
package registry

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/nodeloom/nodeloom/pkg/models"
)

// Unlimited marks an arity bound as unbounded.
const Unlimited = -1

// ArityLimits bound the number of incoming and outgoing edges a node
// category permits. Max values of Unlimited are unbounded.
type ArityLimits struct {
	MinInputs  int `json:"min_inputs"`
	MaxInputs  int `json:"max_inputs"`
	MinOutputs int `json:"min_outputs"`
	MaxOutputs int `json:"max_outputs"`
}

// Definition describes one node category.
type Definition struct {
	Type        models.NodeType `json:"type"`
	Label       string          `json:"label"`
	Icon        string          `json:"icon,omitempty"`
	Color       string          `json:"color,omitempty"`
	Description string          `json:"description,omitempty"`

	// Standalone categories may sit in the graph with no edges without
	// drawing an unused-node warning.
	Standalone bool `json:"standalone,omitempty"`

	Arity        ArityLimits        `json:"arity"`
	ConfigSchema *models.JSONSchema `json:"config_schema,omitempty"`

	// DefaultData builds the category's initial configuration payload.
	DefaultData func() models.NodeData `json:"-"`
}

// Registry is the injectable category table.
type Registry struct {
	logger *slog.Logger
	defs   map[models.NodeType]*Definition
}

// New creates an empty registry.
func New(logger *slog.Logger) *Registry {
	return &Registry{
		logger: logger,
		defs:   make(map[models.NodeType]*Definition),
	}
}

// NewWithBuiltins creates a registry preloaded with the six built-in
// categories.
func NewWithBuiltins(logger *slog.Logger) *Registry {
	r := New(logger)
	for _, def := range builtinDefinitions() {
		if err := r.Register(def); err != nil {
			// Built-in definitions are static and always valid.
			panic(err)
		}
	}

	return r
}

// Register adds or replaces a category definition.
func (r *Registry) Register(def *Definition) error {
	if def == nil || def.Type == "" {
		return fmt.Errorf("node type definition must carry a type")
	}

	if def.DefaultData == nil {
		return fmt.Errorf("node type %q definition must carry default data", def.Type)
	}

	if _, exists := r.defs[def.Type]; exists {
		r.logger.Warn("Replacing node type definition", "type", def.Type)
	}

	r.defs[def.Type] = def

	return nil
}

// Definition returns the definition for a node type.
func (r *Registry) Definition(t models.NodeType) (*Definition, bool) {
	def, ok := r.defs[t]

	return def, ok
}

// Has reports whether the node type is registered.
func (r *Registry) Has(t models.NodeType) bool {
	_, ok := r.defs[t]

	return ok
}

// Types returns the registered node types in stable order.
func (r *Registry) Types() []models.NodeType {
	types := make([]models.NodeType, 0, len(r.defs))
	for t := range r.defs {
		types = append(types, t)
	}

	slices.Sort(types)

	return types
}

// Definitions returns all registered definitions, ordered by type.
func (r *Registry) Definitions() []*Definition {
	defs := make([]*Definition, 0, len(r.defs))
	for _, t := range r.Types() {
		defs = append(defs, r.defs[t])
	}

	return defs
}

// DefaultData returns a fresh default payload for the node type.
func (r *Registry) DefaultData(t models.NodeType) (models.NodeData, error) {
	def, ok := r.defs[t]
	if !ok {
		return nil, fmt.Errorf("node type %q not registered", t)
	}

	return def.DefaultData(), nil
}

// ValidateConfig checks a node's configuration payload against the
// category's config schema. It returns one message per schema
// violation; a nil slice means the payload conforms or the category
// declares no schema.
func (r *Registry) ValidateConfig(node *models.Node) ([]string, error) {
	def, ok := r.defs[node.Type]
	if !ok {
		return nil, fmt.Errorf("node type %q not registered", node.Type)
	}

	if def.ConfigSchema == nil || node.Data == nil {
		return nil, nil
	}

	payload, err := json.Marshal(node.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal node %s config: %w", node.ID, err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(def.ConfigSchema),
		gojsonschema.NewBytesLoader(payload),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to run config schema for node %s: %w", node.ID, err)
	}

	if result.Valid() {
		return nil, nil
	}

	messages := make([]string, 0, len(result.Errors()))
	for _, resErr := range result.Errors() {
		messages = append(messages, strings.TrimSpace(resErr.String()))
	}

	return messages, nil
}
