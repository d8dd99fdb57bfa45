// Package validation implements the structural validator: a pure
// function over the node and edge lists that reports arity violations,
// configuration problems, unused nodes and cyclic dependencies. It is
// invoked on demand, never automatically after every mutation.
package validation

import (
	"fmt"

	"github.com/nodeloom/nodeloom/pkg/models"
	"github.com/nodeloom/nodeloom/pkg/registry"
)

// Action timeouts below this floor are suspicious but not invalid.
const minSaneTimeoutMS = 1000

const (
	minTemperature = 0.0
	maxTemperature = 2.0
	maxRetryCount  = 10
)

// Validate runs every check against the given graph, accumulating
// findings rather than short-circuiting. It is re-entrant and free of
// side effects. IsValid is true iff no errors were found; warnings
// never affect it.
func Validate(nodes []*models.Node, edges []*models.Edge, reg *registry.Registry) *models.ValidationResult {
	result := &models.ValidationResult{
		IsValid:  true,
		Errors:   []models.ValidationIssue{},
		Warnings: []models.ValidationIssue{},
	}

	checkNodeTypes(result, nodes, reg)
	checkDanglingEdges(result, nodes, edges)
	checkArity(result, nodes, edges, reg)
	checkConfiguration(result, nodes, reg)
	checkUnusedNodes(result, nodes, edges, reg)
	checkCycles(result, nodes, edges)

	return result
}

func checkNodeTypes(result *models.ValidationResult, nodes []*models.Node, reg *registry.Registry) {
	for _, node := range nodes {
		if !reg.Has(node.Type) {
			result.AddError(models.ValidationIssue{
				Kind:    models.IssueUnknownNodeType,
				NodeID:  node.ID,
				Message: fmt.Sprintf("node %q has unregistered type %q", node.ID, node.Type),
			})
		}
	}
}

func checkDanglingEdges(result *models.ValidationResult, nodes []*models.Node, edges []*models.Edge) {
	present := make(map[string]bool, len(nodes))
	for _, node := range nodes {
		present[node.ID] = true
	}

	for _, edge := range edges {
		if !present[edge.Source] || !present[edge.Target] {
			result.AddError(models.ValidationIssue{
				Kind:   models.IssueDanglingEdge,
				EdgeID: edge.ID,
				Message: fmt.Sprintf("edge %q references a missing node (%s -> %s)",
					edge.ID, edge.Source, edge.Target),
			})
		}
	}
}

func checkArity(result *models.ValidationResult, nodes []*models.Node, edges []*models.Edge, reg *registry.Registry) {
	incoming := make(map[string]int, len(nodes))
	outgoing := make(map[string]int, len(nodes))

	for _, edge := range edges {
		incoming[edge.Target]++
		outgoing[edge.Source]++
	}

	for _, node := range nodes {
		def, ok := reg.Definition(node.Type)
		if !ok {
			continue // already reported as unknown type
		}

		in := incoming[node.ID]
		out := outgoing[node.ID]
		arity := def.Arity

		if in < arity.MinInputs {
			result.AddError(models.ValidationIssue{
				Kind:   models.IssueArityViolation,
				NodeID: node.ID,
				Message: fmt.Sprintf("node %q has %d incoming edges, requires at least %d",
					node.ID, in, arity.MinInputs),
			})
		}

		if arity.MaxInputs != registry.Unlimited && in > arity.MaxInputs {
			result.AddError(models.ValidationIssue{
				Kind:   models.IssueArityViolation,
				NodeID: node.ID,
				Message: fmt.Sprintf("node %q has %d incoming edges, allows at most %d",
					node.ID, in, arity.MaxInputs),
			})
		}

		if out < arity.MinOutputs {
			result.AddError(models.ValidationIssue{
				Kind:   models.IssueArityViolation,
				NodeID: node.ID,
				Message: fmt.Sprintf("node %q has %d outgoing edges, requires at least %d",
					node.ID, out, arity.MinOutputs),
			})
		}

		if arity.MaxOutputs != registry.Unlimited && out > arity.MaxOutputs {
			result.AddError(models.ValidationIssue{
				Kind:   models.IssueArityViolation,
				NodeID: node.ID,
				Message: fmt.Sprintf("node %q has %d outgoing edges, allows at most %d",
					node.ID, out, arity.MaxOutputs),
			})
		}
	}
}

func checkUnusedNodes(result *models.ValidationResult, nodes []*models.Node, edges []*models.Edge, reg *registry.Registry) {
	connected := make(map[string]bool, len(nodes))
	for _, edge := range edges {
		connected[edge.Source] = true
		connected[edge.Target] = true
	}

	for _, node := range nodes {
		if connected[node.ID] {
			continue
		}

		if def, ok := reg.Definition(node.Type); ok && def.Standalone {
			continue
		}

		result.AddWarning(models.ValidationIssue{
			Kind:    models.IssueUnusedNode,
			NodeID:  node.ID,
			Message: fmt.Sprintf("node %q is not connected to the pipeline", node.ID),
		})
	}
}
