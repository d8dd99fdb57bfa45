package validation

import (
	"fmt"
	"strings"

	"github.com/nodeloom/nodeloom/pkg/models"
)

// checkCycles flags cyclic dependencies with a depth-first traversal
// over the adjacency map, tracking the recursion stack: O(V+E), run
// from every unvisited node so disconnected components are covered.
func checkCycles(result *models.ValidationResult, nodes []*models.Node, edges []*models.Edge) {
	adjacency := make(map[string][]string, len(nodes))
	for _, edge := range edges {
		adjacency[edge.Source] = append(adjacency[edge.Source], edge.Target)
	}

	visited := make(map[string]bool, len(nodes))
	onStack := make(map[string]bool, len(nodes))
	stack := make([]string, 0, len(nodes))

	var visit func(id string)
	visit = func(id string) {
		visited[id] = true
		onStack[id] = true
		stack = append(stack, id)

		for _, next := range adjacency[id] {
			if onStack[next] {
				result.AddError(models.ValidationIssue{
					Kind:    models.IssueCyclicDependency,
					NodeID:  next,
					Message: fmt.Sprintf("cyclic dependency: %s", cyclePath(stack, next)),
				})

				continue
			}

			if !visited[next] {
				visit(next)
			}
		}

		onStack[id] = false
		stack = stack[:len(stack)-1]
	}

	for _, node := range nodes {
		if !visited[node.ID] {
			visit(node.ID)
		}
	}
}

// cyclePath renders the portion of the recursion stack from the
// revisited node onwards, closing the loop.
func cyclePath(stack []string, start string) string {
	idx := 0

	for i, id := range stack {
		if id == start {
			idx = i

			break
		}
	}

	return strings.Join(append(stack[idx:len(stack):len(stack)], start), " -> ")
}
