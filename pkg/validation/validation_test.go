package validation

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodeloom/nodeloom/pkg/models"
	"github.com/nodeloom/nodeloom/pkg/registry"
)

func testRegistry() *registry.Registry {
	return registry.NewWithBuiltins(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func agentNode(id string) *models.Node {
	return &models.Node{
		ID:   id,
		Type: models.NodeTypeAgent,
		Data: &models.AgentData{Common: models.Common{Label: "Agent"}, Model: "gpt-4o", Temperature: 0.7},
	}
}

func actionNode(id string) *models.Node {
	return &models.Node{
		ID:   id,
		Type: models.NodeTypeAction,
		Data: &models.ActionData{Common: models.Common{Label: "Action"}, ActionKind: "http_request", TimeoutMS: 30000},
	}
}

func inputNode(id string) *models.Node {
	return &models.Node{
		ID:   id,
		Type: models.NodeTypeInput,
		Data: &models.InputData{Common: models.Common{Label: "Input"}, InputKind: "text"},
	}
}

func outputNode(id string) *models.Node {
	return &models.Node{
		ID:   id,
		Type: models.NodeTypeOutput,
		Data: &models.OutputData{Common: models.Common{Label: "Output"}, OutputKind: "text"},
	}
}

func edge(id, source, target string) *models.Edge {
	return &models.Edge{ID: id, Source: source, Target: target}
}

func issueKinds(issues []models.ValidationIssue) []models.IssueKind {
	kinds := make([]models.IssueKind, len(issues))
	for i, issue := range issues {
		kinds[i] = issue.Kind
	}

	return kinds
}

func TestValidate_EmptyGraphIsValid(t *testing.T) {
	result := Validate(nil, nil, testRegistry())

	assert.True(t, result.IsValid)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)
}

func TestValidate_WellFormedPipeline(t *testing.T) {
	nodes := []*models.Node{inputNode("in"), agentNode("a"), outputNode("out")}
	edges := []*models.Edge{
		edge("e1", "in", "a"),
		edge("e2", "a", "out"),
	}

	result := Validate(nodes, edges, testRegistry())

	assert.True(t, result.IsValid)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)
}

func TestValidate_UnusedNodesAreWarningsOnly(t *testing.T) {
	// Two disconnected nodes: findings, but still valid.
	nodes := []*models.Node{agentNode("a"), actionNode("b")}

	result := Validate(nodes, nil, testRegistry())

	assert.True(t, result.IsValid)
	assert.Empty(t, result.Errors)
	require.Len(t, result.Warnings, 2)
	assert.Equal(t, models.IssueUnusedNode, result.Warnings[0].Kind)
	assert.Equal(t, models.IssueUnusedNode, result.Warnings[1].Kind)
}

func TestValidate_CycleIsError(t *testing.T) {
	nodes := []*models.Node{agentNode("a"), agentNode("b")}
	edges := []*models.Edge{
		edge("e1", "a", "b"),
		edge("e2", "b", "a"),
	}

	result := Validate(nodes, edges, testRegistry())

	assert.False(t, result.IsValid)
	assert.Contains(t, issueKinds(result.Errors), models.IssueCyclicDependency)
}

func TestValidate_CycleMessageNamesThePath(t *testing.T) {
	nodes := []*models.Node{agentNode("a"), agentNode("b"), agentNode("c")}
	edges := []*models.Edge{
		edge("e1", "a", "b"),
		edge("e2", "b", "c"),
		edge("e3", "c", "a"),
	}

	result := Validate(nodes, edges, testRegistry())

	require.False(t, result.IsValid)

	found := false

	for _, issue := range result.Errors {
		if issue.Kind == models.IssueCyclicDependency {
			assert.Contains(t, issue.Message, "a -> b -> c -> a")

			found = true
		}
	}

	assert.True(t, found)
}

func TestValidate_SelfLoopIsCycle(t *testing.T) {
	nodes := []*models.Node{agentNode("a")}
	edges := []*models.Edge{edge("e1", "a", "a")}

	result := Validate(nodes, edges, testRegistry())

	assert.False(t, result.IsValid)
	assert.Contains(t, issueKinds(result.Errors), models.IssueCyclicDependency)
}

func TestValidate_DanglingEdge(t *testing.T) {
	nodes := []*models.Node{agentNode("a")}
	edges := []*models.Edge{edge("e1", "a", "ghost")}

	result := Validate(nodes, edges, testRegistry())

	assert.False(t, result.IsValid)
	assert.Contains(t, issueKinds(result.Errors), models.IssueDanglingEdge)
}

func TestValidate_UnknownNodeType(t *testing.T) {
	nodes := []*models.Node{
		{ID: "x", Type: "ghost", Data: &models.GenericData{Type: "ghost"}},
	}

	result := Validate(nodes, nil, testRegistry())

	assert.False(t, result.IsValid)
	kinds := issueKinds(result.Errors)
	assert.Contains(t, kinds, models.IssueUnknownNodeType)
	// Unknown types are not double-reported as config or arity problems.
	assert.NotContains(t, kinds, models.IssueMissingConfig)
	assert.NotContains(t, kinds, models.IssueArityViolation)
}

func TestValidate_ArityMaxInputs(t *testing.T) {
	// Output allows a single incoming edge.
	nodes := []*models.Node{agentNode("a"), agentNode("b"), outputNode("out")}
	edges := []*models.Edge{
		edge("e1", "a", "out"),
		edge("e2", "b", "out"),
	}

	result := Validate(nodes, edges, testRegistry())

	assert.False(t, result.IsValid)
	assert.Contains(t, issueKinds(result.Errors), models.IssueArityViolation)
}

func TestValidate_ArityMaxOutputs(t *testing.T) {
	// Output emits nothing.
	nodes := []*models.Node{outputNode("out"), agentNode("a")}
	edges := []*models.Edge{edge("e1", "out", "a")}

	result := Validate(nodes, edges, testRegistry())

	assert.False(t, result.IsValid)
	assert.Contains(t, issueKinds(result.Errors), models.IssueArityViolation)
}

func TestValidate_ArityMinInputs(t *testing.T) {
	reg := testRegistry()

	// A category that requires at least one incoming edge.
	err := reg.Register(&registry.Definition{
		Type:  "sink",
		Label: "Sink",
		Arity: registry.ArityLimits{
			MinInputs:  1,
			MaxInputs:  registry.Unlimited,
			MaxOutputs: registry.Unlimited,
		},
		DefaultData: func() models.NodeData {
			return &models.GenericData{Type: "sink", Fields: map[string]any{}}
		},
	})
	require.NoError(t, err)

	sink := &models.Node{ID: "s", Type: "sink", Data: &models.GenericData{Type: "sink"}}

	result := Validate([]*models.Node{sink}, nil, reg)
	assert.Contains(t, issueKinds(result.Errors), models.IssueArityViolation)

	// Connecting it clears the violation.
	nodes := []*models.Node{agentNode("a"), sink}
	edges := []*models.Edge{edge("e1", "a", "s")}

	result = Validate(nodes, edges, reg)
	assert.NotContains(t, issueKinds(result.Errors), models.IssueArityViolation)
}

func TestValidate_MissingConfiguration(t *testing.T) {
	nodes := []*models.Node{
		{ID: "a", Type: models.NodeTypeAgent},
	}

	result := Validate(nodes, nil, testRegistry())

	assert.False(t, result.IsValid)
	assert.Contains(t, issueKinds(result.Errors), models.IssueMissingConfig)
}

func TestValidate_AgentConfigRules(t *testing.T) {
	noModel := &models.Node{
		ID:   "a",
		Type: models.NodeTypeAgent,
		Data: &models.AgentData{Temperature: 0.5},
	}

	result := Validate([]*models.Node{noModel}, nil, testRegistry())
	assert.Contains(t, issueKinds(result.Errors), models.IssueMissingConfig)

	hotAgent := &models.Node{
		ID:   "b",
		Type: models.NodeTypeAgent,
		Data: &models.AgentData{Model: "gpt-4o", Temperature: 2.5},
	}

	result = Validate([]*models.Node{hotAgent}, nil, testRegistry())
	assert.Contains(t, issueKinds(result.Errors), models.IssueInvalidConfig)
}

func TestValidate_ActionConfigRules(t *testing.T) {
	lowTimeout := &models.Node{
		ID:   "a",
		Type: models.NodeTypeAction,
		Data: &models.ActionData{ActionKind: "http_request", TimeoutMS: 100},
	}

	result := Validate([]*models.Node{lowTimeout}, nil, testRegistry())

	// A suspiciously low timeout is a warning, never an error.
	assert.True(t, result.IsValid)
	assert.Contains(t, issueKinds(result.Warnings), models.IssueLowTimeout)

	badRetries := &models.Node{
		ID:   "b",
		Type: models.NodeTypeAction,
		Data: &models.ActionData{ActionKind: "http_request", TimeoutMS: 30000, RetryCount: 50},
	}

	result = Validate([]*models.Node{badRetries}, nil, testRegistry())
	assert.Contains(t, issueKinds(result.Errors), models.IssueInvalidConfig)
}

func TestValidate_GenericConfigAgainstSchema(t *testing.T) {
	reg := testRegistry()

	minDelay := 0.0

	err := reg.Register(&registry.Definition{
		Type:  "delay",
		Label: "Delay",
		Arity: registry.ArityLimits{MaxInputs: registry.Unlimited, MaxOutputs: registry.Unlimited},
		ConfigSchema: &models.JSONSchema{
			Type: "object",
			Properties: map[string]*models.Property{
				"delayMs": {Type: "integer", Minimum: &minDelay},
			},
			Required: []string{"delayMs"},
		},
		DefaultData: func() models.NodeData {
			return &models.GenericData{Type: "delay", Fields: map[string]any{"delayMs": 0}}
		},
	})
	require.NoError(t, err)

	bad := &models.Node{
		ID:   "d",
		Type: "delay",
		Data: &models.GenericData{Type: "delay", Fields: map[string]any{"delayMs": -5}},
	}

	result := Validate([]*models.Node{bad}, nil, reg)
	assert.Contains(t, issueKinds(result.Errors), models.IssueInvalidConfig)
}

func TestValidate_AccumulatesAcrossChecks(t *testing.T) {
	// One graph, several independent findings.
	nodes := []*models.Node{
		{ID: "x", Type: "ghost"},
		{ID: "a", Type: models.NodeTypeAgent},
		agentNode("b"),
		agentNode("c"),
	}
	edges := []*models.Edge{
		edge("e1", "b", "c"),
		edge("e2", "c", "b"),
		edge("e3", "b", "missing"),
	}

	result := Validate(nodes, edges, testRegistry())

	require.False(t, result.IsValid)
	kinds := issueKinds(result.Errors)
	assert.Contains(t, kinds, models.IssueUnknownNodeType)
	assert.Contains(t, kinds, models.IssueMissingConfig)
	assert.Contains(t, kinds, models.IssueCyclicDependency)
	assert.Contains(t, kinds, models.IssueDanglingEdge)
}

func TestValidate_IsSideEffectFree(t *testing.T) {
	nodes := []*models.Node{agentNode("a")}

	first := Validate(nodes, nil, testRegistry())
	second := Validate(nodes, nil, testRegistry())

	assert.Equal(t, first, second)
}
