package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeNodeData_BuiltinShapes(t *testing.T) {
	raw := json.RawMessage(`{"label":"Summarizer","model":"gpt-4o","temperature":0.2,"maxTokens":512}`)

	data, err := DecodeNodeData(NodeTypeAgent, raw)
	require.NoError(t, err)

	agent, ok := data.(*AgentData)
	require.True(t, ok)
	assert.Equal(t, "Summarizer", agent.Label)
	assert.Equal(t, "gpt-4o", agent.Model)
	assert.InDelta(t, 0.2, agent.Temperature, 0.0001)
	assert.Equal(t, 512, agent.MaxTokens)
	assert.Equal(t, NodeTypeAgent, agent.Kind())
}

func TestDecodeNodeData_AbsentPayload(t *testing.T) {
	data, err := DecodeNodeData(NodeTypeAction, nil)
	require.NoError(t, err)
	assert.Nil(t, data)

	data, err = DecodeNodeData(NodeTypeAction, json.RawMessage("null"))
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestDecodeNodeData_UnknownTypeFallsBackToGeneric(t *testing.T) {
	raw := json.RawMessage(`{"label":"Custom","threshold":5,"mode":"fast"}`)

	data, err := DecodeNodeData("webhook", raw)
	require.NoError(t, err)

	generic, ok := data.(*GenericData)
	require.True(t, ok)
	assert.Equal(t, NodeType("webhook"), generic.Kind())
	assert.Equal(t, "Custom", generic.Label)
	assert.Equal(t, "fast", generic.Fields["mode"])

	// label was lifted out of the field map
	_, hasLabel := generic.Fields["label"]
	assert.False(t, hasLabel)
}

func TestGenericData_RoundTrip(t *testing.T) {
	generic := &GenericData{
		Common: Common{Label: "Custom", Description: "external"},
		Type:   "webhook",
		Fields: map[string]any{"url": "https://example.com"},
	}

	payload, err := json.Marshal(generic)
	require.NoError(t, err)

	decoded, err := DecodeNodeData("webhook", payload)
	require.NoError(t, err)

	back, ok := decoded.(*GenericData)
	require.True(t, ok)
	assert.Equal(t, "Custom", back.Label)
	assert.Equal(t, "external", back.Description)
	assert.Equal(t, "https://example.com", back.Fields["url"])
}

func TestNode_UnmarshalJSON(t *testing.T) {
	payload := []byte(`{
		"id": "n1",
		"type": "action",
		"position": {"x": 10, "y": 20},
		"data": {"label": "Fetch", "actionKind": "http_request", "timeoutMs": 5000}
	}`)

	var node Node

	require.NoError(t, json.Unmarshal(payload, &node))
	assert.Equal(t, "n1", node.ID)
	assert.Equal(t, NodeTypeAction, node.Type)
	assert.InDelta(t, 10.0, node.Position.X, 0.0001)

	action, ok := node.Data.(*ActionData)
	require.True(t, ok)
	assert.Equal(t, "http_request", action.ActionKind)
	assert.Equal(t, 5000, action.TimeoutMS)
}

func TestNode_Clone_IsDeep(t *testing.T) {
	node := &Node{
		ID:   "n1",
		Type: NodeTypeAgent,
		Data: &AgentData{Common: Common{Label: "Agent"}, Model: "gpt-4o"},
	}

	cp := node.Clone()
	cp.Data.SetTitle("Renamed")
	cp.Position.X = 99

	assert.Equal(t, "Agent", node.Data.Title())
	assert.InDelta(t, 0.0, node.Position.X, 0.0001)
}

func TestGenericData_Clone_CopiesNestedFields(t *testing.T) {
	generic := &GenericData{
		Type: "custom",
		Fields: map[string]any{
			"nested": map[string]any{"key": "value"},
			"list":   []any{1, 2, 3},
		},
	}

	cp, ok := generic.Clone().(*GenericData)
	require.True(t, ok)

	nested, ok := cp.Fields["nested"].(map[string]any)
	require.True(t, ok)
	nested["key"] = "changed"

	original, ok := generic.Fields["nested"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "value", original["key"])
}

func TestWorkflowDocument_Clone_IsDeep(t *testing.T) {
	doc := &WorkflowDocument{
		ID:      "d1",
		Name:    "Pipeline",
		Version: "1.0.0",
		Nodes: []*Node{
			{ID: "n1", Type: NodeTypeInput, Data: &InputData{Common: Common{Label: "Input"}}},
		},
		Edges: []*Edge{
			{ID: "e1", Source: "n1", Target: "n2"},
		},
		Metadata: DocumentMetadata{Tags: []string{"draft"}},
		Settings: &ExecutionSettings{MaxExecutionTimeMS: 1000},
	}

	cp := doc.Clone()
	cp.Nodes[0].Data.SetTitle("Changed")
	cp.Edges[0].Target = "n3"
	cp.Metadata.Tags[0] = "final"
	cp.Settings.MaxExecutionTimeMS = 5

	assert.Equal(t, "Input", doc.Nodes[0].Data.Title())
	assert.Equal(t, "n2", doc.Edges[0].Target)
	assert.Equal(t, "draft", doc.Metadata.Tags[0])
	assert.Equal(t, 1000, doc.Settings.MaxExecutionTimeMS)
}

func TestValidationResult_AddErrorFlipsValidity(t *testing.T) {
	result := &ValidationResult{IsValid: true}

	result.AddWarning(ValidationIssue{Kind: IssueUnusedNode, Message: "unused"})
	assert.True(t, result.IsValid)

	result.AddError(ValidationIssue{Kind: IssueDanglingEdge, Message: "dangling"})
	assert.False(t, result.IsValid)
	assert.Equal(t, SeverityError, result.Errors[0].Severity)
	assert.Equal(t, SeverityWarning, result.Warnings[0].Severity)
}
