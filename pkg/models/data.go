package models

import (
	"encoding/json"
	"fmt"
)

// NodeData is the category-specific configuration payload of a node,
// a tagged union keyed by the node's Type. Each built-in category has
// one concrete payload shape; externally registered categories fall
// back to GenericData.
type NodeData interface {
	Kind() NodeType
	Title() string
	SetTitle(string)
	Clone() NodeData
}

// Common holds the fields every payload shares.
type Common struct {
	Label       string `json:"label,omitempty"`
	Description string `json:"description,omitempty"`
}

func (c *Common) Title() string     { return c.Label }
func (c *Common) SetTitle(s string) { c.Label = s }

// AgentData configures an LLM agent node.
type AgentData struct {
	Common

	Model        string  `json:"model,omitempty"`
	Temperature  float64 `json:"temperature"`
	MaxTokens    int     `json:"maxTokens,omitempty"`
	SystemPrompt string  `json:"systemPrompt,omitempty"`
}

func (d *AgentData) Kind() NodeType { return NodeTypeAgent }

func (d *AgentData) Clone() NodeData {
	cp := *d

	return &cp
}

// DataSourceData configures a data node.
type DataSourceData struct {
	Common

	SourceKind string `json:"sourceKind,omitempty"` // inline, file, url
	Format     string `json:"format,omitempty"`     // json, csv, text
	Content    string `json:"content,omitempty"`
}

func (d *DataSourceData) Kind() NodeType { return NodeTypeData }

func (d *DataSourceData) Clone() NodeData {
	cp := *d

	return &cp
}

// ActionData configures an action node.
type ActionData struct {
	Common

	ActionKind string `json:"actionKind,omitempty"` // http_request, transform, code, ...
	TimeoutMS  int    `json:"timeoutMs,omitempty"`
	RetryCount int    `json:"retryCount,omitempty"`
}

func (d *ActionData) Kind() NodeType { return NodeTypeAction }

func (d *ActionData) Clone() NodeData {
	cp := *d

	return &cp
}

// LogicData configures a branching or merging node.
type LogicData struct {
	Common

	Operator   string `json:"operator,omitempty"` // if, switch, merge
	Expression string `json:"expression,omitempty"`
}

func (d *LogicData) Kind() NodeType { return NodeTypeLogic }

func (d *LogicData) Clone() NodeData {
	cp := *d

	return &cp
}

// InputData configures a pipeline entry node.
type InputData struct {
	Common

	InputKind   string `json:"inputKind,omitempty"` // text, file, webhook
	Placeholder string `json:"placeholder,omitempty"`
}

func (d *InputData) Kind() NodeType { return NodeTypeInput }

func (d *InputData) Clone() NodeData {
	cp := *d

	return &cp
}

// OutputData configures a pipeline exit node.
type OutputData struct {
	Common

	OutputKind  string `json:"outputKind,omitempty"` // text, file, webhook
	Destination string `json:"destination,omitempty"`
}

func (d *OutputData) Kind() NodeType { return NodeTypeOutput }

func (d *OutputData) Clone() NodeData {
	cp := *d

	return &cp
}

// GenericData is the payload for node types registered outside the
// built-in set. Configuration keys are kept verbatim so unknown types
// round-trip through serialization without loss.
type GenericData struct {
	Common `json:"-"`

	Type   NodeType       `json:"-"`
	Fields map[string]any `json:"-"`
}

func (d *GenericData) Kind() NodeType { return d.Type }

func (d *GenericData) Clone() NodeData {
	cp := *d
	cp.Fields = cloneMap(d.Fields)

	return &cp
}

// MarshalJSON flattens Fields alongside the shared label/description keys.
func (d *GenericData) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(d.Fields)+2)
	for k, v := range d.Fields {
		out[k] = v
	}

	if d.Label != "" {
		out["label"] = d.Label
	}

	if d.Description != "" {
		out["description"] = d.Description
	}

	return json.Marshal(out)
}

func (d *GenericData) UnmarshalJSON(b []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	if s, ok := raw["label"].(string); ok {
		d.Label = s

		delete(raw, "label")
	}

	if s, ok := raw["description"].(string); ok {
		d.Description = s

		delete(raw, "description")
	}

	d.Fields = raw

	return nil
}

// DecodeNodeData turns a raw JSON payload into the concrete shape for
// the given node type. Unregistered types decode into GenericData.
func DecodeNodeData(t NodeType, raw json.RawMessage) (NodeData, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil //nolint:nilnil // absent payload is a valid state
	}

	var (
		data NodeData
		err  error
	)

	switch t {
	case NodeTypeAgent:
		v := &AgentData{}
		err = json.Unmarshal(raw, v)
		data = v
	case NodeTypeData:
		v := &DataSourceData{}
		err = json.Unmarshal(raw, v)
		data = v
	case NodeTypeAction:
		v := &ActionData{}
		err = json.Unmarshal(raw, v)
		data = v
	case NodeTypeLogic:
		v := &LogicData{}
		err = json.Unmarshal(raw, v)
		data = v
	case NodeTypeInput:
		v := &InputData{}
		err = json.Unmarshal(raw, v)
		data = v
	case NodeTypeOutput:
		v := &OutputData{}
		err = json.Unmarshal(raw, v)
		data = v
	default:
		v := &GenericData{Type: t}
		err = json.Unmarshal(raw, v)
		data = v
	}

	if err != nil {
		return nil, fmt.Errorf("failed to decode %s node data: %w", t, err)
	}

	return data, nil
}

// UnmarshalJSON decodes a node, resolving the data payload through the
// type discriminator.
func (n *Node) UnmarshalJSON(b []byte) error {
	var env struct {
		ID       string          `json:"id"`
		Type     NodeType        `json:"type"`
		Position Position        `json:"position"`
		Data     json.RawMessage `json:"data"`
		Selected bool            `json:"selected"`
		Dragging bool            `json:"dragging"`
	}

	if err := json.Unmarshal(b, &env); err != nil {
		return err
	}

	data, err := DecodeNodeData(env.Type, env.Data)
	if err != nil {
		return err
	}

	n.ID = env.ID
	n.Type = env.Type
	n.Position = env.Position
	n.Data = data
	n.Selected = env.Selected
	n.Dragging = env.Dragging

	return nil
}

func cloneMap(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}

	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = cloneValue(v)
	}

	return out
}

func cloneValue(v any) any {
	switch tv := v.(type) {
	case map[string]any:
		return cloneMap(tv)
	case []any:
		out := make([]any, len(tv))
		for i, e := range tv {
			out[i] = cloneValue(e)
		}

		return out
	default:
		return v
	}
}
