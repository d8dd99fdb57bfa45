package registry

import (
	"github.com/nodeloom/nodeloom/pkg/models"
)

// Built-in configuration defaults.
const (
	defaultAgentModel       = "gpt-4o"
	defaultAgentTemperature = 0.7
	defaultAgentMaxTokens   = 1024
	defaultActionTimeoutMS  = 30000
	defaultActionRetries    = 3
)

func builtinDefinitions() []*Definition {
	return []*Definition{
		{
			Type:        models.NodeTypeAgent,
			Label:       "Agent",
			Icon:        "bot",
			Color:       "#6366f1",
			Description: "Invokes a language model with a prompt and context",
			Arity: ArityLimits{
				MinInputs:  0,
				MaxInputs:  Unlimited,
				MinOutputs: 0,
				MaxOutputs: Unlimited,
			},
			ConfigSchema: agentSchema(),
			DefaultData: func() models.NodeData {
				return &models.AgentData{
					Common:      models.Common{Label: "Agent"},
					Model:       defaultAgentModel,
					Temperature: defaultAgentTemperature,
					MaxTokens:   defaultAgentMaxTokens,
				}
			},
		},
		{
			Type:        models.NodeTypeData,
			Label:       "Data",
			Icon:        "database",
			Color:       "#10b981",
			Description: "Provides static or referenced data to downstream nodes",
			Arity: ArityLimits{
				MinInputs:  0,
				MaxInputs:  0,
				MinOutputs: 0,
				MaxOutputs: Unlimited,
			},
			DefaultData: func() models.NodeData {
				return &models.DataSourceData{
					Common:     models.Common{Label: "Data"},
					SourceKind: "inline",
					Format:     "json",
				}
			},
		},
		{
			Type:        models.NodeTypeAction,
			Label:       "Action",
			Icon:        "zap",
			Color:       "#f59e0b",
			Description: "Performs a side-effecting operation",
			Arity: ArityLimits{
				MinInputs:  0,
				MaxInputs:  Unlimited,
				MinOutputs: 0,
				MaxOutputs: Unlimited,
			},
			ConfigSchema: actionSchema(),
			DefaultData: func() models.NodeData {
				return &models.ActionData{
					Common:     models.Common{Label: "Action"},
					ActionKind: "http_request",
					TimeoutMS:  defaultActionTimeoutMS,
					RetryCount: defaultActionRetries,
				}
			},
		},
		{
			Type:        models.NodeTypeLogic,
			Label:       "Logic",
			Icon:        "git-branch",
			Color:       "#8b5cf6",
			Description: "Branches or merges the flow based on a condition",
			Arity: ArityLimits{
				MinInputs:  0,
				MaxInputs:  Unlimited,
				MinOutputs: 0,
				MaxOutputs: Unlimited,
			},
			DefaultData: func() models.NodeData {
				return &models.LogicData{
					Common:   models.Common{Label: "Logic"},
					Operator: "if",
				}
			},
		},
		{
			Type:        models.NodeTypeInput,
			Label:       "Input",
			Icon:        "log-in",
			Color:       "#0ea5e9",
			Description: "Entry point of the pipeline",
			Arity: ArityLimits{
				MinInputs:  0,
				MaxInputs:  0,
				MinOutputs: 0,
				MaxOutputs: Unlimited,
			},
			DefaultData: func() models.NodeData {
				return &models.InputData{
					Common:    models.Common{Label: "Input"},
					InputKind: "text",
				}
			},
		},
		{
			Type:        models.NodeTypeOutput,
			Label:       "Output",
			Icon:        "log-out",
			Color:       "#ef4444",
			Description: "Exit point of the pipeline",
			Arity: ArityLimits{
				MinInputs:  0,
				MaxInputs:  1,
				MinOutputs: 0,
				MaxOutputs: 0,
			},
			DefaultData: func() models.NodeData {
				return &models.OutputData{
					Common:     models.Common{Label: "Output"},
					OutputKind: "text",
				}
			},
		},
	}
}

func agentSchema() *models.JSONSchema {
	minTemp := 0.0
	maxTemp := 2.0
	one := 1.0

	return &models.JSONSchema{
		Type:  "object",
		Title: "Agent configuration",
		Properties: map[string]*models.Property{
			"model": {
				Type:        "string",
				Description: "Model identifier to invoke",
			},
			"temperature": {
				Type:    "number",
				Minimum: &minTemp,
				Maximum: &maxTemp,
			},
			"maxTokens": {
				Type:    "integer",
				Minimum: &one,
			},
			"systemPrompt": {
				Type: "string",
			},
		},
		Required: []string{"model"},
	}
}

func actionSchema() *models.JSONSchema {
	zero := 0.0
	maxRetries := 10.0

	return &models.JSONSchema{
		Type:  "object",
		Title: "Action configuration",
		Properties: map[string]*models.Property{
			"actionKind": {
				Type:        "string",
				Description: "Kind of operation to perform",
			},
			"timeoutMs": {
				Type:    "integer",
				Minimum: &zero,
			},
			"retryCount": {
				Type:    "integer",
				Minimum: &zero,
				Maximum: &maxRetries,
			},
		},
		Required: []string{"actionKind"},
	}
}
