package validation

import (
	"fmt"

	"github.com/nodeloom/nodeloom/pkg/models"
	"github.com/nodeloom/nodeloom/pkg/registry"
)

// checkConfiguration applies the per-category configuration rules.
// Built-in payloads are checked with typed rules; payloads of
// externally registered categories are checked against the category's
// config schema when one is declared.
func checkConfiguration(result *models.ValidationResult, nodes []*models.Node, reg *registry.Registry) {
	for _, node := range nodes {
		if !reg.Has(node.Type) {
			continue // already reported as unknown type
		}

		if node.Data == nil {
			result.AddError(models.ValidationIssue{
				Kind:    models.IssueMissingConfig,
				NodeID:  node.ID,
				Message: fmt.Sprintf("node %q has no configuration", node.ID),
			})

			continue
		}

		switch data := node.Data.(type) {
		case *models.AgentData:
			checkAgentConfig(result, node.ID, data)
		case *models.ActionData:
			checkActionConfig(result, node.ID, data)
		case *models.DataSourceData:
			checkDataSourceConfig(result, node.ID, data)
		case *models.LogicData:
			checkLogicConfig(result, node.ID, data)
		case *models.InputData:
			checkInputConfig(result, node.ID, data)
		case *models.OutputData:
			checkOutputConfig(result, node.ID, data)
		case *models.GenericData:
			checkSchemaConfig(result, node, reg)
		}
	}
}

func checkAgentConfig(result *models.ValidationResult, nodeID string, data *models.AgentData) {
	if data.Model == "" {
		result.AddError(models.ValidationIssue{
			Kind:    models.IssueMissingConfig,
			NodeID:  nodeID,
			Message: fmt.Sprintf("agent node %q is missing a model identifier", nodeID),
		})
	}

	if data.Temperature < minTemperature || data.Temperature > maxTemperature {
		result.AddError(models.ValidationIssue{
			Kind:   models.IssueInvalidConfig,
			NodeID: nodeID,
			Message: fmt.Sprintf("agent node %q temperature %.2f is outside [%.0f, %.0f]",
				nodeID, data.Temperature, minTemperature, maxTemperature),
		})
	}

	if data.MaxTokens < 0 {
		result.AddError(models.ValidationIssue{
			Kind:    models.IssueInvalidConfig,
			NodeID:  nodeID,
			Message: fmt.Sprintf("agent node %q max tokens must not be negative", nodeID),
		})
	}
}

func checkActionConfig(result *models.ValidationResult, nodeID string, data *models.ActionData) {
	if data.ActionKind == "" {
		result.AddError(models.ValidationIssue{
			Kind:    models.IssueMissingConfig,
			NodeID:  nodeID,
			Message: fmt.Sprintf("action node %q is missing an action kind", nodeID),
		})
	}

	if data.TimeoutMS < minSaneTimeoutMS {
		result.AddWarning(models.ValidationIssue{
			Kind:   models.IssueLowTimeout,
			NodeID: nodeID,
			Message: fmt.Sprintf("action node %q timeout %dms is below %dms",
				nodeID, data.TimeoutMS, minSaneTimeoutMS),
		})
	}

	if data.RetryCount < 0 || data.RetryCount > maxRetryCount {
		result.AddError(models.ValidationIssue{
			Kind:   models.IssueInvalidConfig,
			NodeID: nodeID,
			Message: fmt.Sprintf("action node %q retry count %d is outside [0, %d]",
				nodeID, data.RetryCount, maxRetryCount),
		})
	}
}

func checkDataSourceConfig(result *models.ValidationResult, nodeID string, data *models.DataSourceData) {
	if data.SourceKind == "" {
		result.AddError(models.ValidationIssue{
			Kind:    models.IssueMissingConfig,
			NodeID:  nodeID,
			Message: fmt.Sprintf("data node %q is missing a source kind", nodeID),
		})
	}
}

func checkLogicConfig(result *models.ValidationResult, nodeID string, data *models.LogicData) {
	if data.Operator == "" {
		result.AddError(models.ValidationIssue{
			Kind:    models.IssueMissingConfig,
			NodeID:  nodeID,
			Message: fmt.Sprintf("logic node %q is missing an operator", nodeID),
		})
	}
}

func checkInputConfig(result *models.ValidationResult, nodeID string, data *models.InputData) {
	if data.InputKind == "" {
		result.AddError(models.ValidationIssue{
			Kind:    models.IssueMissingConfig,
			NodeID:  nodeID,
			Message: fmt.Sprintf("input node %q is missing an input kind", nodeID),
		})
	}
}

func checkOutputConfig(result *models.ValidationResult, nodeID string, data *models.OutputData) {
	if data.OutputKind == "" {
		result.AddError(models.ValidationIssue{
			Kind:    models.IssueMissingConfig,
			NodeID:  nodeID,
			Message: fmt.Sprintf("output node %q is missing an output kind", nodeID),
		})
	}
}

func checkSchemaConfig(result *models.ValidationResult, node *models.Node, reg *registry.Registry) {
	messages, err := reg.ValidateConfig(node)
	if err != nil {
		result.AddError(models.ValidationIssue{
			Kind:    models.IssueInvalidConfig,
			NodeID:  node.ID,
			Message: fmt.Sprintf("node %q configuration could not be checked: %v", node.ID, err),
		})

		return
	}

	for _, msg := range messages {
		result.AddError(models.ValidationIssue{
			Kind:    models.IssueInvalidConfig,
			NodeID:  node.ID,
			Message: fmt.Sprintf("node %q: %s", node.ID, msg),
		})
	}
}
