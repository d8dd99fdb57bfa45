package models

// IssueKind classifies a structural finding.
type IssueKind string

const (
	IssueUnknownNodeType  IssueKind = "unknown_node_type"
	IssueArityViolation   IssueKind = "arity_violation"
	IssueMissingConfig    IssueKind = "missing_configuration"
	IssueInvalidConfig    IssueKind = "invalid_configuration"
	IssueUnusedNode       IssueKind = "unused_node"
	IssueCyclicDependency IssueKind = "cyclic_dependency"
	IssueDanglingEdge     IssueKind = "dangling_edge"
	IssueLowTimeout       IssueKind = "low_timeout"
)

// IssueSeverity distinguishes errors from warnings.
type IssueSeverity string

const (
	SeverityError   IssueSeverity = "error"
	SeverityWarning IssueSeverity = "warning"
)

// ValidationIssue is one finding, tied to a node or edge when one is
// responsible.
type ValidationIssue struct {
	Kind     IssueKind     `json:"kind"`
	Severity IssueSeverity `json:"severity"`
	Message  string        `json:"message"`
	NodeID   string        `json:"node_id,omitempty"`
	EdgeID   string        `json:"edge_id,omitempty"`
}

// ValidationResult is the transient report produced by the validation
// engine. It is recomputed on demand and never persisted. IsValid is
// true iff Errors is empty; warnings never affect validity.
type ValidationResult struct {
	IsValid  bool              `json:"is_valid"`
	Errors   []ValidationIssue `json:"errors"`
	Warnings []ValidationIssue `json:"warnings"`
}

// AddError appends an error finding and flips IsValid.
func (r *ValidationResult) AddError(issue ValidationIssue) {
	issue.Severity = SeverityError
	r.Errors = append(r.Errors, issue)
	r.IsValid = false
}

// AddWarning appends a warning finding.
func (r *ValidationResult) AddWarning(issue ValidationIssue) {
	issue.Severity = SeverityWarning
	r.Warnings = append(r.Warnings, issue)
}
