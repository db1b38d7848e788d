// internal/models/opportunity.go
package models

// Opportunity categories.
const (
	CategoryStructural         = "structural"
	CategoryAutomation         = "automation"
	CategoryDataQuality        = "data-quality"
	CategoryWorkflowAutomation = "workflow-automation"
	CategoryTemplate           = "template"
)

// Structural detector triggers.
const (
	TriggerFTE         = "fte"
	TriggerVolume      = "volume"
	TriggerSystemCount = "systemCount"
)

// Pain-point detector triggers.
const (
	TriggerFrequencyMagnitude = "frequency-magnitude"
	TriggerRootCause          = "root-cause"
	TriggerWorkarounds        = "workarounds"
)

// Template matcher match types.
const (
	MatchTypePainPoint = "pain-point"
	MatchTypeProcess   = "process"
)

// Opportunity is a detected automation candidate. Category discriminates the
// variant: structural opportunities carry Trigger and EstimatedValue,
// pain-point opportunities carry Trigger and PainPointIDs, template
// opportunities carry UseCaseID, MatchType and MatchReference. The
// originating process and pain-point identities are always preserved.
type Opportunity struct {
	ProcessID      string   `json:"processId"`
	UseCaseID      string   `json:"useCaseId,omitempty"`
	PainPointIDs   []string `json:"painPointIds,omitempty"`
	Title          string   `json:"title"`
	Description    string   `json:"description,omitempty"`
	Category       string   `json:"category"`
	Trigger        string   `json:"trigger,omitempty"`
	MatchType      string   `json:"matchType,omitempty"`
	MatchReference string   `json:"matchReference,omitempty"`
	EstimatedValue float64  `json:"estimatedValue,omitempty"`
	Note           string   `json:"note,omitempty"`
}

// Factors are the scoring inputs resolved for one opportunity. Nil means the
// factor is unknown, which is distinct from a known zero; confidence scoring
// rewards only factors that are actually supplied. DataCompleteness carries
// optional per-factor completeness overrides in [0,1], keyed by factor name.
type Factors struct {
	FTEHoursSaved          *float64           `json:"fteHoursSaved,omitempty"`
	ErrorCostAvoided       *float64           `json:"errorCostAvoided,omitempty"`
	ComplexityScore        *float64           `json:"complexityScore,omitempty"`
	SystemIntegrationDepth *float64           `json:"systemIntegrationDepth,omitempty"`
	DataCompleteness       map[string]float64 `json:"dataCompleteness,omitempty"`
}

// Score is the computed valuation of one opportunity. ROI is exactly 0 when
// EstimatedEffort is 0; Confidence is always in [0,1].
type Score struct {
	EstimatedValue  float64 `json:"estimatedValue"`
	EstimatedEffort float64 `json:"estimatedEffort"`
	ROI             float64 `json:"roi"`
	Confidence      float64 `json:"confidence"`
}

// ScoredOpportunity pairs an opportunity with its score.
type ScoredOpportunity struct {
	Opportunity Opportunity `json:"opportunity"`
	Score       Score       `json:"score"`
}

// GeneratedResult is the output of one pipeline run. Scored is index-aligned
// with the concatenation Structural + PainPoints + Templates.
type GeneratedResult struct {
	CompanyID  string              `json:"companyId"`
	Structural []Opportunity       `json:"structural"`
	PainPoints []Opportunity       `json:"painPoints"`
	Templates  []Opportunity       `json:"templates"`
	Scored     []ScoredOpportunity `json:"scored"`
}
