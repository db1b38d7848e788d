// internal/scoring/resolver.go
package scoring

import (
	"opportunity-engine/internal/models"
)

// Hours one FTE spends on a process per month; used to translate an FTE
// figure into hours potentially saved.
const hoursPerFTEMonth = 160

// Maximum complexity score derived from the system count.
const maxComplexity = 10

// SignalResolver is the embedding application's default mapping from an
// opportunity back to scoring factors, using the process signals the
// opportunity was generated from. Factors it cannot derive stay absent, so
// the resulting confidence honestly reflects data coverage: error cost in
// particular is never guessed.
type SignalResolver struct {
	processes map[string]models.ProcessSignal
}

// NewSignalResolver indexes the given processes by id.
func NewSignalResolver(processes []models.ProcessSignal) *SignalResolver {
	indexed := make(map[string]models.ProcessSignal, len(processes))
	for _, p := range processes {
		indexed[p.ID] = p
	}
	return &SignalResolver{processes: indexed}
}

// Resolve derives factors for one opportunity from its originating process:
// FTE translates into monthly hours saved, the derived system count into
// complexity and integration depth. Unknown processes resolve to empty
// factors (zero confidence).
func (r *SignalResolver) Resolve(opp models.Opportunity) models.Factors {
	p, ok := r.processes[opp.ProcessID]
	if !ok {
		return models.Factors{}
	}

	var f models.Factors
	if p.FTE != nil {
		hours := *p.FTE * hoursPerFTEMonth
		f.FTEHoursSaved = &hours
	}
	if systems := p.DerivedSystemCount(); systems > 0 {
		complexity := float64(systems)
		if complexity > maxComplexity {
			complexity = maxComplexity
		}
		depth := float64(systems)
		f.ComplexityScore = &complexity
		f.SystemIntegrationDepth = &depth
	}
	return f
}
