// internal/detectors/painpoint/detector.go
package painpoint

import (
	"fmt"
	"strings"

	"opportunity-engine/internal/models"
)

// Detect applies categorical heuristics to pain-point records. The three
// rules are evaluated independently per pain point (0-3 opportunities each)
// and every emission carries the single originating pain-point identity.
//
// Categorical fields are trimmed and lower-cased before matching. This is a
// compatibility shim for legacy free-text imports; new data should arrive
// already validated against the closed enumerations at the system boundary.
func Detect(painPoints []models.PainPointSignal) []models.Opportunity {
	var opps []models.Opportunity
	for _, pp := range painPoints {
		frequency := normalize(pp.Frequency)
		magnitude := normalize(pp.Magnitude)
		rootCause := normalize(pp.RootCause)
		workarounds := normalize(pp.Workarounds)

		if frequency == "high" && magnitude == "high" {
			opps = append(opps, models.Opportunity{
				ProcessID:    pp.ProcessID,
				PainPointIDs: []string{pp.ID},
				Title:        "Automate frequent high-impact pain point",
				Description:  fmt.Sprintf("Recurring high-magnitude problem: %s", pp.Statement),
				Category:     models.CategoryAutomation,
				Trigger:      models.TriggerFrequencyMagnitude,
			})
		}

		if rootCause == "data" {
			opps = append(opps, models.Opportunity{
				ProcessID:    pp.ProcessID,
				PainPointIDs: []string{pp.ID},
				Title:        "Fix data quality at the source",
				Description:  fmt.Sprintf("Data-rooted problem: %s", pp.Statement),
				Category:     models.CategoryDataQuality,
				Trigger:      models.TriggerRootCause,
			})
		}

		if workarounds == "manual" {
			opps = append(opps, models.Opportunity{
				ProcessID:    pp.ProcessID,
				PainPointIDs: []string{pp.ID},
				Title:        "Replace manual workaround with workflow",
				Description:  fmt.Sprintf("Manual workaround in place for: %s", pp.Statement),
				Category:     models.CategoryWorkflowAutomation,
				Trigger:      models.TriggerWorkarounds,
			})
		}
	}
	return opps
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
