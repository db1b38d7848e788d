// internal/detectors/template/matcher.go
package template

import (
	"fmt"
	"strings"

	"opportunity-engine/internal/models"
)

// Detect cross-references candidate-solution categories against pain-point
// categories and process types to propose reusable template opportunities.
// Matching is exact string equality on trimmed, lower-cased values; no fuzzy
// or partial matching.
//
// Duplicates are suppressed within a single call only, keyed on
// (processId, painPointId, useCaseId, matchType). Repeated calls with the
// same inputs produce the same duplicates again; batch-scoped dedup is the
// documented contract, not an oversight.
func Detect(useCases []models.UseCaseSignal, painPoints []models.PainPointSignal, processes []models.ProcessSignal) []models.Opportunity {
	painByCategory := make(map[string][]models.PainPointSignal)
	for _, pp := range painPoints {
		if c := normalize(pp.Category); c != "" {
			painByCategory[c] = append(painByCategory[c], pp)
		}
	}

	processByType := make(map[string][]models.ProcessSignal)
	for _, p := range processes {
		if t := normalize(p.Type); t != "" {
			processByType[t] = append(processByType[t], p)
		}
	}

	seen := make(map[string]struct{})
	var opps []models.Opportunity

	for _, uc := range useCases {
		category := normalize(uc.Category)
		if category == "" {
			continue
		}

		for _, pp := range painByCategory[category] {
			key := pp.ProcessID + "|" + pp.ID + "|" + uc.ID + "|" + models.MatchTypePainPoint
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}

			opps = append(opps, models.Opportunity{
				ProcessID:      pp.ProcessID,
				UseCaseID:      uc.ID,
				PainPointIDs:   []string{pp.ID},
				Title:          fmt.Sprintf("Apply %s to a known pain point", uc.Name),
				Description:    fmt.Sprintf("%s (%s) addresses pain point: %s", uc.Name, uc.Category, pp.Statement),
				Category:       models.CategoryTemplate,
				MatchType:      models.MatchTypePainPoint,
				MatchReference: category,
			})
		}

		for _, p := range processByType[category] {
			key := p.ID + "|" + uc.ID + "|" + models.MatchTypeProcess
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}

			opps = append(opps, models.Opportunity{
				ProcessID:      p.ID,
				UseCaseID:      uc.ID,
				Title:          fmt.Sprintf("Apply %s to process %s", uc.Name, p.Name),
				Description:    fmt.Sprintf("%s (%s) matches the %s process type", uc.Name, uc.Category, p.Type),
				Category:       models.CategoryTemplate,
				MatchType:      models.MatchTypeProcess,
				MatchReference: category,
			})
		}
	}
	return opps
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
