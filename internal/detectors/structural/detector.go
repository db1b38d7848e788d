// internal/detectors/structural/detector.go
package structural

import (
	"fmt"

	"opportunity-engine/internal/models"
)

// Default thresholds above which a process is flagged.
const (
	DefaultFTEThreshold         = 5.0
	DefaultVolumeThreshold      = 1000.0
	DefaultSystemCountThreshold = 3
)

// Thresholds configures the structural rules. A nil field disables that rule
// entirely; pass nil to Detect for the full set of defaults.
type Thresholds struct {
	FTE         *float64
	Volume      *float64
	SystemCount *int
}

// DefaultThresholds returns all three rules enabled at their default values.
func DefaultThresholds() *Thresholds {
	fte := DefaultFTEThreshold
	volume := DefaultVolumeThreshold
	systems := DefaultSystemCountThreshold
	return &Thresholds{FTE: &fte, Volume: &volume, SystemCount: &systems}
}

// Detect flags processes whose size or complexity signals exceed the
// configured thresholds. The three rules fire independently, so a single
// process can yield up to three opportunities. Missing fte or volume values
// never fire a rule and never error.
//
// The estimated value is always the process's FTE figure (0 when absent),
// including for volume and systemCount triggers. That mirrors the historical
// behavior the rest of the system was calibrated against; do not derive a
// value from volume or system count here.
func Detect(processes []models.ProcessSignal, thresholds *Thresholds) []models.Opportunity {
	t := thresholds
	if t == nil {
		t = DefaultThresholds()
	}

	var opps []models.Opportunity
	for _, p := range processes {
		fte := 0.0
		if p.FTE != nil {
			fte = *p.FTE
		}

		if t.FTE != nil && p.FTE != nil && *p.FTE > *t.FTE {
			opps = append(opps, models.Opportunity{
				ProcessID:      p.ID,
				Title:          fmt.Sprintf("High FTE allocation: %s", p.Name),
				Category:       models.CategoryStructural,
				Trigger:        models.TriggerFTE,
				EstimatedValue: *p.FTE,
				Note:           fmt.Sprintf("%.1f FTE exceeds threshold of %.1f", *p.FTE, *t.FTE),
			})
		}

		if t.Volume != nil && p.Volume != nil && *p.Volume > *t.Volume {
			opps = append(opps, models.Opportunity{
				ProcessID:      p.ID,
				Title:          fmt.Sprintf("High volume process: %s", p.Name),
				Category:       models.CategoryStructural,
				Trigger:        models.TriggerVolume,
				EstimatedValue: fte,
				Note:           fmt.Sprintf("volume %.0f exceeds threshold of %.0f", *p.Volume, *t.Volume),
			})
		}

		if systems := p.DerivedSystemCount(); t.SystemCount != nil && systems > *t.SystemCount {
			opps = append(opps, models.Opportunity{
				ProcessID:      p.ID,
				Title:          fmt.Sprintf("Fragmented system landscape: %s", p.Name),
				Category:       models.CategoryStructural,
				Trigger:        models.TriggerSystemCount,
				EstimatedValue: fte,
				Note:           fmt.Sprintf("%d systems exceeds threshold of %d", systems, *t.SystemCount),
			})
		}
	}
	return opps
}
