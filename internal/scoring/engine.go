// internal/scoring/engine.go
package scoring

import (
	"math"

	"opportunity-engine/internal/models"
)

// Factor names, used as keys in the DataCompleteness override map.
const (
	FactorFTEHoursSaved          = "fteHoursSaved"
	FactorErrorCostAvoided       = "errorCostAvoided"
	FactorComplexityScore        = "complexityScore"
	FactorSystemIntegrationDepth = "systemIntegrationDepth"
)

// Confidence weights per factor. Value factors carry more weight than effort
// factors; the weights sum to 1.0 so that with no overrides the confidence
// equals the weighted fraction of factors actually supplied.
var factorWeights = map[string]float64{
	FactorFTEHoursSaved:          0.35,
	FactorErrorCostAvoided:       0.35,
	FactorComplexityScore:        0.15,
	FactorSystemIntegrationDepth: 0.15,
}

// Score computes value, effort, ROI and confidence for one set of factors.
// Absent or non-finite factors contribute 0 to value/effort. ROI is exactly 0
// when effort is 0; this never divides by zero and never errors.
func Score(f models.Factors) models.Score {
	value := normalize(f.FTEHoursSaved) + normalize(f.ErrorCostAvoided)
	effort := normalize(f.ComplexityScore) + normalize(f.SystemIntegrationDepth)

	roi := 0.0
	if effort > 0 {
		roi = value / effort
	}

	return models.Score{
		EstimatedValue:  value,
		EstimatedEffort: effort,
		ROI:             roi,
		Confidence:      confidence(f),
	}
}

// ScoreAll scores a batch of factors, preserving input order.
func ScoreAll(factors []models.Factors) []models.Score {
	scores := make([]models.Score, len(factors))
	for i, f := range factors {
		scores[i] = Score(f)
	}
	return scores
}

func normalize(v *float64) float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return 0
	}
	return *v
}

// confidence is the weighted average of per-factor completeness, clamped to
// [0,1]. Completeness per factor is the explicit DataCompleteness override
// when provided (clamped), else 1 when the factor is supplied and 0 when it
// is absent.
func confidence(f models.Factors) float64 {
	totalWeight := 0.0
	weighted := 0.0
	for name, weight := range factorWeights {
		totalWeight += weight
		weighted += weight * completeness(f, name)
	}
	if totalWeight == 0 {
		return 0
	}
	return clamp(weighted/totalWeight, 0, 1)
}

func completeness(f models.Factors, name string) float64 {
	if override, ok := f.DataCompleteness[name]; ok {
		return clamp(override, 0, 1)
	}
	if factorValue(f, name) != nil {
		return 1
	}
	return 0
}

func factorValue(f models.Factors, name string) *float64 {
	switch name {
	case FactorFTEHoursSaved:
		return f.FTEHoursSaved
	case FactorErrorCostAvoided:
		return f.ErrorCostAvoided
	case FactorComplexityScore:
		return f.ComplexityScore
	case FactorSystemIntegrationDepth:
		return f.SystemIntegrationDepth
	}
	return nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
