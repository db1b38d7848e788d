// internal/pipeline/generator_test.go
package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opportunity-engine/internal/common/logger"
	"opportunity-engine/internal/detectors/structural"
	"opportunity-engine/internal/models"
	"opportunity-engine/internal/scoring"
)

// ==========================
// Test Helper Functions
// ==========================

func floatPtr(v float64) *float64 { return &v }

func createGenerator(t *testing.T) *Generator {
	return NewGenerator(logger.NewTestLogger(t), nil)
}

// endToEndSignals is the canonical end-to-end fixture: one process over the
// fte threshold, one high/high pain point on it, one solution sharing the
// pain point's category.
func endToEndSignals() Signals {
	return Signals{
		Processes: []models.ProcessSignal{
			{ID: "p-1", Name: "Invoice Processing", FTE: floatPtr(8)},
		},
		PainPoints: []models.PainPointSignal{
			{
				ID:        "pp-1",
				ProcessID: "p-1",
				Statement: "invoices rekeyed by hand",
				Category:  "document processing",
				Frequency: "high",
				Magnitude: "high",
			},
		},
		UseCases: []models.UseCaseSignal{
			{ID: "uc-1", Name: "OCR Intake Bot", Category: "document processing"},
		},
	}
}

type capturingPersister struct {
	captured *models.GeneratedResult
	err      error
}

func (p *capturingPersister) Persist(_ context.Context, result *models.GeneratedResult) error {
	if p.err != nil {
		return p.err
	}
	p.captured = result
	return nil
}

// ==========================
// Core Functionality Tests
// ==========================

func TestGenerateAll_EndToEnd(t *testing.T) {
	gen := createGenerator(t)

	result, err := gen.GenerateAll(context.Background(), "acme", endToEndSignals(), Options{
		Resolver: ResolverFunc(func(models.Opportunity) models.Factors {
			return models.Factors{}
		}),
	})

	require.NoError(t, err)
	assert.Equal(t, "acme", result.CompanyID)
	assert.Len(t, result.Structural, 1)
	assert.Len(t, result.PainPoints, 1)
	assert.Len(t, result.Templates, 1)

	require.Len(t, result.Scored, 3)
	for _, so := range result.Scored {
		assert.Equal(t, 0.0, so.Score.Confidence, "empty factors mean zero confidence")
	}
}

func TestGenerateAll_ScoredOrderMatchesConcatenation(t *testing.T) {
	gen := createGenerator(t)

	result, err := gen.GenerateAll(context.Background(), "acme", endToEndSignals(), Options{})
	require.NoError(t, err)

	require.Len(t, result.Scored, 3)
	assert.Equal(t, result.Structural[0], result.Scored[0].Opportunity)
	assert.Equal(t, result.PainPoints[0], result.Scored[1].Opportunity)
	assert.Equal(t, result.Templates[0], result.Scored[2].Opportunity)
}

func TestGenerateAll_ResolverDrivesScores(t *testing.T) {
	gen := createGenerator(t)

	var resolved []models.Opportunity
	result, err := gen.GenerateAll(context.Background(), "acme", endToEndSignals(), Options{
		Resolver: ResolverFunc(func(opp models.Opportunity) models.Factors {
			resolved = append(resolved, opp)
			return models.Factors{
				FTEHoursSaved:          floatPtr(10),
				ErrorCostAvoided:       floatPtr(5),
				ComplexityScore:        floatPtr(2),
				SystemIntegrationDepth: floatPtr(1),
			}
		}),
	})

	require.NoError(t, err)
	assert.Len(t, resolved, 3, "resolver invoked once per opportunity")
	for _, so := range result.Scored {
		assert.Equal(t, 5.0, so.Score.ROI)
		assert.Equal(t, 1.0, so.Score.Confidence)
	}
}

func TestGenerateAll_SignalResolverIntegration(t *testing.T) {
	gen := createGenerator(t)
	signals := endToEndSignals()

	result, err := gen.GenerateAll(context.Background(), "acme", signals, Options{
		Resolver: scoring.NewSignalResolver(signals.Processes),
	})

	require.NoError(t, err)
	for _, so := range result.Scored {
		assert.Equal(t, 8.0*160, so.Score.EstimatedValue)
		assert.InDelta(t, 0.35, so.Score.Confidence, 1e-9, "only hours saved is derivable for this process")
	}
}

func TestGenerateAll_NoResolverMeansEmptyFactors(t *testing.T) {
	gen := createGenerator(t)

	result, err := gen.GenerateAll(context.Background(), "acme", endToEndSignals(), Options{})

	require.NoError(t, err)
	for _, so := range result.Scored {
		assert.Equal(t, models.Score{}, so.Score)
	}
}

func TestGenerateAll_PerCallThresholdOverride(t *testing.T) {
	gen := createGenerator(t)
	signals := Signals{
		Processes: []models.ProcessSignal{
			{ID: "p-1", Name: "Small Team", FTE: floatPtr(3)},
		},
	}

	// Defaults would not fire for fte=3.
	base, err := gen.GenerateAll(context.Background(), "acme", signals, Options{})
	require.NoError(t, err)
	assert.Empty(t, base.Structural)

	lowered, err := gen.GenerateAll(context.Background(), "acme", signals, Options{
		Thresholds: &structural.Thresholds{FTE: floatPtr(2)},
	})
	require.NoError(t, err)
	assert.Len(t, lowered.Structural, 1)
}

func TestGenerateAll_PersistReceivesFullResult(t *testing.T) {
	gen := createGenerator(t)
	persister := &capturingPersister{}

	result, err := gen.GenerateAll(context.Background(), "acme", endToEndSignals(), Options{
		Persister: persister,
	})

	require.NoError(t, err)
	require.NotNil(t, persister.captured)
	assert.Equal(t, result, persister.captured)
}

func TestGenerateAll_PersistFailurePropagatesVerbatim(t *testing.T) {
	gen := createGenerator(t)
	sentinel := errors.New("write refused")

	result, err := gen.GenerateAll(context.Background(), "acme", endToEndSignals(), Options{
		Persister: &capturingPersister{err: sentinel},
	})

	assert.Nil(t, result, "no partial result on persistence failure")
	assert.Same(t, sentinel, err, "persist error is neither wrapped nor retried")
}

func TestGenerateAll_EmptySignals(t *testing.T) {
	gen := createGenerator(t)

	result, err := gen.GenerateAll(context.Background(), "acme", Signals{}, Options{})

	require.NoError(t, err)
	assert.Empty(t, result.Structural)
	assert.Empty(t, result.PainPoints)
	assert.Empty(t, result.Templates)
	assert.Empty(t, result.Scored)
}

func TestGenerator_ConcurrentCalls(t *testing.T) {
	gen := createGenerator(t)
	signals := endToEndSignals()

	done := make(chan error, 8)
	for i := 0; i < 8; i++ {
		go func() {
			_, err := gen.GenerateAll(context.Background(), "acme", signals, Options{})
			done <- err
		}()
	}
	for i := 0; i < 8; i++ {
		assert.NoError(t, <-done)
	}
}
