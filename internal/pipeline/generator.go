// internal/pipeline/generator.go

// Package pipeline orchestrates the opportunity generation run: the three
// detectors in fixed order, factor resolution through an injected resolver,
// batch scoring, and an optional persistence hook.
package pipeline

import (
	"context"
	"time"

	"opportunity-engine/internal/common/logger"
	"opportunity-engine/internal/common/metrics"
	"opportunity-engine/internal/detectors/painpoint"
	"opportunity-engine/internal/detectors/structural"
	"opportunity-engine/internal/detectors/template"
	"opportunity-engine/internal/models"
	"opportunity-engine/internal/scoring"
)

// Signals bundles the raw inputs for one company.
type Signals struct {
	Processes  []models.ProcessSignal   `json:"processes"`
	PainPoints []models.PainPointSignal `json:"painPoints"`
	UseCases   []models.UseCaseSignal   `json:"useCases"`
}

// Resolver translates an opportunity into scoring factors. It is the only
// place with domain knowledge of that mapping; the scoring engine has none.
type Resolver interface {
	Resolve(opp models.Opportunity) models.Factors
}

// ResolverFunc adapts a plain function to the Resolver interface.
type ResolverFunc func(opp models.Opportunity) models.Factors

func (f ResolverFunc) Resolve(opp models.Opportunity) models.Factors { return f(opp) }

// Persister receives the full generated result. Its error is the pipeline's
// only failure mode and is propagated to the caller unwrapped.
type Persister interface {
	Persist(ctx context.Context, result *models.GeneratedResult) error
}

// PersistFunc adapts a plain function to the Persister interface.
type PersistFunc func(ctx context.Context, result *models.GeneratedResult) error

func (f PersistFunc) Persist(ctx context.Context, result *models.GeneratedResult) error {
	return f(ctx, result)
}

// Options configures a single GenerateAll call. Zero values fall back to the
// generator's defaults: construction-time thresholds, empty factors for every
// opportunity, and no persistence.
type Options struct {
	Thresholds *structural.Thresholds
	Resolver   Resolver
	Persister  Persister
}

// Generator runs the generation pipeline. It holds only the default
// thresholds and a logger, both fixed at construction, so one instance is
// safe to share across concurrent callers.
type Generator struct {
	thresholds *structural.Thresholds
	logger     logger.Logger
}

// NewGenerator creates a Generator with the given default thresholds. A nil
// thresholds argument means the built-in defaults; a nil logger disables
// logging.
func NewGenerator(log logger.Logger, defaults *structural.Thresholds) *Generator {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	if defaults == nil {
		defaults = structural.DefaultThresholds()
	}
	return &Generator{
		thresholds: defaults,
		logger:     log.WithFields(map[string]interface{}{"component": "pipeline"}),
	}
}

// GenerateAll runs the structural, pain-point and template detectors in that
// order, resolves and scores every opportunity, and hands the assembled
// result to the persister when one is supplied. Malformed signal data never
// fails the run; the only error returned is the persister's, verbatim, and
// no partial result accompanies it.
func (g *Generator) GenerateAll(ctx context.Context, companyID string, signals Signals, opts Options) (*models.GeneratedResult, error) {
	start := time.Now()

	thresholds := opts.Thresholds
	if thresholds == nil {
		thresholds = g.thresholds
	}

	structuralOpps := structural.Detect(signals.Processes, thresholds)
	painOpps := painpoint.Detect(signals.PainPoints)
	templateOpps := template.Detect(signals.UseCases, signals.PainPoints, signals.Processes)

	all := make([]models.Opportunity, 0, len(structuralOpps)+len(painOpps)+len(templateOpps))
	all = append(all, structuralOpps...)
	all = append(all, painOpps...)
	all = append(all, templateOpps...)

	factors := make([]models.Factors, len(all))
	if opts.Resolver != nil {
		for i, opp := range all {
			factors[i] = opts.Resolver.Resolve(opp)
		}
	}

	scores := scoring.ScoreAll(factors)

	scored := make([]models.ScoredOpportunity, len(all))
	for i, opp := range all {
		scored[i] = models.ScoredOpportunity{Opportunity: opp, Score: scores[i]}
	}

	result := &models.GeneratedResult{
		CompanyID:  companyID,
		Structural: structuralOpps,
		PainPoints: painOpps,
		Templates:  templateOpps,
		Scored:     scored,
	}

	for _, opp := range all {
		metrics.OpportunitiesGenerated.WithLabelValues(opp.Category).Inc()
	}
	metrics.PipelineDuration.Observe(time.Since(start).Seconds())

	g.logger.Info("opportunities generated", map[string]interface{}{
		"companyId":  companyID,
		"structural": len(structuralOpps),
		"painPoints": len(painOpps),
		"templates":  len(templateOpps),
		"durationMs": time.Since(start).Milliseconds(),
	})

	if opts.Persister != nil {
		if err := opts.Persister.Persist(ctx, result); err != nil {
			metrics.PersistFailures.Inc()
			metrics.PipelineRuns.WithLabelValues("persist_failed").Inc()
			g.logger.WithError(err).Error("persist failed", map[string]interface{}{
				"companyId": companyID,
			})
			return nil, err
		}
	}

	metrics.PipelineRuns.WithLabelValues("success").Inc()
	return result, nil
}
