// internal/storage/postgres.go

// Package storage provides the engine's persistence collaborators: a
// Postgres-backed signal store with a Redis read-through cache, a Postgres
// opportunity store implementing the pipeline's Persister port, and an
// Elasticsearch indexer for dashboard search.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	apperrors "opportunity-engine/internal/common/errors"
	"opportunity-engine/internal/common/logger"
	"opportunity-engine/internal/common/metrics"
	"opportunity-engine/internal/models"
	"opportunity-engine/internal/pipeline"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

// SignalStore loads company signals from Postgres, caching the assembled
// bundle in Redis for the configured TTL.
type SignalStore struct {
	db       *sql.DB
	cache    *redis.Client
	cacheTTL time.Duration
	logger   logger.Logger
}

func NewSignalStore(db *sql.DB, cache *redis.Client, cacheTTL time.Duration, log logger.Logger) *SignalStore {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &SignalStore{
		db:       db,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   log.WithFields(map[string]interface{}{"component": "signal-store"}),
	}
}

// Companies returns the ids of all companies that have recorded processes.
func (s *SignalStore) Companies(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT company_id FROM processes ORDER BY company_id`)
	if err != nil {
		return nil, apperrors.NewSignalLoadFailedError("*", err)
	}
	defer rows.Close()

	var companies []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, apperrors.NewSignalLoadFailedError("*", err)
		}
		companies = append(companies, id)
	}
	return companies, rows.Err()
}

// LoadSignals returns the process, pain-point and use-case signals for one
// company. A cached bundle is served when present; cache failures degrade to
// a direct database read.
func (s *SignalStore) LoadSignals(ctx context.Context, companyID string) (*pipeline.Signals, error) {
	cacheKey := "signals:" + companyID
	if s.cache != nil {
		if val, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var signals pipeline.Signals
			if err := json.Unmarshal([]byte(val), &signals); err == nil {
				return &signals, nil
			}
		}
	}

	processes, err := s.loadProcesses(ctx, companyID)
	if err != nil {
		return nil, apperrors.NewSignalLoadFailedError(companyID, err)
	}
	painPoints, err := s.loadPainPoints(ctx, companyID)
	if err != nil {
		return nil, apperrors.NewSignalLoadFailedError(companyID, err)
	}
	useCases, err := s.loadUseCases(ctx, companyID)
	if err != nil {
		return nil, apperrors.NewSignalLoadFailedError(companyID, err)
	}

	signals := &pipeline.Signals{
		Processes:  processes,
		PainPoints: painPoints,
		UseCases:   useCases,
	}

	metrics.SignalsLoaded.WithLabelValues("process").Add(float64(len(processes)))
	metrics.SignalsLoaded.WithLabelValues("painPoint").Add(float64(len(painPoints)))
	metrics.SignalsLoaded.WithLabelValues("useCase").Add(float64(len(useCases)))

	if s.cache != nil {
		if data, err := json.Marshal(signals); err == nil {
			if err := s.cache.Set(ctx, cacheKey, data, s.cacheTTL).Err(); err != nil {
				s.logger.Debug("signal cache write skipped", map[string]interface{}{
					"companyId": companyID,
					"error":     err.Error(),
				})
			}
		}
	}

	return signals, nil
}

func (s *SignalStore) loadProcesses(ctx context.Context, companyID string) ([]models.ProcessSignal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, fte, volume, process_type, system_count, systems_used
		FROM processes WHERE company_id = $1 ORDER BY id`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var processes []models.ProcessSignal
	for rows.Next() {
		var p models.ProcessSignal
		var fte, volume sql.NullFloat64
		var processType, systemsUsed sql.NullString
		var systemCount sql.NullInt64
		if err := rows.Scan(&p.ID, &p.Name, &fte, &volume, &processType, &systemCount, &systemsUsed); err != nil {
			return nil, err
		}
		if fte.Valid {
			v := fte.Float64
			p.FTE = &v
		}
		if volume.Valid {
			v := volume.Float64
			p.Volume = &v
		}
		p.Type = processType.String
		if systemCount.Valid {
			v := int(systemCount.Int64)
			p.SystemCount = &v
		}
		p.SystemsUsed = models.ParseSystemList(systemsUsed.String)
		processes = append(processes, p)
	}
	return processes, rows.Err()
}

func (s *SignalStore) loadPainPoints(ctx context.Context, companyID string) ([]models.PainPointSignal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, process_id, statement, category, frequency, magnitude, root_cause, workarounds
		FROM pain_points WHERE company_id = $1 ORDER BY id`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var painPoints []models.PainPointSignal
	for rows.Next() {
		var pp models.PainPointSignal
		var category, frequency, magnitude, rootCause, workarounds sql.NullString
		if err := rows.Scan(&pp.ID, &pp.ProcessID, &pp.Statement, &category, &frequency, &magnitude, &rootCause, &workarounds); err != nil {
			return nil, err
		}
		pp.Category = category.String
		pp.Frequency = frequency.String
		pp.Magnitude = magnitude.String
		pp.RootCause = rootCause.String
		pp.Workarounds = workarounds.String
		painPoints = append(painPoints, pp)
	}
	return painPoints, rows.Err()
}

func (s *SignalStore) loadUseCases(ctx context.Context, companyID string) ([]models.UseCaseSignal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, category, description
		FROM use_cases WHERE company_id = $1 ORDER BY id`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var useCases []models.UseCaseSignal
	for rows.Next() {
		var uc models.UseCaseSignal
		var category, description sql.NullString
		if err := rows.Scan(&uc.ID, &uc.Name, &category, &description); err != nil {
			return nil, err
		}
		uc.Category = category.String
		uc.Description = description.String
		useCases = append(useCases, uc)
	}
	return useCases, rows.Err()
}

// SaveSignals inserts a signal bundle for a company, skipping rows whose ids
// already exist. Used by the signal-loader tool.
func (s *SignalStore) SaveSignals(ctx context.Context, companyID string, signals *pipeline.Signals) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.NewSignalLoadFailedError(companyID, err)
	}
	defer tx.Rollback()

	for _, p := range signals.Processes {
		var fte, volume interface{}
		if p.FTE != nil {
			fte = *p.FTE
		}
		if p.Volume != nil {
			volume = *p.Volume
		}
		var systemCount interface{}
		if p.SystemCount != nil {
			systemCount = *p.SystemCount
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO processes (id, company_id, name, fte, volume, process_type, system_count, systems_used)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (id) DO NOTHING`,
			p.ID, companyID, p.Name, fte, volume, p.Type, systemCount, strings.Join(p.SystemsUsed, ","))
		if err != nil {
			return apperrors.NewSignalLoadFailedError(companyID, err)
		}
	}

	for _, pp := range signals.PainPoints {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO pain_points (id, company_id, process_id, statement, category, frequency, magnitude, root_cause, workarounds)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (id) DO NOTHING`,
			pp.ID, companyID, pp.ProcessID, pp.Statement, pp.Category, pp.Frequency, pp.Magnitude, pp.RootCause, pp.Workarounds)
		if err != nil {
			return apperrors.NewSignalLoadFailedError(companyID, err)
		}
	}

	for _, uc := range signals.UseCases {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO use_cases (id, company_id, name, category, description)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (id) DO NOTHING`,
			uc.ID, companyID, uc.Name, uc.Category, uc.Description)
		if err != nil {
			return apperrors.NewSignalLoadFailedError(companyID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewSignalLoadFailedError(companyID, err)
	}
	return nil
}

// OpportunityStore writes generated opportunities and their scores to
// Postgres. It implements pipeline.Persister.
type OpportunityStore struct {
	db     *sql.DB
	logger logger.Logger
}

func NewOpportunityStore(db *sql.DB, log logger.Logger) *OpportunityStore {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &OpportunityStore{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "opportunity-store"}),
	}
}

// Persist replaces the company's generated opportunities with the new result
// in one transaction. Each scored opportunity becomes one row with a fresh
// uuid; the detectors themselves stay deterministic.
func (s *OpportunityStore) Persist(ctx context.Context, result *models.GeneratedResult) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.NewOpportunityPersistError(err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM opportunities WHERE company_id = $1`, result.CompanyID); err != nil {
		return apperrors.NewOpportunityPersistError(err)
	}

	now := time.Now().UTC()
	for _, so := range result.Scored {
		opp := so.Opportunity
		_, err := tx.ExecContext(ctx, `
			INSERT INTO opportunities (
				id, company_id, process_id, use_case_id, pain_point_ids,
				title, description, category, trigger_kind, match_type, match_reference,
				estimated_value, score_value, score_effort, score_roi, score_confidence, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
			uuid.NewString(), result.CompanyID, opp.ProcessID, opp.UseCaseID, pq.Array(opp.PainPointIDs),
			opp.Title, opp.Description, opp.Category, opp.Trigger, opp.MatchType, opp.MatchReference,
			opp.EstimatedValue, so.Score.EstimatedValue, so.Score.EstimatedEffort, so.Score.ROI, so.Score.Confidence, now)
		if err != nil {
			return apperrors.NewOpportunityPersistError(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewOpportunityPersistError(err)
	}

	s.logger.Info("opportunities persisted", map[string]interface{}{
		"companyId": result.CompanyID,
		"count":     len(result.Scored),
	})
	return nil
}
