// cmd/opportunity-engine/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	awsclients "opportunity-engine/internal/common/aws"
	"opportunity-engine/internal/common/config"
	"opportunity-engine/internal/common/database"
	"opportunity-engine/internal/common/logger"
	"opportunity-engine/internal/common/observability"
	"opportunity-engine/internal/detectors/structural"
	"opportunity-engine/internal/notify"
	"opportunity-engine/internal/pipeline"
	"opportunity-engine/internal/scoring"
	"opportunity-engine/internal/storage"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New("info", "console")
		fallback.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting opportunity engine...",
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New("opportunity-engine")
	defer obs.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()

	// --- Init Redis with retry ---
	var rdb *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		rdb, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return rdb.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer rdb.Close()

	signalStore := storage.NewSignalStore(pg.DB, rdb.Client, time.Duration(cfg.Engine.SignalCacheTTL)*time.Second, log)
	opportunityStore := storage.NewOpportunityStore(pg.DB, log)

	persisters := storage.MultiPersister{opportunityStore}

	// --- Optional Elasticsearch indexer ---
	if cfg.Database.Elasticsearch.Enabled {
		var es *database.ElasticsearchClient
		err = retryWithBackoff(func() error {
			var err error
			es, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return es.Ping()
		}, 10, 2*time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		persisters = append(persisters, storage.NewIndexer(es.Client, cfg.Database.Elasticsearch.Index, log))
	}

	// --- Optional SNS/SES alerting ---
	var notifier *notify.Notifier
	if cfg.Notifications.Enabled {
		var publisher notify.Publisher
		var sender notify.EmailSender

		if cfg.Notifications.AWS.SNS.Enabled {
			snsClient, err := awsclients.NewSNSClient(ctx, cfg.Notifications.AWS.Region)
			if err != nil {
				zapLog.Fatal("sns client failed", zap.Error(err))
			}
			publisher = snsClient
		}
		if cfg.Notifications.AWS.SES.Enabled {
			sesClient, err := awsclients.NewSESClient(ctx, cfg.Notifications.AWS.Region)
			if err != nil {
				zapLog.Fatal("ses client failed", zap.Error(err))
			}
			sender = sesClient
		}

		notifier = notify.New(notify.Config{
			MinROI:        cfg.Notifications.MinROI,
			MinConfidence: cfg.Notifications.MinConfidence,
			TopicARN:      cfg.Notifications.AWS.SNS.TopicARN,
			FromEmail:     cfg.Notifications.AWS.SES.FromEmail,
			ToEmails:      cfg.Notifications.AWS.SES.ToEmails,
		}, publisher, sender, log)
	}

	fte := cfg.Detection.FTEThreshold
	volume := cfg.Detection.VolumeThreshold
	systems := cfg.Detection.SystemCountThreshold
	generator := pipeline.NewGenerator(log, &structural.Thresholds{
		FTE:         &fte,
		Volume:      &volume,
		SystemCount: &systems,
	})

	// --- Metrics endpoint ---
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	metricsSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Metrics.Port),
		Handler: mux,
	}
	go func() {
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Error("metrics server failed", zap.Error(err))
		}
	}()

	sweep := func() {
		companies, err := signalStore.Companies(ctx)
		if err != nil {
			log.WithError(err).Error("company listing failed", nil)
			return
		}

		for _, companyID := range companies {
			start := time.Now()

			signals, err := signalStore.LoadSignals(ctx, companyID)
			if err != nil {
				log.WithError(err).Error("signal load failed", map[string]interface{}{
					"companyId": companyID,
				})
				obs.RecordRun(ctx, "load_failed")
				continue
			}

			result, err := generator.GenerateAll(ctx, companyID, *signals, pipeline.Options{
				Resolver:  scoring.NewSignalResolver(signals.Processes),
				Persister: persisters,
			})
			if err != nil {
				log.WithError(err).Error("generation failed", map[string]interface{}{
					"companyId": companyID,
				})
				obs.RecordRun(ctx, "failed")
				obs.RecordRunDuration(ctx, time.Since(start), "failed")
				continue
			}

			if notifier != nil {
				if err := notifier.AlertHighValue(ctx, result); err != nil {
					log.WithError(err).Warn("alert delivery failed", map[string]interface{}{
						"companyId": companyID,
					})
				}
			}

			obs.RecordRun(ctx, "success")
			obs.RecordRunDuration(ctx, time.Since(start), "success")
		}
	}

	sweep()
	if cfg.Engine.RunOnce {
		zapLog.Info("run-once sweep complete, shutting down")
		metricsSrv.Shutdown(context.Background())
		return
	}

	ticker := time.NewTicker(time.Duration(cfg.Engine.SweepInterval) * time.Second)
	defer ticker.Stop()

	zapLog.Info("opportunity engine running",
		zap.Int("sweepIntervalSeconds", cfg.Engine.SweepInterval),
		zap.Int("metricsPort", cfg.Metrics.Port),
	)

	for {
		select {
		case <-ticker.C:
			sweep()
		case <-ctx.Done():
			zapLog.Info("shutdown signal received")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			metricsSrv.Shutdown(shutdownCtx)
			return
		}
	}
}
