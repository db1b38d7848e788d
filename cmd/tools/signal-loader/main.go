// cmd/tools/signal-loader/main.go

// signal-loader imports a JSON signal bundle for one company into Postgres,
// validating it against the boundary schema first.
//
// Usage: signal-loader -company acme-corp -file signals.json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"time"

	"go.uber.org/zap"

	"opportunity-engine/internal/common/config"
	"opportunity-engine/internal/common/database"
	"opportunity-engine/internal/common/logger"
	"opportunity-engine/internal/common/validation"
	"opportunity-engine/internal/pipeline"
	"opportunity-engine/internal/storage"
)

func main() {
	companyID := flag.String("company", "", "company id to load signals for")
	file := flag.String("file", "", "path to the signal bundle JSON file")
	flag.Parse()

	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	if *companyID == "" || *file == "" {
		zapLog.Fatal("both -company and -file are required")
	}

	data, err := os.ReadFile(*file)
	if err != nil {
		zapLog.Fatal("failed to read signal file", zap.Error(err))
	}

	// Validate the raw document before trusting its shape.
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		zapLog.Fatal("signal file is not valid JSON", zap.Error(err))
	}
	result, err := validation.ValidateSignalBundle(raw)
	if err != nil {
		zapLog.Fatal("schema validation failed to run", zap.Error(err))
	}
	if !result.Valid {
		zapLog.Fatal("signal bundle failed validation",
			zap.Strings("errors", result.Errors),
		)
	}

	var signals pipeline.Signals
	if err := json.Unmarshal(data, &signals); err != nil {
		zapLog.Fatal("failed to decode signal bundle", zap.Error(err))
	}

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		zapLog.Fatal("postgres connection failed", zap.Error(err))
	}
	defer pg.Close()
	if err := pg.Ping(ctx); err != nil {
		zapLog.Fatal("postgres ping failed", zap.Error(err))
	}

	store := storage.NewSignalStore(pg.DB, nil, 0, logger.NewZapAdapter(zapLog))
	if err := store.SaveSignals(ctx, *companyID, &signals); err != nil {
		zapLog.Fatal("failed to save signals", zap.Error(err))
	}

	zapLog.Info("signal bundle loaded",
		zap.String("companyId", *companyID),
		zap.Int("processes", len(signals.Processes)),
		zap.Int("painPoints", len(signals.PainPoints)),
		zap.Int("useCases", len(signals.UseCases)),
	)
}
