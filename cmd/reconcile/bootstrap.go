package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"trade-reconciler/internal/broker/brokerobs"
	"trade-reconciler/internal/broker/zerodha"
	"trade-reconciler/internal/cache"
	"trade-reconciler/internal/engine"
	"trade-reconciler/internal/engine/engineobs"
	"trade-reconciler/internal/instrument"
	"trade-reconciler/internal/interfaces"
	"trade-reconciler/internal/logger"
	"trade-reconciler/internal/report"
	"trade-reconciler/internal/report/reportobs"
	"trade-reconciler/internal/store"
	"trade-reconciler/internal/trace"
	"trade-reconciler/internal/tradelog"

	"github.com/joho/godotenv"
)

// initializeSystem initializes logger and tracer
func initializeSystem() error {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}
	return nil
}

func shutdownTracer() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = trace.Shutdown(ctx)
}

// loadConfig loads the config file, or the built-in defaults when path is empty
func loadConfig(ctx context.Context, path string) (*store.Config, error) {
	if path == "" {
		return store.Default(), nil
	}
	cfg, err := store.LoadConfig(path)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err, "path", path)
		return nil, err
	}
	return cfg, nil
}

// initializeTicks builds the futures tick table with configured overrides
func initializeTicks(ctx context.Context, cfg *store.Config) (*instrument.Table, error) {
	overrides, err := cfg.TickOverrides()
	if err != nil {
		return nil, err
	}
	if len(overrides) > 0 {
		logger.Info(ctx, "Futures tick overrides loaded", "count", len(overrides))
	}
	return instrument.NewTable(overrides), nil
}

// initializeMatcher returns the FIFO matcher with observability
func initializeMatcher(ticks *instrument.Table) interfaces.Matcher {
	return engineobs.Wrap(engine.New(ticks))
}

// initializeSummarizer returns the CSV summary writer with observability
func initializeSummarizer(cfg *store.Config) interfaces.Summarizer {
	return reportobs.Wrap(report.NewSummarizer(cfg.Output.Dir))
}

// initializeJournal opens the trade journal when enabled and compresses old days
func initializeJournal(ctx context.Context, cfg *store.Config) *tradelog.Journal {
	if !cfg.Output.Journal {
		return nil
	}
	j := tradelog.New(filepath.Join(cfg.Output.Dir, "journal"))
	if err := j.CompressOlder(cfg.Output.CompressAfterDays); err != nil {
		logger.Warn(ctx, "Failed to compress old journal files", "error", err)
	}
	return j
}

// initializeBroker returns the Kite tradebook source with observability
func initializeBroker(cfg *store.Config) (interfaces.TableSource, error) {
	tb, err := zerodha.NewTradebook(os.Getenv(cfg.Kite.APIKeyEnv), os.Getenv(cfg.Kite.AccessTokenEnv))
	if err != nil {
		return nil, fmt.Errorf("kite tradebook (%s/%s): %w", cfg.Kite.APIKeyEnv, cfg.Kite.AccessTokenEnv, err)
	}
	return brokerobs.Wrap(tb), nil
}

// initializeCache builds the import result cache for the HTTP API
func initializeCache(cfg *store.Config) (*cache.Cache, error) {
	ttl := time.Duration(cfg.Server.CacheTTLSeconds) * time.Second
	c, err := cache.New(cfg.Server.CacheMaxCost, ttl)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache: %w", err)
	}
	return c, nil
}
