package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"repolens/internal/cache"
	"repolens/internal/config"
	"repolens/internal/engine"
	"repolens/internal/llm"
	"repolens/internal/logging"
	"repolens/internal/session"
	"repolens/internal/snapshot"
	"repolens/internal/tokens"
)

var (
	engineOnce   sync.Once
	sharedEngine *engine.Engine
	engineErr    error
)

// getEngine returns a shared engine instance, lazily initialized on
// first use. The reaper goroutines run for the process lifetime.
func getEngine(repoRoot string, logger *logging.Logger) (*engine.Engine, error) {
	engineOnce.Do(func() {
		cfg, err := config.LoadConfig(repoRoot)
		if err != nil {
			logger.Warn("Failed to load config, using defaults", logging.Fields{
				"error": err.Error(),
			})
			cfg = config.DefaultConfig()
		}

		snap, err := snapshot.New(repoRoot, snapshot.Options{
			Logger:      logger,
			MetadataTTL: time.Duration(cfg.Cache.MetadataTtlSeconds) * time.Second,
		})
		if err != nil {
			engineErr = fmt.Errorf("failed to open repository: %w", err)
			return
		}

		caches, err := cache.NewService(cache.Options{
			SelectionTTL: time.Duration(cfg.Cache.SelectionTtlSeconds) * time.Second,
			ContentTTL:   time.Duration(cfg.Cache.ContentTtlSeconds) * time.Second,
		})
		if err != nil {
			engineErr = fmt.Errorf("failed to build caches: %w", err)
			return
		}
		if interval := time.Duration(cfg.Cache.ReaperIntervalSecs) * time.Second; interval > 0 {
			caches.Selection.Store().StartReaper(context.Background(), interval)
			caches.Content.Store().StartReaper(context.Background(), interval)
		}

		var client llm.Client
		if key := os.Getenv("OPENAI_API_KEY"); key != "" {
			timeout := time.Duration(cfg.Model.TimeoutSeconds) * time.Second
			client, err = llm.NewOpenAI(key, cfg.Model.Name, timeout)
			if err != nil {
				engineErr = fmt.Errorf("failed to build model client: %w", err)
				return
			}
		}

		var store *session.Store
		if cfg.Session.Path != "" {
			store, err = session.Open(filepath.Join(repoRoot, cfg.Session.Path), logger)
			if err != nil {
				engineErr = fmt.Errorf("failed to open session store: %w", err)
				return
			}
		}

		sharedEngine, engineErr = engine.New(engine.Options{
			Snapshot: snap,
			Caches:   caches,
			Counter:  tokens.NewCounter(cfg.Model.Encoding),
			Config:   cfg,
			Logger:   logger,
			Client:   client,
			Sessions: store,
		})
	})

	return sharedEngine, engineErr
}

// mustGetEngine returns the shared engine or exits on error.
func mustGetEngine(repoRoot string, logger *logging.Logger) *engine.Engine {
	eng, err := getEngine(repoRoot, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing engine: %v\n", err)
		os.Exit(1)
	}
	return eng
}

// getRepoRoot returns the repository root directory.
func getRepoRoot() (string, error) {
	if repoFlag != "" {
		return repoFlag, nil
	}
	return os.Getwd()
}

// mustGetRepoRoot returns the repository root or exits on error.
func mustGetRepoRoot() string {
	repoRoot, err := getRepoRoot()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return repoRoot
}

// loggerConfigFor derives the logger configuration from the loaded
// config. JSON output implies JSON logs so the stream stays
// machine-readable regardless of the configured log format.
func loggerConfigFor(cfg *config.Config, format string) logging.Config {
	logFormat := logging.Format(cfg.Logging.Format)
	if format == string(FormatJSON) {
		logFormat = logging.JSONFormat
	}
	return logging.Config{
		Format: logFormat,
		Level:  logging.LogLevel(cfg.Logging.Level),
	}
}

// newLogger builds the per-command logger, honoring the repository's
// configured log level and format. Config load failures fall back to
// defaults; the logger must exist before anything can report them.
func newLogger(format string) *logging.Logger {
	cfg := config.DefaultConfig()
	if repoRoot, err := getRepoRoot(); err == nil {
		if loaded, err := config.LoadConfig(repoRoot); err == nil {
			cfg = loaded
		}
	}
	return logging.NewLogger(loggerConfigFor(cfg, format))
}
