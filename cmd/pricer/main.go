package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/NatanRincker/ctrl-invest-pricer/internal/auth"
	"github.com/NatanRincker/ctrl-invest-pricer/internal/batch"
	"github.com/NatanRincker/ctrl-invest-pricer/internal/config"
	"github.com/NatanRincker/ctrl-invest-pricer/internal/database"
	"github.com/NatanRincker/ctrl-invest-pricer/internal/partition"
	"github.com/NatanRincker/ctrl-invest-pricer/internal/quote"
	"github.com/NatanRincker/ctrl-invest-pricer/internal/runner"
	"github.com/NatanRincker/ctrl-invest-pricer/internal/server"
	"github.com/NatanRincker/ctrl-invest-pricer/internal/store"
	"github.com/NatanRincker/ctrl-invest-pricer/internal/version"
)

func main() {
	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("starting pricer",
		"version", version.Version,
		"commit", version.Commit,
	)

	// Outside production, knobs may come from a local env file.
	if os.Getenv("VERCEL_ENV") != "production" && os.Getenv("NODE_ENV") != "production" {
		if err := godotenv.Load(".env.development"); err != nil && !os.IsNotExist(err) {
			logger.Warn("failed to load .env.development", "error", err)
		}
	}

	cfg, err := config.FromEnv()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"env", cfg.Env,
		"batch_size", cfg.Pipeline.BatchSize,
		"max_workers", cfg.Pipeline.MaxWorkers,
		"shard", cfg.Pipeline.ThisShard,
		"shard_count", cfg.Pipeline.Shards,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Connect to database
	logger.Info("connecting to database",
		"host", cfg.Database.Host,
		"port", cfg.Database.Port,
		"database", cfg.Database.Name,
	)

	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	logger.Info("database connected")

	// Assemble the pipeline
	client := quote.NewClient(cfg.Quote.BaseURL,
		quote.WithTimeout(cfg.Quote.Timeout),
		quote.WithLogger(logger),
	)
	fetcher := quote.NewFetcher(client, cfg.Quote.Retries,
		quote.WithRateLimitBase(cfg.Quote.RateLimitBase),
		quote.WithFetcherLogger(logger),
	)
	coordinator := batch.NewCoordinator(fetcher, cfg.Pipeline.MaxWorkers, logger)
	writer := store.NewWriter(pool, cfg.Database.WriteTimeout, logger)
	source := partition.NewSource(pool)

	runs := runner.New(runner.Config{
		BatchSize: cfg.Pipeline.BatchSize,
		Shards:    cfg.Pipeline.Shards,
		ThisShard: cfg.Pipeline.ThisShard,
		SleepMin:  cfg.Pipeline.SleepMin,
		SleepMax:  cfg.Pipeline.SleepMax,
	}, source, coordinator, writer, logger)

	gate := auth.NewGate(cfg.Server.CronSecret, cfg.IsProduction())

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: server.New(gate, runs, logger),
	}

	go func() {
		logger.Info("trigger server listening", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("server shutdown timed out", "error", err)
	}

	logger.Info("pricer stopped")
}
