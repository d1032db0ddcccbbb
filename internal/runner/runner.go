// Package runner implements the Run Orchestrator.
//
// One run: load the eligible codes, keep this instance's shard, then walk the
// batches strictly in order — fetch, write, jitter sleep — summing updated
// rows. Batches commit independently, so a failure in batch N leaves batches
// 1..N-1 applied and reports the partial total.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/NatanRincker/ctrl-invest-pricer/internal/partition"
)

// CodeSource loads the eligible asset codes.
type CodeSource interface {
	LoadCodes(ctx context.Context) ([]string, error)
}

// BatchFetcher resolves a batch of symbols to prices.
type BatchFetcher interface {
	FetchBatch(ctx context.Context, symbols []string) map[string]float64
}

// PriceWriter persists a batch's resolved prices.
type PriceWriter interface {
	UpdatePrices(ctx context.Context, prices map[string]float64) (int, error)
}

// SleepFunc suspends between batches; tests substitute it.
type SleepFunc func(ctx context.Context, d time.Duration)

func realSleep(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}

// Config holds the orchestration knobs.
type Config struct {
	BatchSize int
	Shards    int
	ThisShard int
	SleepMin  time.Duration // inter-batch jitter lower bound
	SleepMax  time.Duration // inter-batch jitter upper bound
}

// Result is the outcome of one run.
type Result struct {
	TotalUpdated int
	Shard        int
	ShardCount   int
}

// Runner drives one price-refresh run.
type Runner struct {
	cfg     Config
	codes   CodeSource
	fetcher BatchFetcher
	writer  PriceWriter
	sleep   SleepFunc
	logger  *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithSleep substitutes the inter-batch sleep implementation.
func WithSleep(sleep SleepFunc) Option {
	return func(r *Runner) {
		r.sleep = sleep
	}
}

// New creates a Runner.
func New(cfg Config, codes CodeSource, fetcher BatchFetcher, writer PriceWriter, logger *slog.Logger, opts ...Option) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Runner{
		cfg:     cfg,
		codes:   codes,
		fetcher: fetcher,
		writer:  writer,
		sleep:   realSleep,
		logger:  logger,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Run executes one refresh. On a storage failure it aborts the remaining
// batches — a broken connection is unlikely to recover mid-run — and returns
// the error together with the partial total from the batches that committed.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	result := Result{Shard: r.cfg.ThisShard, ShardCount: r.cfg.Shards}

	runID := uuid.NewString()
	logger := r.logger.With("run_id", runID)
	start := time.Now()

	codes, err := r.codes.LoadCodes(ctx)
	if err != nil {
		return result, fmt.Errorf("load codes: %w", err)
	}

	codes = partition.FilterShard(codes, r.cfg.Shards, r.cfg.ThisShard)
	batches := partition.Batches(codes, r.cfg.BatchSize)

	logger.Info("run started",
		"codes", len(codes),
		"batches", len(batches),
		"shard", r.cfg.ThisShard,
		"shard_count", r.cfg.Shards,
	)

	for i, batch := range batches {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		prices := r.fetcher.FetchBatch(ctx, batch)

		if len(prices) > 0 {
			n, err := r.writer.UpdatePrices(ctx, prices)
			if err != nil {
				logger.Error("batch write failed",
					"batch", i,
					"codes", len(batch),
					"error", err,
				)
				return result, fmt.Errorf("write batch %d: %w", i, err)
			}
			result.TotalUpdated += n
		}

		logger.Info("batch complete",
			"batch", i,
			"codes", len(batch),
			"resolved", len(prices),
			"total_updated", result.TotalUpdated,
		)

		// Jitter between batches paces the provider; it is a throttle,
		// not error recovery.
		if i < len(batches)-1 {
			r.sleep(ctx, r.jitter())
		}
	}

	logger.Info("run complete",
		"total_updated", result.TotalUpdated,
		"duration", time.Since(start),
	)

	return result, nil
}

// jitter picks a uniform duration in [SleepMin, SleepMax].
func (r *Runner) jitter() time.Duration {
	if r.cfg.SleepMax <= r.cfg.SleepMin {
		return r.cfg.SleepMin
	}
	spread := r.cfg.SleepMax - r.cfg.SleepMin
	return r.cfg.SleepMin + time.Duration(rand.Int63n(int64(spread)))
}
