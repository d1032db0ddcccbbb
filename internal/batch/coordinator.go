// Package batch implements the Batch Coordinator component.
//
// The coordinator fans one batch of symbols out to the quote fetcher under a
// bounded worker count. Unavailable symbols shrink the result map; they never
// fail the batch.
package batch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// SymbolFetcher resolves a single symbol to a price, or reports it
// unavailable. Implementations must absorb their own errors.
type SymbolFetcher interface {
	Fetch(ctx context.Context, symbol string) (float64, bool)
}

// Coordinator fetches batches of symbols concurrently.
type Coordinator struct {
	fetcher SymbolFetcher
	workers int
	logger  *slog.Logger
}

// NewCoordinator creates a Coordinator. workers is the only parallelism
// boundary in the system; the fan-out never exceeds it.
func NewCoordinator(fetcher SymbolFetcher, workers int, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		fetcher: fetcher,
		workers: workers,
		logger:  logger,
	}
}

// FetchBatch resolves prices for all symbols in the batch. It returns only
// after every dispatched fetch has completed; symbols that resolved as
// unavailable are absent from the result.
func (c *Coordinator) FetchBatch(ctx context.Context, symbols []string) map[string]float64 {
	out := make(map[string]float64, len(symbols))
	if len(symbols) == 0 {
		return out
	}

	start := time.Now()

	var mu sync.Mutex
	g := new(errgroup.Group)
	g.SetLimit(c.workers)

	for _, symbol := range symbols {
		symbol := symbol
		g.Go(func() error {
			price, ok := c.fetcher.Fetch(ctx, symbol)
			if !ok {
				return nil
			}
			mu.Lock()
			out[symbol] = price
			mu.Unlock()
			return nil
		})
	}

	// Workers never return errors; Wait is purely the join point.
	_ = g.Wait()

	c.logger.Debug("batch fetched",
		"symbols", len(symbols),
		"resolved", len(out),
		"duration", time.Since(start),
	)

	return out
}
