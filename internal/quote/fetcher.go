package quote

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"time"
)

// PriceSource resolves a single symbol's last-trade price.
type PriceSource interface {
	LastPrice(ctx context.Context, symbol string) (float64, error)
}

// SleepFunc suspends the caller for d or until ctx is done. Tests substitute
// a recording implementation to observe backoff behavior.
type SleepFunc func(ctx context.Context, d time.Duration)

func realSleep(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}

// Fetcher resolves one symbol with retries. All errors are absorbed here:
// the caller sees a price or "unavailable", never an error.
type Fetcher struct {
	src           PriceSource
	retries       int
	rateLimitBase time.Duration
	sleep         SleepFunc
	logger        *slog.Logger
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// NewFetcher creates a Fetcher over the given price source.
func NewFetcher(src PriceSource, retries int, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		src:           src,
		retries:       retries,
		rateLimitBase: time.Second,
		sleep:         realSleep,
		logger:        slog.Default(),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// WithRateLimitBase sets the first extra wait applied after a rate-limit
// signal. The wait grows fivefold on each rate-limited attempt.
func WithRateLimitBase(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.rateLimitBase = d
	}
}

// WithSleep substitutes the sleep implementation.
func WithSleep(sleep SleepFunc) FetcherOption {
	return func(f *Fetcher) {
		f.sleep = sleep
	}
}

// WithFetcherLogger sets the logger.
func WithFetcherLogger(logger *slog.Logger) FetcherOption {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// Fetch resolves the last-trade price for symbol. It retries on any failure,
// including non-positive prices, up to the configured attempt count. The
// second return value is false when the symbol ends up unavailable.
func (f *Fetcher) Fetch(ctx context.Context, symbol string) (float64, bool) {
	rateLimitDelay := f.rateLimitBase

	for attempt := 1; attempt <= f.retries; attempt++ {
		price, err := f.src.LastPrice(ctx, symbol)
		if err == nil && price > 0 {
			return price, true
		}

		outcome := "no_price"
		if err != nil {
			outcome = "error"
		}

		if attempt == f.retries {
			f.logger.Debug("symbol unavailable",
				"symbol", symbol,
				"attempts", attempt,
				"outcome", outcome,
			)
			break
		}

		// Rate-limit signals get an extra, much longer wait before the
		// ordinary backoff; the provider has already told us to slow down.
		var provErr *ProviderError
		if errors.As(err, &provErr) && provErr.IsRateLimit() {
			f.logger.Warn("provider rate limited",
				"symbol", symbol,
				"attempt", attempt,
				"delay", rateLimitDelay,
			)
			f.sleep(ctx, rateLimitDelay)
			rateLimitDelay *= 5
		}

		delay := retryDelay(attempt)
		f.logger.Debug("retrying symbol",
			"symbol", symbol,
			"attempt", attempt,
			"outcome", outcome,
			"delay", delay,
		)
		f.sleep(ctx, delay)

		if ctx.Err() != nil {
			return 0, false
		}
	}

	return 0, false
}

// retryDelay computes the ordinary backoff between attempts:
// min(0.25*attempt + jitter(0, 0.25), 1.0) seconds.
func retryDelay(attempt int) time.Duration {
	seconds := 0.25*float64(attempt) + rand.Float64()*0.25
	if seconds > 1.0 {
		seconds = 1.0
	}
	return time.Duration(seconds * float64(time.Second))
}
