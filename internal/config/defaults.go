package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultBatchSize     = 400 // ~15 batches for a 6k universe
	DefaultMaxWorkers    = 24
	DefaultRetries       = 3
	DefaultSleepMin      = 50 * time.Millisecond
	DefaultSleepMax      = 200 * time.Millisecond
	DefaultShards        = 1
	DefaultQuoteBaseURL  = "https://query1.finance.yahoo.com"
	DefaultQuoteTimeout  = 10 * time.Second
	DefaultRateLimitBase = 1 * time.Second
	DefaultDBPort        = 5432
	DefaultMaxConns      = 4
	DefaultMinConns      = 1
	DefaultWriteTimeout  = 120 * time.Second
	DefaultServerPort    = 8080
)

func (c *Config) applyDefaults() {
	// Pipeline defaults
	if c.Pipeline.BatchSize == 0 {
		c.Pipeline.BatchSize = DefaultBatchSize
	}
	if c.Pipeline.MaxWorkers == 0 {
		c.Pipeline.MaxWorkers = DefaultMaxWorkers
	}
	if c.Pipeline.SleepMin < 0 {
		c.Pipeline.SleepMin = DefaultSleepMin
	}
	if c.Pipeline.SleepMax < 0 {
		c.Pipeline.SleepMax = DefaultSleepMax
	}
	if c.Pipeline.Shards == 0 {
		c.Pipeline.Shards = DefaultShards
	}

	// Quote provider defaults
	if c.Quote.BaseURL == "" {
		c.Quote.BaseURL = DefaultQuoteBaseURL
	}
	if c.Quote.Timeout == 0 {
		c.Quote.Timeout = DefaultQuoteTimeout
	}
	if c.Quote.Retries == 0 {
		c.Quote.Retries = DefaultRetries
	}
	if c.Quote.RateLimitBase == 0 {
		c.Quote.RateLimitBase = DefaultRateLimitBase
	}

	// Database defaults
	if c.Database.Port == 0 {
		c.Database.Port = DefaultDBPort
	}
	if c.Database.MaxConns == 0 {
		c.Database.MaxConns = DefaultMaxConns
	}
	if c.Database.MinConns == 0 {
		c.Database.MinConns = DefaultMinConns
	}
	if c.Database.WriteTimeout == 0 {
		c.Database.WriteTimeout = DefaultWriteTimeout
	}

	// Server defaults
	if c.Server.Port == 0 {
		c.Server.Port = DefaultServerPort
	}
}
