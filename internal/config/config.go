// Package config holds the explicit runtime configuration for a pricer
// instance. All knobs come from the environment (the deployment platform's
// cron runner passes configuration that way); nothing else in the codebase
// reads ambient environment state.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config is the root configuration, built once at startup by FromEnv and
// passed into each component.
type Config struct {
	Env      string // "production" enables auth enforcement
	Pipeline PipelineConfig
	Quote    QuoteConfig
	Database DBConfig
	Server   ServerConfig
}

// PipelineConfig holds the fetch-and-update pipeline knobs.
type PipelineConfig struct {
	BatchSize  int           // codes per batch
	MaxWorkers int           // parallel fetches within a batch
	SleepMin   time.Duration // inter-batch jitter lower bound
	SleepMax   time.Duration // inter-batch jitter upper bound
	Shards     int           // total shard count across instances
	ThisShard  int           // this instance's shard index, 0..Shards-1
}

// QuoteConfig holds the external quote provider settings.
type QuoteConfig struct {
	BaseURL       string
	Timeout       time.Duration
	Retries       int           // fetch attempts per symbol
	RateLimitBase time.Duration // first extra wait after a rate-limit signal
}

// DBConfig holds the Postgres connection settings.
type DBConfig struct {
	Host     string
	Port     int
	Name     string
	User     string
	Password string
	CACert   string // PEM root certificate; empty disables TLS verification
	MaxConns int
	MinConns int

	WriteTimeout time.Duration // statement timeout for bulk price updates
}

// ServerConfig holds the trigger endpoint settings.
type ServerConfig struct {
	Port       int
	CronSecret string // bearer secret checked in production
}

// FromEnv builds a Config from environment variables, applies defaults,
// and validates the result.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Env: environment(),
		Pipeline: PipelineConfig{
			BatchSize:  envInt("YF_BATCH_SIZE", 0),
			MaxWorkers: envInt("YF_MAX_WORKERS", 0),
			SleepMin:   envSeconds("YF_SLEEP_MIN", -1),
			SleepMax:   envSeconds("YF_SLEEP_MAX", -1),
			Shards:     envInt("SHARDS", 0),
			ThisShard:  envInt("THIS_SHARD", 0),
		},
		Quote: QuoteConfig{
			BaseURL: os.Getenv("QUOTE_BASE_URL"),
			Retries: envInt("YF_RETRIES", 0),
		},
		Database: DBConfig{
			Host:     os.Getenv("POSTGRES_HOST"),
			Port:     envInt("POSTGRES_PORT", 0),
			Name:     os.Getenv("POSTGRES_DB"),
			User:     os.Getenv("POSTGRES_USER"),
			Password: os.Getenv("POSTGRES_PASSWORD"),
			CACert:   os.Getenv("POSTGRES_CA"),
		},
		Server: ServerConfig{
			Port:       envInt("PORT", 0),
			CronSecret: os.Getenv("CRON_SECRET"),
		},
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IsProduction reports whether this deployment should enforce trigger auth.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// environment resolves the deployment environment. The cron runner sets
// VERCEL_ENV; NODE_ENV is kept as a fallback for parity with the rest of
// the project's services.
func environment() string {
	if env := os.Getenv("VERCEL_ENV"); env != "" {
		return env
	}
	return os.Getenv("NODE_ENV")
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// envSeconds parses a float seconds value (e.g. "0.05") into a Duration.
func envSeconds(key string, fallback float64) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return time.Duration(fallback * float64(time.Second))
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return time.Duration(fallback * float64(time.Second))
	}
	return time.Duration(f * float64(time.Second))
}
