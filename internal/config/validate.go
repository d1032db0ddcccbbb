package config

import (
	"errors"
	"fmt"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.Pipeline.BatchSize < 1 {
		return errors.New("pipeline.batch_size must be >= 1")
	}
	if c.Pipeline.MaxWorkers < 1 {
		return errors.New("pipeline.max_workers must be >= 1")
	}
	if c.Pipeline.SleepMin > c.Pipeline.SleepMax {
		return fmt.Errorf("pipeline.sleep_min (%v) cannot exceed sleep_max (%v)",
			c.Pipeline.SleepMin, c.Pipeline.SleepMax)
	}
	if c.Pipeline.Shards < 1 {
		return errors.New("pipeline.shards must be >= 1")
	}
	if c.Pipeline.ThisShard < 0 || c.Pipeline.ThisShard >= c.Pipeline.Shards {
		return fmt.Errorf("pipeline.this_shard must be in [0, %d), got %d",
			c.Pipeline.Shards, c.Pipeline.ThisShard)
	}

	if c.Quote.Retries < 1 {
		return errors.New("quote.retries must be >= 1")
	}

	if err := c.Database.validate("database"); err != nil {
		return err
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.IsProduction() && c.Server.CronSecret == "" {
		return errors.New("server.cron_secret is required in production")
	}

	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
