// Package config handles application configuration from environment variables
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds all application configuration
type Config struct {
	DatabaseURL string `env:"DATABASE_URL" envDefault:"postgres://localhost:5432/ridestats"`
	RedisAddr   string `env:"REDIS_ADDR" envDefault:"127.0.0.1:6379"`
	Port        string `env:"PORT" envDefault:"8080"`
	DataDir     string `env:"DATA_DIR" envDefault:"./data"`
	HRMax       int    `env:"HR_MAX" envDefault:"185"`
	SweepCron   string `env:"SWEEP_CRON" envDefault:"@every 15m"`
}

// Load reads configuration from environment variables
func Load() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks bounds that the env tags cannot express
func (c Config) Validate() error {
	if c.HRMax < 120 || c.HRMax > 220 {
		return fmt.Errorf("HR_MAX must be between 120-220, got %d", c.HRMax)
	}
	return nil
}
