// Package config reads studio settings from the environment (and a .env file
// in the working directory when present).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/T55511/MinecraftCreateMovieSystem/internal/db"
	"github.com/T55511/MinecraftCreateMovieSystem/internal/workflow"
)

const (
	EnvDev   = "dev"
	EnvProd  = "prod"
	EnvLocal = "local"
)

// Config holds every setting the CLI needs
type Config struct {
	Env              string        `env:"ENV" envDefault:"local"`
	DBPath           string        `env:"DB_PATH"`
	LogLevel         string        `env:"LOG_LEVEL" envDefault:"warn"`
	TransitionPolicy string        `env:"TRANSITION_POLICY" envDefault:"strict"`
	ProgressPolicy   string        `env:"PROGRESS_POLICY" envDefault:"weighted"`
	CatalogPath      string        `env:"CATALOG_PATH"`
	OperationTimeout time.Duration `env:"OPERATION_TIMEOUT" envDefault:"5s"`
}

// Policies are the parsed workflow policy choices of a Config
type Policies struct {
	Transitions workflow.TransitionPolicy
	Progress    workflow.ProgressPolicy
}

// Load reads .env (if any) and STUDIO_* environment variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return Parse()
}

// Parse reads STUDIO_* environment variables only.
func Parse() (*Config, error) {
	cfg := new(Config)
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: "STUDIO_"}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.DBPath == "" {
		path, err := db.DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("resolve database path: %w", err)
		}
		cfg.DBPath = path
	}
	return cfg, nil
}

// Validate checks enumerated settings
func (c *Config) Validate() error {
	switch c.Env {
	case EnvDev, EnvProd, EnvLocal:
	default:
		return fmt.Errorf("unknown env: %s", c.Env)
	}
	if _, err := c.Policies(); err != nil {
		return err
	}
	if c.OperationTimeout <= 0 {
		return fmt.Errorf("operation timeout must be positive, got %s", c.OperationTimeout)
	}
	return nil
}

// Policies parses the configured workflow policies
func (c *Config) Policies() (Policies, error) {
	transitions, err := workflow.ParseTransitionPolicy(c.TransitionPolicy)
	if err != nil {
		return Policies{}, err
	}
	progress, err := workflow.ParseProgressPolicy(c.ProgressPolicy)
	if err != nil {
		return Policies{}, err
	}
	return Policies{Transitions: transitions, Progress: progress}, nil
}
