// Package config loads the runtime configuration from the process environment.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// ErrMissingEnv is returned when the required environment values are absent or empty.
var ErrMissingEnv = errors.New("GITHUB_TOKEN and GITHUB_ORG must be set in environment variables")

// Config holds the settings for a single analysis run.
type Config struct {
	Token     string `envconfig:"GITHUB_TOKEN"`
	Org       string `envconfig:"GITHUB_ORG"`
	OutputDir string `envconfig:"OUTPUT_DIR" default:"reports"`
}

// Load reads the configuration from the environment, after loading an
// optional .env file, and makes sure the output directory exists.
// Variables already set in the environment take precedence over .env entries.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	if cfg.Token == "" || cfg.Org == "" {
		return nil, ErrMissingEnv
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", cfg.OutputDir, err)
	}
	return &cfg, nil
}
