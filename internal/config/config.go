// Package config loads the optional YAML configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/pable/go-fives-metrics/internal/predict"
)

type Config struct {
	Database string      `yaml:"database"`
	Corpus   string      `yaml:"corpus"`  // default matches CSV for import
	Players  string      `yaml:"players"` // default player key CSV for import
	Log      LogConfig   `yaml:"log"`
	Model    ModelConfig `yaml:"model"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" or "json"
}

type ModelConfig struct {
	RidgeLambda   float64 `yaml:"ridge_lambda"`
	L2            float64 `yaml:"l2"`
	MaxIterations int     `yaml:"max_iterations"`
	DrawThreshold float64 `yaml:"draw_threshold"`
}

// Options converts the model section to predictor options.
func (m ModelConfig) Options() predict.Options {
	return predict.Options{
		RidgeLambda:   m.RidgeLambda,
		L2:            m.L2,
		MaxIterations: m.MaxIterations,
		DrawThreshold: m.DrawThreshold,
	}
}

// Dir returns the per-user data directory, ~/.fives.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".fives")
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	opts := predict.DefaultOptions()
	return &Config{
		Database: filepath.Join(Dir(), "fives.db"),
		Log:      LogConfig{Level: "info", Format: "text"},
		Model: ModelConfig{
			RidgeLambda:   opts.RidgeLambda,
			L2:            opts.L2,
			MaxIterations: opts.MaxIterations,
			DrawThreshold: opts.DrawThreshold,
		},
	}
}

// Load reads configPath over the defaults. A missing file is not an error.
func Load(configPath string) (*Config, error) {
	cfg := Default()
	if configPath == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(configPath)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", configPath, err)
	}
	return cfg, nil
}

// Validate checks the values a YAML file can get wrong.
func (c *Config) Validate() error {
	if c.Database == "" {
		return errors.New("database must not be empty")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	if err := c.Model.Options().Validate(); err != nil {
		return fmt.Errorf("model: %w", err)
	}
	return nil
}
