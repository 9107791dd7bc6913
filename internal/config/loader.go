package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New())
//  2. file (YAML) if GHOSTRUN_CONFIG is set
//  3. env (prefix GHOSTRUN_)
func Load(_ context.Context) (*Config, error) {
	// Start with defaults
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("GHOSTRUN_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// Environment variables: GHOSTRUN_ADDR, GHOSTRUN_LANDMARK_COUNT, ...
	// Map env keys like GHOSTRUN_LANDMARK_COUNT -> landmark_count (flat keys)
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("GHOSTRUN_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "ghostrun_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate rejects configurations the engine cannot run with.
func (c *Config) validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.LandmarkCount < 1:
		return fmt.Errorf("%w: landmark_count must be at least 1, got %d", ErrInvalidConfig, c.LandmarkCount)
	case c.RecordingsPerProfile < 1:
		return fmt.Errorf("%w: recordings_per_profile must be at least 1, got %d", ErrInvalidConfig, c.RecordingsPerProfile)
	case c.ToleranceFloor <= 0:
		return fmt.Errorf("%w: tolerance_floor must be positive, got %g", ErrInvalidConfig, c.ToleranceFloor)
	case c.AggregationWorkers < 0:
		return fmt.Errorf("%w: aggregation_workers must not be negative, got %d", ErrInvalidConfig, c.AggregationWorkers)
	case c.MaxBodyBytes < 1:
		return fmt.Errorf("%w: max_body_bytes must be positive, got %d", ErrInvalidConfig, c.MaxBodyBytes)
	}
	return nil
}
