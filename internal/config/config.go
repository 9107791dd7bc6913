// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults; Load layers file/env on top.
// - All loading functions accept context.Context as the first parameter.
// - External errors must be wrapped via this package's sentinel kinds.
package config

import (
	"github.com/strideworks/ghostrun/internal/domain/ghost"
	"github.com/strideworks/ghostrun/internal/domain/motion"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text (default) or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// LandmarkCount is the number of points in every snapshot. The engine is
	// parameterized over this so other pose topologies can reuse it; the wire
	// contract for this deployment is 33.
	LandmarkCount int `koanf:"landmark_count"`

	// RecordingsPerProfile is the exact number of recordings a profile build
	// consumes.
	RecordingsPerProfile int `koanf:"recordings_per_profile"`

	// ToleranceFloor is the minimum value of any tolerance channel. Keeps
	// downstream consumers safe from division by zero when all recordings
	// agree exactly.
	ToleranceFloor float64 `koanf:"tolerance_floor"`

	// AggregationWorkers bounds the goroutines used for per-frame
	// aggregation during profile builds. Zero selects GOMAXPROCS.
	AggregationWorkers int `koanf:"aggregation_workers"`

	// MaxBodyBytes caps the size of request bodies accepted by the API.
	MaxBodyBytes int64 `koanf:"max_body_bytes"`
}

// defaultMaxBodyBytes caps request bodies at 32 MiB, enough for five long
// recordings with headroom.
const defaultMaxBodyBytes = 32 << 20

// New creates a Config populated with defaults. Engine defaults come from
// the domain packages so there is a single source of truth for them.
func New() *Config {
	return &Config{
		LogLevel:             "info",
		LogFormat:            "text",
		Addr:                 ":8080",
		LandmarkCount:        motion.DefaultLandmarkCount,
		RecordingsPerProfile: ghost.DefaultRecordingsPerProfile,
		ToleranceFloor:       ghost.DefaultToleranceFloor,
		AggregationWorkers:   0,
		MaxBodyBytes:         defaultMaxBodyBytes,
	}
}
