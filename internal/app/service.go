// Package service provides the core engine service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/strideworks/ghostrun/internal/domain/ghost"
	"github.com/strideworks/ghostrun/internal/domain/motion"
	"github.com/strideworks/ghostrun/internal/domain/resample"
	"github.com/strideworks/ghostrun/internal/domain/score"
	"github.com/strideworks/ghostrun/pkg/logger"
	"github.com/strideworks/ghostrun/pkg/metrics"
)

const nanosecondsPerMillisecond = 1e6

// ErrExtractionUnavailable reports that no recording extractor is wired into
// this deployment. The HTTP layer maps it to 503.
var ErrExtractionUnavailable = errors.New("recording extraction unavailable")

// Extractor turns a video into a Recording. The engine ships without one;
// deployments wire their own through WithExtractor.
type Extractor interface {
	// Extract decodes the video at path and returns the detected motion,
	// honoring ctx for cancellation. view selects the camera angle.
	Extract(ctx context.Context, path, view string) (motion.Recording, error)
}

// Service implements the API dependencies for the ghost profile engine.
type Service struct {
	mu sync.RWMutex

	// Core components
	builder   *ghost.Builder
	scorer    score.Scorer
	extractor Extractor

	// Configuration
	landmarkCount        int
	recordingsPerProfile int
	toleranceFloor       float64
	workers              int

	// State
	started bool

	// Operation counters for /stats
	profilesBuilt int64
	runsScored    int64
	resamples     int64
	extractions   int64
	lastBuildMs   float64
	lastScoreMs   float64

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLandmarkCount sets the number of points expected in every snapshot.
func WithLandmarkCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.landmarkCount = count
		}
	}
}

// WithRecordingsPerProfile sets the exact number of recordings a profile
// build consumes.
func WithRecordingsPerProfile(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.recordingsPerProfile = count
		}
	}
}

// WithToleranceFloor sets the minimum value of any tolerance channel.
func WithToleranceFloor(floor float64) Option {
	return func(s *Service) {
		if floor > 0 {
			s.toleranceFloor = floor
		}
	}
}

// WithWorkers bounds the goroutines used for per-frame aggregation during
// profile builds. Zero selects GOMAXPROCS.
func WithWorkers(count int) Option {
	return func(s *Service) {
		if count >= 0 {
			s.workers = count
		}
	}
}

// WithExtractor wires a recording extractor into the service.
func WithExtractor(extractor Extractor) Option {
	return func(s *Service) {
		if extractor != nil {
			s.extractor = extractor
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		landmarkCount:        motion.DefaultLandmarkCount,
		recordingsPerProfile: ghost.DefaultRecordingsPerProfile,
		toleranceFloor:       ghost.DefaultToleranceFloor,
		workers:              0,   // GOMAXPROCS
		logger:               nil, // Will be replaced when service starts
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get().With(logger.String("component", "engine"))
	}

	s.logger.Info(ctx, "starting ghost profile engine...")

	s.builder = ghost.NewBuilder(
		ghost.WithRecordingsPerProfile(s.recordingsPerProfile),
		ghost.WithToleranceFloor(s.toleranceFloor),
		ghost.WithWorkers(s.workers),
	)
	s.scorer = score.NewScorer()

	metrics.UpdateAggregationWorkers(s.workers)

	s.started = true
	s.logger.Info(ctx, "ghost profile engine started",
		logger.Int("landmarks", s.landmarkCount),
		logger.Int("recordingsPerProfile", s.recordingsPerProfile),
		logger.Float64("toleranceFloor", s.toleranceFloor),
		logger.Int("workers", s.workers),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.started = false
	s.logger.Info(context.Background(), "ghost profile engine stopped")
}

// LandmarkCount returns the number of points expected in every snapshot.
func (s *Service) LandmarkCount() int {
	return s.landmarkCount
}

// RecordingsPerProfile returns the exact number of recordings a profile
// build consumes.
func (s *Service) RecordingsPerProfile() int {
	return s.recordingsPerProfile
}

// BuildProfile builds a ghost profile from the given recordings. A
// targetFrames of zero selects the mean length of the inputs.
func (s *Service) BuildProfile(ctx context.Context, recordings []motion.Recording, targetFrames int) (ghost.Profile, error) {
	start := time.Now()

	profile, err := s.builder.Build(ctx, recordings, targetFrames)
	if err != nil {
		metrics.RecordProfileBuildError()
		metrics.RecordErrorByComponent("builder", "build_error")
		s.logger.Error(ctx, "profile build failed", logger.Error(err))
		return ghost.Profile{}, err
	}

	elapsedMs := float64(time.Since(start).Nanoseconds()) / nanosecondsPerMillisecond
	metrics.RecordProfileBuilt()
	metrics.RecordProfileBuildLatency(elapsedMs)
	metrics.UpdateNormalizedFrameCount(profile.FrameCount)
	metrics.UpdateRepresentativeDistance(profile.RepresentativeDistance)
	for _, frames := range profile.SourceFrameCounts {
		metrics.ObserveRecordingFrames(frames)
	}

	s.mu.Lock()
	s.profilesBuilt++
	s.lastBuildMs = elapsedMs
	s.mu.Unlock()

	s.logger.Debug(ctx, "profile built",
		logger.Int("frames", profile.FrameCount),
		logger.Int("representative", profile.RepresentativeIndex),
		logger.Float64("distance", profile.RepresentativeDistance),
		logger.Float64("elapsedMs", elapsedMs),
	)

	return profile, nil
}

// ScoreRun evaluates a recording against a previously built profile.
func (s *Service) ScoreRun(ctx context.Context, rec motion.Recording, profile ghost.Profile) (score.Result, error) {
	start := time.Now()

	result, err := s.scorer.Score(ctx, rec, profile)
	if err != nil {
		metrics.RecordRunScoreError()
		metrics.RecordErrorByComponent("scorer", "score_error")
		s.logger.Error(ctx, "run scoring failed", logger.Error(err))
		return score.Result{}, err
	}

	elapsedMs := float64(time.Since(start).Nanoseconds()) / nanosecondsPerMillisecond
	metrics.RecordRunScored()
	metrics.RecordRunScoreLatency(elapsedMs)

	s.mu.Lock()
	s.runsScored++
	s.lastScoreMs = elapsedMs
	s.mu.Unlock()

	s.logger.Debug(ctx, "run scored",
		logger.Int("frames", result.FrameCount),
		logger.Float64("totalError", result.TotalError),
		logger.Float64("elapsedMs", elapsedMs),
	)

	return result, nil
}

// Resample resamples a recording to an exact target length.
func (s *Service) Resample(ctx context.Context, rec motion.Recording, targetLength int) (motion.Recording, error) {
	if err := ctx.Err(); err != nil {
		return motion.Recording{}, fmt.Errorf("resample cancelled: %w", err)
	}

	start := time.Now()

	out, err := resample.ToLength(rec, targetLength)
	if err != nil {
		metrics.RecordResampleError()
		metrics.RecordErrorByComponent("resampler", "resample_error")
		return motion.Recording{}, err
	}

	metrics.RecordResample()
	metrics.RecordResampleLatency(float64(time.Since(start).Nanoseconds()) / nanosecondsPerMillisecond)

	s.mu.Lock()
	s.resamples++
	s.mu.Unlock()

	return out, nil
}

// ExtractRecording produces a recording from a video through the wired
// extractor. Fails with ErrExtractionUnavailable when none is wired.
func (s *Service) ExtractRecording(ctx context.Context, path, view string) (motion.Recording, error) {
	s.mu.Lock()
	s.extractions++
	s.mu.Unlock()

	if s.extractor == nil {
		metrics.RecordExtractionUnavailable()
		return motion.Recording{}, fmt.Errorf("%w: no extractor wired into this deployment", ErrExtractionUnavailable)
	}

	rec, err := s.extractor.Extract(ctx, path, view)
	if err != nil {
		metrics.RecordErrorByComponent("extractor", "extract_error")
		s.logger.Error(ctx, "recording extraction failed", logger.Error(err))
		return motion.Recording{}, fmt.Errorf("extracting recording: %w", err)
	}

	return rec, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":              s.started,
		"landmarkCount":        s.landmarkCount,
		"recordingsPerProfile": s.recordingsPerProfile,
		"toleranceFloor":       s.toleranceFloor,
		"workers":              s.workers,
		"extractorWired":       s.extractor != nil,
		"profilesBuilt":        s.profilesBuilt,
		"runsScored":           s.runsScored,
		"resamples":            s.resamples,
		"extractions":          s.extractions,
		"lastBuildMs":          s.lastBuildMs,
		"lastScoreMs":          s.lastScoreMs,
	}

	// Keep the worker gauge fresh for scrapes that bypass builds.
	metrics.UpdateAggregationWorkers(s.workers)

	return stats
}
