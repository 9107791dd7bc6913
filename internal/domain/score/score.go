// Package score evaluates how closely a motion recording follows a ghost
// profile.
package score

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/strideworks/ghostrun/internal/domain/ghost"
	"github.com/strideworks/ghostrun/internal/domain/motion"
	"github.com/strideworks/ghostrun/internal/domain/resample"
)

// Result contains the per-frame and aggregate errors of a scored run.
// FrameErrors is ordered by frame; FrameCount is the normalized length the
// run was resampled to before comparison.
type Result struct {
	TotalError  float64
	MeanError   float64
	MaxError    float64
	FrameErrors []float64
	FrameCount  int
}

// Scorer evaluates a recording against a previously built profile. Honors
// ctx for cancellation.
type Scorer interface {
	Score(ctx context.Context, rec motion.Recording, profile ghost.Profile) (Result, error)
}

// EngineScorer implements Scorer with the resample-then-compare pipeline:
// the recording is resampled to the profile's frame count and each frame is
// measured against the template by Euclidean distance over the position
// channels.
type EngineScorer struct{}

// NewScorer creates a scorer.
func NewScorer() *EngineScorer {
	return &EngineScorer{}
}

// Score computes the per-frame and aggregate errors of rec against profile.
func (s *EngineScorer) Score(ctx context.Context, rec motion.Recording, profile ghost.Profile) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, fmt.Errorf("scoring cancelled: %w", err)
	}

	if profile.FrameCount < 1 {
		return Result{}, fmt.Errorf("%w: profile frame count must be at least 1, got %d",
			motion.ErrInvalidInput, profile.FrameCount)
	}
	if profile.Template.Frames() != profile.FrameCount {
		return Result{}, fmt.Errorf("%w: profile template has %d frames, want %d",
			motion.ErrInvalidInput, profile.Template.Frames(), profile.FrameCount)
	}

	normalized, err := resample.ToLength(rec, profile.FrameCount)
	if err != nil {
		return Result{}, fmt.Errorf("normalizing run: %w", err)
	}
	if normalized.Landmarks() != profile.Template.Landmarks() {
		return Result{}, fmt.Errorf("%w: recording has %d landmarks, profile has %d",
			motion.ErrInvalidInput, normalized.Landmarks(), profile.Template.Landmarks())
	}

	frameErrors := make([]float64, profile.FrameCount)
	for f := range frameErrors {
		e := motion.FrameDistance(normalized, profile.Template, f)
		if math.IsNaN(e) || math.IsInf(e, 0) {
			return Result{}, fmt.Errorf("%w: frame %d error is not finite", motion.ErrComputation, f)
		}
		frameErrors[f] = e
	}

	return Result{
		TotalError:  floats.Sum(frameErrors),
		MeanError:   stat.Mean(frameErrors, nil),
		MaxError:    floats.Max(frameErrors),
		FrameErrors: frameErrors,
		FrameCount:  profile.FrameCount,
	}, nil
}
