// Package ghost builds motion templates ("ghost profiles") from repeated
// recordings of the same movement. A build normalizes the recordings to a
// common frame count, aggregates a per-cell mean and population standard
// deviation across them, and identifies the input recording closest to the
// aggregate.
package ghost

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/strideworks/ghostrun/internal/domain/motion"
	"github.com/strideworks/ghostrun/internal/domain/resample"
)

// Default build configuration constants.
const (
	// DefaultRecordingsPerProfile is the arity of a profile build. The wire
	// contract pins it to five.
	DefaultRecordingsPerProfile = 5

	// DefaultToleranceFloor keeps every tolerance channel strictly positive
	// so downstream consumers can divide by it. Matches the reference
	// numerics.
	DefaultToleranceFloor = 1e-6
)

// Profile is the immutable product of a build. Template and Tolerance hold
// the full per-frame sequences (FrameCount frames each); the time-averaged
// single-snapshot form used on the wire is derived via Collapse.
type Profile struct {
	// Template holds the per-cell mean across the source recordings.
	Template motion.Recording

	// Tolerance holds the per-cell population standard deviation, floored.
	Tolerance motion.Recording

	// RepresentativeIndex identifies the source recording with the least
	// total distance to the template, ties keeping the lowest index.
	RepresentativeIndex int

	// RepresentativeDistance is that recording's total distance.
	RepresentativeDistance float64

	// FrameCount is the normalized length every recording was resampled to.
	FrameCount int

	// SourceFrameCounts lists the pre-normalization lengths in input order.
	SourceFrameCounts []int
}

// Builder computes profiles. The zero value is not usable; construct with
// NewBuilder.
type Builder struct {
	recordingsPerProfile int
	toleranceFloor       float64
	workers              int
}

// NewBuilder creates a builder with the given options applied over defaults.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		recordingsPerProfile: DefaultRecordingsPerProfile,
		toleranceFloor:       DefaultToleranceFloor,
		workers:              0, // GOMAXPROCS
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// RecordingsPerProfile returns the configured build arity.
func (b *Builder) RecordingsPerProfile() int { return b.recordingsPerProfile }

// ToleranceFloor returns the configured tolerance floor.
func (b *Builder) ToleranceFloor() float64 { return b.toleranceFloor }

// Build computes a profile from exactly the configured number of recordings.
// A targetFrames of zero selects the arithmetic mean of the source frame
// counts, truncated toward zero (integer division). The arity is checked
// before any computation starts.
func (b *Builder) Build(ctx context.Context, recordings []motion.Recording, targetFrames int) (Profile, error) {
	if len(recordings) != b.recordingsPerProfile {
		return Profile{}, fmt.Errorf("%w: profile build needs exactly %d recordings, got %d",
			motion.ErrInvalidInput, b.recordingsPerProfile, len(recordings))
	}
	if targetFrames < 0 {
		return Profile{}, fmt.Errorf("%w: target frame count must be at least 1, got %d",
			motion.ErrInvalidInput, targetFrames)
	}

	landmarks := recordings[0].Landmarks()
	counts := make([]int, len(recordings))
	total := 0
	for i, rec := range recordings {
		if rec.Frames() < 1 {
			return Profile{}, fmt.Errorf("%w: recording %d has no frames", motion.ErrInvalidInput, i)
		}
		if rec.Landmarks() != landmarks {
			return Profile{}, fmt.Errorf("%w: recording %d has %d landmarks, want %d",
				motion.ErrInvalidInput, i, rec.Landmarks(), landmarks)
		}
		counts[i] = rec.Frames()
		total += rec.Frames()
	}

	target := targetFrames
	if target == 0 {
		target = total / len(recordings)
	}

	if err := ctx.Err(); err != nil {
		return Profile{}, fmt.Errorf("profile build cancelled: %w", err)
	}

	normalized, err := b.normalize(recordings, target)
	if err != nil {
		return Profile{}, err
	}

	if err := ctx.Err(); err != nil {
		return Profile{}, fmt.Errorf("profile build cancelled: %w", err)
	}

	template, tolerance := b.aggregate(normalized, target, landmarks)

	repIdx, repDist := representative(normalized, template)
	if math.IsNaN(repDist) || math.IsInf(repDist, 0) {
		return Profile{}, fmt.Errorf("%w: representative distance is not finite", motion.ErrComputation)
	}

	return Profile{
		Template:               template,
		Tolerance:              tolerance,
		RepresentativeIndex:    repIdx,
		RepresentativeDistance: repDist,
		FrameCount:             target,
		SourceFrameCounts:      counts,
	}, nil
}

// normalize resamples every recording to target frames, one goroutine per
// recording writing its own slot.
func (b *Builder) normalize(recordings []motion.Recording, target int) ([]motion.Recording, error) {
	normalized := make([]motion.Recording, len(recordings))
	errs := make([]error, len(recordings))

	var wg sync.WaitGroup
	for i := range recordings {
		wg.Add(1)
		go func(i int, rec motion.Recording) {
			defer wg.Done()
			normalized[i], errs[i] = resample.ToLength(rec, target)
		}(i, recordings[i])
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("normalizing recording %d: %w", i, err)
		}
	}
	return normalized, nil
}

// aggregate computes the per-cell mean and floored population standard
// deviation across the normalized recordings. Frames are split across a
// bounded worker group; workers write disjoint frame ranges and read the
// recordings in slice order, so the result is identical for any worker
// count.
func (b *Builder) aggregate(normalized []motion.Recording, frames, landmarks int) (template, tolerance motion.Recording) {
	template = motion.NewRecording(frames, landmarks)
	tolerance = motion.NewRecording(frames, landmarks)

	workers := b.workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > frames {
		workers = frames
	}

	stride := landmarks * motion.ChannelCount
	chunk := (frames + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if end > frames {
			end = frames
		}
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			vals := make([]float64, len(normalized))
			rows := make([][]float64, len(normalized))
			for f := start; f < end; f++ {
				for k, rec := range normalized {
					rows[k] = rec.Frame(f)
				}
				dstMean := template.Frame(f)
				dstTol := tolerance.Frame(f)
				for c := 0; c < stride; c++ {
					for k := range rows {
						vals[k] = rows[k][c]
					}
					dstMean[c] = stat.Mean(vals, nil)
					std := stat.PopStdDev(vals, nil)
					if std < b.toleranceFloor {
						std = b.toleranceFloor
					}
					dstTol[c] = std
				}
			}
		}(start, end)
	}
	wg.Wait()

	return template, tolerance
}

// representative scans the normalized recordings in input order and keeps
// the one with the strictly smallest total distance to the template.
func representative(normalized []motion.Recording, template motion.Recording) (int, float64) {
	bestIdx := 0
	bestDist := math.Inf(1)
	for i, rec := range normalized {
		total := motion.TotalDistance(rec, template)
		if total < bestDist {
			bestDist = total
			bestIdx = i
		}
	}
	return bestIdx, bestDist
}

// Collapse reduces the per-frame template and tolerance to their
// time-averaged single-snapshot form, the shape the wire profile carries.
func (p Profile) Collapse() ([]motion.Point, []motion.Tolerance) {
	frames := p.Template.Frames()
	landmarks := p.Template.Landmarks()

	points := make([]motion.Point, landmarks)
	tols := make([]motion.Tolerance, landmarks)
	vals := make([]float64, frames)

	for j := 0; j < landmarks; j++ {
		var mean [motion.ChannelCount]float64
		var tol [motion.ChannelCount]float64
		for c := 0; c < motion.ChannelCount; c++ {
			for f := 0; f < frames; f++ {
				vals[f] = p.Template.At(f, j, c)
			}
			mean[c] = stat.Mean(vals, nil)

			for f := 0; f < frames; f++ {
				vals[f] = p.Tolerance.At(f, j, c)
			}
			tol[c] = stat.Mean(vals, nil)
		}
		points[j] = motion.Point{X: mean[motion.ChannelX], Y: mean[motion.ChannelY], Z: mean[motion.ChannelZ], Confidence: mean[motion.ChannelConfidence]}
		tols[j] = motion.Tolerance{X: tol[motion.ChannelX], Y: tol[motion.ChannelY], Z: tol[motion.ChannelZ], Confidence: tol[motion.ChannelConfidence]}
	}
	return points, tols
}
