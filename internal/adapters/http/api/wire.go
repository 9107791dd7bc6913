// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/strideworks/ghostrun/internal/domain/ghost"
	"github.com/strideworks/ghostrun/internal/domain/motion"
)

// validate checks wire value bounds. Cardinalities that depend on runtime
// configuration (points per snapshot, recordings per build) are enforced by
// the domain constructors instead.
var validate = validator.New()

// wirePoint mirrors the OpenAPI Point schema. Coordinates are bounded to the
// capture volume; confidence is a probability.
type wirePoint struct {
	X          float64 `json:"x" validate:"gte=-10,lte=10"`
	Y          float64 `json:"y" validate:"gte=-10,lte=10"`
	Z          float64 `json:"z" validate:"gte=-10,lte=10"`
	Confidence float64 `json:"confidence" validate:"gte=0,lte=1"`
}

// wireTolerance mirrors the OpenAPI ToleranceValue schema: a non-negative
// per-channel band.
type wireTolerance struct {
	X          float64 `json:"x" validate:"gte=0"`
	Y          float64 `json:"y" validate:"gte=0"`
	Z          float64 `json:"z" validate:"gte=0"`
	Confidence float64 `json:"confidence" validate:"gte=0"`
}

type wireSnapshot struct {
	Points []wirePoint `json:"points" validate:"required,dive"`
}

type wireRecording struct {
	Snapshots []wireSnapshot `json:"snapshots" validate:"required,min=1,dive"`
}

// wireProfile mirrors the OpenAPI Profile schema. template/tolerance carry
// the time-averaged snapshot; template_frames/tolerance_frames optionally
// carry the full per-frame sequences.
type wireProfile struct {
	Template               []wirePoint     `json:"template" validate:"required,dive"`
	Tolerance              []wireTolerance `json:"tolerance" validate:"required,dive"`
	RepresentativeIndex    int             `json:"representative_index" validate:"gte=0"`
	RepresentativeDistance float64         `json:"representative_distance" validate:"gte=0"`
	NormalizedFrameCount   int             `json:"normalized_frame_count" validate:"gte=1"`
	OriginalFrameCounts    []int           `json:"original_frame_counts" validate:"required,dive,gte=1"`
	TemplateFrames         []wireSnapshot  `json:"template_frames,omitempty" validate:"omitempty,dive"`
	ToleranceFrames        []wireSnapshot  `json:"tolerance_frames,omitempty" validate:"omitempty,dive"`
	Source                 string          `json:"source,omitempty"`
	Version                string          `json:"version,omitempty"`
}

// decodeJSON decodes the request body into v, translating a tripped body
// limit into ErrBodyTooLarge.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return fmt.Errorf("%w: limit is %d bytes", ErrBodyTooLarge, maxErr.Limit)
		}
		return fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	return nil
}

// toDomain packs the wire recording into the engine's flat buffer, checking
// every snapshot against the configured landmark count.
func (r wireRecording) toDomain(landmarks int) (motion.Recording, error) {
	snapshots := make([]motion.Snapshot, len(r.Snapshots))
	for i, snap := range r.Snapshots {
		points := make([]motion.Point, len(snap.Points))
		for j, p := range snap.Points {
			points[j] = motion.Point{X: p.X, Y: p.Y, Z: p.Z, Confidence: p.Confidence}
		}
		snapshots[i] = motion.Snapshot{Points: points}
	}
	return motion.FromSnapshots(snapshots, landmarks)
}

func recordingToWire(rec motion.Recording) wireRecording {
	snapshots := rec.Snapshots()
	out := wireRecording{Snapshots: make([]wireSnapshot, len(snapshots))}
	for i, snap := range snapshots {
		points := make([]wirePoint, len(snap.Points))
		for j, p := range snap.Points {
			points[j] = wirePoint{X: p.X, Y: p.Y, Z: p.Z, Confidence: p.Confidence}
		}
		out.Snapshots[i] = wireSnapshot{Points: points}
	}
	return out
}

// profileToWire renders a profile in both wire forms: the collapsed
// single-snapshot template/tolerance plus the full per-frame sequences.
func profileToWire(p ghost.Profile) wireProfile {
	points, tols := p.Collapse()

	out := wireProfile{
		Template:               make([]wirePoint, len(points)),
		Tolerance:              make([]wireTolerance, len(tols)),
		RepresentativeIndex:    p.RepresentativeIndex,
		RepresentativeDistance: p.RepresentativeDistance,
		NormalizedFrameCount:   p.FrameCount,
		OriginalFrameCounts:    p.SourceFrameCounts,
		TemplateFrames:         recordingToWire(p.Template).Snapshots,
		ToleranceFrames:        recordingToWire(p.Tolerance).Snapshots,
		Source:                 profileSource,
		Version:                ServiceVersion,
	}
	for i, pt := range points {
		out.Template[i] = wirePoint{X: pt.X, Y: pt.Y, Z: pt.Z, Confidence: pt.Confidence}
	}
	for i, tol := range tols {
		out.Tolerance[i] = wireTolerance{X: tol.X, Y: tol.Y, Z: tol.Z, Confidence: tol.Confidence}
	}
	return out
}

// toDomain reconstitutes an engine profile from the wire form. When the
// per-frame sequences are absent, the collapsed template and tolerance are
// broadcast across every normalized frame.
func (p wireProfile) toDomain(landmarks int) (ghost.Profile, error) {
	frames := p.NormalizedFrameCount

	template, err := p.templateRecording(landmarks, frames)
	if err != nil {
		return ghost.Profile{}, err
	}
	tolerance, err := p.toleranceRecording(landmarks, frames)
	if err != nil {
		return ghost.Profile{}, err
	}

	return ghost.Profile{
		Template:               template,
		Tolerance:              tolerance,
		RepresentativeIndex:    p.RepresentativeIndex,
		RepresentativeDistance: p.RepresentativeDistance,
		FrameCount:             frames,
		SourceFrameCounts:      p.OriginalFrameCounts,
	}, nil
}

func (p wireProfile) templateRecording(landmarks, frames int) (motion.Recording, error) {
	if len(p.TemplateFrames) > 0 {
		rec, err := wireRecording{Snapshots: p.TemplateFrames}.toDomain(landmarks)
		if err != nil {
			return motion.Recording{}, fmt.Errorf("template_frames: %w", err)
		}
		if rec.Frames() != frames {
			return motion.Recording{}, fmt.Errorf("%w: template_frames has %d frames, normalized_frame_count is %d",
				motion.ErrInvalidInput, rec.Frames(), frames)
		}
		return rec, nil
	}

	if len(p.Template) != landmarks {
		return motion.Recording{}, fmt.Errorf("%w: template has %d points, want %d",
			motion.ErrInvalidInput, len(p.Template), landmarks)
	}
	rec := motion.NewRecording(frames, landmarks)
	for f := 0; f < frames; f++ {
		for j, pt := range p.Template {
			rec.Set(f, j, motion.ChannelX, pt.X)
			rec.Set(f, j, motion.ChannelY, pt.Y)
			rec.Set(f, j, motion.ChannelZ, pt.Z)
			rec.Set(f, j, motion.ChannelConfidence, pt.Confidence)
		}
	}
	return rec, nil
}

func (p wireProfile) toleranceRecording(landmarks, frames int) (motion.Recording, error) {
	if len(p.ToleranceFrames) > 0 {
		rec, err := wireRecording{Snapshots: p.ToleranceFrames}.toDomain(landmarks)
		if err != nil {
			return motion.Recording{}, fmt.Errorf("tolerance_frames: %w", err)
		}
		if rec.Frames() != frames {
			return motion.Recording{}, fmt.Errorf("%w: tolerance_frames has %d frames, normalized_frame_count is %d",
				motion.ErrInvalidInput, rec.Frames(), frames)
		}
		return rec, nil
	}

	if len(p.Tolerance) != landmarks {
		return motion.Recording{}, fmt.Errorf("%w: tolerance has %d points, want %d",
			motion.ErrInvalidInput, len(p.Tolerance), landmarks)
	}
	rec := motion.NewRecording(frames, landmarks)
	for f := 0; f < frames; f++ {
		for j, tol := range p.Tolerance {
			rec.Set(f, j, motion.ChannelX, tol.X)
			rec.Set(f, j, motion.ChannelY, tol.Y)
			rec.Set(f, j, motion.ChannelZ, tol.Z)
			rec.Set(f, j, motion.ChannelConfidence, tol.Confidence)
		}
	}
	return rec, nil
}
