// Package motion contains the pose data model shared by the engine: points,
// snapshots, and recordings. A Recording is stored as a flat float64 buffer,
// frame-major with a fixed stride, so the aggregation and distance reductions
// downstream stay cache-friendly and easy to parallelize.
package motion

import (
	"fmt"
)

// Channel layout of a point inside the buffer.
const (
	ChannelX          = 0
	ChannelY          = 1
	ChannelZ          = 2
	ChannelConfidence = 3

	// ChannelCount is the number of scalar channels per point.
	ChannelCount = 4

	// PositionChannels is the number of channels participating in distance
	// computations. Confidence is excluded from all distances.
	PositionChannels = 3
)

// DefaultLandmarkCount matches the 33-point pose topology every deployment
// of this service uses on the wire.
const DefaultLandmarkCount = 33

// Point is one 3D coordinate plus a confidence value in [0,1].
type Point struct {
	X          float64
	Y          float64
	Z          float64
	Confidence float64
}

// Tolerance mirrors Point but every channel is a standard deviation, never a
// signed offset; all fields are non-negative.
type Tolerance struct {
	X          float64
	Y          float64
	Z          float64
	Confidence float64
}

// Snapshot is one time sample: an ordered, fixed-length set of points.
// Position i always refers to the same anatomical landmark.
type Snapshot struct {
	Points []Point
}

// Recording is a time-ordered sequence of snapshots stored as a flat buffer.
// Index layout: data[(frame*landmarks+point)*ChannelCount+channel].
// Recordings are treated as immutable values once filled; operations that
// change content return new Recordings.
type Recording struct {
	frames    int
	landmarks int
	data      []float64
}

// NewRecording allocates a zeroed recording of the given shape.
func NewRecording(frames, landmarks int) Recording {
	return Recording{
		frames:    frames,
		landmarks: landmarks,
		data:      make([]float64, frames*landmarks*ChannelCount),
	}
}

// Frames returns the number of snapshots in the recording.
func (r Recording) Frames() int { return r.frames }

// Landmarks returns the number of points per snapshot.
func (r Recording) Landmarks() int { return r.landmarks }

// Stride returns the number of scalars per frame.
func (r Recording) Stride() int { return r.landmarks * ChannelCount }

// IsZero reports whether the recording has no backing storage.
func (r Recording) IsZero() bool { return r.data == nil }

// At returns the value at (frame, point, channel).
func (r Recording) At(frame, point, channel int) float64 {
	return r.data[(frame*r.landmarks+point)*ChannelCount+channel]
}

// Set writes the value at (frame, point, channel).
func (r Recording) Set(frame, point, channel int, v float64) {
	r.data[(frame*r.landmarks+point)*ChannelCount+channel] = v
}

// Frame returns one frame as a slice of length Stride(). The slice aliases
// the recording's storage.
func (r Recording) Frame(frame int) []float64 {
	stride := r.Stride()
	return r.data[frame*stride : (frame+1)*stride]
}

// Data returns the whole backing buffer. The slice aliases the recording's
// storage; callers must not mutate it outside construction.
func (r Recording) Data() []float64 { return r.data }

// Equal reports exact scalar equality of two recordings of the same shape.
func (r Recording) Equal(o Recording) bool {
	if r.frames != o.frames || r.landmarks != o.landmarks {
		return false
	}
	for i, v := range r.data {
		if v != o.data[i] {
			return false
		}
	}
	return true
}

// FromSnapshots validates the nested wire form and packs it into a flat
// recording. Every snapshot must carry exactly landmarks points and the
// sequence must not be empty.
func FromSnapshots(snapshots []Snapshot, landmarks int) (Recording, error) {
	if len(snapshots) == 0 {
		return Recording{}, fmt.Errorf("%w: recording has no snapshots", ErrInvalidInput)
	}
	rec := NewRecording(len(snapshots), landmarks)
	for f, snap := range snapshots {
		if len(snap.Points) != landmarks {
			return Recording{}, fmt.Errorf("%w: snapshot %d has %d points, want %d",
				ErrInvalidInput, f, len(snap.Points), landmarks)
		}
		for j, p := range snap.Points {
			base := (f*landmarks + j) * ChannelCount
			rec.data[base+ChannelX] = p.X
			rec.data[base+ChannelY] = p.Y
			rec.data[base+ChannelZ] = p.Z
			rec.data[base+ChannelConfidence] = p.Confidence
		}
	}
	return rec, nil
}

// Snapshot unpacks one frame into the nested form.
func (r Recording) Snapshot(frame int) Snapshot {
	points := make([]Point, r.landmarks)
	for j := range points {
		base := (frame*r.landmarks + j) * ChannelCount
		points[j] = Point{
			X:          r.data[base+ChannelX],
			Y:          r.data[base+ChannelY],
			Z:          r.data[base+ChannelZ],
			Confidence: r.data[base+ChannelConfidence],
		}
	}
	return Snapshot{Points: points}
}

// Snapshots unpacks the whole recording into the nested form.
func (r Recording) Snapshots() []Snapshot {
	snapshots := make([]Snapshot, r.frames)
	for f := range snapshots {
		snapshots[f] = r.Snapshot(f)
	}
	return snapshots
}
