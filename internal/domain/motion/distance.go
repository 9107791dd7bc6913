package motion

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// FrameDistance returns the Euclidean distance between one frame of a and
// the same frame of b, taken over the position channels of every landmark.
// Confidence never participates. Both recordings must share the frame index
// and landmark count.
func FrameDistance(a, b Recording, frame int) float64 {
	af := a.Frame(frame)
	bf := b.Frame(frame)
	sum := 0.0
	for base := 0; base < len(af); base += ChannelCount {
		for c := 0; c < PositionChannels; c++ {
			d := af[base+c] - bf[base+c]
			sum += d * d
		}
	}
	return math.Sqrt(sum)
}

// TotalDistance sums FrameDistance over every frame of the two recordings.
// The reduction matches the one scoring applies to frame errors, so a
// recording's total error against a template it was compared to during a
// build reproduces the build's distance bit for bit.
func TotalDistance(a, b Recording) float64 {
	dists := make([]float64, a.Frames())
	for f := range dists {
		dists[f] = FrameDistance(a, b, f)
	}
	return floats.Sum(dists)
}
