// Package resample normalizes recording lengths. Recordings of arbitrary
// frame counts are mapped to an exact target length by sampling the source
// at evenly spaced continuous positions and linearly blending the two
// surrounding frames, independently per point and channel.
package resample

import (
	"fmt"
	"math"

	"github.com/strideworks/ghostrun/internal/domain/motion"
)

// ToLength resamples rec to exactly target frames.
//
// Output index i samples continuous source position p = i*(n-1)/(target-1)
// (p = 0 when target is 1); the frames at floor(p) and ceil(p) are blended
// with weight p-floor(p). When the target equals the source length the input
// recording is returned unchanged, so no floating-point drift is introduced.
func ToLength(rec motion.Recording, target int) (motion.Recording, error) {
	n := rec.Frames()
	if n < 1 {
		return motion.Recording{}, fmt.Errorf("%w: recording has no frames", motion.ErrInvalidInput)
	}
	if target < 1 {
		return motion.Recording{}, fmt.Errorf("%w: target length must be at least 1, got %d", motion.ErrInvalidInput, target)
	}
	if n == target {
		return rec, nil
	}

	out := motion.NewRecording(target, rec.Landmarks())
	last := n - 1
	for i := 0; i < target; i++ {
		p := 0.0
		if target > 1 {
			// Exact integer product before the single rounding division
			// keeps the sampled positions reproducible across platforms.
			p = float64(i*last) / float64(target-1)
		}
		lo := int(math.Floor(p))
		hi := int(math.Ceil(p))
		if hi > last {
			hi = last
		}

		dst := out.Frame(i)
		if lo == hi {
			copy(dst, rec.Frame(lo))
			continue
		}

		alpha := p - float64(lo)
		loFrame := rec.Frame(lo)
		hiFrame := rec.Frame(hi)
		for c := range dst {
			dst[c] = (1-alpha)*loFrame[c] + alpha*hiFrame[c]
		}
	}
	return out, nil
}
