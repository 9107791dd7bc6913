package demoruns

import (
	"context"
	"crypto/rand"
	"fmt"
	"math"
	"math/big"

	"github.com/google/uuid"
	"github.com/strideworks/ghostrun/pkg/logger"
)

// Constants for random number generation.
const (
	randomFloatDivisor = 1000000
)

// Constants for the synthetic gait model. Amplitudes stay well inside the
// engine's coordinate bounds so noise can never push a point out of range.
const (
	strideAmplitudeX = 0.8
	strideAmplitudeY = 0.5
	strideAmplitudeZ = 0.3
	hipHeight        = 1.2
	landmarkSpreadX  = 0.15
	landmarkSpreadY  = 0.04
	landmarkSpreadZ  = 0.08
	phaseOffsetStep  = 0.03 // per-recording phase shift between takes
	takeNoise        = 0.02 // jitter between the five source takes
	baseConfidence   = 0.92
	confidenceJitter = 0.05
)

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// randomFrameCount picks a length in [min, max].
func randomFrameCount(minFrames, maxFrames int) int {
	if maxFrames <= minFrames {
		return minFrames
	}
	span := int64(maxFrames - minFrames + 1)
	n, _ := rand.Int(rand.Reader, big.NewInt(span))
	return minFrames + int(n.Int64())
}

// generateRecordings creates the source recordings for one session: the same
// synthetic gait captured count times with varied lengths, a small phase
// shift and bounded noise between takes.
func generateRecordings(ctx context.Context, config *Config, landmarks, count int, stats *Stats) (string, []Recording, error) {
	sessionID := uuid.New().String()
	logger.Get().Info(ctx, "generating session recordings",
		logger.String("sessionID", sessionID),
		logger.Int("count", count),
		logger.Int("landmarks", landmarks),
		logger.Int("framesMin", config.FramesMin),
		logger.Int("framesMax", config.FramesMax))

	recordings := make([]Recording, count)
	for i := 0; i < count; i++ {
		select {
		case <-ctx.Done():
			return "", nil, fmt.Errorf("context cancelled during recording generation: %w", ctx.Err())
		default:
		}

		frames := randomFrameCount(config.FramesMin, config.FramesMax)
		recordings[i] = generateSingleRecording(frames, landmarks, i)
		stats.FramesGenerated += frames
	}

	stats.RecordingsGenerated = count
	logger.Get().Info(ctx, "generated recordings successfully",
		logger.Int("count", count),
		logger.Int("totalFrames", stats.FramesGenerated))

	return sessionID, recordings, nil
}

// generateSingleRecording renders one take of the gait cycle. take shifts
// the phase so the five sources differ the way real captures do.
func generateSingleRecording(frames, landmarks, take int) Recording {
	snapshots := make([]Snapshot, frames)
	phaseShift := phaseOffsetStep * float64(take)

	for f := 0; f < frames; f++ {
		phase := 2*math.Pi*float64(f)/float64(frames) + phaseShift
		points := make([]Point, landmarks)
		for l := 0; l < landmarks; l++ {
			points[l] = gaitPoint(phase, l, takeNoise)
		}
		snapshots[f] = Snapshot{Points: points}
	}

	return Recording{Snapshots: snapshots}
}

// gaitPoint models one landmark of a runner mid-stride: lateral sway on x,
// vertical oscillation on y, fore-aft drift on z. noise adds a bounded
// jitter per channel.
func gaitPoint(phase float64, landmark int, noise float64) Point {
	side := 1.0
	if landmark%2 == 1 {
		side = -1.0
	}
	l := float64(landmark)

	x := side*landmarkSpreadX + strideAmplitudeX*0.1*math.Sin(phase+0.2*l)
	y := hipHeight - landmarkSpreadY*l + strideAmplitudeY*0.1*math.Cos(2*phase)
	z := landmarkSpreadZ*math.Sin(0.5*l) + strideAmplitudeZ*0.1*math.Sin(phase)*side

	return Point{
		X:          x + noise*(getRandomFloat()-0.5),
		Y:          y + noise*(getRandomFloat()-0.5),
		Z:          z + noise*(getRandomFloat()-0.5),
		Confidence: clampConfidence(baseConfidence + confidenceJitter*(getRandomFloat()-0.5)),
	}
}

// perturbRecording derives a probe run: the same motion with amplified
// noise, the way a follow-up run drifts from its own template.
func perturbRecording(rec Recording, noise float64) Recording {
	out := Recording{Snapshots: make([]Snapshot, len(rec.Snapshots))}
	for f, snap := range rec.Snapshots {
		points := make([]Point, len(snap.Points))
		for l, p := range snap.Points {
			points[l] = Point{
				X:          p.X + noise*(getRandomFloat()-0.5),
				Y:          p.Y + noise*(getRandomFloat()-0.5),
				Z:          p.Z + noise*(getRandomFloat()-0.5),
				Confidence: p.Confidence,
			}
		}
		out.Snapshots[f] = Snapshot{Points: points}
	}
	return out
}

func clampConfidence(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
