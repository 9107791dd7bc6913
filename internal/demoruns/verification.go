package demoruns

import (
	"fmt"
	"log"
	"math"
)

// verifyProfile checks the invariants the engine promises for every profile
// against the session's own recordings.
func verifyProfile(config *Config, recordings []Recording, profile Profile, landmarks int) error {
	log.Println("🔍 Verifying profile invariants...")

	if profile.NormalizedFrameCount < 1 {
		return fmt.Errorf("profile has no frames")
	}
	if config.TargetFrames > 0 && profile.NormalizedFrameCount != config.TargetFrames {
		return fmt.Errorf("profile has %d frames, requested %d", profile.NormalizedFrameCount, config.TargetFrames)
	}
	if config.TargetFrames == 0 {
		total := 0
		for _, rec := range recordings {
			total += len(rec.Snapshots)
		}
		want := total / len(recordings)
		if profile.NormalizedFrameCount != want {
			return fmt.Errorf("profile has %d frames, mean source length is %d", profile.NormalizedFrameCount, want)
		}
	}

	if len(profile.OriginalFrameCounts) != len(recordings) {
		return fmt.Errorf("profile reports %d source lengths, want %d", len(profile.OriginalFrameCounts), len(recordings))
	}
	for i, rec := range recordings {
		if profile.OriginalFrameCounts[i] != len(rec.Snapshots) {
			return fmt.Errorf("source %d length mismatch: profile says %d, sent %d",
				i, profile.OriginalFrameCounts[i], len(rec.Snapshots))
		}
	}

	if len(profile.Template) != landmarks {
		return fmt.Errorf("collapsed template has %d points, want %d", len(profile.Template), landmarks)
	}
	if len(profile.Tolerance) != landmarks {
		return fmt.Errorf("collapsed tolerance has %d points, want %d", len(profile.Tolerance), landmarks)
	}
	if len(profile.TemplateFrames) != profile.NormalizedFrameCount {
		return fmt.Errorf("template carries %d frames, want %d", len(profile.TemplateFrames), profile.NormalizedFrameCount)
	}
	if len(profile.ToleranceFrames) != profile.NormalizedFrameCount {
		return fmt.Errorf("tolerance carries %d frames, want %d", len(profile.ToleranceFrames), profile.NormalizedFrameCount)
	}

	for f, snap := range profile.ToleranceFrames {
		for l, p := range snap.Points {
			if p.X < 0 || p.Y < 0 || p.Z < 0 || p.Confidence < 0 {
				return fmt.Errorf("negative tolerance at frame %d landmark %d", f, l)
			}
		}
	}

	if profile.RepresentativeIndex < 0 || profile.RepresentativeIndex >= len(recordings) {
		return fmt.Errorf("representative index %d out of range", profile.RepresentativeIndex)
	}
	if profile.RepresentativeDistance < 0 {
		return fmt.Errorf("negative representative distance %.6f", profile.RepresentativeDistance)
	}

	log.Println("✅ Profile invariants verified")
	return nil
}

// verifyRepresentative checks that scoring reproduces the build's own
// arithmetic: the representative's total error equals the reported
// representative distance, an independent client-side recomputation from
// the expanded template agrees, and no source scores below it.
func verifyRepresentative(recordings []Recording, profile Profile, sourceTotals []float64) error {
	log.Println("🔍 Verifying representative selection against live scores...")

	repTotal := sourceTotals[profile.RepresentativeIndex]
	if !closeEnough(repTotal, profile.RepresentativeDistance) {
		return fmt.Errorf("representative rescored at %.9f, profile reports %.9f",
			repTotal, profile.RepresentativeDistance)
	}

	recomputed, err := recomputeDistance(recordings[profile.RepresentativeIndex], profile)
	if err != nil {
		return fmt.Errorf("recomputing representative distance: %w", err)
	}
	if !closeEnough(recomputed, profile.RepresentativeDistance) {
		return fmt.Errorf("client recomputed %.9f, profile reports %.9f",
			recomputed, profile.RepresentativeDistance)
	}

	for i, total := range sourceTotals {
		if total < profile.RepresentativeDistance && !closeEnough(total, profile.RepresentativeDistance) {
			return fmt.Errorf("source %d scored %.9f, below the representative's %.9f",
				i, total, profile.RepresentativeDistance)
		}
	}

	log.Printf("✅ Representative #%d reproduces its build distance (%.6f)",
		profile.RepresentativeIndex, profile.RepresentativeDistance)
	return nil
}

// resampleSnapshots mirrors the engine's resampler: output index i samples
// continuous source position p = i*(n-1)/(target-1), blending the frames at
// floor(p) and ceil(p) with weight p-floor(p). Matching lengths pass through
// untouched.
func resampleSnapshots(snapshots []Snapshot, target int) []Snapshot {
	n := len(snapshots)
	if n == target {
		return snapshots
	}

	out := make([]Snapshot, target)
	last := n - 1
	for i := 0; i < target; i++ {
		p := 0.0
		if target > 1 {
			p = float64(i*last) / float64(target-1)
		}
		lo := int(math.Floor(p))
		hi := int(math.Ceil(p))
		if hi > last {
			hi = last
		}

		if lo == hi {
			out[i] = Snapshot{Points: append([]Point(nil), snapshots[lo].Points...)}
			continue
		}

		alpha := p - float64(lo)
		points := make([]Point, len(snapshots[lo].Points))
		for l := range points {
			a, b := snapshots[lo].Points[l], snapshots[hi].Points[l]
			points[l] = Point{
				X:          (1-alpha)*a.X + alpha*b.X,
				Y:          (1-alpha)*a.Y + alpha*b.Y,
				Z:          (1-alpha)*a.Z + alpha*b.Z,
				Confidence: (1-alpha)*a.Confidence + alpha*b.Confidence,
			}
		}
		out[i] = Snapshot{Points: points}
	}
	return out
}

// recomputeDistance rebuilds a recording's distance to the profile template
// from raw wire data, without trusting the engine: resample to the profile's
// length, then sum per-frame Euclidean position errors against the expanded
// template. Confidence never contributes to distance.
func recomputeDistance(rec Recording, profile Profile) (float64, error) {
	if len(profile.TemplateFrames) != profile.NormalizedFrameCount {
		return 0, fmt.Errorf("template carries %d frames, want %d",
			len(profile.TemplateFrames), profile.NormalizedFrameCount)
	}

	normalized := resampleSnapshots(rec.Snapshots, profile.NormalizedFrameCount)
	total := 0.0
	for f, snap := range normalized {
		tmpl := profile.TemplateFrames[f]
		if len(snap.Points) != len(tmpl.Points) {
			return 0, fmt.Errorf("frame %d has %d points, template has %d",
				f, len(snap.Points), len(tmpl.Points))
		}
		sum := 0.0
		for l, p := range snap.Points {
			t := tmpl.Points[l]
			dx := p.X - t.X
			dy := p.Y - t.Y
			dz := p.Z - t.Z
			sum += dx*dx + dy*dy + dz*dz
		}
		total += math.Sqrt(sum)
	}
	return total, nil
}

// closeEnough compares two distances with relative slack.
func closeEnough(a, b float64) bool {
	scale := math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
	return math.Abs(a-b) <= distanceSlack*scale
}

// displayFinalStats prints the final demo statistics.
func displayFinalStats(stats *Stats) {
	var successRate, probesPerSecond float64

	attempted := stats.ProbesScored + stats.ProbesFailed
	if attempted > 0 {
		successRate = float64(stats.ProbesScored) / float64(attempted) * PercentageMultiplier
	}

	if stats.Duration > 0 {
		probesPerSecond = float64(stats.ProbesScored) / stats.Duration.Seconds()
	}

	log.Printf(`📊 Final statistics:
   Recordings generated: %d
   Frames generated: %d
   Probes scored: %d
   Probes failed: %d
   Best probe error: %.6f
   Worst probe error: %.6f
   Duration: %s
   Success rate: %.1f%%
   Probes per second: %.1f
`, stats.RecordingsGenerated, stats.FramesGenerated, stats.ProbesScored, stats.ProbesFailed,
		stats.BestProbeError, stats.WorstProbeError, stats.Duration, successRate, probesPerSecond)
}
