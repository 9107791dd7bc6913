package demoruns

import (
	"context"
	"fmt"
	"log"
	"math"
	"sync"
	"sync/atomic"
	"time"
)

// probeNoise is the jitter amplitude applied to probe runs relative to the
// source takes.
const probeNoise = 0.05

type buildProfileRequest struct {
	Recordings       []Recording `json:"recordings"`
	TargetFrameCount *int        `json:"target_frame_count,omitempty"`
}

type scoreRunRequest struct {
	Recording Recording `json:"recording"`
	Profile   Profile   `json:"profile"`
}

// buildProfile asks the engine to aggregate the session recordings.
func buildProfile(ctx context.Context, client *HTTPClient, config *Config, recordings []Recording) (Profile, error) {
	log.Printf("👻 Building ghost profile from %d recordings...", len(recordings))

	req := buildProfileRequest{Recordings: recordings}
	if config.TargetFrames > 0 {
		req.TargetFrameCount = &config.TargetFrames
	}

	var profile Profile
	if err := postJSON(ctx, client, config.BaseURL, "/v1/profile", req, &profile); err != nil {
		return Profile{}, fmt.Errorf("profile build failed: %w", err)
	}

	log.Printf("✅ Profile built: %d frames, representative #%d at distance %.6f",
		profile.NormalizedFrameCount, profile.RepresentativeIndex, profile.RepresentativeDistance)
	return profile, nil
}

// scoreRecording scores a single run against the profile.
func scoreRecording(ctx context.Context, client *HTTPClient, config *Config, rec Recording, profile Profile) (ScoreResult, error) {
	var result ScoreResult
	err := postJSON(ctx, client, config.BaseURL, "/v1/score", scoreRunRequest{Recording: rec, Profile: profile}, &result)
	if err != nil {
		return ScoreResult{}, err
	}
	return result, nil
}

// scoreSources scores each source recording against the profile and returns
// their total errors in source order.
func scoreSources(ctx context.Context, client *HTTPClient, config *Config, recordings []Recording, profile Profile) ([]float64, error) {
	log.Printf("🏃 Scoring the %d source recordings against the profile...", len(recordings))

	totals := make([]float64, len(recordings))
	for i, rec := range recordings {
		result, err := scoreRecording(ctx, client, config, rec, profile)
		if err != nil {
			return nil, fmt.Errorf("scoring source %d failed: %w", i, err)
		}
		totals[i] = result.TotalError
		if config.Verbose {
			log.Printf("   source %d: total %.6f, mean %.6f, max %.6f",
				i, result.TotalError, result.MeanError, result.MaxError)
		}
	}
	return totals, nil
}

// scoreProbes derives noisy probe runs from the sources and scores them
// concurrently using a worker pool.
func scoreProbes(ctx context.Context, client *HTTPClient, config *Config, recordings []Recording, profile Profile, stats *Stats) error {
	log.Printf("📤 Scoring %d probe runs with %d workers...", config.Probes, config.Workers)

	var (
		scored int64
		failed int64
	)
	best := math.Inf(1)
	worst := math.Inf(-1)
	var extremaMu sync.Mutex

	// Progress reporting
	var lastReport time.Time
	reportInterval := 1 * time.Second

	probeChan := make(chan int, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()

			for index := range probeChan {
				select {
				case <-ctx.Done():
					return
				default:
					probe := perturbRecording(recordings[index%len(recordings)], probeNoise)
					result, err := scoreRecording(ctx, client, config, probe, profile)

					if err != nil {
						atomic.AddInt64(&failed, 1)
						if config.Verbose {
							log.Printf("⚠️  Probe %d failed: %v", index, err)
						}
					} else {
						atomic.AddInt64(&scored, 1)
						extremaMu.Lock()
						if result.TotalError < best {
							best = result.TotalError
						}
						if result.TotalError > worst {
							worst = result.TotalError
						}
						extremaMu.Unlock()
					}

					if time.Since(lastReport) >= reportInterval {
						lastReport = time.Now()
						done := atomic.LoadInt64(&scored) + atomic.LoadInt64(&failed)
						ok := atomic.LoadInt64(&scored)
						fail := atomic.LoadInt64(&failed)

						if config.Verbose {
							log.Printf("📊 Probe progress: %d/%d scored (success: %d, failed: %d)",
								done, config.Probes, ok, fail)
						} else {
							fmt.Printf("\r📤 Probes: %d/%d (success: %d, failed: %d)",
								done, config.Probes, ok, fail)
						}
					}
				}
			}
		}(i)
	}

	go func() {
		defer close(probeChan)
		for i := 0; i < config.Probes; i++ {
			select {
			case <-ctx.Done():
				return
			case probeChan <- i:
			}
		}
	}()

	wg.Wait()

	if !config.Verbose {
		fmt.Println() // New line after progress indicator
	}

	stats.ProbesScored = int(atomic.LoadInt64(&scored))
	stats.ProbesFailed = int(atomic.LoadInt64(&failed))
	if stats.ProbesScored > 0 {
		stats.BestProbeError = best
		stats.WorstProbeError = worst
	}

	log.Printf(`✅ Probe scoring completed:
   Scored: %d
   Failed: %d
   Best total error: %.6f
   Worst total error: %.6f
`, stats.ProbesScored, stats.ProbesFailed, stats.BestProbeError, stats.WorstProbeError)

	return nil
}

// resampleRoundTrip exercises /v1/resample both ways: an identity resample
// must echo the recording unchanged, and a stretch must honor the requested
// length.
func resampleRoundTrip(ctx context.Context, client *HTTPClient, config *Config, rec Recording) error {
	n := len(rec.Snapshots)
	log.Printf("🔁 Resampling a %d-frame recording to itself and to %d frames...", n, 2*n)

	echoed, err := resampleOnce(ctx, client, config, rec, n)
	if err != nil {
		return fmt.Errorf("identity resample failed: %w", err)
	}
	if err := sameRecording(rec, echoed); err != nil {
		return fmt.Errorf("identity resample altered the recording: %w", err)
	}

	stretched, err := resampleOnce(ctx, client, config, rec, 2*n)
	if err != nil {
		return fmt.Errorf("stretch resample failed: %w", err)
	}
	if got := len(stretched.Snapshots); got != 2*n {
		return fmt.Errorf("resample returned %d frames, want %d", got, 2*n)
	}

	log.Println("✅ Resample round trip verified")
	return nil
}

func resampleOnce(ctx context.Context, client *HTTPClient, config *Config, rec Recording, target int) (Recording, error) {
	req := map[string]interface{}{
		"recording":     rec,
		"target_length": target,
	}
	var response struct {
		Recording Recording `json:"recording"`
	}
	if err := postJSON(ctx, client, config.BaseURL, "/v1/resample", req, &response); err != nil {
		return Recording{}, err
	}
	return response.Recording, nil
}

// sameRecording reports the first difference between two recordings.
// Float64 values survive a JSON round trip exactly, so an identity resample
// is compared with plain equality.
func sameRecording(a, b Recording) error {
	if len(a.Snapshots) != len(b.Snapshots) {
		return fmt.Errorf("frame count %d vs %d", len(a.Snapshots), len(b.Snapshots))
	}
	for f := range a.Snapshots {
		ap, bp := a.Snapshots[f].Points, b.Snapshots[f].Points
		if len(ap) != len(bp) {
			return fmt.Errorf("frame %d has %d vs %d points", f, len(ap), len(bp))
		}
		for l := range ap {
			if ap[l] != bp[l] {
				return fmt.Errorf("frame %d landmark %d differs", f, l)
			}
		}
	}
	return nil
}
