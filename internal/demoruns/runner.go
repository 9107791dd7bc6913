package demoruns

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/strideworks/ghostrun/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
)

// sessionArtifacts is what the demo writes to disk: everything needed to
// replay the session against another instance.
type sessionArtifacts struct {
	SessionID  string      `json:"session_id"`
	Recordings []Recording `json:"recordings"`
	Profile    Profile     `json:"profile"`
}

// Run executes the complete demo session.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting ghostrun demo",
		logger.String("baseURL", config.BaseURL),
		logger.Int("framesMin", config.FramesMin),
		logger.Int("framesMax", config.FramesMax),
		logger.Int("targetFrames", config.TargetFrames),
		logger.Int("probes", config.Probes),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.String("logFile", config.LogFile),
		logger.Any("verbose", config.Verbose))

	client := newHTTPClient(config.Timeout)

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, client, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Discover the engine configuration
	descriptor, err := fetchDescriptor(ctx, client, config)
	if err != nil {
		return fmt.Errorf("service discovery failed: %w", err)
	}

	// Step 3: Generate the session recordings
	sessionID, recordings, err := generateRecordings(ctx, config,
		descriptor.Engine.LandmarkCount, descriptor.Engine.RecordingsPerProfile, stats)
	if err != nil {
		return fmt.Errorf("recording generation failed: %w", err)
	}

	// Step 4: Exercise the resampler
	if err := resampleRoundTrip(ctx, client, config, recordings[0]); err != nil {
		return fmt.Errorf("resample check failed: %w", err)
	}

	// Step 5: Build the ghost profile
	profile, err := buildProfile(ctx, client, config, recordings)
	if err != nil {
		return fmt.Errorf("profile build failed: %w", err)
	}

	// Step 6: Verify the profile invariants
	if err := verifyProfile(config, recordings, profile, descriptor.Engine.LandmarkCount); err != nil {
		return fmt.Errorf("profile verification failed: %w", err)
	}

	// Step 7: Score the sources and confirm the representative
	sourceTotals, err := scoreSources(ctx, client, config, recordings, profile)
	if err != nil {
		return fmt.Errorf("source scoring failed: %w", err)
	}
	if err := verifyRepresentative(recordings, profile, sourceTotals); err != nil {
		return fmt.Errorf("representative verification failed: %w", err)
	}

	// Step 8: Score probe runs concurrently
	if err := scoreProbes(ctx, client, config, recordings, profile, stats); err != nil {
		return fmt.Errorf("probe scoring failed: %w", err)
	}

	// Step 9: Save the session artifacts
	if err := saveSessionToFile(ctx, config, sessionArtifacts{
		SessionID:  sessionID,
		Recordings: recordings,
		Profile:    profile,
	}); err != nil {
		logger.Get().Warn(ctx, "failed to save session artifacts", logger.Error(err))
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "demo completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, client *HTTPClient, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	resp, err := client.Get(ctx, config.BaseURL+"/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	// Accept any 200 response as healthy (the service returns Prometheus metrics)
	if resp.StatusCode != StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// fetchDescriptor reads the engine configuration from the root endpoint.
func fetchDescriptor(ctx context.Context, client *HTTPClient, config *Config) (Descriptor, error) {
	logger.Get().Info(ctx, "fetching service descriptor")

	resp, err := client.Get(ctx, config.BaseURL+"/")
	if err != nil {
		return Descriptor{}, fmt.Errorf("failed to connect to service: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return Descriptor{}, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != StatusOK {
		return Descriptor{}, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var descriptor Descriptor
	if err := unmarshalJSON(body, &descriptor); err != nil {
		return Descriptor{}, fmt.Errorf("failed to parse descriptor: %w", err)
	}

	if descriptor.Engine.LandmarkCount < 1 || descriptor.Engine.RecordingsPerProfile < 1 {
		return Descriptor{}, fmt.Errorf("descriptor reports an unusable engine: %+v", descriptor.Engine)
	}

	logger.Get().Info(ctx, "service discovered",
		logger.String("name", descriptor.Name),
		logger.String("version", descriptor.Version),
		logger.Int("landmarks", descriptor.Engine.LandmarkCount),
		logger.Int("recordingsPerProfile", descriptor.Engine.RecordingsPerProfile))
	return descriptor, nil
}

// saveSessionToFile saves the session artifacts to a JSON file.
func saveSessionToFile(ctx context.Context, config *Config, artifacts sessionArtifacts) error {
	if len(artifacts.Recordings) == 0 {
		return fmt.Errorf("no recordings to save")
	}

	// Determine output filename
	filename := config.OutputFile
	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = "ghost_session_" + timestamp + ".json"
	}

	// Ensure the directory exists
	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close file", logger.Error(err))
		}
	}()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(artifacts); err != nil {
		return fmt.Errorf("failed to write session artifacts: %w", err)
	}

	logger.Get().Info(ctx, "session artifacts saved to file", logger.String("filename", filename))
	return nil
}
