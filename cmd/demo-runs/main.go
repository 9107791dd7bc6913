package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/strideworks/ghostrun/internal/demoruns"
)

// Default configuration constants.
const (
	defaultFramesMin   = 90
	defaultFramesMax   = 150
	defaultProbes      = 100
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 30 * time.Second
	defaultDemoTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL      = flag.String("url", "http://localhost:8080", "Base URL of the service")
		framesMin    = flag.Int("frames-min", defaultFramesMin, "Shortest generated recording in frames")
		framesMax    = flag.Int("frames-max", defaultFramesMax, "Longest generated recording in frames")
		targetFrames = flag.Int("target", 0, "Requested profile frame count; 0 lets the engine pick")
		probes       = flag.Int("probes", defaultProbes, "Number of probe runs to score against the profile")
		workers      = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout      = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		outputFile   = flag.String("output", "", "Output file for session artifacts (default: ghost_session_TIMESTAMP.json)")
		logFile      = flag.String("log", "", "Log file for demo output (default: demo_log_TIMESTAMP.log)")
		verbose      = flag.Bool("verbose", false, "Enable verbose logging")
		help         = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		demoruns.ShowHelp()
		return
	}

	// Setup logging
	if err := demoruns.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), defaultDemoTimeout)
	defer cancel()

	// Create demo configuration
	config := &demoruns.Config{
		BaseURL:      *baseURL,
		FramesMin:    *framesMin,
		FramesMax:    *framesMax,
		TargetFrames: *targetFrames,
		Probes:       *probes,
		Workers:      *workers,
		Timeout:      *timeout,
		OutputFile:   *outputFile,
		LogFile:      *logFile,
		Verbose:      *verbose,
	}

	// Run the demo
	if err := demoruns.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Demo failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
