package demoruns

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/strideworks/ghostrun/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	// Initialize the logger first
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "demo_log_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the demo runs tool.
func ShowHelp() {
	os.Stdout.WriteString(`Ghostrun Demo Tool
==================

Drives a running ghostrun instance end to end: generates five recordings
of a synthetic gait, builds a ghost profile from them, verifies the
profile's invariants, and scores probe runs against it.

Usage:
  go run cmd/demo-runs/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:8080")
  -frames-min int
        Shortest generated recording in frames (default 90)
  -frames-max int
        Longest generated recording in frames (default 150)
  -target int
        Requested profile frame count; 0 lets the engine pick (default 0)
  -probes int
        Number of probe runs to score against the profile (default 100)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -output string
        Output file for session artifacts (default: ghost_session_TIMESTAMP.json)
  -log string
        Log file for demo output (default: demo_log_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Demo with default settings
  go run cmd/demo-runs/main.go

  # Demo with custom parameters
  go run cmd/demo-runs/main.go -probes 1000 -workers 16 -url http://localhost:8080

  # Demo with a fixed profile length
  go run cmd/demo-runs/main.go -target 120 -verbose

  # Demo with a custom log file
  go run cmd/demo-runs/main.go -probes 500 -log my_demo.log
`)
}
