package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestLoggerInit(t *testing.T) {
	err := Init()
	if err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		if err := Sync(); err != nil {
			t.Errorf("failed to sync logger: %v", err)
		}
	}()

	logger := Get()
	if logger == nil {
		t.Fatal("logger is nil after initialization")
	}

	// Re-initialization must be safe
	err = Init()
	if err != nil {
		t.Fatalf("failed to re-initialize logger: %v", err)
	}

	logger = Get()
	if logger == nil {
		t.Fatal("logger is nil after re-initialization")
	}
}

// Basic logging test (slog-backed; no Sugar)
func TestLoggerBasic(t *testing.T) {
	err := Init()
	if err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		if err := Sync(); err != nil {
			t.Errorf("failed to sync logger: %v", err)
		}
	}()

	logger := Get()
	if logger == nil {
		t.Fatal("logger is nil")
	}

	ctx := context.Background()
	logger.Info(ctx, "test message", String("k", "v"), Int("n", 1), Float64("f", 0.5))
	logger.Debug(ctx, "debug message", Duration("took", 5*time.Millisecond))
}

func TestLoggerNamed(t *testing.T) {
	err := Init()
	if err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		if err := Sync(); err != nil {
			t.Errorf("failed to sync logger: %v", err)
		}
	}()

	namedLogger := Named("test")
	if namedLogger == nil {
		t.Fatal("named logger is nil")
	}

	ctx := context.Background()
	namedLogger.Info(ctx, "test message")
}

func TestLoggerWith(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	scoped := Get().With(String("request_id", "abc-123"))
	if scoped == nil {
		t.Fatal("scoped logger is nil")
	}

	ctx := context.Background()
	scoped.Info(ctx, "scoped message")
	scoped.Warn(ctx, "scoped warning", Int("attempt", 2))
}

func TestLoggerJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(WithOutput(&buf), WithJSONFormat()); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		// Restore the default stdout logger for other tests
		if err := Init(); err != nil {
			t.Errorf("failed to restore logger: %v", err)
		}
	}()

	Get().Info(context.Background(), "json message", String("k", "v"))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not a JSON object: %v\n%s", err, buf.String())
	}
	if entry["msg"] != "json message" {
		t.Errorf("msg = %v, want %q", entry["msg"], "json message")
	}
	if entry["k"] != "v" {
		t.Errorf("k = %v, want %q", entry["k"], "v")
	}

	// The source must point at this test file, not at the logger internals.
	source, _ := entry["source"].(string)
	if !strings.Contains(source, "logger_test.go:") {
		t.Errorf("source = %q, want a logger_test.go location", source)
	}
}

func TestLoggerOutputCapture(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(WithOutput(&buf)); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		if err := Init(); err != nil {
			t.Errorf("failed to restore logger: %v", err)
		}
	}()

	ctx := context.Background()
	Get().Warn(ctx, "captured warning", Int("attempt", 3))

	out := buf.String()
	if !strings.Contains(out, "captured warning") {
		t.Errorf("output missing message: %s", out)
	}
	if !strings.Contains(out, "attempt=3") {
		t.Errorf("output missing field: %s", out)
	}

	// Debug is below the default info level and must be suppressed.
	buf.Reset()
	Get().Debug(ctx, "hidden debug line")
	if buf.Len() != 0 {
		t.Errorf("debug output not suppressed: %s", buf.String())
	}
}

func TestSetLevelString(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	for _, level := range []string{"debug", "info", "warn", "warning", "error", "", "DEBUG"} {
		if err := SetLevelString(level); err != nil {
			t.Errorf("SetLevelString(%q) returned error: %v", level, err)
		}
	}

	if err := SetLevelString("verbose"); err == nil {
		t.Error("SetLevelString accepted an unknown level")
	}
}
