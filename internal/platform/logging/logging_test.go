package logging_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"timeanchor/internal/platform/logging"
)

func TestJSONLoggerHonoursLevel(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger, err := logging.New(&buf, "warn", "json")
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.Info("dropped")
	logger.Warn("kept", "kind", "high_risk")

	var line map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line); err != nil {
		t.Fatalf("expected a single json line, got %q: %v", buf.String(), err)
	}
	if line["msg"] != "kept" || line["kind"] != "high_risk" {
		t.Fatalf("unexpected log line: %v", line)
	}
}

func TestParseLevelRejectsUnknown(t *testing.T) {
	t.Parallel()
	if _, err := logging.ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
	if lvl, err := logging.ParseLevel("DEBUG"); err != nil || lvl != slog.LevelDebug {
		t.Fatalf("expected debug level, got %v %v", lvl, err)
	}
	if _, err := logging.New(&bytes.Buffer{}, "info", "xml"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}
