package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
)

func TestCloudRunHandlerWritesSeverityAndData(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(newCloudRunHandler(slog.LevelInfo, &buf)).With("request_id", "abc")

	log.Warn("upstream slow", "error", errors.New("timeout"))

	var event map[string]any
	if err := json.Unmarshal(buf.Bytes(), &event); err != nil {
		t.Fatalf("invalid json: %v (%s)", err, buf.String())
	}
	if event["severity"] != "WARNING" {
		t.Fatalf("severity mismatch: %v", event["severity"])
	}
	data, ok := event["data"].(map[string]any)
	if !ok {
		t.Fatalf("missing data: %v", event)
	}
	if data["request_id"] != "abc" {
		t.Errorf("request_id mismatch: %v", data["request_id"])
	}
	if data["error"] != "timeout" {
		t.Errorf("error attr mismatch: %v", data["error"])
	}
}

func TestCloudRunHandlerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(newCloudRunHandler(slog.LevelWarn, &buf))

	log.Info("dropped")
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
}

func TestNewParsesLevel(t *testing.T) {
	log := New("debug", NewTestHandler)
	if !log.Enabled(t.Context(), slog.LevelDebug) {
		t.Fatal("expected debug enabled")
	}
	log = New("bogus", NewTestHandler)
	if log.Enabled(t.Context(), slog.LevelDebug) {
		t.Fatal("unknown level should default to info")
	}
}
