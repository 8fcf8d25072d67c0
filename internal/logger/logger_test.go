package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"
)

func TestNewLogrusLogger_Success(t *testing.T) {
	// Use a temp file
	tmpfile, err := os.CreateTemp("", "testlog-*.log")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer os.Remove(tmpfile.Name())

	log, err := NewLogrusLogger(tmpfile.Name(), "debug")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if log == nil {
		t.Fatal("expected logger, got nil")
	}
}

func TestNewLogrusLogger_Failure(t *testing.T) {
	// Intentionally invalid file path
	_, err := NewLogrusLogger("/invalid-path/does-not-exist.log", "info")
	if err == nil {
		t.Fatal("expected error for invalid path, got nil")
	}
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	log := newLogrusLogger(&buf, "info")

	log.WithFields(map[string]any{"foo": "bar"}).Error(errors.New("boom"))

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected json log line, got %q: %v", buf.String(), err)
	}
	if line["foo"] != "bar" || line["msg"] != "boom" || line["level"] != "error" {
		t.Errorf("unexpected log line: %v", line)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := newLogrusLogger(&buf, "warn")

	log.Debug("hidden debug")
	log.Info("hidden info")
	log.Warn("visible warn")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("expected debug/info to be filtered, got %q", out)
	}
	if !strings.Contains(out, "visible warn") {
		t.Errorf("expected warn line, got %q", out)
	}
}

func TestUnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := newLogrusLogger(&buf, "chatty")

	log.Debug("dropped")
	log.Info("kept")

	if strings.Contains(buf.String(), "dropped") || !strings.Contains(buf.String(), "kept") {
		t.Errorf("unexpected output for fallback level: %q", buf.String())
	}
}
