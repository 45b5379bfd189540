package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_WritesToFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	logger := New()
	logger.Info().Str("event", "test").Msg("hello")

	data, err := os.ReadFile(filepath.Join(home, ".deepchat", FileName))
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}

	if !strings.Contains(string(data), `"event":"test"`) {
		t.Errorf("log output missing field, got %s", data)
	}
}

func TestNewWriterLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")

	logger, err := NewWriterLogger(path)
	if err != nil {
		t.Fatalf("NewWriterLogger failed: %v", err)
	}

	logger.Warn().Msg("careful")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if !strings.Contains(string(data), "careful") {
		t.Errorf("log output missing message, got %s", data)
	}
}

func TestNewWriterLogger_BadPath(t *testing.T) {
	_, err := NewWriterLogger(filepath.Join(t.TempDir(), "missing", "dir", "out.log"))
	if err == nil {
		t.Error("expected error for unwritable path")
	}
}
