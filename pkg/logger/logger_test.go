package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/johnquangdev/voice-transcripts/pkg/config"
)

func TestNew_InvalidLevel(t *testing.T) {
	if _, err := New(config.LogConfig{Level: "loud"}, false); err == nil {
		t.Fatal("New() expected error for unknown level")
	}
}

func TestNew_WritesFileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	log, err := New(config.LogConfig{Level: "debug", File: path}, true)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	log.Info("transcript saved")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(data), `"msg":"transcript saved"`) {
		t.Errorf("log file = %s", data)
	}
	if !strings.Contains(string(data), `"timestamp"`) {
		t.Errorf("log file missing timestamp key: %s", data)
	}
}

func TestNew_LevelFiltersFileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	log, err := New(config.LogConfig{Level: "warn", File: path}, true)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	log.Info("hidden")
	log.Warn("visible")
	_ = log.Sync()

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "hidden") || !strings.Contains(string(data), "visible") {
		t.Errorf("log file = %s", data)
	}
}
