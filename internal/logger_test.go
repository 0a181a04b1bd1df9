package internal_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/deevus/blogstats/config"
	"github.com/deevus/blogstats/internal"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger_NoOutput(t *testing.T) {
	logger, err := internal.NewLogger(config.LogConfig{Level: "debug"}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if logger.Core().Enabled(zapcore.DebugLevel) {
		t.Error("expected a no-op logger")
	}
}

func TestNewLogger_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blogstats.log")
	logger, err := internal.NewLogger(config.LogConfig{Level: "warn", File: path}, "stderr")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	logger.Info("hidden")
	logger.Warn("refresh failed")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "hidden") {
		t.Error("info entry should be filtered at warn level")
	}
	if !strings.Contains(string(data), "refresh failed") {
		t.Errorf("expected warn entry, got %q", data)
	}
}

func TestNewLogger_BadLevel(t *testing.T) {
	if _, err := internal.NewLogger(config.LogConfig{Level: "loud"}, "stderr"); err == nil {
		t.Error("expected error for unknown level")
	}
}
