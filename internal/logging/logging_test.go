package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestNewWritesToRotatedFile(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "bd.log")

	logger, rotated := New(Options{LogPath: logPath})
	if rotated == nil {
		t.Fatal("expected a lumberjack logger when LogPath is set")
	}
	defer rotated.Close()

	logger.Info("hello world")

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if len(data) == 0 {
		t.Error("expected the log file to contain the logged message")
	}
}

func TestNewRespectsVerboseLevel(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "bd.log")

	logger, rotated := New(Options{LogPath: logPath, Verbose: true})
	defer rotated.Close()

	if !logger.Enabled(nil, slog.LevelDebug) {
		t.Error("expected debug level to be enabled when Verbose is set")
	}
}

func TestNewDefaultsToInfoLevel(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "bd.log")

	logger, rotated := New(Options{LogPath: logPath})
	defer rotated.Close()

	if logger.Enabled(nil, slog.LevelDebug) {
		t.Error("expected debug level to be disabled by default")
	}
	if !logger.Enabled(nil, slog.LevelInfo) {
		t.Error("expected info level to be enabled by default")
	}
}

func TestDiscardProducesNoOutput(t *testing.T) {
	logger := Discard()
	if logger == nil {
		t.Fatal("expected a non-nil logger")
	}
	logger.Info("should be silently dropped")
}
