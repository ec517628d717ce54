package internal

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

func writeConfig(t *testing.T, path, level string) {
	t.Helper()
	data := "app:\n  log_level: " + level + "\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestWatchConfig_AppliesLogLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeConfig(t, path, "info")

	var level slog.LevelVar
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- WatchConfig(ctx, path, &level, logger) }()

	// Give the watcher time to register.
	time.Sleep(100 * time.Millisecond)
	writeConfig(t, path, "debug")

	eventually(t, 3*time.Second, 50*time.Millisecond, func() bool {
		return level.Level() == slog.LevelDebug
	}, "log level was not reloaded")

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("watcher returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatchConfig_InvalidFileKeepsLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeConfig(t, path, "warn")

	var level slog.LevelVar
	level.Set(slog.LevelWarn)
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	reloadLogLevel(path, &level, logger)
	if level.Level() != slog.LevelWarn {
		t.Fatalf("level = %v, want warn", level.Level())
	}

	if err := os.WriteFile(path, []byte("app: [not a map"), 0o644); err != nil {
		t.Fatal(err)
	}
	reloadLogLevel(path, &level, logger)
	if level.Level() != slog.LevelWarn {
		t.Errorf("level changed on invalid file: %v", level.Level())
	}
}
