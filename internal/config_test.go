package internal

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	pkgconfig "github.com/starford/cookbook/pkg/config"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should pass: %v", err)
	}
	if cfg.App.HTTP.Address() != ":8080" {
		t.Errorf("address = %q, want :8080", cfg.App.HTTP.Address())
	}
	if cfg.SQLite.Path != "./cookbook.db" {
		t.Errorf("sqlite path = %q", cfg.SQLite.Path)
	}
	if !cfg.Seed.Enabled {
		t.Error("seeding should be enabled by default")
	}
}

func TestHTTPConfig_InvalidPort(t *testing.T) {
	for _, port := range []int{0, -1, 70000} {
		cfg := NewDefaultConfig()
		cfg.App.HTTP.Port = port
		if err := cfg.Validate(); err == nil {
			t.Errorf("port %d should fail validation", port)
		}
	}
}

func TestHTTPConfig_RateLimit(t *testing.T) {
	cfg := HTTPConfig{Port: 8080, ShutdownTimeout: time.Second}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled rate limit should pass: %v", err)
	}
	if cfg.Limiter() != nil {
		t.Error("limiter should be nil when rate_limit is 0")
	}

	cfg.RateLimit = 10
	if err := cfg.Validate(); err == nil {
		t.Fatal("rate_limit without rate_burst should fail")
	}

	cfg.RateBurst = 20
	if err := cfg.Validate(); err != nil {
		t.Fatalf("rate limit with burst should pass: %v", err)
	}
	l := cfg.Limiter()
	if l == nil {
		t.Fatal("limiter should be set")
	}
	if l.Burst() != 20 {
		t.Errorf("burst = %d, want 20", l.Burst())
	}
}

func TestSQLiteConfig_EmptyPath(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.SQLite.Path = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("empty sqlite path should fail validation")
	}
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	t.Setenv("COOKBOOK_TEST_DB", "/tmp/from-env.db")
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
app:
  log_level: debug
  http:
    port: 9090
    shutdown_timeout: 3s
sqlite:
  path: ${COOKBOOK_TEST_DB}
seed:
  enabled: false
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := NewDefaultConfig()
	if err := pkgconfig.Load(path, cfg); err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.App.LogLevel != slog.LevelDebug {
		t.Errorf("log level = %v, want debug", cfg.App.LogLevel)
	}
	if cfg.App.HTTP.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.App.HTTP.Port)
	}
	if cfg.App.HTTP.ShutdownTimeout != 3*time.Second {
		t.Errorf("shutdown timeout = %v, want 3s", cfg.App.HTTP.ShutdownTimeout)
	}
	if cfg.App.HTTP.RateLimit != 50 {
		t.Errorf("rate limit default lost: %v", cfg.App.HTTP.RateLimit)
	}
	if cfg.SQLite.Path != "/tmp/from-env.db" {
		t.Errorf("sqlite path = %q, want expanded env value", cfg.SQLite.Path)
	}
	if cfg.Seed.Enabled {
		t.Error("seed should be disabled")
	}
}
