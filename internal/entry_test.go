package internal

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/starford/cookbook/internal/catalog"
	"github.com/starford/cookbook/internal/store"
	"github.com/starford/cookbook/internal/testutil"
)

func testHandler(t *testing.T) (*store.DB, http.Handler) {
	t.Helper()
	db := testutil.TestDB(t)
	cfg := NewDefaultConfig()
	cfg.App.HTTP.RateLimit = 0
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return db, newHandler(catalog.NewService(db), cfg, logger)
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func TestHandler_Health(t *testing.T) {
	db, h := testHandler(t)

	if rr := get(h, "/health/live"); rr.Code != http.StatusOK {
		t.Fatalf("live: status = %d", rr.Code)
	}
	if rr := get(h, "/health/ready"); rr.Code != http.StatusOK {
		t.Fatalf("ready: status = %d", rr.Code)
	}

	db.Close()
	rr := get(h, "/health/ready")
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("ready after close: status = %d, want 503", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "unavailable") {
		t.Errorf("body = %s", rr.Body.String())
	}
}

func TestHandler_APIMountedAtRoot(t *testing.T) {
	_, h := testHandler(t)

	rr := get(h, "/")
	if rr.Code != http.StatusOK {
		t.Fatalf("root: status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Welcome to the CookBook API!") {
		t.Errorf("root body = %s", rr.Body.String())
	}
	if rr.Header().Get("X-Request-Id") == "" {
		t.Error("missing request id header")
	}

	if rr := get(h, "/recipes"); rr.Code != http.StatusOK {
		t.Fatalf("recipes: status = %d", rr.Code)
	}
}

func TestHandler_Metrics(t *testing.T) {
	_, h := testHandler(t)
	get(h, "/recipes")

	rr := get(h, "/metrics")
	if rr.Code != http.StatusOK {
		t.Fatalf("metrics: status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "cookbook_http_requests_total") {
		t.Error("metrics output missing request counter")
	}
}

func TestSeedCatalog_Idempotent(t *testing.T) {
	db := testutil.TestDB(t)
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	ctx := context.Background()

	seeded, err := seedCatalog(ctx, db, "", logger)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if !seeded {
		t.Fatal("empty catalog should be seeded")
	}

	seeded, err = seedCatalog(ctx, db, "", logger)
	if err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if seeded {
		t.Error("populated catalog should not be seeded again")
	}

	n, err := db.CountRecipes(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("recipes = %d, want 3", n)
	}
}

func TestSeedCatalog_MissingFile(t *testing.T) {
	db := testutil.TestDB(t)
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	_, err := seedCatalog(context.Background(), db, filepath.Join(t.TempDir(), "missing.yaml"), logger)
	if err == nil {
		t.Fatal("expected error for missing dataset file")
	}
}

func TestRun_RequiresConfig(t *testing.T) {
	if err := Run(context.Background()); err == nil {
		t.Fatal("expected error without config")
	}
}
