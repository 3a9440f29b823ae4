package bootstrap

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"portfolio/app/internal/config"
	applog "portfolio/app/internal/log"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	return &config.Config{
		DBPath:      filepath.Join(t.TempDir(), "portfolio.db"),
		Environment: "development",
		Remote:      config.RemoteConfig{Database: "portfolio", Timeout: time.Second},
		Admin:       config.AdminConfig{Email: "admin@example.com", SessionTTL: time.Hour},
		Media:       config.MediaConfig{MaxUploadBytes: 1 << 20},
		RateLimit: config.RateLimitConfig{
			RequestsPerSecond: 10,
			Burst:             10,
			ClientTTL:         time.Minute,
		},
	}
}

func TestBuildServesHealthWithoutRemote(t *testing.T) {
	result, err := Build(context.Background(), Dependencies{Config: testConfig(t), Logger: applog.Discard()})
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	t.Cleanup(func() {
		if err := result.Cleanup(); err != nil {
			t.Fatalf("cleanup returned error: %v", err)
		}
	})

	if result.Content.RemoteAvailable() {
		t.Fatalf("expected no remote without MONGO_URI")
	}

	rec := httptest.NewRecorder()
	result.HTTPServer.ServeHTTP(rec, httptest.NewRequest("GET", "/healthz", nil))
	if rec.Code != 200 {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}

func TestBuildRequiresAdminPasswordOutsideDevelopment(t *testing.T) {
	cfg := testConfig(t)
	cfg.Environment = "production"

	if _, err := Build(context.Background(), Dependencies{Config: cfg, Logger: applog.Discard()}); err == nil {
		t.Fatalf("expected error without ADMIN_PASSWORD in production")
	}
}

func TestBuildCoreFallsBackWhenRemoteUnreachable(t *testing.T) {
	if testing.Short() {
		t.Skip("waits for the mongo connect timeout")
	}

	cfg := testConfig(t)
	cfg.Remote.URI = "mongodb://127.0.0.1:1"
	cfg.Remote.Timeout = 200 * time.Millisecond

	core, err := BuildCore(context.Background(), Dependencies{Config: cfg, Logger: applog.Discard()})
	if err != nil {
		t.Fatalf("BuildCore returned error: %v", err)
	}
	t.Cleanup(func() { _ = core.Cleanup() })

	if core.Content.RemoteAvailable() {
		t.Fatalf("expected unreachable remote to be skipped")
	}

	hero := core.Content.HeroData(context.Background())
	if hero.Title == "" {
		t.Fatalf("expected default hero when offline")
	}
}
