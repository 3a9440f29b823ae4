package config

import (
	"strings"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()

	for _, key := range []string{
		"DB_PATH", "SERVER_PORT", "LOG_LEVEL", "SENTRY_DSN", "ENV", "SEED_PATH",
		"MONGO_URI", "MONGO_DATABASE", "REMOTE_TIMEOUT",
		"ADMIN_EMAIL", "ADMIN_PASSWORD", "SESSION_TTL",
		"GCS_BUCKET", "MAX_UPLOAD_BYTES",
		"RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "RATE_LIMIT_CLIENT_TTL",
		"SHUTDOWN_GRACE",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.DBPath != defaultDBPath {
		t.Errorf("expected default DB path %q, got %q", defaultDBPath, cfg.DBPath)
	}

	if cfg.ServerPort != defaultServerPort {
		t.Errorf("expected default server port %d, got %d", defaultServerPort, cfg.ServerPort)
	}

	if cfg.LogLevel != defaultLogLevel {
		t.Errorf("expected default log level %q, got %q", defaultLogLevel, cfg.LogLevel)
	}

	if cfg.Environment != defaultEnvironment {
		t.Errorf("expected default environment %q, got %q", defaultEnvironment, cfg.Environment)
	}

	if !cfg.IsDevelopment() {
		t.Errorf("expected default environment to count as development")
	}

	if cfg.ShutdownGrace != defaultShutdownGrace {
		t.Errorf("expected shutdown grace %s, got %s", defaultShutdownGrace, cfg.ShutdownGrace)
	}

	if cfg.Remote.Enabled() {
		t.Errorf("expected remote store to be disabled without MONGO_URI")
	}

	if cfg.Remote.Database != defaultMongoDatabase {
		t.Errorf("expected mongo database %q, got %q", defaultMongoDatabase, cfg.Remote.Database)
	}

	if cfg.Remote.Timeout != defaultRemoteTimeout {
		t.Errorf("expected remote timeout %s, got %s", defaultRemoteTimeout, cfg.Remote.Timeout)
	}

	if cfg.Admin.Email != defaultAdminEmail {
		t.Errorf("expected admin email %q, got %q", defaultAdminEmail, cfg.Admin.Email)
	}

	if cfg.Admin.Password != "" {
		t.Errorf("expected empty admin password, got %q", cfg.Admin.Password)
	}

	if cfg.Media.MaxUploadBytes != defaultMaxUploadBytes {
		t.Errorf("expected max upload %d, got %d", defaultMaxUploadBytes, cfg.Media.MaxUploadBytes)
	}

	if cfg.RateLimit.Burst != defaultRateLimitBurst {
		t.Errorf("expected burst %d, got %d", defaultRateLimitBurst, cfg.RateLimit.Burst)
	}
}

func TestLoadWithExplicitValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_PATH", "/tmp/portfolio.db")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("ENV", "production")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("MONGO_DATABASE", "site")
	t.Setenv("REMOTE_TIMEOUT", "2s")
	t.Setenv("ADMIN_EMAIL", "doctor@example.com")
	t.Setenv("ADMIN_PASSWORD", "hunter2")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("GCS_BUCKET", "portfolio-images")
	t.Setenv("MAX_UPLOAD_BYTES", "1024")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("RATE_LIMIT_BURST", "4")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.DBPath != "/tmp/portfolio.db" {
		t.Errorf("expected DB path %q, got %q", "/tmp/portfolio.db", cfg.DBPath)
	}

	if cfg.ServerPort != 9090 {
		t.Errorf("expected server port 9090, got %d", cfg.ServerPort)
	}

	if cfg.IsDevelopment() {
		t.Errorf("expected production environment not to count as development")
	}

	if !cfg.Remote.Enabled() || cfg.Remote.Database != "site" {
		t.Errorf("expected remote config to be populated, got %+v", cfg.Remote)
	}

	if cfg.Remote.Timeout != 2*time.Second {
		t.Errorf("expected remote timeout 2s, got %s", cfg.Remote.Timeout)
	}

	if cfg.Admin.Email != "doctor@example.com" || cfg.Admin.Password != "hunter2" {
		t.Errorf("unexpected admin config %+v", cfg.Admin)
	}

	if cfg.Admin.SessionTTL != 30*time.Minute {
		t.Errorf("expected session ttl 30m, got %s", cfg.Admin.SessionTTL)
	}

	if cfg.Media.Bucket != "portfolio-images" || cfg.Media.MaxUploadBytes != 1024 {
		t.Errorf("unexpected media config %+v", cfg.Media)
	}

	if cfg.RateLimit.RequestsPerSecond != 2.5 || cfg.RateLimit.Burst != 4 {
		t.Errorf("unexpected rate limit config %+v", cfg.RateLimit)
	}
}

func TestLoadInvalidPort(t *testing.T) {
	clearEnv(t)
	t.Setenv("SERVER_PORT", "invalid")

	_, err := Load()
	if err == nil {
		t.Fatalf("expected error for invalid port, got nil")
	}

	if !strings.Contains(err.Error(), "invalid SERVER_PORT value") {
		t.Fatalf("expected error to mention invalid SERVER_PORT value, got %v", err)
	}
}

func TestLoadInvalidDuration(t *testing.T) {
	clearEnv(t)
	t.Setenv("SESSION_TTL", "soon")

	_, err := Load()
	if err == nil {
		t.Fatalf("expected error for invalid duration, got nil")
	}

	if !strings.Contains(err.Error(), "invalid SESSION_TTL value") {
		t.Fatalf("expected error to mention SESSION_TTL, got %v", err)
	}
}

func TestLoadRejectsNonPositiveBurst(t *testing.T) {
	clearEnv(t)
	t.Setenv("RATE_LIMIT_BURST", "0")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for zero burst")
	}
}
