package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// Config holds runtime configuration values for the portfolio server.
type Config struct {
	DBPath        string
	ServerPort    int
	LogLevel      string
	SentryDSN     string
	Environment   string
	ShutdownGrace time.Duration
	SeedPath      string

	Remote    RemoteConfig
	Admin     AdminConfig
	Media     MediaConfig
	RateLimit RateLimitConfig
}

// RemoteConfig describes the optional MongoDB document store.
type RemoteConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Enabled reports whether a remote document store has been configured.
func (c RemoteConfig) Enabled() bool {
	return strings.TrimSpace(c.URI) != ""
}

// AdminConfig holds the dashboard credentials and session lifetime.
type AdminConfig struct {
	Email      string
	Password   string
	SessionTTL time.Duration
}

// MediaConfig controls image uploads.
type MediaConfig struct {
	Bucket         string
	MaxUploadBytes int64
}

// RateLimitConfig configures the per-client token bucket.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
	ClientTTL         time.Duration
}

const (
	defaultDBPath         = "./data/portfolio.db"
	defaultServerPort     = 8080
	defaultLogLevel       = "info"
	defaultEnvironment    = "development"
	defaultShutdownGrace  = 10 * time.Second
	defaultMongoDatabase  = "portfolio"
	defaultRemoteTimeout  = 5 * time.Second
	defaultAdminEmail     = "admin@example.com"
	defaultSessionTTL     = 12 * time.Hour
	defaultMaxUploadBytes = 2 * 1024 * 1024
	defaultRateLimitRPS   = 5
	defaultRateLimitBurst = 20
	defaultRateLimitTTL   = 10 * time.Minute
)

// Load reads configuration values from environment variables, applying defaults where necessary.
func Load() (*Config, error) {
	cfg := &Config{
		DBPath:      getEnv("DB_PATH", defaultDBPath),
		LogLevel:    getEnv("LOG_LEVEL", defaultLogLevel),
		SentryDSN:   os.Getenv("SENTRY_DSN"),
		Environment: getEnv("ENV", defaultEnvironment),
		SeedPath:    os.Getenv("SEED_PATH"),
		Remote: RemoteConfig{
			URI:      os.Getenv("MONGO_URI"),
			Database: getEnv("MONGO_DATABASE", defaultMongoDatabase),
		},
		Admin: AdminConfig{
			Email:    getEnv("ADMIN_EMAIL", defaultAdminEmail),
			Password: os.Getenv("ADMIN_PASSWORD"),
		},
		Media: MediaConfig{
			Bucket: os.Getenv("GCS_BUCKET"),
		},
	}

	portValue := getEnv("SERVER_PORT", strconv.Itoa(defaultServerPort))
	port, err := strconv.Atoi(portValue)
	if err != nil {
		return nil, eris.Wrapf(err, "invalid SERVER_PORT value: %s", portValue)
	}
	cfg.ServerPort = port

	durations := []struct {
		key      string
		fallback time.Duration
		target   *time.Duration
	}{
		{"SHUTDOWN_GRACE", defaultShutdownGrace, &cfg.ShutdownGrace},
		{"REMOTE_TIMEOUT", defaultRemoteTimeout, &cfg.Remote.Timeout},
		{"SESSION_TTL", defaultSessionTTL, &cfg.Admin.SessionTTL},
		{"RATE_LIMIT_CLIENT_TTL", defaultRateLimitTTL, &cfg.RateLimit.ClientTTL},
	}
	for _, d := range durations {
		value, err := getDuration(d.key, d.fallback)
		if err != nil {
			return nil, err
		}
		*d.target = value
	}

	uploadValue := getEnv("MAX_UPLOAD_BYTES", strconv.Itoa(defaultMaxUploadBytes))
	maxUpload, err := strconv.ParseInt(uploadValue, 10, 64)
	if err != nil || maxUpload <= 0 {
		return nil, eris.Errorf("invalid MAX_UPLOAD_BYTES value: %s", uploadValue)
	}
	cfg.Media.MaxUploadBytes = maxUpload

	rpsValue := getEnv("RATE_LIMIT_RPS", strconv.Itoa(defaultRateLimitRPS))
	rps, err := strconv.ParseFloat(rpsValue, 64)
	if err != nil || rps <= 0 {
		return nil, eris.Errorf("invalid RATE_LIMIT_RPS value: %s", rpsValue)
	}
	cfg.RateLimit.RequestsPerSecond = rps

	burstValue := getEnv("RATE_LIMIT_BURST", strconv.Itoa(defaultRateLimitBurst))
	burst, err := strconv.Atoi(burstValue)
	if err != nil || burst <= 0 {
		return nil, eris.Errorf("invalid RATE_LIMIT_BURST value: %s", burstValue)
	}
	cfg.RateLimit.Burst = burst

	return cfg, nil
}

// IsDevelopment reports whether the server runs in the development environment.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(strings.TrimSpace(c.Environment), defaultEnvironment)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}

	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, eris.Wrapf(err, "invalid %s value: %s", key, raw)
	}
	if value <= 0 {
		return 0, eris.Errorf("invalid %s value: %s", key, raw)
	}

	return value, nil
}
