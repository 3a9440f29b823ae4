package http

import (
	stdhttp "net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/getsentry/sentry-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"portfolio/app/internal/auth"
	"portfolio/app/internal/content"
	"portfolio/app/internal/media"
)

// Options configures the HTTP server wiring.
type Options struct {
	Content  *content.Service
	Uploader *media.Uploader
	Auth     *auth.Authenticator
	Database *gorm.DB
	Logger   *logrus.Logger

	SentryHub *sentry.Hub
	// Gatherer backs /metrics. Registerer receives the request histogram.
	// Both are optional.
	Gatherer   prometheus.Gatherer
	Registerer prometheus.Registerer

	RateLimiter   RateLimiterSettings
	SecureCookies bool
}

// RateLimiterSettings configures the HTTP rate limiter behaviour.
type RateLimiterSettings struct {
	RequestsPerSecond float64
	Burst             int
	ClientTTL         time.Duration
}

// Server wires the HTTP transport layer via Huma and templ components.
type Server struct {
	api           huma.API
	mux           *stdhttp.ServeMux
	content       *content.Service
	uploader      *media.Uploader
	auth          *auth.Authenticator
	logger        *logrus.Logger
	sentry        *sentry.Hub
	db            *gorm.DB
	gatherer      prometheus.Gatherer
	metrics       *requestMetrics
	rateLimiter   *RateLimiter
	secureCookies bool
}

// NewServer constructs the HTTP server.
func NewServer(opts Options) (*Server, error) {
	if opts.Content == nil {
		return nil, eris.New("content service is required")
	}
	if opts.Uploader == nil {
		return nil, eris.New("uploader is required")
	}
	if opts.Auth == nil {
		return nil, eris.New("authenticator is required")
	}
	if opts.Database == nil {
		return nil, eris.New("database is required")
	}

	settings := opts.RateLimiter
	if settings.Burst <= 0 {
		return nil, eris.New("rate limiter burst must be greater than zero")
	}
	if settings.RequestsPerSecond <= 0 {
		return nil, eris.New("rate limiter requests per second must be greater than zero")
	}
	if settings.ClientTTL <= 0 {
		return nil, eris.New("rate limiter client TTL must be greater than zero")
	}

	metrics, err := newRequestMetrics(opts.Registerer)
	if err != nil {
		return nil, err
	}

	mux := stdhttp.NewServeMux()
	config := huma.DefaultConfig(apiTitle, apiVersion)
	config.Info.Description = "Portfolio site and admin content API."
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		adminSecurityScheme: {
			Type: "apiKey",
			In:   "cookie",
			Name: auth.CookieName,
		},
	}

	srv := &Server{
		api:           humago.New(mux, config),
		mux:           mux,
		content:       opts.Content,
		uploader:      opts.Uploader,
		auth:          opts.Auth,
		logger:        opts.Logger,
		sentry:        opts.SentryHub,
		db:            opts.Database,
		gatherer:      opts.Gatherer,
		metrics:       metrics,
		rateLimiter:   NewRateLimiter(settings.Burst, settings.RequestsPerSecond, settings.ClientTTL),
		secureCookies: opts.SecureCookies,
	}

	srv.registerMiddlewares()
	srv.registerRoutes()

	return srv, nil
}

const (
	apiTitle   = "Portfolio"
	apiVersion = "1.0.0"
)

// Handler exposes the underlying HTTP handler for wiring into the application.
func (s *Server) Handler() stdhttp.Handler {
	return s.mux
}

// API exposes the underlying Huma API instance.
func (s *Server) API() huma.API {
	return s.api
}

// Close stops background work owned by the server.
func (s *Server) Close() {
	s.rateLimiter.Close()
}

func (s *Server) registerMiddlewares() {
	s.api.UseMiddleware(
		s.sentryMiddleware(),
		s.recoveryMiddleware(),
		s.requestIDMiddleware(),
		s.rateLimitMiddleware(),
		s.loggingMiddleware(),
	)
}

func (s *Server) registerRoutes() {
	s.registerStaticRoutes()
	s.registerMetricsRoute()

	s.registerPageRoutes()
	s.registerPublicAPIRoutes()
	s.registerAdminRoutes()
	s.registerHealthRoute()
}

func (s *Server) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	s.mux.ServeHTTP(w, r)
}
