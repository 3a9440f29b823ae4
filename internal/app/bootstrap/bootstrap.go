package bootstrap

import (
	"context"
	"errors"

	"github.com/getsentry/sentry-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"portfolio/app/internal/auth"
	"portfolio/app/internal/cache"
	"portfolio/app/internal/config"
	"portfolio/app/internal/content"
	"portfolio/app/internal/db"
	"portfolio/app/internal/docstore"
	apphttp "portfolio/app/internal/http"
	applog "portfolio/app/internal/log"
	"portfolio/app/internal/media"
)

type Dependencies struct {
	Config    *config.Config
	Logger    *logrus.Logger
	SentryHub *sentry.Hub
}

// Core is the storage and content layer shared by the server and the CLI.
type Core struct {
	Database *gorm.DB
	Cache    *cache.GormStore
	Content  *content.Service
	Registry *prometheus.Registry
	Cleanup  func() error
}

type Result struct {
	*Core
	Uploader   *media.Uploader
	Auth       *auth.Authenticator
	HTTPServer *apphttp.Server
}

// BuildCore opens the local database, connects the optional remote document
// store and wires the content service. An unreachable remote is logged and
// the service runs from the local cache.
func BuildCore(ctx context.Context, deps Dependencies) (*Core, error) {
	if deps.Config == nil {
		return nil, eris.New("config is required")
	}
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = applog.Discard()
	}

	database, err := db.Open(db.Options{Path: cfg.DBPath, Logger: logger})
	if err != nil {
		return nil, eris.Wrap(err, "opening database")
	}

	var closers []func() error
	closers = append(closers, func() error { return db.Close(database) })
	cleanup := func() error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}

	closeOnError := func(wrapper error) (*Core, error) {
		if closeErr := cleanup(); closeErr != nil {
			logger.WithError(closeErr).Error("closing resources after bootstrap failure")
		}
		return nil, wrapper
	}

	if err := cache.Migrate(ctx, database, logger); err != nil {
		return closeOnError(eris.Wrap(err, "running cache migrations"))
	}

	store, err := cache.NewStore(database, logger)
	if err != nil {
		return closeOnError(eris.Wrap(err, "creating local cache"))
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	metrics, err := content.NewMetrics(registry)
	if err != nil {
		return closeOnError(err)
	}

	var remote content.Remote
	if cfg.Remote.Enabled() {
		mongoStore, err := docstore.Open(ctx, docstore.Options{
			URI:            cfg.Remote.URI,
			Database:       cfg.Remote.Database,
			Logger:         logger,
			ConnectTimeout: cfg.Remote.Timeout,
		})
		if err != nil {
			logger.WithFields(logrus.Fields{
				"component": "bootstrap",
				"database":  cfg.Remote.Database,
				"error":     err.Error(),
			}).Error("remote document store unavailable, serving from local cache")
			applog.Capture(ctx, deps.SentryHub, err)
		} else {
			remote = mongoStore
			closers = append(closers, func() error {
				return mongoStore.Close(context.Background())
			})
			logger.WithFields(logrus.Fields{
				"component": "bootstrap",
				"database":  cfg.Remote.Database,
			}).Info("connected to remote document store")
		}
	}

	backend, err := content.NewBackend(content.BackendOptions{
		Cache:         store,
		Remote:        remote,
		Logger:        logger,
		SentryHub:     deps.SentryHub,
		Metrics:       metrics,
		RemoteTimeout: cfg.Remote.Timeout,
	})
	if err != nil {
		return closeOnError(eris.Wrap(err, "creating content backend"))
	}

	service, err := content.NewService(content.ServiceOptions{Backend: backend})
	if err != nil {
		return closeOnError(eris.Wrap(err, "creating content service"))
	}

	return &Core{
		Database: database,
		Cache:    store,
		Content:  service,
		Registry: registry,
		Cleanup:  cleanup,
	}, nil
}

// Build composes every layer needed to serve HTTP traffic.
func Build(ctx context.Context, deps Dependencies) (Result, error) {
	core, err := BuildCore(ctx, deps)
	if err != nil {
		return Result{}, err
	}
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = applog.Discard()
	}

	closers := []func() error{core.Cleanup}
	closeOnError := func(wrapper error) (Result, error) {
		for i := len(closers) - 1; i >= 0; i-- {
			if closeErr := closers[i](); closeErr != nil {
				logger.WithError(closeErr).Error("closing resources after bootstrap failure")
			}
		}
		return Result{}, wrapper
	}

	var bucket media.ObjectStore
	if cfg.Media.Bucket != "" {
		bucketStore, err := media.NewBucketStore(ctx, cfg.Media.Bucket)
		if err != nil {
			logger.WithFields(logrus.Fields{
				"component": "bootstrap",
				"bucket":    cfg.Media.Bucket,
				"error":     err.Error(),
			}).Error("image bucket unavailable, uploads will be stored inline")
			applog.Capture(ctx, deps.SentryHub, err)
		} else {
			bucket = bucketStore
			closers = append(closers, bucketStore.Close)
		}
	}

	uploader, err := media.NewUploader(media.UploaderOptions{
		Bucket:    bucket,
		Cache:     core.Cache,
		MaxBytes:  cfg.Media.MaxUploadBytes,
		Logger:    logger,
		SentryHub: deps.SentryHub,
	})
	if err != nil {
		return closeOnError(eris.Wrap(err, "creating uploader"))
	}

	authenticator, err := auth.New(auth.Options{
		Email:       cfg.Admin.Email,
		Password:    cfg.Admin.Password,
		Development: cfg.IsDevelopment(),
		SessionTTL:  cfg.Admin.SessionTTL,
		Logger:      logger,
	})
	if err != nil {
		return closeOnError(eris.Wrap(err, "creating authenticator"))
	}

	httpServer, err := apphttp.NewServer(apphttp.Options{
		Content:    core.Content,
		Uploader:   uploader,
		Auth:       authenticator,
		Database:   core.Database,
		Logger:     logger,
		SentryHub:  deps.SentryHub,
		Gatherer:   core.Registry,
		Registerer: core.Registry,
		RateLimiter: apphttp.RateLimiterSettings{
			Burst:             cfg.RateLimit.Burst,
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			ClientTTL:         cfg.RateLimit.ClientTTL,
		},
		SecureCookies: !cfg.IsDevelopment(),
	})
	if err != nil {
		return closeOnError(eris.Wrap(err, "initialising http server"))
	}
	closers = append(closers, func() error {
		httpServer.Close()
		return nil
	})

	core.Cleanup = func() error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}

	return Result{
		Core:       core,
		Uploader:   uploader,
		Auth:       authenticator,
		HTTPServer: httpServer,
	}, nil
}
