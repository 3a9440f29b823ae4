package content

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	"portfolio/app/internal/cache"
	applog "portfolio/app/internal/log"
)

const defaultRemoteTimeout = 5 * time.Second

// BackendOptions wires the tiers shared by every store.
type BackendOptions struct {
	Cache         cache.Store
	Remote        Remote
	Logger        *logrus.Logger
	SentryHub     *sentry.Hub
	Metrics       *Metrics
	RemoteTimeout time.Duration
}

// Backend bundles the local cache, the optional remote and the reporting hooks.
type Backend struct {
	cache         cache.Store
	remote        Remote
	logger        *logrus.Logger
	sentryHub     *sentry.Hub
	metrics       *Metrics
	remoteTimeout time.Duration
}

// NewBackend validates opts and builds a Backend. Remote may be nil.
func NewBackend(opts BackendOptions) (*Backend, error) {
	if opts.Cache == nil {
		return nil, eris.New("local cache is required")
	}

	timeout := opts.RemoteTimeout
	if timeout <= 0 {
		timeout = defaultRemoteTimeout
	}

	logger := opts.Logger
	if logger == nil {
		logger = applog.Discard()
	}

	return &Backend{
		cache:         opts.Cache,
		remote:        opts.Remote,
		logger:        logger,
		sentryHub:     opts.SentryHub,
		metrics:       opts.Metrics,
		remoteTimeout: timeout,
	}, nil
}

// RemoteAvailable reports whether a remote document store is wired.
func (b *Backend) RemoteAvailable() bool {
	return b.remote != nil
}

// PingRemote checks the remote document store.
func (b *Backend) PingRemote(ctx context.Context) error {
	if b.remote == nil {
		return ErrRemoteUnavailable
	}

	return b.withRemote(ctx, func(ctx context.Context) error {
		return b.remote.Ping(ctx)
	})
}

func (b *Backend) withRemote(ctx context.Context, fn func(context.Context) error) error {
	remoteCtx, cancel := context.WithTimeout(ctx, b.remoteTimeout)
	defer cancel()
	return fn(remoteCtx)
}

func (b *Backend) readCache(ctx context.Context, entity, key string, dest any) bool {
	found, err := b.cache.Get(ctx, key, dest)
	if err != nil {
		b.logger.WithFields(logrus.Fields{
			"component": "content",
			"entity":    entity,
			"key":       key,
			"error":     err.Error(),
		}).Warn("reading local cache failed, treating as miss")
		return false
	}
	return found
}

func (b *Backend) mirror(ctx context.Context, entity, key string, value any) {
	if err := b.cache.Set(ctx, key, value); err != nil {
		b.logger.WithFields(logrus.Fields{
			"component": "content",
			"entity":    entity,
			"key":       key,
			"error":     err.Error(),
		}).Warn("mirroring remote data into local cache failed")
	}
}

func (b *Backend) remoteFailed(ctx context.Context, entity, operation string, err error) {
	b.metrics.observeRemoteError(entity, operation)

	b.logger.WithFields(logrus.Fields{
		"component": "content",
		"entity":    entity,
		"operation": operation,
		"error":     err.Error(),
	}).Error("remote document store operation failed")

	applog.Capture(ctx, b.sentryHub, err)
}

func (b *Backend) served(entity string, source Source) {
	b.metrics.observeRead(entity, source)

	if source != SourceRemote && b.logger.IsLevelEnabled(logrus.DebugLevel) {
		b.logger.WithFields(logrus.Fields{
			"component": "content",
			"entity":    entity,
			"source":    string(source),
		}).Debug("serving content from fallback tier")
	}
}
