package content

import (
	"context"

	"github.com/rotisserie/eris"
)

// SingletonSpec names where a single-document entity lives in each tier.
type SingletonSpec[T any] struct {
	Entity     string
	CacheKey   string
	Collection string
	DocumentID string
	Default    func() T
	Prepare    func(T) (T, error)
}

// Singleton serves one document through the remote → cache → default chain.
type Singleton[T any] struct {
	backend *Backend
	spec    SingletonSpec[T]
}

// NewSingleton builds a Singleton store.
func NewSingleton[T any](backend *Backend, spec SingletonSpec[T]) (*Singleton[T], error) {
	if backend == nil {
		return nil, eris.New("content backend is required")
	}
	if spec.Entity == "" || spec.CacheKey == "" || spec.Collection == "" || spec.DocumentID == "" {
		return nil, eris.New("singleton spec is incomplete")
	}
	if spec.Default == nil {
		return nil, eris.Errorf("default value is required for %s", spec.Entity)
	}

	return &Singleton[T]{backend: backend, spec: spec}, nil
}

// Get returns the document and the tier that served it. It never fails: every
// error along the chain is logged and the next tier is tried.
func (s *Singleton[T]) Get(ctx context.Context) (T, Source) {
	b := s.backend

	if b.RemoteAvailable() {
		var doc T
		var found bool
		err := b.withRemote(ctx, func(ctx context.Context) error {
			var getErr error
			found, getErr = b.remote.GetDocument(ctx, s.spec.Collection, s.spec.DocumentID, &doc)
			return getErr
		})

		switch {
		case err != nil:
			b.remoteFailed(ctx, s.spec.Entity, "get", err)
		case found:
			b.mirror(ctx, s.spec.Entity, s.spec.CacheKey, doc)
			b.served(s.spec.Entity, SourceRemote)
			return doc, SourceRemote
		default:
			// The remote has no document yet. A value written while the remote
			// was unreachable wins over the default.
			value, source := s.spec.Default(), SourceDefault
			var cached T
			if b.readCache(ctx, s.spec.Entity, s.spec.CacheKey, &cached) {
				value, source = cached, SourceCache
			}
			if setErr := b.withRemote(ctx, func(ctx context.Context) error {
				return b.remote.SetDocument(ctx, s.spec.Collection, s.spec.DocumentID, value)
			}); setErr != nil {
				b.remoteFailed(ctx, s.spec.Entity, "initialise", setErr)
			}
			if source == SourceDefault {
				b.mirror(ctx, s.spec.Entity, s.spec.CacheKey, value)
			}
			b.served(s.spec.Entity, source)
			return value, source
		}
	}

	var cached T
	if b.readCache(ctx, s.spec.Entity, s.spec.CacheKey, &cached) {
		b.served(s.spec.Entity, SourceCache)
		return cached, SourceCache
	}

	b.served(s.spec.Entity, SourceDefault)
	return s.spec.Default(), SourceDefault
}

// Set overwrites the document. The local cache is always written first; the
// remote write is best effort and its failure is only reported.
func (s *Singleton[T]) Set(ctx context.Context, value T) (T, error) {
	if s.spec.Prepare != nil {
		prepared, err := s.spec.Prepare(value)
		if err != nil {
			return value, err
		}
		value = prepared
	}

	b := s.backend
	if err := b.cache.Set(ctx, s.spec.CacheKey, value); err != nil {
		return value, eris.Wrapf(err, "saving %s locally", s.spec.Entity)
	}

	if b.RemoteAvailable() {
		if err := b.withRemote(ctx, func(ctx context.Context) error {
			return b.remote.SetDocument(ctx, s.spec.Collection, s.spec.DocumentID, value)
		}); err != nil {
			b.remoteFailed(ctx, s.spec.Entity, "set", err)
		}
	}

	return value, nil
}

// Sync pushes the cached document to the remote store.
func (s *Singleton[T]) Sync(ctx context.Context) (bool, error) {
	b := s.backend
	if !b.RemoteAvailable() {
		return false, ErrRemoteUnavailable
	}

	var cached T
	if !b.readCache(ctx, s.spec.Entity, s.spec.CacheKey, &cached) {
		return false, nil
	}

	if err := b.withRemote(ctx, func(ctx context.Context) error {
		return b.remote.SetDocument(ctx, s.spec.Collection, s.spec.DocumentID, cached)
	}); err != nil {
		b.remoteFailed(ctx, s.spec.Entity, "sync", err)
		return false, eris.Wrapf(err, "syncing %s", s.spec.Entity)
	}

	return true, nil
}
