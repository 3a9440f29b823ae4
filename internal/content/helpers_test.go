package content

import (
	"context"
	"encoding/json"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rotisserie/eris"

	"portfolio/app/internal/cache"
	"portfolio/app/internal/db"
	applog "portfolio/app/internal/log"
)

// memoryRemote is an in-memory Remote that can be switched into a failing state.
type memoryRemote struct {
	mu    sync.Mutex
	docs  map[string]map[string][]byte
	order map[string][]string
	fail  error
	calls []string
}

func newMemoryRemote() *memoryRemote {
	return &memoryRemote{
		docs:  map[string]map[string][]byte{},
		order: map[string][]string{},
	}
}

func (r *memoryRemote) setFailure(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fail = err
}

func (r *memoryRemote) record(call string) error {
	r.calls = append(r.calls, call)
	return r.fail
}

func (r *memoryRemote) put(collection, id string, doc any) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	if r.docs[collection] == nil {
		r.docs[collection] = map[string][]byte{}
	}
	if !slices.Contains(r.order[collection], id) {
		r.order[collection] = append(r.order[collection], id)
	}
	r.docs[collection][id] = payload
	return nil
}

func (r *memoryRemote) has(collection, id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.docs[collection][id]
	return ok
}

func (r *memoryRemote) count(collection string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.docs[collection])
}

func (r *memoryRemote) decode(collection, id string, dest any) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	payload, ok := r.docs[collection][id]
	if !ok {
		return false
	}
	return json.Unmarshal(payload, dest) == nil
}

func (r *memoryRemote) GetDocument(_ context.Context, collection, id string, dest any) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.record("get:" + collection); err != nil {
		return false, err
	}
	payload, ok := r.docs[collection][id]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(payload, dest)
}

func (r *memoryRemote) SetDocument(_ context.Context, collection, id string, doc any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.record("set:" + collection); err != nil {
		return err
	}
	return r.put(collection, id, doc)
}

func (r *memoryRemote) List(_ context.Context, collection string, _ Sorting, dest any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.record("list:" + collection); err != nil {
		return err
	}

	raw := make([]json.RawMessage, 0, len(r.order[collection]))
	for _, id := range r.order[collection] {
		if payload, ok := r.docs[collection][id]; ok {
			raw = append(raw, payload)
		}
	}
	payload, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(payload, dest)
}

func (r *memoryRemote) Insert(_ context.Context, collection, id string, doc any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.record("insert:" + collection); err != nil {
		return err
	}
	return r.put(collection, id, doc)
}

func (r *memoryRemote) Replace(_ context.Context, collection, id string, doc any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.record("replace:" + collection); err != nil {
		return err
	}
	return r.put(collection, id, doc)
}

func (r *memoryRemote) UpdateFields(_ context.Context, collection, id string, fields map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.record("update:" + collection); err != nil {
		return err
	}
	payload, ok := r.docs[collection][id]
	if !ok {
		return eris.Wrapf(ErrNotFound, "%s/%s", collection, id)
	}
	var doc map[string]any
	if err := json.Unmarshal(payload, &doc); err != nil {
		return err
	}
	for key, value := range fields {
		doc[key] = value
	}
	return r.put(collection, id, doc)
}

func (r *memoryRemote) Delete(_ context.Context, collection, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.record("delete:" + collection); err != nil {
		return err
	}
	if _, ok := r.docs[collection][id]; !ok {
		return eris.Wrapf(ErrNotFound, "%s/%s", collection, id)
	}
	delete(r.docs[collection], id)
	return nil
}

func (r *memoryRemote) Ping(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.record("ping")
}

var errRemoteDown = eris.New("remote down")

// gatedRemote pauses the next List call after it has read the remote, until
// release is closed.
type gatedRemote struct {
	*memoryRemote
	armed   atomic.Bool
	entered chan struct{}
	release chan struct{}
}

func newGatedRemote() *gatedRemote {
	return &gatedRemote{
		memoryRemote: newMemoryRemote(),
		entered:      make(chan struct{}),
		release:      make(chan struct{}),
	}
}

func (r *gatedRemote) List(ctx context.Context, collection string, sorting Sorting, dest any) error {
	err := r.memoryRemote.List(ctx, collection, sorting, dest)
	if r.armed.CompareAndSwap(true, false) {
		close(r.entered)
		<-r.release
	}
	return err
}

func setupCache(t *testing.T) cache.Store {
	t.Helper()

	gormDB, err := db.Open(db.Options{Path: filepath.Join(t.TempDir(), "content.db")})
	if err != nil {
		t.Fatalf("db.Open returned error: %v", err)
	}
	t.Cleanup(func() {
		if closeErr := db.Close(gormDB); closeErr != nil {
			t.Fatalf("closing database failed: %v", closeErr)
		}
	})

	logger := applog.Discard()
	if err := cache.Migrate(context.Background(), gormDB, logger); err != nil {
		t.Fatalf("cache.Migrate returned error: %v", err)
	}

	store, err := cache.NewStore(gormDB, logger)
	if err != nil {
		t.Fatalf("cache.NewStore returned error: %v", err)
	}
	return store
}

func setupBackend(t *testing.T, store cache.Store, remote Remote) *Backend {
	t.Helper()

	metrics, err := NewMetrics(prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("NewMetrics returned error: %v", err)
	}

	backend, err := NewBackend(BackendOptions{
		Cache:         store,
		Remote:        remote,
		Metrics:       metrics,
		RemoteTimeout: time.Second,
	})
	if err != nil {
		t.Fatalf("NewBackend returned error: %v", err)
	}
	return backend
}

func setupService(t *testing.T, store cache.Store, remote Remote, now time.Time) *Service {
	t.Helper()

	service, err := NewService(ServiceOptions{
		Backend: setupBackend(t, store, remote),
		Now:     func() time.Time { return now },
	})
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}
	return service
}
