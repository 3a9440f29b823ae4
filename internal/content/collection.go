package content

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
)

// CollectionSpec names where a list entity lives in each tier and how it is ordered.
type CollectionSpec[T Record[T]] struct {
	Entity     string
	CacheKey   string
	Collection string
	Sorting    Sorting
	Compare    func(a, b T) int
	Prepare    func(T) (T, error)
}

// Collection serves a list of records through the remote → cache → empty chain.
// Writes modify the cached list first and then mirror the change remotely.
type Collection[T Record[T]] struct {
	backend *Backend
	spec    CollectionSpec[T]
	newID   func() string

	mu sync.Mutex
}

// NewCollection builds a Collection store.
func NewCollection[T Record[T]](backend *Backend, spec CollectionSpec[T]) (*Collection[T], error) {
	if backend == nil {
		return nil, eris.New("content backend is required")
	}
	if spec.Entity == "" || spec.CacheKey == "" || spec.Collection == "" {
		return nil, eris.New("collection spec is incomplete")
	}
	if spec.Compare == nil {
		return nil, eris.Errorf("compare function is required for %s", spec.Entity)
	}

	return &Collection[T]{
		backend: backend,
		spec:    spec,
		newID:   uuid.NewString,
	}, nil
}

// List returns every record sorted by the collection's sort key, together with
// the tier that served it. It never fails. List mirrors what it read back into
// the cache, so it holds the same lock as the writers.
func (c *Collection[T]) List(ctx context.Context) ([]T, Source) {
	c.mu.Lock()
	items, source := c.load(ctx)
	c.mu.Unlock()

	c.backend.served(c.spec.Entity, source)
	return items, source
}

// Get finds one record by id.
func (c *Collection[T]) Get(ctx context.Context, id string) (T, error) {
	items, _ := c.List(ctx)
	if idx := indexOf(items, id); idx >= 0 {
		return items[idx], nil
	}

	var zero T
	return zero, eris.Wrapf(ErrNotFound, "%s %s", c.spec.Entity, id)
}

// Add stores a new record under a freshly assigned id and returns it.
func (c *Collection[T]) Add(ctx context.Context, item T) (T, error) {
	item, err := c.prepare(item.WithID(c.newID()))
	if err != nil {
		return item, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	items, _ := c.load(ctx)
	items = append(items, item)
	if err := c.storeLocal(ctx, items); err != nil {
		return item, err
	}

	c.remoteWrite(ctx, "insert", func(ctx context.Context) error {
		return c.backend.remote.Insert(ctx, c.spec.Collection, item.RecordID(), item)
	})

	return item, nil
}

// Update replaces the record stored under id wholesale. The id is preserved.
func (c *Collection[T]) Update(ctx context.Context, id string, item T) (T, error) {
	item, err := c.prepare(item.WithID(id))
	if err != nil {
		return item, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	items, _ := c.load(ctx)
	idx := indexOf(items, id)
	if idx < 0 {
		return item, eris.Wrapf(ErrNotFound, "%s %s", c.spec.Entity, id)
	}

	items[idx] = item
	if err := c.storeLocal(ctx, items); err != nil {
		return item, err
	}

	c.remoteWrite(ctx, "update", func(ctx context.Context) error {
		return c.backend.remote.Replace(ctx, c.spec.Collection, id, item)
	})

	return item, nil
}

// Save inserts item or replaces the record with the same id. A blank id is assigned.
func (c *Collection[T]) Save(ctx context.Context, item T) (T, error) {
	if strings.TrimSpace(item.RecordID()) == "" {
		item = item.WithID(c.newID())
	}

	item, err := c.prepare(item)
	if err != nil {
		return item, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	items, _ := c.load(ctx)
	if idx := indexOf(items, item.RecordID()); idx >= 0 {
		items[idx] = item
	} else {
		items = append(items, item)
	}

	if err := c.storeLocal(ctx, items); err != nil {
		return item, err
	}

	c.remoteWrite(ctx, "save", func(ctx context.Context) error {
		return c.backend.remote.Replace(ctx, c.spec.Collection, item.RecordID(), item)
	})

	return item, nil
}

// Patch applies mutate to the cached record and sends only fields to the remote store.
func (c *Collection[T]) Patch(ctx context.Context, id string, mutate func(T) T, fields map[string]any) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, _ := c.load(ctx)
	idx := indexOf(items, id)
	if idx < 0 {
		var zero T
		return zero, eris.Wrapf(ErrNotFound, "%s %s", c.spec.Entity, id)
	}

	patched := mutate(items[idx]).WithID(id)
	items[idx] = patched
	if err := c.storeLocal(ctx, items); err != nil {
		return patched, err
	}

	c.remoteWrite(ctx, "patch", func(ctx context.Context) error {
		return c.backend.remote.UpdateFields(ctx, c.spec.Collection, id, fields)
	})

	return patched, nil
}

// Delete removes the record stored under id.
func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, _ := c.load(ctx)
	idx := indexOf(items, id)
	if idx < 0 {
		return eris.Wrapf(ErrNotFound, "%s %s", c.spec.Entity, id)
	}

	items = slices.Delete(items, idx, idx+1)
	if err := c.storeLocal(ctx, items); err != nil {
		return err
	}

	c.remoteWrite(ctx, "delete", func(ctx context.Context) error {
		err := c.backend.remote.Delete(ctx, c.spec.Collection, id)
		if eris.Is(err, ErrNotFound) {
			return nil
		}
		return err
	})

	return nil
}

// Sync upserts every cached record into the remote store and returns how many were pushed.
func (c *Collection[T]) Sync(ctx context.Context) (int, error) {
	b := c.backend
	if !b.RemoteAvailable() {
		return 0, ErrRemoteUnavailable
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var cached []T
	if !b.readCache(ctx, c.spec.Entity, c.spec.CacheKey, &cached) {
		return 0, nil
	}

	for i, item := range cached {
		if err := b.withRemote(ctx, func(ctx context.Context) error {
			return b.remote.Replace(ctx, c.spec.Collection, item.RecordID(), item)
		}); err != nil {
			b.remoteFailed(ctx, c.spec.Entity, "sync", err)
			return i, eris.Wrapf(err, "syncing %s %s", c.spec.Entity, item.RecordID())
		}
	}

	return len(cached), nil
}

// load resolves the current list: the remote records plus any cached record
// the remote has not seen yet, so writes made while it was unreachable survive
// until Sync pushes them. Without the remote the cached list is used as is.
func (c *Collection[T]) load(ctx context.Context) ([]T, Source) {
	var cached []T
	hasCache := c.backend.readCache(ctx, c.spec.Entity, c.spec.CacheKey, &cached)

	items, ok := c.fetchRemote(ctx, "list")
	if !ok {
		if hasCache {
			return c.sorted(cached), SourceCache
		}
		return []T{}, SourceDefault
	}

	for _, item := range cached {
		if indexOf(items, item.RecordID()) < 0 {
			items = append(items, item)
		}
	}
	items = c.sorted(items)
	c.backend.mirror(ctx, c.spec.Entity, c.spec.CacheKey, items)

	return items, SourceRemote
}

func (c *Collection[T]) fetchRemote(ctx context.Context, operation string) ([]T, bool) {
	b := c.backend
	if !b.RemoteAvailable() {
		return nil, false
	}

	var items []T
	if err := b.withRemote(ctx, func(ctx context.Context) error {
		return b.remote.List(ctx, c.spec.Collection, c.spec.Sorting, &items)
	}); err != nil {
		b.remoteFailed(ctx, c.spec.Entity, operation, err)
		return nil, false
	}

	return c.sorted(items), true
}

func (c *Collection[T]) sorted(items []T) []T {
	if items == nil {
		return []T{}
	}
	slices.SortStableFunc(items, c.spec.Compare)
	return items
}

func (c *Collection[T]) prepare(item T) (T, error) {
	if c.spec.Prepare == nil {
		return item, nil
	}
	return c.spec.Prepare(item)
}

func (c *Collection[T]) storeLocal(ctx context.Context, items []T) error {
	if err := c.backend.cache.Set(ctx, c.spec.CacheKey, c.sorted(items)); err != nil {
		return eris.Wrapf(err, "saving %s locally", c.spec.Entity)
	}
	return nil
}

func (c *Collection[T]) remoteWrite(ctx context.Context, operation string, fn func(context.Context) error) {
	b := c.backend
	if !b.RemoteAvailable() {
		return
	}
	if err := b.withRemote(ctx, fn); err != nil {
		b.remoteFailed(ctx, c.spec.Entity, operation, err)
	}
}

func indexOf[T Record[T]](items []T, id string) int {
	return slices.IndexFunc(items, func(item T) bool {
		return item.RecordID() == id
	})
}
