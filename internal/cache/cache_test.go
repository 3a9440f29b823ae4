package cache

import (
	"context"
	"encoding/json"
	"io"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"

	"portfolio/app/internal/db"
)

type sample struct {
	Title string   `json:"title"`
	Tags  []string `json:"tags"`
}

func TestNewStoreRequiresDatabase(t *testing.T) {
	t.Parallel()

	if _, err := NewStore(nil, nil); err == nil {
		t.Fatalf("expected error when database is nil")
	}
}

func TestGetReportsMissingKey(t *testing.T) {
	t.Parallel()

	store := setupStore(t)

	var value sample
	found, err := store.Get(context.Background(), "heroData", &value)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if found {
		t.Fatalf("expected missing key to report not found")
	}
}

func TestSetOverwritesExistingEntry(t *testing.T) {
	t.Parallel()

	store := setupStore(t)
	ctx := context.Background()

	if err := store.Set(ctx, " heroData ", sample{Title: "first"}); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if err := store.Set(ctx, "heroData", sample{Title: "second", Tags: []string{"a"}}); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	var value sample
	found, err := store.Get(ctx, "heroData", &value)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if !found {
		t.Fatalf("expected entry to be present")
	}
	if value.Title != "second" || len(value.Tags) != 1 {
		t.Fatalf("expected overwritten value, got %+v", value)
	}

	keys, err := store.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys returned error: %v", err)
	}
	if len(keys) != 1 || keys[0] != "heroData" {
		t.Fatalf("expected a single trimmed key, got %v", keys)
	}
}

func TestSetRequiresKey(t *testing.T) {
	t.Parallel()

	store := setupStore(t)

	if err := store.Set(context.Background(), "  ", sample{}); err == nil {
		t.Fatalf("expected error for blank key")
	}
}

func TestDeleteAndListPrefix(t *testing.T) {
	t.Parallel()

	store := setupStore(t)
	ctx := context.Background()

	for key, title := range map[string]string{
		"image_hero":  "hero",
		"image_blog":  "blog",
		"experiences": "list",
		"image%wild":  "escaped",
	} {
		if err := store.Set(ctx, key, sample{Title: title}); err != nil {
			t.Fatalf("Set(%s) returned error: %v", key, err)
		}
	}

	if err := store.Delete(ctx, "image_blog", "missing"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	items, err := store.ListPrefix(ctx, "image_")
	if err != nil {
		t.Fatalf("ListPrefix returned error: %v", err)
	}

	if len(items) != 1 {
		t.Fatalf("expected exactly one prefixed entry, got %d (%v)", len(items), items)
	}

	var hero sample
	if err := json.Unmarshal(items["image_hero"], &hero); err != nil {
		t.Fatalf("decoding listed entry failed: %v", err)
	}
	if hero.Title != "hero" {
		t.Fatalf("expected hero entry, got %+v", hero)
	}
}

func setupStore(t *testing.T) *GormStore {
	t.Helper()

	path := filepath.Join(t.TempDir(), "cache.db")
	gormDB, err := db.Open(db.Options{Path: path})
	if err != nil {
		t.Fatalf("db.Open returned error: %v", err)
	}

	t.Cleanup(func() {
		if closeErr := db.Close(gormDB); closeErr != nil {
			t.Fatalf("closing database failed: %v", closeErr)
		}
	})

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	if err := Migrate(context.Background(), gormDB, logger); err != nil {
		t.Fatalf("Migrate returned error: %v", err)
	}

	store, err := NewStore(gormDB, logger)
	if err != nil {
		t.Fatalf("NewStore returned error: %v", err)
	}

	return store
}
