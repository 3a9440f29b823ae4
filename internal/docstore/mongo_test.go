package docstore

import (
	"context"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"

	"portfolio/app/internal/content"
	applog "portfolio/app/internal/log"
)

func TestOpenRequiresURIAndDatabase(t *testing.T) {
	t.Parallel()

	if _, err := Open(context.Background(), Options{Database: "portfolio"}); err == nil {
		t.Fatalf("expected error when uri is missing")
	}
	if _, err := Open(context.Background(), Options{URI: "mongodb://localhost:27017"}); err == nil {
		t.Fatalf("expected error when database is missing")
	}
}

func TestWithIDOverridesDocumentID(t *testing.T) {
	t.Parallel()

	payload, err := withID(content.Experience{ID: "stale", Title: "Intern"}, "fresh")
	if err != nil {
		t.Fatalf("withID returned error: %v", err)
	}
	if payload["_id"] != "fresh" || payload["title"] != "Intern" {
		t.Fatalf("unexpected payload: %v", payload)
	}

	payload, err = withID(content.Hero{Title: "Dr."}, "hero")
	if err != nil {
		t.Fatalf("withID returned error: %v", err)
	}
	if payload["_id"] != "hero" {
		t.Fatalf("expected singleton id, got %v", payload["_id"])
	}
}

func TestStoreAgainstMongo(t *testing.T) {
	if testing.Short() {
		t.Skip("skip integration: short mode")
	}

	ctx := context.Background()
	container, err := mongodb.Run(ctx, "mongo:7")
	if err != nil {
		t.Skipf("skip integration: cannot start mongo container: %v", err)
	}
	t.Cleanup(func() {
		termCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = container.Terminate(termCtx)
	})

	uri, err := container.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("ConnectionString returned error: %v", err)
	}

	store, err := Open(ctx, Options{URI: uri, Database: "portfolio_test", Logger: applog.Discard()})
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() { _ = store.Close(context.Background()) })

	var hero content.Hero
	found, err := store.GetDocument(ctx, "data", "hero", &hero)
	if err != nil || found {
		t.Fatalf("expected missing hero, found=%v err=%v", found, err)
	}

	if err := store.SetDocument(ctx, "data", "hero", content.Hero{Title: "Dr. Mongo"}); err != nil {
		t.Fatalf("SetDocument returned error: %v", err)
	}
	if err := store.SetDocument(ctx, "data", "hero", content.Hero{Title: "Dr. Mongo II"}); err != nil {
		t.Fatalf("SetDocument overwrite returned error: %v", err)
	}
	found, err = store.GetDocument(ctx, "data", "hero", &hero)
	if err != nil || !found || hero.Title != "Dr. Mongo II" {
		t.Fatalf("unexpected hero %+v found=%v err=%v", hero, found, err)
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	for i, id := range []string{"m1", "m2"} {
		msg := content.Message{ID: id, Name: "A", Email: "a@b.com", Message: "hi", Date: now.Add(time.Duration(i) * time.Hour)}
		if err := store.Insert(ctx, "messages", id, msg); err != nil {
			t.Fatalf("Insert returned error: %v", err)
		}
	}

	var messages []content.Message
	if err := store.List(ctx, "messages", content.Sorting{Field: "date", Descending: true}, &messages); err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(messages) != 2 || messages[0].ID != "m2" {
		t.Fatalf("expected newest message first, got %+v", messages)
	}

	if err := store.UpdateFields(ctx, "messages", "m1", map[string]any{"read": true}); err != nil {
		t.Fatalf("UpdateFields returned error: %v", err)
	}
	var m1 content.Message
	if found, err := store.GetDocument(ctx, "messages", "m1", &m1); err != nil || !found || !m1.Read {
		t.Fatalf("expected m1 to be read, got %+v found=%v err=%v", m1, found, err)
	}

	if err := store.UpdateFields(ctx, "messages", "missing", map[string]any{"read": true}); !eris.Is(err, content.ErrNotFound) {
		t.Fatalf("expected ErrNotFound from UpdateFields, got %v", err)
	}
	if err := store.Delete(ctx, "messages", "m1"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if err := store.Delete(ctx, "messages", "m1"); !eris.Is(err, content.ErrNotFound) {
		t.Fatalf("expected ErrNotFound from second Delete, got %v", err)
	}

	if err := store.Ping(ctx); err != nil {
		t.Fatalf("Ping returned error: %v", err)
	}
}
