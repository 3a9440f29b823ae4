package content

import "context"

// Remote is the document database the site treats as its source of truth when reachable.
// Implementations return ErrNotFound (wrapped) when an id does not match a document.
type Remote interface {
	GetDocument(ctx context.Context, collection, id string, dest any) (bool, error)
	SetDocument(ctx context.Context, collection, id string, doc any) error
	List(ctx context.Context, collection string, sorting Sorting, dest any) error
	Insert(ctx context.Context, collection, id string, doc any) error
	Replace(ctx context.Context, collection, id string, doc any) error
	UpdateFields(ctx context.Context, collection, id string, fields map[string]any) error
	Delete(ctx context.Context, collection, id string) error
	Ping(ctx context.Context) error
}
