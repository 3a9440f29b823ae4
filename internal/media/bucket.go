package media

import (
	"context"
	"errors"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/rotisserie/eris"
)

const publicStorageHost = "https://storage.googleapis.com/"

// objectBucket is the part of a Cloud Storage bucket the store needs.
type objectBucket interface {
	Write(ctx context.Context, object, contentType string, data []byte) error
	Delete(ctx context.Context, object string) error
}

// BucketStore keeps images in a Google Cloud Storage bucket and serves them
// from the public storage host.
type BucketStore struct {
	name   string
	bucket objectBucket
	client *storage.Client
}

var _ Store = (*BucketStore)(nil)

// NewBucketStore connects to Cloud Storage with application default credentials.
func NewBucketStore(ctx context.Context, bucketName string) (*BucketStore, error) {
	name := strings.TrimSpace(bucketName)
	if name == "" {
		return nil, eris.New("bucket name is required")
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "creating cloud storage client")
	}

	return &BucketStore{
		name:   name,
		bucket: gcsBucket{handle: client.Bucket(name)},
		client: client,
	}, nil
}

func (s *BucketStore) Save(ctx context.Context, objectPath string, upload Upload) (string, error) {
	if err := s.bucket.Write(ctx, objectPath, upload.ContentType, upload.Data); err != nil {
		return "", eris.Wrapf(err, "uploading %s to bucket %s", objectPath, s.name)
	}
	return s.URL(objectPath), nil
}

// Delete removes an object. Missing objects are ignored.
func (s *BucketStore) Delete(ctx context.Context, objectPath string) error {
	if err := s.bucket.Delete(ctx, objectPath); err != nil {
		return eris.Wrapf(err, "deleting %s from bucket %s", objectPath, s.name)
	}
	return nil
}

// URL returns the public address of an object.
func (s *BucketStore) URL(objectPath string) string {
	return publicStorageHost + s.name + "/" + objectPath
}

func (s *BucketStore) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}

type gcsBucket struct {
	handle *storage.BucketHandle
}

func (b gcsBucket) Write(ctx context.Context, object, contentType string, data []byte) error {
	writer := b.handle.Object(object).NewWriter(ctx)
	writer.ContentType = contentType
	writer.CacheControl = "public, max-age=31536000"

	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return err
	}
	return writer.Close()
}

func (b gcsBucket) Delete(ctx context.Context, object string) error {
	err := b.handle.Object(object).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil
	}
	return err
}
