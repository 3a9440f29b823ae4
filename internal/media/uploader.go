package media

import (
	"context"
	"encoding/json"
	"slices"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	"portfolio/app/internal/cache"
	applog "portfolio/app/internal/log"
)

const (
	// DefaultMaxUploadBytes caps raw uploads before any compression.
	DefaultMaxUploadBytes = 2 << 20

	storedFilePrefix = "image_"
)

// ErrUnknownFile indicates no upload is recorded under the requested path.
var ErrUnknownFile = eris.New("unknown uploaded file")

// ObjectStore is a Store whose objects can be removed again.
type ObjectStore interface {
	Store
	Delete(ctx context.Context, objectPath string) error
}

// UploaderOptions configures an Uploader. Bucket may be nil.
type UploaderOptions struct {
	Bucket    ObjectStore
	Inline    *Base64Store
	Cache     cache.Store
	MaxBytes  int64
	Logger    *logrus.Logger
	SentryHub *sentry.Hub
	Now       func() time.Time
}

// Uploader validates admin image uploads and stores them in the bucket,
// falling back to inline Base64 when the bucket is missing or failing.
type Uploader struct {
	bucket    ObjectStore
	inline    *Base64Store
	cache     cache.Store
	maxBytes  int64
	logger    *logrus.Logger
	sentryHub *sentry.Hub
	now       func() time.Time
}

// NewUploader validates opts and builds an Uploader.
func NewUploader(opts UploaderOptions) (*Uploader, error) {
	if opts.Cache == nil {
		return nil, eris.New("local cache is required")
	}

	inline := opts.Inline
	if inline == nil {
		inline = NewBase64Store()
	}
	maxBytes := opts.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	logger := opts.Logger
	if logger == nil {
		logger = applog.Discard()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Uploader{
		bucket:    opts.Bucket,
		inline:    inline,
		cache:     opts.Cache,
		maxBytes:  maxBytes,
		logger:    logger,
		sentryHub: opts.SentryHub,
		now:       now,
	}, nil
}

// MaxBytes is the largest accepted upload.
func (u *Uploader) MaxBytes() int64 {
	return u.maxBytes
}

// Upload stores one image and records it locally.
func (u *Uploader) Upload(ctx context.Context, upload Upload) (StoredFile, error) {
	upload.ContentType = strings.ToLower(strings.TrimSpace(upload.ContentType))
	if !strings.HasPrefix(upload.ContentType, "image/") {
		return StoredFile{}, eris.Wrapf(ErrUnsupportedType, "content type %q", upload.ContentType)
	}
	if len(upload.Data) == 0 {
		return StoredFile{}, eris.Wrap(ErrUnsupportedType, "file is empty")
	}
	if int64(len(upload.Data)) > u.maxBytes {
		return StoredFile{}, eris.Wrapf(ErrTooLarge, "%d bytes exceeds limit of %d bytes", len(upload.Data), u.maxBytes)
	}

	now := u.now().UTC()
	file := StoredFile{
		Path: objectPath(upload.Folder, upload.Filename, now),
		Type: upload.ContentType,
		Name: strings.TrimSpace(upload.Filename),
		Size: len(upload.Data),
		Date: now,
	}

	if u.bucket != nil {
		url, err := u.bucket.Save(ctx, file.Path, upload)
		if err == nil {
			file.URL, file.Storage = url, StorageBucket
		} else {
			u.recordError(ctx, logrus.Fields{"path": file.Path}, err, "bucket upload failed, falling back to inline storage")
		}
	}

	if file.URL == "" {
		url, err := u.inline.Save(ctx, file.Path, upload)
		if err != nil {
			return StoredFile{}, err
		}
		file.URL, file.Storage = url, StorageBase64
	}

	if err := u.cache.Set(ctx, storedFilePrefix+file.Path, file); err != nil {
		u.logger.WithFields(logrus.Fields{
			"component": "media",
			"path":      file.Path,
			"error":     err.Error(),
		}).Warn("recording upload locally failed")
	}

	return file, nil
}

// List returns every recorded upload, newest first.
func (u *Uploader) List(ctx context.Context) ([]StoredFile, error) {
	entries, err := u.cache.ListPrefix(ctx, storedFilePrefix)
	if err != nil {
		return nil, eris.Wrap(err, "listing uploads")
	}

	files := make([]StoredFile, 0, len(entries))
	for key, raw := range entries {
		var file StoredFile
		if err := json.Unmarshal(raw, &file); err != nil {
			u.logger.WithFields(logrus.Fields{"component": "media", "key": key, "error": err.Error()}).Warn("skipping unreadable upload record")
			continue
		}
		files = append(files, file)
	}

	slices.SortFunc(files, func(a, b StoredFile) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		return strings.Compare(a.Path, b.Path)
	})

	return files, nil
}

// Delete forgets an upload and removes its bucket object when there is one.
func (u *Uploader) Delete(ctx context.Context, objectPath string) error {
	key := storedFilePrefix + strings.TrimSpace(objectPath)

	var file StoredFile
	found, err := u.cache.Get(ctx, key, &file)
	if err != nil {
		return eris.Wrap(err, "reading upload record")
	}
	if !found {
		return eris.Wrapf(ErrUnknownFile, "%s", objectPath)
	}

	if err := u.cache.Delete(ctx, key); err != nil {
		return eris.Wrap(err, "deleting upload record")
	}

	if file.Storage == StorageBucket && u.bucket != nil {
		if err := u.bucket.Delete(ctx, file.Path); err != nil {
			u.recordError(ctx, logrus.Fields{"path": file.Path}, err, "deleting bucket object failed")
		}
	}

	return nil
}

func (u *Uploader) recordError(ctx context.Context, fields logrus.Fields, err error, message string) {
	entry := u.logger.WithFields(logrus.Fields{"component": "media", "error": err.Error()})
	if len(fields) > 0 {
		entry = entry.WithFields(fields)
	}
	entry.Error(message)

	applog.Capture(ctx, u.sentryHub, err)
}
