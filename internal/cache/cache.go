package cache

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	appdb "portfolio/app/internal/db"
)

// Store is the server-local key/value cache that keeps the site readable and
// writable while the remote document store is unreachable.
type Store interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, keys ...string) error
	ListPrefix(ctx context.Context, prefix string) (map[string]json.RawMessage, error)
	Keys(ctx context.Context) ([]string, error)
}

// GormStore persists cache entries in SQLite through Gorm.
type GormStore struct {
	db     *gorm.DB
	logger *logrus.Logger
}

var _ Store = (*GormStore)(nil)

// NewStore constructs a Gorm-backed cache.
func NewStore(db *gorm.DB, logger *logrus.Logger) (*GormStore, error) {
	if db == nil {
		return nil, eris.New("gorm DB is required")
	}

	return &GormStore{db: db, logger: logger}, nil
}

// Migrate applies the cache schema.
func Migrate(ctx context.Context, db *gorm.DB, logger *logrus.Logger) error {
	return appdb.Migrate(ctx, db, logger, "cache.migrate", &Entry{})
}

// Get decodes the entry stored under key into dest. It reports false when no entry exists.
func (s *GormStore) Get(ctx context.Context, key string, dest any) (bool, error) {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return false, eris.New("cache key is required")
	}

	var entry Entry
	err := s.db.WithContext(ctx).First(&entry, "cache_key = ?", trimmed).Error
	if err != nil {
		if eris.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		s.logError(logrus.Fields{"key": trimmed}, err, "reading cache entry")
		return false, eris.Wrapf(err, "reading cache entry: %s", trimmed)
	}

	if err := json.Unmarshal(entry.Value, dest); err != nil {
		s.logError(logrus.Fields{"key": trimmed}, err, "decoding cache entry")
		return false, eris.Wrapf(err, "decoding cache entry: %s", trimmed)
	}

	return true, nil
}

// Set encodes value as JSON and upserts it under key.
func (s *GormStore) Set(ctx context.Context, key string, value any) error {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return eris.New("cache key is required")
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return eris.Wrapf(err, "encoding cache entry: %s", trimmed)
	}

	entry := Entry{Key: trimmed, Value: payload, UpdatedAt: time.Now().UTC()}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "cache_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		s.logError(logrus.Fields{"key": trimmed}, err, "writing cache entry")
		return eris.Wrapf(err, "writing cache entry: %s", trimmed)
	}

	return nil
}

// Delete removes the supplied keys. Missing keys are ignored.
func (s *GormStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	if err := s.db.WithContext(ctx).Where("cache_key IN ?", keys).Delete(&Entry{}).Error; err != nil {
		s.logError(logrus.Fields{"keys": keys}, err, "deleting cache entries")
		return eris.Wrap(err, "deleting cache entries")
	}

	return nil
}

// ListPrefix returns the raw JSON of every entry whose key starts with prefix.
func (s *GormStore) ListPrefix(ctx context.Context, prefix string) (map[string]json.RawMessage, error) {
	var entries []Entry

	query := s.db.WithContext(ctx).Order("cache_key ASC")
	if prefix != "" {
		query = query.Where("substr(cache_key, 1, ?) = ?", len(prefix), prefix)
	}

	if err := query.Find(&entries).Error; err != nil {
		s.logError(logrus.Fields{"prefix": prefix}, err, "listing cache entries")
		return nil, eris.Wrapf(err, "listing cache entries with prefix: %s", prefix)
	}

	items := make(map[string]json.RawMessage, len(entries))
	for _, entry := range entries {
		items[entry.Key] = json.RawMessage(entry.Value)
	}

	return items, nil
}

// Keys returns every cached key in alphabetical order.
func (s *GormStore) Keys(ctx context.Context) ([]string, error) {
	var keys []string

	if err := s.db.WithContext(ctx).Model(&Entry{}).Order("cache_key ASC").Pluck("cache_key", &keys).Error; err != nil {
		s.logError(nil, err, "listing cache keys")
		return nil, eris.Wrap(err, "listing cache keys")
	}

	return keys, nil
}

func (s *GormStore) logError(fields logrus.Fields, err error, message string) {
	if s.logger == nil {
		return
	}

	entry := s.logger.WithField("error", err.Error())
	if len(fields) > 0 {
		entry = entry.WithFields(fields)
	}
	entry.Error(message)
}
