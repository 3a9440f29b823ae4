package cache

import "time"

// Entry is a single cached document keyed by name and stored as JSON.
type Entry struct {
	ID        uint   `gorm:"primaryKey"`
	Key       string `gorm:"column:cache_key;size:255;uniqueIndex:idx_cache_entries_key;not null"`
	Value     []byte `gorm:"type:blob;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName defines the table name for the Entry model.
func (Entry) TableName() string {
	return "cache_entries"
}
