package localstore

import (
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// Entry is one persisted key-value pair. Values are full serialized payloads,
// written in a single statement so a failed write never leaves a prior value
// half-overwritten.
type Entry struct {
	Key       string `gorm:"primarykey;type:varchar(255)"`
	Value     string `gorm:"type:text"`
	UpdatedAt time.Time
}

// Store is the embedded durable key-value store backing everything the
// browser would otherwise keep in local storage: selection carts, anonymous
// session preferences, view modes.
type Store struct {
	db *gorm.DB
}

// Open opens (and migrates) the store at the given sqlite path
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}

	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate local store: %w", err)
	}

	return &Store{db: db}, nil
}

// Get returns the value stored under key and whether it exists
func (s *Store) Get(key string) (string, bool, error) {
	var entry Entry
	result := s.db.First(&entry, "key = ?", key)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read %q: %w", key, result.Error)
	}
	return entry.Value, true, nil
}

// Put stores value under key, replacing any previous value atomically
func (s *Store) Put(key, value string) error {
	entry := Entry{Key: key, Value: value, UpdatedAt: time.Now()}
	result := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry)
	if result.Error != nil {
		return fmt.Errorf("failed to write %q: %w", key, result.Error)
	}
	return nil
}

// Delete removes the value stored under key, if any
func (s *Store) Delete(key string) error {
	result := s.db.Delete(&Entry{}, "key = ?", key)
	if result.Error != nil {
		return fmt.Errorf("failed to delete %q: %w", key, result.Error)
	}
	return nil
}
