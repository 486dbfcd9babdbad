// Package sidecar keeps an out-of-band record of word counts per commit in
// a small SQLite database under the project's .quill directory.
//
// Commit messages remain the compatibility medium for word counts; the
// sidecar is an additive record for commits made through quill, so future
// tooling does not have to parse message suffixes for new history. Legacy
// message-encoded counts are still decoded as before.
package sidecar

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// dbFile is the sidecar database path relative to the project root. The
// .quill directory is in the default ignore file, so records never enter
// manuscript history.
const dbFile = ".quill/progress.db"

// Record is one word-count sample tied to a commit.
type Record struct {
	Hash      string    `gorm:"primaryKey"`
	Words     int       `gorm:"not null"`
	Committed time.Time `gorm:"not null;index:idx_committed"`
	CreatedAt time.Time
}

// Store provides access to the sidecar database of one project.
type Store struct {
	db *gorm.DB
}

// Open opens (creating when needed) the sidecar store for a project.
func Open(projectPath string) (*Store, error) {
	path := filepath.Join(projectPath, dbFile)

	err := os.MkdirAll(filepath.Dir(path), 0o755)
	if err != nil {
		return nil, fmt.Errorf("create sidecar directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("open sidecar store: %w", err)
	}

	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA busy_timeout=5000")

	err = db.AutoMigrate(&Record{})
	if err != nil {
		return nil, fmt.Errorf("migrate sidecar schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Put records a word count for a commit. Re-recording the same commit
// overwrites the earlier value.
func (s *Store) Put(hash string, committed time.Time, words int) error {
	record := Record{Hash: hash, Words: words, Committed: committed}

	err := s.db.Save(&record).Error
	if err != nil {
		return fmt.Errorf("save sidecar record: %w", err)
	}

	return nil
}

// Get returns the recorded word count for a commit hash. The second return
// value is false when the commit has no sidecar record.
func (s *Store) Get(hash string) (int, bool, error) {
	var record Record

	err := s.db.First(&record, "hash = ?", hash).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, false, nil
		}

		return 0, false, fmt.Errorf("load sidecar record: %w", err)
	}

	return record.Words, true, nil
}

// Recent returns records committed within the trailing window, oldest first.
func (s *Store) Recent(windowDays int) ([]Record, error) {
	since := time.Now().AddDate(0, 0, -windowDays)

	var records []Record

	err := s.db.Where("committed >= ?", since).Order("committed asc").Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("list sidecar records: %w", err)
	}

	return records, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}
