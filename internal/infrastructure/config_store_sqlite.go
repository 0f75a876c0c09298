package infrastructure

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/yourusername/yt-audio-go/internal/domain"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// ConfigEntry is one persisted JSON value
type ConfigEntry struct {
	Namespace string    `gorm:"primaryKey"`
	Key       string    `gorm:"primaryKey;column:entry_key"`
	Value     string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName overrides the gorm default
func (ConfigEntry) TableName() string {
	return "config_entries"
}

// SQLiteConfigStore implements domain.ConfigStore on top of SQLite.
// Set stages values in memory and Save writes a namespace in one transaction.
type SQLiteConfigStore struct {
	db *gorm.DB

	mu     sync.Mutex
	staged map[string]map[string]json.RawMessage
}

// NewSQLiteConfigStore opens (or creates) the settings database
func NewSQLiteConfigStore(dbPath string) (*SQLiteConfigStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.AutoMigrate(&ConfigEntry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &SQLiteConfigStore{
		db:     db,
		staged: make(map[string]map[string]json.RawMessage),
	}, nil
}

// Get returns the staged value if present, otherwise the persisted one
func (s *SQLiteConfigStore) Get(namespace, key string) (json.RawMessage, error) {
	s.mu.Lock()
	if ns, ok := s.staged[namespace]; ok {
		if v, ok := ns[key]; ok {
			s.mu.Unlock()
			return append(json.RawMessage(nil), v...), nil
		}
	}
	s.mu.Unlock()

	var entry ConfigEntry
	err := s.db.First(&entry, "namespace = ? AND entry_key = ?", namespace, key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s/%s: %w", namespace, key, err)
	}
	return json.RawMessage(entry.Value), nil
}

// Set stages a value until the namespace is saved
func (s *SQLiteConfigStore) Set(namespace, key string, value json.RawMessage) error {
	if !json.Valid(value) {
		return fmt.Errorf("value for %s/%s is not valid JSON", namespace, key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ns, ok := s.staged[namespace]
	if !ok {
		ns = make(map[string]json.RawMessage)
		s.staged[namespace] = ns
	}
	ns[key] = append(json.RawMessage(nil), value...)
	return nil
}

// Save upserts every staged value of the namespace
func (s *SQLiteConfigStore) Save(namespace string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ns := s.staged[namespace]
	if len(ns) == 0 {
		return nil
	}

	entries := make([]ConfigEntry, 0, len(ns))
	for key, value := range ns {
		entries = append(entries, ConfigEntry{Namespace: namespace, Key: key, Value: string(value)})
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "namespace"}, {Name: "entry_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(&entries).Error
	})
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", namespace, err)
	}

	delete(s.staged, namespace)
	return nil
}

// Close closes the database connection
func (s *SQLiteConfigStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
