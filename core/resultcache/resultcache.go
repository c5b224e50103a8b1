package resultcache

import (
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store is the sqlite-backed result cache.
type Store struct {
	db  *gorm.DB
	log *zap.Logger
}

type entry struct {
	Name      string `gorm:"primaryKey"`
	KeyHash   string
	Payload   []byte
	UpdatedAt time.Time
}

// Open opens or creates the cache database at cfg.Path.
func Open(cfg Config, log *zap.Logger) (*Store, error) {
	// Suppress GORM logging; the application logger reports cache
	// activity at debug level instead.
	db, err := gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening result cache %s: %w", cfg.Path, err)
	}
	if err := db.AutoMigrate(&entry{}); err != nil {
		return nil, fmt.Errorf("migrating result cache: %w", err)
	}
	return &Store{db: db, log: log}, nil
}

// HashKey derives the guard hash for a cache key. Keys are arbitrary
// JSON-encodable values; equal keys always produce equal hashes.
func HashKey(key any) (string, error) {
	encoded, err := json.Marshal(key)
	if err != nil {
		return "", fmt.Errorf("encoding cache key: %w", err)
	}
	sum := sha512.Sum512(encoded)
	return "sha512:" + hex.EncodeToString(sum[:]), nil
}

// Data returns the payload for name, running generate only when no
// entry exists, the stored key hash differs from the hash of key, or
// force is set. The second return reports whether the payload came from
// the cache.
func (s *Store) Data(name string, key any, force bool, generate func() ([]byte, error)) ([]byte, bool, error) {
	hash, err := HashKey(key)
	if err != nil {
		return nil, false, err
	}

	var stored entry
	err = s.db.First(&stored, "name = ?", name).Error
	switch {
	case err == nil:
		if !force && stored.KeyHash == hash {
			s.log.Debug("Result cache hit", zap.String("name", name))
			return stored.Payload, true, nil
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		// First generation for this name.
	default:
		return nil, false, fmt.Errorf("reading result cache: %w", err)
	}

	s.log.Debug("Result cache miss", zap.String("name", name), zap.Bool("forced", force))
	payload, err := generate()
	if err != nil {
		return nil, false, err
	}

	fresh := entry{Name: name, KeyHash: hash, Payload: payload, UpdatedAt: time.Now()}
	if err := s.db.Save(&fresh).Error; err != nil {
		return nil, false, fmt.Errorf("writing result cache: %w", err)
	}
	return payload, false, nil
}

// Invalidate drops the entry for name if present.
func (s *Store) Invalidate(name string) error {
	return s.db.Delete(&entry{}, "name = ?", name).Error
}

// Wipe drops every entry whose name starts with prefix; an empty prefix
// clears the cache entirely.
func (s *Store) Wipe(prefix string) error {
	if prefix == "" {
		return s.db.Where("1 = 1").Delete(&entry{}).Error
	}
	return s.db.Delete(&entry{}, "name LIKE ?", prefix+"%").Error
}

// Count returns the number of stored entries.
func (s *Store) Count() (int64, error) {
	var n int64
	err := s.db.Model(&entry{}).Count(&n).Error
	return n, err
}
