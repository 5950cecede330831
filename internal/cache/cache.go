// Package cache stores fetched remote documents between runs.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ppiankov/argmap/internal/model"
)

// Cache is a byte store with per-entry expiry
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives the cache key of a source URL
func Key(source string) string {
	hash := sha256.Sum256([]byte(source))
	return "argmap:v1:" + hex.EncodeToString(hash[:])
}

// DefaultDir returns ~/.argmap/cache
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("find home directory: %w", err)
	}
	return filepath.Join(home, ".argmap", "cache"), nil
}

// New builds the memory-over-disk cache described by cfg. It returns nil
// when caching is disabled.
func New(cfg model.CacheConfig) (Cache, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	dir := cfg.Dir
	if dir == "" {
		var err error
		if dir, err = DefaultDir(); err != nil {
			return nil, err
		}
	}
	return NewLayeredCache(
		NewMemoryCache(cfg.MemoryTTL, 10*time.Minute),
		NewDiskCache(dir, cfg.DiskTTL),
	), nil
}
