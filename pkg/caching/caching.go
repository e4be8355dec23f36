package caching

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dtnitsch/learnmap/internal/common"
)

// Cache stores fetched pages on disk, one file per key, expiring after ttl.
type Cache struct {
	path string
	ttl  time.Duration
}

// NewCache creates the cache directory if needed.
func NewCache(path string, ttl time.Duration) (*Cache, error) {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &Cache{path: path, ttl: ttl}, nil
}

func (c *Cache) file(key string) string {
	return filepath.Join(c.path, common.ContentHash([]byte(key)))
}

// Get returns the cached bytes for key if present and not expired.
func (c *Cache) Get(key string) ([]byte, bool) {
	filePath := c.file(key)

	info, err := os.Stat(filePath)
	if err != nil {
		return nil, false
	}
	if c.expired(info) {
		return nil, false
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, false
	}
	return data, true
}

func (c *Cache) Set(key string, data []byte) error {
	if err := os.WriteFile(c.file(key), data, 0o644); err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	return nil
}

// Prune deletes expired entries and returns how many were removed.
func (c *Cache) Prune() (int, error) {
	entries, err := os.ReadDir(c.path)
	if err != nil {
		return 0, fmt.Errorf("failed to read cache directory: %w", err)
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil || !c.expired(info) {
			continue
		}
		if err := os.Remove(filepath.Join(c.path, entry.Name())); err == nil {
			removed++
		}
	}
	return removed, nil
}

func (c *Cache) expired(info os.FileInfo) bool {
	return c.ttl > 0 && time.Since(info.ModTime()) > c.ttl
}
