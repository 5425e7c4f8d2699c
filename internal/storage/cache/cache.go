// Package cache manages the shared mod artifact cache: one directory per
// (package full name, version number), reused across profiles.
package cache

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Cache manages the on-disk artifact cache.
type Cache struct {
	basePath string
}

// New creates a cache manager rooted at basePath.
func New(basePath string) *Cache {
	return &Cache{basePath: basePath}
}

// Path returns the deterministic cache location for a mod version.
func (c *Cache) Path(fullName, version string) string {
	return filepath.Join(c.basePath, fullName, version)
}

// Exists checks whether a mod version is cached.
func (c *Cache) Exists(fullName, version string) bool {
	info, err := os.Stat(c.Path(fullName, version))
	return err == nil && info.IsDir()
}

// Prepare creates the cache directory for a mod version and returns it.
func (c *Cache) Prepare(fullName, version string) (string, error) {
	path := c.Path(fullName, version)
	if err := os.MkdirAll(path, 0755); err != nil {
		return "", fmt.Errorf("creating cache dir %s: %w", path, err)
	}
	return path, nil
}

// Delete removes a cached mod version. Removing the last version also
// removes the package directory.
func (c *Cache) Delete(fullName, version string) error {
	if err := os.RemoveAll(c.Path(fullName, version)); err != nil {
		return fmt.Errorf("deleting cached mod: %w", err)
	}

	parent := filepath.Join(c.basePath, fullName)
	entries, err := os.ReadDir(parent)
	if err == nil && len(entries) == 0 {
		_ = os.Remove(parent)
	}
	return nil
}

// Size returns the total size in bytes of a cached mod version.
func (c *Cache) Size(fullName, version string) (int64, error) {
	var total int64
	err := filepath.WalkDir(c.Path(fullName, version), func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		total += info.Size()
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("calculating cache size: %w", err)
	}
	return total, nil
}
