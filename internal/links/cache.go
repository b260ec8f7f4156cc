// package links resolves durable shared links for library files, backed by a
// cache persisted alongside the library.
package links

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/firelightrpg/dropbox-playlists/internal/models"
)

// Cache maps local file paths to previously resolved playlist entries.
//
// Entries are never pruned: deleted or moved files leave orphaned entries so
// playlist importers with append-only merge semantics stay consistent across
// runs. The cache is owned by a single run: loaded once at start, mutated in
// memory, and rewritten wholesale by Save.
type Cache struct {
	path    string
	entries map[string]models.CacheEntry
}

// LoadCache reads the cache file at path. A missing file yields an empty
// cache; a malformed one is an error so a corrupt cache never silently
// triggers a full re-resolution.
func LoadCache(path string) (*Cache, error) {
	c := &Cache{path: path, entries: make(map[string]models.CacheEntry)}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}

	if err := json.Unmarshal(data, &c.entries); err != nil {
		return nil, fmt.Errorf("failed to parse cache file %s: %w", path, err)
	}

	return c, nil
}

// Get returns the cached entry for a local path.
func (c *Cache) Get(localPath string) (models.CacheEntry, bool) {
	entry, ok := c.entries[localPath]
	return entry, ok
}

// Put records a resolved entry for a local path.
func (c *Cache) Put(localPath string, entry models.CacheEntry) {
	c.entries[localPath] = entry
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	return len(c.entries)
}

// Path returns the cache file location.
func (c *Cache) Path() string {
	return c.path
}

// Save rewrites the cache file. Keys are serialized in sorted order so the
// file is byte-stable under load/save round trips.
func (c *Cache) Save() error {
	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache: %w", err)
	}

	if err := os.WriteFile(c.path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}

	return nil
}
