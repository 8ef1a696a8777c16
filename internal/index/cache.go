package index

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// cacheEntry is one persisted resolution
type cacheEntry struct {
	Repo   string `toml:"repo"`
	Parent string `toml:"parent,omitempty"`
}

// Cache is the best-effort persistent resolve cache, keyed by plugin
// name. It only ever speeds up lookups; a missing or stale cache file
// is never an error.
type Cache struct {
	path    string
	Plugins map[string]cacheEntry `toml:"plugins"`
}

// LoadCache reads the cache file at path. Missing or malformed files
// yield an empty cache.
func LoadCache(path string) *Cache {
	c := &Cache{path: path, Plugins: make(map[string]cacheEntry)}

	data, err := os.ReadFile(path)
	if err != nil {
		return c
	}
	if err := toml.Unmarshal(data, c); err != nil {
		c.Plugins = make(map[string]cacheEntry)
		return c
	}
	if c.Plugins == nil {
		c.Plugins = make(map[string]cacheEntry)
	}
	return c
}

// Save persists the cache, best-effort
func (c *Cache) Save() error {
	if c.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return err
	}
	data, err := toml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(c.path, data, 0644)
}

// Clear drops all cached resolutions
func (c *Cache) Clear() {
	c.Plugins = make(map[string]cacheEntry)
}

func (c *Cache) get(name string) (cacheEntry, bool) {
	e, ok := c.Plugins[name]
	return e, ok
}

func (c *Cache) put(name string, e Entry) {
	c.Plugins[name] = cacheEntry{Repo: e.Repo, Parent: e.Parent}
}

func (c *Cache) delete(name string) {
	delete(c.Plugins, name)
}
