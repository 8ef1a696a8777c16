// Package index maps every declared plugin name to the repository
// that declares it, either directly or through a recipe nested inside
// another installed plugin. The mapping is rebuilt wholesale on
// refresh; once a name is present, later discoveries never overwrite
// it, so configured repository order is the tie-breaker.
package index

import (
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/samhoang/lockshard/internal/config"
	"github.com/samhoang/lockshard/internal/host"
	"github.com/samhoang/lockshard/internal/scan"
)

// Entry records where one plugin name was declared
type Entry struct {
	Name   string
	Repo   string // owning repository root
	Parent string // parent plugin name for recipe children, else empty
}

// Index is the source index. Construct isolated instances with New;
// there is no process-wide singleton.
type Index struct {
	repos     []config.Repo
	scanner   *scan.Scanner
	hst       host.Host
	cache     *Cache
	bootstrap string
	log       hclog.Logger

	mu      sync.RWMutex
	entries map[string]Entry
}

// New creates an empty index over the given repositories
func New(repos []config.Repo, scanner *scan.Scanner, h host.Host, cache *Cache, bootstrap string, log hclog.Logger) *Index {
	return &Index{
		repos:     repos,
		scanner:   scanner,
		hst:       h,
		cache:     cache,
		bootstrap: bootstrap,
		log:       log,
		entries:   make(map[string]Entry),
	}
}

// Repos returns the configured repositories in priority order
func (ix *Index) Repos() []config.Repo {
	return ix.repos
}

// Resolve returns the entry for a plugin name. The bootstrap plugin
// always resolves to the first configured repository; it is never
// expected to appear in any declaration file. The persistent cache is
// consulted before the in-memory mapping, and a cached repo that is no
// longer configured is treated as a miss.
func (ix *Index) Resolve(name string) (Entry, bool) {
	if ix.bootstrap != "" && name == ix.bootstrap && len(ix.repos) > 0 {
		return Entry{Name: name, Repo: ix.repos[0].Root}, true
	}

	if ix.cache != nil {
		if ce, ok := ix.cache.get(name); ok && ix.repoConfigured(ce.Repo) {
			return Entry{Name: name, Repo: ce.Repo, Parent: ce.Parent}, true
		}
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()
	e, ok := ix.entries[name]
	return e, ok
}

// Entries returns a snapshot of the mapping
func (ix *Index) Entries() map[string]Entry {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	out := make(map[string]Entry, len(ix.entries))
	for name, e := range ix.entries {
		out[name] = e
	}
	return out
}

// Len returns the number of indexed plugins
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.entries)
}

// Clear drops the in-memory mapping and the persistent cache
func (ix *Index) Clear() {
	ix.mu.Lock()
	ix.entries = make(map[string]Entry)
	ix.mu.Unlock()

	if ix.cache != nil {
		ix.cache.Clear()
		if err := ix.cache.Save(); err != nil {
			ix.log.Warn("saving index cache", "error", err)
		}
	}
}

func (ix *Index) repoConfigured(root string) bool {
	for _, r := range ix.repos {
		if r.Root == root {
			return true
		}
	}
	return false
}

// add records an entry under first-write-wins semantics and reports
// whether it was written. Writes are serialized by the single-stepping
// task driver; the lock covers readers on other goroutines.
func (ix *Index) add(e Entry, only map[string]bool) bool {
	if only != nil && !only[e.Name] {
		return false
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()
	if _, exists := ix.entries[e.Name]; exists {
		return false
	}
	ix.entries[e.Name] = e
	return true
}

// remove drops names from the mapping (used by retarget)
func (ix *Index) remove(names []string) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	for _, name := range names {
		delete(ix.entries, name)
	}
}

// syncCache rewrites the persistent cache from the mapping
func (ix *Index) syncCache() {
	if ix.cache == nil {
		return
	}

	ix.mu.RLock()
	ix.cache.Clear()
	for name, e := range ix.entries {
		ix.cache.put(name, e)
	}
	ix.mu.RUnlock()

	if err := ix.cache.Save(); err != nil {
		ix.log.Warn("saving index cache", "error", err)
	}
}

// syncCacheNames updates only the given names in the persistent
// cache, leaving every other cached resolution in place. Used by
// targeted refreshes, which must not disturb the rest of the cache.
func (ix *Index) syncCacheNames(names []string) {
	if ix.cache == nil {
		return
	}

	ix.mu.RLock()
	for _, name := range names {
		if e, ok := ix.entries[name]; ok {
			ix.cache.put(name, e)
		} else {
			ix.cache.delete(name)
		}
	}
	ix.mu.RUnlock()

	if err := ix.cache.Save(); err != nil {
		ix.log.Warn("saving index cache", "error", err)
	}
}

// resolveStored returns the recorded entry for a name from the
// in-memory mapping or, failing that, the validated persistent cache.
// Unlike Resolve it never applies the bootstrap override, so it
// reflects only what an earlier pass actually derived.
func (ix *Index) resolveStored(name string) (Entry, bool) {
	if e, ok := ix.lookup(name); ok {
		return e, true
	}
	if ix.cache != nil {
		if ce, ok := ix.cache.get(name); ok && ix.repoConfigured(ce.Repo) {
			return Entry{Name: name, Repo: ce.Repo, Parent: ce.Parent}, true
		}
	}
	return Entry{}, false
}
