package index

import (
	"path/filepath"
	"testing"

	"github.com/samhoang/lockshard/internal/config"
	"github.com/samhoang/lockshard/internal/logging"
)

func TestCachePersistsAcrossInstances(t *testing.T) {
	r1 := newRepo(t, "r1")
	writeFile(t, filepath.Join(r1.Root, "plugins", "a.lua"), `"x/plugin-a"`)

	cachePath := filepath.Join(t.TempDir(), "index-cache.toml")

	ix := New([]config.Repo{r1}, testScanner(), &fakeHost{}, LoadCache(cachePath), "", logging.Discard())
	ix.Build()

	// A fresh instance with an empty in-memory index resolves from the
	// persisted cache alone.
	fresh := New([]config.Repo{r1}, testScanner(), &fakeHost{}, LoadCache(cachePath), "", logging.Discard())
	e, ok := fresh.Resolve("plugin-a")
	if !ok {
		t.Fatal("cache hit expected")
	}
	if e.Repo != r1.Root {
		t.Errorf("cached repo = %s, want %s", e.Repo, r1.Root)
	}
}

func TestCacheHitValidatedAgainstRepoList(t *testing.T) {
	r1 := newRepo(t, "r1")
	gone := newRepo(t, "gone")
	writeFile(t, filepath.Join(gone.Root, "plugins", "a.lua"), `"x/plugin-a"`)

	cachePath := filepath.Join(t.TempDir(), "index-cache.toml")

	ix := New([]config.Repo{gone}, testScanner(), &fakeHost{}, LoadCache(cachePath), "", logging.Discard())
	ix.Build()

	// The cached repo is no longer configured: treated as a miss
	reconfigured := New([]config.Repo{r1}, testScanner(), &fakeHost{}, LoadCache(cachePath), "", logging.Discard())
	if _, ok := reconfigured.Resolve("plugin-a"); ok {
		t.Error("stale cache entry should be a miss")
	}
}

func TestLoadCacheMissingOrMalformed(t *testing.T) {
	c := LoadCache(filepath.Join(t.TempDir(), "missing.toml"))
	if len(c.Plugins) != 0 {
		t.Errorf("missing cache: %v", c.Plugins)
	}

	bad := filepath.Join(t.TempDir(), "bad.toml")
	writeFile(t, bad, "not [valid toml")
	c = LoadCache(bad)
	if len(c.Plugins) != 0 {
		t.Errorf("malformed cache: %v", c.Plugins)
	}
}
