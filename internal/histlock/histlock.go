// Package histlock caches the "last known good" copy of the host's
// lockfile as committed in a repository's version-control history.
// The cache is keyed by the repository's HEAD: while HEAD is unchanged
// the snapshot is reused, and any HEAD movement refetches it.
package histlock

import (
	"github.com/hashicorp/go-hclog"

	"github.com/samhoang/lockshard/internal/gitx"
	"github.com/samhoang/lockshard/internal/lockfile"
)

// Cache holds the historical lockfile snapshot for one repository
type Cache struct {
	root    string // repository whose history carries the lockfile
	relPath string // lockfile path relative to the repository root
	git     gitx.Git
	log     hclog.Logger

	head     string
	snapshot lockfile.File
}

// New creates a Cache for the lockfile at relPath inside the
// repository at root
func New(root, relPath string, git gitx.Git, log hclog.Logger) *Cache {
	return &Cache{root: root, relPath: relPath, git: git, log: log}
}

// Get returns the historical lockfile snapshot, refetching it when
// HEAD has moved since the last call. Any git failure degrades to an
// empty mapping; history being unavailable is never fatal.
func (c *Cache) Get() lockfile.File {
	head, err := c.git.Head(c.root)
	if err != nil || head == "" {
		c.log.Debug("no HEAD for historical lockfile", "repo", c.root, "error", err)
		return lockfile.File{}
	}

	if head == c.head && c.snapshot != nil {
		return c.snapshot
	}

	data, err := c.git.Show(c.root, head, c.relPath)
	if err != nil {
		c.log.Debug("lockfile not in history", "repo", c.root, "rev", head, "error", err)
		c.head = head
		c.snapshot = lockfile.File{}
		return c.snapshot
	}

	c.head = head
	c.snapshot = lockfile.Parse(data)
	return c.snapshot
}

// Invalidate drops the cached snapshot so the next Get refetches
func (c *Cache) Invalidate() {
	c.head = ""
	c.snapshot = nil
}
