package config

import (
	"path/filepath"

	"github.com/hashicorp/go-hclog"
)

// Repo is a resolved repository root. Order in a []Repo slice encodes
// priority: earlier repos win ties.
type Repo struct {
	Spec string // path as configured
	Root string // absolute path, symlinks followed
}

// LockPath returns the per-repository lock file path for this repo
func (r Repo) LockPath(lockName string) string {
	return filepath.Join(r.Root, lockName)
}

// ResolveRepos resolves the configured repository list into absolute,
// symlink-followed roots. Order is preserved, duplicates (after
// resolution) are dropped, and invalid entries are skipped with a
// warning rather than failing the whole list.
func ResolveRepos(specs []string, log hclog.Logger) []Repo {
	seen := make(map[string]bool)
	repos := make([]Repo, 0, len(specs))

	for _, spec := range specs {
		abs, err := filepath.Abs(expandHome(spec))
		if err != nil {
			log.Warn("skipping repository", "repo", spec, "error", err)
			continue
		}

		root, err := filepath.EvalSymlinks(abs)
		if err != nil {
			log.Warn("skipping repository", "repo", spec, "error", err)
			continue
		}

		if seen[root] {
			continue
		}
		seen[root] = true

		repos = append(repos, Repo{Spec: spec, Root: root})
	}

	return repos
}
