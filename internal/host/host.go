// Package host models the plugin manager lockshard wraps. The engine
// only consumes this interface; it never reimplements the manager's
// own install or update behavior.
package host

import "github.com/samhoang/lockshard/internal/gitx"

// Plugin is one plugin known to the host plugin manager
type Plugin struct {
	Name string `yaml:"name"`

	// Dir is the plugin's install directory, empty if never installed
	Dir string `yaml:"dir,omitempty"`

	// Installed reports whether the plugin is currently on disk and
	// active. Disabled plugins are known but not installed.
	Installed bool `yaml:"installed"`

	// Local marks a purely local, unmanaged override. Local plugins
	// never get lock entries.
	Local bool `yaml:"local,omitempty"`
}

// GitInfo is a plugin's live version-control state
type GitInfo struct {
	Branch string
	Commit string
}

// Host is the collaborator contract with the plugin manager
type Host interface {
	// Plugins returns every plugin the host knows about: installed,
	// disabled, and declared but not yet processed
	Plugins() ([]Plugin, error)

	// GitInfo looks up live branch/commit for a plugin directory.
	// ok is false when no info is available; that is not an error.
	GitInfo(dir string) (GitInfo, bool)

	// LockfilePath returns the host's single canonical lockfile path
	LockfilePath() string
}

// Dedupe returns plugins deduplicated by name (first occurrence wins)
// with local/unmanaged overrides excluded.
func Dedupe(plugins []Plugin) []Plugin {
	seen := make(map[string]bool)
	out := make([]Plugin, 0, len(plugins))
	for _, p := range plugins {
		if p.Local || seen[p.Name] {
			continue
		}
		seen[p.Name] = true
		out = append(out, p)
	}
	return out
}

// liveGitInfo is the shared GitInfo implementation over gitx
func liveGitInfo(git gitx.Git, dir string) (GitInfo, bool) {
	if dir == "" {
		return GitInfo{}, false
	}
	commit, err := git.Head(dir)
	if err != nil || commit == "" {
		return GitInfo{}, false
	}
	branch, err := git.Branch(dir)
	if err != nil {
		branch = ""
	}
	return GitInfo{Branch: branch, Commit: commit}, true
}
