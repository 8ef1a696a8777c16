package index

import (
	"path/filepath"

	"github.com/samhoang/lockshard/internal/config"
	"github.com/samhoang/lockshard/internal/errors"
	"github.com/samhoang/lockshard/internal/host"
	"github.com/samhoang/lockshard/internal/task"
)

// Plan is a prepared build pass over all repositories. Tasks are
// ordered so that repositories run strictly in priority order, each
// repository's recipe sweep after its direct files. The file total is
// known up front, so progress over Tasks is monotonic.
type Plan struct {
	Tasks []task.Task

	ix      *Index
	only    map[string]bool
	parents map[string][]string // repo root -> direct finds, discovery order
	plugins map[string]host.Plugin
	loaded  bool
}

// BuildPlan prepares a full rebuild: the mapping is cleared and every
// repository is re-scanned. Call Finish (or wire it into the driver's
// OnComplete) once all tasks have run.
func (ix *Index) BuildPlan() *Plan {
	ix.mu.Lock()
	ix.entries = make(map[string]Entry)
	ix.mu.Unlock()

	return ix.newPlan(nil)
}

// Build runs a full rebuild synchronously
func (ix *Index) Build() {
	p := ix.BuildPlan()
	for _, t := range p.Tasks {
		if err := t.Run(); err != nil {
			ix.log.Warn("index build step failed", "step", t.Label, "error", err)
		}
	}
	p.Finish()
}

// Finish persists the resolve cache after a completed pass
func (p *Plan) Finish() {
	p.ix.syncCache()
}

func (ix *Index) newPlan(only map[string]bool) *Plan {
	p := &Plan{
		ix:      ix,
		only:    only,
		parents: make(map[string][]string),
	}

	excludes := make([]string, 0, len(ix.repos))
	for _, r := range ix.repos {
		excludes = append(excludes, r.Root)
	}

	// Pre-glob every repository so the task total is fixed before the
	// first file is read.
	for _, r := range ix.repos {
		repo := r
		files := ix.scanner.Scan(repo.Root, excludes)
		for _, f := range files {
			file := f
			label, err := filepath.Rel(repo.Root, file)
			if err != nil {
				label = file
			}
			p.Tasks = append(p.Tasks, task.Task{
				Label: label,
				Run:   func() error { p.scanDirect(repo, file); return nil },
			})
		}
		p.Tasks = append(p.Tasks, task.Task{
			Label: "recipes: " + repo.Spec,
			Run:   func() error { return p.scanRecipes(repo) },
		})
	}

	return p
}

// scanDirect processes one declaration file. Read failures mean "no
// names found in that file".
func (p *Plan) scanDirect(repo config.Repo, file string) {
	for _, name := range p.ix.scanner.ExtractFile(file) {
		if p.ix.add(Entry{Name: name, Repo: repo.Root}, p.only) {
			p.addParent(repo.Root, name)
			continue
		}
		// Already indexed. If it is a direct find of this same repo
		// (a retarget pass leaves non-targeted entries in place), it
		// still counts as a recipe parent candidate.
		if e, ok := p.ix.lookup(name); ok && e.Repo == repo.Root && e.Parent == "" {
			p.addParent(repo.Root, name)
		}
	}
}

// scanRecipes harvests one level of nested declarations: plugins found
// directly in this repository that are installed and bundle their own
// declaration files contribute children with Parent set.
func (p *Plan) scanRecipes(repo config.Repo) error {
	if err := p.loadPlugins(); err != nil {
		return err
	}

	for _, parent := range p.parents[repo.Root] {
		pl, ok := p.plugins[parent]
		if !ok || !pl.Installed || pl.Dir == "" {
			continue
		}
		for _, f := range p.ix.scanner.ScanDir(pl.Dir) {
			for _, name := range p.ix.scanner.ExtractFile(f) {
				p.ix.add(Entry{Name: name, Repo: repo.Root, Parent: parent}, p.only)
			}
		}
	}

	return nil
}

func (p *Plan) loadPlugins() error {
	if p.loaded {
		return nil
	}

	plugins, err := p.ix.hst.Plugins()
	if err != nil {
		return errors.NewHostError("list plugins", err)
	}

	p.plugins = make(map[string]host.Plugin, len(plugins))
	for _, pl := range plugins {
		if _, ok := p.plugins[pl.Name]; !ok {
			p.plugins[pl.Name] = pl
		}
	}
	p.loaded = true
	return nil
}

func (p *Plan) addParent(root, name string) {
	for _, n := range p.parents[root] {
		if n == name {
			return
		}
	}
	p.parents[root] = append(p.parents[root], name)
}

// lookup reads the in-memory mapping only, bypassing cache and
// bootstrap special cases
func (ix *Index) lookup(name string) (Entry, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	e, ok := ix.entries[name]
	return e, ok
}
