// Package engine reconciles live plugin state, the host's single
// lockfile, and the cached historical lockfile into one lock file per
// configured repository.
package engine

import (
	"errors"
	"sort"

	"github.com/hashicorp/go-hclog"

	"github.com/samhoang/lockshard/internal/config"
	lserr "github.com/samhoang/lockshard/internal/errors"
	"github.com/samhoang/lockshard/internal/histlock"
	"github.com/samhoang/lockshard/internal/host"
	"github.com/samhoang/lockshard/internal/index"
	"github.com/samhoang/lockshard/internal/lockfile"
)

// Engine computes and persists per-repository lock files
type Engine struct {
	repos    []config.Repo
	lockName string
	ix       *index.Index
	hst      host.Host
	hist     *histlock.Cache
	log      hclog.Logger

	snapshots map[string]lockfile.File
}

// New creates an Engine. hist may be nil when no repository carries
// the host lockfile in version control.
func New(repos []config.Repo, lockName string, ix *index.Index, h host.Host, hist *histlock.Cache, log hclog.Logger) *Engine {
	return &Engine{
		repos:    repos,
		lockName: lockName,
		ix:       ix,
		hst:      h,
		hist:     hist,
		log:      log,
	}
}

// Reconcile runs one full reconciliation pass synchronously and writes
// every repository's lock file.
func (e *Engine) Reconcile() error {
	p, err := e.newPass()
	if err != nil {
		return err
	}
	for _, pl := range p.plugins {
		p.process(pl)
	}
	return p.finalize()
}

// pass is the working state of one reconciliation
type pass struct {
	e        *Engine
	plugins  []host.Plugin
	hostLock lockfile.File
	hist     lockfile.File
	computed map[string]lockfile.File // repo root -> entries
}

func (e *Engine) newPass() (*pass, error) {
	plugins, err := e.hst.Plugins()
	if err != nil {
		return nil, lserr.NewHostError("list plugins", err)
	}

	p := &pass{
		e:        e,
		plugins:  host.Dedupe(plugins),
		hostLock: lockfile.Read(e.hst.LockfilePath()),
		hist:     lockfile.File{},
		computed: make(map[string]lockfile.File, len(e.repos)),
	}
	if e.hist != nil {
		p.hist = e.hist.Get()
	}
	for _, r := range e.repos {
		p.computed[r.Root] = lockfile.File{}
	}

	return p, nil
}

// process computes at most one lock entry for a plugin. Plugins that
// fail to resolve get no entry; installed plugins without live git
// info get no entry either, neither case is an error.
func (p *pass) process(pl host.Plugin) {
	ent, ok := p.e.ix.Resolve(pl.Name)
	if !ok {
		p.e.log.Debug("plugin has no source repository", "plugin", pl.Name)
		return
	}

	if pl.Installed {
		info, ok := p.e.hst.GitInfo(pl.Dir)
		if !ok {
			p.e.log.Debug("no live git info", "plugin", pl.Name, "dir", pl.Dir)
			return
		}
		p.put(ent.Repo, pl.Name, lockfile.Entry{
			Branch: info.Branch,
			Commit: info.Commit,
			Source: ent.Parent,
		})
		return
	}

	// Disabled or otherwise inactive: fall back to the host's current
	// lockfile, then to the historical snapshot, reused unchanged.
	if le, ok := p.hostLock[pl.Name]; ok {
		p.put(ent.Repo, pl.Name, le)
		return
	}
	if le, ok := p.hist[pl.Name]; ok {
		p.put(ent.Repo, pl.Name, le)
	}
}

func (p *pass) put(root, name string, le lockfile.Entry) {
	set, ok := p.computed[root]
	if !ok {
		// Resolution to a repo outside the configured list can only
		// come from a stale cache hit; drop it.
		p.e.log.Debug("dropping entry for unconfigured repo", "plugin", name, "repo", root)
		return
	}
	set[name] = le
}

func (p *pass) anywhere(name string) bool {
	for _, set := range p.computed {
		if _, ok := set[name]; ok {
			return true
		}
	}
	return false
}

// finalize applies the two restoration cascades and writes every
// repository's lock file. One repository failing to write does not
// block the others.
func (p *pass) finalize() error {
	// Same-repository cascade: keep a previous entry whose parent is
	// re-derived this pass even when the entry itself is not.
	for _, r := range p.e.repos {
		set := p.computed[r.Root]
		prev := lockfile.Read(r.LockPath(p.e.lockName))
		for name, le := range prev {
			if le.Source == "" {
				continue
			}
			if _, ok := set[le.Source]; !ok {
				continue
			}
			if _, ok := set[name]; ok {
				continue
			}
			set[name] = le
		}
	}

	// Historical cascade: a historical recipe child whose parent is
	// active somewhere this pass follows its parent's repository.
	names := make([]string, 0, len(p.hist))
	for name := range p.hist {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		le := p.hist[name]
		if le.Source == "" || p.anywhere(name) {
			continue
		}
		for _, r := range p.e.repos {
			if _, ok := p.computed[r.Root][le.Source]; ok {
				p.computed[r.Root][name] = le
				break
			}
		}
	}

	var errs []error
	for _, r := range p.e.repos {
		path := r.LockPath(p.e.lockName)
		if err := lockfile.Write(path, p.computed[r.Root]); err != nil {
			werr := lserr.NewRepoError(r.Spec, "write lock file", err)
			p.e.log.Error("writing lock file", "repo", r.Spec, "error", err)
			errs = append(errs, werr)
		}
	}

	return errors.Join(errs...)
}
