package cmd

import (
	"path/filepath"
	"strings"

	"github.com/samhoang/lockshard/internal/config"
	"github.com/samhoang/lockshard/internal/engine"
	"github.com/samhoang/lockshard/internal/errors"
	"github.com/samhoang/lockshard/internal/gitx"
	"github.com/samhoang/lockshard/internal/histlock"
	"github.com/samhoang/lockshard/internal/host"
	"github.com/samhoang/lockshard/internal/index"
	"github.com/samhoang/lockshard/internal/logging"
	"github.com/samhoang/lockshard/internal/scan"
	"github.com/samhoang/lockshard/internal/task"
)

// app wires all components for one command invocation
type app struct {
	paths  *config.Paths
	cfg    *config.Config
	repos  []config.Repo
	hst    host.Host
	ix     *index.Index
	eng    *engine.Engine
	runner *task.Runner
}

func newApp() (*app, error) {
	paths, err := config.ResolvePaths()
	if err != nil {
		return nil, err
	}
	if !paths.IsConfigured() {
		return nil, errors.ErrNotConfigured
	}

	cfg, err := config.Load(paths.ConfigPath)
	if err != nil {
		return nil, err
	}
	if logLevel == "" && cfg.LogLevel != "" {
		logging.Setup(cfg.LogLevel)
	}

	repos := config.ResolveRepos(cfg.Repos, logging.Named("config"))
	if len(repos) == 0 {
		return nil, errors.ErrNoRepositories
	}

	git := gitx.CLI{}
	hst := host.NewStateFile(cfg.HostStatePath(), git)
	scanner := scan.NewScanner(cfg.DeclarationDir, cfg.DeclarationExt)
	cache := index.LoadCache(paths.CachePath)
	ix := index.New(repos, scanner, hst, cache, cfg.Bootstrap, logging.Named("index"))

	// The historical snapshot comes from the first repository's git
	// history, where the host lockfile is expected to be committed.
	var hist *histlock.Cache
	if lock := cfg.HostLockPath(); lock != "" {
		rel := filepath.Base(lock)
		if r, err := filepath.Rel(repos[0].Root, lock); err == nil && !strings.HasPrefix(r, "..") {
			rel = r
		}
		hist = histlock.New(repos[0].Root, rel, git, logging.Named("histlock"))
	}

	eng := engine.New(repos, cfg.LockName, ix, hst, hist, logging.Named("engine"))

	return &app{
		paths:  paths,
		cfg:    cfg,
		repos:  repos,
		hst:    hst,
		ix:     ix,
		eng:    eng,
		runner: task.NewRunner(logging.Named("task")),
	}, nil
}

// repoSpec maps a resolved repo root back to its configured spec
func (a *app) repoSpec(root string) string {
	for _, r := range a.repos {
		if r.Root == root {
			return r.Spec
		}
	}
	return root
}
