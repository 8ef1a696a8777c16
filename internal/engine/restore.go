package engine

import (
	"errors"

	lserr "github.com/samhoang/lockshard/internal/errors"
	"github.com/samhoang/lockshard/internal/lockfile"
)

// SnapshotLockfiles captures every repository's current on-disk lock
// file. Call it before a bulk uninstall so RestoreRemoved can undo the
// host forgetting plugins that are still declared.
func (e *Engine) SnapshotLockfiles() {
	snap := make(map[string]lockfile.File, len(e.repos))
	for _, r := range e.repos {
		snap[r.Root] = lockfile.Read(r.LockPath(e.lockName))
	}
	e.snapshots = snap
}

// RestoreRemoved re-admits entries that were present before the bulk
// uninstall but are gone from the freshly reconciled files, as long as
// the plugin is still declared in that repository or its recipe parent
// survived. Entries whose owning declaration genuinely disappeared
// stay dropped. Runs after a fresh Reconcile; the snapshot is consumed.
func (e *Engine) RestoreRemoved() error {
	if e.snapshots == nil {
		return nil
	}
	snapshots := e.snapshots
	e.snapshots = nil

	var errs []error
	for _, r := range e.repos {
		snap, ok := snapshots[r.Root]
		if !ok || len(snap) == 0 {
			continue
		}

		path := r.LockPath(e.lockName)
		cur := lockfile.Read(path)
		changed := false

		for name, le := range snap {
			if _, ok := cur[name]; ok {
				continue
			}

			stillDeclared := false
			if ent, ok := e.ix.Resolve(name); ok && ent.Repo == r.Root {
				stillDeclared = true
			}
			parentSurvives := false
			if le.Source != "" {
				_, parentSurvives = cur[le.Source]
			}

			if stillDeclared || parentSurvives {
				cur[name] = le
				changed = true
			}
		}

		if !changed {
			continue
		}
		if err := lockfile.Write(path, cur); err != nil {
			e.log.Error("restoring lock entries", "repo", r.Spec, "error", err)
			errs = append(errs, lserr.NewRepoError(r.Spec, "restore lock file", err))
		}
	}

	return errors.Join(errs...)
}
