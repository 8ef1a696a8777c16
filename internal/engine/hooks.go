package engine

import (
	"errors"

	lserr "github.com/samhoang/lockshard/internal/errors"
)

// Hooks are the functions an embedding layer wires into the host
// plugin manager's extension points. Every hook catches its own
// failures: nothing here may ever prevent the host's native operation
// from completing.
type Hooks struct {
	// BeforeUninstall runs just before a bulk uninstall
	BeforeUninstall func()

	// AfterUninstall runs after the uninstall and the host's own
	// bookkeeping: reconcile, then restore still-declared entries
	AfterUninstall func()

	// AfterUpdate runs after the host finishes an update cycle
	AfterUpdate func()
}

// Hooks returns the engine's lifecycle hooks
func (e *Engine) Hooks() Hooks {
	return Hooks{
		BeforeUninstall: e.SnapshotLockfiles,
		AfterUninstall: func() {
			if err := e.Reconcile(); err != nil {
				e.log.Error("reconcile after uninstall", "error", err)
				// A host integration failure means there is nothing
				// trustworthy to restore against; per-repo write
				// failures still leave the other repos restorable.
				var herr *lserr.HostError
				if errors.As(err, &herr) {
					return
				}
			}
			if err := e.RestoreRemoved(); err != nil {
				e.log.Error("restore after uninstall", "error", err)
			}
		},
		AfterUpdate: func() {
			if err := e.Reconcile(); err != nil {
				e.log.Error("reconcile after update", "error", err)
			}
		},
	}
}
