package engine

import (
	"github.com/samhoang/lockshard/internal/task"
)

// ReconcilePlan is the tick-driven variant of Reconcile: one task per
// plugin (source resolution plus version-control query), then a fixed
// writing step. Results are identical to the synchronous pass.
type ReconcilePlan struct {
	Tasks []task.Task

	p   *pass
	err error
}

// Plan prepares a reconciliation pass for the task driver. The
// returned error is a host integration failure; the caller reports it
// and skips this invocation.
func (e *Engine) Plan() (*ReconcilePlan, error) {
	p, err := e.newPass()
	if err != nil {
		return nil, err
	}

	rp := &ReconcilePlan{p: p}
	for _, pl := range p.plugins {
		plugin := pl
		rp.Tasks = append(rp.Tasks, task.Task{
			Label: plugin.Name,
			Run:   func() error { p.process(plugin); return nil },
		})
	}
	rp.Tasks = append(rp.Tasks, task.Task{
		Label: "writing lock files",
		Run: func() error {
			rp.err = p.finalize()
			return rp.err
		},
	})

	return rp, nil
}

// Err returns the aggregated write error, once all tasks have run
func (rp *ReconcilePlan) Err() error {
	return rp.err
}
