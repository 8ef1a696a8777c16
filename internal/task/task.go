// Package task is the generic "process N items, one tick at a time"
// driver used by the index builder and the reconciliation engine. It
// keeps long batches from blocking whatever event loop is driving
// them: each Step call advances exactly one item, and the caller
// decides when ticks happen (a TUI frame, a plain loop, a test).
package task

import (
	"sync"

	"github.com/hashicorp/go-hclog"
)

// Task is one unit of work in a batch
type Task struct {
	Label string
	Run   func() error
}

// Options configures batch callbacks. All callbacks are optional.
type Options struct {
	// OnComplete fires once, after the final item finishes
	OnComplete func()

	// OnProgress fires after each item with (completed, total, label)
	OnProgress func(i, n int, label string)

	// OnCancel fires when the batch is cancelled or superseded
	OnCancel func()
}

// Runner owns the single in-flight batch. Starting a new batch cancels
// and discards any previous one.
type Runner struct {
	mu      sync.Mutex
	current *Batch
	log     hclog.Logger
}

// NewRunner creates a Runner
func NewRunner(log hclog.Logger) *Runner {
	return &Runner{log: log}
}

// Start begins a new batch, cancelling the previous in-flight batch
// first (its OnCancel fires before the new batch is visible).
func (r *Runner) Start(tasks []Task, opts Options) *Batch {
	r.mu.Lock()
	prev := r.current
	r.mu.Unlock()

	if prev != nil {
		prev.Cancel()
	}

	b := &Batch{runner: r, tasks: tasks, opts: opts}

	r.mu.Lock()
	r.current = b
	r.mu.Unlock()

	return b
}

// Current returns the in-flight batch, or nil
func (r *Runner) Current() *Batch {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

func (r *Runner) finished(b *Batch) {
	r.mu.Lock()
	if r.current == b {
		r.current = nil
	}
	r.mu.Unlock()
}

// Batch is one in-flight sequence of tasks
type Batch struct {
	runner *Runner
	tasks  []Task
	opts   Options

	mu        sync.Mutex
	next      int
	label     string
	cancelled bool
	done      bool
}

// Step advances the batch by exactly one item and returns true once
// the batch is finished (completed or cancelled). Cancellation is
// checked once per step, before the next item starts: work already
// dispatched is never forcibly aborted, its outcome is just ignored.
func (b *Batch) Step() bool {
	b.mu.Lock()
	if b.done {
		b.mu.Unlock()
		return true
	}
	if b.cancelled {
		b.done = true
		b.mu.Unlock()
		b.runner.finished(b)
		return true
	}
	if b.next >= len(b.tasks) {
		b.done = true
		b.mu.Unlock()
		b.runner.finished(b)
		if b.opts.OnComplete != nil {
			b.opts.OnComplete()
		}
		return true
	}

	t := b.tasks[b.next]
	b.next++
	b.label = t.Label
	i, n := b.next, len(b.tasks)
	b.mu.Unlock()

	// A single item failing is reported and skipped; the batch keeps
	// advancing through the remaining items.
	if err := t.Run(); err != nil && b.runner.log != nil {
		b.runner.log.Warn("batch item failed", "item", t.Label, "error", err)
	}

	if b.opts.OnProgress != nil && !b.Cancelled() {
		b.opts.OnProgress(i, n, t.Label)
	}

	if i == n {
		b.mu.Lock()
		b.done = true
		b.mu.Unlock()
		b.runner.finished(b)
		if b.opts.OnComplete != nil && !b.Cancelled() {
			b.opts.OnComplete()
		}
		return true
	}

	return false
}

// Drain runs the batch to completion synchronously. Results are
// identical to stepping tick by tick, just without yielding.
func (b *Batch) Drain() {
	for !b.Step() {
	}
}

// Cancel marks the batch cancelled and fires OnCancel once
func (b *Batch) Cancel() {
	b.mu.Lock()
	if b.cancelled || b.done {
		b.mu.Unlock()
		return
	}
	b.cancelled = true
	b.mu.Unlock()

	b.runner.finished(b)
	if b.opts.OnCancel != nil {
		b.opts.OnCancel()
	}
}

// Cancelled reports whether the batch was cancelled
func (b *Batch) Cancelled() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cancelled
}

// Done reports whether the batch has finished stepping
func (b *Batch) Done() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.done
}

// Progress returns (completed, total, last label)
func (b *Batch) Progress() (int, int, string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.next, len(b.tasks), b.label
}
