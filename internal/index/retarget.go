package index

// RetargetOutcome classifies what a refresh found for one plugin name
type RetargetOutcome string

const (
	OutcomeDetected  RetargetOutcome = "detected"  // newly found in a repository
	OutcomeMoved     RetargetOutcome = "moved"     // owning repository changed
	OutcomeUnchanged RetargetOutcome = "unchanged" // same repository as before
	OutcomeNotFound  RetargetOutcome = "not found" // no longer declared anywhere
)

// RetargetResult is the per-name report of a targeted refresh
type RetargetResult struct {
	Name    string
	Outcome RetargetOutcome
	OldRepo string
	NewRepo string
	Parent  string
}

// RetargetPlan is a targeted refresh: only the given names are
// re-derived, the rest of the mapping is left untouched.
type RetargetPlan struct {
	*Plan

	names []string
	old   map[string]Entry
}

// Retarget prepares a targeted refresh for the given plugin names.
// Old state is read from the stored view (in-memory mapping or the
// persistent cache), so a fresh process can still report moved and
// unchanged outcomes against what an earlier invocation derived.
func (ix *Index) Retarget(names []string) *RetargetPlan {
	only := make(map[string]bool, len(names))
	old := make(map[string]Entry, len(names))
	for _, name := range names {
		only[name] = true
		if e, ok := ix.resolveStored(name); ok {
			old[name] = e
		}
	}
	ix.remove(names)

	return &RetargetPlan{
		Plan:  ix.newPlan(only),
		names: names,
		old:   old,
	}
}

// RetargetSync runs a targeted refresh synchronously
func (ix *Index) RetargetSync(names []string) []RetargetResult {
	p := ix.Retarget(names)
	for _, t := range p.Tasks {
		if err := t.Run(); err != nil {
			ix.log.Warn("retarget step failed", "step", t.Label, "error", err)
		}
	}
	return p.Results()
}

// Finish persists only the targeted names to the resolve cache.
// Every other cached resolution stays in place.
func (p *RetargetPlan) Finish() {
	p.ix.syncCacheNames(p.names)
}

// Results reports the outcome per targeted name, in input order, and
// persists the targeted names to the resolve cache. Call after all
// tasks have run.
func (p *RetargetPlan) Results() []RetargetResult {
	p.Finish()

	results := make([]RetargetResult, 0, len(p.names))
	for _, name := range p.names {
		old, hadOld := p.old[name]
		cur, hasCur := p.ix.lookup(name)

		r := RetargetResult{Name: name}
		switch {
		case !hadOld && hasCur:
			r.Outcome = OutcomeDetected
			r.NewRepo = cur.Repo
			r.Parent = cur.Parent
		case hadOld && hasCur && old.Repo == cur.Repo:
			r.Outcome = OutcomeUnchanged
			r.OldRepo = old.Repo
			r.NewRepo = cur.Repo
			r.Parent = cur.Parent
		case hadOld && hasCur:
			r.Outcome = OutcomeMoved
			r.OldRepo = old.Repo
			r.NewRepo = cur.Repo
			r.Parent = cur.Parent
		default:
			r.Outcome = OutcomeNotFound
			r.OldRepo = old.Repo
		}
		results = append(results, r)
	}

	return results
}
