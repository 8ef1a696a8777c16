package engine

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/samhoang/lockshard/internal/config"
	"github.com/samhoang/lockshard/internal/histlock"
	"github.com/samhoang/lockshard/internal/host"
	"github.com/samhoang/lockshard/internal/lockfile"
	"github.com/samhoang/lockshard/internal/logging"
)

// fakeGit serves a single committed host lockfile
type fakeGit struct {
	head    string
	content string
}

func (f *fakeGit) Head(dir string) (string, error) {
	if f.head == "" {
		return "", errors.New("not a repository")
	}
	return f.head, nil
}

func (f *fakeGit) Branch(dir string) (string, error) { return "main", nil }

func (f *fakeGit) Show(dir, rev, path string) ([]byte, error) {
	if rev != f.head {
		return nil, errors.New("does not exist in " + rev)
	}
	return []byte(f.content), nil
}

func TestHistoricalCascade(t *testing.T) {
	r1 := newRepo(t, "r1")
	r2 := newRepo(t, "r2")
	writeFile(t, filepath.Join(r2.Root, "plugins", "init.lua"), `"y/parent-p"`)

	// hist-child was locked via parent-p in an older revision of the
	// host lockfile and appears nowhere this pass.
	git := &fakeGit{
		head: "aaa",
		content: `{"hist-child": {"branch": "main", "commit": "h1", "source": "parent-p"},
			"loose-end": {"branch": "main", "commit": "h2", "source": "nobody"}}`,
	}
	hist := histlock.New(r1.Root, "lazy-lock.json", git, logging.Discard())

	parentDir := t.TempDir()
	h := &fakeHost{
		plugins: []host.Plugin{{Name: "parent-p", Dir: parentDir, Installed: true}},
		infos:   map[string]host.GitInfo{parentDir: {Branch: "main", Commit: "p1"}},
	}
	repos := []config.Repo{r1, r2}
	e := New(repos, lockName, newIndex(repos, h), h, hist, logging.Discard())

	if err := e.Reconcile(); err != nil {
		t.Fatal(err)
	}

	f2 := lockfile.Read(r2.LockPath(lockName))
	if f2["hist-child"].Commit != "h1" {
		t.Errorf("hist-child = %+v, want historical entry in parent's repo", f2["hist-child"])
	}
	f1 := lockfile.Read(r1.LockPath(lockName))
	if _, ok := f1["hist-child"]; ok {
		t.Error("hist-child landed in r1, parent lives in r2")
	}
	if _, ok := f1["loose-end"]; ok {
		t.Error("loose-end has no active parent, should stay dropped")
	}
	if _, ok := f2["loose-end"]; ok {
		t.Error("loose-end has no active parent, should stay dropped")
	}
}

func TestUninstallHooksRestoreDeclaredEntries(t *testing.T) {
	r1 := newRepo(t, "r1")
	writeFile(t, filepath.Join(r1.Root, "plugins", "a.lua"), `"x/plugin-a"`)

	// State before the bulk uninstall: the host has since forgotten
	// child-c and gone-one, but only gone-one lost its declaration.
	if err := lockfile.Write(r1.LockPath(lockName), lockfile.File{
		"plugin-a": {Branch: "main", Commit: "a0"},
		"child-c":  {Branch: "main", Commit: "c0", Source: "plugin-a"},
		"gone-one": {Branch: "main", Commit: "g0"},
	}); err != nil {
		t.Fatal(err)
	}

	dirA := t.TempDir()
	h := &fakeHost{
		plugins: []host.Plugin{{Name: "plugin-a", Dir: dirA, Installed: true}},
		infos:   map[string]host.GitInfo{dirA: {Branch: "main", Commit: "a1"}},
	}
	repos := []config.Repo{r1}
	e := New(repos, lockName, newIndex(repos, h), h, nil, logging.Discard())

	hooks := e.Hooks()
	hooks.BeforeUninstall()
	hooks.AfterUninstall()

	f := lockfile.Read(r1.LockPath(lockName))
	if f["plugin-a"].Commit != "a1" {
		t.Errorf("plugin-a = %+v, want fresh reconcile result", f["plugin-a"])
	}
	if f["child-c"].Commit != "c0" {
		t.Errorf("child-c = %+v, want restored via surviving parent", f["child-c"])
	}
	if _, ok := f["gone-one"]; ok {
		t.Error("gone-one is neither declared nor parented, should stay dropped")
	}
}

func TestRestoreWithoutSnapshotIsNoop(t *testing.T) {
	r1 := newRepo(t, "r1")
	h := &fakeHost{}
	repos := []config.Repo{r1}
	e := New(repos, lockName, newIndex(repos, h), h, nil, logging.Discard())

	if err := e.RestoreRemoved(); err != nil {
		t.Fatal(err)
	}
}

func TestSnapshotConsumedByRestore(t *testing.T) {
	r1 := newRepo(t, "r1")
	writeFile(t, filepath.Join(r1.Root, "plugins", "a.lua"), `"x/plugin-a"`)
	if err := lockfile.Write(r1.LockPath(lockName), lockfile.File{
		"plugin-a": {Branch: "main", Commit: "a0"},
	}); err != nil {
		t.Fatal(err)
	}

	h := &fakeHost{}
	repos := []config.Repo{r1}
	e := New(repos, lockName, newIndex(repos, h), h, nil, logging.Discard())

	e.SnapshotLockfiles()
	if err := e.Reconcile(); err != nil {
		t.Fatal(err)
	}
	if err := e.RestoreRemoved(); err != nil {
		t.Fatal(err)
	}

	f := lockfile.Read(r1.LockPath(lockName))
	if f["plugin-a"].Commit != "a0" {
		t.Fatalf("plugin-a = %+v, want restored", f["plugin-a"])
	}

	// Second restore must not resurrect anything
	if err := lockfile.Write(r1.LockPath(lockName), lockfile.File{}); err != nil {
		t.Fatal(err)
	}
	if err := e.RestoreRemoved(); err != nil {
		t.Fatal(err)
	}
	if n := len(lockfile.Read(r1.LockPath(lockName))); n != 0 {
		t.Errorf("lock file has %d entries, want 0 after consumed snapshot", n)
	}
}
