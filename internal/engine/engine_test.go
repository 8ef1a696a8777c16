package engine

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/samhoang/lockshard/internal/config"
	"github.com/samhoang/lockshard/internal/host"
	"github.com/samhoang/lockshard/internal/index"
	"github.com/samhoang/lockshard/internal/lockfile"
	"github.com/samhoang/lockshard/internal/logging"
	"github.com/samhoang/lockshard/internal/scan"
)

const lockName = "plugin-lock.json"

// fakeHost is a scripted host plugin manager
type fakeHost struct {
	plugins []host.Plugin
	infos   map[string]host.GitInfo // dir -> live info
	lock    string
}

func (f *fakeHost) Plugins() ([]host.Plugin, error) { return f.plugins, nil }

func (f *fakeHost) GitInfo(dir string) (host.GitInfo, bool) {
	gi, ok := f.infos[dir]
	return gi, ok
}

func (f *fakeHost) LockfilePath() string { return f.lock }

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func newRepo(t *testing.T, spec string) config.Repo {
	t.Helper()
	root, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return config.Repo{Spec: spec, Root: root}
}

func newIndex(repos []config.Repo, h host.Host) *index.Index {
	ix := index.New(repos, scan.NewScanner("plugins", ".lua"), h, nil, "", logging.Discard())
	ix.Build()
	return ix
}

func TestReconcileInstalledPlugin(t *testing.T) {
	r1 := newRepo(t, "r1")
	writeFile(t, filepath.Join(r1.Root, "plugins", "a.lua"), `"x/plugin-a"`)

	dir := t.TempDir()
	h := &fakeHost{
		plugins: []host.Plugin{{Name: "plugin-a", Dir: dir, Installed: true}},
		infos:   map[string]host.GitInfo{dir: {Branch: "main", Commit: "abc123"}},
	}
	repos := []config.Repo{r1}
	e := New(repos, lockName, newIndex(repos, h), h, nil, logging.Discard())

	if err := e.Reconcile(); err != nil {
		t.Fatal(err)
	}

	f := lockfile.Read(r1.LockPath(lockName))
	got, ok := f["plugin-a"]
	if !ok {
		t.Fatal("plugin-a has no lock entry")
	}
	if got.Branch != "main" || got.Commit != "abc123" || got.Source != "" {
		t.Errorf("entry = %+v", got)
	}
}

func TestReconcileRecipeChildCarriesSource(t *testing.T) {
	r1 := newRepo(t, "r1")
	writeFile(t, filepath.Join(r1.Root, "plugins", "init.lua"), `"y/parent-p"`)

	parentDir := t.TempDir()
	childDir := t.TempDir()
	writeFile(t, filepath.Join(parentDir, "plugins", "extra.lua"), `"z/child-c"`)

	h := &fakeHost{
		plugins: []host.Plugin{
			{Name: "parent-p", Dir: parentDir, Installed: true},
			{Name: "child-c", Dir: childDir, Installed: true},
		},
		infos: map[string]host.GitInfo{
			parentDir: {Branch: "main", Commit: "p1"},
			childDir:  {Branch: "main", Commit: "c1"},
		},
	}
	repos := []config.Repo{r1}
	e := New(repos, lockName, newIndex(repos, h), h, nil, logging.Discard())

	if err := e.Reconcile(); err != nil {
		t.Fatal(err)
	}

	f := lockfile.Read(r1.LockPath(lockName))
	if f["child-c"].Source != "parent-p" {
		t.Errorf("child-c source = %q, want parent-p", f["child-c"].Source)
	}
	if f["parent-p"].Source != "" {
		t.Errorf("parent-p source = %q, want empty", f["parent-p"].Source)
	}
}

func TestReconcileDisabledFallsBackToHostLock(t *testing.T) {
	r1 := newRepo(t, "r1")
	writeFile(t, filepath.Join(r1.Root, "plugins", "a.lua"), `"x/sleepy"`)

	hostLock := filepath.Join(t.TempDir(), "lazy-lock.json")
	if err := lockfile.Write(hostLock, lockfile.File{
		"sleepy": {Branch: "main", Commit: "frozen1"},
	}); err != nil {
		t.Fatal(err)
	}

	h := &fakeHost{
		plugins: []host.Plugin{{Name: "sleepy", Installed: false}},
		lock:    hostLock,
	}
	repos := []config.Repo{r1}
	e := New(repos, lockName, newIndex(repos, h), h, nil, logging.Discard())

	if err := e.Reconcile(); err != nil {
		t.Fatal(err)
	}

	f := lockfile.Read(r1.LockPath(lockName))
	if f["sleepy"].Commit != "frozen1" {
		t.Errorf("sleepy entry = %+v, want commit frozen1 from host lock", f["sleepy"])
	}
}

func TestReconcileUnresolvedPluginSkipped(t *testing.T) {
	r1 := newRepo(t, "r1")

	dir := t.TempDir()
	h := &fakeHost{
		plugins: []host.Plugin{{Name: "ghost", Dir: dir, Installed: true}},
		infos:   map[string]host.GitInfo{dir: {Branch: "main", Commit: "g1"}},
	}
	repos := []config.Repo{r1}
	e := New(repos, lockName, newIndex(repos, h), h, nil, logging.Discard())

	if err := e.Reconcile(); err != nil {
		t.Fatal(err)
	}

	f := lockfile.Read(r1.LockPath(lockName))
	if len(f) != 0 {
		t.Errorf("lock file = %v, want empty", f)
	}
}

func TestReconcileIdempotent(t *testing.T) {
	r1 := newRepo(t, "r1")
	writeFile(t, filepath.Join(r1.Root, "plugins", "a.lua"), `"x/plugin-a" "x/plugin-b"`)

	dirA := t.TempDir()
	h := &fakeHost{
		plugins: []host.Plugin{
			{Name: "plugin-a", Dir: dirA, Installed: true},
			{Name: "plugin-b", Installed: false},
		},
		infos: map[string]host.GitInfo{dirA: {Branch: "main", Commit: "a1"}},
	}
	repos := []config.Repo{r1}
	e := New(repos, lockName, newIndex(repos, h), h, nil, logging.Discard())

	if err := e.Reconcile(); err != nil {
		t.Fatal(err)
	}
	first, _ := os.ReadFile(r1.LockPath(lockName))

	if err := e.Reconcile(); err != nil {
		t.Fatal(err)
	}
	second, _ := os.ReadFile(r1.LockPath(lockName))

	if !bytes.Equal(first, second) {
		t.Errorf("reconcile not idempotent:\n%s\n%s", first, second)
	}
}

func TestSameRepoCascade(t *testing.T) {
	r1 := newRepo(t, "r1")
	writeFile(t, filepath.Join(r1.Root, "plugins", "init.lua"), `"y/parent-p"`)

	// Previous pass left child-c with source parent-p; this pass can
	// re-derive parent-p but knows nothing about child-c.
	if err := lockfile.Write(r1.LockPath(lockName), lockfile.File{
		"parent-p": {Branch: "main", Commit: "old-p"},
		"child-c":  {Branch: "main", Commit: "kept1", Source: "parent-p"},
		"orphan":   {Branch: "main", Commit: "drop1", Source: "missing-parent"},
	}); err != nil {
		t.Fatal(err)
	}

	parentDir := t.TempDir()
	h := &fakeHost{
		plugins: []host.Plugin{{Name: "parent-p", Dir: parentDir, Installed: true}},
		infos:   map[string]host.GitInfo{parentDir: {Branch: "main", Commit: "new-p"}},
	}
	repos := []config.Repo{r1}
	e := New(repos, lockName, newIndex(repos, h), h, nil, logging.Discard())

	if err := e.Reconcile(); err != nil {
		t.Fatal(err)
	}

	f := lockfile.Read(r1.LockPath(lockName))
	if f["parent-p"].Commit != "new-p" {
		t.Errorf("parent-p = %+v, want fresh commit", f["parent-p"])
	}
	if f["child-c"].Commit != "kept1" {
		t.Errorf("child-c = %+v, want re-admitted unchanged", f["child-c"])
	}
	if _, ok := f["orphan"]; ok {
		t.Error("orphan's parent is gone; entry should be dropped")
	}
}
