package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/samhoang/lockshard/internal/logging"
)

func TestResolveReposSkipsInvalid(t *testing.T) {
	valid := t.TempDir()
	missing := filepath.Join(t.TempDir(), "does-not-exist")

	repos := ResolveRepos([]string{valid, missing}, logging.Discard())

	if len(repos) != 1 {
		t.Fatalf("got %d repos, want 1: %v", len(repos), repos)
	}
	if repos[0].Spec != valid {
		t.Errorf("Spec = %q, want %q", repos[0].Spec, valid)
	}
}

func TestResolveReposPreservesOrder(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()

	repos := ResolveRepos([]string{first, second}, logging.Discard())

	if len(repos) != 2 {
		t.Fatalf("got %d repos, want 2", len(repos))
	}
	if repos[0].Spec != first || repos[1].Spec != second {
		t.Errorf("order not preserved: %v", repos)
	}
}

func TestResolveReposDedupes(t *testing.T) {
	dir := t.TempDir()
	link := filepath.Join(t.TempDir(), "link")
	if err := os.Symlink(dir, link); err != nil {
		t.Skipf("symlink not supported: %v", err)
	}

	repos := ResolveRepos([]string{dir, link}, logging.Discard())

	if len(repos) != 1 {
		t.Fatalf("got %d repos, want 1 after symlink dedupe: %v", len(repos), repos)
	}
}

func TestRepoLockPath(t *testing.T) {
	r := Repo{Spec: "~/cfg", Root: "/home/u/cfg"}
	want := filepath.Join("/home/u/cfg", "plugin-lock.json")
	if got := r.LockPath("plugin-lock.json"); got != want {
		t.Errorf("LockPath() = %q, want %q", got, want)
	}
}
