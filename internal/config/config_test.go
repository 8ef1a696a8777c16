package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "lockshard.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LockName != DefaultLockName {
		t.Errorf("LockName = %q, want %q", cfg.LockName, DefaultLockName)
	}
	if cfg.DeclarationDir != DefaultDeclarationDir {
		t.Errorf("DeclarationDir = %q, want %q", cfg.DeclarationDir, DefaultDeclarationDir)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "lockshard.toml")

	cfg := Default()
	cfg.Repos = []string{"/repo/one", "/repo/two"}
	cfg.HostLock = "/repo/one/lazy-lock.json"
	cfg.Bootstrap = "lazy.nvim"

	if err := cfg.Save(path); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Repos) != 2 || got.Repos[0] != "/repo/one" {
		t.Errorf("Repos = %v", got.Repos)
	}
	if got.Bootstrap != "lazy.nvim" {
		t.Errorf("Bootstrap = %q", got.Bootstrap)
	}
	if got.LockName != DefaultLockName {
		t.Errorf("LockName default not applied: %q", got.LockName)
	}
}

func TestLoadPartialAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lockshard.toml")
	content := "repos = [\"/repo/one\"]\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DeclarationExt != DefaultDeclarationExt {
		t.Errorf("DeclarationExt = %q, want %q", cfg.DeclarationExt, DefaultDeclarationExt)
	}
}
