// Package gitx wraps the git invocations lockshard needs. Everything
// goes through the Git interface so callers can be tested without a
// working tree.
package gitx

import (
	"os/exec"
	"strings"
)

// Git exposes the version-control queries used by the engine
type Git interface {
	// Head returns the commit SHA of HEAD for the repo at dir
	Head(dir string) (string, error)

	// Branch returns the current branch name for the repo at dir
	Branch(dir string) (string, error)

	// Show returns the content of path as of rev in the repo at dir,
	// read from history rather than the working tree
	Show(dir, rev, path string) ([]byte, error)
}

// CLI runs git as a subprocess
type CLI struct{}

func (CLI) Head(dir string) (string, error) {
	return output(dir, "rev-parse", "HEAD")
}

func (CLI) Branch(dir string) (string, error) {
	return output(dir, "rev-parse", "--abbrev-ref", "HEAD")
}

func (CLI) Show(dir, rev, path string) ([]byte, error) {
	cmd := exec.Command("git", "-C", dir, "show", rev+":"+path)
	return cmd.Output()
}

func output(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
