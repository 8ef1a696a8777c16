package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	ErrNotConfigured  = errors.New("lockshard not configured: run 'lockshard config init' first")
	ErrNoRepositories = errors.New("no repositories configured")
)

// RepoError wraps errors with repository context
type RepoError struct {
	Repo string
	Op   string
	Err  error
}

func (e *RepoError) Error() string {
	return fmt.Sprintf("repo %s: %s: %v", e.Repo, e.Op, e.Err)
}

func (e *RepoError) Unwrap() error {
	return e.Err
}

// NewRepoError creates a new repository error
func NewRepoError(repo, op string, err error) *RepoError {
	return &RepoError{Repo: repo, Op: op, Err: err}
}

// HostError wraps errors from the host plugin manager integration
type HostError struct {
	Op  string
	Err error
}

func (e *HostError) Error() string {
	return fmt.Sprintf("host: %s: %v", e.Op, e.Err)
}

func (e *HostError) Unwrap() error {
	return e.Err
}

// NewHostError creates a new host integration error
func NewHostError(op string, err error) *HostError {
	return &HostError{Op: op, Err: err}
}
