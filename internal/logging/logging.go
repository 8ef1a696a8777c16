// Package logging provides the shared hclog setup for lockshard.
package logging

import (
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
)

var root hclog.Logger

// Setup initializes the root logger. level accepts hclog level names
// ("trace", "debug", "info", "warn", "error", "off"); an empty or
// unknown value falls back to "warn" so normal CLI output stays clean.
func Setup(level string) {
	parsed := hclog.LevelFromString(level)
	if parsed == hclog.NoLevel {
		parsed = hclog.Warn
	}

	root = hclog.New(&hclog.LoggerOptions{
		Name:   "lockshard",
		Output: os.Stderr,
		Level:  parsed,
	})
}

// Discard returns a logger that drops everything. Used by tests and by
// library consumers that bring their own logger.
func Discard() hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:   "lockshard",
		Output: io.Discard,
		Level:  hclog.Off,
	})
}

// Named returns a child of the root logger for a component.
func Named(name string) hclog.Logger {
	if root == nil {
		Setup("")
	}
	return root.Named(name)
}
