package config

import (
	"os"
	"path/filepath"
	"strings"
)

// expandHome expands a leading ~/ in a configured path
func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		if path == "~" {
			return home
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
