package config

import (
	"os"
	"path/filepath"
)

// Paths holds all resolved paths for lockshard operations
type Paths struct {
	DataDir    string // ~/.lockshard (lockshard data directory)
	ConfigPath string // ~/.lockshard/lockshard.toml
	CachePath  string // ~/.lockshard/index-cache.toml
}

// ResolvePaths resolves all paths based on environment and defaults
func ResolvePaths() (*Paths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	// Data directory (can be overridden)
	dataDir := os.Getenv("LOCKSHARD_DIR")
	if dataDir == "" {
		dataDir = filepath.Join(home, ".lockshard")
	}

	return &Paths{
		DataDir:    dataDir,
		ConfigPath: filepath.Join(dataDir, "lockshard.toml"),
		CachePath:  filepath.Join(dataDir, "index-cache.toml"),
	}, nil
}

// IsConfigured checks if a config file exists
func (p *Paths) IsConfigured() bool {
	info, err := os.Stat(p.ConfigPath)
	return err == nil && !info.IsDir()
}
