// Package config provides lockshard configuration loading and repository
// resolution. Configuration lives in lockshard.toml under the data
// directory, mirroring the ordered repository list the host plugin
// manager is pointed at.
package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Default file and directory names used when the config omits them.
const (
	DefaultLockName       = "plugin-lock.json"
	DefaultDeclarationDir = "plugins"
	DefaultDeclarationExt = ".lua"
)

// Config represents the lockshard.toml configuration file
type Config struct {
	// Ordered repository roots; the first repository in which a plugin
	// is found wins ties.
	Repos []string `toml:"repos"`

	// Name of the per-repository lock file written into each repo root
	LockName string `toml:"lock_name,omitempty"`

	// Sub-directory of a repository that holds declaration files
	DeclarationDir string `toml:"declaration_dir,omitempty"`

	// Extension of candidate declaration files
	DeclarationExt string `toml:"declaration_ext,omitempty"`

	// Path to the host plugin manager's single lockfile
	HostLock string `toml:"host_lock"`

	// Path to the host plugin manager's state export (YAML)
	HostState string `toml:"host_state"`

	// Name of the host's bootstrap plugin. It never appears in any
	// declaration file and always resolves to the first repository.
	Bootstrap string `toml:"bootstrap,omitempty"`

	// Log level for hclog (trace, debug, info, warn, error)
	LogLevel string `toml:"log_level,omitempty"`
}

// Default returns a config with default values filled in
func Default() *Config {
	return &Config{
		LockName:       DefaultLockName,
		DeclarationDir: DefaultDeclarationDir,
		DeclarationExt: DefaultDeclarationExt,
	}
}

// Load reads lockshard.toml from the given path. A missing file yields
// the default config rather than an error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	return cfg, nil
}

// Save writes the config to the given path
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// HostLockPath returns the host lockfile path with ~ expanded
func (c *Config) HostLockPath() string {
	return expandHome(c.HostLock)
}

// HostStatePath returns the host state export path with ~ expanded
func (c *Config) HostStatePath() string {
	return expandHome(c.HostState)
}

func (c *Config) applyDefaults() {
	if c.LockName == "" {
		c.LockName = DefaultLockName
	}
	if c.DeclarationDir == "" {
		c.DeclarationDir = DefaultDeclarationDir
	}
	if c.DeclarationExt == "" {
		c.DeclarationExt = DefaultDeclarationExt
	}
}
