package host

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/samhoang/lockshard/internal/errors"
	"github.com/samhoang/lockshard/internal/gitx"
)

// StateFile is a file-backed Host reading a YAML state export written
// by the plugin manager. It is how the CLI sees the host's plugin list
// without embedding into the manager's process.
type StateFile struct {
	Path string
	Git  gitx.Git

	lockPath string
	plugins  []Plugin
	loaded   bool
}

// stateDoc is the on-disk shape of the state export
type stateDoc struct {
	Lockfile string   `yaml:"lockfile"`
	Plugins  []Plugin `yaml:"plugins"`
}

// NewStateFile creates a StateFile host adapter
func NewStateFile(path string, git gitx.Git) *StateFile {
	return &StateFile{Path: path, Git: git}
}

func (s *StateFile) load() error {
	if s.loaded {
		return nil
	}

	data, err := os.ReadFile(s.Path)
	if err != nil {
		return errors.NewHostError("read state export", err)
	}

	var doc stateDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return errors.NewHostError("parse state export", err)
	}

	s.lockPath = doc.Lockfile
	s.plugins = doc.Plugins
	s.loaded = true
	return nil
}

// Plugins implements Host
func (s *StateFile) Plugins() ([]Plugin, error) {
	if err := s.load(); err != nil {
		return nil, err
	}
	return s.plugins, nil
}

// GitInfo implements Host
func (s *StateFile) GitInfo(dir string) (GitInfo, bool) {
	return liveGitInfo(s.Git, dir)
}

// LockfilePath implements Host
func (s *StateFile) LockfilePath() string {
	if err := s.load(); err != nil {
		return ""
	}
	return s.lockPath
}
