// Package lockfile reads and writes per-repository plugin lock files.
// The format matches the host plugin manager's own lockfile: a JSON
// object keyed by plugin name, one entry per line, keys sorted so
// diffs stay deterministic.
package lockfile

import (
	"bytes"
	"encoding/json"
	"os"
	"sort"
)

// Entry is the persisted version record for one plugin. Source names
// the parent plugin for recipe children and is omitted for top-level
// plugins.
type Entry struct {
	Branch string `json:"branch"`
	Commit string `json:"commit"`
	Source string `json:"source,omitempty"`
}

// File is a per-repository lock file: plugin name to lock entry
type File map[string]Entry

// Parse decodes lock file content. Malformed content degrades to an
// empty mapping rather than an error.
func Parse(data []byte) File {
	var f File
	if err := json.Unmarshal(data, &f); err != nil || f == nil {
		return File{}
	}
	return f
}

// Read loads a lock file from disk. An unreadable or malformed file is
// treated as an empty mapping.
func Read(path string) File {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}
	}
	return Parse(data)
}

// Marshal encodes the file with keys sorted ascending, one entry per
// line. The empty mapping encodes as "{\n}\n".
func Marshal(f File) []byte {
	names := make([]string, 0, len(f))
	for name := range f {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	buf.WriteString("{\n")
	for i, name := range names {
		key, _ := json.Marshal(name)
		val, _ := json.Marshal(f[name])
		buf.WriteString("  ")
		buf.Write(key)
		buf.WriteString(": ")
		buf.Write(val)
		if i < len(names)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteString("}\n")

	return buf.Bytes()
}

// Write persists the file to path, fully replacing previous content
func Write(path string, f File) error {
	return os.WriteFile(path, Marshal(f), 0644)
}

// Clone returns a copy of the file
func (f File) Clone() File {
	out := make(File, len(f))
	for name, e := range f {
		out[name] = e
	}
	return out
}
