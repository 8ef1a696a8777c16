// Package scan discovers declaration files inside configured
// repositories and extracts plugin name mentions from their text.
// Extraction is best-effort pattern matching over the file content,
// not a full parse of the declaration language.
package scan

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Scanner enumerates candidate declaration files for a repository
type Scanner struct {
	// DeclarationDir is the sub-directory of a repository root that
	// holds declaration files, searched at arbitrary depth.
	DeclarationDir string

	// Ext is the extension of candidate files (e.g. ".lua")
	Ext string
}

// NewScanner creates a Scanner for the given declaration sub-directory
// and file extension
func NewScanner(declarationDir, ext string) *Scanner {
	return &Scanner{DeclarationDir: declarationDir, Ext: ext}
}

// Scan returns the candidate declaration files under root, in
// enumeration order. Any candidate that falls under one of the exclude
// roots is skipped; this keeps a repository from absorbing declarations
// that physically belong to a different repository nested inside it.
// A missing declaration directory yields no candidates, not an error.
func (s *Scanner) Scan(root string, exclude []string) []string {
	declDir := filepath.Join(root, s.DeclarationDir)

	var files []string
	walkErr := filepath.WalkDir(declDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if underAny(path, exclude, root) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), s.Ext) {
			return nil
		}
		if underAny(path, exclude, root) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if walkErr != nil {
		return nil
	}

	return files
}

// ScanDir scans a plugin's own directory for a bundled declaration
// file set, using the same sub-directory convention as repositories.
// Used for recipe discovery.
func (s *Scanner) ScanDir(dir string) []string {
	return s.Scan(dir, nil)
}

// ExtractFile reads a file and extracts plugin names from it. A read
// failure is treated as "no names found".
func (s *Scanner) ExtractFile(path string) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	return Extract(data)
}

// underAny reports whether path is contained in any of the given
// roots, excepting self
func underAny(path string, roots []string, self string) bool {
	for _, r := range roots {
		if r == self {
			continue
		}
		if path == r || strings.HasPrefix(path, r+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
