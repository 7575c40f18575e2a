// Package scan discovers candidate spreadsheet files under a directory tree.
package scan

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// lockPrefix marks a workbook that a spreadsheet application currently
// holds open. Such files are transient and must never be read.
const lockPrefix = "~$"

// extensions lists the recognized spreadsheet container suffixes.
var extensions = map[string]bool{
	".xlsx": true,
	".xls":  true,
	".xlsm": true,
}

// IsSpreadsheet reports whether the given file name (not path) looks like
// a readable spreadsheet: recognized extension, case-insensitive, and not
// a lock file.
func IsSpreadsheet(name string) bool {
	if strings.HasPrefix(name, lockPrefix) {
		return false
	}
	return extensions[strings.ToLower(filepath.Ext(name))]
}

// Discover walks root recursively and returns the absolute paths of all
// spreadsheet files found, in traversal order. No file is opened or
// validated here; only names are inspected. An empty result is not an
// error; the caller decides whether that is fatal. Unreadable
// subdirectories are skipped so a single bad directory never aborts the
// walk.
func Discover(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil // skip unreadable entries, keep walking
		}
		if d.IsDir() {
			return nil
		}
		if IsSpreadsheet(d.Name()) {
			abs, absErr := filepath.Abs(path)
			if absErr != nil {
				abs = path
			}
			files = append(files, abs)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
