// Package paths provides path resolution utilities.
package paths

import (
	"os"
	"path/filepath"
	"strings"
)

// DefaultCatalogName is the database file name used when the configured
// catalog path is empty or names a directory.
const DefaultCatalogName = "hosts.db"

// ResolveCatalog resolves the catalog database path from user input.
//
// Input normalization:
//   - "" -> "./hosts.db"
//   - "~/hosts/lab.db" -> "$HOME/hosts/lab.db"
//   - "$DATA/lab.db" -> environment variables expanded
//   - "/path/to/dir" (existing directory) -> "/path/to/dir/hosts.db"
//
// The file itself need not exist; the catalog creates it.
func ResolveCatalog(path string) string {
	if path == "" {
		return DefaultCatalogName
	}
	path = expandHome(os.ExpandEnv(path))
	path = filepath.Clean(path)

	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return filepath.Join(path, DefaultCatalogName)
	}
	return path
}

// expandHome replaces a leading "~" with the user's home directory.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
