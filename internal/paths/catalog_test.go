package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveCatalog(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("HOSTPAD_TEST_DATA", "/srv/data")

	dir := t.TempDir()
	file := filepath.Join(dir, "lab.db")
	require.NoError(t, os.WriteFile(file, nil, 0o600))

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty uses default name", "", "hosts.db"},
		{"plain file", "lab.db", "lab.db"},
		{"unclean path", "a/../b/lab.db", "b/lab.db"},
		{"home prefix", "~/hosts/lab.db", filepath.Join(home, "hosts", "lab.db")},
		{"bare home is a directory", "~", filepath.Join(home, "hosts.db")},
		{"tilde inside name untouched", "a~/lab.db", "a~/lab.db"},
		{"environment variable", "$HOSTPAD_TEST_DATA/lab.db", "/srv/data/lab.db"},
		{"existing directory", dir, filepath.Join(dir, "hosts.db")},
		{"existing file", file, file},
		{"missing file", filepath.Join(dir, "new.db"), filepath.Join(dir, "new.db")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ResolveCatalog(tt.input))
		})
	}
}
