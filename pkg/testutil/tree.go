package testutil

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// Tree describes a fixture: keys are slash paths relative to the tree root.
// A key ending in "/" creates an empty directory, a value starting with
// "->" creates a symlink to the rest of the value, anything else is file
// content.
type Tree map[string]string

// Build writes the tree under root and returns the filesystem
func (tree Tree) Build(t *testing.T, root string) *MemoryFS {
	t.Helper()
	fs := NewMemoryFS()
	tree.BuildInto(t, fs, root)
	return fs
}

// BuildInto writes the tree under root in an existing filesystem
func (tree Tree) BuildInto(t *testing.T, fs *MemoryFS, root string) {
	t.Helper()
	require.NoError(t, fs.MkdirAll(root, 0755))

	for rel, content := range tree {
		full := filepath.Join(root, filepath.FromSlash(strings.TrimSuffix(rel, "/")))
		switch {
		case strings.HasSuffix(rel, "/"):
			require.NoError(t, fs.MkdirAll(full, 0755))
		case strings.HasPrefix(content, "->"):
			require.NoError(t, fs.Symlink(strings.TrimSpace(content[2:]), full))
		default:
			require.NoError(t, fs.WriteFile(full, []byte(content), 0644))
		}
	}
}
