package testutil

import (
	"github.com/arthur-debert/ctxdump/pkg/filesystem"
	"github.com/arthur-debert/ctxdump/pkg/types"
	"github.com/spf13/afero"
)

// NewTestFS creates a new afero-backed in-memory filesystem for testing.
func NewTestFS() types.FS {
	return filesystem.NewAferoFS(afero.NewMemMapFs())
}

var _ types.FS = (*MemoryFS)(nil)
