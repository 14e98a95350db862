package types

import (
	"io"
	"io/fs"
)

// FS is the filesystem interface required for ctxdump operations
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	Open(name string) (io.ReadCloser, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error

	// Directory operations
	ReadDir(name string) ([]fs.DirEntry, error)
	MkdirAll(path string, perm fs.FileMode) error

	// Lstat must not follow symlinks; implementations without symlink
	// support may fall back to Stat.
	Lstat(name string) (fs.FileInfo, error)
}

// Pather provides paths for ctxdump operations
type Pather interface {
	// Root returns the processing root directory
	Root() string

	// ConfigDir returns the XDG config directory for ctxdump
	ConfigDir() string

	// StateDir returns the XDG state directory for ctxdump
	StateDir() string
}
