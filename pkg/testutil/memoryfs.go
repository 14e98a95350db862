package testutil

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryFS implements types.FS with in-memory storage. Unlike afero's
// MemMapFs it models symbolic links, so Lstat and Stat differ.
type MemoryFS struct {
	mu    sync.RWMutex
	files map[string]*fileNode

	// Error injection
	errorPaths map[string]error

	// Statistics
	readCount    int
	readDirCalls map[string]int
}

// fileNode represents a file, directory or link in memory
type fileNode struct {
	name     string
	mode     os.FileMode
	modTime  time.Time
	content  []byte
	isDir    bool
	isLink   bool
	linkDest string
	children map[string]*fileNode
}

// NewMemoryFS creates a new in-memory filesystem
func NewMemoryFS() *MemoryFS {
	root := &fileNode{
		name:     "/",
		mode:     0755 | os.ModeDir,
		modTime:  time.Now(),
		isDir:    true,
		children: make(map[string]*fileNode),
	}

	return &MemoryFS{
		files:        map[string]*fileNode{"/": root},
		errorPaths:   make(map[string]error),
		readDirCalls: make(map[string]int),
	}
}

func normalize(path string) string {
	if !filepath.IsAbs(path) {
		path = "/" + path
	}
	return filepath.Clean(path)
}

// lookup returns the node at path without following a final symlink
func (m *MemoryFS) lookup(path string) (*fileNode, error) {
	path = normalize(path)

	if err, ok := m.errorPaths[path]; ok {
		return nil, err
	}

	node, exists := m.files[path]
	if !exists {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	return node, nil
}

// resolve follows symlinks up to a fixed depth
func (m *MemoryFS) resolve(path string) (*fileNode, error) {
	path = normalize(path)
	for hops := 0; hops < 16; hops++ {
		node, err := m.lookup(path)
		if err != nil {
			return nil, err
		}
		if !node.isLink {
			return node, nil
		}
		target := node.linkDest
		if !filepath.IsAbs(target) {
			target = filepath.Join(filepath.Dir(path), target)
		}
		path = normalize(target)
	}
	return nil, &fs.PathError{Op: "open", Path: path, Err: errors.New("too many levels of symbolic links")}
}

// Open opens a file for reading
func (m *MemoryFS) Open(name string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.readCount++

	node, err := m.resolve(name)
	if err != nil {
		return nil, err
	}
	if node.isDir {
		return nil, &fs.PathError{Op: "read", Path: name, Err: errors.New("is a directory")}
	}
	return io.NopCloser(bytes.NewReader(node.content)), nil
}

// ReadFile reads the entire file content
func (m *MemoryFS) ReadFile(name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.readCount++

	node, err := m.resolve(name)
	if err != nil {
		return nil, err
	}
	if node.isDir {
		return nil, &fs.PathError{Op: "read", Path: name, Err: errors.New("is a directory")}
	}

	content := make([]byte, len(node.content))
	copy(content, node.content)
	return content, nil
}

// WriteFile writes data to a file, creating parent directories as needed
func (m *MemoryFS) WriteFile(name string, data []byte, perm os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	path := normalize(name)
	if err, ok := m.errorPaths[path]; ok {
		return err
	}

	parent, err := m.mkdirAll(filepath.Dir(path), 0755)
	if err != nil {
		return err
	}

	filename := filepath.Base(path)
	if existing, ok := parent.children[filename]; ok && existing.isDir {
		return &fs.PathError{Op: "write", Path: name, Err: errors.New("is a directory")}
	}

	node := &fileNode{
		name:    filename,
		mode:    perm,
		modTime: time.Now(),
		content: append([]byte(nil), data...),
	}
	parent.children[filename] = node
	m.files[path] = node
	return nil
}

// Stat returns file info, following symlinks
func (m *MemoryFS) Stat(name string) (os.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	node, err := m.resolve(name)
	if err != nil {
		return nil, err
	}
	return &fileInfo{node: node, name: filepath.Base(name)}, nil
}

// Lstat returns file info without following symlinks
func (m *MemoryFS) Lstat(name string) (os.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	node, err := m.lookup(name)
	if err != nil {
		return nil, err
	}
	return &fileInfo{node: node, name: filepath.Base(name)}, nil
}

// MkdirAll creates a directory and all necessary parents
func (m *MemoryFS) MkdirAll(path string, perm os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, err := m.mkdirAll(path, perm)
	return err
}

func (m *MemoryFS) mkdirAll(path string, perm os.FileMode) (*fileNode, error) {
	path = normalize(path)

	current := "/"
	node := m.files["/"]
	for _, part := range strings.Split(path, "/") {
		if part == "" {
			continue
		}
		next := filepath.Join(current, part)

		if child, exists := node.children[part]; exists {
			if !child.isDir {
				return nil, &fs.PathError{Op: "mkdir", Path: next, Err: errors.New("not a directory")}
			}
			node, current = child, next
			continue
		}

		child := &fileNode{
			name:     part,
			mode:     perm | os.ModeDir,
			modTime:  time.Now(),
			isDir:    true,
			children: make(map[string]*fileNode),
		}
		node.children[part] = child
		m.files[next] = child
		node, current = child, next
	}
	return node, nil
}

// Symlink creates a symbolic link at link pointing to target
func (m *MemoryFS) Symlink(target, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	linkPath := normalize(link)
	if _, exists := m.files[linkPath]; exists {
		return &fs.PathError{Op: "symlink", Path: link, Err: os.ErrExist}
	}

	parent, err := m.mkdirAll(filepath.Dir(linkPath), 0755)
	if err != nil {
		return err
	}

	node := &fileNode{
		name:     filepath.Base(linkPath),
		mode:     0777 | os.ModeSymlink,
		modTime:  time.Now(),
		isLink:   true,
		linkDest: target,
	}
	parent.children[node.name] = node
	m.files[linkPath] = node
	return nil
}

// ReadDir lists a directory sorted by name, following a symlinked directory
func (m *MemoryFS) ReadDir(name string) ([]fs.DirEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.readDirCalls[normalize(name)]++

	node, err := m.resolve(name)
	if err != nil {
		return nil, err
	}
	if !node.isDir {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: errors.New("not a directory")}
	}

	entries := make([]fs.DirEntry, 0, len(node.children))
	for childName, child := range node.children {
		entries = append(entries, &dirEntry{info: &fileInfo{node: child, name: childName}})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	return entries, nil
}

// SetModTime sets the modification time of an existing node
func (m *MemoryFS) SetModTime(name string, t time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	node, err := m.lookup(name)
	if err != nil {
		return err
	}
	node.modTime = t
	return nil
}

// WithError configures the filesystem to return err for a specific path
func (m *MemoryFS) WithError(path string, err error) *MemoryFS {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.errorPaths[normalize(path)] = err
	return m
}

// ReadDirCount reports how many times a directory was listed
func (m *MemoryFS) ReadDirCount(path string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.readDirCalls[normalize(path)]
}

// Reads returns the number of file reads
func (m *MemoryFS) Reads() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.readCount
}

// fileInfo implements os.FileInfo
type fileInfo struct {
	node *fileNode
	name string
}

func (fi *fileInfo) Name() string       { return fi.name }
func (fi *fileInfo) Size() int64        { return int64(len(fi.node.content)) }
func (fi *fileInfo) Mode() os.FileMode  { return fi.node.mode }
func (fi *fileInfo) ModTime() time.Time { return fi.node.modTime }
func (fi *fileInfo) IsDir() bool        { return fi.node.isDir }
func (fi *fileInfo) Sys() interface{}   { return nil }

// dirEntry implements fs.DirEntry
type dirEntry struct {
	info *fileInfo
}

func (de *dirEntry) Name() string               { return de.info.Name() }
func (de *dirEntry) IsDir() bool                { return de.info.IsDir() }
func (de *dirEntry) Type() os.FileMode          { return de.info.Mode().Type() }
func (de *dirEntry) Info() (os.FileInfo, error) { return de.info, nil }
