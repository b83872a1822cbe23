// Package testutil provides test helpers shared across opfill
// packages, most importantly an in-memory types.FS implementation.
package testutil

import (
	"io/fs"
	"path/filepath"
	"sync"
	"time"

	"github.com/arthur-debert/opfill/pkg/types"
)

// MemoryFS implements types.FS with in-memory storage.
type MemoryFS struct {
	mu    sync.RWMutex
	files map[string]*fileNode

	// Error injection: operations on these paths fail with the
	// mapped error.
	errorPaths map[string]error

	writeCount int
}

type fileNode struct {
	mode    fs.FileMode
	modTime time.Time
	content []byte
	isDir   bool
}

// NewMemoryFS creates an empty in-memory filesystem with a root
// directory.
func NewMemoryFS() *MemoryFS {
	return &MemoryFS{
		files: map[string]*fileNode{
			"/": {mode: 0755 | fs.ModeDir, modTime: time.Now(), isDir: true},
		},
		errorPaths: make(map[string]error),
	}
}

// InjectError makes every operation on path fail with err.
func (m *MemoryFS) InjectError(path string, err error) {
	m.mu.Lock()
	m.errorPaths[filepath.Clean(path)] = err
	m.mu.Unlock()
}

// WriteCount reports how many WriteFile calls succeeded. Used to
// assert that dry-run never writes.
func (m *MemoryFS) WriteCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writeCount
}

func (m *MemoryFS) check(path string) error {
	if err, ok := m.errorPaths[filepath.Clean(path)]; ok {
		return err
	}
	return nil
}

// Stat implements types.FS.
func (m *MemoryFS) Stat(name string) (fs.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.check(name); err != nil {
		return nil, err
	}
	node, ok := m.files[filepath.Clean(name)]
	if !ok {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrNotExist}
	}
	return &fileInfo{name: filepath.Base(name), node: node}, nil
}

// ReadFile implements types.FS.
func (m *MemoryFS) ReadFile(name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.check(name); err != nil {
		return nil, err
	}
	node, ok := m.files[filepath.Clean(name)]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	if node.isDir {
		return nil, &fs.PathError{Op: "read", Path: name, Err: fs.ErrInvalid}
	}
	out := make([]byte, len(node.content))
	copy(out, node.content)
	return out, nil
}

// WriteFile implements types.FS. The parent directory must exist,
// matching os.WriteFile semantics.
func (m *MemoryFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	name = filepath.Clean(name)
	if err := m.check(name); err != nil {
		return err
	}
	dir := filepath.Dir(name)
	parent, ok := m.files[dir]
	if !ok || !parent.isDir {
		return &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}

	content := make([]byte, len(data))
	copy(content, data)
	m.files[name] = &fileNode{mode: perm, modTime: time.Now(), content: content}
	m.writeCount++
	return nil
}

// MkdirAll implements types.FS.
func (m *MemoryFS) MkdirAll(path string, perm fs.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	path = filepath.Clean(path)
	if err := m.check(path); err != nil {
		return err
	}

	current := "/"
	for _, part := range splitPath(path) {
		current = filepath.Join(current, part)
		node, ok := m.files[current]
		if ok {
			if !node.isDir {
				return &fs.PathError{Op: "mkdir", Path: current, Err: fs.ErrExist}
			}
			continue
		}
		m.files[current] = &fileNode{mode: perm | fs.ModeDir, modTime: time.Now(), isDir: true}
	}
	return nil
}

func splitPath(path string) []string {
	var parts []string
	clean := filepath.Clean(path)
	for clean != "/" && clean != "." {
		parts = append([]string{filepath.Base(clean)}, parts...)
		clean = filepath.Dir(clean)
	}
	return parts
}

type fileInfo struct {
	name string
	node *fileNode
}

func (fi *fileInfo) Name() string       { return fi.name }
func (fi *fileInfo) Size() int64        { return int64(len(fi.node.content)) }
func (fi *fileInfo) Mode() fs.FileMode  { return fi.node.mode }
func (fi *fileInfo) ModTime() time.Time { return fi.node.modTime }
func (fi *fileInfo) IsDir() bool        { return fi.node.isDir }
func (fi *fileInfo) Sys() interface{}   { return nil }

var _ types.FS = (*MemoryFS)(nil)
