package storage

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// Backend reads and writes whole files by name.
type Backend interface {
	// Read returns the file contents. A missing file yields an error matching fs.ErrNotExist.
	Read(ctx context.Context, name string) ([]byte, error)
	// Write replaces the file contents.
	Write(ctx context.Context, name string, data []byte) error
}

// Dir stores files under Root. Relative names are joined to Root; absolute
// names are used as is.
type Dir struct {
	Root string
}

var _ Backend = Dir{}

func (d Dir) path(name string) string {
	if filepath.IsAbs(name) || d.Root == "" {
		return name
	}
	return filepath.Join(d.Root, name)
}

func (d Dir) Read(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadFile(d.path(name))
}

// Write writes to a temporary file in the target directory and renames it
// over the target, so readers see either the old or the new contents.
func (d Dir) Write(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	target := d.path(name)
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(target)+".tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()
	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	err = os.Rename(tmp.Name(), target)
	return err
}

// Memory is a Backend held in a map, safe for concurrent use.
type Memory struct {
	mu    sync.RWMutex
	files map[string][]byte
}

var _ Backend = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{files: make(map[string][]byte)}
}

func (m *Memory) Read(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.files[name]
	if !ok {
		return nil, &fs.PathError{Op: "read", Path: name, Err: fs.ErrNotExist}
	}
	return append([]byte(nil), data...), nil
}

func (m *Memory) Write(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[name] = append([]byte(nil), data...)
	return nil
}

// Put seeds a file.
func (m *Memory) Put(name string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[name] = append([]byte(nil), data...)
}

// Get returns a file and whether it exists.
func (m *Memory) Get(name string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.files[name]
	return data, ok
}
