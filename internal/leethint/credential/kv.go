package credential

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
)

// MemoryKV keeps values for the lifetime of the process.
type MemoryKV struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryKV creates an empty MemoryKV.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{values: make(map[string]string)}
}

func (m *MemoryKV) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryKV) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryKV) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// FileKV stores values as a flat TOML table in a single file.
// The file is readable by its owner only and is replaced atomically on write.
type FileKV struct {
	path string
	mu   sync.Mutex
}

// NewFileKV creates a FileKV backed by path. The file is created on first write.
func NewFileKV(path string) *FileKV {
	return &FileKV{path: path}
}

// Path returns the backing file location.
func (f *FileKV) Path() string {
	return f.path
}

func (f *FileKV) Get(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.read()
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

func (f *FileKV) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.read()
	if err != nil {
		return err
	}
	values[key] = value
	return f.write(values)
}

func (f *FileKV) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.read()
	if err != nil {
		return err
	}
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	return f.write(values)
}

func (f *FileKV) read() (map[string]string, error) {
	values := make(map[string]string)
	if _, err := toml.DecodeFile(f.path, &values); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return values, nil
		}
		return nil, fmt.Errorf("failed to read credential file %s: %w", f.path, err)
	}
	return values, nil
}

func (f *FileKV) write(values map[string]string) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create credential directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".credentials-*.toml")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set credential file mode: %w", err)
	}
	if err := toml.NewEncoder(tmp).Encode(values); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode credentials: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write credentials: %w", err)
	}

	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("failed to replace credential file: %w", err)
	}
	return nil
}
