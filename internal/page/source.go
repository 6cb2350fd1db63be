package page

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileCodeSource reads the user's code from a file on every call, so edits
// made between questions are picked up. Files with an .html or .htm extension
// are treated as saved editor markup.
type FileCodeSource struct {
	Path string
}

// CurrentCode returns the file's current contents.
func (f FileCodeSource) CurrentCode(_ context.Context) (string, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return "", fmt.Errorf("failed to read code file: %w", err)
	}
	switch strings.ToLower(filepath.Ext(f.Path)) {
	case ".html", ".htm":
		return ExtractPageCode(string(data)), nil
	}
	return string(data), nil
}

// LatestCode holds the most recent code snapshot pushed by a client.
type LatestCode struct {
	mu   sync.RWMutex
	code string
}

// Set replaces the snapshot. Editor markup is converted with ExtractCode;
// plain code is stored as given.
func (l *LatestCode) Set(code string) {
	code = ExtractCode(code)
	l.mu.Lock()
	l.code = code
	l.mu.Unlock()
}

// CurrentCode returns the last snapshot set.
func (l *LatestCode) CurrentCode(_ context.Context) (string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.code, nil
}

// LoadProblem reads a problem statement from path, which may hold plain text
// or a saved problem page.
func LoadProblem(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read problem file: %w", err)
	}
	return ProblemStatement(string(data)), nil
}
