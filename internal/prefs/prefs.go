// Package prefs persists small key/value settings across runs.
//
// Two scopes exist. The long-lived scope lives in ~/.config/pokedex/prefs.toml
// and holds settings such as the theme mode. The session scope lives under
// $XDG_RUNTIME_DIR (or the system temp dir) and holds the last query and
// scroll offset, so a restart resumes where the previous run stopped.
package prefs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	toml "github.com/pelletier/go-toml/v2"
)

// Keys shared by the application.
const (
	KeyThemeMode      = "pokedex-theme-mode"
	KeyScrollPosition = "pokedex-scroll-position"
	KeyQuery          = "pokedex-query"
)

const (
	defaultPrefsPath = "~/.config/pokedex/prefs.toml"
	sessionFile      = "session.toml"
)

// Store is a string key/value persistence capability.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
}

// DefaultPath returns the default long-lived preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// SessionPath returns the session scope file. An explicit dir wins; otherwise
// $XDG_RUNTIME_DIR/pokedex is used, falling back to the system temp dir.
func SessionPath(dir string) string {
	if strings.TrimSpace(dir) != "" {
		return filepath.Join(dir, sessionFile)
	}
	base := os.Getenv("XDG_RUNTIME_DIR")
	if strings.TrimSpace(base) == "" {
		base = os.TempDir()
	}
	return filepath.Join(base, "pokedex", sessionFile)
}

// File is a Store backed by a flat TOML table. Reads are served from memory;
// every write rewrites the file. Unreadable or malformed files are treated as
// empty so a damaged file never blocks startup.
type File struct {
	mu     sync.Mutex
	path   string
	values map[string]string
}

// Open loads the file at path (default path when empty).
func Open(path string) (*File, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}
	f := &File{path: resolved, values: map[string]string{}}

	data, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return f, nil
		}
		return f, nil // Graceful degradation
	}
	var loaded map[string]string
	if err := toml.Unmarshal(data, &loaded); err != nil {
		return f, nil // Graceful degradation
	}
	for k, v := range loaded {
		f.values[k] = v
	}
	return f, nil
}

// Path returns the resolved file path.
func (f *File) Path() string {
	return f.path
}

func (f *File) Get(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.values[key]
	return v, ok
}

func (f *File) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if cur, ok := f.values[key]; ok && cur == value {
		return nil
	}
	f.values[key] = value
	return f.flushLocked()
}

func (f *File) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.values[key]; !ok {
		return nil
	}
	delete(f.values, key)
	return f.flushLocked()
}

func (f *File) flushLocked() error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}
	data, err := toml.Marshal(f.values)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replace prefs: %w", err)
	}
	return nil
}

// Memory is an in-process Store.
type Memory struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemory returns a Memory seeded with initial.
func NewMemory(initial map[string]string) *Memory {
	m := &Memory{values: make(map[string]string, len(initial))}
	for k, v := range initial {
		m.values[k] = v
	}
	return m
}

func (m *Memory) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok
}

func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.values == nil {
		m.values = map[string]string{}
	}
	m.values[key] = value
	return nil
}

func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

var (
	_ Store = (*File)(nil)
	_ Store = (*Memory)(nil)
)

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultPrefsPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
