// Copyright (c) 2024, amarnathcjd

package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"errors"
	"io/fs"
)

type fileLoader struct {
	path       string
	lastEdited time.Time
	cached     *Session
}

var _ Loader = (*fileLoader)(nil)

func NewFromFile(path string) Loader {
	return &fileLoader{path: path}
}

func (l *fileLoader) Path() string {
	return l.path
}

func (l *fileLoader) Load() (*Session, error) {
	info, err := os.Stat(l.path)
	switch {
	case err == nil:
	case errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("file not found: %w", err)
	default:
		return nil, err
	}

	if info.ModTime().Equal(l.lastEdited) && l.cached != nil {
		return l.cached, nil
	}

	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	s := new(Session)
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parsing file: %w", err)
	}

	l.cached = s
	l.lastEdited = info.ModTime()

	return s, nil
}

func (l *fileLoader) Store(s *Session) error {
	dir, _ := filepath.Split(l.path)
	if dir != "" {
		if stat, err := os.Stat(dir); err != nil {
			return fmt.Errorf("%v: directory not found", dir)
		} else if !stat.IsDir() {
			return fmt.Errorf("%v: not a directory", dir)
		}
	}

	data, _ := json.Marshal(s)
	if err := os.WriteFile(l.path, data, 0600); err != nil {
		return err
	}

	l.cached = s
	if info, err := os.Stat(l.path); err == nil {
		l.lastEdited = info.ModTime()
	}
	return nil
}

func (l *fileLoader) Delete() error {
	l.cached = nil
	return os.Remove(l.path)
}

// NewInMemory returns a loader that never touches disk. Useful for tests
// and for callers that accept losing the offset on restart.
func NewInMemory() Loader {
	return &inMemoryLoader{}
}

type inMemoryLoader struct {
	s *Session
}

var _ Loader = (*inMemoryLoader)(nil)

func (l *inMemoryLoader) Path() string {
	return ":memory:"
}

func (l *inMemoryLoader) Load() (*Session, error) {
	return l.s, nil
}

func (l *inMemoryLoader) Store(s *Session) error {
	l.s = s
	return nil
}

func (l *inMemoryLoader) Delete() error {
	l.s = nil
	return nil
}
