package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

var (
	// ErrNotFound indicates the requested file does not exist.
	ErrNotFound = errors.New("file not found")
	// ErrIsDirectory indicates a directory was found where a file was expected.
	ErrIsDirectory = errors.New("path is a directory")
)

// Storage provides read-only access to the files consulted during resolution.
type Storage interface {
	Exists(path string) (bool, error)
	ReadFile(path string) ([]byte, error)
}

// OSStorage reads from the local filesystem.
type OSStorage struct{}

// NewOSStorage returns storage backed by the local filesystem.
func NewOSStorage() OSStorage {
	return OSStorage{}
}

// Exists reports whether anything exists at path. A directory counts, so a
// misplaced directory surfaces as a read error instead of being skipped.
func (OSStorage) Exists(path string) (bool, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
	return true, nil
}

// ReadFile returns the contents of the file at path.
func (OSStorage) ReadFile(path string) ([]byte, error) {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return nil, fmt.Errorf("%s: %w", path, ErrIsDirectory)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// MemoryStorage keeps files in-memory and guards access with a RWMutex.
type MemoryStorage struct {
	mu    sync.RWMutex
	files map[string][]byte
}

// NewMemoryStorage initialises an empty in-memory filesystem.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		files: make(map[string][]byte),
	}
}

// Exists reports whether a file was stored under path.
func (s *MemoryStorage) Exists(path string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.files[filepath.Clean(path)]
	return ok, nil
}

// ReadFile returns a defensive copy of the stored contents.
func (s *MemoryStorage) ReadFile(path string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.files[filepath.Clean(path)]
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	return cloneBytes(data), nil
}

// WriteFile stores a copy of data under path, replacing any previous contents.
func (s *MemoryStorage) WriteFile(path string, data []byte) {
	s.mu.Lock()
	s.files[filepath.Clean(path)] = cloneBytes(data)
	s.mu.Unlock()
}

// Remove deletes path if present.
func (s *MemoryStorage) Remove(path string) {
	s.mu.Lock()
	delete(s.files, filepath.Clean(path))
	s.mu.Unlock()
}

func cloneBytes(src []byte) []byte {
	if len(src) == 0 {
		return []byte{}
	}

	out := make([]byte, len(src))
	copy(out, src)
	return out
}
