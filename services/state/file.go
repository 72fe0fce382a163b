package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"
)

// FileStore keeps every namespace in one JSON document, rewritten
// atomically on each change.
type FileStore struct {
	mu     sync.RWMutex
	fs     afero.Fs
	path   string
	data   map[string]map[string]string
	closed bool
}

// NewFileStore loads (or creates) client_state.json inside dir.
func NewFileStore(fs afero.Fs, dir string) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("state directory not provided")
	}
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	s := &FileStore{
		fs:   fs,
		path: filepath.Join(dir, "client_state.json"),
		data: make(map[string]map[string]string),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FileStore) load() error {
	file, err := s.fs.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("open client state: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("read client state: %w", err)
	}
	if len(raw) == 0 {
		return nil
	}
	loaded := make(map[string]map[string]string)
	if err := json.Unmarshal(raw, &loaded); err != nil {
		return fmt.Errorf("decode client state: %w", err)
	}
	s.data = loaded
	return nil
}

func (s *FileStore) Get(_ context.Context, namespace, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return "", false, ErrStoreClosed
	}
	value, ok := s.data[namespace][key]
	return value, ok, nil
}

func (s *FileStore) Set(_ context.Context, namespace, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}
	area, ok := s.data[namespace]
	if !ok {
		area = make(map[string]string)
		s.data[namespace] = area
	}
	if prev, exists := area[key]; exists && prev == value {
		return nil
	}
	area[key] = value
	return s.saveLocked()
}

func (s *FileStore) Delete(_ context.Context, namespace, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}
	area, ok := s.data[namespace]
	if !ok {
		return nil
	}
	if _, exists := area[key]; !exists {
		return nil
	}
	delete(area, key)
	if len(area) == 0 {
		delete(s.data, namespace)
	}
	return s.saveLocked()
}

func (s *FileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *FileStore) saveLocked() error {
	tmp := s.path + ".tmp"
	file, err := s.fs.Create(tmp)
	if err != nil {
		return fmt.Errorf("create temp client state: %w", err)
	}
	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s.data); err != nil {
		file.Close()
		_ = s.fs.Remove(tmp)
		return fmt.Errorf("encode client state: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		_ = s.fs.Remove(tmp)
		return fmt.Errorf("sync client state: %w", err)
	}
	if err := file.Close(); err != nil {
		_ = s.fs.Remove(tmp)
		return fmt.Errorf("close client state: %w", err)
	}
	if err := s.fs.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("rename client state: %w", err)
	}
	return nil
}
