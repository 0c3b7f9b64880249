package repositories

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	appName          = "pomo"
	settingsFileName = "settings.yaml"
)

// FileStore keeps settings in a flat YAML mapping on disk. Every Set rewrites the file.
type FileStore struct {
	mu     sync.Mutex
	path   string
	values map[string]string
}

// DefaultFilePath returns the settings file location inside the user's config directory.
func DefaultFilePath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config directory: %w", err)
	}
	return filepath.Join(configDir, appName, settingsFileName), nil
}

// NewFileStore loads the settings file at path. A missing file is an empty store.
func NewFileStore(path string) (*FileStore, error) {
	store := &FileStore{path: path, values: make(map[string]string)}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return store, nil
		}
		return nil, fmt.Errorf("read settings file: %w", err)
	}

	if err := yaml.Unmarshal(data, &store.values); err != nil {
		return nil, fmt.Errorf("parse settings yaml: %w", err)
	}
	if store.values == nil {
		store.values = make(map[string]string)
	}
	return store, nil
}

// Path returns the backing file.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.values[key]
	return value, ok, nil
}

// Set stores value and writes the whole document. On a failed write the in-memory value is rolled back.
func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous, existed := s.values[key]
	s.values[key] = value

	if err := s.writeLocked(); err != nil {
		if existed {
			s.values[key] = previous
		} else {
			delete(s.values, key)
		}
		return err
	}
	return nil
}

func (s *FileStore) All() (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.values), nil
}

func (s *FileStore) Close() error {
	return nil
}

// writeLocked replaces the file through a temporary sibling so readers never see a partial document.
func (s *FileStore) writeLocked() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	serialized, err := yaml.Marshal(s.values)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), settingsFileName+".*")
	if err != nil {
		return fmt.Errorf("create temp settings file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(serialized); err != nil {
		tmp.Close()
		return fmt.Errorf("write settings file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace settings file: %w", err)
	}
	return nil
}
