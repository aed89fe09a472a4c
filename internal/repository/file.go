package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

type fileSlot struct {
	Value     string     `yaml:"value"`
	ExpiresAt *time.Time `yaml:"expires_at,omitempty"`
}

type fileDocument struct {
	Version int                            `yaml:"version"`
	Clients map[string]map[string]fileSlot `yaml:"clients"`
}

// FileStore keeps slots in a single YAML document on disk. Every write
// rewrites the file through a temp file and rename.
type FileStore struct {
	path string
	mu   sync.Mutex
	now  func() time.Time
}

// NewFileStore creates the parent directory of path if needed.
func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("repository: ensure store dir: %w", err)
	}
	return &FileStore{path: path, now: time.Now}, nil
}

// Path returns the file backing this store.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Get(_ context.Context, clientID, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return "", err
	}

	slot, ok := doc.Clients[clientID][key]
	if !ok {
		return "", ErrSlotNotFound
	}
	if slot.ExpiresAt != nil && !s.now().Before(*slot.ExpiresAt) {
		return "", ErrSlotNotFound
	}
	return slot.Value, nil
}

func (s *FileStore) Set(_ context.Context, clientID, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}

	slot := fileSlot{Value: value}
	if exp := expiryFrom(s.now().UTC(), ttl); !exp.IsZero() {
		slot.ExpiresAt = &exp
	}
	if doc.Clients[clientID] == nil {
		doc.Clients[clientID] = make(map[string]fileSlot)
	}
	doc.Clients[clientID][key] = slot

	return s.save(doc)
}

func (s *FileStore) Delete(_ context.Context, clientID, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := doc.Clients[clientID][key]; !ok {
		return nil
	}
	delete(doc.Clients[clientID], key)
	if len(doc.Clients[clientID]) == 0 {
		delete(doc.Clients, clientID)
	}

	return s.save(doc)
}

func (s *FileStore) load() (*fileDocument, error) {
	doc := &fileDocument{Version: 1, Clients: make(map[string]map[string]fileSlot)}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return doc, nil
		}
		return nil, fmt.Errorf("repository: read store: %w", err)
	}
	if err := yaml.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("repository: parse store %s: %w", s.path, err)
	}
	if doc.Clients == nil {
		doc.Clients = make(map[string]map[string]fileSlot)
	}
	return doc, nil
}

func (s *FileStore) save(doc *fileDocument) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("repository: encode store: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".slots-*.yaml")
	if err != nil {
		return fmt.Errorf("repository: create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("repository: write temp file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("repository: chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("repository: close temp file: %w", err)
	}

	return os.Rename(tmp.Name(), s.path)
}
