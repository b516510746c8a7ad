package project

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/tang-vu/devboot/internal/errors"
)

// StoreFileName is the project store file within the data directory.
const StoreFileName = "projects.yaml"

// storeFile is the on-disk document shape.
type storeFile struct {
	Projects []Project `yaml:"projects"`
}

// Store is the file-backed project registry. All methods are safe for
// concurrent use; mutations persist to disk before returning.
type Store struct {
	path string

	mu       sync.RWMutex
	projects []Project
}

// NewStore creates a store backed by <dataDir>/projects.yaml and loads any
// existing document. A missing file is an empty store, not an error.
func NewStore(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	s := &Store{path: filepath.Join(dataDir, StoreFileName)}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the store file path.
func (s *Store) Path() string {
	return s.path
}

// Reload replaces the in-memory set with the on-disk document.
func (s *Store) Reload() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.mu.Lock()
			s.projects = nil
			s.mu.Unlock()
			return nil
		}
		return fmt.Errorf("failed to read project store: %w", err)
	}

	var doc storeFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse project store: %w", err)
	}

	s.mu.Lock()
	s.projects = doc.Projects
	s.mu.Unlock()
	return nil
}

// Add validates and persists a new project, returning it with its assigned
// ID. New projects are enabled by default.
func (s *Store) Add(p Project) (Project, error) {
	if p.Path == "" {
		return Project{}, errors.New("project path is required")
	}
	if len(p.Commands) == 0 {
		return Project{}, errors.New("project needs at least one command")
	}

	p.ID = uuid.NewString()
	if p.Name == "" {
		p.Name = p.DisplayName()
	}
	p.Enabled = true

	s.mu.Lock()
	defer s.mu.Unlock()

	s.projects = append(s.projects, p)
	if err := s.save(); err != nil {
		s.projects = s.projects[:len(s.projects)-1]
		return Project{}, err
	}
	return p, nil
}

// Update replaces the stored project with the same ID and persists.
func (s *Store) Update(p Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.projects {
		if s.projects[i].ID == p.ID {
			prev := s.projects[i]
			s.projects[i] = p
			if err := s.save(); err != nil {
				s.projects[i] = prev
				return err
			}
			return nil
		}
	}
	return errors.ErrProjectNotFound
}

// Remove deletes the project with the given ID and persists.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.projects {
		if s.projects[i].ID == id {
			removed := s.projects[i]
			s.projects = append(s.projects[:i], s.projects[i+1:]...)
			if err := s.save(); err != nil {
				s.projects = append(s.projects, Project{})
				copy(s.projects[i+1:], s.projects[i:])
				s.projects[i] = removed
				return err
			}
			return nil
		}
	}
	return errors.ErrProjectNotFound
}

// Get returns the project with the given ID.
func (s *Store) Get(id string) (Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.projects {
		if p.ID == id {
			return p, nil
		}
	}
	return Project{}, errors.ErrProjectNotFound
}

// Find resolves a project by ID or, failing that, by exact name.
func (s *Store) Find(key string) (Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.projects {
		if p.ID == key {
			return p, nil
		}
	}
	for _, p := range s.projects {
		if p.Name == key {
			return p, nil
		}
	}
	return Project{}, errors.ErrProjectNotFound
}

// List returns a copy of all projects, sorted by name.
func (s *Store) List() []Project {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Project, len(s.projects))
	copy(out, s.projects)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// AutoStartable returns the enabled projects flagged for auto-start, in
// List order.
func (s *Store) AutoStartable() []Project {
	var out []Project
	for _, p := range s.List() {
		if p.Enabled && p.AutoStart {
			out = append(out, p)
		}
	}
	return out
}

// save writes the document atomically. Callers must hold the write lock.
func (s *Store) save() error {
	data, err := yaml.Marshal(storeFile{Projects: s.projects})
	if err != nil {
		return fmt.Errorf("failed to encode project store: %w", err)
	}
	return atomicWriteFile(s.path, data, 0644)
}

// atomicWriteFile writes via a temp file in the same directory followed by
// a rename, so readers never observe a partially written store.
func atomicWriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)

	tmpFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}
