package source

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	dockerrors "github.com/haimv/skilldock/internal/errors"
)

// Registry persists source records as a JSON array at
// <warehouse>/.sources.json
type Registry struct {
	path    string
	sources map[string]*Source
}

// LoadRegistry reads the registry file, returning an empty registry when
// the file does not exist yet
func LoadRegistry(path string) (*Registry, error) {
	r := &Registry{path: path, sources: make(map[string]*Source)}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return r, nil
		}
		return nil, err
	}

	var list []*Source
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	for _, s := range list {
		r.sources[s.ID] = s
	}
	return r, nil
}

// Save writes the registry back as a JSON array, sorted by id
func (r *Registry) Save() error {
	list := r.List()
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(r.path), 0755); err != nil {
		return err
	}
	return os.WriteFile(r.path, data, 0644)
}

// List returns all sources sorted by id
func (r *Registry) List() []*Source {
	list := make([]*Source, 0, len(r.sources))
	for _, s := range r.sources {
		list = append(list, s)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

// Get returns a source by id
func (r *Registry) Get(id string) (*Source, error) {
	s, ok := r.sources[id]
	if !ok {
		return nil, fmt.Errorf("source %s: %w", id, dockerrors.ErrNotFound)
	}
	return s, nil
}

// Add registers a new source, rejecting duplicate ids
func (r *Registry) Add(s *Source) error {
	if _, ok := r.sources[s.ID]; ok {
		return fmt.Errorf("source %s: %w", s.ID, dockerrors.ErrAlreadyExists)
	}
	r.sources[s.ID] = s
	return nil
}

// Remove deletes a source record
func (r *Registry) Remove(id string) error {
	if _, ok := r.sources[id]; !ok {
		return fmt.Errorf("source %s: %w", id, dockerrors.ErrNotFound)
	}
	delete(r.sources, id)
	return nil
}
