// Package notes is the flat key-value note store: one JSON object keyed by
// package name, living outside the warehouse root so notes survive package
// re-imports and deletions.
package notes

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
)

// Store reads and writes the notes file with whole-file load-mutate-save
type Store struct {
	path string
}

// NewStore creates a Store over the given notes file path
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Get returns the note for a package, empty when absent
func (s *Store) Get(pkg string) (string, error) {
	all, err := s.load()
	if err != nil {
		return "", err
	}
	return all[pkg], nil
}

// Set records a note for a package
func (s *Store) Set(pkg, note string) error {
	all, err := s.load()
	if err != nil {
		return err
	}
	all[pkg] = note
	return s.save(all)
}

// Delete removes a package's note, tolerating absence
func (s *Store) Delete(pkg string) error {
	all, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := all[pkg]; !ok {
		return nil
	}
	delete(all, pkg)
	return s.save(all)
}

// Keys returns all package names with notes, sorted
func (s *Store) Keys() ([]string, error) {
	all, err := s.load()
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(all))
	for k := range all {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *Store) load() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, err
	}
	var all map[string]string
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	if all == nil {
		all = map[string]string{}
	}
	return all, nil
}

func (s *Store) save(all map[string]string) error {
	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0644)
}
