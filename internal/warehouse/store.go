// Package warehouse owns the two-partition skill store. The warehouse root
// holds an enabled/ and a disabled/ partition; a package name lives in at
// most one of them at a time. The store performs no locking: enumeration is
// a best-effort snapshot and callers re-enumerate after mutating calls.
package warehouse

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/haimv/skilldock/internal/config"
	dockerrors "github.com/haimv/skilldock/internal/errors"
	"github.com/haimv/skilldock/internal/scanner"
)

// State is the partition a package lives in
type State string

const (
	StateEnabled  State = config.PartitionEnabled
	StateDisabled State = config.PartitionDisabled
)

// Sidecar is the provenance record written next to imported packages
type Sidecar struct {
	Source      string    `json:"source"`
	SourceURL   string    `json:"sourceUrl"`
	InstallDate time.Time `json:"installDate"`
	CommitHash  string    `json:"commitHash"`
}

// Package is a skill package together with its warehouse placement
type Package struct {
	scanner.Skill
	State   State
	Sidecar *Sidecar // nil for locally authored packages
}

// Store exposes the warehouse partitions
type Store struct {
	paths   *config.Paths
	scanner *scanner.Scanner
}

// New creates a Store over the given paths
func New(paths *config.Paths) *Store {
	return &Store{paths: paths, scanner: scanner.New()}
}

// Root returns the warehouse root directory
func (s *Store) Root() string {
	return s.paths.WarehouseDir
}

// Initialize ensures the warehouse root and both partitions exist.
// Safe to call repeatedly.
func (s *Store) Initialize() error {
	for _, dir := range []string{
		s.paths.WarehouseDir,
		s.paths.EnabledDir(),
		s.paths.DisabledDir(),
	} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("%w: create %s: %v", dockerrors.ErrFatalIO, dir, err)
		}
	}
	return nil
}

// Enumerate returns all packages from both partitions, enabled first,
// each partition sorted lexicographically by name.
func (s *Store) Enumerate() ([]Package, error) {
	var all []Package
	for _, state := range []State{StateEnabled, StateDisabled} {
		skills, err := s.scanner.Scan(s.paths.PartitionDir(string(state)))
		if err != nil {
			return nil, err
		}
		for _, sk := range skills {
			all = append(all, Package{
				Skill:   sk,
				State:   state,
				Sidecar: readSidecar(sk.Path),
			})
		}
	}
	return all, nil
}

// Locate returns the package with the given name from either partition
func (s *Store) Locate(name string) (*Package, error) {
	for _, state := range []State{StateEnabled, StateDisabled} {
		pkgDir := filepath.Join(s.paths.PartitionDir(string(state)), name)
		if s.scanner.IsSkillDir(pkgDir) {
			return &Package{
				Skill: scanner.Skill{
					Name:        name,
					Path:        pkgDir,
					Description: s.scanner.Describe(filepath.Join(pkgDir, config.MarkerFile)),
				},
				State:   state,
				Sidecar: readSidecar(pkgDir),
			}, nil
		}
	}
	return nil, fmt.Errorf("package %s: %w", name, dockerrors.ErrNotFound)
}

// Remove deletes a package from whichever partition holds it
func (s *Store) Remove(name string) error {
	pkg, err := s.Locate(name)
	if err != nil {
		return err
	}
	return os.RemoveAll(pkg.Path)
}

// WriteSidecar writes the provenance record into a package directory
func WriteSidecar(pkgDir string, sc *Sidecar) error {
	data, err := json.MarshalIndent(sc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(pkgDir, config.SidecarFile), data, 0644)
}

func readSidecar(pkgDir string) *Sidecar {
	data, err := os.ReadFile(filepath.Join(pkgDir, config.SidecarFile))
	if err != nil {
		return nil
	}
	var sc Sidecar
	if err := json.Unmarshal(data, &sc); err != nil {
		return nil
	}
	return &sc
}
