package warehouse

import (
	"fmt"
	"path/filepath"

	"github.com/haimv/skilldock/internal/mover"
)

// SetState moves a package to the given partition. Promotion and demotion
// are moves, never copies: the name exists in exactly one partition
// afterwards. Moving to the current partition is a no-op.
func (s *Store) SetState(name string, state State, m *mover.Mover) (*mover.Result, error) {
	pkg, err := s.Locate(name)
	if err != nil {
		return nil, err
	}
	if pkg.State == state {
		return &mover.Result{}, nil
	}

	// Marker presence was checked by Locate; the mover itself treats the
	// package as an opaque directory
	dest := filepath.Join(s.paths.PartitionDir(string(state)), name)
	result, err := m.Move(pkg.Path, dest)
	if err != nil {
		return nil, fmt.Errorf("set %s %s: %w", name, state, err)
	}
	return result, nil
}

// Enable promotes a package to the enabled partition
func (s *Store) Enable(name string, m *mover.Mover) (*mover.Result, error) {
	return s.SetState(name, StateEnabled, m)
}

// Disable demotes a package to the disabled partition
func (s *Store) Disable(name string, m *mover.Mover) (*mover.Result, error) {
	return s.SetState(name, StateDisabled, m)
}
