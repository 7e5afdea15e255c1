// Package dirlink abstracts the platform directory-link primitive: POSIX
// symlinks on Unix, junction-style links on Windows. The two differ in
// delete semantics (a junction must be removed with a non-recursive call
// or the delete can follow the reparse point into the target's contents),
// so removal is platform code and callers never branch on GOOS.
package dirlink

import (
	"os"
	"path/filepath"
)

// Manager handles directory link operations
type Manager struct{}

// New creates a new directory link manager
func New() *Manager {
	return &Manager{}
}

// Info contains information about a directory link
type Info struct {
	Path     string
	Target   string
	Exists   bool
	IsLink   bool
	IsBroken bool
}

// Create creates a directory link at linkPath pointing to target
func (m *Manager) Create(linkPath, target string) error {
	return createLink(linkPath, target)
}

// Remove removes a directory link without touching its target's contents
func (m *Manager) Remove(linkPath string) error {
	isLink, err := m.IsLink(linkPath)
	if err != nil {
		return err
	}
	if !isLink {
		return &os.PathError{Op: "remove", Path: linkPath, Err: os.ErrInvalid}
	}
	return removeLink(linkPath)
}

// IsLink checks if a path is a directory link without following it
func (m *Manager) IsLink(path string) (bool, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return false, err
	}
	return isLinkMode(info.Mode()), nil
}

// ResolveTarget returns the absolute target of a directory link
func (m *Manager) ResolveTarget(linkPath string) (string, error) {
	target, err := os.Readlink(linkPath)
	if err != nil {
		return "", err
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(linkPath), target)
	}
	return filepath.Clean(target), nil
}

// Inspect returns information about a path, without following links
func (m *Manager) Inspect(path string) (*Info, error) {
	info := &Info{Path: path}

	linfo, err := os.Lstat(path)
	if os.IsNotExist(err) {
		return info, nil
	}
	if err != nil {
		return nil, err
	}

	info.Exists = true
	info.IsLink = isLinkMode(linfo.Mode())

	if info.IsLink {
		target, err := m.ResolveTarget(path)
		if err != nil {
			return nil, err
		}
		info.Target = target

		if _, err := os.Stat(path); os.IsNotExist(err) {
			info.IsBroken = true
		}
	}

	return info, nil
}

// PointsTo checks if linkPath is a link resolving to expectedTarget
func (m *Manager) PointsTo(linkPath, expectedTarget string) (bool, error) {
	info, err := m.Inspect(linkPath)
	if err != nil {
		return false, err
	}
	if !info.Exists || !info.IsLink {
		return false, nil
	}

	absTarget, err := filepath.Abs(info.Target)
	if err != nil {
		return false, err
	}
	absExpected, err := filepath.Abs(expectedTarget)
	if err != nil {
		return false, err
	}
	return absTarget == absExpected, nil
}
