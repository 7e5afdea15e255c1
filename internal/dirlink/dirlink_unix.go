//go:build !windows

package dirlink

import (
	"os"
	"path/filepath"
)

// createLink creates a symlink on Unix systems
func createLink(linkPath, target string) error {
	if err := os.MkdirAll(filepath.Dir(linkPath), 0755); err != nil {
		return err
	}
	return os.Symlink(target, linkPath)
}

// removeLink removes a symlink. os.Remove never follows symlinks on Unix,
// so the target directory is untouched.
func removeLink(linkPath string) error {
	return os.Remove(linkPath)
}

// isLinkMode reports whether a file mode denotes a directory link
func isLinkMode(mode os.FileMode) bool {
	return mode&os.ModeSymlink != 0
}
