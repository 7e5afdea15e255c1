//go:build windows

package dirlink

import (
	"os"
	"path/filepath"
)

// createLink creates a directory link on Windows. os.Symlink creates a
// directory symlink for directory targets, which requires Developer Mode
// or elevation on older Windows builds.
func createLink(linkPath, target string) error {
	if err := os.MkdirAll(filepath.Dir(linkPath), 0755); err != nil {
		return err
	}
	return os.Symlink(target, linkPath)
}

// removeLink removes a directory link. Junction-style links must be removed
// with the non-recursive directory removal, never os.RemoveAll: a recursive
// delete can traverse the reparse point and delete the target's contents.
func removeLink(linkPath string) error {
	return os.Remove(linkPath)
}

// isLinkMode reports whether a file mode denotes a directory link.
// Go surfaces both symlinks and junction reparse points as ModeSymlink;
// mount points appear as ModeIrregular on some builds.
func isLinkMode(mode os.FileMode) bool {
	return mode&(os.ModeSymlink|os.ModeIrregular) != 0
}
