// Package link attaches and detaches tool skill directories to the
// warehouse. Attaching replaces the tool's directory with a platform
// directory link to the warehouse root; detaching restores a real
// directory, optionally repopulated with a snapshot of the warehouse.
// Multiple tools may be linked to the same warehouse at once.
package link

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/haimv/skilldock/internal/config"
	"github.com/haimv/skilldock/internal/dirlink"
	dockerrors "github.com/haimv/skilldock/internal/errors"
	"github.com/haimv/skilldock/internal/logger"
	"github.com/haimv/skilldock/internal/mover"
	"github.com/haimv/skilldock/internal/scanner"
)

// Status describes a tool's relation to the warehouse
type Status struct {
	Tool        config.Tool
	Installed   bool   // tool root anchor exists
	Linked      bool   // skill path is a directory link
	Path        string // effective skill path
	SkillsCount int    // immediate non-hidden entries, display only
}

// Manager attaches tools to the warehouse
type Manager struct {
	paths *config.Paths
	links *dirlink.Manager
	scan  *scanner.Scanner
}

// NewManager creates a link Manager
func NewManager(paths *config.Paths) *Manager {
	return &Manager{paths: paths, links: dirlink.New(), scan: scanner.New()}
}

// Link attaches a tool's skill directory to the warehouse root.
// A pre-existing real directory is merged into the warehouse first;
// warehouse packages win over same-named tool-local ones. After success,
// resolving the tool path always yields the warehouse root.
func (m *Manager) Link(toolID string) error {
	tool, ok := config.FindTool(toolID)
	if !ok {
		return fmt.Errorf("tool %s: %w", toolID, dockerrors.ErrNotFound)
	}

	target := m.paths.ToolSkillPath(tool)
	warehouse := m.paths.WarehouseDir

	if err := os.MkdirAll(warehouse, 0755); err != nil {
		return dockerrors.NewLinkError(toolID, warehouse, "ensure warehouse", err)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return dockerrors.NewLinkError(toolID, target, "ensure parent", err)
	}

	info, err := m.links.Inspect(target)
	if err != nil {
		return dockerrors.NewLinkError(toolID, target, "inspect", err)
	}

	switch {
	case info.Exists && info.IsLink:
		// Re-linking: drop the old link with the platform primitive so a
		// junction never deletes through to the warehouse contents
		if err := m.links.Remove(target); err != nil {
			return dockerrors.NewLinkError(toolID, target, "remove stale link", err)
		}
	case info.Exists:
		if err := m.mergeIntoWarehouse(target); err != nil {
			return dockerrors.NewLinkError(toolID, target, "merge", err)
		}
		if err := os.RemoveAll(target); err != nil {
			return dockerrors.NewLinkError(toolID, target, "remove merged directory", err)
		}
	}

	if err := m.links.Create(target, warehouse); err != nil {
		return dockerrors.NewLinkError(toolID, target, "create link", err)
	}

	ok, err = m.links.PointsTo(target, warehouse)
	if err != nil || !ok {
		return dockerrors.NewLinkError(toolID, target, "verify link",
			fmt.Errorf("link does not resolve to warehouse root: %w", dockerrors.ErrFatalIO))
	}
	return nil
}

// Unlink detaches a tool from the warehouse. The tool path must currently
// be a directory link. A real directory is materialized afterwards so the
// tool keeps a valid skill path; with syncBack it receives a one-way
// snapshot of the warehouse contents.
func (m *Manager) Unlink(toolID string, syncBack bool) error {
	tool, ok := config.FindTool(toolID)
	if !ok {
		return fmt.Errorf("tool %s: %w", toolID, dockerrors.ErrNotFound)
	}

	// Tools migrate their skill path across versions; find the candidate
	// that is actually linked rather than trusting the primary default
	target := ""
	for _, candidate := range m.paths.ToolSkillCandidates(tool) {
		if isLink, err := m.links.IsLink(candidate); err == nil && isLink {
			target = candidate
			break
		}
	}
	if target == "" {
		return fmt.Errorf("tool %s: %w", toolID, dockerrors.ErrNotLinked)
	}

	if err := m.links.Remove(target); err != nil {
		return dockerrors.NewLinkError(toolID, target, "remove link", err)
	}

	// Never assume removal worked; a link that still resolves is fatal
	if isLink, err := m.links.IsLink(target); err == nil && isLink {
		return dockerrors.NewLinkError(toolID, target, "verify removal", dockerrors.ErrUnlinkFailed)
	}

	if err := os.MkdirAll(target, 0755); err != nil {
		return dockerrors.NewLinkError(toolID, target, "materialize directory", err)
	}

	if syncBack {
		if err := m.snapshotWarehouse(target); err != nil {
			return dockerrors.NewLinkError(toolID, target, "sync back", err)
		}
	}
	return nil
}

// Status reports a single tool's link state
func (m *Manager) Status(toolID string) (*Status, error) {
	tool, ok := config.FindTool(toolID)
	if !ok {
		return nil, fmt.Errorf("tool %s: %w", toolID, dockerrors.ErrNotFound)
	}
	st := m.status(tool)
	return &st, nil
}

// StatusAll reports the link state of every known tool
func (m *Manager) StatusAll() []Status {
	statuses := make([]Status, 0, len(config.KnownTools))
	for _, tool := range config.KnownTools {
		statuses = append(statuses, m.status(tool))
	}
	return statuses
}

func (m *Manager) status(tool config.Tool) Status {
	st := Status{Tool: tool, Path: m.paths.ToolSkillPath(tool)}

	if info, err := os.Stat(m.paths.ToolRootPath(tool)); err == nil && info.IsDir() {
		st.Installed = true
	}

	if isLink, err := m.links.IsLink(st.Path); err == nil && isLink {
		st.Linked = true
	}

	st.SkillsCount = countSkillEntries(st.Path)
	return st
}

// mergeIntoWarehouse folds a tool-local skills directory into the warehouse
// without overwriting. Package directories land in the enabled partition
// (the tool was actively using them); a package already present in either
// partition is authoritative and the tool-local copy is dropped. Loose
// top-level entries move to the warehouse root, first writer wins.
func (m *Manager) mergeIntoWarehouse(toolDir string) error {
	entries, err := os.ReadDir(toolDir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		src := filepath.Join(toolDir, entry.Name())

		var dest string
		if entry.IsDir() && m.scan.IsSkillDir(src) {
			if m.warehouseHasPackage(entry.Name()) {
				logger.L.WithField("package", entry.Name()).
					Debug("skipping tool-local package, warehouse copy is authoritative")
				continue
			}
			dest = filepath.Join(m.paths.EnabledDir(), entry.Name())
		} else {
			dest = filepath.Join(m.paths.WarehouseDir, entry.Name())
			if _, err := os.Lstat(dest); err == nil {
				continue
			}
		}

		if err := mover.CopyTree(src, dest); err != nil {
			return err
		}
	}
	return nil
}

func (m *Manager) warehouseHasPackage(name string) bool {
	for _, partition := range []string{m.paths.EnabledDir(), m.paths.DisabledDir()} {
		if _, err := os.Lstat(filepath.Join(partition, name)); err == nil {
			return true
		}
	}
	return false
}

// snapshotWarehouse copies the warehouse contents into dir. Bookkeeping
// dotfiles stay behind; they belong to the warehouse, not the tool.
func (m *Manager) snapshotWarehouse(dir string) error {
	entries, err := os.ReadDir(m.paths.WarehouseDir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		src := filepath.Join(m.paths.WarehouseDir, entry.Name())
		if err := mover.CopyTree(src, filepath.Join(dir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

// countSkillEntries counts immediate subdirectories plus standalone marker
// files, excluding hidden entries. Display only.
func countSkillEntries(dir string) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	count := 0
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if entry.IsDir() || entry.Name() == config.MarkerFile {
			count++
		}
	}
	return count
}
