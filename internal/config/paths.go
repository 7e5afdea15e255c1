package config

import (
	"os"
	"path/filepath"
)

// MarkerFile is the file whose presence makes a directory a skill package
const MarkerFile = "SKILL.md"

// SidecarFile records import provenance inside a package directory
const SidecarFile = ".skilldock-meta.json"

// Partition names under the warehouse root
const (
	PartitionEnabled  = "enabled"
	PartitionDisabled = "disabled"
)

// Paths holds all resolved paths for skilldock operations
type Paths struct {
	DockDir      string // ~/.skilldock (skilldock data directory)
	WarehouseDir string // ~/.skilldock/skills (warehouse root)
	SourcesDir   string // ~/.skilldock/sources (per-source checkouts)
	NotesFile    string // ~/.skilldock/notes.json
	ConfigFile   string // ~/.skilldock/config.toml

	home string
}

// ResolvePaths resolves all paths based on environment, config file and defaults
func ResolvePaths() (*Paths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	dockDir := os.Getenv("SKILLDOCK_DIR")
	if dockDir == "" {
		dockDir = filepath.Join(home, ".skilldock")
	}

	p := &Paths{
		DockDir:      dockDir,
		WarehouseDir: filepath.Join(dockDir, "skills"),
		SourcesDir:   filepath.Join(dockDir, "sources"),
		NotesFile:    filepath.Join(dockDir, "notes.json"),
		ConfigFile:   filepath.Join(dockDir, "config.toml"),
		home:         home,
	}

	cfg, err := LoadConfig(dockDir)
	if err != nil {
		return nil, err
	}
	if cfg.WarehouseDir != "" {
		p.WarehouseDir = expandHome(cfg.WarehouseDir, home)
	}

	return p, nil
}

// EnabledDir returns the enabled partition path
func (p *Paths) EnabledDir() string {
	return filepath.Join(p.WarehouseDir, PartitionEnabled)
}

// DisabledDir returns the disabled partition path
func (p *Paths) DisabledDir() string {
	return filepath.Join(p.WarehouseDir, PartitionDisabled)
}

// PartitionDir returns the path of a named partition
func (p *Paths) PartitionDir(partition string) string {
	return filepath.Join(p.WarehouseDir, partition)
}

// SourceRegistryFile returns the path of the source registry
func (p *Paths) SourceRegistryFile() string {
	return filepath.Join(p.WarehouseDir, ".sources.json")
}

// SourceCheckoutDir returns the checkout directory for a source id
func (p *Paths) SourceCheckoutDir(id string) string {
	return filepath.Join(p.SourcesDir, id)
}

// Home returns the user home directory the paths were resolved against
func (p *Paths) Home() string {
	return p.home
}

// IsInitialized checks if the warehouse has been initialized
func (p *Paths) IsInitialized() bool {
	info, err := os.Stat(p.WarehouseDir)
	if err != nil {
		return false
	}
	return info.IsDir()
}

func expandHome(path, home string) string {
	if path == "~" {
		return home
	}
	if len(path) > 1 && path[0] == '~' && path[1] == filepath.Separator {
		return filepath.Join(home, path[2:])
	}
	return path
}
