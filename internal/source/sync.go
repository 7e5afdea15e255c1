package source

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/haimv/skilldock/internal/config"
	dockerrors "github.com/haimv/skilldock/internal/errors"
	"github.com/haimv/skilldock/internal/logger"
	"github.com/haimv/skilldock/internal/mover"
	"github.com/haimv/skilldock/internal/scanner"
	"github.com/haimv/skilldock/internal/warehouse"
)

// placeholderMaxSize bounds the files considered symlink placeholders.
// Sparse checkouts of repositories whose tracked subtree contains real
// symbolic links can materialize those links as tiny text files holding a
// relative path; anything larger is treated as ordinary content.
const placeholderMaxSize = 200

var relPathPattern = regexp.MustCompile(`^(\.\./|\./)*[A-Za-z0-9._-]+(/[A-Za-z0-9._-]+)*$`)

// Syncer clones, updates and imports external sources
type Syncer struct {
	paths *config.Paths
	store *warehouse.Store
	move  *mover.Mover
	scan  *scanner.Scanner
	vcs   VcsClient
}

// NewSyncer creates a Syncer using the given VCS client
func NewSyncer(paths *config.Paths, vcs VcsClient) *Syncer {
	return &Syncer{
		paths: paths,
		store: warehouse.New(paths),
		move:  mover.New(),
		scan:  scanner.New(),
		vcs:   vcs,
	}
}

// List returns all registered sources
func (s *Syncer) List() ([]*Source, error) {
	reg, err := LoadRegistry(s.paths.SourceRegistryFile())
	if err != nil {
		return nil, err
	}
	return reg.List(), nil
}

// AddSource parses the URL, registers the source and syncs it immediately.
// Any failure rolls back both the registry entry and the checkout so no
// half-registered source survives.
func (s *Syncer) AddSource(ctx context.Context, rawURL string) (*Source, *SyncResult, error) {
	src, err := ParseRepoURL(rawURL)
	if err != nil {
		return nil, nil, err
	}

	reg, err := LoadRegistry(s.paths.SourceRegistryFile())
	if err != nil {
		return nil, nil, err
	}
	if err := reg.Add(src); err != nil {
		return nil, nil, err
	}
	if err := reg.Save(); err != nil {
		return nil, nil, err
	}

	result, err := s.SyncSource(ctx, src.ID)
	if err != nil {
		// Compensating rollback: the registry must never reflect a
		// partially initialized source
		logger.L.WithField("source", src.ID).Info("sync failed, rolling back new source")
		os.RemoveAll(s.paths.SourceCheckoutDir(src.ID))
		if reg, regErr := LoadRegistry(s.paths.SourceRegistryFile()); regErr == nil {
			if reg.Remove(src.ID) == nil {
				reg.Save()
			}
		}
		return nil, nil, err
	}

	src, _ = s.getSource(src.ID)
	return src, result, nil
}

// SyncSource clones or updates the source's checkout and imports its
// packages into the warehouse, preserving enabled/disabled placement
func (s *Syncer) SyncSource(ctx context.Context, id string) (*SyncResult, error) {
	reg, err := LoadRegistry(s.paths.SourceRegistryFile())
	if err != nil {
		return nil, err
	}
	src, err := reg.Get(id)
	if err != nil {
		return nil, err
	}

	if err := s.store.Initialize(); err != nil {
		return nil, err
	}

	checkout := s.paths.SourceCheckoutDir(src.ID)
	if err := s.ensureCheckout(ctx, src, checkout); err != nil {
		src.Status = StatusError
		reg.Save()
		return nil, dockerrors.NewSourceError(src.ID, "sync", err)
	}

	scanRoot, linked, err := s.resolvePlaceholders(ctx, src, checkout)
	if err != nil {
		return nil, dockerrors.NewSourceError(src.ID, "resolve placeholders", err)
	}

	revision, err := s.vcs.RevParse(checkout)
	if err != nil {
		return nil, dockerrors.NewSourceError(src.ID, "rev-parse", err)
	}

	result, err := s.importPackages(src, checkout, scanRoot, linked, revision)
	if err != nil {
		return nil, dockerrors.NewSourceError(src.ID, "import", err)
	}
	result.Revision = revision

	src.LastRevision = revision
	src.Status = StatusSynced
	src.HasUpdate = false
	src.LastSynced = time.Now()
	src.PackageCount = result.Added + result.Updated
	if err := reg.Save(); err != nil {
		return nil, err
	}
	return result, nil
}

// CheckForUpdates compares the remote branch head against the recorded
// revision and caches the outcome on the source record. A missing local
// checkout always counts as an available update.
func (s *Syncer) CheckForUpdates(ctx context.Context, id string) (bool, error) {
	reg, err := LoadRegistry(s.paths.SourceRegistryFile())
	if err != nil {
		return false, err
	}
	src, err := reg.Get(id)
	if err != nil {
		return false, err
	}

	hasUpdate := false
	if _, err := os.Stat(s.paths.SourceCheckoutDir(src.ID)); err != nil {
		hasUpdate = true
	} else {
		head, err := s.vcs.LsRemoteHead(ctx, src.RepoURL, src.Branch)
		if err != nil {
			return false, dockerrors.NewSourceError(src.ID, "check updates", err)
		}
		hasUpdate = head != src.LastRevision
	}

	src.HasUpdate = hasUpdate
	src.LastChecked = time.Now()
	if err := reg.Save(); err != nil {
		return false, err
	}
	return hasUpdate, nil
}

// RemoveSource deletes the checkout and the registry entry. Packages
// already imported stay in the warehouse; import is a copy, not a
// continuing reference.
func (s *Syncer) RemoveSource(id string) error {
	reg, err := LoadRegistry(s.paths.SourceRegistryFile())
	if err != nil {
		return err
	}
	if _, err := reg.Get(id); err != nil {
		return err
	}

	if err := os.RemoveAll(s.paths.SourceCheckoutDir(id)); err != nil {
		return dockerrors.NewSourceError(id, "remove checkout", err)
	}
	if err := reg.Remove(id); err != nil {
		return err
	}
	return reg.Save()
}

func (s *Syncer) getSource(id string) (*Source, error) {
	reg, err := LoadRegistry(s.paths.SourceRegistryFile())
	if err != nil {
		return nil, err
	}
	return reg.Get(id)
}

// ensureCheckout establishes a usable checkout: partial checkout with
// full-clone fallback for fresh sources, pull with reclone fallback for
// existing ones. A corrupted checkout is never left in place.
func (s *Syncer) ensureCheckout(ctx context.Context, src *Source, checkout string) error {
	if _, err := os.Stat(checkout); err == nil {
		if pullErr := s.vcs.Pull(ctx, checkout, src.Branch); pullErr == nil {
			return nil
		}
		logger.L.WithField("source", src.ID).Warn("pull failed, recloning from scratch")
		if err := os.RemoveAll(checkout); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(checkout), 0755); err != nil {
		return err
	}

	if src.Subpath != WholeRepo {
		if err := s.sparseClone(ctx, src, checkout); err == nil {
			return nil
		}
		logger.L.WithField("source", src.ID).Warn("sparse checkout failed, falling back to full clone")
		if err := os.RemoveAll(checkout); err != nil {
			return err
		}
	}

	if err := s.vcs.Clone(ctx, src.RepoURL, src.Branch, checkout); err != nil {
		os.RemoveAll(checkout)
		return err
	}
	return nil
}

func (s *Syncer) sparseClone(ctx context.Context, src *Source, checkout string) error {
	if err := s.vcs.SparseInit(ctx, checkout, src.RepoURL); err != nil {
		return err
	}
	if err := s.vcs.SparseSet(ctx, checkout, []string{src.Subpath}); err != nil {
		return err
	}
	return s.vcs.SparseCheckout(ctx, checkout, src.Branch)
}

// linkedSkill is a package reached through a symlink placeholder inside
// the subpath: the placeholder's file name names the package, its resolved
// target directory holds the content.
type linkedSkill struct {
	name string
	dir  string
}

// resolvePlaceholders detects symlink placeholder files at and one level
// inside the configured subpath, extends the sparse set with their targets
// and re-checks out. Returns the directory to scan for packages plus the
// packages reached through in-subpath placeholders, which live outside the
// scan root and must be imported explicitly.
func (s *Syncer) resolvePlaceholders(ctx context.Context, src *Source, checkout string) (string, []linkedSkill, error) {
	if src.Subpath == WholeRepo {
		return checkout, nil, nil
	}

	subpathSlash := path.Clean(filepath.ToSlash(src.Subpath))
	scanRootRel := subpathSlash
	entry := filepath.Join(checkout, filepath.FromSlash(subpathSlash))

	sparse := []string{subpathSlash}
	var linked []linkedSkill
	extra := 0

	if target, ok := readPlaceholder(entry); ok {
		// Relative to the placeholder's containing directory
		resolved := path.Clean(path.Join(path.Dir(subpathSlash), target))
		if !strings.HasPrefix(resolved, "..") {
			sparse = append(sparse, resolved)
			scanRootRel = resolved
			extra++
		}
	} else if info, err := os.Stat(entry); err == nil && info.IsDir() {
		entries, err := os.ReadDir(entry)
		if err != nil {
			return "", nil, err
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			target, ok := readPlaceholder(filepath.Join(entry, e.Name()))
			if !ok {
				continue
			}
			resolved := path.Clean(path.Join(subpathSlash, target))
			if strings.HasPrefix(resolved, "..") {
				continue
			}
			sparse = append(sparse, resolved)
			linked = append(linked, linkedSkill{
				name: e.Name(),
				dir:  filepath.Join(checkout, filepath.FromSlash(resolved)),
			})
			extra++
		}
	}

	if extra > 0 {
		logger.L.WithField("source", src.ID).
			Debugf("resolved %d symlink placeholder(s), extending sparse set", extra)
		if err := s.vcs.SparseSet(ctx, checkout, sparse); err != nil {
			return "", nil, err
		}
		if err := s.vcs.SparseCheckout(ctx, checkout, src.Branch); err != nil {
			return "", nil, err
		}
	}

	return filepath.Join(checkout, filepath.FromSlash(scanRootRel)), linked, nil
}

// readPlaceholder reports whether path is a symlink placeholder: a small
// file whose entire content is a relative path. The heuristic can in
// principle false-positive on a legitimately tiny text file; the cost is
// one extra sparse path that matches nothing.
func readPlaceholder(path string) (string, bool) {
	info, err := os.Lstat(path)
	if err != nil || info.IsDir() || info.Size() > placeholderMaxSize {
		return "", false
	}
	if info.Mode()&os.ModeSymlink != 0 {
		// A real symlink materialized after all; follow it as-is
		target, err := os.Readlink(path)
		if err != nil {
			return "", false
		}
		return target, true
	}
	if !info.Mode().IsRegular() {
		return "", false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	content := strings.TrimSpace(string(data))
	if content == "" || strings.ContainsAny(content, " \t\n") {
		return "", false
	}
	if !relPathPattern.MatchString(content) {
		return "", false
	}
	return content, true
}

// importPackages copies discovered packages into the warehouse. A package
// already enabled is overwritten in place and stays enabled; one already
// disabled is overwritten there; everything else lands fresh in disabled.
// Added counts packages placed in disabled, fresh or refreshed; Updated
// counts enabled packages refreshed in place.
func (s *Syncer) importPackages(src *Source, checkout, scanRoot string, linked []linkedSkill, revision string) (*SyncResult, error) {
	type candidate struct {
		dir  string
		name string
	}
	var candidates []candidate

	switch {
	case src.Subpath == WholeRepo && s.scan.IsSkillDir(checkout):
		// Whole repository is a single package, named after the repo
		candidates = append(candidates, candidate{dir: checkout, name: src.Repo})
	case s.scan.IsSkillDir(scanRoot):
		candidates = append(candidates, candidate{dir: scanRoot, name: filepath.Base(scanRoot)})
	default:
		children, err := s.scan.Scan(scanRoot)
		if err != nil {
			return nil, err
		}
		if len(children) > 0 {
			for _, c := range children {
				candidates = append(candidates, candidate{dir: c.Path, name: c.Name})
			}
		} else {
			for _, dir := range s.scan.DeepScan(scanRoot, scanner.DefaultDeepScanDepth) {
				candidates = append(candidates, candidate{dir: dir, name: filepath.Base(dir)})
			}
		}
	}

	// Placeholder targets sit outside the scan root and are never found by
	// the scans above
	seen := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		seen[c.name] = true
	}
	for _, l := range linked {
		if seen[l.name] || !s.scan.IsSkillDir(l.dir) {
			continue
		}
		candidates = append(candidates, candidate{dir: l.dir, name: l.name})
	}

	staging, err := os.MkdirTemp(s.paths.WarehouseDir, ".import-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(staging)

	result := &SyncResult{}
	for _, c := range candidates {
		dest := filepath.Join(s.paths.DisabledDir(), c.name)
		enabled := false
		if existing, err := s.store.Locate(c.name); err == nil {
			// Respect local activation: overwrite where the package lives
			dest = existing.Path
			enabled = existing.State == warehouse.StateEnabled
		}

		staged := filepath.Join(staging, c.name)
		if err := mover.CopyTree(c.dir, staged); err != nil {
			return nil, err
		}

		if _, err := s.move.Move(staged, dest); err != nil {
			return nil, err
		}

		sc := &warehouse.Sidecar{
			Source:      src.ID,
			SourceURL:   src.RepoURL,
			InstallDate: time.Now(),
			CommitHash:  revision,
		}
		if err := warehouse.WriteSidecar(dest, sc); err != nil {
			return nil, fmt.Errorf("write sidecar for %s: %w", c.name, err)
		}

		if enabled {
			result.Updated++
		} else {
			result.Added++
		}
	}

	return result, nil
}
