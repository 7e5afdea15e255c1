package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/haimv/skilldock/internal/config"
	"github.com/haimv/skilldock/internal/mover"
	"github.com/haimv/skilldock/internal/warehouse"
)

// fakeVCS serves repositories from in-memory file maps, keyed by clone URL
type fakeVCS struct {
	files map[string]map[string]string // url -> relative path -> content
	head  map[string]string            // url -> branch head revision

	origin map[string]string   // checkout dir -> url
	sparse map[string][]string // checkout dir -> sparse path set
	revAt  map[string]string   // checkout dir -> materialized revision

	failClone bool
	failPull  bool
	clones    int
}

func newFakeVCS() *fakeVCS {
	return &fakeVCS{
		files:  make(map[string]map[string]string),
		head:   make(map[string]string),
		origin: make(map[string]string),
		sparse: make(map[string][]string),
		revAt:  make(map[string]string),
	}
}

func (f *fakeVCS) Clone(ctx context.Context, url, branch, dest string) error {
	if f.failClone {
		return errors.New("clone refused")
	}
	f.clones++
	f.origin[dest] = url
	delete(f.sparse, dest)
	return f.materialize(dest, nil)
}

func (f *fakeVCS) Pull(ctx context.Context, dir, branch string) error {
	if f.failPull {
		return errors.New("pull refused")
	}
	if _, ok := f.origin[dir]; !ok {
		return errors.New("not a checkout")
	}
	return f.materialize(dir, f.sparse[dir])
}

func (f *fakeVCS) SparseInit(ctx context.Context, dir, url string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	f.origin[dir] = url
	f.sparse[dir] = nil
	return nil
}

func (f *fakeVCS) SparseSet(ctx context.Context, dir string, paths []string) error {
	f.sparse[dir] = paths
	return nil
}

func (f *fakeVCS) SparseCheckout(ctx context.Context, dir, branch string) error {
	if f.failClone {
		return errors.New("fetch refused")
	}
	return f.materialize(dir, f.sparse[dir])
}

func (f *fakeVCS) RevParse(dir string) (string, error) {
	rev, ok := f.revAt[dir]
	if !ok {
		return "", errors.New("not a checkout")
	}
	return rev, nil
}

func (f *fakeVCS) LsRemoteHead(ctx context.Context, url, branch string) (string, error) {
	head, ok := f.head[url]
	if !ok {
		return "", errors.New("unknown remote")
	}
	return head, nil
}

func (f *fakeVCS) materialize(dir string, sparse []string) error {
	url := f.origin[dir]
	repo, ok := f.files[url]
	if !ok {
		return errors.New("unknown remote")
	}
	for rel, content := range repo {
		if !sparseMatch(rel, sparse) {
			continue
		}
		full := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(full, []byte(content), 0644); err != nil {
			return err
		}
	}
	f.revAt[dir] = f.head[url]
	return nil
}

func sparseMatch(rel string, sparse []string) bool {
	if sparse == nil {
		return true
	}
	for _, p := range sparse {
		if rel == p || strings.HasPrefix(rel, p+"/") {
			return true
		}
	}
	// cone mode always materializes root-level files
	return !strings.Contains(rel, "/")
}

func skillFile(name string) string {
	return "---\nname: " + name + "\ndescription: Tools for " + name + "\n---\n\n# " + name + "\n"
}

func testSyncer(t *testing.T, vcs VcsClient) (*Syncer, *config.Paths) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SKILLDOCK_DIR", t.TempDir())
	paths, err := config.ResolvePaths()
	if err != nil {
		t.Fatal(err)
	}
	return NewSyncer(paths, vcs), paths
}

func TestAddSourceImportsPackages(t *testing.T) {
	vcs := newFakeVCS()
	url := "https://github.com/acme/skills.git"
	vcs.files[url] = map[string]string{
		"pdf/SKILL.md":  skillFile("pdf"),
		"docx/SKILL.md": skillFile("docx"),
		"README.md":     "not a skill\n",
	}
	vcs.head[url] = "rev1"

	syn, paths := testSyncer(t, vcs)
	src, result, err := syn.AddSource(context.Background(), "acme/skills")
	if err != nil {
		t.Fatalf("AddSource() error: %v", err)
	}
	if result.Added != 2 || result.Updated != 0 {
		t.Errorf("result = %+v, want Added=2 Updated=0", result)
	}
	if src.Status != StatusSynced || src.LastRevision != "rev1" || src.PackageCount != 2 {
		t.Errorf("source record = %+v", src)
	}

	// Fresh imports land disabled, with provenance sidecars
	store := warehouse.New(paths)
	for _, name := range []string{"pdf", "docx"} {
		pkg, err := store.Locate(name)
		if err != nil {
			t.Fatalf("Locate(%s): %v", name, err)
		}
		if pkg.State != warehouse.StateDisabled {
			t.Errorf("%s imported as %s, want disabled", name, pkg.State)
		}
		if pkg.Sidecar == nil || pkg.Sidecar.Source != "acme-skills" || pkg.Sidecar.CommitHash != "rev1" {
			t.Errorf("%s sidecar = %+v", name, pkg.Sidecar)
		}
	}
}

func TestResyncPreservesEnabledPlacement(t *testing.T) {
	vcs := newFakeVCS()
	url := "https://github.com/acme/skills.git"
	vcs.files[url] = map[string]string{
		"pdf/SKILL.md":  skillFile("pdf"),
		"docx/SKILL.md": skillFile("docx"),
	}
	vcs.head[url] = "rev1"

	syn, paths := testSyncer(t, vcs)
	if _, _, err := syn.AddSource(context.Background(), "acme/skills"); err != nil {
		t.Fatal(err)
	}

	store := warehouse.New(paths)
	if _, err := store.Enable("pdf", mover.NewWithPolicy(1, 0)); err != nil {
		t.Fatal(err)
	}

	vcs.files[url]["pdf/SKILL.md"] = skillFile("pdf") + "\nUpdated.\n"
	vcs.head[url] = "rev2"

	result, err := syn.SyncSource(context.Background(), "acme-skills")
	if err != nil {
		t.Fatalf("SyncSource() error: %v", err)
	}

	// The enabled package counts as updated, the disabled one as added
	if result.Added != 1 || result.Updated != 1 {
		t.Errorf("result = %+v, want Added=1 Updated=1", result)
	}

	pkg, err := store.Locate("pdf")
	if err != nil {
		t.Fatal(err)
	}
	if pkg.State != warehouse.StateEnabled {
		t.Errorf("pdf demoted to %s by re-sync", pkg.State)
	}
	data, err := os.ReadFile(filepath.Join(pkg.Path, "SKILL.md"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "Updated.") {
		t.Error("enabled package content not refreshed by re-sync")
	}
	if pkg.Sidecar == nil || pkg.Sidecar.CommitHash != "rev2" {
		t.Errorf("sidecar after re-sync = %+v", pkg.Sidecar)
	}
}

func TestAddSourceRollsBackOnFailure(t *testing.T) {
	vcs := newFakeVCS()
	vcs.failClone = true

	syn, paths := testSyncer(t, vcs)
	if _, _, err := syn.AddSource(context.Background(), "acme/skills"); err == nil {
		t.Fatal("AddSource() succeeded with a failing clone")
	}

	sources, err := syn.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(sources) != 0 {
		t.Errorf("registry holds %d source(s) after rollback", len(sources))
	}
	if _, err := os.Stat(paths.SourceCheckoutDir("acme-skills")); !os.IsNotExist(err) {
		t.Error("checkout directory survived rollback")
	}
}

func TestSyncResolvesSymlinkPlaceholder(t *testing.T) {
	vcs := newFakeVCS()
	url := "https://github.com/acme/meta.git"
	vcs.files[url] = map[string]string{
		".claude/skills":           "../skills-root",
		"skills-root/pdf/SKILL.md": skillFile("pdf"),
		"skills-root/sql/SKILL.md": skillFile("sql"),
	}
	vcs.head[url] = "rev1"

	syn, paths := testSyncer(t, vcs)
	src, result, err := syn.AddSource(context.Background(), "acme/meta@main:.claude/skills")
	if err != nil {
		t.Fatalf("AddSource() error: %v", err)
	}
	if result.Added != 2 {
		t.Errorf("Added = %d, want 2 packages behind the placeholder", result.Added)
	}

	checkout := paths.SourceCheckoutDir(src.ID)
	got := vcs.sparse[checkout]
	want := []string{".claude/skills", "skills-root"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("sparse set = %v, want %v", got, want)
	}

	store := warehouse.New(paths)
	for _, name := range []string{"pdf", "sql"} {
		if _, err := store.Locate(name); err != nil {
			t.Errorf("Locate(%s): %v", name, err)
		}
	}
}

func TestSyncResolvesPlaceholdersInsideSubpath(t *testing.T) {
	vcs := newFakeVCS()
	url := "https://github.com/acme/meta.git"
	vcs.files[url] = map[string]string{
		".claude/skills/pdf":       "../../skills-root/pdf",
		".claude/skills/notes.md":  "not a placeholder, plain prose here\n",
		"skills-root/pdf/SKILL.md": skillFile("pdf"),
		"skills-root/sql/SKILL.md": skillFile("sql"),
	}
	vcs.head[url] = "rev1"

	syn, paths := testSyncer(t, vcs)
	src, result, err := syn.AddSource(context.Background(), "acme/meta@main:.claude/skills")
	if err != nil {
		t.Fatalf("AddSource() error: %v", err)
	}

	// Only the package behind the placeholder is imported; the sibling
	// without a placeholder stays out of the sparse set
	if result.Added != 1 {
		t.Errorf("Added = %d, want 1", result.Added)
	}

	checkout := paths.SourceCheckoutDir(src.ID)
	got := vcs.sparse[checkout]
	want := []string{".claude/skills", "skills-root/pdf"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("sparse set = %v, want %v", got, want)
	}

	store := warehouse.New(paths)
	pkg, err := store.Locate("pdf")
	if err != nil {
		t.Fatalf("Locate(pdf): %v", err)
	}
	if pkg.State != warehouse.StateDisabled {
		t.Errorf("pdf imported as %s, want disabled", pkg.State)
	}
	if _, err := store.Locate("sql"); err == nil {
		t.Error("package without a placeholder was imported")
	}
}

func TestWholeRepoIsSinglePackage(t *testing.T) {
	vcs := newFakeVCS()
	url := "https://github.com/acme/pdf-skill.git"
	vcs.files[url] = map[string]string{
		"SKILL.md":      skillFile("pdf-skill"),
		"scripts/go.sh": "#!/bin/sh\n",
	}
	vcs.head[url] = "rev1"

	syn, paths := testSyncer(t, vcs)
	_, result, err := syn.AddSource(context.Background(), "acme/pdf-skill")
	if err != nil {
		t.Fatal(err)
	}
	if result.Added != 1 {
		t.Errorf("Added = %d, want 1", result.Added)
	}

	// Single-package repositories are named after the repo
	pkg, err := warehouse.New(paths).Locate("pdf-skill")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(pkg.Path, "scripts", "go.sh")); err != nil {
		t.Errorf("nested content missing: %v", err)
	}
}

func TestCheckForUpdates(t *testing.T) {
	vcs := newFakeVCS()
	url := "https://github.com/acme/skills.git"
	vcs.files[url] = map[string]string{"pdf/SKILL.md": skillFile("pdf")}
	vcs.head[url] = "rev1"

	syn, paths := testSyncer(t, vcs)
	if _, _, err := syn.AddSource(context.Background(), "acme/skills"); err != nil {
		t.Fatal(err)
	}

	has, err := syn.CheckForUpdates(context.Background(), "acme-skills")
	if err != nil {
		t.Fatal(err)
	}
	if has {
		t.Error("update reported with remote head unchanged")
	}

	vcs.head[url] = "rev2"
	has, err = syn.CheckForUpdates(context.Background(), "acme-skills")
	if err != nil {
		t.Fatal(err)
	}
	if !has {
		t.Error("no update reported after remote head moved")
	}

	// Outcome is cached on the record
	src, err := syn.getSource("acme-skills")
	if err != nil {
		t.Fatal(err)
	}
	if !src.HasUpdate || src.LastChecked.IsZero() {
		t.Errorf("record not updated: HasUpdate=%v LastChecked=%v", src.HasUpdate, src.LastChecked)
	}

	// A missing checkout always counts as an update
	if err := os.RemoveAll(paths.SourceCheckoutDir("acme-skills")); err != nil {
		t.Fatal(err)
	}
	has, err = syn.CheckForUpdates(context.Background(), "acme-skills")
	if err != nil {
		t.Fatal(err)
	}
	if !has {
		t.Error("missing checkout not reported as update")
	}
}

func TestRemoveSourceKeepsPackages(t *testing.T) {
	vcs := newFakeVCS()
	url := "https://github.com/acme/skills.git"
	vcs.files[url] = map[string]string{"pdf/SKILL.md": skillFile("pdf")}
	vcs.head[url] = "rev1"

	syn, paths := testSyncer(t, vcs)
	if _, _, err := syn.AddSource(context.Background(), "acme/skills"); err != nil {
		t.Fatal(err)
	}

	if err := syn.RemoveSource("acme-skills"); err != nil {
		t.Fatalf("RemoveSource() error: %v", err)
	}

	if _, err := os.Stat(paths.SourceCheckoutDir("acme-skills")); !os.IsNotExist(err) {
		t.Error("checkout survived RemoveSource()")
	}
	sources, err := syn.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(sources) != 0 {
		t.Errorf("registry holds %d source(s) after removal", len(sources))
	}
	if _, err := warehouse.New(paths).Locate("pdf"); err != nil {
		t.Errorf("imported package removed with its source: %v", err)
	}
}

func TestPullFailureReclones(t *testing.T) {
	vcs := newFakeVCS()
	url := "https://github.com/acme/skills.git"
	vcs.files[url] = map[string]string{"pdf/SKILL.md": skillFile("pdf")}
	vcs.head[url] = "rev1"

	syn, _ := testSyncer(t, vcs)
	if _, _, err := syn.AddSource(context.Background(), "acme/skills"); err != nil {
		t.Fatal(err)
	}

	vcs.failPull = true
	vcs.head[url] = "rev2"
	result, err := syn.SyncSource(context.Background(), "acme-skills")
	if err != nil {
		t.Fatalf("SyncSource() error: %v", err)
	}
	if vcs.clones != 2 {
		t.Errorf("clones = %d, want reclone after failed pull", vcs.clones)
	}
	if result.Revision != "rev2" {
		t.Errorf("Revision = %q, want rev2", result.Revision)
	}
}
