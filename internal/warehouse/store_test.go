package warehouse

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/haimv/skilldock/internal/config"
	dockerrors "github.com/haimv/skilldock/internal/errors"
	"github.com/haimv/skilldock/internal/mover"
)

func testStore(t *testing.T) (*Store, *config.Paths) {
	t.Helper()
	t.Setenv("SKILLDOCK_DIR", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	paths, err := config.ResolvePaths()
	if err != nil {
		t.Fatal(err)
	}
	store := New(paths)
	if err := store.Initialize(); err != nil {
		t.Fatal(err)
	}
	return store, paths
}

func addPackage(t *testing.T, paths *config.Paths, partition, name string) {
	t.Helper()
	dir := filepath.Join(paths.PartitionDir(partition), name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	content := "---\ndescription: test skill " + name + "\n---\nbody\n"
	if err := os.WriteFile(filepath.Join(dir, config.MarkerFile), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestInitializeIdempotent(t *testing.T) {
	store, paths := testStore(t)

	if err := store.Initialize(); err != nil {
		t.Fatalf("second Initialize() error: %v", err)
	}
	for _, dir := range []string{paths.EnabledDir(), paths.DisabledDir()} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Errorf("partition %s missing after Initialize()", dir)
		}
	}
}

func TestEnumerateOrdering(t *testing.T) {
	store, paths := testStore(t)
	addPackage(t, paths, config.PartitionDisabled, "beta")
	addPackage(t, paths, config.PartitionEnabled, "zeta")
	addPackage(t, paths, config.PartitionEnabled, "alpha")

	packages, err := store.Enumerate()
	if err != nil {
		t.Fatal(err)
	}
	if len(packages) != 3 {
		t.Fatalf("Enumerate() returned %d, want 3", len(packages))
	}

	// Enabled first, each partition sorted by name
	want := []struct {
		name  string
		state State
	}{
		{"alpha", StateEnabled},
		{"zeta", StateEnabled},
		{"beta", StateDisabled},
	}
	for i, w := range want {
		if packages[i].Name != w.name || packages[i].State != w.state {
			t.Errorf("packages[%d] = %s/%s, want %s/%s",
				i, packages[i].Name, packages[i].State, w.name, w.state)
		}
	}
}

func TestLocate(t *testing.T) {
	store, paths := testStore(t)
	addPackage(t, paths, config.PartitionDisabled, "findme")

	pkg, err := store.Locate("findme")
	if err != nil {
		t.Fatalf("Locate() error: %v", err)
	}
	if pkg.State != StateDisabled {
		t.Errorf("State = %s, want disabled", pkg.State)
	}

	_, err = store.Locate("ghost")
	if !errors.Is(err, dockerrors.ErrNotFound) {
		t.Errorf("Locate(ghost) = %v, want ErrNotFound", err)
	}
}

func TestSetStateMovesNeverCopies(t *testing.T) {
	store, paths := testStore(t)
	addPackage(t, paths, config.PartitionDisabled, "skill")

	m := mover.NewWithPolicy(1, 0)
	if _, err := store.Enable("skill", m); err != nil {
		t.Fatalf("Enable() error: %v", err)
	}

	if _, err := os.Stat(filepath.Join(paths.EnabledDir(), "skill")); err != nil {
		t.Error("package missing from enabled partition")
	}
	if _, err := os.Stat(filepath.Join(paths.DisabledDir(), "skill")); !os.IsNotExist(err) {
		t.Error("package still present in disabled partition after enable")
	}

	// Toggle back and forth; the name must never exist in both partitions
	for i := 0; i < 3; i++ {
		if _, err := store.Disable("skill", m); err != nil {
			t.Fatal(err)
		}
		if _, err := store.Enable("skill", m); err != nil {
			t.Fatal(err)
		}
		enabledExists := exists(filepath.Join(paths.EnabledDir(), "skill"))
		disabledExists := exists(filepath.Join(paths.DisabledDir(), "skill"))
		if enabledExists == disabledExists {
			t.Fatalf("iteration %d: enabled=%v disabled=%v, want exactly one", i, enabledExists, disabledExists)
		}
	}
}

func TestSetStateNoOp(t *testing.T) {
	store, paths := testStore(t)
	addPackage(t, paths, config.PartitionEnabled, "skill")

	result, err := store.Enable("skill", mover.NewWithPolicy(1, 0))
	if err != nil {
		t.Fatalf("Enable(already enabled) error: %v", err)
	}
	if result.SoftSuccess {
		t.Error("no-op reported soft success")
	}
	if !exists(filepath.Join(paths.EnabledDir(), "skill")) {
		t.Error("package vanished on no-op enable")
	}
}

func TestSidecarRoundTrip(t *testing.T) {
	store, paths := testStore(t)
	addPackage(t, paths, config.PartitionDisabled, "imported")

	pkgDir := filepath.Join(paths.DisabledDir(), "imported")
	sc := &Sidecar{
		Source:      "acme-skills",
		SourceURL:   "https://github.com/acme/skills.git",
		InstallDate: time.Now(),
		CommitHash:  "abc123",
	}
	if err := WriteSidecar(pkgDir, sc); err != nil {
		t.Fatal(err)
	}

	pkg, err := store.Locate("imported")
	if err != nil {
		t.Fatal(err)
	}
	if pkg.Sidecar == nil {
		t.Fatal("Sidecar = nil after WriteSidecar")
	}
	if pkg.Sidecar.Source != "acme-skills" || pkg.Sidecar.CommitHash != "abc123" {
		t.Errorf("Sidecar = %+v", pkg.Sidecar)
	}
}

func TestRemove(t *testing.T) {
	store, paths := testStore(t)
	addPackage(t, paths, config.PartitionEnabled, "doomed")

	if err := store.Remove("doomed"); err != nil {
		t.Fatal(err)
	}
	if exists(filepath.Join(paths.EnabledDir(), "doomed")) {
		t.Error("package still present after Remove()")
	}
	if err := store.Remove("doomed"); !errors.Is(err, dockerrors.ErrNotFound) {
		t.Errorf("second Remove() = %v, want ErrNotFound", err)
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
