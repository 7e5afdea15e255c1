package dirlink

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCreateResolveRemove(t *testing.T) {
	dir := t.TempDir()
	mgr := New()

	target := filepath.Join(dir, "warehouse")
	if err := os.MkdirAll(target, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(target, "keep.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	linkPath := filepath.Join(dir, "tool", "skills")
	if err := mgr.Create(linkPath, target); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	isLink, err := mgr.IsLink(linkPath)
	if err != nil || !isLink {
		t.Fatalf("IsLink() = %v, %v, want true", isLink, err)
	}

	resolved, err := mgr.ResolveTarget(linkPath)
	if err != nil {
		t.Fatalf("ResolveTarget() error: %v", err)
	}
	if resolved != target {
		t.Errorf("ResolveTarget() = %q, want %q", resolved, target)
	}

	ok, err := mgr.PointsTo(linkPath, target)
	if err != nil || !ok {
		t.Errorf("PointsTo() = %v, %v, want true", ok, err)
	}

	if err := mgr.Remove(linkPath); err != nil {
		t.Fatalf("Remove() error: %v", err)
	}
	if _, err := os.Lstat(linkPath); !os.IsNotExist(err) {
		t.Error("link still exists after Remove()")
	}

	// Removing the link must never touch the target's contents
	if _, err := os.Stat(filepath.Join(target, "keep.txt")); err != nil {
		t.Errorf("target content lost after link removal: %v", err)
	}
}

func TestRemoveRejectsRealDirectory(t *testing.T) {
	dir := t.TempDir()
	realDir := filepath.Join(dir, "real")
	if err := os.MkdirAll(realDir, 0755); err != nil {
		t.Fatal(err)
	}

	if err := New().Remove(realDir); err == nil {
		t.Fatal("Remove(real directory) succeeded, want error")
	}
	if _, err := os.Stat(realDir); err != nil {
		t.Error("real directory was deleted by Remove()")
	}
}

func TestInspect(t *testing.T) {
	dir := t.TempDir()
	mgr := New()

	info, err := mgr.Inspect(filepath.Join(dir, "absent"))
	if err != nil {
		t.Fatal(err)
	}
	if info.Exists {
		t.Error("Inspect(absent).Exists = true")
	}

	target := filepath.Join(dir, "target")
	if err := os.MkdirAll(target, 0755); err != nil {
		t.Fatal(err)
	}
	linkPath := filepath.Join(dir, "link")
	if err := mgr.Create(linkPath, target); err != nil {
		t.Fatal(err)
	}

	info, err = mgr.Inspect(linkPath)
	if err != nil {
		t.Fatal(err)
	}
	if !info.Exists || !info.IsLink || info.IsBroken {
		t.Errorf("Inspect(link) = %+v", info)
	}
	if info.Target != target {
		t.Errorf("Target = %q, want %q", info.Target, target)
	}

	// Break the link by removing the target
	if err := os.RemoveAll(target); err != nil {
		t.Fatal(err)
	}
	info, err = mgr.Inspect(linkPath)
	if err != nil {
		t.Fatal(err)
	}
	if !info.IsBroken {
		t.Error("Inspect(broken link).IsBroken = false")
	}
}

func TestPointsToWrongTarget(t *testing.T) {
	dir := t.TempDir()
	mgr := New()

	target := filepath.Join(dir, "target")
	other := filepath.Join(dir, "other")
	for _, d := range []string{target, other} {
		if err := os.MkdirAll(d, 0755); err != nil {
			t.Fatal(err)
		}
	}

	linkPath := filepath.Join(dir, "link")
	if err := mgr.Create(linkPath, target); err != nil {
		t.Fatal(err)
	}

	ok, err := mgr.PointsTo(linkPath, other)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("PointsTo(wrong target) = true")
	}

	// A real directory is never "pointing" anywhere
	ok, err = mgr.PointsTo(other, target)
	if err != nil || ok {
		t.Errorf("PointsTo(real dir) = %v, %v, want false, nil", ok, err)
	}
}
