package mover

import (
	"os"
	"path/filepath"
	"testing"
)

func makeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func checkTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, want := range files {
		data, err := os.ReadFile(filepath.Join(root, rel))
		if err != nil {
			t.Errorf("missing %s: %v", rel, err)
			continue
		}
		if string(data) != want {
			t.Errorf("%s = %q, want %q", rel, data, want)
		}
	}
}

func TestMoveRename(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dest := filepath.Join(dir, "dest")

	files := map[string]string{
		"SKILL.md":        "skill\n",
		"scripts/run.sh":  "#!/bin/sh\n",
		"deep/a/b/c.txt":  "nested\n",
		"deep/a/b/d.json": "{}\n",
	}
	makeTree(t, src, files)

	result, err := New().Move(src, dest)
	if err != nil {
		t.Fatalf("Move() error: %v", err)
	}
	if result.SoftSuccess {
		t.Error("plain rename reported soft success")
	}

	checkTree(t, dest, files)
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Error("src still exists after Move()")
	}
}

func TestMoveOverwritesDest(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dest := filepath.Join(dir, "dest")

	makeTree(t, src, map[string]string{"SKILL.md": "new\n"})
	makeTree(t, dest, map[string]string{"SKILL.md": "old\n", "stale.txt": "stale\n"})

	if _, err := New().Move(src, dest); err != nil {
		t.Fatalf("Move() error: %v", err)
	}

	checkTree(t, dest, map[string]string{"SKILL.md": "new\n"})
	if _, err := os.Stat(filepath.Join(dest, "stale.txt")); !os.IsNotExist(err) {
		t.Error("stale destination file survived overwrite move")
	}
}

func TestMoveCreatesDestParent(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dest := filepath.Join(dir, "not", "yet", "there", "dest")
	makeTree(t, src, map[string]string{"SKILL.md": "x\n"})

	if _, err := New().Move(src, dest); err != nil {
		t.Fatalf("Move() error: %v", err)
	}
	checkTree(t, dest, map[string]string{"SKILL.md": "x\n"})
}

func TestMoveMissingSrc(t *testing.T) {
	dir := t.TempDir()
	_, err := NewWithPolicy(1, 0).Move(filepath.Join(dir, "ghost"), filepath.Join(dir, "dest"))
	if err == nil {
		t.Fatal("Move(missing src) succeeded")
	}
	if _, statErr := os.Stat(filepath.Join(dir, "dest")); !os.IsNotExist(statErr) {
		t.Error("failed move left a destination behind")
	}
}

func TestCopyTree(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")

	files := map[string]string{"a.txt": "a\n", "sub/b.txt": "b\n"}
	makeTree(t, src, files)

	if err := CopyTree(src, dst); err != nil {
		t.Fatalf("CopyTree() error: %v", err)
	}
	checkTree(t, dst, files)
	// Source untouched
	checkTree(t, src, files)
}

func TestCopyTreeSingleFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "file.txt")
	if err := os.WriteFile(src, []byte("content"), 0755); err != nil {
		t.Fatal(err)
	}

	dst := filepath.Join(dir, "copied.txt")
	if err := CopyTree(src, dst); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(dst)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0755 {
		t.Errorf("mode = %v, want 0755 preserved", info.Mode().Perm())
	}
}
