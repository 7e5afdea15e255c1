package notes

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNotesRoundTrip(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "dock", "notes.json"))

	// Absent note reads as empty, not as an error
	note, err := store.Get("pdf")
	if err != nil || note != "" {
		t.Fatalf("Get(absent) = %q, %v", note, err)
	}

	if err := store.Set("pdf", "pin to v2 until the export bug is fixed"); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if err := store.Set("sql", "team-internal"); err != nil {
		t.Fatal(err)
	}

	note, err = store.Get("pdf")
	if err != nil {
		t.Fatal(err)
	}
	if note != "pin to v2 until the export bug is fixed" {
		t.Errorf("Get() = %q", note)
	}

	keys, err := store.Keys()
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 2 || keys[0] != "pdf" || keys[1] != "sql" {
		t.Errorf("Keys() = %v", keys)
	}
}

func TestNotesOverwriteAndDelete(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "notes.json"))

	if err := store.Set("pdf", "first"); err != nil {
		t.Fatal(err)
	}
	if err := store.Set("pdf", "second"); err != nil {
		t.Fatal(err)
	}
	note, err := store.Get("pdf")
	if err != nil || note != "second" {
		t.Fatalf("Get() after overwrite = %q, %v", note, err)
	}

	if err := store.Delete("pdf"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	note, err = store.Get("pdf")
	if err != nil || note != "" {
		t.Errorf("Get() after delete = %q, %v", note, err)
	}

	// Deleting again is fine
	if err := store.Delete("pdf"); err != nil {
		t.Errorf("second Delete() error: %v", err)
	}
}

func TestNotesCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.json")
	if err := os.WriteFile(path, []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := NewStore(path).Get("pdf"); err == nil {
		t.Error("Get() on corrupt file returned nil error")
	}
}
