package storage

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestStoredNameKeepsSafeExtension(t *testing.T) {
	cases := map[string]string{
		"clip.mp4":            ".mp4",
		"archive.tar.GZ":      ".GZ",
		"noext":               ".bin",
		"":                    ".bin",
		"trailing.":           ".bin",
		"weird.m p4":          ".bin",
		"dir.d/file":          ".bin",
		"../../etc/passwd":    ".bin",
		"x.aaaaaaaaaaaaaaaaa": ".bin",
	}
	for original, want := range cases {
		got := StoredName(original)
		if !strings.HasSuffix(got, want) {
			t.Errorf("StoredName(%q) = %q, want suffix %q", original, got, want)
		}
		if strings.ContainsAny(got, `/\`) {
			t.Errorf("StoredName(%q) = %q contains a separator", original, got)
		}
	}
}

func TestStoredNameIsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		name := StoredName("same.mp4")
		if seen[name] {
			t.Fatalf("duplicate stored name %s", name)
		}
		seen[name] = true
	}
}

func TestWriteOpenRemove(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "nested", "videos"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	name := StoredName("a.mp4")
	n, err := store.Write(name, []byte("abc"))
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 bytes written, got %d", n)
	}

	if _, err := store.Write(name, []byte("again")); err == nil {
		t.Fatalf("expected overwrite to fail")
	}

	f, err := store.Open(name)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	data, err := io.ReadAll(f)
	f.Close()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "abc" {
		t.Fatalf("expected abc, got %q", data)
	}

	if err := store.Remove(name); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := os.Stat(filepath.Join(store.Dir(), name)); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected file removed, stat err %v", err)
	}
	if _, err := store.Open(name); !errors.Is(err, ErrMissing) {
		t.Fatalf("expected ErrMissing, got %v", err)
	}
}

func TestPathRejectsTraversal(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	for _, name := range []string{"", "..", "../x", "a/b", `a\b`, "/etc/passwd"} {
		if _, err := store.Path(name); !errors.Is(err, ErrInvalidName) {
			t.Errorf("Path(%q) err = %v, want ErrInvalidName", name, err)
		}
	}
}
