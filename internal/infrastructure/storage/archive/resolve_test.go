package archive

import (
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("touch %s: %v", path, err)
	}
}

func TestNextAvailablePathFreePathUnchanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.pdf")
	if got := NextAvailablePath(path); got != path {
		t.Fatalf("expected %q, got %q", path, got)
	}
}

func TestNextAvailablePathAppendsCounter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "2024-05-15 - Finanzamt - Bescheid.pdf")
	touch(t, path)

	want := filepath.Join(dir, "2024-05-15 - Finanzamt - Bescheid (1).pdf")
	if got := NextAvailablePath(path); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}

	touch(t, want)
	want2 := filepath.Join(dir, "2024-05-15 - Finanzamt - Bescheid (2).pdf")
	if got := NextAvailablePath(path); got != want2 {
		t.Fatalf("expected %q, got %q", want2, got)
	}
}

func TestNextAvailablePathSkipsTakenCounters(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.pdf")
	touch(t, path)
	touch(t, filepath.Join(dir, "doc (1).pdf"))
	touch(t, filepath.Join(dir, "doc (2).pdf"))

	want := filepath.Join(dir, "doc (3).pdf")
	if got := NextAvailablePath(path); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
