package scan

import (
	"os"
	"path/filepath"
	"testing"
)

func writeSized(t *testing.T, path string, size int) {
	t.Helper()
	if err := os.WriteFile(path, make([]byte, size), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFilterVideoFilesSizeThreshold(t *testing.T) {
	dir := t.TempDir()
	writeSized(t, filepath.Join(dir, "small.mkv"), 50)
	writeSized(t, filepath.Join(dir, "large.mkv"), 150)

	filter := NewFileFilter(nil)
	got, err := filter.FilterVideoFiles([]string{dir}, []string{"*.mkv"}, 100)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || filepath.Base(got[0]) != "large.mkv" {
		t.Fatalf("got %v", got)
	}
}

func TestFilterVideoFilesFirstMatchDeduplication(t *testing.T) {
	dir := t.TempDir()
	writeSized(t, filepath.Join(dir, "Alpha.mkv"), 200)

	filter := NewFileFilter(nil)
	got, err := filter.FilterVideoFiles([]string{dir}, []string{"*.mkv", "A*"}, 100)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("file matching two patterns must appear once: %v", got)
	}
}

func TestFilterVideoFilesEarlierPatternClaimsFile(t *testing.T) {
	dir := t.TempDir()
	// Undersized file claimed by the first pattern must not be
	// reconsidered by the second.
	writeSized(t, filepath.Join(dir, "Alpha.mkv"), 50)

	filter := NewFileFilter(nil)
	got, err := filter.FilterVideoFiles([]string{dir}, []string{"*.mkv", "A*"}, 100)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("claimed undersized file must stay excluded: %v", got)
	}
}

func TestFilterVideoFilesNoDirectories(t *testing.T) {
	filter := NewFileFilter(nil)
	got, err := filter.FilterVideoFiles([]string{filepath.Join(t.TempDir(), "missing")}, []string{"*.mkv"}, 0)
	if err != nil {
		t.Fatalf("missing directories must not error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty result, got %v", got)
	}
}

func TestFilterVideoFilesMultipleDirs(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()
	writeSized(t, filepath.Join(dirA, "one.mkv"), 200)
	writeSized(t, filepath.Join(dirB, "two.mkv"), 200)

	filter := NewFileFilter(nil)
	got, err := filter.FilterVideoFiles([]string{dirA, dirB}, []string{"*.mkv"}, 100)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %v", got)
	}
}

func TestFilterVideoFilesRequiresPatterns(t *testing.T) {
	filter := NewFileFilter(nil)
	if _, err := filter.FilterVideoFiles([]string{t.TempDir()}, nil, 0); err == nil {
		t.Fatal("expected error for empty pattern list")
	}
}

func TestFilterVideoFilesMalformedPattern(t *testing.T) {
	filter := NewFileFilter(nil)
	if _, err := filter.FilterVideoFiles([]string{t.TempDir()}, []string{"[x"}, 0); err == nil {
		t.Fatal("expected error for malformed pattern")
	}
}
