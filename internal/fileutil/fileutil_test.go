package fileutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "dst.txt")

	content := []byte("hello world")
	if err := os.WriteFile(src, content, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := CopyFile(src, dst); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(content) {
		t.Fatalf("content mismatch: got %q, want %q", got, content)
	}
}

func TestCopyFileMissingSource(t *testing.T) {
	dir := t.TempDir()
	if err := CopyFile(filepath.Join(dir, "nope"), filepath.Join(dir, "dst")); err == nil {
		t.Fatal("expected error for missing source")
	}
}

func TestCopyFileVerified(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	dst := filepath.Join(dir, "dst.bin")

	content := []byte("verified copy content")
	if err := os.WriteFile(src, content, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := CopyFileVerified(src, dst); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(content) {
		t.Fatalf("content mismatch: got %q", got)
	}
}

func TestCopyFileVerifiedReadsDestinationBack(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	if err := os.WriteFile(src, []byte("payload"), 0o644); err != nil {
		t.Fatal(err)
	}

	// The verification hash must come from the destination on disk, so
	// distinct content must yield distinct sums.
	other := filepath.Join(dir, "other.bin")
	if err := os.WriteFile(other, []byte("different"), 0o644); err != nil {
		t.Fatal(err)
	}

	srcSum, err := hashFile(src)
	if err != nil {
		t.Fatal(err)
	}
	otherSum, err := hashFile(other)
	if err != nil {
		t.Fatal(err)
	}
	if string(srcSum) == string(otherSum) {
		t.Fatal("hashFile must distinguish differing content")
	}

	dst := filepath.Join(dir, "dst.bin")
	if err := CopyFileVerified(src, dst); err != nil {
		t.Fatal(err)
	}
	dstSum, err := hashFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(dstSum) != string(srcSum) {
		t.Fatal("destination hash must match source after a clean copy")
	}
}

func TestSanitizeFileName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Show: Part 1/2", "Show- Part 1-2"},
		{"What? <Why>", "What"},
		{"  trimmed  ", "trimmed"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := SanitizeFileName(tc.in); got != tc.want {
			t.Errorf("SanitizeFileName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestUniquePath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "episode.mkv")

	if got := UniquePath(path); got != path {
		t.Fatalf("free path should pass through: got %q", got)
	}

	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	got := UniquePath(path)
	want := filepath.Join(dir, "episode (1).mkv")
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
