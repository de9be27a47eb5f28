package collect

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/backmassage/joinmaster/internal/config"
)

func defaultRE(t *testing.T) *regexp.Regexp {
	t.Helper()
	return regexp.MustCompile(config.DefaultPattern)
}

func touch(t *testing.T, dir, name string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte{}, 0o644); err != nil {
		t.Fatalf("touch %s: %v", path, err)
	}
}

func TestCollect_NumericIndexOrder(t *testing.T) {
	dir := t.TempDir()
	// Created out of order on purpose; lexicographic order would yield
	// join1, join10, join2.
	touch(t, dir, "join10__outro.mp4")
	touch(t, dir, "join2__body.mp4")
	touch(t, dir, "join1__intro.mp4")

	matches, err := Collect(dir, defaultRE(t))
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}

	want := []string{"join1__intro.mp4", "join2__body.mp4", "join10__outro.mp4"}
	got := Names(matches)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestCollect_TieBrokenLexicographically(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "join3__beta.mp4")
	touch(t, dir, "join3__alpha.mp4")

	matches, err := Collect(dir, defaultRE(t))
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if matches[0].Name != "join3__alpha.mp4" || matches[1].Name != "join3__beta.mp4" {
		t.Errorf("tie order: got %v", Names(matches))
	}
}

func TestCollect_IgnoresNonMatching(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "join1__intro.mp4")
	touch(t, dir, "notes.txt")
	touch(t, dir, "output.mp4")
	touch(t, dir, "join2__body.mkv") // wrong extension
	touch(t, dir, "joinX__bad.mp4")  // non-numeric index
	os.MkdirAll(filepath.Join(dir, "join5__dir.mp4"), 0o755)

	matches, err := Collect(dir, defaultRE(t))
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(matches) != 1 || matches[0].Name != "join1__intro.mp4" {
		t.Errorf("got %v, want only join1__intro.mp4", Names(matches))
	}
}

func TestCollect_EmptyDirReturnsErrNoMatches(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "unrelated.mp4")

	_, err := Collect(dir, defaultRE(t))
	if !errors.Is(err, ErrNoMatches) {
		t.Errorf("got %v, want ErrNoMatches", err)
	}
}

func TestCollect_MissingDir(t *testing.T) {
	_, err := Collect(filepath.Join(t.TempDir(), "nope"), defaultRE(t))
	if err == nil {
		t.Error("expected error for missing directory")
	}
	if errors.Is(err, ErrNoMatches) {
		t.Error("a missing directory is a hard error, not an empty result")
	}
}

func TestCollect_CustomPattern(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "part2.mkv")
	touch(t, dir, "part10.mkv")
	touch(t, dir, "join1__intro.mp4")

	re := regexp.MustCompile(`^part(\d+)\.mkv$`)
	matches, err := Collect(dir, re)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	want := []string{"part2.mkv", "part10.mkv"}
	got := Names(matches)
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestCollect_NonNumericCapture(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "clip_a.mp4")

	re := regexp.MustCompile(`^clip_(\w+)\.mp4$`)
	_, err := Collect(dir, re)
	if err == nil {
		t.Error("expected error when the capture group is not numeric")
	}
}

func TestCollect_IndexValue(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "join42__answer.mp4")

	matches, err := Collect(dir, defaultRE(t))
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if matches[0].Index != 42 {
		t.Errorf("Index = %d, want 42", matches[0].Index)
	}
}
