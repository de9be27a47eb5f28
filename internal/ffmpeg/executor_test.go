package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func TestExitCode(t *testing.T) {
	if got := ExitCode(nil); got != 0 {
		t.Errorf("ExitCode(nil) = %d, want 0", got)
	}
	if got := ExitCode(errors.New("spawn failed")); got != -1 {
		t.Errorf("ExitCode(non-exit error) = %d, want -1", got)
	}
}

func TestExecute_MissingBinary(t *testing.T) {
	res := Execute(context.Background(), []string{"/nonexistent/joinmaster-test-tool"}, false)
	if res.Err == nil {
		t.Fatal("expected error for missing binary")
	}
	if got := ExitCode(res.Err); got != -1 {
		t.Errorf("ExitCode = %d, want -1", got)
	}
}

func TestExecute_CapturesStderrAndExitCode(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not installed")
	}

	res := Execute(context.Background(), []string{"sh", "-c", "echo boom >&2; exit 3"}, false)
	if res.Err == nil {
		t.Fatal("expected error for exit 3")
	}
	if got := ExitCode(res.Err); got != 3 {
		t.Errorf("ExitCode = %d, want 3", got)
	}
	if !strings.Contains(res.Stderr, "boom") {
		t.Errorf("Stderr = %q, want to contain %q", res.Stderr, "boom")
	}
}

func TestTrim_NoTrimPointsCopiesWithoutTool(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "join1__a.mp4")
	if err := os.WriteFile(src, []byte("segment payload"), 0o644); err != nil {
		t.Fatal(err)
	}

	// Empty PATH proves nothing gets spawned.
	t.Setenv("PATH", dir)

	job := TrimJob{Input: src, Output: filepath.Join(dir, "copy.mp4")}
	if err := Trim(context.Background(), job, false); err != nil {
		t.Fatalf("Trim: %v", err)
	}
	data, err := os.ReadFile(job.Output)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "segment payload" {
		t.Errorf("copied content = %q", string(data))
	}
}

func TestTrim_NoTrimPointsSamePathIsNoOp(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "join1__a.mp4")
	if err := os.WriteFile(src, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", dir)

	job := TrimJob{Input: src, Output: src}
	if err := Trim(context.Background(), job, false); err != nil {
		t.Fatalf("Trim: %v", err)
	}
	data, _ := os.ReadFile(src)
	if string(data) != "x" {
		t.Errorf("content changed: %q", string(data))
	}
}

func TestTrim_BadInputReturnsTrimError(t *testing.T) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not installed")
	}

	dir := t.TempDir()
	job := TrimJob{
		Input:  filepath.Join(dir, "missing.mp4"),
		Output: filepath.Join(dir, "trimmed_missing.mp4"),
	}

	err := Trim(context.Background(), job, false)
	var trimErr *TrimError
	if !errors.As(err, &trimErr) {
		t.Fatalf("err = %v, want *TrimError", err)
	}
	if trimErr.File != "missing.mp4" {
		t.Errorf("File = %q, want %q", trimErr.File, "missing.mp4")
	}
	if trimErr.Code == 0 {
		t.Error("Code = 0, want nonzero")
	}
	if trimErr.Stderr == "" {
		t.Error("Stderr empty, want ffmpeg's complaint")
	}
	if _, statErr := os.Stat(job.Output); !errors.Is(statErr, fs.ErrNotExist) {
		t.Errorf("partial output left behind (stat err = %v)", statErr)
	}
}

func TestConcat_BadListEntryReturnsConcatError(t *testing.T) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not installed")
	}

	dir := t.TempDir()
	listPath := filepath.Join(dir, "join.txt")
	if err := os.WriteFile(listPath, []byte("file 'missing.mp4'\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	job := ConcatJob{
		ListPath: listPath,
		Output:   filepath.Join(dir, "output.mp4"),
		Codec:    "copy",
	}

	err := Concat(context.Background(), job, false)
	var concatErr *ConcatError
	if !errors.As(err, &concatErr) {
		t.Fatalf("err = %v, want *ConcatError", err)
	}
	if concatErr.Output != "output.mp4" {
		t.Errorf("Output = %q, want %q", concatErr.Output, "output.mp4")
	}
	if concatErr.Code == 0 {
		t.Error("Code = 0, want nonzero")
	}
	if _, statErr := os.Stat(job.Output); !errors.Is(statErr, fs.ErrNotExist) {
		t.Errorf("partial deliverable left behind (stat err = %v)", statErr)
	}
}

func TestErrorMessages(t *testing.T) {
	trimErr := &TrimError{File: "join2__b.mp4", Code: 1}
	if got, want := trimErr.Error(), "trimming join2__b.mp4 failed (ffmpeg exit code 1)"; got != want {
		t.Errorf("TrimError = %q, want %q", got, want)
	}

	concatErr := &ConcatError{Output: "output.mp4", Code: 187}
	if got, want := concatErr.Error(), "joining into output.mp4 failed (ffmpeg exit code 187)"; got != want {
		t.Errorf("ConcatError = %q, want %q", got, want)
	}

	wrapped := fmt.Errorf("join step: %w", trimErr)
	var asTrim *TrimError
	if !errors.As(wrapped, &asTrim) {
		t.Error("TrimError lost through wrapping")
	}
}
