package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
)

// ExecResult holds the outcome of a single external invocation.
type ExecResult struct {
	Stderr string
	Err    error
}

// Execute runs the prepared argument list. Stderr is always captured for
// error reporting; when verbose is set it is additionally streamed to the
// terminal as the tool writes it. Stdout is discarded: with -loglevel error
// ffmpeg writes nothing useful there.
func Execute(ctx context.Context, args []string, verbose bool) ExecResult {
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)

	var stderrBuf bytes.Buffer
	if verbose {
		cmd.Stderr = io.MultiWriter(&stderrBuf, os.Stderr)
	} else {
		cmd.Stderr = &stderrBuf
	}

	err := cmd.Run()
	return ExecResult{Stderr: stderrBuf.String(), Err: err}
}

// ExitCode extracts the process exit code from a Run error. Nil maps to 0.
// Errors that never produced a process (binary missing, context canceled
// before start) map to -1, matching what ExitCode reports for a signal kill.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// Trim runs the trim invocation for job. A job with no trim points never
// spawns the tool: the input is copied to the output, or left alone when
// the paths match. A nonzero exit comes back as a *TrimError naming the
// offending input; the partially written output is removed so a failed
// run leaves no truncated clip behind.
func Trim(ctx context.Context, job TrimJob, verbose bool) error {
	if !job.Start.IsSet() && !job.End.IsSet() {
		if job.Input == job.Output {
			return nil
		}
		return copyFile(job.Input, job.Output)
	}

	res := Execute(ctx, job.Args(), verbose)
	if res.Err == nil {
		return nil
	}
	removeIfExists(job.Output)
	return &TrimError{
		File:   filepath.Base(job.Input),
		Code:   ExitCode(res.Err),
		Stderr: res.Stderr,
	}
}

// Concat runs the join invocation for job. A nonzero exit comes back as a
// *ConcatError; the partially written deliverable is removed.
func Concat(ctx context.Context, job ConcatJob, verbose bool) error {
	res := Execute(ctx, job.Args(), verbose)
	if res.Err == nil {
		return nil
	}
	removeIfExists(job.Output)
	return &ConcatError{
		Output: filepath.Base(job.Output),
		Code:   ExitCode(res.Err),
		Stderr: res.Stderr,
	}
}

// copyFile is the no-trim path: plain byte copy, no process involved.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("copying %s: %w", filepath.Base(src), err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("copying %s: %w", filepath.Base(src), err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return fmt.Errorf("copying %s: %w", filepath.Base(src), err)
	}
	return out.Close()
}

func removeIfExists(path string) {
	if _, err := os.Stat(path); err == nil {
		os.Remove(path)
	}
}
