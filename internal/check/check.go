// Package check provides system diagnostics (--check mode) and pre-run
// dependency validation for ffmpeg and ffprobe.
package check

import (
	"errors"
	"os/exec"
	"strings"
)

// Sentinel errors returned by CheckDeps when a required tool is missing.
var (
	ErrFfmpegNotFound  = errors.New("ffmpeg not found on PATH")
	ErrFfprobeNotFound = errors.New("ffprobe not found on PATH")
)

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(bool, string, ...interface{})
}

// RunCheck runs the interactive --check flow: prints availability and
// versions of ffmpeg and ffprobe, and whether ffmpeg ships the concat
// demuxer the join step depends on. Returns false if anything required is
// missing.
func RunCheck(log Logger) bool {
	log.Info("=== System Check ===")

	ok := checkTool(log, "ffmpeg")
	ok = checkTool(log, "ffprobe") && ok
	ok = checkConcatDemuxer(log) && ok

	return ok
}

// checkTool verifies the tool is on PATH and logs its version line.
func checkTool(log Logger, name string) bool {
	if _, err := exec.LookPath(name); err != nil {
		log.Error("%s not found", name)
		return false
	}
	out, err := exec.Command(name, "-version").Output()
	if err != nil {
		log.Warn("%s found but -version failed: %v", name, err)
		return true
	}
	firstLine := strings.TrimSpace(string(out))
	if idx := strings.Index(firstLine, "\n"); idx > 0 {
		firstLine = firstLine[:idx]
	}
	log.Success("%s: %s", name, firstLine)
	return true
}

// checkConcatDemuxer scans ffmpeg's demuxer list for concat support.
func checkConcatDemuxer(log Logger) bool {
	out, err := exec.Command("ffmpeg", "-hide_banner", "-demuxers").Output()
	if err != nil {
		log.Warn("Could not list demuxers: %v", err)
		return true
	}
	for _, line := range strings.Split(string(out), "\n") {
		fields := strings.Fields(line)
		if len(fields) >= 2 && fields[1] == "concat" {
			log.Success("concat demuxer available")
			return true
		}
	}
	log.Error("concat demuxer not available in this ffmpeg build")
	return false
}

// CheckDeps is the pre-run validation: both external tools must be on
// PATH. ffprobe is required even for runs that never probe, so a missing
// install fails fast instead of halfway through a join.
func CheckDeps() error {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return ErrFfmpegNotFound
	}
	if _, err := exec.LookPath("ffprobe"); err != nil {
		return ErrFfprobeNotFound
	}
	return nil
}
