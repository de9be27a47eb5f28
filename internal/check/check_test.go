package check

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"testing"
)

type mockLogger struct {
	lines []string
}

func (m *mockLogger) logf(level, format string, args ...interface{}) {
	m.lines = append(m.lines, level+": "+fmt.Sprintf(format, args...))
}

func (m *mockLogger) Info(f string, a ...interface{})    { m.logf("INFO", f, a...) }
func (m *mockLogger) Success(f string, a ...interface{}) { m.logf("SUCCESS", f, a...) }
func (m *mockLogger) Warn(f string, a ...interface{})    { m.logf("WARN", f, a...) }
func (m *mockLogger) Error(f string, a ...interface{})   { m.logf("ERROR", f, a...) }
func (m *mockLogger) Debug(v bool, f string, a ...interface{}) {
	if v {
		m.logf("DEBUG", f, a...)
	}
}

func (m *mockLogger) contains(sub string) bool {
	for _, l := range m.lines {
		if strings.Contains(l, sub) {
			return true
		}
	}
	return false
}

func TestCheckDeps_MissingTools(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	err := CheckDeps()
	if !errors.Is(err, ErrFfmpegNotFound) {
		t.Errorf("CheckDeps = %v, want ErrFfmpegNotFound", err)
	}
}

func TestRunCheck_MissingTools(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	log := &mockLogger{}
	if RunCheck(log) {
		t.Error("RunCheck = true with no tools on PATH")
	}
	if !log.contains("ERROR: ffmpeg not found") {
		t.Errorf("missing ffmpeg error, got lines: %v", log.lines)
	}
	if !log.contains("ERROR: ffprobe not found") {
		t.Errorf("missing ffprobe error, got lines: %v", log.lines)
	}
}

func TestCheckDeps_ToolsPresent(t *testing.T) {
	requireTools(t)

	if err := CheckDeps(); err != nil {
		t.Errorf("CheckDeps = %v, want nil", err)
	}
}

func TestRunCheck_ToolsPresent(t *testing.T) {
	requireTools(t)

	log := &mockLogger{}
	if !RunCheck(log) {
		t.Errorf("RunCheck = false, lines: %v", log.lines)
	}
	if !log.contains("concat demuxer available") {
		t.Errorf("missing concat demuxer line, got: %v", log.lines)
	}
}

func requireTools(t *testing.T) {
	t.Helper()
	for _, tool := range []string{"ffmpeg", "ffprobe"} {
		if _, err := exec.LookPath(tool); err != nil {
			t.Skipf("%s not available", tool)
		}
	}
}
