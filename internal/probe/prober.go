// Package probe provides ffprobe-based container inspection. A single JSON
// call per file covers everything the tool needs: the format section with
// the container duration used for end-relative trims.
package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// FormatInfo holds container-level metadata from ffprobe's format section.
type FormatInfo struct {
	Filename       string
	FormatName     string
	FormatLongName string
	Duration       float64
	Size           int64
	BitRate        int64
}

// Probe runs a single ffprobe JSON call against path and returns the
// parsed format section.
func Probe(ctx context.Context, path string) (*FormatInfo, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		path,
	)

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe %q: %w", path, err)
	}

	return ParseJSON(out)
}

// Duration returns the container duration of path in seconds. Some streams
// (raw elementary streams, broken files) carry no duration; that is an
// error here because end-relative trims cannot be computed without one.
func Duration(ctx context.Context, path string) (float64, error) {
	fi, err := Probe(ctx, path)
	if err != nil {
		return 0, err
	}
	if fi.Duration <= 0 {
		return 0, fmt.Errorf("ffprobe reported no duration for %q", path)
	}
	return fi.Duration, nil
}

// ParseJSON converts raw ffprobe JSON output into a FormatInfo.
// Exported for testing without a real ffprobe binary.
func ParseJSON(data []byte) (*FormatInfo, error) {
	var raw ffprobeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse ffprobe JSON: %w", err)
	}
	return convertFormat(&raw.Format), nil
}

// --- ffprobe JSON wire types ---

type ffprobeOutput struct {
	Format ffprobeFormat `json:"format"`
}

type ffprobeFormat struct {
	Filename       string `json:"filename"`
	FormatName     string `json:"format_name"`
	FormatLongName string `json:"format_long_name"`
	Duration       string `json:"duration"`
	Size           string `json:"size"`
	BitRate        string `json:"bit_rate"`
}

// --- Conversion from wire types to domain types ---

func convertFormat(f *ffprobeFormat) *FormatInfo {
	return &FormatInfo{
		Filename:       f.Filename,
		FormatName:     f.FormatName,
		FormatLongName: f.FormatLongName,
		Duration:       parseFloat(f.Duration),
		Size:           parseInt64(f.Size),
		BitRate:        parseInt64(f.BitRate),
	}
}

// --- Numeric parsing helpers (ffprobe returns numbers as strings) ---

func parseInt64(s string) int64 {
	s = strings.TrimSpace(s)
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}

func parseFloat(s string) float64 {
	s = strings.TrimSpace(s)
	f, _ := strconv.ParseFloat(s, 64)
	return f
}
