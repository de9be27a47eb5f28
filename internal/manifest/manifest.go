// Package manifest reads and writes the concat demuxer list that feeds the
// join step.
package manifest

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Filename is the transient list file written next to the segments.
const Filename = "join.txt"

// Write materializes the ordered names as a concat demuxer list at path.
// Entries are bare filenames; the demuxer resolves them relative to the
// list file's own directory.
func Write(path string, names []string) error {
	var b strings.Builder
	for _, name := range names {
		b.WriteString(Line(name))
		b.WriteByte('\n')
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

// Line formats one list entry. A single quote inside the name closes the
// quoted section, emits an escaped quote, and reopens it, which is the
// quoting the demuxer expects.
func Line(name string) string {
	return "file '" + strings.ReplaceAll(name, "'", `'\''`) + "'"
}

// Read parses the list at path back into the ordered names.
func Read(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads a concat demuxer list, skipping blank lines and comments.
func Parse(r io.Reader) ([]string, error) {
	var names []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		rest, ok := strings.CutPrefix(line, "file ")
		if !ok {
			return nil, fmt.Errorf("unexpected list line %q", line)
		}
		names = append(names, unquote(strings.TrimSpace(rest)))
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return names, nil
}

func unquote(s string) string {
	if len(s) >= 2 && strings.HasPrefix(s, "'") && strings.HasSuffix(s, "'") {
		return strings.ReplaceAll(s[1:len(s)-1], `'\''`, "'")
	}
	return s
}
