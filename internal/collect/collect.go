// Package collect scans a directory for segment files and orders them by
// the numeric index embedded in their names.
package collect

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
)

// ErrNoMatches is returned when no directory entry matches the pattern.
// Callers treat it as "nothing to do" rather than a hard failure.
var ErrNoMatches = errors.New("no files match the segment pattern")

// Match is one discovered segment file with its ordering index.
type Match struct {
	Name  string
	Index int
}

// Collect reads dir (non-recursive) and returns the entries whose names
// match pattern, ordered by the numeric index captured by the pattern's
// first group. Plain lexicographic order would put join10 before join9, so
// the index is compared numerically; ties fall back to the full name for a
// deterministic run order.
func Collect(dir string, pattern *regexp.Regexp) ([]Match, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var matches []Match
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := pattern.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		idx, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, fmt.Errorf("pattern matched %q but index capture %q is not numeric", e.Name(), m[1])
		}
		matches = append(matches, Match{Name: e.Name(), Index: idx})
	}

	if len(matches) == 0 {
		return nil, ErrNoMatches
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Index != matches[j].Index {
			return matches[i].Index < matches[j].Index
		}
		return matches[i].Name < matches[j].Name
	})
	return matches, nil
}

// Names returns the filenames of matches, keeping their order.
func Names(matches []Match) []string {
	names := make([]string, len(matches))
	for i, m := range matches {
		names[i] = m.Name
	}
	return names
}
