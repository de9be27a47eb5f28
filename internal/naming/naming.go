// Package naming derives the working filenames that surround a join: trim
// outputs, the in-progress deliverable, and archived sources. Keeping the
// derivations in one place means the pipeline and its cleanup step can
// never disagree about which files belong to a run.
package naming

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Prefixes for files derived from a source segment. Trim outputs must not
// collide with the sources they were cut from, and archived sources must
// fall outside the segment pattern so a re-run does not match them again.
const (
	TrimmedPrefix = "trimmed_"
	ArchivePrefix = "processed_"
)

// Trimmed returns the filename for the trimmed copy of a source segment.
func Trimmed(name string) string { return TrimmedPrefix + name }

// Archived returns the post-run name given to a source segment kept by
// --archive-inputs.
func Archived(name string) string { return ArchivePrefix + name }

// Partial returns the in-progress name the concat step writes before the
// deliverable is renamed into place. The extension stays at the end so
// ffmpeg still infers the container from it.
func Partial(output string) string {
	ext := filepath.Ext(output)
	return strings.TrimSuffix(output, ext) + ".tmp" + ext
}

// Unique returns name if it is not yet taken, otherwise the first
// "stem_N.ext" variant (counting from 2) that is free. The extension stays
// at the end for the same reason as in Partial. The caller owns the taken
// set and records the returned name in it.
func Unique(name string, taken map[string]bool) string {
	if !taken[name] {
		return name
	}

	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s_%d%s", stem, n, ext)
		if !taken[candidate] {
			return candidate
		}
	}
}
