// Package config holds runtime configuration: defaults, validation, and the
// run-mode selection derived from CLI flags.
package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/backmassage/joinmaster/internal/segment"
)

// DefaultPattern matches segment files like "join1__intro.mp4". Capture
// group 1 is the numeric ordering index.
const DefaultPattern = `^join(\d+)__.*\.mp4$`

// DefaultOutput is the deliverable written by the concat step.
const DefaultOutput = "output.mp4"

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// RunMode is the mutually exclusive mode selected for this invocation.
type RunMode int

const (
	ModeJoin     RunMode = iota // Default: scan, trim, concat.
	ModeGenerate                // Write the job document and exit.
	ModeReplay                  // Load the job document and process it.
	ModeCheck                   // Run diagnostics and exit.
)

// Config holds all runtime settings. It is populated by [DefaultConfig] and
// then mutated by the CLI flag bindings before being passed (by pointer) to
// packages that need it. Fields are grouped by concern with inline
// documentation of defaults and fixed values.
type Config struct {
	// Target directory (positional arg). Default: ".".
	Dir string

	// Segment selection.
	Pattern   string         // Regex with a numeric-index capture group. Default: DefaultPattern.
	PatternRE *regexp.Regexp // Derived during Validate.

	// Trim settings (default mode only).
	From        string            // --from value, HH:MM:SS or seconds. Applies to the first segment.
	FromTS      segment.Timestamp // Derived during Validate.
	TrimEndSecs float64           // --trim-end value. Seconds cut from the end of the last segment.

	// Output.
	Output string // Deliverable filename inside Dir. Default: DefaultOutput.
	Force  bool   // Overwrite an existing deliverable.

	// Cleanup behavior.
	KeepAllFiles  bool // Suppress all cleanup after success.
	ArchiveInputs bool // Rename inputs to processed_<name> instead of deleting them.

	// Mode selection.
	GenerateConfig bool
	UseConfig      bool
	CheckOnly      bool // Run --check diagnostics and exit.

	// Display and logging.
	Debug     bool      // Verbose logging, echoes external command lines.
	ColorMode ColorMode // Default: "auto".
	LogFile   string    // Optional log file path.
}

// DefaultConfig returns the baseline Config. CLI flag bindings overlay it
// before Validate runs.
func DefaultConfig() Config {
	return Config{
		Dir:       ".",
		Pattern:   DefaultPattern,
		Output:    DefaultOutput,
		ColorMode: ColorAuto,
	}
}

// Mode resolves the run mode from the mode-selection flags. Exclusivity is
// enforced by Validate; Check wins so diagnostics stay reachable regardless
// of other flags.
func (c *Config) Mode() RunMode {
	switch {
	case c.CheckOnly:
		return ModeCheck
	case c.GenerateConfig:
		return ModeGenerate
	case c.UseConfig:
		return ModeReplay
	default:
		return ModeJoin
	}
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	if trimmed := strings.TrimRight(path, "/"); trimmed != "" {
		return trimmed
	}
	return path
}

// Validate checks flag combinations and derives PatternRE and FromTS.
// It must run before the config is handed to any other package.
func (c *Config) Validate() error {
	if c.Dir == "" {
		return errors.New("target directory must not be empty")
	}

	re, err := regexp.Compile(c.Pattern)
	if err != nil {
		return fmt.Errorf("invalid pattern %q: %w", c.Pattern, err)
	}
	if re.NumSubexp() < 1 {
		return fmt.Errorf("pattern %q needs a capture group for the numeric index", c.Pattern)
	}
	c.PatternRE = re

	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}

	if c.GenerateConfig && c.UseConfig {
		return errors.New("--generate-config and --use-config are mutually exclusive")
	}

	if c.Output == "" {
		return errors.New("output filename must not be empty")
	}
	if strings.ContainsRune(c.Output, '/') {
		return fmt.Errorf("output %q must be a plain filename, not a path", c.Output)
	}

	if c.TrimEndSecs < 0 {
		return fmt.Errorf("--trim-end must not be negative (got %v)", c.TrimEndSecs)
	}

	if c.From != "" {
		ts, err := segment.ParseTimestamp(c.From)
		if err != nil {
			return fmt.Errorf("invalid --from value: %w", err)
		}
		c.FromTS = ts
	}

	if c.GenerateConfig || c.UseConfig {
		if c.From != "" || c.TrimEndSecs > 0 {
			return errors.New("--from and --trim-end apply to the default mode only")
		}
	}

	if c.KeepAllFiles && c.ArchiveInputs {
		return errors.New("--keep-all-files and --archive-inputs are mutually exclusive")
	}

	return nil
}
