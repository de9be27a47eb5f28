// Package pipeline orchestrates the scan, trim, and concat sequence plus
// the cleanup that follows a successful join. One invocation processes one
// join; there is no batch or daemon mode.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/backmassage/joinmaster/internal/collect"
	"github.com/backmassage/joinmaster/internal/config"
	"github.com/backmassage/joinmaster/internal/display"
	"github.com/backmassage/joinmaster/internal/ffmpeg"
	"github.com/backmassage/joinmaster/internal/jobfile"
	"github.com/backmassage/joinmaster/internal/logging"
	"github.com/backmassage/joinmaster/internal/manifest"
	"github.com/backmassage/joinmaster/internal/naming"
	"github.com/backmassage/joinmaster/internal/planner"
	"github.com/backmassage/joinmaster/internal/segment"
)

// Run is the default-mode entry point: scan the directory, apply the
// run-level trim flags, and join everything that matched. Zero matches is
// a clean no-op, not an error.
func Run(ctx context.Context, cfg *config.Config, log *logging.Logger) error {
	matches, err := collect.Collect(cfg.Dir, cfg.PatternRE)
	if err != nil {
		if errors.Is(err, collect.ErrNoMatches) {
			log.Warn("No files match %q in %s, nothing to do", cfg.Pattern, cfg.Dir)
			return nil
		}
		return err
	}

	names := collect.Names(matches)
	log.Info("Found %d segments to join", len(names))
	for i, name := range names {
		log.Debug(cfg.Debug, "  %d. %s", i+1, name)
	}

	// Planning may probe the last segment (--trim-end), so the overwrite
	// refusal comes first.
	if err := checkDeliverable(cfg); err != nil {
		return err
	}

	segs, err := planner.Build(ctx, cfg, names)
	if err != nil {
		return err
	}

	return processSegments(ctx, cfg, log, segs, jobfile.DefaultCodec)
}

// Replay joins the segments described by the persisted job document
// instead of a live scan. Entries are processed in document order and all
// of them are converted and validated before anything is invoked.
func Replay(ctx context.Context, cfg *config.Config, log *logging.Logger) error {
	doc, err := jobfile.Load(cfg.Dir)
	if err != nil {
		return err
	}
	if len(doc.Entries) == 0 {
		log.Warn("Job document has no entries, nothing to do")
		return nil
	}

	segs, err := doc.Segments()
	if err != nil {
		return &jobfile.MalformedError{
			Path:   filepath.Join(cfg.Dir, jobfile.Filename),
			Reason: err.Error(),
		}
	}

	log.Info("Replaying %s (%d entries, codec %s)", jobfile.Filename, len(segs), doc.Codec)
	return processSegments(ctx, cfg, log, segs, doc.Codec)
}

// Generate writes a fresh job document for the current directory contents
// and reports where it landed.
func Generate(cfg *config.Config, log *logging.Logger) error {
	path, n, err := jobfile.Generate(cfg.Dir, cfg.PatternRE)
	if err != nil {
		return err
	}
	if n == 0 {
		log.Warn("No files match %q, wrote an empty job document", cfg.Pattern)
	}
	log.Success("Wrote %s (%d entries)", path, n)
	return nil
}

// processSegments is the shared trim-then-concat core behind the default
// and replay modes. All validation happens before the first external
// invocation; on any failure the run aborts with intermediate artifacts
// left in place for inspection.
func processSegments(ctx context.Context, cfg *config.Config, log *logging.Logger, segs []segment.Segment, codec string) error {
	deliverable := filepath.Join(cfg.Dir, cfg.Output)

	// --- Refuse to clobber an existing deliverable ---
	if err := checkDeliverable(cfg); err != nil {
		return err
	}

	// --- Validate every segment before invoking anything ---
	for _, seg := range segs {
		if err := seg.Validate(); err != nil {
			return err
		}
		if _, err := os.Stat(filepath.Join(cfg.Dir, seg.Name)); err != nil {
			return fmt.Errorf("segment %s: %w", seg.Name, err)
		}
	}

	start := time.Now()

	// --- Trim phase ---
	// Untrimmed segments pass straight through to the manifest under their
	// own name; only real trims spawn the external tool. Trim output names
	// are assigned up front so a source referenced by several entries keeps
	// a distinct output per cut.
	names := assignOutputNames(cfg.Output, segs)
	var trimOutputs []string
	for i, seg := range segs {
		if err := ctx.Err(); err != nil {
			return err
		}

		if !seg.NeedsTrim() {
			log.Debug(cfg.Debug, "[%d/%d] %s passes through untrimmed", i+1, len(segs), seg.Name)
			continue
		}

		job := ffmpeg.TrimJob{
			Input:  filepath.Join(cfg.Dir, seg.Name),
			Output: filepath.Join(cfg.Dir, names[i]),
			Start:  seg.Start,
			End:    seg.End,
		}
		log.Info("[%d/%d] Trimming %s (%s)", i+1, len(segs), seg.Name, trimLabel(seg))
		log.Debug(cfg.Debug, "  %s", strings.Join(job.Args(), " "))

		if err := ffmpeg.Trim(ctx, job, cfg.Debug); err != nil {
			var trimErr *ffmpeg.TrimError
			if errors.As(err, &trimErr) {
				logStderr(log, trimErr.Stderr)
			}
			return err
		}
		trimOutputs = append(trimOutputs, job.Output)
	}

	// --- Write the join manifest ---
	listPath := filepath.Join(cfg.Dir, manifest.Filename)
	if err := manifest.Write(listPath, names); err != nil {
		return err
	}
	log.Debug(cfg.Debug, "Wrote %s with %d entries", manifest.Filename, len(names))

	// --- Concat into a temp name, rename into place on success ---
	job := ffmpeg.ConcatJob{
		ListPath: listPath,
		Output:   filepath.Join(cfg.Dir, naming.Partial(cfg.Output)),
		Codec:    codec,
	}
	log.Info("Joining %d segments into %s", len(segs), cfg.Output)
	log.Debug(cfg.Debug, "  %s", strings.Join(job.Args(), " "))

	if err := ffmpeg.Concat(ctx, job, cfg.Debug); err != nil {
		var concatErr *ffmpeg.ConcatError
		if errors.As(err, &concatErr) {
			logStderr(log, concatErr.Stderr)
		}
		return err
	}
	if err := os.Rename(job.Output, deliverable); err != nil {
		return fmt.Errorf("moving deliverable into place: %w", err)
	}

	// --- Success summary ---
	elapsed := int(time.Since(start).Seconds())
	if info, err := os.Stat(deliverable); err == nil {
		log.Success("Wrote %s (%s) in %ds", cfg.Output, display.FormatBytes(info.Size()), elapsed)
	} else {
		log.Success("Wrote %s in %ds", cfg.Output, elapsed)
	}
	log.Info("Done: %d segments joined, %d trimmed", len(segs), len(trimOutputs))

	// --- Cleanup (success path only) ---
	if cfg.KeepAllFiles {
		log.Info("Keeping all intermediate files (--keep-all-files)")
		return nil
	}
	return cleanup(cfg, log, segs, trimOutputs, listPath)
}

// checkDeliverable reports an existing deliverable as an error unless
// --force is set. Every mode runs it before the first external invocation.
func checkDeliverable(cfg *config.Config) error {
	if cfg.Force {
		return nil
	}
	deliverable := filepath.Join(cfg.Dir, cfg.Output)
	if _, err := os.Stat(deliverable); err == nil {
		return fmt.Errorf("%s already exists (use --force to overwrite)", deliverable)
	}
	return nil
}

// assignOutputNames returns the manifest name for each segment, index
// aligned with segs. Untrimmed segments contribute their source name, which
// may legitimately repeat. Trim outputs are disambiguated against every
// source name, the deliverable name, and each other, so no trim can
// overwrite a file another part of the run still needs.
func assignOutputNames(output string, segs []segment.Segment) []string {
	taken := make(map[string]bool, len(segs)+1)
	taken[output] = true
	for _, seg := range segs {
		taken[seg.Name] = true
	}

	names := make([]string, len(segs))
	for i, seg := range segs {
		name := seg.OutputName()
		if seg.NeedsTrim() {
			name = naming.Unique(name, taken)
			taken[name] = true
		}
		names[i] = name
	}
	return names
}

func trimLabel(seg segment.Segment) string {
	switch {
	case seg.Start.IsSet() && seg.End.IsSet():
		return fmt.Sprintf("%s to %s", seg.Start, seg.End)
	case seg.Start.IsSet():
		return "from " + seg.Start.String()
	default:
		return "until " + seg.End.String()
	}
}

func logStderr(log *logging.Logger, stderr string) {
	if stderr == "" {
		return
	}
	log.Error("Last ffmpeg output:")
	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	start := 0
	if len(lines) > 20 {
		start = len(lines) - 20
	}
	for _, l := range lines[start:] {
		log.Error("  %s", l)
	}
}
