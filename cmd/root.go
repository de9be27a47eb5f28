// Package cmd wires the command-line surface: flag definitions, mode
// selection, and the phased startup that hands control to the pipeline.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/backmassage/joinmaster/internal/check"
	"github.com/backmassage/joinmaster/internal/config"
	"github.com/backmassage/joinmaster/internal/display"
	"github.com/backmassage/joinmaster/internal/jobfile"
	"github.com/backmassage/joinmaster/internal/logging"
	"github.com/backmassage/joinmaster/internal/pipeline"
)

// version and commit are injected at build time via -ldflags.
// When built with plain "go build" these retain their defaults.
var (
	version = "1.0.0"
	commit  = "unknown"
)

var cfg = config.DefaultConfig()

var rootCmd = &cobra.Command{
	Use:   "joinmaster [directory]",
	Short: "Trim and join numbered video segments with ffmpeg",
	Long: `Joinmaster scans a directory for numbered segment files (join1__intro.mp4,
join2__talk.mp4, ...), optionally trims the first and last one, and joins
them into a single deliverable with ffmpeg's concat demuxer. Streams are
copied rather than re-encoded, so the join itself is lossless and fast.

The default run scans, trims and joins in one pass. --generate-config
instead writes a ` + jobfile.Filename + ` job document describing the matched
segments, which --use-config replays after you edit trim points or the
codec. --check verifies the external tools and exits.`,
	Example: `  joinmaster /srv/recordings
  joinmaster --from 1:30 --trim-end 4 /srv/recordings
  joinmaster --generate-config /srv/recordings
  joinmaster --use-config --force /srv/recordings`,
	Args:          cobra.MaximumNArgs(1),
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
}

func init() {
	f := rootCmd.Flags()
	f.StringVar(&cfg.From, "from", "", "Start timestamp for the first segment (HH:MM:SS or seconds)")
	f.Float64Var(&cfg.TrimEndSecs, "trim-end", 0, "Seconds to cut from the end of the last segment")
	f.BoolVar(&cfg.KeepAllFiles, "keep-all-files", false, "Keep sources and intermediate files after a successful join")
	f.BoolVar(&cfg.ArchiveInputs, "archive-inputs", false, "Rename sources to processed_<name> instead of deleting them")
	f.BoolVar(&cfg.GenerateConfig, "generate-config", false, "Write "+jobfile.Filename+" for the matched segments and exit")
	f.BoolVar(&cfg.UseConfig, "use-config", false, "Join the segments listed in "+jobfile.Filename)
	f.BoolVarP(&cfg.CheckOnly, "check", "c", false, "Run system diagnostics and exit")
	f.BoolVarP(&cfg.Force, "force", "f", false, "Overwrite an existing deliverable")
	f.StringVar(&cfg.Pattern, "pattern", cfg.Pattern, "Segment filename regex; group 1 is the ordering index")
	f.StringVarP(&cfg.Output, "output", "o", cfg.Output, "Deliverable filename inside the target directory")
	f.BoolVar(&cfg.Debug, "debug", false, "Verbose output, echoes external command lines")
	f.Var(&colorValue{&cfg.ColorMode}, "color", "Color output: auto | always | never")
	f.StringVarP(&cfg.LogFile, "log", "l", "", "Append logs to file")

	rootCmd.MarkFlagsMutuallyExclusive("generate-config", "use-config")
	rootCmd.MarkFlagsMutuallyExclusive("keep-all-files", "archive-inputs")
	rootCmd.SetVersionTemplate("joinmaster v{{.Version}}\n")
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "joinmaster: %v\n", err)
		return 1
	}
	return 0
}

func runRoot(cmd *cobra.Command, args []string) error {
	// Phase 1: bootstrap. The logger does not exist yet; validation errors
	// surface through Execute's plain stderr path.
	if len(args) == 1 {
		cfg.Dir = config.NormalizeDirArg(args[0])
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		return err
	}
	defer log.Close()

	// Phase 2: logger available. All further output goes through log;
	// returned errors are printed once by Execute.
	display.PrintBanner()

	if cfg.Mode() == config.ModeCheck {
		if !check.RunCheck(log) {
			return errors.New("system check failed")
		}
		return nil
	}

	info, err := os.Stat(cfg.Dir)
	if err != nil {
		return fmt.Errorf("target directory %s: %w", cfg.Dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("target %s is not a directory", cfg.Dir)
	}

	log.Info("=== Joinmaster v%s (%s) ===", version, commit)
	log.Info("Dir: %s", cfg.Dir)
	log.Info("")

	// Fail fast when ffmpeg or ffprobe are missing. Generate mode only
	// scans the directory, so it runs without the tools.
	if cfg.Mode() != config.ModeGenerate {
		if err := check.CheckDeps(); err != nil {
			return err
		}
	}

	// Phase 3: signal handling. Cancelling the context kills any in-flight
	// ffmpeg process; the failure path leaves all files in place.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn("Received interrupt, stopping…")
		cancel()
	}()

	// Phase 4: run the selected mode.
	switch cfg.Mode() {
	case config.ModeGenerate:
		return pipeline.Generate(&cfg, log)
	case config.ModeReplay:
		return pipeline.Replay(ctx, &cfg, log)
	default:
		return pipeline.Run(ctx, &cfg, log)
	}
}

// colorValue adapts the ColorMode enum to the pflag.Value interface.
type colorValue struct{ p *config.ColorMode }

func (c *colorValue) String() string { return string(*c.p) }
func (c *colorValue) Type() string   { return "mode" }
func (c *colorValue) Set(s string) error {
	switch strings.ToLower(s) {
	case "auto":
		*c.p = config.ColorAuto
	case "always":
		*c.p = config.ColorAlways
	case "never":
		*c.p = config.ColorNever
	default:
		return fmt.Errorf("invalid color mode %q (use 'auto', 'always' or 'never')", s)
	}
	return nil
}
