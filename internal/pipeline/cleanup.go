package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/backmassage/joinmaster/internal/config"
	"github.com/backmassage/joinmaster/internal/logging"
	"github.com/backmassage/joinmaster/internal/naming"
	"github.com/backmassage/joinmaster/internal/segment"
)

// cleanup removes the run's intermediate artifacts after a successful
// join: per-segment trim outputs, the manifest, and the source segments.
// Sources are deleted by default or renamed with the archive prefix under
// --archive-inputs. Failed runs never reach this point.
func cleanup(cfg *config.Config, log *logging.Logger, segs []segment.Segment, trimOutputs []string, listPath string) error {
	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	for _, path := range trimOutputs {
		keep(os.Remove(path))
	}
	keep(os.Remove(listPath))

	// A source referenced by several entries is cleaned up once.
	handled := make(map[string]bool, len(segs))
	for _, seg := range segs {
		if handled[seg.Name] {
			continue
		}
		handled[seg.Name] = true

		src := filepath.Join(cfg.Dir, seg.Name)
		if cfg.ArchiveInputs {
			keep(os.Rename(src, filepath.Join(cfg.Dir, naming.Archived(seg.Name))))
		} else {
			keep(os.Remove(src))
		}
	}

	if firstErr != nil {
		return fmt.Errorf("cleanup incomplete: %w", firstErr)
	}

	if cfg.ArchiveInputs {
		log.Info("Archived %d source segments with the %s prefix", len(handled), naming.ArchivePrefix)
	} else {
		log.Info("Removed %d source segments and all intermediate files", len(handled))
	}
	return nil
}
