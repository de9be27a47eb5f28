// Package planner turns the ordered match list into the per-segment trim
// plan the pipeline executes. The run-level flags attach to the edges of
// the join: --from to the first segment, --trim-end to the last.
package planner

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/backmassage/joinmaster/internal/config"
	"github.com/backmassage/joinmaster/internal/probe"
	"github.com/backmassage/joinmaster/internal/segment"
)

// Build produces the segments for a default-mode run. With a single match
// both edge flags apply to that one file. A --trim-end is resolved into an
// absolute end position via the container duration, which is the only
// reason planning may invoke ffprobe.
func Build(ctx context.Context, cfg *config.Config, names []string) ([]segment.Segment, error) {
	segs := make([]segment.Segment, len(names))
	for i, name := range names {
		segs[i] = segment.Segment{Name: name}
	}

	if cfg.FromTS.IsSet() {
		segs[0].Start = cfg.FromTS
	}

	if cfg.TrimEndSecs > 0 {
		last := &segs[len(segs)-1]
		duration, err := probe.Duration(ctx, filepath.Join(cfg.Dir, last.Name))
		if err != nil {
			return nil, err
		}
		end, err := trimEndPosition(duration, cfg.TrimEndSecs)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", last.Name, err)
		}
		last.End = end
	}

	return segs, nil
}

// trimEndPosition converts "seconds off the end" into an absolute end
// position. Cutting the whole file (or more) is rejected.
func trimEndPosition(duration, trimEndSecs float64) (segment.Timestamp, error) {
	if trimEndSecs >= duration {
		return segment.Timestamp{}, fmt.Errorf("cannot trim %.1fs off a %.1fs file", trimEndSecs, duration)
	}
	return segment.FromSeconds(duration - trimEndSecs), nil
}
