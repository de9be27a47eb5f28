package ffmpeg

import (
	"github.com/backmassage/joinmaster/internal/segment"
)

// TrimJob describes one cut of a single input into a single output. Start
// and End are optional; unset positions mean "from the beginning" and "to
// the end". Paths are passed through as the caller resolved them.
type TrimJob struct {
	Input  string
	Output string
	Start  segment.Timestamp
	End    segment.Timestamp
}

// Args constructs the complete ffmpeg argument slice for the trim. Each
// logical argument stays a separate element; nothing is ever joined into a
// shell string. Seek arguments go before -i so the demuxer seeks instead of
// decoding up to the cut point; with stream copy the cut lands on the
// nearest preceding keyframe.
func (j TrimJob) Args() []string {
	args := make([]string, 0, 16)

	// --- Preamble ---
	args = append(args, "ffmpeg", "-hide_banner", "-nostdin", "-loglevel", "error", "-y")

	// --- Seek window (input options) ---
	if j.Start.IsSet() {
		args = append(args, "-ss", j.Start.String())
	}
	if j.End.IsSet() {
		args = append(args, "-to", j.End.String())
	}

	// --- Input ---
	args = append(args, "-i", j.Input)

	// --- Stream copy, no re-encode ---
	args = append(args, "-c", "copy")

	// --- Output ---
	args = append(args, j.Output)

	return args
}

// ConcatJob describes the join of a prepared list file into one output.
type ConcatJob struct {
	ListPath string
	Output   string
	Codec    string // Empty or "copy" stream-copies; anything else re-encodes video.
}

// Args constructs the ffmpeg argument slice for the concat demuxer run.
// -safe 0 lifts the demuxer's filename restrictions for the list entries.
func (j ConcatJob) Args() []string {
	args := make([]string, 0, 16)

	// --- Preamble ---
	args = append(args, "ffmpeg", "-hide_banner", "-nostdin", "-loglevel", "error", "-y")

	// --- Concat demuxer input ---
	args = append(args, "-f", "concat", "-safe", "0", "-i", j.ListPath)

	// --- Codec selection ---
	codec := j.Codec
	if codec == "" {
		codec = "copy"
	}
	if codec == "copy" {
		args = append(args, "-c", "copy")
	} else {
		// A named codec applies to video; audio still stream-copies.
		args = append(args, "-c:v", codec, "-c:a", "copy")
	}

	// --- Output ---
	args = append(args, j.Output)

	return args
}
