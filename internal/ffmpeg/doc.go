// Package ffmpeg builds and executes ffmpeg command lines for segment
// trimming and concat-demuxer joining.
//
// The package deals in typed jobs, not ad-hoc string slices:
//
//   - TrimJob: one input cut to one output with optional -ss/-to seek
//     positions, always stream copy.
//   - ConcatJob: one list file joined into one output, stream copy by
//     default or video re-encode when the job names a codec.
//
// Args methods are pure and fully testable without ffmpeg installed.
// Execute owns process spawning and stderr capture; Trim and Concat wrap
// Execute and translate nonzero exits into *TrimError and *ConcatError so
// callers can report which file broke the run and with what exit code.
// A TrimJob with no trim points degrades to a plain file copy and never
// spawns the tool.
package ffmpeg
