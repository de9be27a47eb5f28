package ffmpeg

import "fmt"

// TrimError reports a nonzero exit from a trim invocation. File is the bare
// input name for the final report; Stderr carries the tool's captured output
// verbatim for diagnosis.
type TrimError struct {
	File   string
	Code   int
	Stderr string
}

func (e *TrimError) Error() string {
	return fmt.Sprintf("trimming %s failed (ffmpeg exit code %d)", e.File, e.Code)
}

// ConcatError reports a nonzero exit from the concat invocation.
type ConcatError struct {
	Output string
	Code   int
	Stderr string
}

func (e *ConcatError) Error() string {
	return fmt.Sprintf("joining into %s failed (ffmpeg exit code %d)", e.Output, e.Code)
}
