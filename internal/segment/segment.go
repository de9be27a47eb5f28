// Package segment defines the per-file unit of work: a source filename with
// optional start/end trim positions and a derived output name.
package segment

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/backmassage/joinmaster/internal/naming"
)

// Timestamp is an optional media position. Accepted input forms are
// HH:MM:SS, MM:SS (each with an optional fractional second), or plain
// seconds. The zero value means "not set".
type Timestamp struct {
	raw  string
	secs float64
	set  bool
}

// ParseTimestamp parses s into a Timestamp. The original spelling is kept
// for argument building; ffmpeg accepts both clock and plain-second forms.
func ParseTimestamp(s string) (Timestamp, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Timestamp{}, errors.New("empty timestamp")
	}

	if strings.Contains(s, ":") {
		secs, err := parseClock(s)
		if err != nil {
			return Timestamp{}, err
		}
		return Timestamp{raw: s, secs: secs, set: true}, nil
	}

	secs, err := strconv.ParseFloat(s, 64)
	if err != nil || secs < 0 {
		return Timestamp{}, fmt.Errorf("invalid timestamp %q (use HH:MM:SS or seconds)", s)
	}
	return Timestamp{raw: s, secs: secs, set: true}, nil
}

// FromSeconds builds a set Timestamp from a non-negative seconds value,
// spelled with millisecond precision.
func FromSeconds(secs float64) Timestamp {
	if secs < 0 {
		secs = 0
	}
	return Timestamp{raw: strconv.FormatFloat(secs, 'f', 3, 64), secs: secs, set: true}
}

// IsSet reports whether the timestamp carries a value.
func (t Timestamp) IsSet() bool { return t.set }

// Seconds returns the position in seconds, 0 when unset.
func (t Timestamp) Seconds() float64 { return t.secs }

// String returns the spelling used on the external command line, empty when unset.
func (t Timestamp) String() string { return t.raw }

// parseClock parses MM:SS or HH:MM:SS with an optional fractional second.
// Minutes and seconds must stay below 60; hours are unbounded.
func parseClock(s string) (float64, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid timestamp %q (use HH:MM:SS or seconds)", s)
	}

	var hours int64
	if len(parts) == 3 {
		h, err := strconv.ParseInt(parts[0], 10, 64)
		if err != nil || h < 0 {
			return 0, fmt.Errorf("invalid hours in timestamp %q", s)
		}
		hours = h
		parts = parts[1:]
	}

	mins, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil || mins < 0 || mins > 59 {
		return 0, fmt.Errorf("invalid minutes in timestamp %q", s)
	}

	secs, err := strconv.ParseFloat(parts[1], 64)
	if err != nil || secs < 0 || secs >= 60 {
		return 0, fmt.Errorf("invalid seconds in timestamp %q", s)
	}

	return float64(hours)*3600 + float64(mins)*60 + secs, nil
}

// Segment is one source file with its trim positions. Read-only after
// construction; the output name is derived on demand.
type Segment struct {
	Name  string
	Start Timestamp
	End   Timestamp
}

// NeedsTrim reports whether the segment has any trim position set. A
// segment without trim positions passes through to the concat step as-is.
func (s Segment) NeedsTrim() bool {
	return s.Start.IsSet() || s.End.IsSet()
}

// OutputName returns the default filename this segment contributes to the
// join manifest: a prefixed trim output when a trim applies, the source
// name itself otherwise. The pipeline renames trim outputs that would
// collide, so entries sharing a source each keep their own cut.
func (s Segment) OutputName() string {
	if s.NeedsTrim() {
		return naming.Trimmed(s.Name)
	}
	return s.Name
}

// Validate rejects impossible trim ranges before any external invocation.
func (s Segment) Validate() error {
	if s.Name == "" {
		return errors.New("segment has no filename")
	}
	if s.End.IsSet() && s.End.Seconds() <= 0 {
		return fmt.Errorf("%s: end %s must be positive", s.Name, s.End)
	}
	if s.Start.IsSet() && s.End.IsSet() && s.End.Seconds() <= s.Start.Seconds() {
		return fmt.Errorf("%s: end %s must be after start %s", s.Name, s.End, s.Start)
	}
	return nil
}
