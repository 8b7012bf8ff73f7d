package media

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/klapauciusisgreat/splitmp3/internal/segment"
)

const (
	startMarker = "silence_start:"
	endMarker   = "silence_end:"
)

// scanState tracks whether the scanner is waiting for a silence_end
// marker to close the pending interval.
type scanState int

const (
	scanIdle scanState = iota
	scanAwaitingEnd
)

// silenceScanner folds silencedetect marker lines into intervals.
//
// A start marker records (or overwrites) the pending start: if two
// starts arrive without an end between them, only the latest survives.
// An end marker closes the pending interval; an end with no pending
// start is ignored. A trailing start with no end produces nothing.
type silenceScanner struct {
	state     scanState
	pending   float64
	intervals []segment.Interval
}

func (s *silenceScanner) line(text string) {
	if !strings.Contains(text, "silencedetect") {
		return
	}
	if v, ok := markerValue(text, startMarker); ok {
		s.pending = v
		s.state = scanAwaitingEnd
		return
	}
	if v, ok := markerValue(text, endMarker); ok && s.state == scanAwaitingEnd {
		s.intervals = append(s.intervals, segment.Interval{Start: s.pending, End: v})
		s.state = scanIdle
	}
}

// markerValue extracts the floating-point value following marker, e.g.
// "silence_end: 299.5 | silence_duration: 1.5" yields 299.5.
func markerValue(line, marker string) (float64, bool) {
	idx := strings.Index(line, marker)
	if idx < 0 {
		return 0, false
	}
	fields := strings.Fields(line[idx+len(marker):])
	if len(fields) == 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// scanSilence parses an ffmpeg silencedetect diagnostic stream into
// ordered silence intervals.
func scanSilence(r io.Reader) []segment.Interval {
	sc := bufio.NewScanner(r)
	var s silenceScanner
	for sc.Scan() {
		s.line(sc.Text())
	}
	return s.intervals
}
