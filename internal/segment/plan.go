// Package segment holds the pure segmentation logic: time intervals,
// the greedy silence-based planner, and the output naming scheme.
// It performs no I/O so it can be exercised without a media engine.
package segment

import (
	"fmt"
	"strconv"
)

// Interval is a time range in seconds within the source file.
// It represents either a detected silence or a planned segment.
type Interval struct {
	Start float64
	End   float64
}

// Duration returns the length of the interval in seconds.
func (iv Interval) Duration() float64 {
	return iv.End - iv.Start
}

// cutFraction is the fraction of the target length a candidate segment
// must reach before a silence is accepted as a cut point.
const cutFraction = 0.8

// Plan converts detected silences into a contiguous segment plan
// covering [0, duration]. Silences must be ordered by start time, as
// emitted by the detector.
//
// The pass is greedy: a silence becomes a cut point as soon as the
// running segment, measured up to the silence end, reaches 80% of the
// target length. After the last accepted cut the remainder of the file
// becomes the final segment, however short. No look-ahead, no
// re-optimization, so segments can run shorter or longer than target.
func Plan(silences []Interval, duration, targetLen float64) []Interval {
	var plan []Interval
	cursor := 0.0
	for _, s := range silences {
		if s.End-cursor >= cutFraction*targetLen {
			plan = append(plan, Interval{Start: cursor, End: s.End})
			cursor = s.End
		}
	}
	if cursor < duration {
		plan = append(plan, Interval{Start: cursor, End: duration})
	}
	return plan
}

// PadWidth returns the zero-padding width for a plan of n segments:
// the number of decimal digits in n, minimum 1.
func PadWidth(n int) int {
	if n < 1 {
		return 1
	}
	return len(strconv.Itoa(n))
}

// Filename returns the output file name for segment index (1-based)
// out of total, zero-padded to the plan's width: 3 segments yield
// "1.mp3".."3.mp3", 10 segments "01.mp3".."10.mp3".
func Filename(index, total int) string {
	return fmt.Sprintf("%0*d.mp3", PadWidth(total), index)
}
