// Package media wraps the external audio engine (ffmpeg/ffprobe). It
// defines the Engine port so the segmentation workflow can be driven
// by a fake in tests, plus the CLI-backed implementation.
package media

import (
	"context"

	"github.com/klapauciusisgreat/splitmp3/internal/segment"
)

// ToEnd, passed as the end of ExtractSegment, selects "to end of file".
const ToEnd float64 = -1

// Engine is the external audio-processing capability the splitter
// depends on. Every call launches one blocking engine invocation; the
// context cancels the underlying process.
type Engine interface {
	// ProbeDuration returns the container duration of path in seconds.
	// A failed probe is an error, never a silent zero.
	ProbeDuration(ctx context.Context, path string) (float64, error)

	// DetectSilence returns the silent periods of path, ordered by
	// start time. minSilence is the minimum silence duration in
	// seconds, thresholdDB the loudness ceiling in dB (negative).
	// An empty result with a nil error means no silence was found;
	// a non-nil error means detection itself failed.
	DetectSilence(ctx context.Context, path string, minSilence float64, thresholdDB int) ([]segment.Interval, error)

	// ExtractSegment transcodes the range [start, end) of input into
	// an MP3 file at output, overwriting it. Pass ToEnd as end to
	// encode through the end of the file.
	ExtractSegment(ctx context.Context, input, output string, start, end float64) error
}
