package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/klapauciusisgreat/splitmp3/internal/segment"
)

// ErrProbeFailed is returned when the ffprobe invocation fails or its
// output cannot be parsed as a duration.
var ErrProbeFailed = errors.New("ffprobe execution failed")

// FFmpeg implements Engine using the ffmpeg and ffprobe CLIs.
type FFmpeg struct {
	ffmpegPath  string
	ffprobePath string
}

// NewFFmpeg creates an FFmpeg engine. Empty paths default to "ffmpeg"
// and "ffprobe" resolved via PATH.
func NewFFmpeg(ffmpegPath, ffprobePath string) *FFmpeg {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &FFmpeg{ffmpegPath: ffmpegPath, ffprobePath: ffprobePath}
}

var _ Engine = (*FFmpeg)(nil)

// ProbeDuration implements Engine using ffprobe's format=duration entry.
func (f *FFmpeg) ProbeDuration(ctx context.Context, path string) (float64, error) {
	// #nosec G204 - ffprobePath is set by the application, not user input
	cmd := exec.CommandContext(ctx, f.ffprobePath,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return 0, fmt.Errorf("ffprobe cancelled: %w", ctx.Err())
		}
		return 0, fmt.Errorf("%w: %v (stderr: %s)", ErrProbeFailed, err, strings.TrimSpace(stderr.String()))
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(stdout.String()), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: parse duration %q: %v", ErrProbeFailed, strings.TrimSpace(stdout.String()), err)
	}
	if duration < 0 {
		return 0, fmt.Errorf("%w: negative duration %f", ErrProbeFailed, duration)
	}
	return duration, nil
}

// DetectSilence implements Engine using the silencedetect filter.
// ffmpeg emits the silence markers on stderr while decoding to the
// null muxer; the captured stream is fed through the marker scanner.
func (f *FFmpeg) DetectSilence(ctx context.Context, path string, minSilence float64, thresholdDB int) ([]segment.Interval, error) {
	args := detectArgs(path, minSilence, thresholdDB)

	// #nosec G204 - ffmpegPath is set by the application, not user input
	cmd := exec.CommandContext(ctx, f.ffmpegPath, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("ffmpeg cancelled: %w", ctx.Err())
		}
		return nil, &FFmpegError{Args: args, Stderr: stderr.String(), Err: err}
	}

	return scanSilence(&stderr), nil
}

// ExtractSegment implements Engine: trims [start, end) and transcodes
// to MP3 with libmp3lame, overwriting output.
func (f *FFmpeg) ExtractSegment(ctx context.Context, input, output string, start, end float64) error {
	args := extractArgs(input, output, start, end)

	// #nosec G204 - ffmpegPath is set by the application, not user input
	cmd := exec.CommandContext(ctx, f.ffmpegPath, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("ffmpeg cancelled: %w", ctx.Err())
		}
		return &FFmpegError{Args: args, Stderr: stderr.String(), Err: err}
	}
	return nil
}

func detectArgs(path string, minSilence float64, thresholdDB int) []string {
	filter := fmt.Sprintf("silencedetect=noise=%ddB:d=%s", thresholdDB, formatSeconds(minSilence))
	return []string{
		"-hide_banner",
		"-i", path,
		"-af", filter,
		"-f", "null",
		"-",
	}
}

func extractArgs(input, output string, start, end float64) []string {
	args := []string{
		"-y",
		"-ss", formatSeconds(start),
	}
	if end >= 0 {
		args = append(args, "-to", formatSeconds(end))
	}
	return append(args,
		"-i", input,
		"-c:a", "libmp3lame",
		output,
	)
}

// formatSeconds renders a timestamp without trailing zeros so ffmpeg
// receives full precision ("296.5", not "296.500000").
func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FFmpegError is a failed ffmpeg invocation, including the captured
// stderr for diagnosis.
type FFmpegError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *FFmpegError) Error() string {
	return fmt.Sprintf("ffmpeg error: %v\nargs: %v\nstderr: %s", e.Err, e.Args, e.Stderr)
}

func (e *FFmpegError) Unwrap() error {
	return e.Err
}
