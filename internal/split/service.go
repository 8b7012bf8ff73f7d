// Package split orchestrates a single segmentation run: probe the
// input, detect silences, plan segments, write them sequentially, and
// optionally publish the results.
package split

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"

	"github.com/klapauciusisgreat/splitmp3/internal/media"
	"github.com/klapauciusisgreat/splitmp3/internal/segment"
	"github.com/klapauciusisgreat/splitmp3/internal/storage"
)

// lockFileName guards the output subdirectory against a second
// concurrent run writing the same segments.
const lockFileName = ".splitmp3.lock"

// ErrOutputDirBusy is returned when another run holds the output
// directory lock.
var ErrOutputDirBusy = errors.New("output directory is in use by another run")

// Outcome describes how a run produced its output.
type Outcome string

const (
	// OutcomeSplit means the file was cut at planned silence boundaries.
	OutcomeSplit Outcome = "split"
	// OutcomeWholeFile means silence detection failed and the entire
	// input was written as a single output file.
	OutcomeWholeFile Outcome = "whole-file"
)

// Input describes one segmentation run.
type Input struct {
	// InputFile is the source audio file.
	InputFile string
	// OutputDir is the directory under which the per-file
	// subdirectory is created.
	OutputDir string
	// SegmentLength is the target segment length in seconds.
	SegmentLength int
	// MinSilenceDuration is the minimum silence to detect, seconds.
	MinSilenceDuration float64
	// SilenceThreshold is the loudness ceiling for silence, dB.
	SilenceThreshold int
}

// SegmentResult records the fate of one planned segment.
type SegmentResult struct {
	Index    int
	Name     string
	Interval segment.Interval
	Path     string
	URL      string
	Err      error
}

// Result is the outcome of a run.
type Result struct {
	Outcome  Outcome
	Dir      string
	Duration float64
	Segments []SegmentResult
}

// Service runs the segmentation workflow against an injected engine.
type Service struct {
	engine    media.Engine
	publisher storage.Publisher
	logger    *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithPublisher sets the publisher used for finished segments.
func WithPublisher(p storage.Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.publisher = p
		}
	}
}

// NewService creates a Service. A nil logger falls back to
// slog.Default; the publisher defaults to the local no-op.
func NewService(engine media.Engine, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		engine:    engine,
		publisher: storage.NewLocal(),
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run executes one segmentation run. Per-segment write failures do not
// abort the run; they are recorded on the Result and joined into the
// returned error. A probe failure or an unusable output directory is
// fatal and returns before anything is written.
func (s *Service) Run(ctx context.Context, in Input) (*Result, error) {
	base := baseName(in.InputFile)
	dir := filepath.Join(in.OutputDir, base)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	lock := flock.New(filepath.Join(dir, lockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire output lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: %s", ErrOutputDirBusy, dir)
	}
	defer func() { _ = lock.Unlock() }()

	duration, err := s.engine.ProbeDuration(ctx, in.InputFile)
	if err != nil {
		return nil, fmt.Errorf("probe duration: %w", err)
	}
	s.logger.Info("probed input",
		slog.String("input", in.InputFile),
		slog.Float64("duration_sec", duration),
	)

	silences, err := s.engine.DetectSilence(ctx, in.InputFile, in.MinSilenceDuration, in.SilenceThreshold)
	if err != nil {
		s.logger.Warn("silence detection failed, writing whole file",
			slog.String("input", in.InputFile),
			slog.String("error", err.Error()),
		)
		return s.writeWholeFile(ctx, in, dir, base, duration)
	}
	s.logger.Info("detected silences",
		slog.Int("count", len(silences)),
		slog.Float64("min_silence_sec", in.MinSilenceDuration),
		slog.Int("threshold_db", in.SilenceThreshold),
	)

	plan := segment.Plan(silences, duration, float64(in.SegmentLength))
	result := &Result{Outcome: OutcomeSplit, Dir: dir, Duration: duration}
	if len(plan) == 0 {
		s.logger.Warn("empty segment plan, nothing to write",
			slog.Float64("duration_sec", duration),
		)
		return result, nil
	}

	var failures []error
	for i, iv := range plan {
		name := segment.Filename(i+1, len(plan))
		sr := SegmentResult{Index: i + 1, Name: name, Interval: iv, Path: filepath.Join(dir, name)}

		if err := s.engine.ExtractSegment(ctx, in.InputFile, sr.Path, iv.Start, iv.End); err != nil {
			sr.Err = err
			result.Segments = append(result.Segments, sr)
			failures = append(failures, fmt.Errorf("segment %s: %w", name, err))
			s.logger.Error("failed to create segment",
				slog.String("output", sr.Path),
				slog.String("error", err.Error()),
			)
			if ctx.Err() != nil {
				break
			}
			continue
		}

		s.logger.Info("created segment",
			slog.String("output", sr.Path),
			slog.Float64("duration_sec", iv.Duration()),
		)

		sr.URL, sr.Err = s.publish(ctx, sr.Path, base+"/"+name)
		if sr.Err != nil {
			failures = append(failures, fmt.Errorf("publish %s: %w", name, sr.Err))
		}
		result.Segments = append(result.Segments, sr)
	}

	return result, errors.Join(failures...)
}

// writeWholeFile is the degraded path taken when silence detection
// fails: the entire input becomes <dir>/<basename>.mp3.
func (s *Service) writeWholeFile(ctx context.Context, in Input, dir, base string, duration float64) (*Result, error) {
	sr := SegmentResult{
		Index:    1,
		Name:     base + ".mp3",
		Interval: segment.Interval{Start: 0, End: duration},
		Path:     filepath.Join(dir, base+".mp3"),
	}
	result := &Result{Outcome: OutcomeWholeFile, Dir: dir, Duration: duration}

	if err := s.engine.ExtractSegment(ctx, in.InputFile, sr.Path, 0, duration); err != nil {
		sr.Err = err
		result.Segments = append(result.Segments, sr)
		return result, fmt.Errorf("write whole file: %w", err)
	}

	s.logger.Info("created segment",
		slog.String("output", sr.Path),
		slog.Float64("duration_sec", duration),
	)

	sr.URL, sr.Err = s.publish(ctx, sr.Path, base+"/"+sr.Name)
	result.Segments = append(result.Segments, sr)
	if sr.Err != nil {
		return result, fmt.Errorf("publish %s: %w", sr.Name, sr.Err)
	}
	return result, nil
}

func (s *Service) publish(ctx context.Context, path, key string) (string, error) {
	url, err := s.publisher.Publish(ctx, path, key)
	if err != nil {
		s.logger.Error("failed to publish segment",
			slog.String("path", path),
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return "", err
	}
	if url != "" {
		s.logger.Info("published segment",
			slog.String("path", path),
			slog.String("url", url),
		)
	}
	return url, nil
}

// baseName strips the directory and extension from an input path:
// "/a/mybook.m4a" becomes "mybook".
func baseName(path string) string {
	b := filepath.Base(path)
	return strings.TrimSuffix(b, filepath.Ext(b))
}
