package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/klapauciusisgreat/splitmp3/internal/bootstrap"
	"github.com/klapauciusisgreat/splitmp3/internal/config"
	"github.com/klapauciusisgreat/splitmp3/internal/split"
)

const longHelp = `Segments an audio file into smaller MP3 files at silence boundaries,
using ffmpeg for silence detection and audio processing.

A subdirectory named after the input file (extension stripped) is
created inside the output directory, and the segments are written there
as zero-padded numbered files (001.mp3, 002.mp3, ...). If silence
detection fails, a single file containing the entire input is written
instead.

Example:
  splitmp3 mybook.m4a /output -l 600 -d 0.3 -t -25

processes 'mybook.m4a' into '/output/mybook/', cutting segments of
about 10 minutes at silences longer than 0.3 seconds where the sound
drops below -25dB.`

func newRootCommand() *cobra.Command {
	var configFlag string
	var noSummary bool

	cmd := &cobra.Command{
		Use:           "splitmp3 <input_file> <output_dir>",
		Short:         "Split an audio file into MP3 segments at silence boundaries",
		Long:          longHelp,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFlag)
			if err != nil {
				return err
			}
			applyFlagOverrides(cmd, cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger := cfg.NewLogger()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			deps, err := bootstrap.NewDependencies(cfg, logger)
			if err != nil {
				return err
			}

			result, runErr := deps.Service.Run(ctx, split.Input{
				InputFile:          args[0],
				OutputDir:          args[1],
				SegmentLength:      cfg.SegmentLength,
				MinSilenceDuration: cfg.MinSilenceDuration,
				SilenceThreshold:   cfg.SilenceThreshold,
			})
			if result != nil && !noSummary && isTerminal(os.Stdout) {
				fmt.Fprintln(cmd.OutOrStdout(), renderSegmentTable(result))
			}
			return runErr
		},
	}

	cmd.Flags().IntP("segment-length", "l", 300, "Target segment length in seconds")
	cmd.Flags().Float64P("min-silence-duration", "d", 0.5, "Minimum silence duration to detect, in seconds")
	cmd.Flags().IntP("silence-threshold", "t", -30, "Silence threshold in dB")
	cmd.Flags().String("ffmpeg", "", "Path to the ffmpeg binary (default: ffmpeg from PATH)")
	cmd.Flags().String("ffprobe", "", "Path to the ffprobe binary (default: ffprobe from PATH)")
	cmd.Flags().String("log-level", "", "Log level: debug, info, warn, error (default: info)")
	cmd.Flags().String("log-format", "", "Log format: text or json (default: text)")
	cmd.Flags().StringVarP(&configFlag, "config", "c", "", "Optional TOML configuration file")
	cmd.Flags().BoolVar(&noSummary, "no-summary", false, "Suppress the segment summary table")

	return cmd
}

// applyFlagOverrides copies explicitly set flags over the loaded
// configuration, completing the defaults < file < env < flags chain.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("segment-length") {
		cfg.SegmentLength, _ = flags.GetInt("segment-length")
	}
	if flags.Changed("min-silence-duration") {
		cfg.MinSilenceDuration, _ = flags.GetFloat64("min-silence-duration")
	}
	if flags.Changed("silence-threshold") {
		cfg.SilenceThreshold, _ = flags.GetInt("silence-threshold")
	}
	if flags.Changed("ffmpeg") {
		cfg.FFmpegPath, _ = flags.GetString("ffmpeg")
	}
	if flags.Changed("ffprobe") {
		cfg.FFprobePath, _ = flags.GetString("ffprobe")
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-format") {
		cfg.LogFormat, _ = flags.GetString("log-format")
	}
}
