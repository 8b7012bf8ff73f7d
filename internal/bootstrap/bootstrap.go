// Package bootstrap wires the configured dependencies into a ready
// split service.
package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/klapauciusisgreat/splitmp3/internal/config"
	"github.com/klapauciusisgreat/splitmp3/internal/media"
	"github.com/klapauciusisgreat/splitmp3/internal/split"
	"github.com/klapauciusisgreat/splitmp3/internal/storage"
)

// Dependencies holds the initialized collaborators for a run.
type Dependencies struct {
	Engine    media.Engine
	Publisher storage.Publisher
	Service   *split.Service
}

// NewDependencies builds the engine, the publisher, and the split
// service from the configuration.
func NewDependencies(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	engine := media.NewFFmpeg(cfg.FFmpegPath, cfg.FFprobePath)

	publisher, err := newPublisher(cfg, logger)
	if err != nil {
		return nil, err
	}

	return &Dependencies{
		Engine:    engine,
		Publisher: publisher,
		Service:   split.NewService(engine, logger, split.WithPublisher(publisher)),
	}, nil
}

// newPublisher picks the segment publisher based on configuration.
func newPublisher(cfg *config.Config, logger *slog.Logger) (storage.Publisher, error) {
	if !cfg.S3Enabled() {
		return storage.NewLocal(), nil
	}

	pub, err := storage.NewS3(storage.S3Config{
		Bucket:          cfg.S3Bucket,
		Region:          cfg.S3Region,
		AccessKeyID:     cfg.AWSAccessKeyID,
		SecretAccessKey: cfg.AWSSecretAccessKey,
	})
	if err != nil {
		return nil, fmt.Errorf("create S3 publisher: %w", err)
	}
	logger.Info("S3 publishing configured",
		slog.String("bucket", cfg.S3Bucket),
		slog.String("region", cfg.S3Region),
	)
	return pub, nil
}
