package pipeline

import (
	"context"
	"fmt"

	"github.com/jerusalem-70-ad/jad-builder/internal/config"
	"github.com/jerusalem-70-ad/jad-builder/pkg/loader"
	ioloader "github.com/jerusalem-70-ad/jad-builder/pkg/loader/io"
	s3loader "github.com/jerusalem-70-ad/jad-builder/pkg/loader/s3"
	"github.com/jerusalem-70-ad/jad-builder/pkg/loader/web"
)

// NewLoader picks the dataset loader named by cfg.Dataset.Source.
func NewLoader(ctx context.Context, cfg *config.Config) (loader.DatasetLoader, error) {
	switch cfg.Dataset.Source {
	case config.SourceIO:
		return ioloader.NewIODatasetLoader(cfg.Dataset.Dir), nil
	case config.SourceWeb:
		return web.NewWebDatasetLoader(web.NewWebDatasetLoaderParams{
			BaseURL:    cfg.Dataset.BaseURL,
			MaxRetries: cfg.Dataset.MaxRetries,
		}), nil
	case config.SourceS3:
		return s3loader.NewS3DatasetLoader(ctx, s3loader.NewS3DatasetLoaderParams{
			Bucket:    cfg.Dataset.Bucket,
			Prefix:    cfg.Dataset.Prefix,
			Endpoint:  cfg.S3.Endpoint,
			Region:    cfg.S3.Region,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
		})
	default:
		return nil, fmt.Errorf("unknown dataset source %q", cfg.Dataset.Source)
	}
}
