package storage

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dukerupert/weldmark"
)

// NewFileStorage creates a file storage backend from configuration.
func NewFileStorage(ctx context.Context, cfg weldmark.StorageConfig) (weldmark.FileStorage, error) {
	switch cfg.Provider {
	case "s3":
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.S3Region))
		if err != nil {
			return nil, fmt.Errorf("loading AWS config: %w", err)
		}
		client := s3.NewFromConfig(awsCfg)
		return NewS3Storage(client, cfg.S3Bucket, cfg.S3Region, cfg.S3BaseURL), nil

	case "local", "":
		return NewLocalStorage(cfg.LocalPath, cfg.LocalURL)

	default:
		return nil, fmt.Errorf("unknown storage provider %q", cfg.Provider)
	}
}
