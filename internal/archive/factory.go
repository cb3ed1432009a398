package archive

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/guttosm/neopulse/config"
)

// NewObjectStore builds the store selected by cfg.Backend. awsCfg is only used by the s3 backend.
func NewObjectStore(ctx context.Context, cfg config.ArchiveConfig, awsCfg aws.Config) (ObjectStore, error) {
	switch cfg.Backend {
	case config.ArchiveS3:
		return NewS3Store(s3.NewFromConfig(awsCfg)), nil

	case config.ArchiveGCS:
		store, err := NewGCSStore(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize GCS store: %w", err)
		}
		return store, nil

	case config.ArchiveLocal:
		store, err := NewLocalStore(cfg.LocalDir)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize local store: %w", err)
		}
		return store, nil

	default:
		return nil, fmt.Errorf("unsupported archive backend: %s", cfg.Backend)
	}
}
