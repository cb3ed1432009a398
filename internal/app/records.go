package app

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/guttosm/neopulse/config"
	"github.com/guttosm/neopulse/internal/archive"
	"github.com/guttosm/neopulse/internal/storage"
)

// NewRecordsRepository opens the aggregate store selected by cfg.Records.Backend.
//
// Returns:
//   - storage.AggregateRepository: the store (also a storage.Pinger; postgres is a storage.Expirer).
//   - func(): releases the underlying connection.
//   - error: if the store could not be opened.
func NewRecordsRepository(ctx context.Context, cfg config.Config) (storage.AggregateRepository, func(), error) {
	switch cfg.Records.Backend {
	case config.RecordsDynamoDB:
		awsCfg, err := LoadAWSConfig(ctx, cfg.AWS)
		if err != nil {
			return nil, nil, err
		}
		repo := storage.NewDynamoRepository(dynamodb.NewFromConfig(awsCfg), cfg.Records.Table)
		return repo, func() {}, nil

	case config.RecordsPostgres:
		// indirection for unit testing
		db, err := postgresOpener(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize postgres: %w", err)
		}
		repo := storage.NewPostgresRepository(db, cfg.Records.Table)
		return repo, func() { _ = db.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unsupported records backend: %s", cfg.Records.Backend)
	}
}

// NewArchiveStore opens the raw-response object store selected by cfg.Archive.Backend.
func NewArchiveStore(ctx context.Context, cfg config.Config) (archive.ObjectStore, error) {
	awsCfg, err := LoadAWSConfig(ctx, cfg.AWS)
	if err != nil {
		return nil, err
	}
	return archive.NewObjectStore(ctx, cfg.Archive, awsCfg)
}
