package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/neopulse/config"
	"github.com/guttosm/neopulse/internal/api"
	"github.com/guttosm/neopulse/internal/fetcher"
	"github.com/guttosm/neopulse/internal/ingestion"
	"github.com/guttosm/neopulse/internal/service"
	"github.com/guttosm/neopulse/internal/storage"
)

// InitializeApp sets up the read API and returns
// a fully configured Gin router, a cleanup function for graceful shutdown,
// and any error encountered during initialization.
//
// Responsibilities:
//   - Opens the records store selected by cfg.Records.Backend.
//   - Creates the service and HTTP handler layers.
//   - Configures the Gin router with all API routes.
//   - Registers health and readiness probes.
//   - Provides a cleanup function to close resources (e.g., DB connection).
func InitializeApp(cfg config.Config) (*gin.Engine, func(), error) {
	repo, closeRepo, err := NewRecordsRepository(context.Background(), cfg)
	if err != nil {
		return nil, nil, err
	}

	// Initialize service layer (read path with expiry filtering)
	svc := service.NewNeoService(repo)

	// Initialize HTTP handler layer
	handler := api.NewHandler(svc)

	// Setup Gin router with routes
	router := api.NewRouter(handler)

	// Register health and readiness probes
	var ping func(context.Context) error
	if p, ok := repo.(storage.Pinger); ok {
		ping = p.Ping
	}
	api.NewHealthHandler(ping).Register(router)

	return router, closeRepo, nil
}

// NewPipeline wires the daily ingestion run from cfg.
//
// Responsibilities:
//   - Builds the NASA feed client.
//   - Opens the archive object store and the records store.
//   - Returns a cleanup closing both.
func NewPipeline(ctx context.Context, cfg config.Config) (*ingestion.Pipeline, func(), error) {
	feed := fetcher.NewNASAClient(cfg.NASA.FeedURL, cfg.NASA.APIKey, cfg.NASA.Timeout)

	store, err := NewArchiveStore(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize archive: %w", err)
	}

	repo, closeRepo, err := NewRecordsRepository(ctx, cfg)
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}

	cleanup := func() {
		_ = store.Close()
		closeRepo()
	}
	return ingestion.NewPipeline(feed, store, cfg.Archive.Bucket, repo), cleanup, nil
}
