package archive

import (
	"context"
	"fmt"

	"github.com/guttosm/neopulse/internal/logger"
)

// Clear deletes every object in container and reports how many were removed.
//
// It is an administrative operation (--mode clear-archive) and is never
// reached from the daily pipeline.
func Clear(ctx context.Context, store ObjectStore, container string) (int, error) {
	log := logger.Component("archive").With().Str("container", container).Logger()

	keys, err := store.ListAll(ctx, container)
	if err != nil {
		return 0, fmt.Errorf("clear %s: %w", container, err)
	}
	if len(keys) == 0 {
		log.Info().Msg("archive already empty")
		return 0, nil
	}

	if err := store.DeleteMany(ctx, container, keys); err != nil {
		return 0, fmt.Errorf("clear %s: %w", container, err)
	}
	log.Info().Int("deleted", len(keys)).Msg("archive cleared")
	return len(keys), nil
}
