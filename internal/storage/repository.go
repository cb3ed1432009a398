package storage

import (
	"context"
	"time"

	"github.com/guttosm/neopulse/internal/domain/models"
)

// AggregateRepository is the durable store for daily aggregates, keyed by fetch_date.
type AggregateRepository interface {
	// EnsureTable provisions the table if it does not exist. "Already exists" is not an error.
	EnsureTable(ctx context.Context) error
	// PutAggregate writes agg as a single atomic upsert; a later write for the same date replaces it.
	PutAggregate(ctx context.Context, agg models.DailyAggregate) error
	// GetAggregate returns the record for fetchDate, or nil when absent or expired at now.
	GetAggregate(ctx context.Context, fetchDate string, now time.Time) (*models.DailyAggregate, error)
}

// Expirer is implemented by stores without native TTL.
type Expirer interface {
	// DeleteExpired removes every record whose expiry_timestamp is at or before now.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// Pinger reports whether the backing store is reachable; used by /readyz.
type Pinger interface {
	Ping(ctx context.Context) error
}
