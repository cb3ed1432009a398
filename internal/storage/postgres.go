package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	pq "github.com/lib/pq"

	"github.com/guttosm/neopulse/internal/domain/models"
)

// PostgresRepository implements AggregateRepository and Expirer on PostgreSQL.
type PostgresRepository struct {
	db    *sql.DB
	table string
}

// NewPostgresRepository stores aggregates in table, one row per fetch_date with neos as JSONB.
func NewPostgresRepository(db *sql.DB, table string) *PostgresRepository {
	return &PostgresRepository{db: db, table: pq.QuoteIdentifier(table)}
}

// EnsureTable mirrors db/migrations so a fresh database works without running goose.
func (r *PostgresRepository) EnsureTable(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			fetch_date       DATE PRIMARY KEY,
			neos             JSONB NOT NULL,
			expiry_timestamp BIGINT NOT NULL,
			updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`, r.table))
	if err != nil {
		return fmt.Errorf("create table %s: %w", r.table, err)
	}
	return nil
}

// PutAggregate upserts the whole aggregate in one statement.
func (r *PostgresRepository) PutAggregate(ctx context.Context, agg models.DailyAggregate) error {
	neos := agg.Neos
	if neos == nil {
		neos = []models.NormalizedNeoEntity{}
	}
	payload, err := json.Marshal(neos)
	if err != nil {
		return fmt.Errorf("encode neos: %w", err)
	}

	_, err = r.db.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (fetch_date, neos, expiry_timestamp)
		VALUES ($1, $2, $3)
		ON CONFLICT (fetch_date)
		DO UPDATE SET neos = EXCLUDED.neos,
					  expiry_timestamp = EXCLUDED.expiry_timestamp,
					  updated_at = NOW()
	`, r.table), agg.FetchDate, string(payload), agg.ExpiryTimestamp)
	if err != nil {
		return fmt.Errorf("upsert %s: %w", agg.FetchDate, err)
	}
	return nil
}

func (r *PostgresRepository) GetAggregate(ctx context.Context, fetchDate string, now time.Time) (*models.DailyAggregate, error) {
	var (
		agg     models.DailyAggregate
		payload []byte
	)
	err := r.db.QueryRowContext(ctx, fmt.Sprintf(`
		SELECT to_char(fetch_date, 'YYYY-MM-DD'), neos, expiry_timestamp
		FROM %s
		WHERE fetch_date = $1 AND expiry_timestamp > $2
	`, r.table), fetchDate, now.Unix()).Scan(&agg.FetchDate, &payload, &agg.ExpiryTimestamp)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", fetchDate, err)
	}
	if err := json.Unmarshal(payload, &agg.Neos); err != nil {
		return nil, fmt.Errorf("decode neos for %s: %w", fetchDate, err)
	}
	return &agg, nil
}

// DeleteExpired stands in for DynamoDB TTL on Postgres.
func (r *PostgresRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE expiry_timestamp <= $1`, r.table), now.Unix())
	if err != nil {
		return 0, fmt.Errorf("delete expired: %w", err)
	}
	return res.RowsAffected()
}

func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
