package ingestion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/guttosm/neopulse/internal/archive"
	"github.com/guttosm/neopulse/internal/domain/dto"
	"github.com/guttosm/neopulse/internal/domain/models"
	"github.com/guttosm/neopulse/internal/fetcher"
	"github.com/guttosm/neopulse/internal/logger"
	"github.com/guttosm/neopulse/internal/storage"
	"github.com/guttosm/neopulse/internal/transform"
)

var (
	// ErrFetch marks a run aborted because the feed could not be retrieved.
	ErrFetch = errors.New("fetch failed")
	// ErrPersist marks a run whose aggregate could not be written.
	ErrPersist = errors.New("persist failed")
)

// Pipeline runs fetch → archive → transform → persist once per invocation.
type Pipeline struct {
	fetcher   fetcher.FeedFetcher
	archive   archive.ObjectStore
	container string
	repo      storage.AggregateRepository
	now       func() time.Time
}

// NewPipeline wires the collaborators. container is the archive bucket.
func NewPipeline(f fetcher.FeedFetcher, store archive.ObjectStore, container string, repo storage.AggregateRepository) *Pipeline {
	return &Pipeline{
		fetcher:   f,
		archive:   store,
		container: container,
		repo:      repo,
		now:       time.Now,
	}
}

// Run processes today's (UTC) feed and returns the persisted aggregate.
//
// Behavior:
//   - Fetch failure aborts before anything is written.
//   - Archive and table-provisioning failures are logged and the run continues.
//   - Missing or malformed data for today fails the run; nothing is persisted.
//   - Persistence is a single upsert keyed by fetch_date.
func (p *Pipeline) Run(ctx context.Context) (agg models.DailyAggregate, err error) {
	start := p.now()
	fetchDate := transform.FetchDateFor(start)
	log := logger.L().With().
		Str("run_id", uuid.NewString()).
		Str("fetch_date", fetchDate).
		Logger()

	defer func() {
		if err != nil {
			log.Error().Err(err).Dur("elapsed", time.Since(start)).Msg("run failed")
			return
		}
		log.Info().Int("neos", len(agg.Neos)).Dur("elapsed", time.Since(start)).Msg("run succeeded")
	}()

	log.Info().Str("step", "fetch").Msg("requesting feed")
	feed, err := p.fetcher.FetchFeed(ctx, fetchDate)
	if err != nil {
		return models.DailyAggregate{}, fmt.Errorf("%w: %w", ErrFetch, err)
	}

	p.archiveRaw(ctx, log, feed.Body, start)

	entities, err := transform.ExtractEntities(feed, fetchDate)
	if err != nil {
		return models.DailyAggregate{}, err
	}
	agg, err = transform.Aggregate(entities, fetchDate, start)
	if err != nil {
		return models.DailyAggregate{}, err
	}
	log.Info().Str("step", "transform").Int("neos", len(agg.Neos)).Int64("expiry_timestamp", agg.ExpiryTimestamp).Msg("aggregate built")

	if err := p.repo.EnsureTable(ctx); err != nil {
		// The put below fails loudly if the table is truly unusable.
		log.Error().Str("step", "provision").Err(err).Msg("table provisioning failed; attempting write anyway")
	}

	if err := p.repo.PutAggregate(ctx, agg); err != nil {
		return models.DailyAggregate{}, fmt.Errorf("%w: %w", ErrPersist, err)
	}
	log.Info().Str("step", "persist").Msg("aggregate stored")

	return agg, nil
}

func (p *Pipeline) archiveRaw(ctx context.Context, log zerolog.Logger, body []byte, at time.Time) {
	name := archive.ObjectName(at)
	l := log.With().Str("step", "archive").Str("container", p.container).Str("object", name).Logger()
	if err := p.archive.Put(ctx, p.container, name, body); err != nil {
		l.Warn().Err(err).Msg("raw archive failed; continuing")
		return
	}
	l.Info().Int("bytes", len(body)).Msg("raw response archived")
}

// Invoke runs the pipeline and maps the outcome to a status result.
func (p *Pipeline) Invoke(ctx context.Context) dto.RunResult {
	_, err := p.Run(ctx)
	return ToResult(err)
}

// HandleEvent is the serverless entry point. The event payload is ignored.
func (p *Pipeline) HandleEvent(ctx context.Context, _ json.RawMessage) (dto.RunResult, error) {
	return p.Invoke(ctx), nil
}

// ToResult maps a run error to {200, "Success"} or {500, cause}.
func ToResult(err error) dto.RunResult {
	if err != nil {
		return dto.RunResult{StatusCode: 500, Body: err.Error()}
	}
	return dto.RunResult{StatusCode: 200, Body: "Success"}
}
