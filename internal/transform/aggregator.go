package transform

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/guttosm/neopulse/internal/domain/models"
)

const (
	// DateLayout is the calendar-date format used for fetch_date and feed keys.
	DateLayout = "2006-01-02"
	// RecordTTL is how long a DailyAggregate lives before the store may purge it.
	RecordTTL = 30 * 24 * time.Hour
)

// FetchDateFor returns the UTC calendar date of now.
func FetchDateFor(now time.Time) string {
	return now.UTC().Format(DateLayout)
}

// ExpiryFor returns now + RecordTTL as UTC epoch seconds. The offset is an
// absolute duration, so DST transitions and the local zone have no effect.
func ExpiryFor(now time.Time) int64 {
	return now.Add(RecordTTL).Unix()
}

// ExtractEntities decodes the entity list stored under date in the feed.
//
// Errors:
//   - *ShapeError (ErrDataShape) when near_earth_objects is missing or the list is malformed.
//   - ErrDataUnavailable when the date key is absent.
func ExtractEntities(feed *models.RawFeedResponse, date string) ([]models.RawNeoEntity, error) {
	if feed == nil || feed.NearEarthObjects == nil {
		return nil, &ShapeError{Path: "near_earth_objects", Err: ErrMissingField}
	}
	raw, ok := feed.NearEarthObjects[date]
	if !ok {
		return nil, fmt.Errorf("%w: no entry for %s in feed", ErrDataUnavailable, date)
	}
	var entities []models.RawNeoEntity
	if err := json.Unmarshal(raw, &entities); err != nil {
		return nil, &ShapeError{Path: "near_earth_objects." + date, Err: fmt.Errorf("%w: %v", ErrDataShape, err)}
	}
	return entities, nil
}

// Aggregate builds the DailyAggregate for fetchDate.
//
// Parameters:
//   - entities: raw entities for the date, in upstream order.
//   - fetchDate: caller-supplied calendar date ("2006-01-02"); never derived from entity content.
//   - now: instant used for the expiry computation.
//
// Behavior:
//   - neos[i] is Transform(entities[i]); order is preserved.
//   - ExpiryTimestamp is ExpiryFor(now).
//   - An empty entity list is ErrDataUnavailable, never an empty aggregate.
func Aggregate(entities []models.RawNeoEntity, fetchDate string, now time.Time) (models.DailyAggregate, error) {
	if _, err := time.Parse(DateLayout, fetchDate); err != nil {
		return models.DailyAggregate{}, fmt.Errorf("invalid fetch date %q: %w", fetchDate, err)
	}
	if len(entities) == 0 {
		return models.DailyAggregate{}, fmt.Errorf("%w: no near-earth objects for %s", ErrDataUnavailable, fetchDate)
	}

	neos := make([]models.NormalizedNeoEntity, 0, len(entities))
	for i, raw := range entities {
		neo, err := Transform(raw)
		if err != nil {
			return models.DailyAggregate{}, fmt.Errorf("neos[%d]: %w", i, err)
		}
		neos = append(neos, neo)
	}

	return models.DailyAggregate{
		FetchDate:       fetchDate,
		Neos:            neos,
		ExpiryTimestamp: ExpiryFor(now),
	}, nil
}
