package fetcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/guttosm/neopulse/internal/domain/models"
	"github.com/guttosm/neopulse/internal/logger"
)

// DefaultFeedURL is the NeoWs feed endpoint.
const DefaultFeedURL = "https://api.nasa.gov/neo/rest/v1/feed"

var (
	// ErrTransport wraps network-level failures reaching the feed.
	ErrTransport = errors.New("feed transport error")
	// ErrMalformed is returned when the body is not a feed document.
	ErrMalformed = errors.New("malformed feed response")
)

// StatusError reports a non-2xx answer from the feed.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("feed returned status %d", e.StatusCode)
}

// FeedFetcher retrieves the raw feed for a single calendar date.
type FeedFetcher interface {
	FetchFeed(ctx context.Context, date string) (*models.RawFeedResponse, error)
}

// NASAClient talks to the NeoWs feed endpoint.
type NASAClient struct {
	client  *resty.Client
	feedURL string
	apiKey  string
}

// NewNASAClient builds a client for feedURL. A zero timeout leaves the deadline to ctx.
// No retries are configured: a failed request fails the run.
func NewNASAClient(feedURL, apiKey string, timeout time.Duration) *NASAClient {
	if feedURL == "" {
		feedURL = DefaultFeedURL
	}
	client := resty.New()
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	client.SetRetryCount(0)
	return &NASAClient{client: client, feedURL: feedURL, apiKey: apiKey}
}

// FetchFeed requests start_date=end_date=date and decodes the envelope.
//
// The raw body is kept on the response for archival. The API key is sent as
// a query parameter and is never logged.
func (c *NASAClient) FetchFeed(ctx context.Context, date string) (*models.RawFeedResponse, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetQueryParams(map[string]string{
			"start_date": date,
			"end_date":   date,
			"api_key":    c.apiKey,
		}).
		Get(c.feedURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, redactURL(err, c.feedURL))
	}

	if !resp.IsSuccess() {
		logger.L().Warn().Int("status", resp.StatusCode()).Str("date", date).Msg("feed request rejected")
		return nil, &StatusError{StatusCode: resp.StatusCode()}
	}

	body := resp.Body()
	var feed models.RawFeedResponse
	if err := json.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if feed.NearEarthObjects == nil {
		return nil, fmt.Errorf("%w: near_earth_objects absent", ErrMalformed)
	}
	feed.Body = body

	logger.L().Debug().Str("date", date).Int("element_count", feed.ElementCount).Int("bytes", len(body)).Msg("feed fetched")
	return &feed, nil
}

// redactURL drops the query string (which carries api_key) from a *url.Error.
func redactURL(err error, feedURL string) error {
	var urlErr *url.Error
	if !errors.As(err, &urlErr) {
		return err
	}
	return &url.Error{Op: urlErr.Op, URL: feedURL, Err: urlErr.Err}
}
