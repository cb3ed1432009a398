package ingestion

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/guttosm/neopulse/internal/domain/models"
	"github.com/guttosm/neopulse/internal/fetcher"
	"github.com/guttosm/neopulse/internal/transform"
)

const feedBody = `{"element_count":1,"near_earth_objects":{"2024-01-01":[{
	"id":"1","name":"(2024 AA)","nasa_jpl_url":"https://ssd.jpl.nasa.gov/tools/sbdb_lookup.html#/?sstr=1",
	"absolute_magnitude_h":21.849,
	"estimated_diameter":{
		"kilometers":{"estimated_diameter_min":0.123,"estimated_diameter_max":0.275},
		"meters":{"estimated_diameter_min":123.4,"estimated_diameter_max":275.1},
		"miles":{"estimated_diameter_min":0.07,"estimated_diameter_max":0.17},
		"feet":{"estimated_diameter_min":405.0,"estimated_diameter_max":902.2}},
	"is_potentially_hazardous_asteroid":false,
	"close_approach_data":[{"close_approach_date":"2024-01-01",
		"relative_velocity":{"kilometers_per_second":"5.1234567","kilometers_per_hour":"18444.4","miles_per_hour":"11460.5"},
		"miss_distance":{"astronomical":"0.123456785","lunar":"48.02","kilometers":"18468748","miles":"11475794"},
		"orbiting_body":"Earth"}]}]}}`

// fakeFetcher returns a canned feed or error.
type fakeFetcher struct {
	body  string
	err   error
	dates []string
}

func (f *fakeFetcher) FetchFeed(_ context.Context, date string) (*models.RawFeedResponse, error) {
	f.dates = append(f.dates, date)
	if f.err != nil {
		return nil, f.err
	}
	var feed models.RawFeedResponse
	if err := json.Unmarshal([]byte(f.body), &feed); err != nil {
		return nil, err
	}
	feed.Body = []byte(f.body)
	return &feed, nil
}

type fakeStore struct {
	puts map[string][]byte
	err  error
}

func (s *fakeStore) Put(_ context.Context, container, name string, data []byte) error {
	if s.err != nil {
		return s.err
	}
	if s.puts == nil {
		s.puts = map[string][]byte{}
	}
	s.puts[container+"/"+name] = data
	return nil
}
func (s *fakeStore) ListAll(context.Context, string) ([]string, error)  { return nil, nil }
func (s *fakeStore) DeleteMany(context.Context, string, []string) error { return nil }
func (s *fakeStore) Close() error                                       { return nil }

type fakeRepo struct {
	records   map[string]models.DailyAggregate
	puts      int
	ensureErr error
	putErr    error
}

func (r *fakeRepo) EnsureTable(context.Context) error { return r.ensureErr }
func (r *fakeRepo) PutAggregate(_ context.Context, agg models.DailyAggregate) error {
	if r.putErr != nil {
		return r.putErr
	}
	if r.records == nil {
		r.records = map[string]models.DailyAggregate{}
	}
	r.puts++
	r.records[agg.FetchDate] = agg
	return nil
}
func (r *fakeRepo) GetAggregate(_ context.Context, d string, _ time.Time) (*models.DailyAggregate, error) {
	agg, ok := r.records[d]
	if !ok {
		return nil, nil
	}
	return &agg, nil
}

func newTestPipeline(f *fakeFetcher, s *fakeStore, r *fakeRepo, now time.Time) *Pipeline {
	p := NewPipeline(f, s, "neopipeline-raw-data", r)
	p.now = func() time.Time { return now }
	return p
}

func TestRun_Success(t *testing.T) {
	now := time.Date(2024, 1, 1, 6, 30, 15, 0, time.UTC)
	f, s, r := &fakeFetcher{body: feedBody}, &fakeStore{}, &fakeRepo{}

	agg, err := newTestPipeline(f, s, r, now).Run(context.Background())
	if err != nil {
		t.Fatalf("Run err: %v", err)
	}
	if len(f.dates) != 1 || f.dates[0] != "2024-01-01" {
		t.Fatalf("fetched dates %v", f.dates)
	}
	raw, ok := s.puts["neopipeline-raw-data/NEO-Data2024-01-01_06-30-15.json"]
	if !ok || string(raw) != feedBody {
		t.Fatalf("raw response not archived verbatim: %v", s.puts)
	}
	stored := r.records["2024-01-01"]
	if stored.FetchDate != "2024-01-01" || len(stored.Neos) != 1 || len(agg.Neos) != 1 {
		t.Fatalf("unexpected stored aggregate %+v", stored)
	}
	if stored.ExpiryTimestamp != now.Unix()+30*24*3600 {
		t.Fatalf("expiry = %d", stored.ExpiryTimestamp)
	}
	neo := stored.Neos[0]
	if neo.AbsoluteMagnitudeH.String() != "21.85" ||
		neo.EstimatedDiameter.Kilometers.Min.String() != "0.12" ||
		neo.CloseApproachData[0].RelativeVelocity.KilometersPerSecond.String() != "5.12346" ||
		neo.CloseApproachData[0].MissDistance.Astronomical.String() != "0.12345679" {
		t.Fatalf("unexpected normalized entity %+v", neo)
	}
}

func TestRun_FetchFailureWritesNothing(t *testing.T) {
	f := &fakeFetcher{err: &fetcher.StatusError{StatusCode: 500}}
	s, r := &fakeStore{}, &fakeRepo{}

	res := newTestPipeline(f, s, r, time.Now()).Invoke(context.Background())
	if res.StatusCode != 500 || !strings.Contains(res.Body, "500") {
		t.Fatalf("unexpected result %+v", res)
	}
	if len(s.puts) != 0 || r.puts != 0 {
		t.Fatalf("fetch failure must not archive or persist: archives=%d puts=%d", len(s.puts), r.puts)
	}

	_, err := newTestPipeline(f, s, r, time.Now()).Run(context.Background())
	var se *fetcher.StatusError
	if !errors.Is(err, ErrFetch) || !errors.As(err, &se) {
		t.Fatalf("want ErrFetch wrapping StatusError, got %v", err)
	}
}

func TestRun_ArchiveFailureIsNonFatal(t *testing.T) {
	f, s, r := &fakeFetcher{body: feedBody}, &fakeStore{err: errors.New("bucket gone")}, &fakeRepo{}
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	if res := newTestPipeline(f, s, r, now).Invoke(context.Background()); !res.OK() || res.Body != "Success" {
		t.Fatalf("unexpected result %+v", res)
	}
	if r.puts != 1 {
		t.Fatalf("aggregate must still be persisted")
	}
}

func TestRun_ProvisioningFailureIsNonFatal(t *testing.T) {
	f, s, r := &fakeFetcher{body: feedBody}, &fakeStore{}, &fakeRepo{ensureErr: errors.New("create denied")}
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	if res := newTestPipeline(f, s, r, now).Invoke(context.Background()); !res.OK() {
		t.Fatalf("unexpected result %+v", res)
	}
	if r.puts != 1 {
		t.Fatalf("put must still be attempted")
	}
}

func TestRun_PersistFailure(t *testing.T) {
	f, s, r := &fakeFetcher{body: feedBody}, &fakeStore{}, &fakeRepo{putErr: errors.New("throughput exceeded")}
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := newTestPipeline(f, s, r, now).Run(context.Background())
	if !errors.Is(err, ErrPersist) {
		t.Fatalf("want ErrPersist, got %v", err)
	}
	if res := ToResult(err); res.StatusCode != 500 || !strings.Contains(res.Body, "throughput exceeded") {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestRun_DataFailures(t *testing.T) {
	cases := []struct {
		name string
		body string
		want error
	}{
		{name: "date key absent", body: `{"near_earth_objects":{"2023-12-31":[]}}`, want: transform.ErrDataUnavailable},
		{name: "empty list", body: `{"near_earth_objects":{"2024-01-01":[]}}`, want: transform.ErrDataUnavailable},
		{name: "missing field", body: `{"near_earth_objects":{"2024-01-01":[{"id":"1"}]}}`, want: transform.ErrDataShape},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f, s, r := &fakeFetcher{body: tc.body}, &fakeStore{}, &fakeRepo{}
			_, err := newTestPipeline(f, s, r, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)).Run(context.Background())
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
			if r.puts != 0 {
				t.Fatalf("no partial aggregate may be persisted")
			}
			if len(s.puts) != 1 {
				t.Fatalf("raw response is archived before transform")
			}
		})
	}
}

func TestRun_SameDayRerunUpserts(t *testing.T) {
	f, s, r := &fakeFetcher{body: feedBody}, &fakeStore{}, &fakeRepo{}
	first := time.Date(2024, 1, 1, 6, 0, 0, 0, time.UTC)
	second := first.Add(2 * time.Hour)

	if _, err := newTestPipeline(f, s, r, first).Run(context.Background()); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if _, err := newTestPipeline(f, s, r, second).Run(context.Background()); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if len(r.records) != 1 {
		t.Fatalf("records = %d, want 1", len(r.records))
	}
	if got := r.records["2024-01-01"].ExpiryTimestamp; got != second.Unix()+30*24*3600 {
		t.Fatalf("later run must win, expiry = %d", got)
	}
	if len(s.puts) != 2 {
		t.Fatalf("each run archives under a distinct name, got %d", len(s.puts))
	}
}

func TestHandleEvent_IgnoresPayload(t *testing.T) {
	f, s, r := &fakeFetcher{body: feedBody}, &fakeStore{}, &fakeRepo{}
	p := newTestPipeline(f, s, r, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	res, err := p.HandleEvent(context.Background(), json.RawMessage(`{"source":"aws.events"}`))
	if err != nil || res.StatusCode != 200 || res.Body != "Success" {
		t.Fatalf("res=%+v err=%v", res, err)
	}
}
