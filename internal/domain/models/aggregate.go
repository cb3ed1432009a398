package models

import "time"

// DailyAggregate is the persisted unit: every NEO fetched for one calendar date.
//
// Fields:
//   - FetchDate: the date the fetch ran ("2006-01-02"); primary key, one record per date.
//   - Neos: normalized entities in upstream order.
//   - ExpiryTimestamp: UTC epoch seconds after which the store may purge the record.
//
// This model is also the body returned by GET /api/v1/neos.
type DailyAggregate struct {
	FetchDate       string                `json:"fetch_date" dynamodbav:"fetch_date"`
	Neos            []NormalizedNeoEntity `json:"neos" dynamodbav:"neos"`
	ExpiryTimestamp int64                 `json:"expiry_timestamp" dynamodbav:"expiry_timestamp"`
}

// Expired reports whether the record's time-to-live has passed at now.
func (a DailyAggregate) Expired(now time.Time) bool {
	return a.ExpiryTimestamp <= now.Unix()
}
