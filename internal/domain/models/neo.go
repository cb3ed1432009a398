package models

import (
	"encoding/json"
)

// RawFeedResponse is the NeoWs feed document for a date range.
//
// Only the top-level envelope is decoded eagerly; the per-date entity lists stay
// raw until the pipeline extracts the date it needs, so a malformed entity is
// reported as a data-shape failure instead of a fetch failure.
//
// Example:
//
//	{"element_count": 1, "near_earth_objects": {"2024-01-01": [ {...} ]}}
type RawFeedResponse struct {
	ElementCount     int                        `json:"element_count"`
	NearEarthObjects map[string]json.RawMessage `json:"near_earth_objects"`

	// Body is the verbatim response, archived as-is.
	Body []byte `json:"-"`
}

// RawNumber holds the undecoded JSON text of a numeric field. NeoWs sends some
// numbers as JSON numbers and others as numeric strings; both are kept as text
// so they can be parsed straight into a decimal.
type RawNumber []byte

// UnmarshalJSON copies the raw token; validation happens at normalization.
func (n *RawNumber) UnmarshalJSON(b []byte) error {
	*n = append((*n)[:0], b...)
	return nil
}

// MarshalJSON writes the raw token back unchanged.
func (n RawNumber) MarshalJSON() ([]byte, error) {
	if n == nil {
		return []byte("null"), nil
	}
	return n, nil
}

// RawNeoEntity is one near-earth object as sent by NeoWs.
// Pointer fields distinguish "missing" from zero values.
type RawNeoEntity struct {
	ID                             *string                `json:"id"`
	Name                           *string                `json:"name"`
	NasaJPLURL                     *string                `json:"nasa_jpl_url"`
	AbsoluteMagnitudeH             RawNumber              `json:"absolute_magnitude_h"`
	EstimatedDiameter              map[string]RawDiameter `json:"estimated_diameter"`
	IsPotentiallyHazardousAsteroid *bool                  `json:"is_potentially_hazardous_asteroid"`
	CloseApproachData              []RawCloseApproach     `json:"close_approach_data"`
}

// RawDiameter is the min/max estimate for a single unit.
type RawDiameter struct {
	Min RawNumber `json:"estimated_diameter_min"`
	Max RawNumber `json:"estimated_diameter_max"`
}

// RawCloseApproach is one approach event.
type RawCloseApproach struct {
	CloseApproachDate      string               `json:"close_approach_date"`
	CloseApproachDateFull  string               `json:"close_approach_date_full"`
	EpochDateCloseApproach RawNumber            `json:"epoch_date_close_approach"`
	RelativeVelocity       *RawRelativeVelocity `json:"relative_velocity"`
	MissDistance           *RawMissDistance     `json:"miss_distance"`
	OrbitingBody           string               `json:"orbiting_body"`
}

type RawRelativeVelocity struct {
	KilometersPerSecond RawNumber `json:"kilometers_per_second"`
	KilometersPerHour   RawNumber `json:"kilometers_per_hour"`
	MilesPerHour        RawNumber `json:"miles_per_hour"`
}

type RawMissDistance struct {
	Astronomical RawNumber `json:"astronomical"`
	Lunar        RawNumber `json:"lunar"`
	Kilometers   RawNumber `json:"kilometers"`
	Miles        RawNumber `json:"miles"`
}

// NormalizedNeoEntity is the persisted projection of a RawNeoEntity.
// Every decimal field is quantized; fields not listed here are dropped.
type NormalizedNeoEntity struct {
	NeoID                          string            `json:"neo_id" dynamodbav:"neo_id"`
	Name                           string            `json:"name" dynamodbav:"name"`
	NasaJPLURL                     string            `json:"nasa_jpl_url" dynamodbav:"nasa_jpl_url"`
	AbsoluteMagnitudeH             Quantized         `json:"absolute_magnitude_h" dynamodbav:"absolute_magnitude_h" swaggertype:"number"`
	EstimatedDiameter              EstimatedDiameter `json:"estimated_diameter" dynamodbav:"estimated_diameter"`
	IsPotentiallyHazardousAsteroid bool              `json:"is_potentially_hazardous_asteroid" dynamodbav:"is_potentially_hazardous_asteroid"`
	CloseApproachData              []CloseApproach   `json:"close_approach_data" dynamodbav:"close_approach_data"`
}

// EstimatedDiameter holds the four unit ranges NeoWs reports.
type EstimatedDiameter struct {
	Kilometers DiameterRange `json:"kilometers" dynamodbav:"kilometers"`
	Meters     DiameterRange `json:"meters" dynamodbav:"meters"`
	Miles      DiameterRange `json:"miles" dynamodbav:"miles"`
	Feet       DiameterRange `json:"feet" dynamodbav:"feet"`
}

type DiameterRange struct {
	Min Quantized `json:"estimated_diameter_min" dynamodbav:"estimated_diameter_min" swaggertype:"number"`
	Max Quantized `json:"estimated_diameter_max" dynamodbav:"estimated_diameter_max" swaggertype:"number"`
}

// CloseApproach is a normalized approach event. The date/body fields are
// carried through untouched when present.
type CloseApproach struct {
	CloseApproachDate      string           `json:"close_approach_date,omitempty" dynamodbav:"close_approach_date,omitempty"`
	CloseApproachDateFull  string           `json:"close_approach_date_full,omitempty" dynamodbav:"close_approach_date_full,omitempty"`
	EpochDateCloseApproach int64            `json:"epoch_date_close_approach,omitempty" dynamodbav:"epoch_date_close_approach,omitempty"`
	RelativeVelocity       RelativeVelocity `json:"relative_velocity" dynamodbav:"relative_velocity"`
	MissDistance           MissDistance     `json:"miss_distance" dynamodbav:"miss_distance"`
	OrbitingBody           string           `json:"orbiting_body,omitempty" dynamodbav:"orbiting_body,omitempty"`
}

type RelativeVelocity struct {
	KilometersPerSecond Quantized `json:"kilometers_per_second" dynamodbav:"kilometers_per_second" swaggertype:"number"`
	KilometersPerHour   Quantized `json:"kilometers_per_hour" dynamodbav:"kilometers_per_hour" swaggertype:"number"`
	MilesPerHour        Quantized `json:"miles_per_hour" dynamodbav:"miles_per_hour" swaggertype:"number"`
}

type MissDistance struct {
	Astronomical Quantized `json:"astronomical" dynamodbav:"astronomical" swaggertype:"number"`
	Lunar        Quantized `json:"lunar" dynamodbav:"lunar" swaggertype:"number"`
	Kilometers   Quantized `json:"kilometers" dynamodbav:"kilometers" swaggertype:"number"`
	Miles        Quantized `json:"miles" dynamodbav:"miles" swaggertype:"number"`
}
