package transform

import (
	"fmt"

	"github.com/guttosm/neopulse/internal/domain/models"
)

// diameterUnits are the estimated_diameter keys every entity must carry.
var diameterUnits = []string{"kilometers", "meters", "miles", "feet"}

// Transform projects a raw NeoWs entity onto the persisted shape.
//
// It is pure: raw is only read, and the same input always yields the same output.
// Every decimal field is quantized per the precision table; close_approach_data
// keeps its upstream order and length. Any missing or mistyped required field
// yields a *ShapeError carrying the field path.
func Transform(raw models.RawNeoEntity) (models.NormalizedNeoEntity, error) {
	var out models.NormalizedNeoEntity
	var err error

	if out.NeoID, err = requireString("id", raw.ID); err != nil {
		return models.NormalizedNeoEntity{}, err
	}
	if out.Name, err = requireString("name", raw.Name); err != nil {
		return models.NormalizedNeoEntity{}, err
	}
	if out.NasaJPLURL, err = requireString("nasa_jpl_url", raw.NasaJPLURL); err != nil {
		return models.NormalizedNeoEntity{}, err
	}
	if raw.IsPotentiallyHazardousAsteroid == nil {
		return models.NormalizedNeoEntity{}, &ShapeError{Path: "is_potentially_hazardous_asteroid", Err: ErrMissingField}
	}
	out.IsPotentiallyHazardousAsteroid = *raw.IsPotentiallyHazardousAsteroid

	if out.AbsoluteMagnitudeH, err = quantize("absolute_magnitude_h", raw.AbsoluteMagnitudeH, PrecisionAbsoluteMagnitude); err != nil {
		return models.NormalizedNeoEntity{}, err
	}
	if out.EstimatedDiameter, err = transformDiameter(raw.EstimatedDiameter); err != nil {
		return models.NormalizedNeoEntity{}, err
	}

	if raw.CloseApproachData == nil {
		return models.NormalizedNeoEntity{}, &ShapeError{Path: "close_approach_data", Err: ErrMissingField}
	}
	out.CloseApproachData = make([]models.CloseApproach, 0, len(raw.CloseApproachData))
	for i, rawApproach := range raw.CloseApproachData {
		approach, err := transformApproach(fmt.Sprintf("close_approach_data[%d]", i), rawApproach)
		if err != nil {
			return models.NormalizedNeoEntity{}, err
		}
		out.CloseApproachData = append(out.CloseApproachData, approach)
	}

	return out, nil
}

func transformDiameter(raw map[string]models.RawDiameter) (models.EstimatedDiameter, error) {
	var out models.EstimatedDiameter
	if raw == nil {
		return out, &ShapeError{Path: "estimated_diameter", Err: ErrMissingField}
	}
	targets := map[string]*models.DiameterRange{
		"kilometers": &out.Kilometers,
		"meters":     &out.Meters,
		"miles":      &out.Miles,
		"feet":       &out.Feet,
	}
	for _, unit := range diameterUnits {
		path := "estimated_diameter." + unit
		d, ok := raw[unit]
		if !ok {
			return models.EstimatedDiameter{}, &ShapeError{Path: path, Err: ErrMissingField}
		}
		lo, err := quantize(path+".estimated_diameter_min", d.Min, PrecisionDiameter)
		if err != nil {
			return models.EstimatedDiameter{}, err
		}
		hi, err := quantize(path+".estimated_diameter_max", d.Max, PrecisionDiameter)
		if err != nil {
			return models.EstimatedDiameter{}, err
		}
		*targets[unit] = models.DiameterRange{Min: lo, Max: hi}
	}
	return out, nil
}

func transformApproach(path string, raw models.RawCloseApproach) (models.CloseApproach, error) {
	out := models.CloseApproach{
		CloseApproachDate:     raw.CloseApproachDate,
		CloseApproachDateFull: raw.CloseApproachDateFull,
		OrbitingBody:          raw.OrbitingBody,
	}

	// epoch_date_close_approach is optional but must be an integer when present.
	if len(raw.EpochDateCloseApproach) > 0 && string(raw.EpochDateCloseApproach) != "null" {
		epoch, err := toDecimal(raw.EpochDateCloseApproach)
		if err != nil {
			return models.CloseApproach{}, &ShapeError{Path: path + ".epoch_date_close_approach", Err: err}
		}
		if !epoch.IsInteger() {
			return models.CloseApproach{}, &ShapeError{Path: path + ".epoch_date_close_approach", Err: ErrNotNumeric}
		}
		out.EpochDateCloseApproach = epoch.IntPart()
	}

	rv := raw.RelativeVelocity
	if rv == nil {
		return models.CloseApproach{}, &ShapeError{Path: path + ".relative_velocity", Err: ErrMissingField}
	}
	var err error
	velocity := path + ".relative_velocity"
	if out.RelativeVelocity.KilometersPerSecond, err = quantize(velocity+".kilometers_per_second", rv.KilometersPerSecond, PrecisionKilometersPerSecond); err != nil {
		return models.CloseApproach{}, err
	}
	if out.RelativeVelocity.KilometersPerHour, err = quantize(velocity+".kilometers_per_hour", rv.KilometersPerHour, PrecisionVelocity); err != nil {
		return models.CloseApproach{}, err
	}
	if out.RelativeVelocity.MilesPerHour, err = quantize(velocity+".miles_per_hour", rv.MilesPerHour, PrecisionVelocity); err != nil {
		return models.CloseApproach{}, err
	}

	md := raw.MissDistance
	if md == nil {
		return models.CloseApproach{}, &ShapeError{Path: path + ".miss_distance", Err: ErrMissingField}
	}
	miss := path + ".miss_distance"
	if out.MissDistance.Astronomical, err = quantize(miss+".astronomical", md.Astronomical, PrecisionAstronomical); err != nil {
		return models.CloseApproach{}, err
	}
	if out.MissDistance.Lunar, err = quantize(miss+".lunar", md.Lunar, PrecisionDistance); err != nil {
		return models.CloseApproach{}, err
	}
	if out.MissDistance.Kilometers, err = quantize(miss+".kilometers", md.Kilometers, PrecisionDistance); err != nil {
		return models.CloseApproach{}, err
	}
	if out.MissDistance.Miles, err = quantize(miss+".miles", md.Miles, PrecisionDistance); err != nil {
		return models.CloseApproach{}, err
	}

	return out, nil
}

func quantize(path string, v models.RawNumber, places int32) (models.Quantized, error) {
	d, err := Normalize(v, places)
	if err != nil {
		return models.Quantized{}, &ShapeError{Path: path, Err: err}
	}
	return models.NewQuantized(d, places), nil
}

func requireString(path string, v *string) (string, error) {
	if v == nil {
		return "", &ShapeError{Path: path, Err: ErrMissingField}
	}
	return *v, nil
}
