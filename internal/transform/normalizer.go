package transform

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/guttosm/neopulse/internal/domain/models"
)

// Fixed precision per field category (digits after the decimal point).
const (
	PrecisionAbsoluteMagnitude   int32 = 2
	PrecisionDiameter            int32 = 2
	PrecisionKilometersPerSecond int32 = 5
	PrecisionVelocity            int32 = 2 // km/h and mph
	PrecisionAstronomical        int32 = 8
	PrecisionDistance            int32 = 2 // lunar, km, miles
)

var (
	// ErrDataShape marks any missing or mistyped field in the upstream payload.
	ErrDataShape = errors.New("data shape error")
	// ErrDataUnavailable marks a feed without entities for the requested date.
	ErrDataUnavailable = errors.New("data unavailable")

	ErrMissingField = fmt.Errorf("%w: missing field", ErrDataShape)
	ErrNotNumeric   = fmt.Errorf("%w: non-numeric value", ErrDataShape)
)

// ShapeError names the payload path that failed validation.
type ShapeError struct {
	Path string
	Err  error
}

func (e *ShapeError) Error() string { return e.Path + ": " + e.Err.Error() }

func (e *ShapeError) Unwrap() error { return e.Err }

// maxExponent bounds the scale Round has to rescale through; no feed value comes near it.
const maxExponent = 1000

// Normalize rounds value to precision fractional digits using round-half-up
// (ties go away from zero).
//
// Accepted inputs:
//   - models.RawNumber: a JSON number or numeric string token, parsed as decimal text.
//   - string, json.Number: parsed as decimal text.
//   - float64, float32: converted through their shortest decimal representation.
//   - int, int64, decimal.Decimal.
//
// No binary floating point is involved once the value is a decimal. The result
// always has exponent -precision, so StringFixed(precision) is exact.
//
// Errors:
//   - ErrMissingField when value is nil, an empty token or JSON null.
//   - ErrNotNumeric for anything that does not parse as a number, or whose
//     decimal exponent is beyond ±maxExponent.
func Normalize(value any, precision int32) (decimal.Decimal, error) {
	if precision < 0 {
		return decimal.Decimal{}, fmt.Errorf("negative precision %d", precision)
	}
	d, err := toDecimal(value)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if exp := d.Exponent(); exp > maxExponent || exp < -maxExponent {
		return decimal.Decimal{}, fmt.Errorf("%w: exponent %d out of range", ErrNotNumeric, exp)
	}
	// decimal.Round is half away from zero.
	return d.Round(precision), nil
}

func toDecimal(value any) (decimal.Decimal, error) {
	switch v := value.(type) {
	case nil:
		return decimal.Decimal{}, ErrMissingField
	case decimal.Decimal:
		return v, nil
	case models.RawNumber:
		return parseToken(v)
	case json.Number:
		return parseText(string(v))
	case string:
		return parseText(v)
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return decimal.Decimal{}, fmt.Errorf("%w: %v", ErrNotNumeric, v)
		}
		return decimal.NewFromFloat(v), nil
	case float32:
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return decimal.Decimal{}, fmt.Errorf("%w: %v", ErrNotNumeric, v)
		}
		return decimal.NewFromFloat32(v), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	default:
		return decimal.Decimal{}, fmt.Errorf("%w: unsupported type %T", ErrNotNumeric, value)
	}
}

// parseToken handles a raw JSON token: a number literal or a quoted numeric string.
func parseToken(tok models.RawNumber) (decimal.Decimal, error) {
	s := strings.TrimSpace(string(tok))
	if s == "" || s == "null" {
		return decimal.Decimal{}, ErrMissingField
	}
	if s[0] == '"' {
		var text string
		if err := json.Unmarshal([]byte(s), &text); err != nil {
			return decimal.Decimal{}, fmt.Errorf("%w: %s", ErrNotNumeric, s)
		}
		return parseText(text)
	}
	if s[0] != '-' && (s[0] < '0' || s[0] > '9') {
		return decimal.Decimal{}, fmt.Errorf("%w: %s", ErrNotNumeric, s)
	}
	return parseText(s)
}

func parseText(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Decimal{}, fmt.Errorf("%w: empty string", ErrNotNumeric)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrNotNumeric, s)
	}
	return d, nil
}
