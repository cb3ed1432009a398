package models

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"
)

// Quantized is a decimal value pinned to a fixed number of fractional digits.
//
// It always renders with exactly Places() digits after the point ("0.10", not "0.1"),
// both in JSON (as a number literal) and in DynamoDB (as an N attribute), so no
// binary floating-point value is ever persisted.
type Quantized struct {
	value  decimal.Decimal
	places int32
}

// NewQuantized wraps a decimal that has already been rounded to places digits.
func NewQuantized(d decimal.Decimal, places int32) Quantized {
	return Quantized{value: d, places: places}
}

// Decimal returns the underlying decimal value.
func (q Quantized) Decimal() decimal.Decimal { return q.value }

// Places returns the number of fractional digits.
func (q Quantized) Places() int32 { return q.places }

// String returns the fixed-point text, e.g. "21.85".
func (q Quantized) String() string { return q.value.StringFixed(q.places) }

// Equal reports whether both values have the same digits and precision.
func (q Quantized) Equal(o Quantized) bool {
	return q.places == o.places && q.value.Equal(o.value)
}

// MarshalJSON emits an unquoted JSON number with a fixed scale.
func (q Quantized) MarshalJSON() ([]byte, error) {
	return []byte(q.String()), nil
}

// UnmarshalJSON accepts a JSON number or numeric string and keeps its scale.
func (q *Quantized) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	return q.parse(s)
}

// MarshalDynamoDBAttributeValue stores the value as a DynamoDB number.
func (q Quantized) MarshalDynamoDBAttributeValue() (types.AttributeValue, error) {
	return &types.AttributeValueMemberN{Value: q.String()}, nil
}

// UnmarshalDynamoDBAttributeValue reads a DynamoDB number (or string) attribute.
func (q *Quantized) UnmarshalDynamoDBAttributeValue(av types.AttributeValue) error {
	switch v := av.(type) {
	case *types.AttributeValueMemberN:
		return q.parse(v.Value)
	case *types.AttributeValueMemberS:
		return q.parse(v.Value)
	default:
		return fmt.Errorf("quantized: unsupported attribute type %T", av)
	}
}

func (q *Quantized) parse(s string) error {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("quantized: %w", err)
	}
	places := int32(0)
	if exp := d.Exponent(); exp < 0 {
		places = -exp
	}
	q.value = d
	q.places = places
	return nil
}
