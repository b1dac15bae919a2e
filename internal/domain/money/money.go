// Package money normalizes prices at every ingress boundary.
//
// Collaborator responses, persisted snapshots and caller input may carry a
// price as a JSON number or as a numeric string ("11.99"). Parse is the one
// place that turns any of those into an Amount; everything past the boundary
// is strictly numeric.
package money

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	ErrInvalidPrice  = errors.New("price must be a number or numeric string")
	ErrNegativePrice = errors.New("price must not be negative")
)

// Amount is a non-negative decimal price in the storefront currency.
type Amount float64

func (a Amount) Float64() float64 {
	return float64(a)
}

// Round2 rounds to whole cents.
func (a Amount) Round2() Amount {
	return Amount(Round2(float64(a)))
}

func (a Amount) String() string {
	return strconv.FormatFloat(Round2(float64(a)), 'f', 2, 64)
}

// Round2 rounds v to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Parse normalizes v to an Amount. Accepted inputs are Go numeric types,
// json.Number and numeric strings; anything else, NaN, Inf and negative
// values are rejected.
func Parse(v any) (Amount, error) {
	var f float64
	switch x := v.(type) {
	case Amount:
		f = float64(x)
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case int32:
		f = float64(x)
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidPrice, x.String())
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidPrice, x)
		}
		f = parsed
	default:
		return 0, fmt.Errorf("%w: %T", ErrInvalidPrice, v)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, ErrInvalidPrice
	}
	if f < 0 {
		return 0, ErrNegativePrice
	}
	return Amount(f), nil
}

// UnmarshalJSON accepts a JSON number or a numeric string.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = 0
		return nil
	}
	var raw any
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = s
	} else {
		raw = json.Number(data)
	}
	parsed, err := Parse(raw)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// MarshalJSON always writes a JSON number.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(float64(a), 'f', -1, 64)), nil
}
