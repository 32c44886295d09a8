package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/matthieukhl/orders/internal/apperr"
)

// DateLayout is the wire format of calendar dates (ISO-8601, no time of day)
const DateLayout = "2006-01-02"

// Today returns the current local calendar day as a UTC midnight timestamp
func Today() time.Time {
	return AsDate(time.Now())
}

// AsDate drops the time-of-day component of t while keeping its calendar day
func AsDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return AsDate(t), nil
}

func asMap(entity string, data any) (map[string]any, error) {
	m, ok := data.(map[string]any)
	if !ok {
		return nil, &apperr.ValidationError{
			Entity: entity,
			Reason: fmt.Sprintf("body of request contained bad or no data - expected a JSON object, got %s", describe(data)),
		}
	}
	return m, nil
}

func describe(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case []any:
		return "an array"
	case string:
		return "a string"
	case bool:
		return "a boolean"
	case float64, json.Number:
		return "a number"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func requireString(entity string, m map[string]any, key string) (string, error) {
	raw, ok := m[key]
	if !ok {
		return "", apperr.Missing(entity, key)
	}
	s, ok := raw.(string)
	if !ok {
		return "", apperr.Invalid(entity, key, "must be a string")
	}
	return s, nil
}

func requireInt(entity string, m map[string]any, key string) (int64, error) {
	raw, ok := m[key]
	if !ok {
		return 0, apperr.Missing(entity, key)
	}
	return toInt(entity, key, raw)
}

func requireFloat(entity string, m map[string]any, key string) (float64, error) {
	raw, ok := m[key]
	if !ok {
		return 0, apperr.Missing(entity, key)
	}
	return ToFloat(entity, key, raw)
}

func toInt(entity, key string, raw any) (int64, error) {
	switch v := raw.(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n, nil
		}
		f, err := v.Float64()
		if err != nil {
			var numErr *strconv.NumError
			if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
				return 0, apperr.Invalid(entity, key, "is out of range")
			}
			return 0, apperr.Invalid(entity, key, "must be an integer")
		}
		return floatToInt(entity, key, f)
	case float64:
		return floatToInt(entity, key, v)
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	default:
		return 0, apperr.Invalid(entity, key, "must be an integer")
	}
}

// floatToInt accepts integral values that fit in an int64
func floatToInt(entity, key string, f float64) (int64, error) {
	if f != math.Trunc(f) {
		return 0, apperr.Invalid(entity, key, "must be an integer")
	}
	// float64(math.MaxInt64) rounds up to 2^63, which is already out of range
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, apperr.Invalid(entity, key, "is out of range")
	}
	return int64(f), nil
}

// ToFloat converts a decoded JSON value into a float64, failing with a
// ValidationError that names key when the value is not numeric
func ToFloat(entity, key string, raw any) (float64, error) {
	switch v := raw.(type) {
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, apperr.Invalid(entity, key, "must be a number")
		}
		return f, nil
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	default:
		return 0, apperr.Invalid(entity, key, "must be a number")
	}
}
