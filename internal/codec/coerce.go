package codec

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cast"
)

// maxSafeInteger bounds integers that survive a float64 round trip.
const maxSafeInteger = 1<<53 - 1

// Number accepts JSON numbers and numeric strings that parse losslessly to a
// finite value. Empty strings, partial numbers, NaN and infinities are rejected.
func Number(raw any) (float64, bool) {
	var f float64
	switch v := raw.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, false
		}
		parsed, err := cast.ToFloat64E(s)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Int is Number rounded to the nearest integer within the float64-safe range.
func Int(raw any) (int64, bool) {
	f, ok := Number(raw)
	if !ok {
		return 0, false
	}
	f = math.Round(f)
	if f > maxSafeInteger || f < -maxSafeInteger {
		return 0, false
	}
	return int64(f), true
}

// String accepts strings and finite numbers; numbers are rendered without
// exponent or trailing zeros so numeric IDs match their string form.
func String(raw any) (string, bool) {
	switch v := raw.(type) {
	case string:
		return v, true
	case float64, float32, int, int64:
		f, ok := Number(v)
		if !ok {
			return "", false
		}
		s, err := cast.ToStringE(f)
		if err != nil {
			return "", false
		}
		return s, true
	default:
		return "", false
	}
}

// ID is a trimmed, non-empty String.
func ID(raw any) (string, bool) {
	s, ok := String(raw)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

// Text is String with an empty fallback for optional fields.
func Text(raw any) string {
	s, _ := String(raw)
	return s
}

// Bool accepts JSON booleans and the literals "true"/"false".
func Bool(raw any) (bool, bool) {
	switch v := raw.(type) {
	case bool:
		return v, true
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true":
			return true, true
		case "false":
			return false, true
		}
	}
	return false, false
}

func Object(raw any) (map[string]any, bool) {
	obj, ok := raw.(map[string]any)
	return obj, ok && obj != nil
}

func Array(raw any) ([]any, bool) {
	arr, ok := raw.([]any)
	return arr, ok
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}

// Clamp bounds v to [lo, hi].
func Clamp[N int | int64 | float64](v, lo, hi N) N {
	return min(max(v, lo), hi)
}
