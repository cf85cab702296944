package strudel

import (
	"fmt"
	"strconv"
	"strings"
)

// Value coercion for the operator matrix. Event values are untyped: numbers,
// strings, bools, Rationals, and control records (map[string]any) all flow
// through the same combinators.

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint8:
		return float64(n), true
	case Rational:
		return n.Float(), true
	case string:
		parsed, err := ParseNumeral(n)
		if err != nil {
			return 0, false
		}
		return toFloat(parsed)
	default:
		return 0, false
	}
}

func toInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case int32:
		return int64(n), true
	case uint8:
		return int64(n), true
	case float64:
		return int64(n), true
	case float32:
		return int64(n), true
	case Rational:
		i, ok := n.Int()
		return i, ok
	case string:
		parsed, err := ParseNumeral(n)
		if err != nil {
			return 0, false
		}
		return toInt(parsed)
	default:
		return 0, false
	}
}

func isIntish(v any) bool {
	switch v.(type) {
	case int, int64, int32, uint8:
		return true
	case Rational:
		return v.(Rational).IsInteger()
	default:
		return false
	}
}

// toRational converts a time-like argument. Floats convert exactly; strings
// accept integers, decimals and "a/b" fractions.
func toRational(v any) (Rational, error) {
	switch n := v.(type) {
	case Rational:
		return n, nil
	case int:
		return R(int64(n)), nil
	case int64:
		return R(n), nil
	case int32:
		return R(int64(n)), nil
	case float64:
		return FromFloat(n), nil
	case float32:
		return FromFloat(float64(n)), nil
	case string:
		parsed, err := ParseNumeral(n)
		if err != nil {
			return Rational{}, err
		}
		return toRational(parsed)
	default:
		return Rational{}, fmt.Errorf("cannot read %T %v as a rational", v, v)
	}
}

// ParseNumeral reads a numeric literal: an integer, a decimal, or an "a/b"
// fraction.
func ParseNumeral(s string) (any, error) {
	s = strings.TrimSpace(s)
	if num, den, ok := strings.Cut(s, "/"); ok {
		n, err1 := strconv.ParseInt(strings.TrimSpace(num), 10, 64)
		d, err2 := strconv.ParseInt(strings.TrimSpace(den), 10, 64)
		if err1 != nil || err2 != nil || d == 0 {
			return nil, fmt.Errorf("bad fraction %q", s)
		}
		return Rat(n, d), nil
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i, nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f, nil
	}
	return nil, fmt.Errorf("not a numeral: %q", s)
}

// truthy follows the source language's notion of truth: nil, false, zero and
// the empty string are false, everything else (records included) is true.
func truthy(v any) bool {
	switch n := v.(type) {
	case nil:
		return false
	case bool:
		return n
	case string:
		return n != ""
	default:
		if f, ok := toFloat(v); ok {
			return f != 0
		}
		return true
	}
}

func asRecord(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

// unionWith merges two control records: keys present on both sides combine
// through f, the rest carry over. Keys only on the right stay right-biased.
func unionWith(f func(a, b any) any, a, b map[string]any) map[string]any {
	out := make(map[string]any, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		if av, ok := out[k]; ok {
			out[k] = f(av, v)
		} else {
			out[k] = v
		}
	}
	return out
}

func copyRecord(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func recordFloat(m map[string]any, key string, def float64) float64 {
	if v, ok := m[key]; ok {
		if f, ok := toFloat(v); ok {
			return f
		}
	}
	return def
}
