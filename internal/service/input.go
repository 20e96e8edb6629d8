package service

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"stockledger/internal/apperror"
	"stockledger/internal/clock"
)

// Number is a numeric form field. Clients may send a JSON number or a
// string; the raw text is kept so validation can tell blank from malformed.
type Number string

func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*n = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = Number(s)
		return nil
	}
	*n = Number(b)
	return nil
}

// Blank reports whether nothing was entered.
func (n Number) Blank() bool {
	return strings.TrimSpace(string(n)) == ""
}

func (n Number) Float() (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(string(n)), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func (n Number) Int() (int, bool) {
	i, err := strconv.Atoi(strings.TrimSpace(string(n)))
	if err != nil {
		return 0, false
	}
	return i, true
}

// optionalCount parses a non-negative integer field that defaults to 0.
func optionalCount(n Number, field, label string) (int, error) {
	if n.Blank() {
		return 0, nil
	}
	v, ok := n.Int()
	if !ok {
		return 0, apperror.Validation(field, label+" must be a valid number")
	}
	if v < 0 {
		return 0, apperror.Validation(field, label+" must be a non-negative number")
	}
	return v, nil
}

// ParseDate parses a YYYY-MM-DD query value. Blank yields nil.
func ParseDate(field, value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	d, err := time.Parse(clock.DateLayout, value)
	if err != nil {
		return nil, apperror.Validation(field, "Dates must use the YYYY-MM-DD format")
	}
	return &d, nil
}

// intersect keeps the items of base whose key appears in every other list.
// Order follows base.
func intersect[T any, K comparable](key func(T) K, base []T, others ...[]T) []T {
	if len(others) == 0 {
		return base
	}
	counts := make(map[K]int, len(base))
	for _, list := range others {
		seen := make(map[K]bool, len(list))
		for _, it := range list {
			k := key(it)
			if !seen[k] {
				seen[k] = true
				counts[k]++
			}
		}
	}
	out := make([]T, 0, len(base))
	for _, it := range base {
		if counts[key(it)] == len(others) {
			out = append(out, it)
		}
	}
	return out
}
