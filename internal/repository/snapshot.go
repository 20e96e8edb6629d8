package repository

import (
	"strings"
	"sync"
	"time"

	"stockledger/internal/clock"
)

// snapshot is the in-memory copy of one collection. Readers always get a
// fresh slice so callers may sort or filter it freely.
type snapshot[T any] struct {
	mu    sync.RWMutex
	items []T
}

func (s *snapshot[T]) all() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

func (s *snapshot[T]) replace(items []T) {
	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
}

func (s *snapshot[T]) prepend(item T) {
	s.mu.Lock()
	s.items = append([]T{item}, s.items...)
	s.mu.Unlock()
}

func (s *snapshot[T]) filter(keep func(T) bool) []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]T, 0, len(s.items))
	for _, it := range s.items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

func (s *snapshot[T]) find(match func(T) bool) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, it := range s.items {
		if match(it) {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// containsFold reports whether any field contains term, ignoring case.
// term must already be lower case.
func containsFold(term string, fields ...string) bool {
	for _, f := range fields {
		if f != "" && strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

// searchTerm normalises a query; ok is false for a blank query.
func searchTerm(text string) (string, bool) {
	term := strings.ToLower(strings.TrimSpace(text))
	return term, term != ""
}

// inDateRange checks the YYYY-MM-DD prefix of value against inclusive,
// optional bounds. Values without a parseable date never match.
func inDateRange(value string, from, to *time.Time) bool {
	d, ok := clock.ParseDatePrefix(value)
	if !ok {
		return false
	}
	if from != nil && d.Before(dateOnly(*from)) {
		return false
	}
	if to != nil && d.After(dateOnly(*to)) {
		return false
	}
	return true
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
