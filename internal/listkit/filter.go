package listkit

import "strings"

// Filter returns the items the predicate keeps, preserving order.
func Filter[T any](items []T, keep func(T) bool) []T {
	if keep == nil {
		return items
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

// MatchQuery reports whether any field contains the query, ignoring case.
// An empty query matches everything.
func MatchQuery(query string, fields ...string) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return true
	}
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

// TextFilter keeps items whose searchable fields contain the query.
func TextFilter[T any](items []T, query string, fields func(T) []string) []T {
	if strings.TrimSpace(query) == "" || fields == nil {
		return items
	}
	return Filter(items, func(item T) bool {
		return MatchQuery(query, fields(item)...)
	})
}
