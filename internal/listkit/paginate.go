package listkit

import "github.com/travelbookhq/travelbook-gateway/internal/store"

// Paginate slices one page out of items. The page number is clamped into
// the valid range before slicing, so a request past the end returns the
// last page rather than an empty one.
func Paginate[T any](items []T, page, limit int) ([]T, store.Pagination) {
	if limit <= 0 {
		limit = len(items)
		if limit == 0 {
			limit = 1
		}
	}
	p := store.Pagination{Page: page, Limit: limit, Total: len(items)}.Clamp()
	if len(items) == 0 {
		return []T{}, p
	}

	start := (p.Page - 1) * p.Limit
	if start >= len(items) {
		return []T{}, p
	}
	end := start + p.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], p
}
