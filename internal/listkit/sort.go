package listkit

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/travelbookhq/travelbook-gateway/pkg/enums"
)

// Keys provides the sortable fields of an item. Any accessor may be nil;
// orders that need a missing accessor leave the slice untouched.
type Keys[T any] struct {
	Price     func(T) decimal.Decimal
	Rating    func(T) float64
	CreatedAt func(T) time.Time
}

// Sort orders items in place by the named order. Ties keep their original
// relative order so repeated sorts are stable.
func Sort[T any](items []T, order enums.SortOrder, keys Keys[T]) {
	less := lessFunc(order, keys)
	if less == nil {
		return
	}
	sort.SliceStable(items, func(i, j int) bool {
		return less(items[i], items[j])
	})
}

func lessFunc[T any](order enums.SortOrder, keys Keys[T]) func(a, b T) bool {
	switch order {
	case enums.SortPriceAsc:
		if keys.Price == nil {
			return nil
		}
		return func(a, b T) bool { return keys.Price(a).LessThan(keys.Price(b)) }
	case enums.SortPriceDesc:
		if keys.Price == nil {
			return nil
		}
		return func(a, b T) bool { return keys.Price(b).LessThan(keys.Price(a)) }
	case enums.SortRatingDesc:
		if keys.Rating == nil {
			return nil
		}
		return func(a, b T) bool { return keys.Rating(a) > keys.Rating(b) }
	case enums.SortNewest:
		if keys.CreatedAt == nil {
			return nil
		}
		return func(a, b T) bool { return keys.CreatedAt(a).After(keys.CreatedAt(b)) }
	case enums.SortOldest:
		if keys.CreatedAt == nil {
			return nil
		}
		return func(a, b T) bool { return keys.CreatedAt(a).Before(keys.CreatedAt(b)) }
	default:
		return nil
	}
}
