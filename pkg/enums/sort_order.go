package enums

import "fmt"

// SortOrder names a client-side comparator strategy for fetched lists.
type SortOrder string

const (
	SortPriceAsc   SortOrder = "price_asc"
	SortPriceDesc  SortOrder = "price_desc"
	SortRatingDesc SortOrder = "rating_desc"
	SortNewest     SortOrder = "newest"
	SortOldest     SortOrder = "oldest"
)

var validSortOrders = []SortOrder{
	SortPriceAsc,
	SortPriceDesc,
	SortRatingDesc,
	SortNewest,
	SortOldest,
}

// String implements fmt.Stringer.
func (s SortOrder) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SortOrder.
func (s SortOrder) IsValid() bool {
	for _, candidate := range validSortOrders {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSortOrder converts raw input into a SortOrder.
func ParseSortOrder(value string) (SortOrder, error) {
	for _, candidate := range validSortOrders {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid sort order %q", value)
}
