package validators

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/travelbookhq/travelbook-gateway/pkg/enums"
	pkgerrors "github.com/travelbookhq/travelbook-gateway/pkg/errors"
)

// ParseQueryInt reads an integer query parameter with a default and range.
func ParseQueryInt(r *http.Request, key string, defaultVal, min, max int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultVal, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be numeric").WithDetails(map[string]any{"field": key})
	}
	if value < min || value > max {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter out of range").WithDetails(map[string]any{"field": key, "min": min, "max": max})
	}
	return value, nil
}

// ParseQueryFloat reads an optional non-negative float query parameter.
// Blank yields zero.
func ParseQueryFloat(r *http.Request, key string) (float64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || value < 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be a non-negative number").WithDetails(map[string]any{"field": key})
	}
	return value, nil
}

// ParseQueryDecimal reads an optional non-negative decimal query parameter.
// Blank yields zero.
func ParseQueryDecimal(r *http.Request, key string) (decimal.Decimal, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return decimal.Zero, nil
	}
	value, err := decimal.NewFromString(raw)
	if err != nil || value.IsNegative() {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be a non-negative amount").WithDetails(map[string]any{"field": key})
	}
	return value, nil
}

// ParseSortOrder reads the sort query parameter. Blank means no sorting;
// anything else must be a known order.
func ParseSortOrder(r *http.Request) (enums.SortOrder, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("sort"))
	if raw == "" {
		return "", nil
	}
	order, err := enums.ParseSortOrder(raw)
	if err != nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "unknown sort order").WithDetails(map[string]any{"field": "sort", "value": raw})
	}
	return order, nil
}

// ParseCartItemKind reads the kind query parameter, which is required.
func ParseCartItemKind(r *http.Request) (enums.CartItemKind, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("kind"))
	kind, err := enums.ParseCartItemKind(raw)
	if err != nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "kind must be hotel, flight or package").WithDetails(map[string]any{"field": "kind", "value": raw})
	}
	return kind, nil
}
