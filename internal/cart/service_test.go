package cart

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/travelbookhq/travelbook-gateway/pkg/enums"
	pkgerrors "github.com/travelbookhq/travelbook-gateway/pkg/errors"
	"github.com/travelbookhq/travelbook-gateway/pkg/logger"
	"github.com/travelbookhq/travelbook-gateway/pkg/redis"
)

type fakeStore struct {
	values map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{values: map[string]string{}}
}

func (f *fakeStore) Get(ctx context.Context, key string) (string, error) {
	value, ok := f.values[key]
	if !ok {
		return "", redis.ErrNotFound
	}
	return value, nil
}

func (f *fakeStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	f.values[key] = value.(string)
	return nil
}

func (f *fakeStore) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.values, key)
	}
	return nil
}

func (f *fakeStore) CartKey(sessionID string) string {
	return "tb:session:cart:" + sessionID
}

func newTestService(t *testing.T, store Store) Service {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard})
	svc, err := NewService(ServiceParams{Store: store, Logger: logg, TTL: time.Hour})
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}
	return svc
}

func hotelInput(id string, price int64, qty int) AddItemInput {
	return AddItemInput{
		ID:       id,
		Kind:     enums.CartItemKindHotel,
		Title:    "Paris Garden Inn",
		Price:    decimal.NewFromInt(price),
		Currency: "USD",
		Quantity: qty,
		Hotel: &HotelDetails{
			CheckIn:  time.Date(2026, time.September, 10, 15, 0, 0, 0, time.UTC),
			CheckOut: time.Date(2026, time.September, 12, 11, 0, 0, 0, time.UTC),
			Guests:   2,
		},
	}
}

func TestAdd_TotalReflectsPriceTimesQuantity(t *testing.T) {
	svc := newTestService(t, newFakeStore())

	cart, err := svc.Add(context.Background(), "sess-1", hotelInput("h1", 120, 2))
	if err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if !cart.Total().Equal(decimal.NewFromInt(240)) {
		t.Fatalf("expected total 240, got %s", cart.Total())
	}
	if cart.Count() != 2 {
		t.Fatalf("expected count 2, got %d", cart.Count())
	}
}

func TestAdd_MergesSameLineAndKeepsIdempotencyKey(t *testing.T) {
	svc := newTestService(t, newFakeStore())

	first, err := svc.Add(context.Background(), "sess-1", hotelInput("h1", 120, 1))
	if err != nil {
		t.Fatalf("first Add returned error: %v", err)
	}
	key := first.Items[0].IdempotencyKey
	if key == "" {
		t.Fatalf("new lines must get an idempotency key")
	}

	second, err := svc.Add(context.Background(), "sess-1", hotelInput("h1", 120, 2))
	if err != nil {
		t.Fatalf("second Add returned error: %v", err)
	}
	if len(second.Items) != 1 {
		t.Fatalf("same id and kind should merge, got %d lines", len(second.Items))
	}
	if second.Items[0].Quantity != 3 {
		t.Fatalf("expected merged quantity 3, got %d", second.Items[0].Quantity)
	}
	if second.Items[0].IdempotencyKey != key {
		t.Fatalf("merging must keep the original idempotency key")
	}
}

func TestAdd_SameIDDifferentKindStaysSeparate(t *testing.T) {
	svc := newTestService(t, newFakeStore())

	if _, err := svc.Add(context.Background(), "sess-1", hotelInput("x1", 120, 1)); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	flight := AddItemInput{
		ID:       "x1",
		Kind:     enums.CartItemKindFlight,
		Title:    "NYC to Paris",
		Price:    decimal.NewFromInt(480),
		Quantity: 1,
		Flight:   &FlightDetails{From: "JFK", To: "CDG"},
	}
	cart, err := svc.Add(context.Background(), "sess-1", flight)
	if err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if len(cart.Items) != 2 {
		t.Fatalf("different kinds must not merge, got %d lines", len(cart.Items))
	}
	if !cart.Total().Equal(decimal.NewFromInt(600)) {
		t.Fatalf("expected total 600, got %s", cart.Total())
	}
}

func TestAdd_RejectsMismatchedDetails(t *testing.T) {
	svc := newTestService(t, newFakeStore())

	input := hotelInput("h1", 120, 1)
	input.Flight = &FlightDetails{From: "JFK", To: "CDG"}
	_, err := svc.Add(context.Background(), "sess-1", input)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateQuantity(t *testing.T) {
	svc := newTestService(t, newFakeStore())
	if _, err := svc.Add(context.Background(), "sess-1", hotelInput("h1", 120, 1)); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}

	cart, err := svc.UpdateQuantity(context.Background(), "sess-1", "h1", enums.CartItemKindHotel, 5)
	if err != nil {
		t.Fatalf("UpdateQuantity returned error: %v", err)
	}
	if cart.Items[0].Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", cart.Items[0].Quantity)
	}

	if _, err := svc.UpdateQuantity(context.Background(), "sess-1", "h1", enums.CartItemKindHotel, 0); err == nil {
		t.Fatalf("zero quantity must be rejected")
	}
	if _, err := svc.UpdateQuantity(context.Background(), "sess-1", "nope", enums.CartItemKindHotel, 2); err == nil {
		t.Fatalf("unknown line must be rejected")
	}
}

func TestRemoveAndClear(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(t, store)
	if _, err := svc.Add(context.Background(), "sess-1", hotelInput("h1", 120, 1)); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}

	cart, err := svc.Remove(context.Background(), "sess-1", "h1", enums.CartItemKindHotel)
	if err != nil {
		t.Fatalf("Remove returned error: %v", err)
	}
	if !cart.IsEmpty() {
		t.Fatalf("cart should be empty after remove")
	}

	cart, err = svc.Remove(context.Background(), "sess-1", "ghost", enums.CartItemKindHotel)
	if err != nil {
		t.Fatalf("removing an absent line should be a no-op, got %v", err)
	}

	if _, err := svc.Add(context.Background(), "sess-1", hotelInput("h2", 90, 1)); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if err := svc.Clear(context.Background(), "sess-1"); err != nil {
		t.Fatalf("Clear returned error: %v", err)
	}
	for key := range store.values {
		if strings.Contains(key, "cart") {
			t.Fatalf("cart key should be deleted, found %q", key)
		}
	}
}

func TestGet_MissingCartIsEmpty(t *testing.T) {
	svc := newTestService(t, newFakeStore())

	cart, err := svc.Get(context.Background(), "sess-unknown")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if !cart.IsEmpty() || cart.Items == nil {
		t.Fatalf("missing cart should come back empty, got %+v", cart)
	}
}
