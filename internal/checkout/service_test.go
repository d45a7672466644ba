package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/travelbookhq/travelbook-gateway/internal/cart"
	"github.com/travelbookhq/travelbook-gateway/internal/upstream"
	"github.com/travelbookhq/travelbook-gateway/pkg/enums"
	pkgerrors "github.com/travelbookhq/travelbook-gateway/pkg/errors"
	"github.com/travelbookhq/travelbook-gateway/pkg/logger"
	"github.com/travelbookhq/travelbook-gateway/pkg/redis"
)

var referencePattern = regexp.MustCompile(`^BK-\d+-[A-Z0-9]{9}$`)

type fakeStore struct {
	mu     sync.Mutex
	values map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{values: map[string]string{}}
}

func (f *fakeStore) Get(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	value, ok := f.values[key]
	if !ok {
		return "", redis.ErrNotFound
	}
	return value, nil
}

func (f *fakeStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[key] = value.(string)
	return nil
}

func (f *fakeStore) Del(ctx context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, key := range keys {
		delete(f.values, key)
	}
	return nil
}

func (f *fakeStore) CartKey(sessionID string) string {
	return "tb:session:cart:" + sessionID
}

func (f *fakeStore) WizardKey(sessionID string) string {
	return "tb:session:wizard:" + sessionID
}

type fakeCaller struct {
	mu     sync.Mutex
	posted []upstream.Request
	postFn func(ctx context.Context, req upstream.Request, out any) error
}

func (f *fakeCaller) Get(ctx context.Context, req upstream.Request, out any) (*int, error) {
	return nil, errors.New("unexpected Get")
}

func (f *fakeCaller) Post(ctx context.Context, req upstream.Request, out any) error {
	f.mu.Lock()
	f.posted = append(f.posted, req)
	f.mu.Unlock()
	if f.postFn == nil {
		return errors.New("unexpected Post")
	}
	return f.postFn(ctx, req, out)
}

func (f *fakeCaller) Put(ctx context.Context, req upstream.Request, out any) error {
	return errors.New("unexpected Put")
}

func (f *fakeCaller) Delete(ctx context.Context, req upstream.Request, out any) error {
	return errors.New("unexpected Delete")
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard})
}

func newTestStack(t *testing.T, api upstream.Caller) (Service, cart.Service, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	carts, err := cart.NewService(cart.ServiceParams{Store: store, Logger: testLogger(), TTL: time.Hour})
	if err != nil {
		t.Fatalf("cart.NewService returned error: %v", err)
	}
	svc, err := NewService(ServiceParams{API: api, Cart: carts, Store: store, Logger: testLogger(), TTL: time.Hour})
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}
	return svc, carts, store
}

func validGuest() GuestInfo {
	return GuestInfo{FirstName: "Maya", LastName: "Chen", Email: "maya@example.com", Phone: "+1 555 0100"}
}

func validPayment() PaymentInput {
	return PaymentInput{CardholderName: "Maya Chen", CardNumber: "4242424242424242", Expiry: "09/28", SecurityCode: "123"}
}

func addLine(t *testing.T, carts cart.Service, id string, kind enums.CartItemKind, price int64, qty int) {
	t.Helper()
	input := cart.AddItemInput{
		ID:       id,
		Kind:     kind,
		Title:    "Line " + id,
		Price:    decimal.NewFromInt(price),
		Quantity: qty,
	}
	if _, err := carts.Add(context.Background(), "sess-1", input); err != nil {
		t.Fatalf("cart add: %v", err)
	}
}

func reachReview(t *testing.T, svc Service) {
	t.Helper()
	if _, err := svc.SubmitGuestInfo(context.Background(), "sess-1", validGuest()); err != nil {
		t.Fatalf("SubmitGuestInfo: %v", err)
	}
	if _, err := svc.SubmitPayment(context.Background(), "sess-1", validPayment()); err != nil {
		t.Fatalf("SubmitPayment: %v", err)
	}
}

func TestSubmitGuestInfo_GatesOnPresence(t *testing.T) {
	svc, _, _ := newTestStack(t, &fakeCaller{})

	incomplete := validGuest()
	incomplete.Email = "   "
	_, err := svc.SubmitGuestInfo(context.Background(), "sess-1", incomplete)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	state, err := svc.State(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("State returned error: %v", err)
	}
	if state.Step != enums.CheckoutStepGuestInfo {
		t.Fatalf("failed validation must not advance the wizard, step=%d", state.Step)
	}

	state, err = svc.SubmitGuestInfo(context.Background(), "sess-1", validGuest())
	if err != nil {
		t.Fatalf("SubmitGuestInfo returned error: %v", err)
	}
	if state.Step != enums.CheckoutStepPayment {
		t.Fatalf("valid guest info should advance to payment, step=%d", state.Step)
	}
}

func TestSubmitGuestInfo_RejectsBadEmail(t *testing.T) {
	svc, _, _ := newTestStack(t, &fakeCaller{})

	bad := validGuest()
	bad.Email = "not-an-email"
	if _, err := svc.SubmitGuestInfo(context.Background(), "sess-1", bad); err == nil {
		t.Fatalf("malformed email must be rejected")
	}
}

func TestSubmitPayment_RequiresGuestInfoFirst(t *testing.T) {
	svc, _, _ := newTestStack(t, &fakeCaller{})

	if _, err := svc.SubmitPayment(context.Background(), "sess-1", validPayment()); err == nil {
		t.Fatalf("payment before guest info must be rejected")
	}
}

func TestSubmitPayment_PersistsOnlyMaskedSummary(t *testing.T) {
	svc, _, store := newTestStack(t, &fakeCaller{})
	reachReview(t, svc)

	raw := store.values[store.WizardKey("sess-1")]
	var persisted map[string]any
	if err := json.Unmarshal([]byte(raw), &persisted); err != nil {
		t.Fatalf("decode persisted wizard: %v", err)
	}
	payment := persisted["payment"].(map[string]any)
	if payment["lastFour"] != "4242" {
		t.Fatalf("expected masked card, got %+v", payment)
	}
	if _, leaked := payment["cardNumber"]; leaked {
		t.Fatalf("full card number must not be persisted")
	}
}

func TestBack_AlwaysAllowedAndKeepsData(t *testing.T) {
	svc, _, _ := newTestStack(t, &fakeCaller{})
	reachReview(t, svc)

	state, err := svc.Back(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("Back returned error: %v", err)
	}
	if state.Step != enums.CheckoutStepPayment {
		t.Fatalf("expected payment step, got %d", state.Step)
	}
	if state.Guest == nil || state.Payment == nil {
		t.Fatalf("going back must keep collected data")
	}

	state, _ = svc.Back(context.Background(), "sess-1")
	state, _ = svc.Back(context.Background(), "sess-1")
	if state.Step != enums.CheckoutStepGuestInfo {
		t.Fatalf("back floors at step one, got %d", state.Step)
	}
}

func TestSubmit_CreatesOneBookingPerLine(t *testing.T) {
	api := &fakeCaller{
		postFn: func(ctx context.Context, req upstream.Request, out any) error {
			return json.Unmarshal([]byte(`{"_id":"bk-`+req.IdempotencyKey+`","status":"confirmed"}`), out)
		},
	}
	svc, carts, store := newTestStack(t, api)
	addLine(t, carts, "h1", enums.CartItemKindHotel, 120, 2)
	addLine(t, carts, "f1", enums.CartItemKindFlight, 480, 1)
	reachReview(t, svc)

	confirmation, err := svc.Submit(context.Background(), "sess-1", "jwt-token")
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if !referencePattern.MatchString(confirmation.Reference) {
		t.Fatalf("unexpected reference %q", confirmation.Reference)
	}
	if len(confirmation.Bookings) != 2 {
		t.Fatalf("expected one booking per line, got %d", len(confirmation.Bookings))
	}
	if !confirmation.Total.Equal(decimal.NewFromInt(720)) {
		t.Fatalf("expected total 720, got %s", confirmation.Total)
	}

	if len(api.posted) != 2 {
		t.Fatalf("expected 2 upstream calls, got %d", len(api.posted))
	}
	for _, req := range api.posted {
		if req.Token != "jwt-token" {
			t.Fatalf("bookings must carry the session token")
		}
		if req.IdempotencyKey == "" {
			t.Fatalf("bookings must carry an idempotency key")
		}
	}

	remaining, err := carts.Get(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("cart get: %v", err)
	}
	if !remaining.IsEmpty() {
		t.Fatalf("cart must be cleared after a successful submission")
	}
	if _, ok := store.values[store.WizardKey("sess-1")]; ok {
		t.Fatalf("wizard state must be dropped after a successful submission")
	}
}

func TestSubmit_FailureKeepsCartAndIdempotencyKeys(t *testing.T) {
	var keys []string
	var mu sync.Mutex
	api := &fakeCaller{
		postFn: func(ctx context.Context, req upstream.Request, out any) error {
			mu.Lock()
			keys = append(keys, req.IdempotencyKey)
			mu.Unlock()
			return pkgerrors.New(pkgerrors.CodeUpstream, "booking engine down")
		},
	}
	svc, carts, _ := newTestStack(t, api)
	addLine(t, carts, "h1", enums.CartItemKindHotel, 120, 1)
	reachReview(t, svc)

	if _, err := svc.Submit(context.Background(), "sess-1", "jwt-token"); err == nil {
		t.Fatalf("submit should fail when a booking fails")
	}

	remaining, err := carts.Get(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("cart get: %v", err)
	}
	if remaining.IsEmpty() {
		t.Fatalf("failed submission must keep the cart")
	}

	if _, err := svc.Submit(context.Background(), "sess-1", "jwt-token"); err == nil {
		t.Fatalf("retry should fail the same way")
	}
	mu.Lock()
	defer mu.Unlock()
	if len(keys) != 2 || keys[0] != keys[1] {
		t.Fatalf("a retry must re-send the same idempotency key, got %v", keys)
	}
}

func TestSubmit_AuthFailureIsDistinguishable(t *testing.T) {
	api := &fakeCaller{
		postFn: func(ctx context.Context, req upstream.Request, out any) error {
			return pkgerrors.New(pkgerrors.CodeUnauthorized, "token expired")
		},
	}
	svc, carts, _ := newTestStack(t, api)
	addLine(t, carts, "h1", enums.CartItemKindHotel, 120, 1)
	reachReview(t, svc)

	_, err := svc.Submit(context.Background(), "sess-1", "stale-token")
	if !pkgerrors.IsAuthFailure(err) {
		t.Fatalf("expected an auth failure, got %v", err)
	}
}

func TestSubmit_RequiresReviewStepAndNonEmptyCart(t *testing.T) {
	svc, _, _ := newTestStack(t, &fakeCaller{})

	if _, err := svc.Submit(context.Background(), "sess-1", "jwt-token"); err == nil {
		t.Fatalf("submitting before the review step must fail")
	}

	reachReview(t, svc)
	if _, err := svc.Submit(context.Background(), "sess-1", "jwt-token"); err == nil {
		t.Fatalf("submitting an empty cart must fail")
	}
}

func TestNewReference_Format(t *testing.T) {
	seen := map[string]struct{}{}
	for i := 0; i < 50; i++ {
		ref := NewReference()
		if !referencePattern.MatchString(ref) {
			t.Fatalf("unexpected reference %q", ref)
		}
		seen[ref] = struct{}{}
	}
	if len(seen) < 45 {
		t.Fatalf("references should be effectively unique, got %d distinct of 50", len(seen))
	}
}
