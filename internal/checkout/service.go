package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/travelbookhq/travelbook-gateway/internal/cart"
	"github.com/travelbookhq/travelbook-gateway/internal/upstream"
	"github.com/travelbookhq/travelbook-gateway/pkg/enums"
	pkgerrors "github.com/travelbookhq/travelbook-gateway/pkg/errors"
	"github.com/travelbookhq/travelbook-gateway/pkg/logger"
	"github.com/travelbookhq/travelbook-gateway/pkg/redis"
)

// Store is the persistence surface the wizard state needs.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	WizardKey(sessionID string) string
}

// BookingResult is one created booking inside a confirmation.
type BookingResult struct {
	BookingID string             `json:"bookingId"`
	ItemID    string             `json:"itemId"`
	Kind      enums.CartItemKind `json:"kind"`
	Status    string             `json:"status"`
}

// Confirmation is the outcome of a successful checkout submission.
type Confirmation struct {
	Reference   string          `json:"reference"`
	Bookings    []BookingResult `json:"bookings"`
	Total       decimal.Decimal `json:"total"`
	GuestEmail  string          `json:"guestEmail"`
	SubmittedAt time.Time       `json:"submittedAt"`
}

// ServiceParams groups dependencies for the checkout service.
type ServiceParams struct {
	API    upstream.Caller
	Cart   cart.Service
	Store  Store
	Logger *logger.Logger
	TTL    time.Duration
}

// Service drives the three step checkout wizard and the final submission.
type Service interface {
	State(ctx context.Context, sessionID string) (State, error)
	SubmitGuestInfo(ctx context.Context, sessionID string, info GuestInfo) (State, error)
	SubmitPayment(ctx context.Context, sessionID string, input PaymentInput) (State, error)
	Back(ctx context.Context, sessionID string) (State, error)
	Submit(ctx context.Context, sessionID, token string) (*Confirmation, error)
}

type service struct {
	api   upstream.Caller
	carts cart.Service
	store Store
	logg  *logger.Logger
	ttl   time.Duration
}

// NewService builds the checkout service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.API == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "travel api client is required")
	}
	if params.Cart == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart service is required")
	}
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "wizard store is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	ttl := params.TTL
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &service{
		api:   params.API,
		carts: params.Cart,
		store: params.Store,
		logg:  params.Logger,
		ttl:   ttl,
	}, nil
}

// State loads the session's wizard. A missing wizard starts at step one.
func (s *service) State(ctx context.Context, sessionID string) (State, error) {
	if strings.TrimSpace(sessionID) == "" {
		return State{}, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}

	raw, err := s.store.Get(ctx, s.store.WizardKey(sessionID))
	if err != nil {
		if errors.Is(err, redis.ErrNotFound) {
			return NewState(), nil
		}
		return State{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load wizard state")
	}

	var state State
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		s.logg.Warn(s.logg.WithSessionID(ctx, sessionID), "stored wizard state is unreadable, restarting")
		return NewState(), nil
	}
	if !state.Step.IsValid() {
		state.Step = enums.CheckoutStepGuestInfo
	}
	return state, nil
}

// SubmitGuestInfo validates step one and advances to payment. Advancing is
// gated on the data: incomplete guest info leaves the wizard in place.
func (s *service) SubmitGuestInfo(ctx context.Context, sessionID string, info GuestInfo) (State, error) {
	if err := validateGuestInfo(info); err != nil {
		return State{}, err
	}

	state, err := s.State(ctx, sessionID)
	if err != nil {
		return State{}, err
	}
	state.Guest = &info
	if state.Step < enums.CheckoutStepPayment {
		state.Step = enums.CheckoutStepPayment
	}

	if err := s.persist(ctx, sessionID, &state); err != nil {
		return State{}, err
	}
	return state, nil
}

// SubmitPayment validates step two and advances to review. Only a masked
// summary of the card is kept.
func (s *service) SubmitPayment(ctx context.Context, sessionID string, input PaymentInput) (State, error) {
	if err := validatePayment(input); err != nil {
		return State{}, err
	}

	state, err := s.State(ctx, sessionID)
	if err != nil {
		return State{}, err
	}
	if state.Guest == nil {
		return State{}, pkgerrors.New(pkgerrors.CodeValidation, "guest info must be completed first")
	}
	summary := summarizePayment(input)
	state.Payment = &summary
	state.Step = enums.CheckoutStepReview

	if err := s.persist(ctx, sessionID, &state); err != nil {
		return State{}, err
	}
	return state, nil
}

// Back moves one step earlier. Going back is never gated and keeps all
// collected data.
func (s *service) Back(ctx context.Context, sessionID string) (State, error) {
	state, err := s.State(ctx, sessionID)
	if err != nil {
		return State{}, err
	}
	state.Step = state.Step.Prev()

	if err := s.persist(ctx, sessionID, &state); err != nil {
		return State{}, err
	}
	return state, nil
}

// Submit creates one booking per cart line concurrently. All lines are
// submitted together; any failure aborts the confirmation and keeps the
// cart and wizard intact so a retry re-sends the same idempotency keys.
func (s *service) Submit(ctx context.Context, sessionID, token string) (*Confirmation, error) {
	state, err := s.State(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if state.Step != enums.CheckoutStepReview {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "checkout must reach the review step before submitting")
	}
	if state.Guest == nil || state.Payment == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "checkout steps are incomplete")
	}

	sessionCart, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sessionCart.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	results := make([]BookingResult, len(sessionCart.Items))
	var mu sync.Mutex
	var failures error

	group, groupCtx := errgroup.WithContext(ctx)
	for i, item := range sessionCart.Items {
		i, item := i, item
		group.Go(func() error {
			result, err := s.createBooking(groupCtx, token, *state.Guest, state.Notes, item)
			if err != nil {
				mu.Lock()
				failures = multierr.Append(failures, err)
				mu.Unlock()
				return err
			}
			results[i] = result
			return nil
		})
	}
	if waitErr := group.Wait(); waitErr != nil {
		if pkgerrors.IsAuthFailure(failures) || pkgerrors.IsAuthFailure(waitErr) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, failures, "sign in to complete the booking")
		}
		s.logg.Error(s.logg.WithSessionID(ctx, sessionID), "booking submission failed", failures)
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, failures, "could not complete all bookings")
	}

	confirmation := &Confirmation{
		Reference:   NewReference(),
		Bookings:    results,
		Total:       sessionCart.Total(),
		GuestEmail:  state.Guest.Email,
		SubmittedAt: time.Now().UTC(),
	}

	if err := s.carts.Clear(ctx, sessionID); err != nil {
		s.logg.Error(s.logg.WithSessionID(ctx, sessionID), "clearing cart after checkout", err)
	}
	if err := s.store.Del(ctx, s.store.WizardKey(sessionID)); err != nil {
		s.logg.Error(s.logg.WithSessionID(ctx, sessionID), "dropping wizard after checkout", err)
	}
	return confirmation, nil
}

type bookingPayload struct {
	ItemID    string               `json:"itemId"`
	Kind      enums.CartItemKind   `json:"kind"`
	Title     string               `json:"title"`
	Price     decimal.Decimal      `json:"price"`
	Quantity  int                  `json:"quantity"`
	Guest     GuestInfo            `json:"guest"`
	Notes     string               `json:"notes,omitempty"`
	HotelInfo *cart.HotelDetails   `json:"hotel,omitempty"`
	Flight    *cart.FlightDetails  `json:"flight,omitempty"`
	Package   *cart.PackageDetails `json:"package,omitempty"`
}

func (s *service) createBooking(ctx context.Context, token string, guest GuestInfo, notes string, item cart.Item) (BookingResult, error) {
	payload := bookingPayload{
		ItemID:    item.ID,
		Kind:      item.Kind,
		Title:     item.Title,
		Price:     item.Price,
		Quantity:  item.Quantity,
		Guest:     guest,
		Notes:     notes,
		HotelInfo: item.Hotel,
		Flight:    item.Flight,
		Package:   item.Package,
	}

	var created struct {
		ID     string `json:"id"`
		AltID  string `json:"_id"`
		Status string `json:"status"`
	}
	err := s.api.Post(ctx, upstream.Request{
		Resource:       upstream.ResourceBookings,
		Path:           upstream.BookingsPath(),
		Body:           payload,
		Token:          token,
		IdempotencyKey: item.IdempotencyKey,
	}, &created)
	if err != nil {
		return BookingResult{}, err
	}

	id := created.ID
	if id == "" {
		id = created.AltID
	}
	status := created.Status
	if status == "" {
		status = enums.BookingStatusPending.String()
	}
	return BookingResult{
		BookingID: id,
		ItemID:    item.ID,
		Kind:      item.Kind,
		Status:    status,
	}, nil
}

func (s *service) persist(ctx context.Context, sessionID string, state *State) error {
	state.UpdatedAt = time.Now().UTC()
	payload, err := json.Marshal(state)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode wizard state")
	}
	if err := s.store.Set(ctx, s.store.WizardKey(sessionID), string(payload), s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist wizard state")
	}
	return nil
}
