package bookings

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/travelbookhq/travelbook-gateway/internal/upstream"
	"github.com/travelbookhq/travelbook-gateway/pkg/enums"
	pkgerrors "github.com/travelbookhq/travelbook-gateway/pkg/errors"
	"github.com/travelbookhq/travelbook-gateway/pkg/logger"
	"github.com/travelbookhq/travelbook-gateway/pkg/types"
)

// Booking is one confirmed or pending reservation owned by the signed-in
// traveler. Bookings are never shared between sessions, so they are fetched
// fresh on every request rather than cached.
type Booking struct {
	ID        string              `json:"id"`
	Reference string              `json:"reference,omitempty"`
	Kind      enums.CartItemKind  `json:"kind"`
	Title     string              `json:"title"`
	Status    enums.BookingStatus `json:"status"`
	Price     decimal.Decimal     `json:"price"`
	Quantity  int                 `json:"quantity,omitempty"`
	Guest     string              `json:"guest,omitempty"`
	CreatedAt time.Time           `json:"createdAt,omitempty"`
}

func (b *Booking) UnmarshalJSON(data []byte) error {
	type alias Booking
	aux := struct {
		*alias
		AltID string `json:"_id"`
	}{alias: (*alias)(b)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	b.ID = types.FirstNonEmpty(b.ID, aux.AltID)
	return nil
}

// Page is one page of the traveler's bookings.
type Page struct {
	Bookings []Booking `json:"bookings"`
	Total    int       `json:"total"`
}

// ServiceParams groups dependencies for the bookings service.
type ServiceParams struct {
	API    upstream.Caller
	Logger *logger.Logger
}

// Service proxies booking reads and cancellation to the travel api. The
// api stays authoritative for booking status.
type Service interface {
	List(ctx context.Context, token string, page, limit int) (Page, error)
	Detail(ctx context.Context, token, id string) (*Booking, error)
	Cancel(ctx context.Context, token, id string) (*Booking, error)
}

type service struct {
	api  upstream.Caller
	logg *logger.Logger
}

// NewService builds the bookings service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.API == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "travel api client is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &service{api: params.API, logg: params.Logger}, nil
}

// List returns the traveler's bookings, newest first per the travel api.
func (s *service) List(ctx context.Context, token string, page, limit int) (Page, error) {
	if strings.TrimSpace(token) == "" {
		return Page{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to view bookings")
	}

	query := url.Values{}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var items []Booking
	total, err := s.api.Get(ctx, upstream.Request{
		Resource: upstream.ResourceBookings,
		Path:     upstream.BookingsPath(),
		Query:    query,
		Token:    token,
	}, &items)
	if err != nil {
		return Page{}, err
	}
	if items == nil {
		items = []Booking{}
	}

	result := Page{Bookings: items, Total: len(items)}
	if total != nil {
		result.Total = *total
	}
	return result, nil
}

// Detail returns one booking by id.
func (s *service) Detail(ctx context.Context, token, id string) (*Booking, error) {
	if strings.TrimSpace(token) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to view bookings")
	}
	if strings.TrimSpace(id) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "booking id is required")
	}

	var booking Booking
	if _, err := s.api.Get(ctx, upstream.Request{
		Resource: upstream.ResourceBookings,
		Path:     upstream.BookingPath(id),
		Token:    token,
	}, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

// Cancel asks the travel api to cancel a booking and returns the booking
// as the api now sees it. A booking the api refuses to cancel keeps its
// server-side status.
func (s *service) Cancel(ctx context.Context, token, id string) (*Booking, error) {
	if strings.TrimSpace(token) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to manage bookings")
	}
	if strings.TrimSpace(id) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "booking id is required")
	}

	var booking Booking
	if err := s.api.Put(ctx, upstream.Request{
		Resource: upstream.ResourceBookings,
		Path:     upstream.BookingCancelPath(id),
		Token:    token,
	}, &booking); err != nil {
		return nil, err
	}
	if booking.Status == "" {
		booking.Status = enums.BookingStatusCancelled
	}
	return &booking, nil
}
