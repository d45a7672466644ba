package cart

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/travelbookhq/travelbook-gateway/pkg/enums"
	pkgerrors "github.com/travelbookhq/travelbook-gateway/pkg/errors"
	"github.com/travelbookhq/travelbook-gateway/pkg/logger"
	"github.com/travelbookhq/travelbook-gateway/pkg/redis"
)

// Store is the persistence surface the cart service needs.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CartKey(sessionID string) string
}

// AddItemInput captures a new cart line before it is merged in.
type AddItemInput struct {
	ID       string             `json:"id" validate:"required"`
	Kind     enums.CartItemKind `json:"kind" validate:"required"`
	Title    string             `json:"title" validate:"required"`
	Image    string             `json:"image"`
	Price    decimal.Decimal    `json:"price"`
	Currency string             `json:"currency"`
	Quantity int                `json:"quantity" validate:"required,min=1"`
	Hotel    *HotelDetails      `json:"hotel"`
	Flight   *FlightDetails     `json:"flight"`
	Package  *PackageDetails    `json:"package"`
}

// ServiceParams groups dependencies for the cart service.
type ServiceParams struct {
	Store  Store
	Logger *logger.Logger
	TTL    time.Duration
}

// Service exposes session cart operations.
type Service interface {
	Get(ctx context.Context, sessionID string) (Cart, error)
	Add(ctx context.Context, sessionID string, input AddItemInput) (Cart, error)
	UpdateQuantity(ctx context.Context, sessionID, id string, kind enums.CartItemKind, quantity int) (Cart, error)
	Remove(ctx context.Context, sessionID, id string, kind enums.CartItemKind) (Cart, error)
	Clear(ctx context.Context, sessionID string) error
}

type service struct {
	store Store
	logg  *logger.Logger
	ttl   time.Duration
}

// NewService builds the cart service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart store is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	ttl := params.TTL
	if ttl <= 0 {
		ttl = 168 * time.Hour
	}
	return &service{store: params.Store, logg: params.Logger, ttl: ttl}, nil
}

// Get loads the session cart. A missing cart is an empty cart.
func (s *service) Get(ctx context.Context, sessionID string) (Cart, error) {
	if strings.TrimSpace(sessionID) == "" {
		return Cart{}, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}

	raw, err := s.store.Get(ctx, s.store.CartKey(sessionID))
	if err != nil {
		if errors.Is(err, redis.ErrNotFound) {
			return Cart{Items: []Item{}}, nil
		}
		return Cart{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	var cart Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		s.logg.Warn(s.logg.WithSessionID(ctx, sessionID), "stored cart is unreadable, resetting")
		return Cart{Items: []Item{}}, nil
	}
	if cart.Items == nil {
		cart.Items = []Item{}
	}
	return cart, nil
}

// Add merges a line into the cart. Re-adding the same id and kind bumps
// the quantity on the existing line and keeps its idempotency key.
func (s *service) Add(ctx context.Context, sessionID string, input AddItemInput) (Cart, error) {
	if err := validateAddInput(input); err != nil {
		return Cart{}, err
	}

	cart, err := s.Get(ctx, sessionID)
	if err != nil {
		return Cart{}, err
	}

	if idx := cart.find(input.ID, input.Kind); idx >= 0 {
		cart.Items[idx].Quantity += input.Quantity
	} else {
		cart.Items = append(cart.Items, Item{
			ID:             input.ID,
			Kind:           input.Kind,
			Title:          input.Title,
			Image:          input.Image,
			Price:          input.Price,
			Currency:       input.Currency,
			Quantity:       input.Quantity,
			IdempotencyKey: uuid.NewString(),
			Hotel:          input.Hotel,
			Flight:         input.Flight,
			Package:        input.Package,
			AddedAt:        time.Now().UTC(),
		})
	}

	if err := s.persist(ctx, sessionID, &cart); err != nil {
		return Cart{}, err
	}
	return cart, nil
}

// UpdateQuantity sets the quantity on an existing line.
func (s *service) UpdateQuantity(ctx context.Context, sessionID, id string, kind enums.CartItemKind, quantity int) (Cart, error) {
	if quantity < 1 {
		return Cart{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least one")
	}

	cart, err := s.Get(ctx, sessionID)
	if err != nil {
		return Cart{}, err
	}

	idx := cart.find(id, kind)
	if idx < 0 {
		return Cart{}, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}
	cart.Items[idx].Quantity = quantity

	if err := s.persist(ctx, sessionID, &cart); err != nil {
		return Cart{}, err
	}
	return cart, nil
}

// Remove drops a line from the cart. Removing an absent line is a no-op.
func (s *service) Remove(ctx context.Context, sessionID, id string, kind enums.CartItemKind) (Cart, error) {
	cart, err := s.Get(ctx, sessionID)
	if err != nil {
		return Cart{}, err
	}

	idx := cart.find(id, kind)
	if idx < 0 {
		return cart, nil
	}
	cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)

	if err := s.persist(ctx, sessionID, &cart); err != nil {
		return Cart{}, err
	}
	return cart, nil
}

// Clear drops the whole cart.
func (s *service) Clear(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if err := s.store.Del(ctx, s.store.CartKey(sessionID)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

func (s *service) persist(ctx context.Context, sessionID string, cart *Cart) error {
	cart.UpdatedAt = time.Now().UTC()
	payload, err := json.Marshal(cart)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode cart")
	}
	if err := s.store.Set(ctx, s.store.CartKey(sessionID), string(payload), s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist cart")
	}
	return nil
}

func validateAddInput(input AddItemInput) error {
	if strings.TrimSpace(input.ID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	if !input.Kind.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "item kind must be hotel, flight or package")
	}
	if strings.TrimSpace(input.Title) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "item title is required")
	}
	if input.Quantity < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least one")
	}
	if input.Price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	switch input.Kind {
	case enums.CartItemKindHotel:
		if input.Flight != nil || input.Package != nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "hotel lines only carry hotel details")
		}
	case enums.CartItemKindFlight:
		if input.Hotel != nil || input.Package != nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "flight lines only carry flight details")
		}
	case enums.CartItemKindPackage:
		if input.Hotel != nil || input.Flight != nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "package lines only carry package details")
		}
	}
	return nil
}
