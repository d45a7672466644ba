package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/travelbookhq/travelbook-gateway/api/middleware"
	"github.com/travelbookhq/travelbook-gateway/api/responses"
	"github.com/travelbookhq/travelbook-gateway/api/validators"
	"github.com/travelbookhq/travelbook-gateway/internal/cart"
	pkgerrors "github.com/travelbookhq/travelbook-gateway/pkg/errors"
	"github.com/travelbookhq/travelbook-gateway/pkg/logger"
)

type cartEnvelope struct {
	Cart  cart.Cart `json:"cart"`
	Total string    `json:"total"`
	Count int       `json:"count"`
}

func wrapCart(c cart.Cart) cartEnvelope {
	return cartEnvelope{Cart: c, Total: c.Total().StringFixed(2), Count: c.Count()}
}

// CartGet returns the session cart.
func CartGet(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		sessionCart, err := svc.Get(ctx, middleware.SessionIDFromContext(ctx))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, wrapCart(sessionCart))
	}
}

// CartAddItem merges a line into the session cart.
func CartAddItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var input cart.AddItemInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		sessionCart, err := svc.Add(ctx, middleware.SessionIDFromContext(ctx), input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, wrapCart(sessionCart))
	}
}

type updateQuantityPayload struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

// CartUpdateQuantity sets the quantity on an existing line.
func CartUpdateQuantity(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		kind, err := validators.ParseCartItemKind(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload updateQuantityPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		id := strings.TrimSpace(chi.URLParam(r, "id"))
		sessionCart, err := svc.UpdateQuantity(ctx, middleware.SessionIDFromContext(ctx), id, kind, payload.Quantity)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, wrapCart(sessionCart))
	}
}

// CartRemoveItem drops a line from the session cart.
func CartRemoveItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		kind, err := validators.ParseCartItemKind(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		id := strings.TrimSpace(chi.URLParam(r, "id"))
		sessionCart, err := svc.Remove(ctx, middleware.SessionIDFromContext(ctx), id, kind)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, wrapCart(sessionCart))
	}
}

// CartClear drops the whole session cart.
func CartClear(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		if err := svc.Clear(ctx, middleware.SessionIDFromContext(ctx)); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"cleared": true})
	}
}
