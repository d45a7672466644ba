package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/travelbookhq/travelbook-gateway/api/middleware"
	"github.com/travelbookhq/travelbook-gateway/api/responses"
	"github.com/travelbookhq/travelbook-gateway/api/validators"
	"github.com/travelbookhq/travelbook-gateway/internal/bookings"
	"github.com/travelbookhq/travelbook-gateway/internal/session"
	pkgerrors "github.com/travelbookhq/travelbook-gateway/pkg/errors"
	"github.com/travelbookhq/travelbook-gateway/pkg/logger"
)

func sessionToken(r *http.Request, mgr session.Manager) (string, error) {
	ctx := r.Context()
	token, err := mgr.Token(ctx, middleware.SessionIDFromContext(ctx))
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to view bookings")
	}
	return token, nil
}

// BookingsList returns the signed-in traveler's bookings.
func BookingsList(svc bookings.Service, mgr session.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil || mgr == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "bookings service unavailable"))
			return
		}

		token, err := sessionToken(r, mgr)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		page, err := validators.ParseQueryInt(r, "page", 1, 1, 100000)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", defaultPageSize, 1, maxPageSize)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.List(ctx, token, page, limit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// BookingDetail returns one booking by id.
func BookingDetail(svc bookings.Service, mgr session.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil || mgr == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "bookings service unavailable"))
			return
		}

		token, err := sessionToken(r, mgr)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		booking, err := svc.Detail(ctx, token, strings.TrimSpace(chi.URLParam(r, "id")))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, booking)
	}
}

// BookingCancel asks the travel api to cancel a booking.
func BookingCancel(svc bookings.Service, mgr session.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil || mgr == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "bookings service unavailable"))
			return
		}

		token, err := sessionToken(r, mgr)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		booking, err := svc.Cancel(ctx, token, strings.TrimSpace(chi.URLParam(r, "id")))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, booking)
	}
}
