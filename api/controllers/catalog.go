package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/travelbookhq/travelbook-gateway/api/responses"
	"github.com/travelbookhq/travelbook-gateway/api/validators"
	"github.com/travelbookhq/travelbook-gateway/internal/catalog"
	pkgerrors "github.com/travelbookhq/travelbook-gateway/pkg/errors"
	"github.com/travelbookhq/travelbook-gateway/pkg/logger"
)

const (
	defaultPageSize = 12
	maxPageSize     = 100
)

func listParamsFromRequest(r *http.Request) (catalog.ListParams, error) {
	page, err := validators.ParseQueryInt(r, "page", 1, 1, 100000)
	if err != nil {
		return catalog.ListParams{}, err
	}
	limit, err := validators.ParseQueryInt(r, "limit", defaultPageSize, 1, maxPageSize)
	if err != nil {
		return catalog.ListParams{}, err
	}
	sort, err := validators.ParseSortOrder(r)
	if err != nil {
		return catalog.ListParams{}, err
	}
	return catalog.ListParams{
		Page:        page,
		Limit:       limit,
		Search:      strings.TrimSpace(r.URL.Query().Get("search")),
		Sort:        sort,
		Destination: strings.TrimSpace(r.URL.Query().Get("destination")),
	}, nil
}

type listEnvelope struct {
	Items      any `json:"items"`
	Pagination any `json:"pagination"`
	TotalPages int `json:"totalPages"`
}

// DestinationsList returns the destination catalog page.
func DestinationsList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		params, err := listParamsFromRequest(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		view, err := svc.FetchDestinations(ctx, params)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, listEnvelope{
			Items:      view.Data,
			Pagination: view.Pagination,
			TotalPages: view.Pagination.TotalPages(),
		})
	}
}

// DestinationDetail returns one destination by id.
func DestinationDetail(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		item, err := svc.FetchDestination(ctx, strings.TrimSpace(chi.URLParam(r, "id")))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

// HotelsList returns the hotel catalog page.
func HotelsList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		params, err := listParamsFromRequest(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		view, err := svc.FetchHotels(ctx, params)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, listEnvelope{
			Items:      view.Data,
			Pagination: view.Pagination,
			TotalPages: view.Pagination.TotalPages(),
		})
	}
}

// HotelDetail returns one hotel by id.
func HotelDetail(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		item, err := svc.FetchHotel(ctx, strings.TrimSpace(chi.URLParam(r, "id")))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

// FlightsList returns the flight catalog page.
func FlightsList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		params, err := listParamsFromRequest(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		view, err := svc.FetchFlights(ctx, params)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, listEnvelope{
			Items:      view.Data,
			Pagination: view.Pagination,
			TotalPages: view.Pagination.TotalPages(),
		})
	}
}

// FlightDetail returns one flight by id.
func FlightDetail(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		item, err := svc.FetchFlight(ctx, strings.TrimSpace(chi.URLParam(r, "id")))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

// PackagesList returns the package catalog page.
func PackagesList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		params, err := listParamsFromRequest(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		view, err := svc.FetchPackages(ctx, params)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, listEnvelope{
			Items:      view.Data,
			Pagination: view.Pagination,
			TotalPages: view.Pagination.TotalPages(),
		})
	}
}

// PackageDetail returns one package by id.
func PackageDetail(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		item, err := svc.FetchPackage(ctx, strings.TrimSpace(chi.URLParam(r, "id")))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

// HotelsSearch refines the already fetched hotel list on the edge: text
// match, rating floor, price ceiling, sort and page without another
// upstream round trip.
func HotelsSearch(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		params, err := listParamsFromRequest(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		minRating, err := validators.ParseQueryFloat(r, "minRating")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		maxPrice, err := validators.ParseQueryDecimal(r, "maxPrice")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		items, pagination, err := svc.SearchHotels(ctx, catalog.HotelFilter{
			Query:     params.Search,
			MinRating: minRating,
			MaxPrice:  maxPrice,
			Sort:      params.Sort,
		}, params.Page, params.Limit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, listEnvelope{
			Items:      items,
			Pagination: pagination,
			TotalPages: pagination.TotalPages(),
		})
	}
}
