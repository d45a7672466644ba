package catalog

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/travelbookhq/travelbook-gateway/internal/listkit"
	"github.com/travelbookhq/travelbook-gateway/internal/store"
	"github.com/travelbookhq/travelbook-gateway/internal/upstream"
	"github.com/travelbookhq/travelbook-gateway/pkg/enums"
	pkgerrors "github.com/travelbookhq/travelbook-gateway/pkg/errors"
	"github.com/travelbookhq/travelbook-gateway/pkg/logger"
)

// ListParams narrows a catalog list fetch.
type ListParams struct {
	Page        int
	Limit       int
	Search      string
	Sort        enums.SortOrder
	Destination string
}

// Query renders the params as travel api query parameters.
func (p ListParams) Query() url.Values {
	query := url.Values{}
	if p.Page > 0 {
		query.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		query.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Search != "" {
		query.Set("search", p.Search)
	}
	if p.Sort.IsValid() {
		query.Set("sort", p.Sort.String())
	}
	if p.Destination != "" {
		query.Set("destination", p.Destination)
	}
	return query
}

// ServiceParams groups dependencies for the catalog service.
type ServiceParams struct {
	API    upstream.Caller
	Logger *logger.Logger

	// SearchDebounce is the quiet interval before a cached hotel search
	// triggers one background refresh. Zero uses the debouncer default.
	SearchDebounce time.Duration
}

// Service owns the shared catalog state: destinations, hotels, flights and
// packages, each with its own fetch lifecycle.
type Service interface {
	FetchDestinations(ctx context.Context, params ListParams) (store.View[[]Destination], error)
	FetchDestination(ctx context.Context, id string) (*Destination, error)
	FetchHotels(ctx context.Context, params ListParams) (store.View[[]Hotel], error)
	FetchHotel(ctx context.Context, id string) (*Hotel, error)
	FetchFlights(ctx context.Context, params ListParams) (store.View[[]Flight], error)
	FetchFlight(ctx context.Context, id string) (*Flight, error)
	FetchPackages(ctx context.Context, params ListParams) (store.View[[]Package], error)
	FetchPackage(ctx context.Context, id string) (*Package, error)
	SearchHotels(ctx context.Context, filter HotelFilter, page, limit int) ([]Hotel, store.Pagination, error)
	RefineHotels(view store.View[[]Hotel], filter HotelFilter, page, limit int) ([]Hotel, store.Pagination)
}

type service struct {
	api  upstream.Caller
	logg *logger.Logger

	destinations *store.Resource[[]Destination]
	hotels       *store.Resource[[]Hotel]
	flights      *store.Resource[[]Flight]
	packages     *store.Resource[[]Package]

	refresh *listkit.Debouncer
}

// NewService builds the catalog service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.API == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "travel api client is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &service{
		api:          params.API,
		logg:         params.Logger,
		destinations: store.NewResource[[]Destination](),
		hotels:       store.NewResource[[]Hotel](),
		flights:      store.NewResource[[]Flight](),
		packages:     store.NewResource[[]Package](),
		refresh:      listkit.NewDebouncer(params.SearchDebounce),
	}, nil
}

// FetchDestinations loads the destination list into the shared store.
func (s *service) FetchDestinations(ctx context.Context, params ListParams) (store.View[[]Destination], error) {
	return fetchList(ctx, s, s.destinations, upstream.ResourceDestinations, upstream.DestinationsPath(), params)
}

// FetchDestination loads one destination by id.
func (s *service) FetchDestination(ctx context.Context, id string) (*Destination, error) {
	return fetchDetail[Destination](ctx, s, upstream.ResourceDestinations, upstream.DestinationPath, id)
}

// FetchHotels loads the hotel list into the shared store.
func (s *service) FetchHotels(ctx context.Context, params ListParams) (store.View[[]Hotel], error) {
	return fetchList(ctx, s, s.hotels, upstream.ResourceHotels, upstream.HotelsPath(), params)
}

// FetchHotel loads one hotel by id.
func (s *service) FetchHotel(ctx context.Context, id string) (*Hotel, error) {
	return fetchDetail[Hotel](ctx, s, upstream.ResourceHotels, upstream.HotelPath, id)
}

// FetchFlights loads the flight list into the shared store.
func (s *service) FetchFlights(ctx context.Context, params ListParams) (store.View[[]Flight], error) {
	return fetchList(ctx, s, s.flights, upstream.ResourceFlights, upstream.FlightsPath(), params)
}

// FetchFlight loads one flight by id.
func (s *service) FetchFlight(ctx context.Context, id string) (*Flight, error) {
	return fetchDetail[Flight](ctx, s, upstream.ResourceFlights, upstream.FlightPath, id)
}

// FetchPackages loads the package list into the shared store.
func (s *service) FetchPackages(ctx context.Context, params ListParams) (store.View[[]Package], error) {
	return fetchList(ctx, s, s.packages, upstream.ResourcePackages, upstream.PackagesPath(), params)
}

// FetchPackage loads one package by id.
func (s *service) FetchPackage(ctx context.Context, id string) (*Package, error) {
	return fetchDetail[Package](ctx, s, upstream.ResourcePackages, upstream.PackagePath, id)
}

const searchFetchLimit = 100

// SearchHotels serves hotel search from the cached slice when one is
// present and coalesces upstream refreshes while the visitor is still
// typing: only after the query stream settles does one refresh fire. A
// cold cache fetches synchronously.
func (s *service) SearchHotels(ctx context.Context, filter HotelFilter, page, limit int) ([]Hotel, store.Pagination, error) {
	view := s.hotels.Snapshot()
	if !view.HasData {
		fresh, err := s.FetchHotels(ctx, ListParams{Page: 1, Limit: searchFetchLimit})
		if err != nil {
			return nil, store.Pagination{}, err
		}
		view = fresh
	} else {
		s.refresh.Do(func() {
			refreshCtx := context.Background()
			if _, err := s.FetchHotels(refreshCtx, ListParams{Page: 1, Limit: searchFetchLimit}); err != nil {
				s.logg.Error(s.logg.WithResource(refreshCtx, upstream.ResourceHotels), "background hotel refresh failed", err)
			}
		})
	}

	items, pagination := s.RefineHotels(view, filter, page, limit)
	return items, pagination, nil
}

// HotelFilter narrows an already fetched hotel page. MaxPrice at or below
// zero and MinRating at or below zero mean no ceiling and no floor.
type HotelFilter struct {
	Query     string
	MinRating float64
	MaxPrice  decimal.Decimal
	Sort      enums.SortOrder
}

// RefineHotels applies client-side search, rating/price filters, sort and
// paging over an already fetched hotel list without touching the server
// pagination.
func (s *service) RefineHotels(view store.View[[]Hotel], filter HotelFilter, page, limit int) ([]Hotel, store.Pagination) {
	items := make([]Hotel, len(view.Data))
	copy(items, view.Data)

	items = listkit.TextFilter(items, filter.Query, func(h Hotel) []string {
		return []string{h.Name, h.Destination.String(), h.Description}
	})
	if filter.MinRating > 0 {
		items = listkit.Filter(items, func(h Hotel) bool {
			return h.Rating >= filter.MinRating
		})
	}
	if filter.MaxPrice.IsPositive() {
		items = listkit.Filter(items, func(h Hotel) bool {
			return h.PricePerNight.LessThanOrEqual(filter.MaxPrice)
		})
	}
	listkit.Sort(items, filter.Sort, hotelSortKeys())
	return listkit.Paginate(items, page, limit)
}

func fetchList[T any, P interface {
	*T
	keyed
}](ctx context.Context, s *service, res *store.Resource[[]T], resource, path string, params ListParams) (store.View[[]T], error) {
	fetchCtx, seq := res.Begin(ctx)

	var items []T
	total, err := s.api.Get(fetchCtx, upstream.Request{
		Resource: resource,
		Path:     path,
		Query:    params.Query(),
	}, &items)
	if err != nil {
		if !res.Reject(seq, err) {
			s.logg.Warn(s.logg.WithResource(ctx, resource), "discarding stale list failure")
		}
		return res.Snapshot(), err
	}

	if patched := ensureKeys[T, P](items); len(patched) > 0 {
		s.logg.Warn(s.logg.WithResource(ctx, resource),
			fmt.Sprintf("%d listing(s) arrived without an id, assigned positional keys", len(patched)))
	}

	pagination := store.Pagination{Page: params.Page, Limit: params.Limit}
	if pagination.Page < 1 {
		pagination.Page = 1
	}
	if total != nil {
		pagination.Total = *total
	} else {
		pagination.Total = len(items)
	}
	if !res.ResolvePage(seq, items, pagination) {
		s.logg.Warn(s.logg.WithResource(ctx, resource), "discarding stale list response")
	}
	return res.Snapshot(), nil
}

func fetchDetail[T any](ctx context.Context, s *service, resource string, pathFor func(string) string, id string) (*T, error) {
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "id is required")
	}
	if IsSyntheticKey(id) {
		s.logg.Warn(s.logg.WithResource(ctx, resource), "refusing detail navigation for a positional key")
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "listing has no identifier, details are unavailable")
	}

	var item T
	if _, err := s.api.Get(ctx, upstream.Request{Resource: resource, Path: pathFor(id)}, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func hotelSortKeys() listkit.Keys[Hotel] {
	return listkit.Keys[Hotel]{
		Price:     func(h Hotel) decimal.Decimal { return h.PricePerNight },
		Rating:    func(h Hotel) float64 { return h.Rating },
		CreatedAt: func(h Hotel) time.Time { return h.CreatedAt },
	}
}
