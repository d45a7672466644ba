package itinerary

import (
	"context"
	"net/url"
	"strconv"

	"github.com/travelbookhq/travelbook-gateway/internal/store"
	"github.com/travelbookhq/travelbook-gateway/internal/upstream"
	pkgerrors "github.com/travelbookhq/travelbook-gateway/pkg/errors"
	"github.com/travelbookhq/travelbook-gateway/pkg/logger"
)

// ServiceParams groups dependencies for the itinerary service.
type ServiceParams struct {
	API    upstream.Caller
	Logger *logger.Logger
}

// Service owns the shared itinerary state.
type Service interface {
	FetchItineraries(ctx context.Context, page, limit int, destination string) (store.View[[]Itinerary], error)
	FetchItinerary(ctx context.Context, id string) (*Itinerary, error)
}

type service struct {
	api         upstream.Caller
	logg        *logger.Logger
	itineraries *store.Resource[[]Itinerary]
}

// NewService builds the itinerary service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.API == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "travel api client is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &service{
		api:         params.API,
		logg:        params.Logger,
		itineraries: store.NewResource[[]Itinerary](),
	}, nil
}

// FetchItineraries loads the itinerary list into the shared store,
// optionally narrowed to a destination.
func (s *service) FetchItineraries(ctx context.Context, page, limit int, destination string) (store.View[[]Itinerary], error) {
	fetchCtx, seq := s.itineraries.Begin(ctx)

	query := url.Values{}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	if destination != "" {
		query.Set("destination", destination)
	}

	var items []Itinerary
	total, err := s.api.Get(fetchCtx, upstream.Request{
		Resource: upstream.ResourceItineraries,
		Path:     upstream.ItinerariesPath(),
		Query:    query,
	}, &items)
	if err != nil {
		if !s.itineraries.Reject(seq, err) {
			s.logg.Warn(s.logg.WithResource(ctx, upstream.ResourceItineraries), "discarding stale list failure")
		}
		return s.itineraries.Snapshot(), err
	}

	pagination := store.Pagination{Page: page, Limit: limit}
	if pagination.Page < 1 {
		pagination.Page = 1
	}
	if total != nil {
		pagination.Total = *total
	} else {
		pagination.Total = len(items)
	}
	s.itineraries.ResolvePage(seq, items, pagination)
	return s.itineraries.Snapshot(), nil
}

// FetchItinerary loads one itinerary by id.
func (s *service) FetchItinerary(ctx context.Context, id string) (*Itinerary, error) {
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "id is required")
	}

	var item Itinerary
	if _, err := s.api.Get(ctx, upstream.Request{
		Resource: upstream.ResourceItineraries,
		Path:     upstream.ItineraryPath(id),
	}, &item); err != nil {
		return nil, err
	}
	return &item, nil
}
