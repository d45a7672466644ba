package itinerary

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/rs/zerolog"

	"github.com/travelbookhq/travelbook-gateway/internal/upstream"
	"github.com/travelbookhq/travelbook-gateway/pkg/logger"
)

type fakeCaller struct {
	getFn func(ctx context.Context, req upstream.Request, out any) (*int, error)
}

func (f *fakeCaller) Get(ctx context.Context, req upstream.Request, out any) (*int, error) {
	if f.getFn == nil {
		return nil, errors.New("unexpected Get")
	}
	return f.getFn(ctx, req, out)
}

func (f *fakeCaller) Post(ctx context.Context, req upstream.Request, out any) error {
	return errors.New("unexpected Post")
}

func (f *fakeCaller) Put(ctx context.Context, req upstream.Request, out any) error {
	return errors.New("unexpected Put")
}

func (f *fakeCaller) Delete(ctx context.Context, req upstream.Request, out any) error {
	return errors.New("unexpected Delete")
}

func newTestService(t *testing.T, api upstream.Caller) Service {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard})
	svc, err := NewService(ServiceParams{API: api, Logger: logg})
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}
	return svc
}

func TestFetchItineraries_FiltersByDestination(t *testing.T) {
	api := &fakeCaller{
		getFn: func(ctx context.Context, req upstream.Request, out any) (*int, error) {
			if got := req.Query.Get("destination"); got != "d1" {
				t.Fatalf("unexpected destination filter %q", got)
			}
			raw := `[{"_id":"i1","name":"Kyoto in Five Days","days":[{"number":1,"visits":[{"name":"Fushimi Inari"}]}]}]`
			if err := json.Unmarshal([]byte(raw), out); err != nil {
				t.Fatalf("decode fixture: %v", err)
			}
			return nil, nil
		},
	}
	svc := newTestService(t, api)

	view, err := svc.FetchItineraries(context.Background(), 1, 10, "d1")
	if err != nil {
		t.Fatalf("FetchItineraries returned error: %v", err)
	}
	if len(view.Data) != 1 || view.Data[0].ID != "i1" {
		t.Fatalf("unexpected itineraries %+v", view.Data)
	}
	if view.Data[0].Title != "Kyoto in Five Days" {
		t.Fatalf("name fallback not applied: %+v", view.Data[0])
	}
	if len(view.Data[0].Days) != 1 || len(view.Data[0].Days[0].Visits) != 1 {
		t.Fatalf("nested days not decoded: %+v", view.Data[0].Days)
	}
}

func TestFetchItinerary_RequiresID(t *testing.T) {
	svc := newTestService(t, &fakeCaller{})
	if _, err := svc.FetchItinerary(context.Background(), ""); err == nil {
		t.Fatalf("blank id must be rejected")
	}
}
