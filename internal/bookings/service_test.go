package bookings

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/rs/zerolog"

	"github.com/travelbookhq/travelbook-gateway/internal/upstream"
	"github.com/travelbookhq/travelbook-gateway/pkg/enums"
	pkgerrors "github.com/travelbookhq/travelbook-gateway/pkg/errors"
	"github.com/travelbookhq/travelbook-gateway/pkg/logger"
)

type fakeCaller struct {
	getFn func(ctx context.Context, req upstream.Request, out any) (*int, error)
	putFn func(ctx context.Context, req upstream.Request, out any) error
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
	if f.putFn == nil {
		return errors.New("unexpected Put")
	}
	return f.putFn(ctx, req, out)
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

func TestList_RequiresToken(t *testing.T) {
	svc := newTestService(t, &fakeCaller{})

	_, err := svc.List(context.Background(), "", 1, 10)
	if !pkgerrors.IsAuthFailure(err) {
		t.Fatalf("expected auth failure, got %v", err)
	}
}

func TestList_ForwardsTokenAndTotal(t *testing.T) {
	total := 7
	api := &fakeCaller{
		getFn: func(ctx context.Context, req upstream.Request, out any) (*int, error) {
			if req.Token != "jwt-token" {
				t.Fatalf("token not forwarded, got %q", req.Token)
			}
			raw := `[{"_id":"bk1","title":"Paris Garden Inn","kind":"hotel","status":"confirmed"}]`
			if err := json.Unmarshal([]byte(raw), out); err != nil {
				t.Fatalf("decode fixture: %v", err)
			}
			return &total, nil
		},
	}
	svc := newTestService(t, api)

	page, err := svc.List(context.Background(), "jwt-token", 1, 10)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if page.Total != 7 {
		t.Fatalf("unexpected total %d", page.Total)
	}
	if len(page.Bookings) != 1 || page.Bookings[0].ID != "bk1" {
		t.Fatalf("unexpected bookings %+v", page.Bookings)
	}
	if page.Bookings[0].Status != enums.BookingStatusConfirmed {
		t.Fatalf("unexpected status %q", page.Bookings[0].Status)
	}
}

func TestCancel_StatusStaysServerAuthoritative(t *testing.T) {
	api := &fakeCaller{
		putFn: func(ctx context.Context, req upstream.Request, out any) error {
			if req.Path != "bookings/bk1/cancel" {
				t.Fatalf("unexpected path %q", req.Path)
			}
			return json.Unmarshal([]byte(`{"_id":"bk1","status":"completed"}`), out)
		},
	}
	svc := newTestService(t, api)

	booking, err := svc.Cancel(context.Background(), "jwt-token", "bk1")
	if err != nil {
		t.Fatalf("Cancel returned error: %v", err)
	}
	if booking.Status != enums.BookingStatusCompleted {
		t.Fatalf("the api's status must win, got %q", booking.Status)
	}
}

func TestCancel_DefaultsToCancelledWhenStatusOmitted(t *testing.T) {
	api := &fakeCaller{
		putFn: func(ctx context.Context, req upstream.Request, out any) error {
			return json.Unmarshal([]byte(`{"_id":"bk1"}`), out)
		},
	}
	svc := newTestService(t, api)

	booking, err := svc.Cancel(context.Background(), "jwt-token", "bk1")
	if err != nil {
		t.Fatalf("Cancel returned error: %v", err)
	}
	if booking.Status != enums.BookingStatusCancelled {
		t.Fatalf("unexpected status %q", booking.Status)
	}
}

func TestDetail_RequiresID(t *testing.T) {
	svc := newTestService(t, &fakeCaller{})
	if _, err := svc.Detail(context.Background(), "jwt-token", " "); err == nil {
		t.Fatalf("blank id must be rejected")
	}
}
