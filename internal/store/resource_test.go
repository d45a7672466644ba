package store

import (
	"context"
	"errors"
	"testing"
)

func TestResource_FetchLifecycle(t *testing.T) {
	res := NewResource[[]string]()

	_, seq := res.Begin(context.Background())
	view := res.Snapshot()
	if !view.Loading || view.Err != nil {
		t.Fatalf("expected loading with no error, got %+v", view)
	}

	if ok := res.Resolve(seq, []string{"paris", "tokyo"}); !ok {
		t.Fatalf("resolve with current token should apply")
	}
	view = res.Snapshot()
	if view.Loading {
		t.Fatalf("resolved resource should not be loading")
	}
	if view.Err != nil {
		t.Fatalf("resolved resource should clear the error, got %v", view.Err)
	}
	if len(view.Data) != 2 {
		t.Fatalf("unexpected data %v", view.Data)
	}
}

func TestResource_RejectPreservesStaleData(t *testing.T) {
	res := NewResource[[]string]()

	_, seq := res.Begin(context.Background())
	res.Resolve(seq, []string{"paris"})

	_, seq = res.Begin(context.Background())
	if ok := res.Reject(seq, errors.New("network down")); !ok {
		t.Fatalf("reject with current token should apply")
	}

	view := res.Snapshot()
	if view.Loading {
		t.Fatalf("rejected resource should not be loading")
	}
	if view.Err == nil {
		t.Fatalf("rejected resource should carry the error")
	}
	if len(view.Data) != 1 || view.Data[0] != "paris" {
		t.Fatalf("previously committed data should survive a failure, got %v", view.Data)
	}
}

func TestResource_StaleResolutionDiscarded(t *testing.T) {
	res := NewResource[[]string]()

	firstCtx, firstSeq := res.Begin(context.Background())
	_, secondSeq := res.Begin(context.Background())

	if firstCtx.Err() == nil {
		t.Fatalf("starting a new fetch should cancel the previous context")
	}
	if ok := res.Resolve(firstSeq, []string{"stale"}); ok {
		t.Fatalf("stale resolve must be discarded")
	}
	if ok := res.Reject(firstSeq, errors.New("stale failure")); ok {
		t.Fatalf("stale reject must be discarded")
	}

	if ok := res.Resolve(secondSeq, []string{"fresh"}); !ok {
		t.Fatalf("current resolve should apply")
	}
	view := res.Snapshot()
	if len(view.Data) != 1 || view.Data[0] != "fresh" {
		t.Fatalf("unexpected data %v", view.Data)
	}
}

func TestResource_Reset(t *testing.T) {
	res := NewResource[[]string]()
	_, seq := res.Begin(context.Background())
	res.Resolve(seq, []string{"paris"})

	res.Reset()
	view := res.Snapshot()
	if view.HasData || view.Loading || view.Err != nil || len(view.Data) != 0 {
		t.Fatalf("reset should drop everything, got %+v", view)
	}
	if ok := res.Resolve(seq, []string{"late"}); ok {
		t.Fatalf("resolve after reset must be discarded")
	}
}

func TestPagination_TotalPages(t *testing.T) {
	cases := []struct {
		name  string
		p     Pagination
		pages int
	}{
		{"empty", Pagination{Page: 1, Limit: 10, Total: 0}, 0},
		{"exact", Pagination{Page: 1, Limit: 10, Total: 40}, 4},
		{"remainder", Pagination{Page: 1, Limit: 10, Total: 41}, 5},
		{"single", Pagination{Page: 1, Limit: 10, Total: 1}, 1},
		{"zero limit", Pagination{Page: 1, Limit: 0, Total: 50}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.p.TotalPages(); got != tc.pages {
				t.Fatalf("TotalPages() = %d, want %d", got, tc.pages)
			}
		})
	}
}

func TestPagination_Clamp(t *testing.T) {
	p := Pagination{Page: 9, Limit: 10, Total: 35}
	if got := p.Clamp().Page; got != 4 {
		t.Fatalf("page beyond the end should clamp to the last page, got %d", got)
	}

	p = Pagination{Page: 0, Limit: 10, Total: 35}
	if got := p.Clamp().Page; got != 1 {
		t.Fatalf("page below one should clamp to one, got %d", got)
	}

	p = Pagination{Page: 3, Limit: 10, Total: 0}
	if got := p.Clamp().Page; got != 3 {
		t.Fatalf("empty totals leave the requested page alone, got %d", got)
	}
}
