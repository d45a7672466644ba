package listkit

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/travelbookhq/travelbook-gateway/pkg/enums"
)

type listing struct {
	Name    string
	City    string
	Price   decimal.Decimal
	Rating  float64
	Created time.Time
}

func sampleListings() []listing {
	base := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	return []listing{
		{Name: "Santorini Sunset Villa", City: "Santorini", Price: decimal.NewFromInt(320), Rating: 4.9, Created: base},
		{Name: "Paris Boutique Stay", City: "Paris", Price: decimal.NewFromInt(180), Rating: 4.5, Created: base.AddDate(0, 0, 3)},
		{Name: "Tokyo Skyline Hotel", City: "Tokyo", Price: decimal.NewFromInt(210), Rating: 4.7, Created: base.AddDate(0, 0, 1)},
		{Name: "Paris Garden Inn", City: "Paris", Price: decimal.NewFromInt(120), Rating: 4.1, Created: base.AddDate(0, 0, 2)},
	}
}

func listingFields(l listing) []string {
	return []string{l.Name, l.City}
}

func TestTextFilter_CaseInsensitive(t *testing.T) {
	got := TextFilter(sampleListings(), "PARIS", listingFields)
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(got))
	}
	for _, l := range got {
		if l.City != "Paris" {
			t.Fatalf("unexpected match %+v", l)
		}
	}
}

func TestTextFilter_EmptyQueryKeepsEverything(t *testing.T) {
	items := sampleListings()
	got := TextFilter(items, "   ", listingFields)
	if len(got) != len(items) {
		t.Fatalf("blank query should keep all items, got %d", len(got))
	}
}

func TestSort_Orders(t *testing.T) {
	keys := Keys[listing]{
		Price:     func(l listing) decimal.Decimal { return l.Price },
		Rating:    func(l listing) float64 { return l.Rating },
		CreatedAt: func(l listing) time.Time { return l.Created },
	}

	items := sampleListings()
	Sort(items, enums.SortPriceAsc, keys)
	if items[0].Name != "Paris Garden Inn" || items[3].Name != "Santorini Sunset Villa" {
		t.Fatalf("unexpected price_asc order: %v", names(items))
	}

	items = sampleListings()
	Sort(items, enums.SortPriceDesc, keys)
	if items[0].Name != "Santorini Sunset Villa" {
		t.Fatalf("unexpected price_desc order: %v", names(items))
	}

	items = sampleListings()
	Sort(items, enums.SortRatingDesc, keys)
	if items[0].Rating != 4.9 || items[3].Rating != 4.1 {
		t.Fatalf("unexpected rating order: %v", names(items))
	}

	items = sampleListings()
	Sort(items, enums.SortNewest, keys)
	if items[0].Name != "Paris Boutique Stay" {
		t.Fatalf("unexpected newest order: %v", names(items))
	}

	items = sampleListings()
	Sort(items, enums.SortOldest, keys)
	if items[0].Name != "Santorini Sunset Villa" {
		t.Fatalf("unexpected oldest order: %v", names(items))
	}
}

func TestSort_IsStableAndIdempotent(t *testing.T) {
	keys := Keys[listing]{Price: func(l listing) decimal.Decimal { return l.Price }}
	items := sampleListings()
	items[1].Price = items[2].Price

	Sort(items, enums.SortPriceAsc, keys)
	once := names(items)
	Sort(items, enums.SortPriceAsc, keys)
	twice := names(items)
	for i := range once {
		if once[i] != twice[i] {
			t.Fatalf("repeated sort reordered ties: %v vs %v", once, twice)
		}
	}
}

func TestSort_UnknownOrderLeavesSlice(t *testing.T) {
	items := sampleListings()
	original := names(items)
	Sort(items, enums.SortOrder("bogus"), Keys[listing]{})
	for i, n := range names(items) {
		if n != original[i] {
			t.Fatalf("unknown order must not reorder items")
		}
	}
}

func names(items []listing) []string {
	out := make([]string, len(items))
	for i, l := range items {
		out[i] = l.Name
	}
	return out
}

func TestPaginate_Window(t *testing.T) {
	items := make([]int, 35)
	for i := range items {
		items[i] = i
	}

	page, p := Paginate(items, 2, 10)
	if len(page) != 10 || page[0] != 10 {
		t.Fatalf("unexpected second page %v", page)
	}
	if p.TotalPages() != 4 {
		t.Fatalf("expected 4 pages, got %d", p.TotalPages())
	}

	page, p = Paginate(items, 4, 10)
	if len(page) != 5 || page[0] != 30 {
		t.Fatalf("unexpected last page %v", page)
	}

	page, p = Paginate(items, 9, 10)
	if p.Page != 4 || len(page) != 5 {
		t.Fatalf("page beyond the end should clamp to the last page, got page=%d len=%d", p.Page, len(page))
	}
}

func TestPaginate_EmptyList(t *testing.T) {
	page, p := Paginate([]int{}, 1, 10)
	if len(page) != 0 {
		t.Fatalf("empty input yields an empty page")
	}
	if p.TotalPages() != 0 {
		t.Fatalf("zero total means zero pages, got %d", p.TotalPages())
	}
}

func TestDebouncer_SingleDispatchAfterBurst(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)
	defer d.Stop()

	var calls atomic.Int32
	var last atomic.Value
	for _, q := range []string{"P", "Pa", "Par", "Pari", "Paris"} {
		query := q
		d.Do(func() {
			calls.Add(1)
			last.Store(query)
		})
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(150 * time.Millisecond)
	if got := calls.Load(); got != 1 {
		t.Fatalf("expected exactly one dispatch, got %d", got)
	}
	if got, _ := last.Load().(string); got != "Paris" {
		t.Fatalf("expected last query to win, got %q", got)
	}
}

func TestDebouncer_StopCancelsPending(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)

	var calls atomic.Int32
	d.Do(func() { calls.Add(1) })
	d.Stop()

	time.Sleep(80 * time.Millisecond)
	if got := calls.Load(); got != 0 {
		t.Fatalf("stopped debouncer must not fire, got %d dispatches", got)
	}
}
