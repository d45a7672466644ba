package store

// Pagination carries the server-reported paging window for a list resource.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// TotalPages derives the page count. An empty result set has zero pages.
func (p Pagination) TotalPages() int {
	if p.Total <= 0 || p.Limit <= 0 {
		return 0
	}
	return (p.Total + p.Limit - 1) / p.Limit
}

// Clamp normalizes the current page into the valid range. Requests beyond
// the last page land on the last page; anything below one lands on one.
func (p Pagination) Clamp() Pagination {
	clamped := p
	if clamped.Page < 1 {
		clamped.Page = 1
	}
	if pages := p.TotalPages(); pages > 0 && clamped.Page > pages {
		clamped.Page = pages
	}
	return clamped
}
