package store

import (
	"context"
	"sync"
)

// Resource holds one async slice of shared state. Fetches are fenced by a
// sequence number: starting a new fetch cancels the previous one, and
// resolutions carrying a stale sequence are discarded so a slow earlier
// response can never overwrite a newer one.
type Resource[T any] struct {
	mu         sync.Mutex
	data       T
	hasData    bool
	loading    bool
	err        error
	seq        uint64
	cancel     context.CancelFunc
	pagination Pagination
}

// View is a copy of the resource state at a point in time.
type View[T any] struct {
	Data       T
	HasData    bool
	Loading    bool
	Err        error
	Pagination Pagination
}

// NewResource returns an empty resource.
func NewResource[T any]() *Resource[T] {
	return &Resource[T]{}
}

// Begin starts a fetch. It cancels any in-flight fetch, marks the resource
// loading with the error cleared, and returns a derived context plus the
// sequence token the eventual Resolve or Reject must present.
func (r *Resource[T]) Begin(ctx context.Context) (context.Context, uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cancel != nil {
		r.cancel()
	}
	fetchCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.seq++
	r.loading = true
	r.err = nil
	return fetchCtx, r.seq
}

// Resolve commits fetched data. It returns false when the token is stale,
// in which case nothing changes.
func (r *Resource[T]) Resolve(seq uint64, data T) bool {
	return r.ResolvePage(seq, data, Pagination{})
}

// ResolvePage commits fetched data together with server pagination.
func (r *Resource[T]) ResolvePage(seq uint64, data T, p Pagination) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if seq != r.seq {
		return false
	}
	r.data = data
	r.hasData = true
	r.loading = false
	r.err = nil
	r.pagination = p
	r.cancel = nil
	return true
}

// Reject records a fetch failure. Previously committed data stays visible.
// It returns false when the token is stale.
func (r *Resource[T]) Reject(seq uint64, err error) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if seq != r.seq {
		return false
	}
	r.loading = false
	r.err = err
	r.cancel = nil
	return true
}

// Reset drops all state, including any in-flight fetch.
func (r *Resource[T]) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	var zero T
	r.data = zero
	r.hasData = false
	r.loading = false
	r.err = nil
	r.seq++
	r.pagination = Pagination{}
}

// Snapshot returns a copy of the current state.
func (r *Resource[T]) Snapshot() View[T] {
	r.mu.Lock()
	defer r.mu.Unlock()

	return View[T]{
		Data:       r.data,
		HasData:    r.hasData,
		Loading:    r.loading,
		Err:        r.err,
		Pagination: r.pagination,
	}
}
