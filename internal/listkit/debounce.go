package listkit

import (
	"sync"
	"time"
)

// Debouncer coalesces rapid calls into a single dispatch after a quiet
// interval. Each call restarts the timer; only the last function runs.
type Debouncer struct {
	mu       sync.Mutex
	interval time.Duration
	timer    *time.Timer
}

// NewDebouncer builds a debouncer with the given quiet interval.
func NewDebouncer(interval time.Duration) *Debouncer {
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	return &Debouncer{interval: interval}
}

// Do schedules fn to run after the interval, replacing any pending call.
func (d *Debouncer) Do(fn func()) {
	if fn == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, fn)
}

// Stop cancels any pending dispatch.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
