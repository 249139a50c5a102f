package chart

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/waterwatch/dashboard/internal/backend"
	"github.com/waterwatch/dashboard/internal/models"
)

// Binder owns the live data binding of one panel: it fetches series for the
// panel's targets, keeps the latest chart-ready datasets, and re-fetches on
// a timer while the refresh interval is positive.
//
// In-flight fetches are not deduplicated or cancelled: a fast settings
// change can leave overlapping requests whose responses land out of order,
// and the last one to resolve wins.
type Binder struct {
	api   backend.API
	token string

	mu        sync.Mutex
	panel     models.Panel
	timeRange models.TimeRange
	interval  int
	options   models.DashboardOptions
	datasets  []models.Dataset
	loading   bool
	lastError error

	sched *Scheduler
}

// NewBinder creates an idle binder for one panel.
func NewBinder(api backend.API, token string) *Binder {
	b := &Binder{api: api, token: token}
	b.sched = NewScheduler(func() { b.fetch() })
	return b
}

// Bind applies the panel settings and performs an immediate fetch. The
// polling timer is torn down and recreated on every call, so whatever the
// previous settings were, afterwards there is exactly one timer (or none
// when the interval is zero) running against the new ones.
func (b *Binder) Bind(panel models.Panel, tr models.TimeRange, intervalSeconds int, opts models.DashboardOptions) {
	b.mu.Lock()
	b.panel = panel
	b.timeRange = tr
	b.interval = intervalSeconds
	b.options = opts
	b.mu.Unlock()

	b.fetch()
	b.sched.Reset(time.Duration(intervalSeconds) * time.Second)
}

// Refresh forces an immediate re-fetch with the current settings, without
// touching the timer. Used for the manual "reload now" action.
func (b *Binder) Refresh() {
	b.fetch()
}

// fetch performs one round trip and swaps in the bound datasets. A missing
// time range aborts quietly and keeps the previous datasets on screen.
func (b *Binder) fetch() {
	b.mu.Lock()
	panel := b.panel
	tr := b.timeRange
	interval := b.interval
	opts := b.options
	b.loading = true
	b.mu.Unlock()

	defer func() {
		b.mu.Lock()
		b.loading = false
		b.mu.Unlock()
	}()

	req, err := BuildSeriesRequest(&panel, tr, interval, opts, time.Now())
	if err != nil {
		fmt.Printf("[Chart %s] skipping fetch: %v\n", panel.ID, err)
		return
	}

	resp, err := b.api.QuerySeries(context.Background(), b.token, req)
	if err != nil {
		b.mu.Lock()
		b.lastError = err
		b.mu.Unlock()
		fmt.Printf("[Chart %s] series fetch failed: %v\n", panel.ID, err)
		return
	}

	bound := BindResponse(&panel, resp)

	b.mu.Lock()
	b.datasets = bound
	b.lastError = nil
	b.mu.Unlock()
}

// Datasets returns the latest bound datasets and whether a fetch is in
// flight.
func (b *Binder) Datasets() ([]models.Dataset, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.datasets, b.loading
}

// LastError returns the error of the most recent failed fetch, cleared on
// the next success.
func (b *Binder) LastError() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastError
}

// Polling reports whether the refresh timer is live.
func (b *Binder) Polling() bool {
	return b.sched.Running()
}

// Close stops the refresh timer. A response already in flight may still
// resolve afterwards and overwrite the datasets once; that is harmless for
// a closed binder.
func (b *Binder) Close() {
	b.sched.Stop()
}
