// Package chart turns a panel's target list into metric-series requests and
// chart-ready datasets, and re-fetches on a timer while the dashboard
// refresh interval is nonzero.
package chart

import (
	"sync"
	"time"
)

// Scheduler runs one task on a fixed period. It is the polling stand-in for
// server push: Start/Stop/Reset keep at most one ticker alive, so a
// parameter change can never leave a stale timer running against old
// settings.
type Scheduler struct {
	mu       sync.Mutex
	task     func()
	interval time.Duration
	ticker   *time.Ticker
	stop     chan struct{}
	running  bool
}

// NewScheduler creates a stopped scheduler for the given task.
func NewScheduler(task func()) *Scheduler {
	return &Scheduler{task: task}
}

// Start begins periodic execution. A non-positive interval leaves the
// scheduler stopped. Calling Start while running replaces the old timer.
func (s *Scheduler) Start(interval time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()
	if interval <= 0 {
		return
	}

	s.interval = interval
	s.ticker = time.NewTicker(interval)
	s.stop = make(chan struct{})
	s.running = true

	go s.run(s.ticker, s.stop)
}

func (s *Scheduler) run(ticker *time.Ticker, stop chan struct{}) {
	for {
		select {
		case <-ticker.C:
			s.task()
		case <-stop:
			return
		}
	}
}

// Stop tears the timer down. Safe to call on a stopped scheduler.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *Scheduler) stopLocked() {
	if !s.running {
		return
	}
	s.ticker.Stop()
	close(s.stop)
	s.ticker = nil
	s.stop = nil
	s.running = false
}

// Reset replaces the current timer with one on the new interval. Interval
// zero stops polling entirely.
func (s *Scheduler) Reset(interval time.Duration) {
	s.Start(interval)
}

// Running reports whether a timer is currently live.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
