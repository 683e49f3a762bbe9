// Package health runs background reachability checks and reports transitions.
// The storefront uses it to drive its online/offline indicator: a check that
// pings the remote API fails a few times in a row before the UI flips to
// offline, and recovers after a configurable success streak, so a single
// dropped request never flaps the indicator.
package health

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// CheckFunc probes one dependency. It returns nil when the dependency is
// reachable, or an error describing the problem.
type CheckFunc func(ctx context.Context) error

// Status is a point-in-time result for a named check.
type Status struct {
	Name    string
	Healthy bool
	Err     error
}

// check holds configuration and runtime state for a single registered check.
//
// run() is called from exactly one goroutine (the ticker), so the streak
// counters need no synchronization. The healthy flag and last error are read
// from arbitrary goroutines and use atomics.
type check struct {
	name             string
	timeout          time.Duration
	fn               CheckFunc
	failureThreshold int
	successThreshold int

	healthy atomic.Bool
	lastErr atomic.Pointer[error]

	consecutiveFails int
	consecutiveOK    int
}

func (c *check) run(ctx context.Context) (flipped bool) {
	checkCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	err := c.fn(checkCtx)
	c.lastErr.Store(&err)

	was := c.healthy.Load()
	if err != nil {
		c.consecutiveOK = 0
		c.consecutiveFails++
		if c.consecutiveFails >= c.failureThreshold {
			c.healthy.Store(false)
		}
	} else {
		c.consecutiveFails = 0
		c.consecutiveOK++
		if c.consecutiveOK >= c.successThreshold {
			c.healthy.Store(true)
		}
	}
	return c.healthy.Load() != was
}

// Monitor owns a set of checks and notifies subscribers when any check
// changes health state.
type Monitor struct {
	mu     sync.RWMutex
	checks []*check
	subs   []chan Status
	cancel context.CancelFunc
}

// NewMonitor creates an empty Monitor.
func NewMonitor() *Monitor {
	return &Monitor{}
}

// AddCheck registers a named check. Checks start healthy and must fail
// failureThreshold consecutive probes before being marked unhealthy; they
// recover after successThreshold consecutive passes.
func (m *Monitor) AddCheck(name string, timeout time.Duration, fn CheckFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := &check{
		name:             name,
		timeout:          timeout,
		fn:               fn,
		failureThreshold: 3,
		successThreshold: 1,
	}
	c.healthy.Store(true)
	m.checks = append(m.checks, c)
}

// Subscribe returns a channel receiving a Status every time a check flips
// between healthy and unhealthy. Slow subscribers miss updates rather than
// blocking the probe loop.
func (m *Monitor) Subscribe() <-chan Status {
	ch := make(chan Status, 4)
	m.mu.Lock()
	m.subs = append(m.subs, ch)
	m.mu.Unlock()
	return ch
}

// Healthy reports whether every registered check is currently healthy.
func (m *Monitor) Healthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.checks {
		if !c.healthy.Load() {
			return false
		}
	}
	return true
}

// Start launches one goroutine per check, probing at the given interval
// until the context is cancelled or Stop is called.
func (m *Monitor) Start(ctx context.Context, interval time.Duration) {
	m.mu.Lock()
	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	checks := make([]*check, len(m.checks))
	copy(checks, m.checks)
	m.mu.Unlock()

	for _, c := range checks {
		go m.probeLoop(runCtx, c, interval)
	}
}

// Stop cancels all probe goroutines.
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

func (m *Monitor) probeLoop(ctx context.Context, c *check, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	m.runOnce(ctx, c)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.runOnce(ctx, c)
		}
	}
}

func (m *Monitor) runOnce(ctx context.Context, c *check) {
	if !c.run(ctx) {
		return
	}

	var errVal error
	if p := c.lastErr.Load(); p != nil {
		errVal = *p
	}
	st := Status{Name: c.name, Healthy: c.healthy.Load(), Err: errVal}

	m.mu.RLock()
	subs := make([]chan Status, len(m.subs))
	copy(subs, m.subs)
	m.mu.RUnlock()

	for _, ch := range subs {
		select {
		case ch <- st:
		default:
		}
	}
}
