package timex

import (
	"sync"
	"time"
)

// Clock abstracts wall-clock reads and ticker creation.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// NewTicker returns a Ticker firing every d.
	NewTicker(d time.Duration) Ticker
}

// Ticker is the minimal surface of time.Ticker the project needs.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type systemClock struct{}

// NewSystemClock returns a Clock backed by the time package.
func NewSystemClock() Clock { return systemClock{} }

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) NewTicker(d time.Duration) Ticker {
	return &systemTicker{t: time.NewTicker(d)}
}

type systemTicker struct {
	t *time.Ticker
}

func (s *systemTicker) C() <-chan time.Time { return s.t.C }

func (s *systemTicker) Stop() { s.t.Stop() }

// ManualClock is a Clock for tests: time moves only via Advance. Due
// tickers fire with the same coalescing as time.Ticker — a slow receiver
// sees at most one buffered tick.
type ManualClock struct {
	mu      sync.Mutex
	cond    *sync.Cond
	now     time.Time
	tickers []*manualTicker
}

// NewManualClock returns a ManualClock positioned at start.
func NewManualClock(start time.Time) *ManualClock {
	c := &ManualClock{now: start}
	c.cond = sync.NewCond(&c.mu)
	return c
}

func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *ManualClock) NewTicker(d time.Duration) Ticker {
	if d <= 0 {
		panic("timex: non-positive ticker interval")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTicker{
		clock:    c,
		ch:       make(chan time.Time, 1),
		interval: d,
		next:     c.now.Add(d),
	}
	c.tickers = append(c.tickers, t)
	c.cond.Broadcast()
	return t
}

// BlockUntil returns once at least n tickers have been created on this
// clock, stopped ones included. Tests use it to order an Advance after the
// goroutine under test has installed its ticker.
func (c *ManualClock) BlockUntil(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for len(c.tickers) < n {
		c.cond.Wait()
	}
}

// Advance moves the clock forward by d and fires every due ticker once per
// elapsed interval.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	for _, t := range c.tickers {
		if t.stopped {
			continue
		}
		for !t.next.After(c.now) {
			select {
			case t.ch <- t.next:
			default:
			}
			t.next = t.next.Add(t.interval)
		}
	}
}

type manualTicker struct {
	clock    *ManualClock
	ch       chan time.Time
	interval time.Duration
	next     time.Time
	stopped  bool
}

func (t *manualTicker) C() <-chan time.Time { return t.ch }

func (t *manualTicker) Stop() {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	t.stopped = true
}
