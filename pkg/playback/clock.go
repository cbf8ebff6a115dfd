package playback

import (
	"sync"
	"time"
)

// Clock schedules a repeating callback. The returned stop function cancels
// it and is safe to call more than once.
type Clock interface {
	Tick(d time.Duration, fn func()) (stop func())
}

// SystemClock ticks on a time.Ticker.
type SystemClock struct{}

// Tick starts a goroutine calling fn every d until stop is called.
func (SystemClock) Tick(d time.Duration, fn func()) func() {
	ticker := time.NewTicker(d)
	done := make(chan struct{})
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				fn()
			}
		}
	}()
	var once sync.Once
	return func() { once.Do(func() { close(done) }) }
}

// ManualClock fires ticks only when Advance is called. It is meant for tests
// and for deterministic stepping in headless tools.
type ManualClock struct {
	mu     sync.Mutex
	next   int
	active map[int]*manualTicker
}

type manualTicker struct {
	interval time.Duration
	elapsed  time.Duration
	fn       func()
}

// NewManualClock returns a clock with no active tickers.
func NewManualClock() *ManualClock {
	return &ManualClock{active: make(map[int]*manualTicker)}
}

// Tick registers fn to be called every d of advanced time.
func (c *ManualClock) Tick(d time.Duration, fn func()) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.next
	c.next++
	c.active[id] = &manualTicker{interval: d, fn: fn}
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.active, id)
	}
}

// Advance moves time forward by d, firing each active ticker once per
// elapsed interval. Callbacks run outside the clock lock so they may stop
// their own ticker.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	var due []func()
	for _, t := range c.active {
		t.elapsed += d
		for t.interval > 0 && t.elapsed >= t.interval {
			t.elapsed -= t.interval
			due = append(due, t.fn)
		}
	}
	c.mu.Unlock()

	for _, fn := range due {
		fn()
	}
}

// Active reports how many tickers are live.
func (c *ManualClock) Active() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.active)
}

// Interval returns the interval of the live ticker, or 0 when none is live.
// With several live tickers the result is any one of them.
func (c *ManualClock) Interval() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range c.active {
		return t.interval
	}
	return 0
}
