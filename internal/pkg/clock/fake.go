package clock

import (
	"sync"
	"time"
)

// Fake is a deterministic Clocker. Tickers it creates only fire when Tick is called.
type Fake struct {
	mu      sync.Mutex
	now     time.Time
	tickers []*FakeTicker
}

// NewFake returns a Fake clock frozen at start.
func NewFake(start time.Time) *Fake {
	return &Fake{now: start}
}

// Now returns the frozen time.
func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// Advance moves the frozen time forward without firing tickers.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

// NewTicker registers a manual ticker.
func (f *Fake) NewTicker(time.Duration) Ticker {
	f.mu.Lock()
	defer f.mu.Unlock()

	t := &FakeTicker{c: make(chan time.Time)}
	f.tickers = append(f.tickers, t)
	return t
}

// Tickers returns every ticker created so far, stopped ones included.
func (f *Fake) Tickers() []*FakeTicker {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*FakeTicker(nil), f.tickers...)
}

// Active returns the tickers that have not been stopped.
func (f *Fake) Active() []*FakeTicker {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*FakeTicker
	for _, t := range f.tickers {
		if !t.Stopped() {
			out = append(out, t)
		}
	}
	return out
}

// FakeTicker is a Ticker driven by hand.
type FakeTicker struct {
	mu      sync.Mutex
	c       chan time.Time
	stopped bool
}

// C returns the tick channel.
func (t *FakeTicker) C() <-chan time.Time { return t.c }

// Stop marks the ticker stopped. Pending Fire calls give up.
func (t *FakeTicker) Stop() {
	t.mu.Lock()
	t.stopped = true
	t.mu.Unlock()
}

// Stopped reports whether Stop was called.
func (t *FakeTicker) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

// Fire delivers one tick and blocks until a receiver takes it or the timeout elapses.
// It reports whether the tick was delivered.
func (t *FakeTicker) Fire(timeout time.Duration) bool {
	if t.Stopped() {
		return false
	}

	select {
	case t.c <- time.Now():
		return true
	case <-time.After(timeout):
		return false
	}
}
