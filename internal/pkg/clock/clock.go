package clock

import "time"

// Clocker abstracts time so callers can replace real time in tests.
type Clocker interface {
	Now() time.Time
	// NewTicker returns a Ticker that delivers ticks every d until stopped.
	NewTicker(d time.Duration) Ticker
}

// Ticker is the subset of time.Ticker the application depends on.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TimeClocker is the production clock implementation backed by the time package.
type TimeClocker struct{}

// New returns a TimeClocker that reads the current system time.
func New() *TimeClocker {
	return &TimeClocker{}
}

// Now returns the current system time.
func (*TimeClocker) Now() time.Time {
	return time.Now()
}

// NewTicker wraps time.NewTicker.
func (*TimeClocker) NewTicker(d time.Duration) Ticker {
	return &timeTicker{t: time.NewTicker(d)}
}

type timeTicker struct {
	t *time.Ticker
}

func (t *timeTicker) C() <-chan time.Time { return t.t.C }

func (t *timeTicker) Stop() { t.t.Stop() }
