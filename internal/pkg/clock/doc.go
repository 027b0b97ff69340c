// Package clock provides a tiny time abstraction.
//
// Production code should depend on the Clocker interface instead of calling
// time.Now() or time.NewTicker() directly. This makes business logic easier to
// test because you can swap in the Fake clock, whose tickers only fire when a
// test tells them to.
package clock
