// Package goroutine runs background work with a concurrency cap, panic
// recovery, and a single place to wait for everything on shutdown.
package goroutine

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"runtime/debug"
	"sync"

	"github.com/shandysiswandi/otpverify/internal/pkg/stacktrace"
	"go.uber.org/atomic"
)

// DefaultMaxGoroutine is multiplied by NumCPU when NewManager receives a non-positive limit.
const DefaultMaxGoroutine int = 100

// ErrPanic is recorded when a task panics.
var ErrPanic = errors.New("goroutine panicked")

// Manager runs functions in goroutines with a configurable concurrency limit.
type Manager struct {
	wg     sync.WaitGroup
	sema   chan struct{}
	gate   sync.RWMutex
	closed atomic.Bool
	active atomic.Int64

	mu   sync.Mutex
	errs []error
}

// NewManager creates a new Manager with the provided maximum concurrency.
func NewManager(maxGoroutine int) *Manager {
	if maxGoroutine < 1 {
		maxGoroutine = runtime.NumCPU() * DefaultMaxGoroutine
	}

	return &Manager{sema: make(chan struct{}, maxGoroutine)}
}

// Go schedules f and reports whether it was started. It is not started when
// the manager is closed or already at its limit.
func (g *Manager) Go(ctx context.Context, f func(ctx context.Context) error) bool {
	if g == nil {
		return false
	}

	g.gate.RLock()
	defer g.gate.RUnlock()

	if g.closed.Load() {
		slog.WarnContext(ctx, "goroutine manager is closed, skipping new goroutine")
		return false
	}

	select {
	case g.sema <- struct{}{}:
	default:
		slog.WarnContext(ctx, "maximum goroutine limit reached, failed to start new goroutine")
		return false
	}

	g.wg.Add(1)
	g.active.Inc()
	go func() {
		defer func() {
			if rvr := recover(); rvr != nil {
				stack := debug.Stack()
				if paths := stacktrace.InternalPaths(stack); len(paths) > 0 {
					slog.ErrorContext(ctx, "panic occurred in goroutine", "because", rvr, "stack", paths)
				} else {
					slog.ErrorContext(ctx, "panic occurred in goroutine", "because", rvr, "stack", string(stack))
				}
				g.record(ErrPanic)
			}
			g.active.Dec()
			<-g.sema
			g.wg.Done()
		}()

		if err := ctx.Err(); err != nil {
			slog.WarnContext(ctx, "goroutine canceled before start", "because", err)
			return
		}
		if err := f(ctx); err != nil {
			g.record(err)
		}
	}()

	return true
}

// Active returns the number of running tasks.
func (g *Manager) Active() int64 {
	if g == nil {
		return 0
	}
	return g.active.Load()
}

// Wait closes the manager to new work, blocks until running tasks finish,
// and returns their joined errors.
func (g *Manager) Wait() error {
	if g == nil {
		return nil
	}

	g.gate.Lock()
	g.closed.Store(true)
	g.gate.Unlock()

	g.wg.Wait()

	g.mu.Lock()
	defer g.mu.Unlock()
	return errors.Join(g.errs...)
}

func (g *Manager) record(err error) {
	g.mu.Lock()
	g.errs = append(g.errs, err)
	g.mu.Unlock()
}
