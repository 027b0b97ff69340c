package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/shandysiswandi/otpverify/internal/verification/entity"
)

type subscriber struct {
	ch chan entity.Instruction
}

// Subscribe returns the current view and a channel carrying every
// instruction rendered after it. The channel is closed when ctx ends, the
// session closes, or the subscriber falls too far behind; a client that sees
// it close should resubscribe and start again from the new view.
func (c *Controller) Subscribe(ctx context.Context) (entity.View, <-chan entity.Instruction, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return entity.View{}, nil, errSessionNotFound
	}

	sub := &subscriber{ch: make(chan entity.Instruction, c.cfg.buffer)}
	c.subs[sub] = struct{}{}
	c.lastSeen = c.cfg.clock.Now()

	go func() {
		<-ctx.Done()
		c.unsubscribe(sub)
	}()

	return c.sess.View(), sub.ch, nil
}

func (c *Controller) unsubscribe(sub *subscriber) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.subs[sub]; ok {
		delete(c.subs, sub)
		close(sub.ch)
	}
	c.lastSeen = c.cfg.clock.Now()
}

// publish fans ins out without blocking. Caller holds c.mu.
func (c *Controller) publish(ins entity.Instruction) {
	for sub := range c.subs {
		select {
		case sub.ch <- ins:
		default:
			slog.Warn("dropping lagging verification subscriber", "session_id", c.sess.ID, "kind", ins.Kind)
			delete(c.subs, sub)
			close(sub.ch)
		}
	}
}

func (c *Controller) subscribers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.subs)
}

// idleSince reports when the session was last used, and false while a stream is attached.
func (c *Controller) idleSince() (lastSeen time.Time, idle bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastSeen, len(c.subs) == 0 && c.sess.Loading == 0
}
