package usecase

import (
	"context"
	"time"

	"github.com/shandysiswandi/otpverify/internal/pkg/clock"
	"github.com/shandysiswandi/otpverify/internal/verification/entity"
)

// countdownTask is the handle of the single live countdown. gen identifies
// the current run; ticks carrying another gen are ignored.
type countdownTask struct {
	gen    uint64
	cancel context.CancelFunc
	ticker clock.Ticker
}

// startCountdown replaces any running countdown with a fresh one of
// codeTTL seconds and renders it immediately. Caller holds c.mu.
func (c *Controller) startCountdown() {
	c.stopCountdown()

	c.countdown.gen++
	gen := c.countdown.gen

	c.sess.Remaining = c.cfg.codeTTL
	c.sess.CountdownActive = true
	c.render(entity.Countdown(c.sess.Remaining))

	ctx, cancel := context.WithCancel(context.Background())
	ticker := c.cfg.clock.NewTicker(time.Second)
	c.countdown.cancel = cancel
	c.countdown.ticker = ticker

	go c.runCountdown(ctx, gen, ticker)
}

// stopCountdown cancels the live countdown, if any. Caller holds c.mu.
func (c *Controller) stopCountdown() {
	if c.countdown.cancel != nil {
		c.countdown.cancel()
		c.countdown.ticker.Stop()
		c.countdown.cancel = nil
		c.countdown.ticker = nil
	}
	c.sess.CountdownActive = false
}

func (c *Controller) runCountdown(ctx context.Context, gen uint64, ticker clock.Ticker) {
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			if !c.tick(gen) {
				return
			}
		}
	}
}

// tick decrements the countdown of run gen and reports whether it should keep running.
func (c *Controller) tick(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || gen != c.countdown.gen || !c.sess.CountdownActive {
		return false
	}

	c.sess.Remaining--
	c.render(entity.Countdown(c.sess.Remaining))

	if c.sess.Remaining > 0 {
		return true
	}

	c.stopCountdown()
	c.setFieldError(entity.FieldOTP, entity.ErrorKindCodeExpired, entity.MsgCodeExpired)
	return false
}
