package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/shandysiswandi/otpverify/internal/pkg/clock"
	"github.com/shandysiswandi/otpverify/internal/pkg/validator"
	"github.com/shandysiswandi/otpverify/internal/verification/entity"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type requestCodeInput struct {
	Email string `validate:"required,otpemail"`
}

type verifyCodeInput struct {
	OTPCode string `validate:"len=6"`
}

type controllerConfig struct {
	api       otpAPI
	clock     clock.Clocker
	validator validator.Validator
	tracer    trace.Tracer
	stats     *stats
	codeTTL   int
	shake     time.Duration
	buffer    int
}

// Controller owns one wizard session. All state changes happen under mu;
// API calls run with mu released and their results are applied only if the
// session epoch is unchanged.
type Controller struct {
	cfg controllerConfig

	mu        sync.Mutex
	sess      *entity.Session
	closed    bool
	lastSeen  time.Time
	countdown countdownTask
	subs      map[*subscriber]struct{}
}

func newController(id string, cfg controllerConfig) *Controller {
	sess := entity.NewSession(id)
	// idle display shows the full code lifetime until a countdown starts.
	sess.Remaining = cfg.codeTTL

	return &Controller{
		cfg:      cfg,
		sess:     sess,
		lastSeen: cfg.clock.Now(),
		subs:     make(map[*subscriber]struct{}),
	}
}

// ID returns the session id.
func (c *Controller) ID() string { return c.sess.ID }

// View returns a snapshot of the session.
func (c *Controller) View() entity.View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sess.View()
}

// Close stops the countdown and ends every subscription. Later operations
// fail with a not found error.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	c.stopCountdown()
	for sub := range c.subs {
		delete(c.subs, sub)
		close(sub.ch)
	}
}

func (c *Controller) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return c.cfg.tracer.Start(ctx, name, trace.WithAttributes(attribute.String("session.id", c.sess.ID)))
}

// enter locks the controller and checks the session is open and at step.
// On error the lock is released.
func (c *Controller) enter(op string, step entity.Step) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return errSessionNotFound
	}
	c.lastSeen = c.cfg.clock.Now()
	if c.sess.Step != step {
		current := c.sess.Step
		c.mu.Unlock()
		return wrongStep(op, current)
	}
	return nil
}

// render forwards instructions to subscribers in order.
func (c *Controller) render(ins ...entity.Instruction) {
	for _, in := range ins {
		c.publish(in)
	}
}

func (c *Controller) setFieldError(field entity.Field, kind entity.ErrorKind, msg string) {
	fe := entity.FieldError{Kind: kind, Message: msg}
	if kind == entity.ErrorKindNone {
		fe = entity.FieldError{}
	}
	if c.sess.Errors[field] == fe {
		return
	}
	if fe == (entity.FieldError{}) {
		delete(c.sess.Errors, field)
	} else {
		c.sess.Errors[field] = fe
	}
	c.render(entity.SetFieldError(field, fe))
}

func (c *Controller) clearFieldError(field entity.Field) {
	c.setFieldError(field, entity.ErrorKindNone, "")
}

func (c *Controller) focus(field entity.Field, slot int) {
	c.sess.Focus = entity.FocusTarget{Field: field, Slot: slot}
	c.render(entity.Focus(c.sess.Focus))
}

func (c *Controller) showStep(step entity.Step) {
	c.sess.SetStep(step)
	c.render(entity.ShowStep(step))
}

// beginCall marks op in flight and raises the loading overlay. It returns the
// epoch the response must match.
func (c *Controller) beginCall(op entity.Operation) uint64 {
	c.sess.InFlight[op] = true
	c.sess.Loading++
	if c.sess.Loading == 1 {
		c.render(entity.Loading(true))
	}
	return c.sess.Epoch
}

// endCall reverses beginCall and reports whether the response is still current.
func (c *Controller) endCall(ctx context.Context, op entity.Operation, epoch uint64) bool {
	delete(c.sess.InFlight, op)
	c.sess.Loading--
	if c.sess.Loading == 0 && !c.closed {
		c.render(entity.Loading(false))
	}

	if c.closed || c.sess.Epoch != epoch {
		slog.WarnContext(ctx, "discarding stale otp api response",
			"session_id", c.sess.ID,
			"operation", op,
			"issued_epoch", epoch,
			"current_epoch", c.sess.Epoch,
		)
		c.cfg.stats.outcome(ctx, op, entity.OutcomeStale)
		return false
	}
	return true
}

// detach keeps the outbound call alive when the triggering HTTP request goes away.
func detach(ctx context.Context) context.Context {
	return context.WithoutCancel(ctx)
}
