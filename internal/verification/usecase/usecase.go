package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/samber/lo"
	"github.com/shandysiswandi/otpverify/internal/pkg/clock"
	"github.com/shandysiswandi/otpverify/internal/pkg/config"
	"github.com/shandysiswandi/otpverify/internal/pkg/goerror"
	"github.com/shandysiswandi/otpverify/internal/pkg/instrument"
	"github.com/shandysiswandi/otpverify/internal/pkg/uid"
	"github.com/shandysiswandi/otpverify/internal/pkg/validator"
	"github.com/shandysiswandi/otpverify/internal/verification/entity"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/atomic"
)

const (
	defaultCodeTTLSeconds = 600
	defaultShakeMillis    = 500
	defaultIdleTTL        = 30 * time.Minute
	defaultMaxSessions    = 10000
	defaultStreamBuffer   = 64
)

var (
	errSessionNotFound  = goerror.NewBusiness("Verification session not found", goerror.CodeNotFound)
	errTooManySessions  = goerror.NewBusiness("Too many active verification sessions", goerror.CodeTooManyRequest)
	errBusy             = goerror.NewBusiness("The same request is already in progress", goerror.CodeConflict)
	errInvalidSlot      = goerror.NewInvalidInput(nil, "index", fmt.Sprintf("index must be between 0 and %d", entity.SlotCount-1))
	errInvalidSlotValue = goerror.NewInvalidInput(nil, "value", "value must be a single character")
)

func wrongStep(op string, step entity.Step) error {
	return goerror.NewBusiness(fmt.Sprintf("Cannot %s while at step %s", op, step), goerror.CodeConflict)
}

type otpAPI interface {
	Generate(ctx context.Context, email string) (entity.APIResult, error)
	Verify(ctx context.Context, email, otp string) (entity.APIResult, error)
}

type Dependency struct {
	API        otpAPI
	Config     config.Config
	Clock      clock.Clocker
	UUID       uid.StringID
	Validator  validator.Validator
	Instrument instrument.Instrumentation
}

// Usecase is the registry of live verification sessions.
type Usecase struct {
	uuid        uid.StringID
	clock       clock.Clocker
	ins         instrument.Instrumentation
	ctrl        controllerConfig
	idleTTL     time.Duration
	maxSessions int

	mu       sync.RWMutex
	sessions map[string]*Controller
	active   atomic.Int64
}

func NewUsecase(dep Dependency) *Usecase {
	codeTTL := dep.Config.GetInt("verification.code_ttl_seconds")
	if codeTTL <= 0 {
		codeTTL = defaultCodeTTLSeconds
	}
	shake := dep.Config.GetMillisecond("verification.shake_millis")
	if shake <= 0 {
		shake = defaultShakeMillis * time.Millisecond
	}
	idleTTL := dep.Config.GetSecond("verification.session.idle_ttl_seconds")
	if idleTTL <= 0 {
		idleTTL = defaultIdleTTL
	}
	maxSessions := dep.Config.GetInt("verification.session.max")
	if maxSessions <= 0 {
		maxSessions = defaultMaxSessions
	}

	return &Usecase{
		uuid:  dep.UUID,
		clock: dep.Clock,
		ins:   dep.Instrument,
		ctrl: controllerConfig{
			api:       dep.API,
			clock:     dep.Clock,
			validator: dep.Validator,
			tracer:    dep.Instrument.Tracer("verification.usecase"),
			stats:     newStats(dep.Instrument.Meter("verification.usecase")),
			codeTTL:   codeTTL,
			shake:     shake,
			buffer:    defaultStreamBuffer,
		},
		idleTTL:     idleTTL,
		maxSessions: maxSessions,
		sessions:    make(map[string]*Controller),
	}
}

// CreateSession starts a new wizard at the email step.
func (s *Usecase) CreateSession(ctx context.Context) (entity.View, error) {
	ctx, span := s.ins.Tracer("verification.usecase").Start(ctx, "CreateSession")
	defer span.End()

	s.mu.Lock()
	if len(s.sessions) >= s.maxSessions {
		s.mu.Unlock()
		slog.WarnContext(ctx, "verification session limit reached", "max", s.maxSessions)
		return entity.View{}, errTooManySessions
	}
	ctrl := newController(s.uuid.Generate(), s.ctrl)
	s.sessions[ctrl.ID()] = ctrl
	s.active.Inc()
	s.mu.Unlock()

	slog.InfoContext(ctx, "verification session created", "session_id", ctrl.ID())

	return ctrl.View(), nil
}

// Session returns the controller for id.
func (s *Usecase) Session(id string) (*Controller, error) {
	if !uid.Valid(id) {
		return nil, errSessionNotFound
	}

	s.mu.RLock()
	ctrl, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, errSessionNotFound
	}

	return ctrl, nil
}

// CloseSession stops and forgets the session.
func (s *Usecase) CloseSession(ctx context.Context, id string) error {
	if !uid.Valid(id) {
		return errSessionNotFound
	}

	s.mu.Lock()
	ctrl, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if !ok {
		return errSessionNotFound
	}

	ctrl.Close()
	s.active.Dec()
	slog.InfoContext(ctx, "verification session closed", "session_id", id)

	return nil
}

// ActiveSessions returns the number of open sessions.
func (s *Usecase) ActiveSessions() int64 {
	return s.active.Load()
}

// ReapIdle closes sessions without an attached stream that have not been
// used since before now minus the idle TTL. It returns the closed ids.
func (s *Usecase) ReapIdle(ctx context.Context, now time.Time) []string {
	cutoff := now.Add(-s.idleTTL)

	s.mu.RLock()
	stale := lo.Keys(lo.PickBy(s.sessions, func(_ string, ctrl *Controller) bool {
		seen, idle := ctrl.idleSince()
		return idle && seen.Before(cutoff)
	}))
	s.mu.RUnlock()

	closed := make([]string, 0, len(stale))
	for _, id := range stale {
		if err := s.CloseSession(ctx, id); err == nil {
			closed = append(closed, id)
		}
	}
	if len(closed) > 0 {
		slog.InfoContext(ctx, "reaped idle verification sessions", "count", len(closed))
	}

	return closed
}

// RunReaper calls ReapIdle on a ticker until ctx ends.
func (s *Usecase) RunReaper(ctx context.Context) error {
	ticker := s.clock.NewTicker(max(s.idleTTL/2, time.Second))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C():
			s.ReapIdle(ctx, s.clock.Now())
		}
	}
}

// Close ends every session.
func (s *Usecase) Close() error {
	s.mu.Lock()
	sessions := s.sessions
	s.sessions = make(map[string]*Controller)
	s.mu.Unlock()

	for _, ctrl := range sessions {
		ctrl.Close()
		s.active.Dec()
	}
	return nil
}

type stats struct {
	requests metric.Int64Counter
	outcomes metric.Int64Counter
}

func newStats(meter metric.Meter) *stats {
	requests, err := meter.Int64Counter("verification.requests", metric.WithDescription("OTP API calls issued by verification sessions"))
	if err != nil {
		slog.Error("failed to create verification request counter", "error", err)
	}
	outcomes, err := meter.Int64Counter("verification.outcomes", metric.WithDescription("Results of verification operations"))
	if err != nil {
		slog.Error("failed to create verification outcome counter", "error", err)
	}
	return &stats{requests: requests, outcomes: outcomes}
}

func (s *stats) request(ctx context.Context, op entity.Operation) {
	if s == nil || s.requests == nil {
		return
	}
	s.requests.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", string(op))))
}

func (s *stats) outcome(ctx context.Context, op entity.Operation, outcome entity.Outcome) {
	if s == nil || s.outcomes == nil {
		return
	}
	s.outcomes.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", string(op)),
		attribute.String("outcome", string(outcome)),
	))
}
