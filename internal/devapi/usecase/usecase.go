package usecase

import (
	"context"
	"time"

	"github.com/shandysiswandi/otpverify/internal/pkg/config"
	"github.com/shandysiswandi/otpverify/internal/pkg/goroutine"
	"github.com/shandysiswandi/otpverify/internal/pkg/hash"
	"github.com/shandysiswandi/otpverify/internal/pkg/idempotency"
	"github.com/shandysiswandi/otpverify/internal/pkg/instrument"
	"github.com/shandysiswandi/otpverify/internal/pkg/otp"
	"github.com/shandysiswandi/otpverify/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultCodeTTLSeconds = 600
	defaultMaxAttempts    = 5
)

type repoCache interface {
	SaveCode(ctx context.Context, email string, hash []byte, ttl time.Duration) error
	ConsumeCode(ctx context.Context, email string, hash []byte, maxAttempts int) error
}

type repoMail interface {
	SendCode(ctx context.Context, email, code string, validMinutes int) error
}

type Usecase struct {
	repoCache   repoCache
	repoMail    repoMail
	idemp       idempotency.Idempotency
	validator   validator.Validator
	hmac        hash.Hash
	otp         otp.Generator
	ins         instrument.Instrumentation
	goroutine   *goroutine.Manager
	codeTTL     time.Duration
	cooldown    time.Duration
	maxAttempts int
}

type Dependency struct {
	RepoCache   repoCache
	RepoMail    repoMail
	Idempotency idempotency.Idempotency
	Validator   validator.Validator
	Config      config.Config
	HMAC        hash.Hash
	OTP         otp.Generator
	Instrument  instrument.Instrumentation
	Goroutine   *goroutine.Manager
}

func New(dep Dependency) *Usecase {
	codeTTL := dep.Config.GetSecond("devapi.code_ttl_seconds")
	if codeTTL <= 0 {
		codeTTL = defaultCodeTTLSeconds * time.Second
	}
	maxAttempts := dep.Config.GetInt("devapi.max_attempts")
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}

	return &Usecase{
		repoCache:   dep.RepoCache,
		repoMail:    dep.RepoMail,
		idemp:       dep.Idempotency,
		validator:   dep.Validator,
		hmac:        dep.HMAC,
		otp:         dep.OTP,
		ins:         dep.Instrument,
		goroutine:   dep.Goroutine,
		codeTTL:     codeTTL,
		cooldown:    dep.Config.GetSecond("devapi.resend_cooldown_seconds"),
		maxAttempts: maxAttempts,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("devapi.usecase").Start(ctx, name)
}
