package devapi

import (
	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/otpverify/internal/devapi/inbound"
	"github.com/shandysiswandi/otpverify/internal/devapi/outbound/cache"
	"github.com/shandysiswandi/otpverify/internal/devapi/outbound/email"
	"github.com/shandysiswandi/otpverify/internal/devapi/usecase"
	"github.com/shandysiswandi/otpverify/internal/pkg/config"
	"github.com/shandysiswandi/otpverify/internal/pkg/goroutine"
	"github.com/shandysiswandi/otpverify/internal/pkg/hash"
	"github.com/shandysiswandi/otpverify/internal/pkg/idempotency"
	"github.com/shandysiswandi/otpverify/internal/pkg/instrument"
	"github.com/shandysiswandi/otpverify/internal/pkg/mail"
	"github.com/shandysiswandi/otpverify/internal/pkg/otp"
	"github.com/shandysiswandi/otpverify/internal/pkg/router"
	"github.com/shandysiswandi/otpverify/internal/pkg/validator"
)

type Dependency struct {
	CacheConn   *redis.Client              `validate:"required"`
	Idempotency idempotency.Idempotency    `validate:"required"`
	Mail        mail.Mail                  `validate:"required"`
	Goroutine   *goroutine.Manager         `validate:"required"`
	Router      *router.Router             `validate:"required"`
	Config      config.Config              `validate:"required"`
	Instrument  instrument.Instrumentation `validate:"required"`
	HMAC        hash.Hash                  `validate:"required"`
	OTP         otp.Generator              `validate:"required"`
	Validator   validator.Validator        `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	uc := usecase.New(usecase.Dependency{
		RepoCache:   cache.New(dep.CacheConn, dep.Instrument),
		RepoMail:    email.New(dep.Mail, dep.Instrument),
		Idempotency: dep.Idempotency,
		Validator:   dep.Validator,
		Config:      dep.Config,
		HMAC:        dep.HMAC,
		OTP:         dep.OTP,
		Instrument:  dep.Instrument,
		Goroutine:   dep.Goroutine,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}
