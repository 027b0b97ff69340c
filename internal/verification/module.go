package verification

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/otpverify/internal/pkg/clock"
	"github.com/shandysiswandi/otpverify/internal/pkg/config"
	"github.com/shandysiswandi/otpverify/internal/pkg/goroutine"
	"github.com/shandysiswandi/otpverify/internal/pkg/instrument"
	"github.com/shandysiswandi/otpverify/internal/pkg/router"
	"github.com/shandysiswandi/otpverify/internal/pkg/uid"
	"github.com/shandysiswandi/otpverify/internal/pkg/validator"
	"github.com/shandysiswandi/otpverify/internal/verification/inbound"
	"github.com/shandysiswandi/otpverify/internal/verification/outbound/otpapi"
	"github.com/shandysiswandi/otpverify/internal/verification/usecase"
)

type Dependency struct {
	Ctx        context.Context            `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	UUID       uid.StringID               `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
	Router     *router.Router             `validate:"required"`
	Goroutine  *goroutine.Manager         `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	api, err := otpapi.New(otpapi.Config{
		BaseURL: dep.Config.GetString("verification.api.base_url"),
		Timeout: dep.Config.GetSecond("verification.api.timeout_seconds"),
	}, dep.Instrument)
	if err != nil {
		return err
	}

	uc := usecase.NewUsecase(usecase.Dependency{
		API:        api,
		Config:     dep.Config,
		Clock:      dep.Clock,
		UUID:       dep.UUID,
		Validator:  dep.Validator,
		Instrument: dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc, dep.Config.GetString("verification.stream_base_url"))

	// sessions are closed when the app context ends so open streams return
	// before the servers shut down.
	started := dep.Goroutine.Go(dep.Ctx, func(ctx context.Context) error {
		defer uc.Close()
		return uc.RunReaper(ctx)
	})
	if !started {
		slog.WarnContext(dep.Ctx, "verification session reaper not started")
	}

	return nil
}
