package app

import (
	"log/slog"
	"os"

	"github.com/shandysiswandi/otpverify/internal/devapi"
	"github.com/shandysiswandi/otpverify/internal/verification"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.verification.enabled") {
		if err := verification.New(verification.Dependency{
			Ctx:        a.ctx,
			Config:     a.config,
			Instrument: a.ins,
			Clock:      a.clock,
			UUID:       a.uuid,
			Validator:  a.validator,
			Router:     a.router,
			Goroutine:  a.goroutine,
		}); err != nil {
			slog.Error("failed to init module verification", "error", err)
			os.Exit(1)
		}
	}

	if a.config.GetBool("modules.devapi.enabled") {
		if err := devapi.New(devapi.Dependency{
			CacheConn:   a.cacheConn,
			Idempotency: a.idemp,
			Mail:        a.mail,
			Goroutine:   a.goroutine,
			Router:      a.router,
			Config:      a.config,
			Instrument:  a.ins,
			HMAC:        a.hmac,
			OTP:         a.hotp,
			Validator:   a.validator,
		}); err != nil {
			slog.Error("failed to init module devapi", "error", err)
			os.Exit(1)
		}
	}
}
