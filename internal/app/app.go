package app

import (
	"context"
	"net/http"

	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/otpverify/internal/pkg/clock"
	"github.com/shandysiswandi/otpverify/internal/pkg/config"
	"github.com/shandysiswandi/otpverify/internal/pkg/goroutine"
	"github.com/shandysiswandi/otpverify/internal/pkg/hash"
	"github.com/shandysiswandi/otpverify/internal/pkg/idempotency"
	"github.com/shandysiswandi/otpverify/internal/pkg/instrument"
	"github.com/shandysiswandi/otpverify/internal/pkg/mail"
	"github.com/shandysiswandi/otpverify/internal/pkg/otp"
	"github.com/shandysiswandi/otpverify/internal/pkg/router"
	"github.com/shandysiswandi/otpverify/internal/pkg/uid"
	"github.com/shandysiswandi/otpverify/internal/pkg/validator"
)

// App wires dependencies and manages service lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config config.Config
	ins    instrument.Instrumentation

	// libraries
	goroutine *goroutine.Manager
	validator validator.Validator
	clock     clock.Clocker
	hmac      hash.Hash
	uuid      uid.StringID
	hotp      otp.Generator

	// resources
	cacheConn *redis.Client
	idemp     idempotency.Idempotency
	mail      mail.Mail

	// server
	router     *router.Router
	httpServer *http.Server
	sseServer  *http.Server

	//
	closers []struct {
		name string
		fn   func(context.Context) error
	}
}

// New initializes the application with default wiring and returns an App instance.
func New() *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initInstrument()
	app.initLibraries()
	app.initCache()
	app.initMail()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
