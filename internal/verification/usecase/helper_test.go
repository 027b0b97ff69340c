package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shandysiswandi/otpverify/internal/pkg/clock"
	"github.com/shandysiswandi/otpverify/internal/pkg/config"
	"github.com/shandysiswandi/otpverify/internal/pkg/instrument"
	"github.com/shandysiswandi/otpverify/internal/pkg/uid"
	"github.com/shandysiswandi/otpverify/internal/pkg/validator"
	"github.com/shandysiswandi/otpverify/internal/verification/entity"
	"github.com/stretchr/testify/require"
)

const testConfig = `
verification:
  code_ttl_seconds: 600
  shake_millis: 500
  session:
    max: 3
    idle_ttl_seconds: 60
`

var errDial = errors.New("dial tcp: connection refused")

type verifyCall struct {
	email string
	otp   string
}

// fakeAPI records calls. When hold is set every call announces itself on
// entered and then waits for hold to be closed.
type fakeAPI struct {
	mu        sync.Mutex
	generated []string
	verified  []verifyCall

	genRes entity.APIResult
	genErr error
	verRes entity.APIResult
	verErr error

	hold    chan struct{}
	entered chan struct{}
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		genRes: entity.APIResult{Success: true, Message: "OTP sent"},
		verRes: entity.APIResult{Success: true, Message: "Verified"},
	}
}

func (f *fakeAPI) holdCalls() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hold = make(chan struct{})
	f.entered = make(chan struct{}, 8)
}

func (f *fakeAPI) wait() {
	f.mu.Lock()
	hold, entered := f.hold, f.entered
	f.mu.Unlock()
	if hold == nil {
		return
	}
	entered <- struct{}{}
	<-hold
}

func (f *fakeAPI) Generate(_ context.Context, email string) (entity.APIResult, error) {
	f.mu.Lock()
	f.generated = append(f.generated, email)
	res, err := f.genRes, f.genErr
	f.mu.Unlock()

	f.wait()
	return res, err
}

func (f *fakeAPI) Verify(_ context.Context, email, otp string) (entity.APIResult, error) {
	f.mu.Lock()
	f.verified = append(f.verified, verifyCall{email: email, otp: otp})
	res, err := f.verRes, f.verErr
	f.mu.Unlock()

	f.wait()
	return res, err
}

func (f *fakeAPI) generateCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.generated...)
}

func (f *fakeAPI) verifyCalls() []verifyCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]verifyCall(nil), f.verified...)
}

func newTestUsecase(t *testing.T, api otpAPI) (*Usecase, *clock.Fake) {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(testConfig))
	require.NoError(t, err)
	v, err := validator.NewV10Validator()
	require.NoError(t, err)

	clk := clock.NewFake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	uc := NewUsecase(Dependency{
		API:        api,
		Config:     cfg,
		Clock:      clk,
		UUID:       uid.NewUUID(),
		Validator:  v,
		Instrument: instrument.NewNoop(),
	})
	t.Cleanup(func() { _ = uc.Close() })

	return uc, clk
}

func newTestController(t *testing.T, api otpAPI) (*Controller, *clock.Fake) {
	t.Helper()

	uc, clk := newTestUsecase(t, api)
	view, err := uc.CreateSession(context.Background())
	require.NoError(t, err)
	ctrl, err := uc.Session(view.SessionID)
	require.NoError(t, err)

	return ctrl, clk
}

// toCodeEntry drives a fresh controller to the code step.
func toCodeEntry(t *testing.T, c *Controller) {
	t.Helper()
	view, err := c.RequestCode(context.Background(), "user@example.com")
	require.NoError(t, err)
	require.Equal(t, entity.StepCodeEntry, view.Step)
}

func fillSlots(t *testing.T, c *Controller, values ...string) {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, v := range values {
		c.sess.Slots[i] = v
	}
}

func countdownGen(c *Controller) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.countdown.gen
}

// drain returns every instruction already buffered on ch.
func drain(ch <-chan entity.Instruction) []entity.Instruction {
	var out []entity.Instruction
	for {
		select {
		case ins, ok := <-ch:
			if !ok {
				return out
			}
			out = append(out, ins)
		default:
			return out
		}
	}
}

func kinds(ins []entity.Instruction) []entity.InstructionKind {
	out := make([]entity.InstructionKind, len(ins))
	for i, in := range ins {
		out[i] = in.Kind
	}
	return out
}
