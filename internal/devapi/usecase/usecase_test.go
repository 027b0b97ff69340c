package usecase

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	libOTP "github.com/pquerna/otp"
	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/otpverify/internal/devapi/entity"
	"github.com/shandysiswandi/otpverify/internal/devapi/outbound/cache"
	"github.com/shandysiswandi/otpverify/internal/pkg/config"
	"github.com/shandysiswandi/otpverify/internal/pkg/goerror"
	"github.com/shandysiswandi/otpverify/internal/pkg/goroutine"
	"github.com/shandysiswandi/otpverify/internal/pkg/hash"
	"github.com/shandysiswandi/otpverify/internal/pkg/idempotency"
	"github.com/shandysiswandi/otpverify/internal/pkg/instrument"
	"github.com/shandysiswandi/otpverify/internal/pkg/otp"
	"github.com/shandysiswandi/otpverify/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentCode struct {
	email string
	code  string
}

type chanMail struct {
	sent chan sentCode
	err  error
}

func (c *chanMail) SendCode(_ context.Context, email, code string, _ int) error {
	c.sent <- sentCode{email: email, code: code}
	return c.err
}

type fixedCode string

func (f fixedCode) GenerateCode(string) (string, error) { return string(f), nil }

func newTestUsecase(t *testing.T, yaml string, gen otp.Generator) (*Usecase, *chanMail, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cfg, err := config.NewViperFromBytes("yaml", []byte(yaml))
	require.NoError(t, err)
	v, err := validator.NewV10Validator()
	require.NoError(t, err)

	mailer := &chanMail{sent: make(chan sentCode, 4)}
	gm := goroutine.NewManager(4)
	t.Cleanup(func() { _ = gm.Wait() })

	uc := New(Dependency{
		RepoCache:   cache.New(client, instrument.NewNoop()),
		RepoMail:    mailer,
		Idempotency: idempotency.New(client),
		Validator:   v,
		Config:      cfg,
		HMAC:        hash.NewHMACSHA256("test-secret"),
		OTP:         gen,
		Instrument:  instrument.NewNoop(),
		Goroutine:   gm,
	})

	return uc, mailer, mr
}

func waitSent(t *testing.T, m *chanMail) sentCode {
	t.Helper()
	select {
	case s := <-m.sent:
		return s
	case <-time.After(2 * time.Second):
		t.Fatal("no code mailed")
		return sentCode{}
	}
}

func statusOf(err error) int {
	var gerr *goerror.Error
	if errors.As(err, &gerr) {
		return gerr.StatusCode()
	}
	return 0
}

const testConfig = `
devapi:
  code_ttl_seconds: 600
  max_attempts: 3
`

func TestGenerateThenVerify(t *testing.T) {
	// Arrange
	uc, mailer, _ := newTestUsecase(t, testConfig, otp.NewHOTP("otpverify", libOTP.DigitsSix))
	ctx := context.Background()

	// Act
	res, err := uc.Generate(ctx, GenerateInput{Email: "  User@Example.com "})
	require.NoError(t, err)
	sent := waitSent(t, mailer)

	// Assert
	assert.Equal(t, entity.Result{Success: true, Message: entity.MsgCodeSent}, res)
	assert.Equal(t, "user@example.com", sent.email)
	assert.Len(t, sent.code, 6)

	res, err = uc.Verify(ctx, VerifyInput{Email: "user@example.com", OTP: sent.code})
	require.NoError(t, err)
	assert.Equal(t, entity.Result{Success: true, Message: entity.MsgVerified}, res)

	// consumed
	_, err = uc.Verify(ctx, VerifyInput{Email: "user@example.com", OTP: sent.code})
	assert.Equal(t, http.StatusUnauthorized, statusOf(err))
}

func TestGenerate(t *testing.T) {
	ctx := context.Background()

	t.Run("InvalidEmail", func(t *testing.T) {
		uc, _, _ := newTestUsecase(t, testConfig, fixedCode("123456"))

		_, err := uc.Generate(ctx, GenerateInput{Email: "not-an-email"})

		assert.Equal(t, http.StatusBadRequest, statusOf(err))
		assert.EqualError(t, err, entity.MsgInvalidEmail)
	})

	t.Run("CodeStoredAsDigest", func(t *testing.T) {
		uc, mailer, mr := newTestUsecase(t, testConfig, fixedCode("123456"))

		_, err := uc.Generate(ctx, GenerateInput{Email: "a@b.co"})
		require.NoError(t, err)
		waitSent(t, mailer)

		stored := mr.HGet("devapi:otp:a@b.co", "hash")
		assert.NotEmpty(t, stored)
		assert.NotContains(t, stored, "123456")
		assert.Equal(t, 600*time.Second, mr.TTL("devapi:otp:a@b.co"))
	})

	t.Run("Cooldown", func(t *testing.T) {
		uc, mailer, mr := newTestUsecase(t, testConfig+"  resend_cooldown_seconds: 30\n", fixedCode("123456"))

		_, err := uc.Generate(ctx, GenerateInput{Email: "a@b.co"})
		require.NoError(t, err)
		waitSent(t, mailer)

		_, err = uc.Generate(ctx, GenerateInput{Email: "a@b.co"})
		assert.Equal(t, http.StatusTooManyRequests, statusOf(err))
		assert.EqualError(t, err, entity.MsgTooSoon)

		mr.FastForward(31 * time.Second)
		_, err = uc.Generate(ctx, GenerateInput{Email: "a@b.co"})
		require.NoError(t, err)
		waitSent(t, mailer)
	})

	t.Run("MailFailureStillIssuesCode", func(t *testing.T) {
		uc, mailer, _ := newTestUsecase(t, testConfig, fixedCode("123456"))
		mailer.err = errors.New("smtp down")

		res, err := uc.Generate(ctx, GenerateInput{Email: "a@b.co"})
		require.NoError(t, err)
		assert.True(t, res.Success)
		waitSent(t, mailer)

		_, err = uc.Verify(ctx, VerifyInput{Email: "a@b.co", OTP: "123456"})
		assert.NoError(t, err)
	})
}

func TestVerify(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		in     VerifyInput
		status int
		msg    string
	}{
		{name: "MissingOTP", in: VerifyInput{Email: "a@b.co"}, status: http.StatusBadRequest, msg: entity.MsgInvalidRequest},
		{name: "ShortOTP", in: VerifyInput{Email: "a@b.co", OTP: "123"}, status: http.StatusBadRequest, msg: entity.MsgInvalidRequest},
		{name: "NonNumericOTP", in: VerifyInput{Email: "a@b.co", OTP: "12345a"}, status: http.StatusBadRequest, msg: entity.MsgInvalidRequest},
		{name: "NeverRequested", in: VerifyInput{Email: "other@b.co", OTP: "123456"}, status: http.StatusUnauthorized, msg: entity.MsgCodeExpired},
		{name: "WrongCode", in: VerifyInput{Email: "a@b.co", OTP: "654321"}, status: http.StatusUnauthorized, msg: entity.MsgCodeInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, mailer, _ := newTestUsecase(t, testConfig, fixedCode("123456"))
			_, err := uc.Generate(ctx, GenerateInput{Email: "a@b.co"})
			require.NoError(t, err)
			waitSent(t, mailer)

			_, err = uc.Verify(ctx, tt.in)

			assert.Equal(t, tt.status, statusOf(err))
			assert.EqualError(t, err, tt.msg)
		})
	}

	t.Run("AttemptsExceeded", func(t *testing.T) {
		uc, mailer, _ := newTestUsecase(t, testConfig, fixedCode("123456"))
		_, err := uc.Generate(ctx, GenerateInput{Email: "a@b.co"})
		require.NoError(t, err)
		waitSent(t, mailer)

		for range 2 {
			_, err = uc.Verify(ctx, VerifyInput{Email: "a@b.co", OTP: "000000"})
			require.Equal(t, http.StatusUnauthorized, statusOf(err))
		}
		_, err = uc.Verify(ctx, VerifyInput{Email: "a@b.co", OTP: "000000"})
		assert.Equal(t, http.StatusTooManyRequests, statusOf(err))

		// the right code no longer works once the record is dropped
		_, err = uc.Verify(ctx, VerifyInput{Email: "a@b.co", OTP: "123456"})
		assert.EqualError(t, err, entity.MsgCodeExpired)
	})

	t.Run("Expired", func(t *testing.T) {
		uc, mailer, mr := newTestUsecase(t, testConfig, fixedCode("123456"))
		_, err := uc.Generate(ctx, GenerateInput{Email: "a@b.co"})
		require.NoError(t, err)
		waitSent(t, mailer)
		mr.FastForward(601 * time.Second)

		_, err = uc.Verify(ctx, VerifyInput{Email: "a@b.co", OTP: "123456"})

		assert.EqualError(t, err, entity.MsgCodeExpired)
	})
}
