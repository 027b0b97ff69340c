package inbound

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shandysiswandi/otpverify/internal/devapi/entity"
	"github.com/shandysiswandi/otpverify/internal/devapi/usecase"
	"github.com/shandysiswandi/otpverify/internal/pkg/config"
	"github.com/shandysiswandi/otpverify/internal/pkg/goerror"
	"github.com/shandysiswandi/otpverify/internal/pkg/instrument"
	"github.com/shandysiswandi/otpverify/internal/pkg/router"
	"github.com/shandysiswandi/otpverify/internal/pkg/uid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUC struct {
	res entity.Result
	err error

	gotGenerate usecase.GenerateInput
	gotVerify   usecase.VerifyInput
}

func (s *stubUC) Generate(_ context.Context, in usecase.GenerateInput) (entity.Result, error) {
	s.gotGenerate = in
	return s.res, s.err
}

func (s *stubUC) Verify(_ context.Context, in usecase.VerifyInput) (entity.Result, error) {
	s.gotVerify = in
	return s.res, s.err
}

func serve(t *testing.T, uc uc, path, body string) (int, entity.Result) {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(""))
	require.NoError(t, err)
	r := router.NewRouter(router.Config{Config: cfg, UUID: uid.NewUUID(), Instrument: instrument.NewNoop()})
	RegisterHTTPEndpoint(r, uc)

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var res entity.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	return rec.Code, res
}

func TestGenerate(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		uc := &stubUC{res: entity.Result{Success: true, Message: entity.MsgCodeSent}}

		code, res := serve(t, uc, "/api/otp/generate", `{"email":"a@b.co"}`)

		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, entity.Result{Success: true, Message: entity.MsgCodeSent}, res)
		assert.Equal(t, "a@b.co", uc.gotGenerate.Email)
	})

	t.Run("MalformedBody", func(t *testing.T) {
		code, res := serve(t, &stubUC{}, "/api/otp/generate", `{"email":`)

		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, entity.Result{Message: entity.MsgInvalidEmail}, res)
	})

	t.Run("Cooldown", func(t *testing.T) {
		uc := &stubUC{err: goerror.NewBusiness(entity.MsgTooSoon, goerror.CodeTooManyRequest)}

		code, res := serve(t, uc, "/api/otp/generate", `{"email":"a@b.co"}`)

		assert.Equal(t, http.StatusTooManyRequests, code)
		assert.False(t, res.Success)
		assert.Equal(t, entity.MsgTooSoon, res.Message)
	})
}

func TestVerify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{name: "Invalid", err: goerror.NewInvalidFormat(entity.MsgInvalidRequest), code: http.StatusBadRequest, msg: entity.MsgInvalidRequest},
		{name: "ValidationFields", err: goerror.NewInvalidInput(nil, "otp", "bad"), code: http.StatusBadRequest, msg: "Validation error"},
		{name: "Mismatch", err: goerror.NewBusiness(entity.MsgCodeInvalid, goerror.CodeUnauthorized), code: http.StatusUnauthorized, msg: entity.MsgCodeInvalid},
		{name: "Exhausted", err: goerror.NewBusiness(entity.MsgTooManyAttempts, goerror.CodeTooManyRequest), code: http.StatusTooManyRequests, msg: entity.MsgTooManyAttempts},
		{name: "Server", err: goerror.NewServer(errors.New("redis down")), code: http.StatusInternalServerError, msg: entity.MsgInternal},
		{name: "Untyped", err: errors.New("boom"), code: http.StatusInternalServerError, msg: entity.MsgInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &stubUC{err: tt.err}

			code, res := serve(t, uc, "/api/otp/verify", `{"email":"a@b.co","otp":"123456"}`)

			assert.Equal(t, tt.code, code)
			assert.Equal(t, entity.Result{Message: tt.msg}, res)
			assert.Equal(t, usecase.VerifyInput{Email: "a@b.co", OTP: "123456"}, uc.gotVerify)
		})
	}

	t.Run("Success", func(t *testing.T) {
		uc := &stubUC{res: entity.Result{Success: true, Message: entity.MsgVerified}}

		code, res := serve(t, uc, "/api/otp/verify", `{"email":"a@b.co","otp":"123456"}`)

		assert.Equal(t, http.StatusOK, code)
		assert.True(t, res.Success)
	})
}
