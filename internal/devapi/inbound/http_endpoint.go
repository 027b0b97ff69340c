package inbound

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/shandysiswandi/otpverify/internal/devapi/entity"
	"github.com/shandysiswandi/otpverify/internal/devapi/usecase"
	"github.com/shandysiswandi/otpverify/internal/pkg/goerror"
	"github.com/shandysiswandi/otpverify/internal/pkg/router"
)

type HTTPEndpoint struct {
	uc uc
}

func (h *HTTPEndpoint) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := (&router.Request{Request: r}).DecodeBody(&req); err != nil {
		writeResult(w, r, entity.Result{}, goerror.NewInvalidFormat(entity.MsgInvalidEmail))
		return
	}

	res, err := h.uc.Generate(r.Context(), usecase.GenerateInput{Email: req.Email})
	writeResult(w, r, res, err)
}

func (h *HTTPEndpoint) Verify(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest
	if err := (&router.Request{Request: r}).DecodeBody(&req); err != nil {
		writeResult(w, r, entity.Result{}, goerror.NewInvalidFormat(entity.MsgInvalidRequest))
		return
	}

	res, err := h.uc.Verify(r.Context(), usecase.VerifyInput{Email: req.Email, OTP: req.OTP})
	writeResult(w, r, res, err)
}

func writeResult(w http.ResponseWriter, r *http.Request, res entity.Result, err error) {
	if err == nil {
		router.WriteJSON(w, res, http.StatusOK)
		return
	}

	var gerr *goerror.Error
	if !errors.As(err, &gerr) {
		slog.ErrorContext(r.Context(), "unexpected dev otp api error", "error", err)
		router.WriteJSON(w, entity.Result{Message: entity.MsgInternal}, http.StatusInternalServerError)
		return
	}

	code := gerr.StatusCode()
	if code == http.StatusUnprocessableEntity {
		code = http.StatusBadRequest
	}

	msg := gerr.Msg()
	if gerr.Type() == goerror.TypeServer {
		msg = entity.MsgInternal
	}

	router.WriteJSON(w, entity.Result{Message: msg}, code)
}
