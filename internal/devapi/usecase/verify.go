package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/otpverify/internal/devapi/entity"
	"github.com/shandysiswandi/otpverify/internal/pkg/goerror"
)

type VerifyInput struct {
	Email string `validate:"required,otpemail"`
	OTP   string `validate:"required,len=6,numeric"`
}

// Verify checks a submitted code. A match consumes it.
func (s *Usecase) Verify(ctx context.Context, in VerifyInput) (entity.Result, error) {
	ctx, span := s.startSpan(ctx, "Verify")
	defer span.End()

	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.OTP = strings.TrimSpace(in.OTP)

	if err := s.validator.Validate(in); err != nil {
		return entity.Result{}, goerror.NewInvalidFormat(entity.MsgInvalidRequest)
	}

	codeHash, err := s.hmac.Hash(in.OTP)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash otp code", "error", err)
		return entity.Result{}, goerror.NewServer(err)
	}

	err = s.repoCache.ConsumeCode(ctx, in.Email, codeHash, s.maxAttempts)
	switch {
	case errors.Is(err, goerror.ErrNotFound):
		slog.WarnContext(ctx, "otp verify without pending code", "email", in.Email)
		return entity.Result{}, goerror.NewBusiness(entity.MsgCodeExpired, goerror.CodeUnauthorized)

	case errors.Is(err, entity.ErrCodeMismatch):
		slog.WarnContext(ctx, "otp code mismatch", "email", in.Email)
		return entity.Result{}, goerror.NewBusiness(entity.MsgCodeInvalid, goerror.CodeUnauthorized)

	case errors.Is(err, entity.ErrAttemptsExceeded):
		slog.WarnContext(ctx, "otp attempts exceeded", "email", in.Email)
		return entity.Result{}, goerror.NewBusiness(entity.MsgTooManyAttempts, goerror.CodeTooManyRequest)

	case err != nil:
		slog.ErrorContext(ctx, "failed to repo consume otp code", "email", in.Email, "error", err)
		return entity.Result{}, goerror.NewServer(err)
	}

	slog.InfoContext(ctx, "otp code verified", "email", in.Email)

	return entity.Result{Success: true, Message: entity.MsgVerified}, nil
}
