package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/otpverify/internal/devapi/entity"
	"github.com/shandysiswandi/otpverify/internal/pkg/goerror"
	"github.com/shandysiswandi/otpverify/internal/pkg/idempotency"
)

type GenerateInput struct {
	Email string `validate:"required,otpemail"`
}

// Generate issues a fresh code for the email, replacing any pending one, and
// mails it in the background. Requests for the same email inside the resend
// cooldown are refused.
func (s *Usecase) Generate(ctx context.Context, in GenerateInput) (entity.Result, error) {
	ctx, span := s.startSpan(ctx, "Generate")
	defer span.End()

	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if err := s.validator.Validate(in); err != nil {
		return entity.Result{}, goerror.NewInvalidFormat(entity.MsgInvalidEmail)
	}

	if s.cooldown <= 0 || s.idemp == nil {
		if err := s.issue(ctx, in.Email); err != nil {
			return entity.Result{}, err
		}
		return entity.Result{Success: true, Message: entity.MsgCodeSent}, nil
	}

	err := s.idemp.Exec(ctx, "devapi:generate:"+in.Email, func(ctx context.Context) error {
		return s.issue(ctx, in.Email)
	}, idempotency.WithStateTTL(s.cooldown), idempotency.WithLockDuration(s.cooldown))
	switch {
	case errors.Is(err, idempotency.ErrAlreadyCompleted), errors.Is(err, idempotency.ErrAlreadyInProgress):
		slog.WarnContext(ctx, "otp requested inside resend cooldown", "email", in.Email)
		return entity.Result{}, goerror.NewBusiness(entity.MsgTooSoon, goerror.CodeTooManyRequest)
	case err != nil:
		var gerr *goerror.Error
		if errors.As(err, &gerr) {
			return entity.Result{}, err
		}
		slog.ErrorContext(ctx, "failed to run otp generate guard", "email", in.Email, "error", err)
		return entity.Result{}, goerror.NewServer(err)
	}

	return entity.Result{Success: true, Message: entity.MsgCodeSent}, nil
}

func (s *Usecase) issue(ctx context.Context, email string) error {
	code, err := s.otp.GenerateCode(email)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate otp code", "email", email, "error", err)
		return goerror.NewServer(err)
	}

	codeHash, err := s.hmac.Hash(code)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash otp code", "error", err)
		return goerror.NewServer(err)
	}

	if err := s.repoCache.SaveCode(ctx, email, codeHash, s.codeTTL); err != nil {
		slog.ErrorContext(ctx, "failed to repo save otp code", "email", email, "error", err)
		return goerror.NewServer(err)
	}

	minutes := int(s.codeTTL.Minutes())
	started := s.goroutine.Go(context.WithoutCancel(ctx), func(ctx context.Context) error {
		if err := s.repoMail.SendCode(ctx, email, code, minutes); err != nil {
			slog.ErrorContext(ctx, "failed to send otp email", "email", email, "error", err)
			return nil
		}
		slog.InfoContext(ctx, "otp email sent", "email", email)
		return nil
	})
	if !started {
		slog.ErrorContext(ctx, "failed to schedule otp email", "email", email)
		return goerror.NewBusiness(entity.MsgSendFailed, goerror.CodeUnavailable)
	}

	return nil
}
