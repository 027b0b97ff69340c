package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/otpverify/internal/verification/entity"
	"go.opentelemetry.io/otel/codes"
)

// RequestCode validates email and asks the OTP API to send a code to it.
// An invalid address is reported on the email field without calling the API.
func (c *Controller) RequestCode(ctx context.Context, email string) (entity.View, error) {
	ctx, span := c.startSpan(ctx, "RequestCode")
	defer span.End()

	if err := c.enter("request code", entity.StepEmailEntry); err != nil {
		return entity.View{}, err
	}

	if c.sess.InFlight[entity.OperationGenerate] {
		c.mu.Unlock()
		return entity.View{}, errBusy
	}

	email = strings.TrimSpace(email)
	c.sess.EmailField = email

	if err := c.cfg.validator.Validate(requestCodeInput{Email: email}); err != nil {
		c.setFieldError(entity.FieldEmail, entity.ErrorKindInvalidEmail, entity.MsgInvalidEmail)
		c.cfg.stats.outcome(ctx, entity.OperationGenerate, entity.OutcomeInvalid)
		view := c.sess.View()
		c.mu.Unlock()
		return view, nil
	}

	c.clearFieldError(entity.FieldEmail)
	epoch := c.beginCall(entity.OperationGenerate)
	c.mu.Unlock()

	c.cfg.stats.request(ctx, entity.OperationGenerate)
	res, err := c.cfg.api.Generate(detach(ctx), email)

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.endCall(ctx, entity.OperationGenerate, epoch) {
		return c.sess.View(), nil
	}

	switch {
	case err != nil:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		slog.ErrorContext(ctx, "failed to call otp api generate", "session_id", c.sess.ID, "error", err)
		c.setFieldError(entity.FieldEmail, entity.ErrorKindTransportFailure, entity.MsgTransportFailed)
		c.cfg.stats.outcome(ctx, entity.OperationGenerate, entity.OutcomeTransport)

	case !res.Success:
		slog.WarnContext(ctx, "otp api rejected generate", "session_id", c.sess.ID, "message", res.Message)
		c.setFieldError(entity.FieldEmail, entity.ErrorKindServerFailure, res.MessageOr(entity.MsgSendFailed))
		c.cfg.stats.outcome(ctx, entity.OperationGenerate, entity.OutcomeRejected)

	default:
		c.sess.PendingEmail = email
		c.render(entity.EmailDisplay(email))
		c.showStep(entity.StepCodeEntry)
		c.startCountdown()
		c.focus(entity.FieldOTP, 0)
		c.cfg.stats.outcome(ctx, entity.OperationGenerate, entity.OutcomeSuccess)
	}

	return c.sess.View(), nil
}

// ResendCode asks the OTP API for a fresh code for the pending email. On
// success the slots are cleared and the countdown restarts.
func (c *Controller) ResendCode(ctx context.Context) (entity.View, error) {
	ctx, span := c.startSpan(ctx, "ResendCode")
	defer span.End()

	if err := c.enter("resend code", entity.StepCodeEntry); err != nil {
		return entity.View{}, err
	}

	if c.sess.InFlight[entity.OperationResend] {
		c.mu.Unlock()
		return entity.View{}, errBusy
	}

	email := c.sess.PendingEmail
	epoch := c.beginCall(entity.OperationResend)
	c.mu.Unlock()

	c.cfg.stats.request(ctx, entity.OperationResend)
	res, err := c.cfg.api.Generate(detach(ctx), email)

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.endCall(ctx, entity.OperationResend, epoch) {
		return c.sess.View(), nil
	}

	switch {
	case err != nil:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		slog.ErrorContext(ctx, "failed to call otp api resend", "session_id", c.sess.ID, "error", err)
		c.setFieldError(entity.FieldOTP, entity.ErrorKindTransportFailure, entity.MsgTransportFailed)
		c.cfg.stats.outcome(ctx, entity.OperationResend, entity.OutcomeTransport)

	case !res.Success:
		slog.WarnContext(ctx, "otp api rejected resend", "session_id", c.sess.ID, "message", res.Message)
		c.setFieldError(entity.FieldOTP, entity.ErrorKindServerFailure, res.MessageOr(entity.MsgResendFailed))
		c.cfg.stats.outcome(ctx, entity.OperationResend, entity.OutcomeRejected)

	default:
		c.sess.ClearSlots()
		c.render(entity.ClearSlots())
		c.startCountdown()
		c.focus(entity.FieldOTP, 0)
		c.clearFieldError(entity.FieldOTP)
		c.cfg.stats.outcome(ctx, entity.OperationResend, entity.OutcomeSuccess)
	}

	return c.sess.View(), nil
}
