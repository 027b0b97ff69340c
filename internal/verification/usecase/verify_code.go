package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/otpverify/internal/verification/entity"
	"go.opentelemetry.io/otel/codes"
)

// VerifyCode submits the six slots for the pending email. Fewer than six
// characters is reported on the code field without calling the API. The
// countdown is advisory: an expired code is still submitted.
func (c *Controller) VerifyCode(ctx context.Context) (entity.View, error) {
	ctx, span := c.startSpan(ctx, "VerifyCode")
	defer span.End()

	if err := c.enter("verify code", entity.StepCodeEntry); err != nil {
		return entity.View{}, err
	}

	if c.sess.InFlight[entity.OperationVerify] {
		c.mu.Unlock()
		return entity.View{}, errBusy
	}

	code := c.sess.Code()
	if err := c.cfg.validator.Validate(verifyCodeInput{OTPCode: code}); err != nil {
		c.setFieldError(entity.FieldOTP, entity.ErrorKindIncompleteCode, entity.MsgIncompleteCode)
		c.cfg.stats.outcome(ctx, entity.OperationVerify, entity.OutcomeInvalid)
		view := c.sess.View()
		c.mu.Unlock()
		return view, nil
	}

	c.clearFieldError(entity.FieldOTP)
	email := c.sess.PendingEmail
	epoch := c.beginCall(entity.OperationVerify)
	c.mu.Unlock()

	c.cfg.stats.request(ctx, entity.OperationVerify)
	res, err := c.cfg.api.Verify(detach(ctx), email, code)

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.endCall(ctx, entity.OperationVerify, epoch) {
		return c.sess.View(), nil
	}

	switch {
	case err != nil:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		slog.ErrorContext(ctx, "failed to call otp api verify", "session_id", c.sess.ID, "error", err)
		c.setFieldError(entity.FieldOTP, entity.ErrorKindTransportFailure, entity.MsgTransportFailed)
		c.cfg.stats.outcome(ctx, entity.OperationVerify, entity.OutcomeTransport)

	case !res.Success:
		slog.WarnContext(ctx, "otp api rejected code", "session_id", c.sess.ID, "message", res.Message)
		c.setFieldError(entity.FieldOTP, entity.ErrorKindServerFailure, res.MessageOr(entity.MsgVerifyFailed))
		c.render(entity.Shake(c.cfg.shake.Milliseconds()))
		c.cfg.stats.outcome(ctx, entity.OperationVerify, entity.OutcomeRejected)

	default:
		c.stopCountdown()
		c.render(entity.VerifiedEmail(email))
		c.showStep(entity.StepVerified)
		c.cfg.stats.outcome(ctx, entity.OperationVerify, entity.OutcomeSuccess)
	}

	return c.sess.View(), nil
}
