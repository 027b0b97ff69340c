package usecase

import (
	"context"

	"github.com/shandysiswandi/otpverify/internal/verification/entity"
)

// ChangeEmail abandons the pending code and returns to email entry.
// Responses still in flight for the code step are discarded.
func (c *Controller) ChangeEmail(ctx context.Context) (entity.View, error) {
	_, span := c.startSpan(ctx, "ChangeEmail")
	defer span.End()

	if err := c.enter("change email", entity.StepCodeEntry); err != nil {
		return entity.View{}, err
	}
	defer c.mu.Unlock()

	c.stopCountdown()
	c.sess.PendingEmail = ""
	c.showStep(entity.StepEmailEntry)
	c.focus(entity.FieldEmail, 0)

	return c.sess.View(), nil
}

// ResetFlow leaves the verified screen and starts over with empty inputs.
func (c *Controller) ResetFlow(ctx context.Context) (entity.View, error) {
	_, span := c.startSpan(ctx, "ResetFlow")
	defer span.End()

	if err := c.enter("reset flow", entity.StepVerified); err != nil {
		return entity.View{}, err
	}
	defer c.mu.Unlock()

	c.sess.PendingEmail = ""
	c.sess.EmailField = ""
	c.render(entity.SetEmailField(""))
	c.sess.ClearSlots()
	c.render(entity.ClearSlots())
	c.showStep(entity.StepEmailEntry)
	c.focus(entity.FieldEmail, 0)

	return c.sess.View(), nil
}
