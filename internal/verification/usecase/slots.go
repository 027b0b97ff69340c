package usecase

import (
	"context"
	"errors"
	"log/slog"
	"unicode/utf8"

	"github.com/shandysiswandi/otpverify/internal/verification/entity"
)

// InputSlot stores value in slot index and then behaves like AdvanceFocus.
// An empty value clears the slot.
func (c *Controller) InputSlot(ctx context.Context, index int, value string) (entity.View, error) {
	ctx, span := c.startSpan(ctx, "InputSlot")
	defer span.End()

	if err := checkSlot(index); err != nil {
		return entity.View{}, err
	}
	if utf8.RuneCountInString(value) > 1 {
		return entity.View{}, errInvalidSlotValue
	}

	if err := c.enter("input slot", entity.StepCodeEntry); err != nil {
		return entity.View{}, err
	}
	if c.sess.Slots[index] != value {
		c.sess.Slots[index] = value
		c.render(entity.SetSlot(index, value))
	}
	c.mu.Unlock()

	return c.AdvanceFocus(ctx, index)
}

// AdvanceFocus moves focus past a filled slot. A filled last slot submits the code.
func (c *Controller) AdvanceFocus(ctx context.Context, index int) (entity.View, error) {
	ctx, span := c.startSpan(ctx, "AdvanceFocus")
	defer span.End()

	if err := checkSlot(index); err != nil {
		return entity.View{}, err
	}

	if err := c.enter("advance focus", entity.StepCodeEntry); err != nil {
		return entity.View{}, err
	}

	filled := c.sess.Slots[index] != ""
	if filled && index < entity.SlotCount-1 {
		c.focus(entity.FieldOTP, index+1)
	}
	view := c.sess.View()
	c.mu.Unlock()

	if !filled || index < entity.SlotCount-1 {
		return view, nil
	}

	view, err := c.VerifyCode(ctx)
	if errors.Is(err, errBusy) {
		slog.DebugContext(ctx, "auto submit skipped, verify already in flight", "session_id", c.sess.ID)
		return c.View(), nil
	}
	return view, err
}

// HandleBackspaceNavigation moves focus back when backspace hits an empty slot.
func (c *Controller) HandleBackspaceNavigation(ctx context.Context, index int) (entity.View, error) {
	_, span := c.startSpan(ctx, "HandleBackspaceNavigation")
	defer span.End()

	if err := checkSlot(index); err != nil {
		return entity.View{}, err
	}

	if err := c.enter("backspace navigation", entity.StepCodeEntry); err != nil {
		return entity.View{}, err
	}
	defer c.mu.Unlock()

	if c.sess.Slots[index] == "" && index > 0 {
		c.focus(entity.FieldOTP, index-1)
	}

	return c.sess.View(), nil
}

func checkSlot(index int) error {
	if index < 0 || index >= entity.SlotCount {
		return errInvalidSlot
	}
	return nil
}
