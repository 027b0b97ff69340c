package entity

import (
	"strings"

	"github.com/samber/lo"
)

// FocusTarget is the input that should hold keyboard focus. Slot is only
// meaningful when Field is FieldOTP.
type FocusTarget struct {
	Field Field `json:"field"`
	Slot  int   `json:"slot"`
}

// Session is the full state of one wizard instance.
type Session struct {
	ID string

	Step         Step
	PendingEmail string
	// EmailField mirrors the email input, kept so ResetFlow can clear it.
	EmailField string
	Slots      [SlotCount]string

	Remaining       int
	CountdownActive bool
	// Loading counts outstanding API calls; the overlay shows while it is positive.
	Loading int

	Errors   map[Field]FieldError
	Focus    FocusTarget
	InFlight map[Operation]bool
	// Epoch increases on every step change. Responses tagged with an older epoch are stale.
	Epoch uint64
}

func NewSession(id string) *Session {
	return &Session{
		ID:       id,
		Step:     StepEmailEntry,
		Errors:   make(map[Field]FieldError, 2),
		Focus:    FocusTarget{Field: FieldEmail},
		InFlight: make(map[Operation]bool, 3),
	}
}

// Code concatenates the slots in order.
func (s *Session) Code() string {
	return strings.Join(s.Slots[:], "")
}

// FilledSlots counts non-empty slots.
func (s *Session) FilledSlots() int {
	return lo.CountBy(s.Slots[:], func(v string) bool { return v != "" })
}

// SetStep moves to step and invalidates responses issued under the previous epoch.
func (s *Session) SetStep(step Step) {
	s.Step = step
	s.Epoch++
}

func (s *Session) ClearSlots() {
	s.Slots = [SlotCount]string{}
}

// View is a full snapshot of a session, sent on (re)connect and returned by
// every HTTP operation.
type View struct {
	SessionID    string      `json:"session_id"`
	Step         Step        `json:"step"`
	PendingEmail string      `json:"pending_email,omitempty"`
	EmailField   string      `json:"email_field"`
	Slots        []string    `json:"slots"`
	Countdown    string      `json:"countdown"`
	Remaining    int         `json:"remaining_seconds"`
	Expiring     bool        `json:"expiring"`
	Counting     bool        `json:"counting"`
	Loading      bool        `json:"loading"`
	EmailError   FieldError  `json:"email_error"`
	OTPError     FieldError  `json:"otp_error"`
	Focus        FocusTarget `json:"focus"`
}

func (s *Session) View() View {
	return View{
		SessionID:    s.ID,
		Step:         s.Step,
		PendingEmail: s.PendingEmail,
		EmailField:   s.EmailField,
		Slots:        append([]string(nil), s.Slots[:]...),
		Countdown:    FormatCountdown(s.Remaining),
		Remaining:    s.Remaining,
		Expiring:     s.Step == StepCodeEntry && IsExpiring(s.Remaining),
		Counting:     s.CountdownActive,
		Loading:      s.Loading > 0,
		EmailError:   s.Errors[FieldEmail],
		OTPError:     s.Errors[FieldOTP],
		Focus:        s.Focus,
	}
}
