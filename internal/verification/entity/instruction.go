package entity

// InstructionKind tells the page adapter which element update to perform.
type InstructionKind string

const (
	InstructionShowStep      InstructionKind = "show_step"
	InstructionLoading       InstructionKind = "loading"
	InstructionFieldError    InstructionKind = "field_error"
	InstructionFocus         InstructionKind = "focus"
	InstructionCountdown     InstructionKind = "countdown"
	InstructionShake         InstructionKind = "shake"
	InstructionEmailDisplay  InstructionKind = "email_display"
	InstructionVerifiedEmail InstructionKind = "verified_email"
	InstructionSetEmailField InstructionKind = "set_email_field"
	InstructionClearSlots    InstructionKind = "clear_slots"
	InstructionSetSlot       InstructionKind = "set_slot"
)

// Instruction is one render step for the page adapter. Only the fields
// relevant to Kind are set.
type Instruction struct {
	Kind      InstructionKind `json:"kind"`
	Step      string          `json:"step,omitempty"`
	Visible   bool            `json:"visible,omitempty"`
	Field     Field           `json:"field,omitempty"`
	Slot      int             `json:"slot,omitempty"`
	Text      string          `json:"text,omitempty"`
	ErrorKind ErrorKind       `json:"error_kind,omitempty"`
	Remaining int             `json:"remaining,omitempty"`
	Expiring  bool            `json:"expiring,omitempty"`
	Millis    int64           `json:"millis,omitempty"`
}

func ShowStep(s Step) Instruction {
	return Instruction{Kind: InstructionShowStep, Step: s.String()}
}

func Loading(visible bool) Instruction {
	return Instruction{Kind: InstructionLoading, Visible: visible}
}

// SetFieldError shows msg under field; an empty msg clears it.
func SetFieldError(field Field, fe FieldError) Instruction {
	return Instruction{Kind: InstructionFieldError, Field: field, Text: fe.Message, ErrorKind: fe.Kind}
}

func Focus(target FocusTarget) Instruction {
	return Instruction{Kind: InstructionFocus, Field: target.Field, Slot: target.Slot}
}

func Countdown(remaining int) Instruction {
	return Instruction{
		Kind:      InstructionCountdown,
		Text:      FormatCountdown(remaining),
		Remaining: remaining,
		Expiring:  IsExpiring(remaining),
	}
}

func Shake(millis int64) Instruction {
	return Instruction{Kind: InstructionShake, Field: FieldOTP, Millis: millis}
}

func EmailDisplay(email string) Instruction {
	return Instruction{Kind: InstructionEmailDisplay, Text: email}
}

func VerifiedEmail(email string) Instruction {
	return Instruction{Kind: InstructionVerifiedEmail, Text: email}
}

func SetEmailField(value string) Instruction {
	return Instruction{Kind: InstructionSetEmailField, Text: value}
}

func ClearSlots() Instruction {
	return Instruction{Kind: InstructionClearSlots}
}

func SetSlot(index int, value string) Instruction {
	return Instruction{Kind: InstructionSetSlot, Slot: index, Text: value}
}
