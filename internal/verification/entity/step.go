package entity

import (
	"fmt"
	"strings"
)

// SlotCount is the number of single-character code inputs.
const SlotCount = 6

// Step is a wizard screen.
type Step int8

const (
	StepEmailEntry Step = iota
	StepCodeEntry
	StepVerified
)

func StepFromString(raw string) (Step, bool) {
	switch strings.TrimSpace(raw) {
	case "email_entry":
		return StepEmailEntry, true
	case "code_entry":
		return StepCodeEntry, true
	case "verified":
		return StepVerified, true
	default:
		return StepEmailEntry, false
	}
}

func (s Step) String() string {
	switch s {
	case StepEmailEntry:
		return "email_entry"
	case StepCodeEntry:
		return "code_entry"
	case StepVerified:
		return "verified"
	default:
		return "unknown"
	}
}

func (s Step) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Step) UnmarshalText(b []byte) error {
	step, ok := StepFromString(string(b))
	if !ok {
		return fmt.Errorf("unknown step %q", b)
	}
	*s = step
	return nil
}

// Field names an input that can carry an error or focus.
type Field string

const (
	FieldEmail Field = "email"
	FieldOTP   Field = "otp"
)

// Operation is a flow action that talks to the OTP API.
type Operation string

const (
	OperationGenerate Operation = "generate"
	OperationVerify   Operation = "verify"
	OperationResend   Operation = "resend"
)

// Outcome labels how an API round trip ended.
type Outcome string

const (
	OutcomeSuccess   Outcome = "success"
	OutcomeRejected  Outcome = "rejected"
	OutcomeTransport Outcome = "transport_error"
	OutcomeStale     Outcome = "stale"
	OutcomeInvalid   Outcome = "invalid_input"
)
