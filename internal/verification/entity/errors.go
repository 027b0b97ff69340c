package entity

// ErrorKind classifies a message shown next to a field.
type ErrorKind string

const (
	ErrorKindNone             ErrorKind = ""
	ErrorKindInvalidEmail     ErrorKind = "invalid_email"
	ErrorKindIncompleteCode   ErrorKind = "incomplete_code"
	ErrorKindServerFailure    ErrorKind = "server_failure"
	ErrorKindTransportFailure ErrorKind = "transport_failure"
	ErrorKindCodeExpired      ErrorKind = "code_expired"
)

const (
	MsgInvalidEmail    = "Please enter a valid email address"
	MsgIncompleteCode  = "Please enter the complete 6-digit code"
	MsgSendFailed      = "Failed to send OTP"
	MsgVerifyFailed    = "Invalid verification code"
	MsgResendFailed    = "Failed to resend OTP"
	MsgTransportFailed = "Network error. Please try again."
	MsgCodeExpired     = "Verification code has expired"
)

// FieldError is the message currently displayed for a field. The zero value means none.
type FieldError struct {
	Kind    ErrorKind `json:"kind,omitempty"`
	Message string    `json:"message,omitempty"`
}

// APIResult is the body returned by both OTP API endpoints.
type APIResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// MessageOr returns the server message, or fallback when it is blank.
func (r APIResult) MessageOr(fallback string) string {
	if r.Message == "" {
		return fallback
	}
	return r.Message
}
