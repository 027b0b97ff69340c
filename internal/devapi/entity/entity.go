package entity

import "errors"

const (
	MsgCodeSent        = "OTP sent successfully"
	MsgVerified        = "Email verified successfully"
	MsgInvalidEmail    = "Please enter a valid email address"
	MsgInvalidRequest  = "Email and a 6-digit code are required"
	MsgCodeInvalid     = "Invalid verification code"
	MsgCodeExpired     = "Verification code has expired or was never requested"
	MsgTooManyAttempts = "Too many attempts. Please request a new code"
	MsgTooSoon         = "Please wait before requesting a new code"
	MsgSendFailed      = "Failed to send OTP"
	MsgInternal        = "Internal server error"
)

var (
	// ErrCodeMismatch is returned by the store when the submitted code hash differs.
	ErrCodeMismatch = errors.New("otp code mismatch")
	// ErrAttemptsExceeded is returned once a record has used up its attempts. The record is gone.
	ErrAttemptsExceeded = errors.New("otp attempts exceeded")
)

// Result is the body of every dev OTP API response.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
