package otp

import (
	"errors"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/hotp"
)

// ErrAccountRequired is returned when no account name is given.
var ErrAccountRequired = errors.New("otp account name is required")

// Generator produces one-time codes.
type Generator interface {
	// GenerateCode returns a new numeric code bound to accountName.
	GenerateCode(accountName string) (string, error)
}

// HOTP implements Generator with the HMAC-based One-Time Password algorithm.
type HOTP struct {
	issuer string
	digits otp.Digits
}

// NewHOTP constructs an HOTP generator.
//
// If digits is not 6 or 8, it falls back to 6 digits. An empty issuer becomes "otpverify".
func NewHOTP(issuer string, digits otp.Digits) *HOTP {
	if digits != otp.DigitsSix && digits != otp.DigitsEight {
		digits = otp.DigitsSix
	}

	if issuer == "" {
		issuer = "otpverify"
	}

	return &HOTP{issuer: issuer, digits: digits}
}

// Length returns the number of digits in generated codes.
func (o *HOTP) Length() int {
	return o.digits.Length()
}

// GenerateCode creates a fresh secret for accountName and returns its first code.
func (o *HOTP) GenerateCode(accountName string) (string, error) {
	if accountName == "" {
		return "", ErrAccountRequired
	}

	key, err := hotp.Generate(hotp.GenerateOpts{
		Issuer:      o.issuer,
		AccountName: accountName,
		SecretSize:  20, // RFC 4226 recommendation
		Digits:      o.digits,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return "", err
	}

	return hotp.GenerateCodeCustom(key.Secret(), 0, hotp.ValidateOpts{
		Digits:    o.digits,
		Algorithm: otp.AlgorithmSHA1,
	})
}
