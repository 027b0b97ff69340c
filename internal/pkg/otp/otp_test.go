package otp

import (
	"regexp"
	"testing"

	libotp "github.com/pquerna/otp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHOTPGenerateCode(t *testing.T) {
	gen := NewHOTP("otpverify-test", libotp.DigitsSix)
	assert.Equal(t, 6, gen.Length())

	sixDigits := regexp.MustCompile(`^[0-9]{6}$`)
	seen := make(map[string]struct{})
	for range 20 {
		code, err := gen.GenerateCode("user@example.com")
		require.NoError(t, err)
		assert.Regexp(t, sixDigits, code)
		seen[code] = struct{}{}
	}

	// fresh secrets per call; 20 identical draws would mean a broken generator
	assert.Greater(t, len(seen), 1)
}

func TestHOTPDefaults(t *testing.T) {
	gen := NewHOTP("", libotp.Digits(7))
	assert.Equal(t, 6, gen.Length())

	_, err := gen.GenerateCode("")
	assert.ErrorIs(t, err, ErrAccountRequired)
}
