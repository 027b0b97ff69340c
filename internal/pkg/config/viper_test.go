package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
app:
  server:
    cors: "http://localhost:3000,http://localhost:8080"
verification:
  code_ttl_seconds: 600
  shake_millis: 500
  api:
    base_url: "http://localhost:8080/"
instrument:
  log_mask_fields:
    - otp
    - code
`

func TestViperFromBytes(t *testing.T) {
	cfg, err := NewViperFromBytes("yaml", []byte(sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, 600*time.Second, cfg.GetSecond("verification.code_ttl_seconds"))
	assert.Equal(t, 500*time.Millisecond, cfg.GetMillisecond("verification.shake_millis"))
	assert.Equal(t, 600, cfg.GetInt("verification.code_ttl_seconds"))
	assert.Equal(t, "http://localhost:8080/", cfg.GetString("verification.api.base_url"))
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:8080"}, cfg.GetArray("app.server.cors"))
	assert.Equal(t, []string{"otp", "code"}, cfg.GetArray("instrument.log_mask_fields"))
	assert.Nil(t, cfg.GetArray("missing.key"))
	assert.NoError(t, cfg.Close())
}

func TestViperEnvOverride(t *testing.T) {
	t.Setenv("OTPVERIFY_VERIFICATION_API_BASE_URL", "https://otp.example.com")

	cfg, err := NewViperFromBytes("yaml", []byte(sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "https://otp.example.com", cfg.GetString("verification.api.base_url"))
}

func TestViperFromBytesRequiresType(t *testing.T) {
	_, err := NewViperFromBytes(" ", []byte(sampleYAML))
	assert.Error(t, err)
}
