package instrument

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	return out
}

func TestNewLogger_RenamesKeysAndStampsContext(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, &Config{ServiceName: "otpverify"}, nil)

	ctx := SetCorrelationID(context.Background(), "cid-1")
	logger.InfoContext(ctx, "hello", "email", "a@b.co")

	line := decodeLine(t, &buf)
	assert.Equal(t, "INFO", line["severity"])
	assert.Contains(t, line, "ts")
	assert.Equal(t, "cid-1", line["_cID"])
	assert.Equal(t, "otpverify", line["service"])
	assert.Equal(t, "a@b.co", line["email"])
}

func TestNewLogger_MasksFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, &Config{MaskFields: []string{"OTP", " code "}}, nil)

	logger.Info("verify",
		"otp", "123456",
		"payload", map[string]any{"code": "999999", "email": "a@b.co"},
	)

	line := decodeLine(t, &buf)
	assert.Equal(t, "***", line["otp"])
	payload, ok := line["payload"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "***", payload["code"])
	assert.Equal(t, "a@b.co", payload["email"])
}

func TestNewLogger_MasksWithAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, &Config{MaskFields: []string{"otp"}}, nil).With("otp", "123456")

	logger.Info("bound")

	assert.Equal(t, "***", decodeLine(t, &buf)["otp"])
}

func TestNewLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, &Config{LogLevel: "warn"}, nil)

	logger.Info("dropped")
	assert.Zero(t, buf.Len())

	logger.Warn("kept")
	assert.Equal(t, "WARN", decodeLine(t, &buf)["severity"])
}

func TestCorrelationID(t *testing.T) {
	assert.Empty(t, GetCorrelationID(context.Background()))
	assert.Equal(t, "x", GetCorrelationID(SetCorrelationID(context.Background(), "x")))
}

func TestNewNoop(t *testing.T) {
	inst := NewNoop()
	_, span := inst.Tracer("t").Start(context.Background(), "op")
	span.End()
	assert.NoError(t, inst.Shutdown(context.Background()))
}
