package otpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/shandysiswandi/otpverify/internal/pkg/instrument"
	"github.com/shandysiswandi/otpverify/internal/verification/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captured struct {
	method      string
	path        string
	contentType string
	cid         string
	body        map[string]string
}

func newServer(t *testing.T, status int, reply string) (*httptest.Server, func() []captured) {
	t.Helper()

	var mu sync.Mutex
	var calls []captured

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var body map[string]string
		_ = json.Unmarshal(raw, &body)

		mu.Lock()
		calls = append(calls, captured{
			method:      r.Method,
			path:        r.URL.Path,
			contentType: r.Header.Get("Content-Type"),
			cid:         r.Header.Get("X-Correlation-ID"),
			body:        body,
		})
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, reply)
	}))
	t.Cleanup(srv.Close)

	return srv, func() []captured {
		mu.Lock()
		defer mu.Unlock()
		return append([]captured(nil), calls...)
	}
}

func newClient(t *testing.T, base string) *Client {
	t.Helper()
	c, err := New(Config{BaseURL: base, Timeout: 2 * time.Second}, instrument.NewNoop())
	require.NoError(t, err)
	return c
}

func TestNew_RequiresBaseURL(t *testing.T) {
	_, err := New(Config{BaseURL: "  "}, instrument.NewNoop())
	assert.ErrorIs(t, err, ErrBaseURLRequired)
}

func TestClient_Generate(t *testing.T) {
	srv, calls := newServer(t, http.StatusOK, `{"success":true,"message":"OTP sent"}`)
	c := newClient(t, srv.URL+"//")

	ctx := instrument.SetCorrelationID(context.Background(), "cid-42")
	res, err := c.Generate(ctx, "user@example.com")
	require.NoError(t, err)
	assert.Equal(t, entity.APIResult{Success: true, Message: "OTP sent"}, res)

	got := calls()
	require.Len(t, got, 1)
	assert.Equal(t, http.MethodPost, got[0].method)
	assert.Equal(t, "/api/otp/generate", got[0].path)
	assert.Equal(t, "application/json", got[0].contentType)
	assert.Equal(t, "cid-42", got[0].cid)
	assert.Equal(t, map[string]string{"email": "user@example.com"}, got[0].body)
}

func TestClient_Verify(t *testing.T) {
	srv, calls := newServer(t, http.StatusOK, `{"success":true}`)
	c := newClient(t, srv.URL)

	res, err := c.Verify(context.Background(), "user@example.com", "123456")
	require.NoError(t, err)
	assert.True(t, res.Success)

	got := calls()
	require.Len(t, got, 1)
	assert.Equal(t, "/api/otp/verify", got[0].path)
	assert.Equal(t, map[string]string{"email": "user@example.com", "otp": "123456"}, got[0].body)
}

func TestClient_DecodesErrorStatusBody(t *testing.T) {
	srv, _ := newServer(t, http.StatusUnauthorized, `{"success":false,"message":"Invalid code"}`)
	c := newClient(t, srv.URL)

	res, err := c.Verify(context.Background(), "user@example.com", "000000")
	require.NoError(t, err)
	assert.Equal(t, entity.APIResult{Success: false, Message: "Invalid code"}, res)
}

func TestClient_MissingSuccessIsFailure(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, `{"message":"hm"}`)
	c := newClient(t, srv.URL)

	res, err := c.Generate(context.Background(), "user@example.com")
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "hm", res.Message)
}

func TestClient_UndecodableBody(t *testing.T) {
	srv, _ := newServer(t, http.StatusBadGateway, `<html>bad gateway</html>`)
	c := newClient(t, srv.URL)

	_, err := c.Generate(context.Background(), "user@example.com")
	assert.ErrorIs(t, err, ErrUndecodable)
}

func TestClient_TransportError(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, `{}`)
	base := srv.URL
	srv.Close()

	c := newClient(t, base)
	_, err := c.Generate(context.Background(), "user@example.com")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUndecodable)
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	c, err := New(Config{BaseURL: srv.URL, Timeout: 50 * time.Millisecond}, instrument.NewNoop())
	require.NoError(t, err)

	_, err = c.Verify(context.Background(), "user@example.com", "123456")
	assert.Error(t, err)
}
