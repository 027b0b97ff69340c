// Package otpapi calls the remote service that issues and checks email codes.
package otpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shandysiswandi/otpverify/internal/pkg/instrument"
	"github.com/shandysiswandi/otpverify/internal/verification/entity"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	pathGenerate = "/api/otp/generate"
	pathVerify   = "/api/otp/verify"

	maxResponseBytes = 64 * 1024
)

var (
	// ErrBaseURLRequired is returned by New when no base URL is configured.
	ErrBaseURLRequired = errors.New("otp api base url is required")
	// ErrUndecodable is wrapped when a response body is not the expected JSON.
	ErrUndecodable = errors.New("otp api returned an undecodable body")
)

type generateRequest struct {
	Email string `json:"email"`
}

type verifyRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// Client talks JSON to {base}/api/otp/*. It never retries.
type Client struct {
	base string
	http *http.Client
	ins  instrument.Instrumentation
}

type Config struct {
	BaseURL string
	Timeout time.Duration
	// Transport overrides the round tripper wrapped by otelhttp. Nil uses http.DefaultTransport.
	Transport http.RoundTripper
}

func New(cfg Config, ins instrument.Instrumentation) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, ErrBaseURLRequired
	}

	rt := cfg.Transport
	if rt == nil {
		rt = http.DefaultTransport
	}

	return &Client{
		base: base,
		http: &http.Client{
			Timeout: cfg.Timeout,
			Transport: otelhttp.NewTransport(rt,
				otelhttp.WithTracerProvider(ins.TracerProvider()),
				otelhttp.WithMeterProvider(ins.MeterProvider()),
			),
		},
		ins: ins,
	}, nil
}

// Generate asks the service to send a code to email.
func (c *Client) Generate(ctx context.Context, email string) (entity.APIResult, error) {
	return c.post(ctx, "Generate", pathGenerate, generateRequest{Email: email})
}

// Verify checks otp for email.
func (c *Client) Verify(ctx context.Context, email, otp string) (entity.APIResult, error) {
	return c.post(ctx, "Verify", pathVerify, verifyRequest{Email: email, OTP: otp})
}

// post sends body and decodes {success, message} whatever the status code.
// A missing success field reads as false; a body that is not a JSON object
// counts as a transport failure.
func (c *Client) post(ctx context.Context, name, path string, body any) (res entity.APIResult, err error) {
	ctx, span := c.ins.Tracer("verification.outbound.otpapi").Start(ctx, name)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	payload, err := json.Marshal(body)
	if err != nil {
		return entity.APIResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(payload))
	if err != nil {
		return entity.APIResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if cid := instrument.GetCorrelationID(ctx); cid != "" {
		req.Header.Set("X-Correlation-ID", cid)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return entity.APIResult{}, fmt.Errorf("otp api %s: %w", path, err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return entity.APIResult{}, fmt.Errorf("otp api %s: read body: %w", path, err)
	}

	var out entity.APIResult
	if err := json.Unmarshal(raw, &out); err != nil {
		return entity.APIResult{}, fmt.Errorf("%w: %s status %d: %w", ErrUndecodable, path, resp.StatusCode, err)
	}

	return out, nil
}
