package inbound

import (
	"net/http"

	"github.com/shandysiswandi/otpverify/internal/pkg/router"
)

// RegisterHTTPEndpoint mounts the OTP API consumed by the verification flow.
// Responses are bare {success, message} bodies, not the router envelope.
func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.Raw(http.MethodPost, "/api/otp/generate", http.HandlerFunc(end.Generate))
	r.Raw(http.MethodPost, "/api/otp/verify", http.HandlerFunc(end.Verify))
}
