package inbound

import (
	"net/http"

	"github.com/shandysiswandi/otpverify/internal/verification/entity"
)

type RequestCodeRequest struct {
	Email string `json:"email"`
}

type InputSlotRequest struct {
	Value string `json:"value"`
}

// SessionCreatedResponse is returned with 201 when a session starts.
type SessionCreatedResponse struct {
	entity.View
	StreamURL string `json:"-"`
}

func (SessionCreatedResponse) StatusCode() int { return http.StatusCreated }

func (SessionCreatedResponse) Message() string { return "verification session created" }

func (r SessionCreatedResponse) Meta() map[string]any {
	return map[string]any{"stream_url": r.StreamURL}
}
