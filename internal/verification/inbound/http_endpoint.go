package inbound

import (
	"time"

	"github.com/shandysiswandi/otpverify/internal/pkg/router"
	"github.com/shandysiswandi/otpverify/internal/verification/usecase"
)

type HTTPEndpoint struct {
	uc         uc
	heartbeat  time.Duration
	streamBase string
}

// CreateSession starts a new wizard for one page load.
func (h *HTTPEndpoint) CreateSession(r *router.Request) (any, error) {
	view, err := h.uc.CreateSession(r.Context())
	if err != nil {
		return nil, err
	}

	return SessionCreatedResponse{
		View:      view,
		StreamURL: h.streamBase + "/api/v1/verification/sessions/" + view.SessionID + "/stream",
	}, nil
}

func (h *HTTPEndpoint) GetSession(r *router.Request) (any, error) {
	return h.uc.GetView(r.Context(), sessionInput(r))
}

func (h *HTTPEndpoint) CloseSession(r *router.Request) (any, error) {
	return nil, h.uc.CloseSession(r.Context(), r.GetParam("id"))
}

// RequestCode validates the submitted email and asks the OTP API for a code.
// Validation and API failures come back as field errors inside the view.
func (h *HTTPEndpoint) RequestCode(r *router.Request) (any, error) {
	var req RequestCodeRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	return h.uc.RequestCode(r.Context(), usecase.RequestCodeInput{
		SessionID: r.GetParam("id"),
		Email:     req.Email,
	})
}

func (h *HTTPEndpoint) VerifyCode(r *router.Request) (any, error) {
	return h.uc.VerifyCode(r.Context(), sessionInput(r))
}

func (h *HTTPEndpoint) ResendCode(r *router.Request) (any, error) {
	return h.uc.ResendCode(r.Context(), sessionInput(r))
}

func (h *HTTPEndpoint) ChangeEmail(r *router.Request) (any, error) {
	return h.uc.ChangeEmail(r.Context(), sessionInput(r))
}

func (h *HTTPEndpoint) ResetFlow(r *router.Request) (any, error) {
	return h.uc.ResetFlow(r.Context(), sessionInput(r))
}

// InputSlot stores one character typed into a code slot.
func (h *HTTPEndpoint) InputSlot(r *router.Request) (any, error) {
	in, err := slotInput(r)
	if err != nil {
		return nil, err
	}

	var req InputSlotRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}
	in.Value = req.Value

	return h.uc.InputSlot(r.Context(), in)
}

func (h *HTTPEndpoint) AdvanceSlot(r *router.Request) (any, error) {
	in, err := slotInput(r)
	if err != nil {
		return nil, err
	}
	return h.uc.AdvanceSlot(r.Context(), in)
}

func (h *HTTPEndpoint) BackspaceSlot(r *router.Request) (any, error) {
	in, err := slotInput(r)
	if err != nil {
		return nil, err
	}
	return h.uc.BackspaceSlot(r.Context(), in)
}

func sessionInput(r *router.Request) usecase.SessionInput {
	return usecase.SessionInput{SessionID: r.GetParam("id")}
}

func slotInput(r *router.Request) (usecase.SlotInput, error) {
	index, err := r.GetParamInt("index")
	if err != nil {
		return usecase.SlotInput{}, err
	}
	return usecase.SlotInput{SessionID: r.GetParam("id"), Index: index}, nil
}
