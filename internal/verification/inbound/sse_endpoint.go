package inbound

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/shandysiswandi/otpverify/internal/pkg/goerror"
	"github.com/shandysiswandi/otpverify/internal/pkg/router"
	"github.com/shandysiswandi/otpverify/internal/verification/usecase"
)

// Stream sends the session view as a "view" event, then every render
// instruction as an "instruction" event until the client leaves or the
// session ends.
func (h *HTTPEndpoint) Stream(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req := &router.Request{Request: r}

	view, stream, err := h.uc.Subscribe(ctx, usecase.SessionInput{SessionID: req.GetParam("id")})
	if err != nil {
		code := http.StatusInternalServerError
		if goerror.CodeOf(err) == goerror.CodeNotFound {
			code = http.StatusNotFound
		}
		router.WriteJSON(w, map[string]string{"message": err.Error()}, code)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	if err := writeEvent(w, "view", view); err != nil {
		slog.ErrorContext(ctx, "failed to send verification view", "error", err)
		return
	}
	flusher.Flush()

	// heartbeat ping, so proxies won't drop idle connections.
	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()

		case ins, ok := <-stream:
			if !ok {
				return
			}
			if err := writeEvent(w, "instruction", ins); err != nil {
				slog.ErrorContext(ctx, "failed to send verification instruction", "error", err)
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, event string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, payload)
	return err
}
