package inbound

import (
	"net/http"
	"strings"
	"time"

	"github.com/shandysiswandi/otpverify/internal/pkg/router"
)

const sessionPath = "/api/v1/verification/sessions/:id"

// RegisterHTTPEndpoint mounts the wizard page and its session API. When
// streamBase is set, clients are told to open streams on that origin.
func RegisterHTTPEndpoint(r *router.Router, uc uc, streamBase string) {
	end := &HTTPEndpoint{uc: uc, heartbeat: 25 * time.Second, streamBase: strings.TrimRight(streamBase, "/")}

	r.Raw(http.MethodGet, "/", http.HandlerFunc(end.Page))
	r.Raw(http.MethodGet, "/static/*filepath", end.Assets())

	r.POST("/api/v1/verification/sessions", end.CreateSession)
	r.GET(sessionPath, end.GetSession)
	r.DELETE(sessionPath, end.CloseSession)
	r.Raw(http.MethodGet, sessionPath+"/stream", http.HandlerFunc(end.Stream))

	r.POST(sessionPath+"/code/request", end.RequestCode)
	r.POST(sessionPath+"/code/verify", end.VerifyCode)
	r.POST(sessionPath+"/code/resend", end.ResendCode)
	r.POST(sessionPath+"/email/change", end.ChangeEmail)
	r.POST(sessionPath+"/reset", end.ResetFlow)

	r.POST(sessionPath+"/slots/:index", end.InputSlot)
	r.POST(sessionPath+"/slots/:index/advance", end.AdvanceSlot)
	r.POST(sessionPath+"/slots/:index/backspace", end.BackspaceSlot)
}
