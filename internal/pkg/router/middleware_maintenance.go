package router

import (
	"net/http"
	"strings"

	"github.com/shandysiswandi/otpverify/internal/pkg/config"
)

// middlewareMaintenance answers 503 for the route patterns listed under
// app.maintenance.endpoints, entries are "METHOD /pattern" or just "/pattern".
func middlewareMaintenance(cfg config.Config) Middleware {
	blocked := make(map[string]struct{})
	if cfg != nil {
		for _, entry := range cfg.GetArray("app.maintenance.endpoints") {
			if entry = strings.TrimSpace(entry); entry != "" {
				blocked[entry] = struct{}{}
			}
		}
	}

	return func(next http.Handler) http.Handler {
		if len(blocked) == 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route := matchedRoutePath(r)
			_, whole := blocked[route]
			_, exact := blocked[r.Method+" "+route]
			if whole || exact {
				WriteJSON(w, errorResponse{Message: "service is under maintenance"}, http.StatusServiceUnavailable)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
