package inbound

import (
	"embed"
	"io/fs"
	"log/slog"
	"net/http"
)

//go:embed web
var webFS embed.FS

// Page serves the wizard markup. Each load starts its own session from the script.
func (h *HTTPEndpoint) Page(w http.ResponseWriter, r *http.Request) {
	page, err := webFS.ReadFile("web/index.html")
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to read embedded page", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(page); err != nil {
		slog.ErrorContext(r.Context(), "failed to write page", "error", err)
	}
}

// Assets serves the embedded script and stylesheet under /static/.
func (h *HTTPEndpoint) Assets() http.Handler {
	sub, err := fs.Sub(webFS, "web")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static", http.FileServer(http.FS(sub)))
}
