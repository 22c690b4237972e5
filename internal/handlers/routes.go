package handlers

import (
	"log/slog"
	"net/http"
)

// Routes returns the mux serving the local API
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/status", h.HandleStatus)
	mux.HandleFunc("/api/login", h.HandleLogin)
	mux.HandleFunc("/api/register", h.HandleRegister)
	mux.HandleFunc("/api/logout", h.HandleLogout)
	mux.HandleFunc("/api/generate", h.HandleGenerate)
	mux.HandleFunc("/api/preview", h.HandlePreview)
	mux.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			slog.Error("Unable to write healthcheck", "err", err)
		}
	})
	return mux
}
