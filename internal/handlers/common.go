package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/docuflow/docuflow/internal/auth"
	apperrors "github.com/docuflow/docuflow/internal/errors"
	"github.com/docuflow/docuflow/internal/generation"
	"github.com/docuflow/docuflow/internal/health"
	"github.com/docuflow/docuflow/internal/storage"
)

type Handler struct {
	auth         *auth.Client
	probe        *health.Probe
	orchestrator *generation.Orchestrator
	sessions     storage.SessionStore
}

// errorResponse is the body of every failed API call
type errorResponse struct {
	Error  string         `json:"error"`
	Kind   apperrors.Kind `json:"kind,omitempty"`
	Status int            `json:"status,omitempty"`
}

func New(authClient *auth.Client, probe *health.Probe, orchestrator *generation.Orchestrator, sessions storage.SessionStore) *Handler {
	return &Handler{
		auth:         authClient,
		probe:        probe,
		orchestrator: orchestrator,
		sessions:     sessions,
	}
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	slog.Error(message)
	h.writeErrorResponse(w, errorResponse{Error: message}, code)
}

// writeAppError renders err with the HTTP status that matches its kind
func (h *Handler) writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperrors.KindOf(err)
	upstream := apperrors.StatusOf(err)

	code := http.StatusInternalServerError
	switch kind {
	case apperrors.KindValidation:
		code = http.StatusBadRequest
	case apperrors.KindAuth:
		code = http.StatusUnauthorized
	case apperrors.KindServer:
		code = http.StatusBadGateway
		if upstream >= 400 && upstream < 600 {
			code = upstream
		}
	case apperrors.KindNetwork:
		code = http.StatusBadGateway
	}

	slog.ErrorContext(r.Context(), "Request failed", "path", r.URL.Path, "kind", kind, "status", code, "err", err)
	h.writeErrorResponse(w, errorResponse{
		Error:  apperrors.MessageOf(err),
		Kind:   kind,
		Status: upstream,
	}, code)
}

func (h *Handler) writeErrorResponse(w http.ResponseWriter, body errorResponse, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Unable to encode JSON error", "err", err)
	}
}
