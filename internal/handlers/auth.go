package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/docuflow/docuflow/internal/auth"
	"github.com/docuflow/docuflow/internal/models"
)

type statusResponse struct {
	Backend       models.BackendStatus `json:"backend"`
	Authenticated bool                 `json:"authenticated"`
	Username      string               `json:"username,omitempty"`
}

type sessionResponse struct {
	Username string `json:"username"`
}

func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := statusResponse{Backend: h.probe.Check(r.Context())}
	if session, ok := h.sessions.Load(); ok {
		response.Authenticated = true
		response.Username = session.Username
	}

	h.writeJSON(w, response)
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var request struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	session, err := h.auth.Login(r.Context(), request.Username, request.Password)
	if err != nil {
		h.writeAppError(w, r, err)
		return
	}

	h.writeJSON(w, sessionResponse{Username: session.Username})
}

func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var request struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
		FullName string `json:"full_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	session, err := h.auth.Register(r.Context(), auth.RegisterInput{
		Username: request.Username,
		Email:    request.Email,
		Password: request.Password,
		FullName: request.FullName,
	})
	if err != nil {
		h.writeAppError(w, r, err)
		return
	}

	h.writeJSON(w, sessionResponse{Username: session.Username})
}

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	h.auth.Logout()
	w.WriteHeader(http.StatusNoContent)
}
