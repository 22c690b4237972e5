package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/docuflow/docuflow/internal/api"
	apperrors "github.com/docuflow/docuflow/internal/errors"
	"github.com/docuflow/docuflow/internal/models"
	"github.com/docuflow/docuflow/internal/storage"
)

const defaultAuthError = "Authentication failed"

// Client performs login, registration and token checks against the service.
// The session store is only written on success and never consulted to decide
// the outcome of a call.
type Client struct {
	api      *api.Client
	sessions storage.SessionStore
}

// RegisterInput holds the fields of a new account
type RegisterInput struct {
	Username string
	Email    string
	Password string
	FullName string // optional
}

// tokenResponse is the body of a successful login or registration
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Username    string `json:"username"`
}

func NewClient(apiClient *api.Client, sessions storage.SessionStore) *Client {
	return &Client{
		api:      apiClient,
		sessions: sessions,
	}
}

// Login exchanges credentials for a session and persists it
func (c *Client) Login(ctx context.Context, username, password string) (models.Session, error) {
	body := map[string]string{
		"username": username,
		"password": password,
	}
	return c.authenticate(ctx, "/api/auth/login", body)
}

// Register creates an account, persists the returned session and returns it
func (c *Client) Register(ctx context.Context, in RegisterInput) (models.Session, error) {
	var fullName *string
	if in.FullName != "" {
		fullName = &in.FullName
	}
	body := struct {
		Username string  `json:"username"`
		Email    string  `json:"email"`
		Password string  `json:"password"`
		FullName *string `json:"full_name"`
	}{
		Username: in.Username,
		Email:    in.Email,
		Password: in.Password,
		FullName: fullName,
	}
	return c.authenticate(ctx, "/api/auth/register", body)
}

func (c *Client) authenticate(ctx context.Context, path string, body any) (models.Session, error) {
	req, err := c.api.NewJSONRequest(ctx, http.MethodPost, path, body)
	if err != nil {
		return models.Session{}, err
	}

	resp, err := c.api.Do(req)
	if err != nil {
		return models.Session{}, err
	}
	defer resp.Body.Close()

	if !api.OK(resp) {
		msg := api.ErrorMessage(resp, "detail")
		if msg == "" {
			msg = defaultAuthError
		}
		slog.WarnContext(req.Context(), "Authentication rejected", "path", path, "status", resp.StatusCode)
		return models.Session{}, apperrors.Auth(msg).WithStatus(resp.StatusCode)
	}

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return models.Session{}, apperrors.Auth(defaultAuthError).WithCause(fmt.Errorf("failed to decode token response: %w", err))
	}

	session := models.Session{Token: token.AccessToken, Username: token.Username}
	if !session.Valid() {
		return models.Session{}, apperrors.Auth(defaultAuthError).WithCause(fmt.Errorf("token response is missing access_token or username"))
	}

	if err := c.sessions.Save(session); err != nil {
		slog.WarnContext(req.Context(), "Unable to persist session", "err", err)
	}

	slog.InfoContext(req.Context(), "Authenticated", "username", session.Username, "path", path)
	return session, nil
}

// Verify reports whether the service accepts token. Any failure, including
// an unreachable service, is reported as false. A JWT whose exp claim has
// passed is rejected without a request.
func (c *Client) Verify(ctx context.Context, token string) bool {
	if token == "" || Expired(token, time.Now()) {
		return false
	}

	req, err := c.api.NewRequest(ctx, http.MethodGet, "/api/auth/me", nil)
	if err != nil {
		return false
	}
	api.SetBearer(req, token)

	resp, err := c.api.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return api.OK(resp)
}

// Me returns the profile of the stored session. A 401 clears the session.
func (c *Client) Me(ctx context.Context) (*models.Profile, error) {
	session, ok := c.sessions.Load()
	if !ok {
		return nil, apperrors.Auth("You must be logged in.").WithCause(apperrors.ErrNotAuthenticated)
	}

	req, err := c.api.NewRequest(ctx, http.MethodGet, "/api/auth/me", nil)
	if err != nil {
		return nil, err
	}
	api.SetBearer(req, session.Token)

	resp, err := c.api.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.Logout()
		return nil, apperrors.Auth("Your session has expired. Please login again.").
			WithCause(apperrors.ErrSessionExpired).
			WithStatus(resp.StatusCode)
	}
	if !api.OK(resp) {
		msg := api.ErrorMessage(resp, "detail")
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, apperrors.Server(resp.StatusCode, msg)
	}

	var profile models.Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}
	return &profile, nil
}

// Restore loads the stored session and checks it with the service.
// A session the service no longer accepts is cleared.
func (c *Client) Restore(ctx context.Context) (models.Session, bool) {
	session, ok := c.sessions.Load()
	if !ok {
		return models.Session{}, false
	}

	if !c.Verify(ctx, session.Token) {
		slog.InfoContext(ctx, "Stored session is no longer valid", "username", session.Username)
		c.Logout()
		return models.Session{}, false
	}

	return session, true
}

// Logout forgets the stored session
func (c *Client) Logout() {
	if err := c.sessions.Clear(); err != nil {
		slog.Warn("Unable to clear session", "err", err)
	}
}
