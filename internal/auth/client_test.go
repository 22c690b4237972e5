package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/docuflow/docuflow/internal/api"
	apperrors "github.com/docuflow/docuflow/internal/errors"
	"github.com/docuflow/docuflow/internal/models"
	"github.com/docuflow/docuflow/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeService mimics the authentication routes of the docuflow backend.
type fakeService struct {
	users   map[string]string // username -> password
	tokens  map[string]string // token -> username
	meCalls atomic.Int32

	mu       sync.Mutex
	lastBody map[string]any
}

func (f *fakeService) recordBody(r *http.Request) map[string]any {
	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)
	f.mu.Lock()
	f.lastBody = body
	f.mu.Unlock()
	return body
}

func (f *fakeService) body() map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastBody
}

func newFakeService() *fakeService {
	return &fakeService{
		users:  map[string]string{"alice": "s3cret"},
		tokens: map[string]string{"valid-token": "alice"},
	}
}

func (f *fakeService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	switch r.URL.Path {
	case "/api/auth/login":
		body := f.recordBody(r)
		username, _ := body["username"].(string)
		password, _ := body["password"].(string)
		if f.users[username] != password || password == "" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":"Incorrect username or password"}`))
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"valid-token","token_type":"bearer","username":"` + username + `"}`))
	case "/api/auth/register":
		body := f.recordBody(r)
		username, _ := body["username"].(string)
		if _, exists := f.users[username]; exists {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"detail":"Username already registered"}`))
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"new-token","token_type":"bearer","username":"` + username + `"}`))
	case "/api/auth/me":
		f.meCalls.Add(1)
		token := r.Header.Get("Authorization")
		username, ok := f.tokens[strings.TrimPrefix(token, "Bearer ")]
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":"Could not validate credentials"}`))
			return
		}
		_, _ = w.Write([]byte(`{"id":7,"username":"` + username + `","email":"alice@example.com","full_name":"Alice A"}`))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func setup(t *testing.T, handler http.Handler) (*Client, *storage.MemoryStore) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store := storage.NewMemoryStore()
	return NewClient(api.NewClient(srv.URL), store), store
}

func unreachableClient(t *testing.T) (*Client, *storage.MemoryStore) {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	store := storage.NewMemoryStore()
	return NewClient(api.NewClient(url), store), store
}

func TestLogin_PersistsSession(t *testing.T) {
	client, store := setup(t, newFakeService())

	session, err := client.Login(context.Background(), "alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, models.Session{Token: "valid-token", Username: "alice"}, session)

	stored, ok := store.Load()
	require.True(t, ok)
	assert.Equal(t, session, stored)
}

func TestLogin_RejectedKeepsStoreUntouched(t *testing.T) {
	client, store := setup(t, newFakeService())
	previous := models.Session{Token: "old", Username: "bob"}
	require.NoError(t, store.Save(previous))

	_, err := client.Login(context.Background(), "alice", "wrong")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindAuth, apperrors.KindOf(err))
	assert.Equal(t, "Incorrect username or password", apperrors.MessageOf(err))
	assert.Equal(t, http.StatusUnauthorized, apperrors.StatusOf(err))

	stored, ok := store.Load()
	require.True(t, ok)
	assert.Equal(t, previous, stored)
}

func TestLogin_FallbackMessage(t *testing.T) {
	client, _ := setup(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`upstream down`))
	}))

	_, err := client.Login(context.Background(), "alice", "s3cret")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindAuth, apperrors.KindOf(err))
	assert.Equal(t, "Authentication failed", apperrors.MessageOf(err))
	assert.Equal(t, http.StatusServiceUnavailable, apperrors.StatusOf(err))
}

func TestLogin_MissingTokenInResponse(t *testing.T) {
	client, store := setup(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"username":"alice"}`))
	}))

	_, err := client.Login(context.Background(), "alice", "s3cret")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindAuth, apperrors.KindOf(err))

	_, ok := store.Load()
	assert.False(t, ok)
}

func TestLogin_Unreachable(t *testing.T) {
	client, store := unreachableClient(t)

	_, err := client.Login(context.Background(), "alice", "s3cret")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNetwork, apperrors.KindOf(err))

	_, ok := store.Load()
	assert.False(t, ok)
}

func TestRegister(t *testing.T) {
	tests := []struct {
		name         string
		input        RegisterInput
		wantFullName any
	}{
		{
			name:         "with full name",
			input:        RegisterInput{Username: "carol", Email: "carol@example.com", Password: "pw", FullName: "Carol C"},
			wantFullName: "Carol C",
		},
		{
			name:         "full name omitted is sent as null",
			input:        RegisterInput{Username: "dave", Email: "dave@example.com", Password: "pw"},
			wantFullName: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := newFakeService()
			client, store := setup(t, fake)

			session, err := client.Register(context.Background(), tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.input.Username, session.Username)
			assert.Equal(t, "new-token", session.Token)

			body := fake.body()
			require.Contains(t, body, "full_name")
			assert.Equal(t, tt.wantFullName, body["full_name"])
			assert.Equal(t, tt.input.Email, body["email"])

			stored, ok := store.Load()
			require.True(t, ok)
			assert.Equal(t, session, stored)
		})
	}
}

func TestRegister_Duplicate(t *testing.T) {
	client, store := setup(t, newFakeService())

	_, err := client.Register(context.Background(), RegisterInput{Username: "alice", Email: "a@example.com", Password: "pw"})
	require.Error(t, err)
	assert.Equal(t, "Username already registered", apperrors.MessageOf(err))

	_, ok := store.Load()
	assert.False(t, ok)
}

func TestVerify(t *testing.T) {
	client, _ := setup(t, newFakeService())

	assert.True(t, client.Verify(context.Background(), "valid-token"))
	assert.False(t, client.Verify(context.Background(), "expired-token"))
	assert.False(t, client.Verify(context.Background(), "not a token at all"))

	offline, _ := unreachableClient(t)
	assert.False(t, offline.Verify(context.Background(), "valid-token"))
}

func TestVerify_ExpiredJWTSkipsRequest(t *testing.T) {
	svc := newFakeService()
	client, _ := setup(t, svc)

	assert.False(t, client.Verify(context.Background(), signedToken(t, time.Now().Add(-time.Hour))))
	assert.False(t, client.Verify(context.Background(), ""))
	assert.Zero(t, svc.meCalls.Load())
}

func TestMe(t *testing.T) {
	client, store := setup(t, newFakeService())
	require.NoError(t, store.Save(models.Session{Token: "valid-token", Username: "alice"}))

	profile, err := client.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &models.Profile{ID: 7, Username: "alice", Email: "alice@example.com", FullName: "Alice A"}, profile)
}

func TestMe_NoSession(t *testing.T) {
	fake := newFakeService()
	client, _ := setup(t, fake)

	_, err := client.Me(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotAuthenticated)
	assert.Equal(t, int32(0), fake.meCalls.Load())
}

func TestMe_ExpiredClearsSession(t *testing.T) {
	client, store := setup(t, newFakeService())
	require.NoError(t, store.Save(models.Session{Token: "revoked", Username: "alice"}))

	_, err := client.Me(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrSessionExpired)

	_, ok := store.Load()
	assert.False(t, ok)
}

func TestRestore(t *testing.T) {
	t.Run("valid session kept", func(t *testing.T) {
		client, store := setup(t, newFakeService())
		require.NoError(t, store.Save(models.Session{Token: "valid-token", Username: "alice"}))

		session, ok := client.Restore(context.Background())
		require.True(t, ok)
		assert.Equal(t, "alice", session.Username)
	})

	t.Run("invalid session cleared", func(t *testing.T) {
		client, store := setup(t, newFakeService())
		require.NoError(t, store.Save(models.Session{Token: "stale", Username: "alice"}))

		_, ok := client.Restore(context.Background())
		assert.False(t, ok)

		_, ok = store.Load()
		assert.False(t, ok)
	})

	t.Run("no session makes no call", func(t *testing.T) {
		fake := newFakeService()
		client, _ := setup(t, fake)

		_, ok := client.Restore(context.Background())
		assert.False(t, ok)
		assert.Equal(t, int32(0), fake.meCalls.Load())
	})

	t.Run("unreachable service clears session", func(t *testing.T) {
		client, store := unreachableClient(t)
		require.NoError(t, store.Save(models.Session{Token: "valid-token", Username: "alice"}))

		_, ok := client.Restore(context.Background())
		assert.False(t, ok)

		_, ok = store.Load()
		assert.False(t, ok)
	})
}

func TestLogout(t *testing.T) {
	client, store := setup(t, newFakeService())
	require.NoError(t, store.Save(models.Session{Token: "t", Username: "u"}))

	client.Logout()
	client.Logout()

	_, ok := store.Load()
	assert.False(t, ok)
}
