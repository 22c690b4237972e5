package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// signedToken issues a token the way the service does: HS256 with sub and exp.
func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":     "alice",
		"user_id": 7,
		"exp":     exp.Unix(),
	})
	s, err := token.SignedString([]byte("server-side-secret"))
	require.NoError(t, err)
	return s
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	got, ok := TokenExpiry(signedToken(t, exp))
	require.True(t, ok)
	assert.True(t, exp.Equal(got))
}

func TestTokenExpiry_Opaque(t *testing.T) {
	for _, token := range []string{"", "valid-token", "a.b.c"} {
		_, ok := TokenExpiry(token)
		assert.False(t, ok, token)
	}
}

func TestTokenExpiry_NoExpClaim(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "alice"})
	s, err := token.SignedString([]byte("k"))
	require.NoError(t, err)

	_, ok := TokenExpiry(s)
	assert.False(t, ok)
}

func TestExpired(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{name: "past expiry", token: signedToken(t, now.Add(-time.Minute)), want: true},
		{name: "expires exactly now", token: signedToken(t, now), want: true},
		{name: "future expiry", token: signedToken(t, now.Add(time.Hour)), want: false},
		{name: "opaque token", token: "valid-token", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Expired(tt.token, now))
		})
	}
}
