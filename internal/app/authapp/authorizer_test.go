package authapp

import (
	"testing"
	"time"

	"github.com/burenotti/go_diet_backend/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthorizer() *Authorizer {
	return &Authorizer{
		Cost:           bcrypt.MinCost,
		Secret:         "test-secret",
		AccessTokenTTL: time.Hour,
		SessionTTL:     24 * time.Hour,
	}
}

func TestAuthorizer_OpenSession(t *testing.T) {
	a := newAuthorizer()
	u := user.New("user-1", "eater@example.com", "correct horse", a)

	_, err := a.OpenSession(u, "wrong horse", user.Device{})
	assert.ErrorIs(t, err, user.ErrInvalidCredentials)

	s, err := a.OpenSession(u, "correct horse", user.Device{OS: "Linux"})
	require.NoError(t, err)
	assert.Len(t, s.SessionID, 64)
	assert.Equal(t, "Linux", s.Device.OS)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), s.ValidUntil, time.Minute)
}

func TestAuthorizer_AccessToken(t *testing.T) {
	a := newAuthorizer()
	u := &user.User{UserID: "user-1"}
	s := &user.Session{SessionID: "session-1"}

	token, err := a.GenerateAccessToken(u, s)
	require.NoError(t, err)

	data, err := a.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, &AccessTokenData{SessionID: "session-1", UserID: "user-1"}, data)

	other := newAuthorizer()
	other.Secret = "another-secret"
	_, err = other.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrAccessTokenInvalid)

	_, err = a.ValidateAccessToken("not-a-token")
	assert.ErrorIs(t, err, ErrAccessTokenInvalid)
}

func TestAuthorizer_ExpiredToken(t *testing.T) {
	a := newAuthorizer()
	a.AccessTokenTTL = -time.Minute

	token, err := a.GenerateAccessToken(&user.User{UserID: "u"}, &user.Session{SessionID: "s"})
	require.NoError(t, err)

	_, err = a.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrAccessTokenExpired)
	assert.ErrorIs(t, err, ErrAccessTokenInvalid)
}
