package user

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuthorizer struct {
	password string
}

func (a stubAuthorizer) Hash(password string) string {
	return "hashed:" + password
}

func (a stubAuthorizer) OpenSession(_ *User, password string, dev Device) (*Session, error) {
	if password != a.password {
		return nil, ErrInvalidCredentials
	}
	now := time.Now().UTC()
	return &Session{SessionID: "s-1", CreatedAt: now, ValidUntil: now.Add(time.Hour), Device: dev}, nil
}

func TestUser_LoginLogout(t *testing.T) {
	a := stubAuthorizer{password: "secret-password"}
	u := New("u-1", "a@b.c", "secret-password", a)
	assert.Equal(t, "hashed:secret-password", u.PasswordHash)

	_, err := u.Login(a, "wrong", Device{})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	s, err := u.Login(a, "secret-password", Device{Browser: "Firefox"})
	require.NoError(t, err)
	assert.True(t, s.IsActive(time.Now()))
	assert.Same(t, s, u.Session("s-1"))

	require.NoError(t, u.Logout("s-1"))
	assert.False(t, s.IsActive(time.Now()))

	assert.ErrorIs(t, u.Logout("s-1"), ErrUnauthorized)
	assert.ErrorIs(t, u.Logout("missing"), ErrUnauthorized)

	var types []string
	for _, e := range u.PopEvents() {
		types = append(types, e.Type())
	}
	assert.Equal(t, []string{EventCreated, EventLogin, EventLogout}, types)
}

func TestSession_Expired(t *testing.T) {
	s := &Session{ValidUntil: time.Now().Add(-time.Minute)}
	assert.False(t, s.IsActive(time.Now()))
}
