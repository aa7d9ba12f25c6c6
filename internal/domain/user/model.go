package user

import (
	"errors"
	"fmt"
	"github.com/burenotti/go_diet_backend/internal/domain"
	"time"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrUserEmailDuplicate = fmt.Errorf("%w: email is not unique", ErrUserExists)
	ErrSessionExists      = errors.New("session already exists")
	ErrInvalidCredentials = errors.New("email or password is invalid")
	ErrUnauthorized       = errors.New("unauthorized")
)

const (
	EventCreated = "user.created"
	EventLogin   = "user.login"
	EventLogout  = "user.logout"
)

type Authorizer interface {
	Hash(password string) string
	OpenSession(u *User, password string, dev Device) (*Session, error)
}

type Device struct {
	Browser   string `diff:"browser"`
	OS        string `diff:"os"`
	IPAddress string `diff:"ip_address"`
	Model     string `diff:"device_model"`
}

type Session struct {
	SessionID  string     `diff:"-"`
	CreatedAt  time.Time  `diff:"-"`
	ValidUntil time.Time  `diff:"valid_until"`
	LogoutAt   *time.Time `diff:"logout_at"`
	Device     Device     `diff:"-"`
}

func (s *Session) IsActive(now time.Time) bool {
	return s.LogoutAt == nil && now.Before(s.ValidUntil)
}

type User struct {
	domain.Aggregate `diff:"-"`
	UserID           string     `diff:"-"`
	Email            string     `diff:"email"`
	PasswordHash     string     `diff:"password_hash"`
	CreatedAt        time.Time  `diff:"-"`
	UpdatedAt        time.Time  `diff:"updated_at"`
	Sessions         []*Session `diff:"-"`
}

func New(userID, email, password string, hasher Authorizer) *User {
	now := time.Now().UTC()
	u := &User{
		UserID:       userID,
		Email:        email,
		PasswordHash: hasher.Hash(password),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	u.PushEvent(CreatedEvent{
		At:     now,
		UserID: u.UserID,
		Email:  u.Email,
	})
	return u
}

func (u *User) Session(sessionID string) *Session {
	for _, s := range u.Sessions {
		if s.SessionID == sessionID {
			return s
		}
	}
	return nil
}

func (u *User) Login(a Authorizer, password string, dev Device) (*Session, error) {
	s, err := a.OpenSession(u, password, dev)
	if err != nil {
		return nil, err
	}

	u.Sessions = append(u.Sessions, s)
	u.PushEvent(LoginEvent{
		At:        s.CreatedAt,
		UserID:    u.UserID,
		SessionID: s.SessionID,
		Device:    s.Device,
	})
	return s, nil
}

func (u *User) Logout(sessionID string) error {
	s := u.Session(sessionID)
	if s == nil {
		return fmt.Errorf("%w: session not found", ErrUnauthorized)
	}
	if s.LogoutAt != nil {
		return fmt.Errorf("%w: session already closed", ErrUnauthorized)
	}

	now := time.Now().UTC()
	s.LogoutAt = &now

	u.PushEvent(LogoutEvent{
		At:        now,
		UserID:    u.UserID,
		SessionID: s.SessionID,
	})
	return nil
}

type CreatedEvent struct {
	At     time.Time
	UserID string
	Email  string
}

func (e CreatedEvent) Type() string {
	return EventCreated
}

func (e CreatedEvent) PublishedAt() time.Time {
	return e.At
}

type LoginEvent struct {
	At        time.Time
	UserID    string
	SessionID string
	Device    Device
}

func (e LoginEvent) Type() string {
	return EventLogin
}

func (e LoginEvent) PublishedAt() time.Time {
	return e.At
}

type LogoutEvent struct {
	At        time.Time
	UserID    string
	SessionID string
}

func (e LogoutEvent) Type() string {
	return EventLogout
}

func (e LogoutEvent) PublishedAt() time.Time {
	return e.At
}
