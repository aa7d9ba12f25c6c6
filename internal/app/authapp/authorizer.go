package authapp

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"github.com/burenotti/go_diet_backend/internal/domain/user"
	"github.com/golang-jwt/jwt"
	"golang.org/x/crypto/bcrypt"
	"time"
)

var (
	ErrAccessTokenInvalid = errors.New("invalid access token")
	ErrAccessTokenExpired = fmt.Errorf("%w: token expired", ErrAccessTokenInvalid)
)

type Authorizer struct {
	Cost           int
	Secret         string
	AccessTokenTTL time.Duration
	SessionTTL     time.Duration
}

func (a *Authorizer) OpenSession(u *user.User, password string, dev user.Device) (*user.Session, error) {
	hash, err := hex.DecodeString(u.PasswordHash)
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return nil, user.ErrInvalidCredentials
	}

	now := time.Now().UTC()
	return &user.Session{
		SessionID:  a.generateSecret(),
		CreatedAt:  now,
		ValidUntil: now.Add(a.SessionTTL),
		Device:     dev,
	}, nil
}

func (a *Authorizer) Hash(password string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.Cost)
	if err != nil {
		panic(err)
	}
	return hex.EncodeToString(hash)
}

func (a *Authorizer) generateSecret() string {
	var b [32]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic("failed to generate session secret")
	}
	return hex.EncodeToString(b[:])
}

func (a *Authorizer) GenerateAccessToken(u *user.User, s *user.Session) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"jti": s.SessionID,
		"sub": u.UserID,
		"exp": now.Add(a.AccessTokenTTL).Unix(),
		"iat": now.Unix(),
	})
	return token.SignedString([]byte(a.Secret))
}

type AccessTokenData struct {
	SessionID string
	UserID    string
}

func (a *Authorizer) ValidateAccessToken(accessToken string) (*AccessTokenData, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(accessToken, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(a.Secret), nil
	})

	if err != nil {
		var vErr *jwt.ValidationError
		if errors.As(err, &vErr) && vErr.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, ErrAccessTokenExpired
		}
		return nil, ErrAccessTokenInvalid
	}

	sessionID, _ := claims["jti"].(string)
	userID, _ := claims["sub"].(string)
	if sessionID == "" || userID == "" {
		return nil, ErrAccessTokenInvalid
	}

	return &AccessTokenData{
		SessionID: sessionID,
		UserID:    userID,
	}, nil
}
