package authapp

import (
	"context"
	"errors"
	"fmt"
	"github.com/burenotti/go_diet_backend/internal/app/unitofwork"
	"github.com/burenotti/go_diet_backend/internal/domain/user"
	"log/slog"
	"time"
)

var (
	ErrInvalidSession = errors.New("invalid session")
)

type Service struct {
	logger     *slog.Logger
	Authorizer *Authorizer
}

func NewService(auth *Authorizer, logger *slog.Logger) *Service {
	return &Service{
		logger:     logger,
		Authorizer: auth,
	}
}

type Tokens struct {
	AccessToken  string
	RefreshToken string
}

func (s *Service) CreateUser(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	userID string,
	email string,
	password string,
) (u *user.User, err error) {
	err = uow.Atomic(ctx, func(ctx *AtomicContext) error {
		u = user.New(userID, email, password, s.Authorizer)
		if err := ctx.UserStorage.Add(ctx.Context(), u); err != nil {
			return err
		}
		return ctx.Commit()
	})
	return
}

func (s *Service) Login(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	device user.Device,
	email string,
	password string,
) (tokens Tokens, err error) {
	err = uow.Atomic(ctx, func(ctx *AtomicContext) error {
		u, err := ctx.UserStorage.GetByEmail(ctx.Context(), email)
		if errors.Is(err, user.ErrUserNotFound) {
			return user.ErrInvalidCredentials
		}
		if err != nil {
			return err
		}

		sess, err := u.Login(s.Authorizer, password, device)
		if err != nil {
			return err
		}

		accessToken, err := s.Authorizer.GenerateAccessToken(u, sess)
		if err != nil {
			return err
		}

		if err := ctx.UserStorage.Persist(ctx.Context(), u); err != nil {
			return err
		}

		tokens = Tokens{
			AccessToken:  accessToken,
			RefreshToken: sess.SessionID,
		}
		return ctx.Commit()
	})
	return
}

func (s *Service) Refresh(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	sessionID string,
) (tokens Tokens, err error) {
	err = uow.Atomic(ctx, func(ctx *AtomicContext) error {
		u, err := ctx.UserStorage.GetBySession(ctx.Context(), sessionID)
		if errors.Is(err, user.ErrUserNotFound) {
			return ErrInvalidSession
		}
		if err != nil {
			return err
		}

		sess := u.Session(sessionID)
		if sess == nil || !sess.IsActive(time.Now()) {
			return fmt.Errorf("%w: session is not active", ErrInvalidSession)
		}

		tokens.AccessToken, err = s.Authorizer.GenerateAccessToken(u, sess)
		tokens.RefreshToken = sess.SessionID
		return err
	})
	return
}

func (s *Service) Logout(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	userID string,
	sessionID string,
) error {
	return uow.Atomic(ctx, func(ctx *AtomicContext) error {
		u, err := ctx.UserStorage.GetByID(ctx.Context(), userID)
		if err != nil {
			return err
		}

		if err := u.Logout(sessionID); err != nil {
			return err
		}

		if err := ctx.UserStorage.Persist(ctx.Context(), u); err != nil {
			return err
		}
		return ctx.Commit()
	})
}
