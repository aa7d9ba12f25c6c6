package profileapp

import (
	"context"
	"errors"
	"github.com/burenotti/go_diet_backend/internal/app/unitofwork"
	"github.com/burenotti/go_diet_backend/internal/domain/profile"
	"log/slog"
)

type Service struct {
	logger *slog.Logger
}

func New(
	logger *slog.Logger,
) *Service {
	return &Service{
		logger: logger,
	}
}

func (s *Service) GetProfile(
	ctx context.Context,
	userID string,
	uow *unitofwork.UnitOfWork[*AtomicContext],
) (p *profile.Profile, err error) {
	err = uow.Atomic(ctx, func(ctx *AtomicContext) error {
		var err error
		p, err = ctx.ProfileStorage.GetByID(ctx.Context(), userID)
		return err
	})
	return
}

// UpsertProfile creates the profile or updates the stored one. A nil name or
// biometric field keeps the stored value.
func (s *Service) UpsertProfile(
	ctx context.Context,
	userID string,
	name *string,
	b profile.Biometrics,
	uow *unitofwork.UnitOfWork[*AtomicContext],
) (p *profile.Profile, err error) {
	err = uow.Atomic(ctx, func(ctx *AtomicContext) error {
		var err error
		if p, err = Upsert(ctx.Context(), ctx.ProfileStorage, userID, name, b); err != nil {
			return err
		}
		return ctx.Commit()
	})
	return
}

// EnsureProfile returns the user's profile, creating an empty one if needed.
func (s *Service) EnsureProfile(
	ctx context.Context,
	userID string,
	uow *unitofwork.UnitOfWork[*AtomicContext],
) (p *profile.Profile, err error) {
	err = uow.Atomic(ctx, func(ctx *AtomicContext) error {
		var err error
		if p, err = Ensure(ctx.Context(), ctx.ProfileStorage, userID); err != nil {
			return err
		}
		return ctx.Commit()
	})
	return
}

// Upsert is the storage-level upsert shared with services that touch the
// profile inside their own transaction.
func Upsert(
	ctx context.Context,
	st ProfileStorage,
	userID string,
	name *string,
	b profile.Biometrics,
) (*profile.Profile, error) {
	p, err := st.GetByID(ctx, userID)
	switch {
	case errors.Is(err, profile.ErrProfileNotFound):
		p = profile.New(userID, "")
		p.Update(deref(name, ""), b)
		return p, st.Add(ctx, p)
	case err != nil:
		return nil, err
	}

	p.Update(deref(name, p.Name), b)
	return p, st.Persist(ctx, p)
}

func Ensure(ctx context.Context, st ProfileStorage, userID string) (*profile.Profile, error) {
	p, err := st.GetByID(ctx, userID)
	if errors.Is(err, profile.ErrProfileNotFound) {
		p = profile.New(userID, "")
		err = st.Add(ctx, p)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func deref(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}
