package goalapp

import (
	"context"
	"errors"
	"fmt"
	"github.com/burenotti/go_diet_backend/internal/adapter/storage"
	goalstorage "github.com/burenotti/go_diet_backend/internal/adapter/storage/goals"
	profilestorage "github.com/burenotti/go_diet_backend/internal/adapter/storage/profiles"
	profileapp "github.com/burenotti/go_diet_backend/internal/app/profile"
	"github.com/burenotti/go_diet_backend/internal/domain"
	"github.com/burenotti/go_diet_backend/internal/domain/goal"
)

type GoalStorage interface {
	Add(ctx context.Context, g *goal.Goal) error
	GetByUserID(ctx context.Context, userID string) (*goal.Goal, error)
	Persist(ctx context.Context, g *goal.Goal) error
	SaveTargets(ctx context.Context, t goal.Targets) error
	CollectEvents() []domain.Event
	Close() error
}

type AtomicContext struct {
	ctx            context.Context
	db             storage.DBContext
	ProfileStorage profileapp.ProfileStorage
	GoalStorage    GoalStorage
}

func NewAtomicContext(ctx context.Context, dbContext storage.DBContext) (*AtomicContext, error) {
	return &AtomicContext{
		ctx:            ctx,
		db:             dbContext,
		ProfileStorage: profilestorage.NewPostgresStorage(dbContext),
		GoalStorage:    goalstorage.NewPostgresStorage(dbContext),
	}, nil
}

func (a *AtomicContext) Context() context.Context {
	return a.ctx
}

func (a *AtomicContext) Commit() error {
	return a.db.Commit()
}

func (a *AtomicContext) Close() (err error) {
	if closeErr := a.ProfileStorage.Close(); closeErr != nil {
		err = errors.Join(err, closeErr)
	}
	if closeErr := a.GoalStorage.Close(); closeErr != nil {
		err = errors.Join(err, closeErr)
	}

	if err != nil {
		err = errors.Join(fmt.Errorf("failed to close storage"), err)
	}
	return err
}

func (a *AtomicContext) CollectEvents() []domain.Event {
	return append(a.ProfileStorage.CollectEvents(), a.GoalStorage.CollectEvents()...)
}
