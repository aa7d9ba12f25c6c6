package mealapp

import (
	"context"
	"errors"
	"fmt"
	"github.com/burenotti/go_diet_backend/internal/adapter/storage"
	foodstorage "github.com/burenotti/go_diet_backend/internal/adapter/storage/foods"
	mealstorage "github.com/burenotti/go_diet_backend/internal/adapter/storage/meals"
	profilestorage "github.com/burenotti/go_diet_backend/internal/adapter/storage/profiles"
	profileapp "github.com/burenotti/go_diet_backend/internal/app/profile"
	"github.com/burenotti/go_diet_backend/internal/domain"
	"github.com/burenotti/go_diet_backend/internal/domain/food"
	"github.com/burenotti/go_diet_backend/internal/domain/meal"
	"time"
)

type FoodStorage interface {
	List(ctx context.Context, limit int) ([]*food.Food, error)
	GetByID(ctx context.Context, foodID string) (*food.Food, error)
	Close() error
}

type MealStorage interface {
	Add(ctx context.Context, m *meal.Meal) error
	GetByID(ctx context.Context, mealID string) (*meal.Meal, error)
	FindByDay(ctx context.Context, userID string, day time.Time, t meal.Type) (*meal.Meal, error)
	Persist(ctx context.Context, m *meal.Meal) error
	CollectEvents() []domain.Event
	Close() error
}

type AtomicContext struct {
	ctx            context.Context
	db             storage.DBContext
	ProfileStorage profileapp.ProfileStorage
	FoodStorage    FoodStorage
	MealStorage    MealStorage
}

func NewAtomicContext(ctx context.Context, dbContext storage.DBContext) (*AtomicContext, error) {
	return &AtomicContext{
		ctx:            ctx,
		db:             dbContext,
		ProfileStorage: profilestorage.NewPostgresStorage(dbContext),
		FoodStorage:    foodstorage.NewPostgresStorage(dbContext),
		MealStorage:    mealstorage.NewPostgresStorage(dbContext),
	}, nil
}

func (a *AtomicContext) Context() context.Context {
	return a.ctx
}

func (a *AtomicContext) Commit() error {
	return a.db.Commit()
}

func (a *AtomicContext) Close() (err error) {
	for _, c := range []interface{ Close() error }{a.ProfileStorage, a.FoodStorage, a.MealStorage} {
		if closeErr := c.Close(); closeErr != nil {
			err = errors.Join(err, closeErr)
		}
	}

	if err != nil {
		err = errors.Join(fmt.Errorf("failed to close storage"), err)
	}
	return err
}

func (a *AtomicContext) CollectEvents() []domain.Event {
	return append(a.ProfileStorage.CollectEvents(), a.MealStorage.CollectEvents()...)
}
