package mealapp

import (
	"context"
	"errors"
	profileapp "github.com/burenotti/go_diet_backend/internal/app/profile"
	"github.com/burenotti/go_diet_backend/internal/app/unitofwork"
	"github.com/burenotti/go_diet_backend/internal/domain/food"
	"github.com/burenotti/go_diet_backend/internal/domain/meal"
	"github.com/burenotti/go_diet_backend/internal/domain/nutrition"
	"github.com/google/uuid"
	"log/slog"
	"time"
)

type Service struct {
	logger          *slog.Logger
	foodsLimit      int
	defaultMealType meal.Type
	now             func() time.Time
	newID           func() string
}

func New(logger *slog.Logger, foodsLimit int, defaultMealType meal.Type) *Service {
	return &Service{
		logger:          logger,
		foodsLimit:      foodsLimit,
		defaultMealType: defaultMealType,
		now:             time.Now,
		newID:           uuid.NewString,
	}
}

// Summary is a meal together with what has been eaten in it.
type Summary struct {
	Meal   *meal.Meal
	Totals nutrition.ConsumedTotals
}

func (s *Service) ListFoods(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
) (foods []*food.Food, err error) {
	err = uow.Atomic(ctx, func(ctx *AtomicContext) error {
		var err error
		foods, err = ctx.FoodStorage.List(ctx.Context(), s.foodsLimit)
		return err
	})
	return
}

func (s *Service) GetFood(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	foodID string,
) (f *food.Food, err error) {
	err = uow.Atomic(ctx, func(ctx *AtomicContext) error {
		var err error
		f, err = ctx.FoodStorage.GetByID(ctx.Context(), foodID)
		return err
	})
	return
}

// EnsureMeal returns today's meal of the given type, creating it and an empty
// profile when the user has neither. An empty meal type means the default one.
func (s *Service) EnsureMeal(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	userID string,
	t meal.Type,
) (sum Summary, err error) {
	if t == "" {
		t = s.defaultMealType
	}
	if t, err = meal.ParseType(string(t)); err != nil {
		return Summary{}, err
	}

	err = uow.Atomic(ctx, func(ctx *AtomicContext) error {
		if _, err := profileapp.Ensure(ctx.Context(), ctx.ProfileStorage, userID); err != nil {
			return err
		}

		today := meal.Day(s.now())
		m, err := ctx.MealStorage.FindByDay(ctx.Context(), userID, today, t)
		if errors.Is(err, meal.ErrMealNotFound) {
			m = meal.New(s.newID(), userID, today, t)
			err = ctx.MealStorage.Add(ctx.Context(), m)
		}
		if err != nil {
			return err
		}

		if sum, err = summarize(m); err != nil {
			return err
		}
		return ctx.Commit()
	})
	return
}

// AddItem logs quantityGrams of a catalog food into one of the user's meals.
func (s *Service) AddItem(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	userID, mealID, foodID string,
	quantityGrams float64,
) (item meal.Item, err error) {
	err = uow.Atomic(ctx, func(ctx *AtomicContext) error {
		m, err := s.ownedMeal(ctx, userID, mealID)
		if err != nil {
			return err
		}

		f, err := ctx.FoodStorage.GetByID(ctx.Context(), foodID)
		if err != nil {
			return err
		}

		if item, err = m.AddItem(s.newID(), f, quantityGrams); err != nil {
			return err
		}
		if err := ctx.MealStorage.Persist(ctx.Context(), m); err != nil {
			return err
		}

		return ctx.Commit()
	})
	return
}

// ListItems returns what was logged in one of the user's meals, oldest first.
func (s *Service) ListItems(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	userID, mealID string,
) (items []meal.Item, err error) {
	err = uow.Atomic(ctx, func(ctx *AtomicContext) error {
		m, err := s.ownedMeal(ctx, userID, mealID)
		if err != nil {
			return err
		}
		items = m.Items
		return nil
	})
	return
}

func (s *Service) Summary(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	userID, mealID string,
) (sum Summary, err error) {
	err = uow.Atomic(ctx, func(ctx *AtomicContext) error {
		m, err := s.ownedMeal(ctx, userID, mealID)
		if err != nil {
			return err
		}
		sum, err = summarize(m)
		return err
	})
	return
}

func (s *Service) ownedMeal(ctx *AtomicContext, userID, mealID string) (*meal.Meal, error) {
	m, err := ctx.MealStorage.GetByID(ctx.Context(), mealID)
	if err != nil {
		return nil, err
	}
	if m.UserID != userID {
		return nil, meal.ErrForeignMeal
	}
	return m, nil
}

func summarize(m *meal.Meal) (Summary, error) {
	totals, err := m.Totals()
	if err != nil {
		return Summary{}, err
	}
	return Summary{Meal: m, Totals: totals}, nil
}
