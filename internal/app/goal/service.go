package goalapp

import (
	"context"
	"errors"
	profileapp "github.com/burenotti/go_diet_backend/internal/app/profile"
	"github.com/burenotti/go_diet_backend/internal/app/unitofwork"
	"github.com/burenotti/go_diet_backend/internal/domain/goal"
	"github.com/burenotti/go_diet_backend/internal/domain/nutrition"
	"github.com/burenotti/go_diet_backend/internal/domain/profile"
	"log/slog"
	"time"
)

type Service struct {
	logger              *slog.Logger
	defaultProteinPerKg float64
	now                 func() time.Time
}

func New(logger *slog.Logger, defaultProteinPerKg float64) *Service {
	return &Service{
		logger:              logger,
		defaultProteinPerKg: defaultProteinPerKg,
		now:                 time.Now,
	}
}

type GoalInput struct {
	GoalType       nutrition.GoalType
	TargetWeightKg *float64
	WeeklyRateKg   float64
	ProteinPerKg   float64
}

// Overview is what the goals screen shows. Targets is nil while the profile
// lacks data; Missing then holds ErrInsufficientData.
type Overview struct {
	Profile *profile.Profile
	Goal    *goal.Goal
	Targets *nutrition.CalculationResult
	Missing error
}

func (s *Service) GetGoal(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	userID string,
) (g *goal.Goal, err error) {
	err = uow.Atomic(ctx, func(ctx *AtomicContext) error {
		var err error
		g, err = s.loadGoal(ctx, userID)
		return err
	})
	return
}

// SaveGoals stores the profile and the goal together, then recomputes and
// stores the targets when the profile is complete.
func (s *Service) SaveGoals(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	userID string,
	b profile.Biometrics,
	in GoalInput,
) (ov Overview, err error) {
	err = uow.Atomic(ctx, func(ctx *AtomicContext) error {
		p, err := profileapp.Upsert(ctx.Context(), ctx.ProfileStorage, userID, nil, b)
		if err != nil {
			return err
		}

		proteinPerKg := in.ProteinPerKg
		if proteinPerKg == 0 {
			proteinPerKg = s.defaultProteinPerKg
		}

		g, err := ctx.GoalStorage.GetByUserID(ctx.Context(), userID)
		switch {
		case errors.Is(err, goal.ErrGoalNotFound):
			g = goal.Default(userID, s.defaultProteinPerKg)
			g.Update(in.GoalType, in.TargetWeightKg, in.WeeklyRateKg, proteinPerKg)
			err = ctx.GoalStorage.Add(ctx.Context(), g)
		case err == nil:
			g.Update(in.GoalType, in.TargetWeightKg, in.WeeklyRateKg, proteinPerKg)
			err = ctx.GoalStorage.Persist(ctx.Context(), g)
		}
		if err != nil {
			return err
		}

		ov, err = s.overview(p, g)
		if err != nil {
			return err
		}
		if ov.Targets != nil {
			t := goal.Targets{UserID: userID, Result: *ov.Targets, ComputedAt: s.now().UTC()}
			if err := ctx.GoalStorage.SaveTargets(ctx.Context(), t); err != nil {
				return err
			}
		}
		return ctx.Commit()
	})
	return
}

// Targets computes the current targets from what is stored. A missing profile
// is reported the same way as an incomplete one.
func (s *Service) Targets(
	ctx context.Context,
	uow *unitofwork.UnitOfWork[*AtomicContext],
	userID string,
) (ov Overview, err error) {
	err = uow.Atomic(ctx, func(ctx *AtomicContext) error {
		p, err := ctx.ProfileStorage.GetByID(ctx.Context(), userID)
		if errors.Is(err, profile.ErrProfileNotFound) {
			p, err = profile.New(userID, ""), nil
		}
		if err != nil {
			return err
		}

		g, err := s.loadGoal(ctx, userID)
		if err != nil {
			return err
		}

		ov, err = s.overview(p, g)
		return err
	})
	return
}

func (s *Service) loadGoal(ctx *AtomicContext, userID string) (*goal.Goal, error) {
	g, err := ctx.GoalStorage.GetByUserID(ctx.Context(), userID)
	if errors.Is(err, goal.ErrGoalNotFound) {
		return goal.Default(userID, s.defaultProteinPerKg), nil
	}
	return g, err
}

func (s *Service) overview(p *profile.Profile, g *goal.Goal) (Overview, error) {
	ov := Overview{Profile: p, Goal: g}

	res, err := nutrition.ComputeTargets(p.Nutrition(), g.Nutrition(), s.now().UTC())
	switch {
	case errors.Is(err, nutrition.ErrInsufficientData):
		ov.Missing = err
		return ov, nil
	case err != nil:
		return Overview{}, err
	}

	ov.Targets = &res
	return ov, nil
}
