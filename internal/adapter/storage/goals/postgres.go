package goalstorage

import (
	"context"
	"database/sql"
	"errors"
	"github.com/burenotti/go_diet_backend/internal/adapter/storage"
	"github.com/burenotti/go_diet_backend/internal/adapter/storage/pgutil"
	"github.com/burenotti/go_diet_backend/internal/domain"
	"github.com/burenotti/go_diet_backend/internal/domain/goal"
	"github.com/burenotti/go_diet_backend/internal/domain/nutrition"
	"github.com/leporo/sqlf"
	"github.com/r3labs/diff"
	"time"
)

type PostgresStorage struct {
	base *pgutil.BasePostgresStorage
}

func NewPostgresStorage(db storage.DBContext) *PostgresStorage {
	return &PostgresStorage{
		base: pgutil.NewBasePostgresStorage(db),
	}
}

func (s *PostgresStorage) Add(ctx context.Context, g *goal.Goal) error {
	q := sqlf.InsertInto("goals").
		Set("user_id", g.UserID).
		Set("goal_type", g.GoalType).
		Set("target_weight_kg", g.TargetWeightKg).
		Set("weekly_rate_kg", g.WeeklyRateKg).
		Set("protein_g_per_kg", g.ProteinPerKg).
		Set("updated_at", g.UpdatedAt)

	if _, err := q.ExecAndClose(ctx, s.base.DB); err != nil {
		return storage.InternalError(err)
	}

	s.base.MarkSeen(g.UserID, g)
	return nil
}

func (s *PostgresStorage) GetByUserID(ctx context.Context, userID string) (*goal.Goal, error) {
	var r goalRow
	q := sqlf.From("goals g").
		Where("g.user_id = ?", userID).
		Select("g.user_id").To(&r.UserID).
		Select("g.goal_type").To(&r.GoalType).
		Select("g.target_weight_kg").To(&r.TargetWeightKg).
		Select("g.weekly_rate_kg").To(&r.WeeklyRateKg).
		Select("g.protein_g_per_kg").To(&r.ProteinPerKg).
		Select("g.updated_at").To(&r.UpdatedAt)

	if err := q.QueryRowAndClose(ctx, s.base.DB); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, goal.ErrGoalNotFound
		}
		return nil, storage.InternalError(err)
	}

	g := r.toDomain()
	s.base.MarkSeen(g.UserID, g)
	return g, nil
}

func (s *PostgresStorage) Persist(ctx context.Context, g *goal.Goal) error {
	stored, err := s.GetByUserID(ctx, g.UserID)
	if err != nil {
		return err
	}
	s.base.MarkSeen(g.UserID, g)

	changes, err := diff.Diff(stored, g)
	if err != nil {
		return storage.InternalError(err)
	}
	if len(changes) == 0 {
		return nil
	}

	q, err := pgutil.MakeUpdateQuery(sqlf.Update("goals").Where("user_id = ?", g.UserID), changes)
	if err != nil {
		return storage.InternalError(err)
	}

	res, err := q.ExecAndClose(ctx, s.base.DB)
	return pgutil.AssertUpdated(res, err, goal.ErrGoalNotFound)
}

// SaveTargets replaces the user's stored targets.
func (s *PostgresStorage) SaveTargets(ctx context.Context, t goal.Targets) error {
	q := sqlf.InsertInto("daily_targets").
		Set("user_id", t.UserID).
		Set("age_years", t.Result.AgeYears).
		Set("bmr", t.Result.BMR).
		Set("tdee", t.Result.TDEE).
		Set("calorie_target", t.Result.CalorieTarget).
		Set("protein_g", t.Result.Macros.ProteinGrams).
		Set("carbs_g", t.Result.Macros.CarbsGrams).
		Set("fat_g", t.Result.Macros.FatGrams).
		Set("computed_at", t.ComputedAt).
		Clause(`ON CONFLICT (user_id) DO UPDATE SET
			age_years = EXCLUDED.age_years,
			bmr = EXCLUDED.bmr,
			tdee = EXCLUDED.tdee,
			calorie_target = EXCLUDED.calorie_target,
			protein_g = EXCLUDED.protein_g,
			carbs_g = EXCLUDED.carbs_g,
			fat_g = EXCLUDED.fat_g,
			computed_at = EXCLUDED.computed_at`)

	if _, err := q.ExecAndClose(ctx, s.base.DB); err != nil {
		return storage.InternalError(err)
	}
	return nil
}

func (s *PostgresStorage) CollectEvents() []domain.Event {
	return s.base.CollectEvents()
}

func (s *PostgresStorage) Close() error {
	s.base.Close()
	return nil
}

type goalRow struct {
	UserID         string
	GoalType       string
	TargetWeightKg *float64
	WeeklyRateKg   *float64
	ProteinPerKg   *float64
	UpdatedAt      time.Time
}

func (r *goalRow) toDomain() *goal.Goal {
	g := goal.Default(r.UserID, 0)
	if t, err := nutrition.ParseGoalType(r.GoalType); err == nil {
		g.GoalType = t
	}
	g.TargetWeightKg = r.TargetWeightKg
	if r.WeeklyRateKg != nil {
		g.WeeklyRateKg = *r.WeeklyRateKg
	}
	if r.ProteinPerKg != nil {
		g.ProteinPerKg = *r.ProteinPerKg
	}
	g.UpdatedAt = r.UpdatedAt
	return g
}
