package foodstorage

import (
	"context"
	"database/sql"
	"errors"
	"github.com/burenotti/go_diet_backend/internal/adapter/storage"
	"github.com/burenotti/go_diet_backend/internal/domain/food"
	"github.com/burenotti/go_diet_backend/internal/domain/nutrition"
	"github.com/leporo/sqlf"
)

type PostgresStorage struct {
	db storage.DBContext
}

func NewPostgresStorage(db storage.DBContext) *PostgresStorage {
	return &PostgresStorage{db: db}
}

func (s *PostgresStorage) selectFoods(r *foodRow) *sqlf.Stmt {
	return sqlf.From("foods f").
		Select("f.food_id").To(&r.FoodID).
		Select("f.name").To(&r.Name).
		Select("f.kcal_per_100g").To(&r.Kcal).
		Select("f.protein").To(&r.Protein).
		Select("f.carbs").To(&r.Carbs).
		Select("f.fat").To(&r.Fat)
}

// List returns at most limit foods ordered by name.
func (s *PostgresStorage) List(ctx context.Context, limit int) ([]*food.Food, error) {
	var r foodRow
	q := s.selectFoods(&r).OrderBy("f.name ASC").Limit(limit)

	foods := make([]*food.Food, 0)
	err := q.QueryAndClose(ctx, s.db, func(rows *sql.Rows) {
		foods = append(foods, r.toDomain())
	})
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, storage.InternalError(err)
	}
	return foods, nil
}

func (s *PostgresStorage) GetByID(ctx context.Context, foodID string) (*food.Food, error) {
	var r foodRow
	q := s.selectFoods(&r).Where("f.food_id = ?", foodID)

	if err := q.QueryRowAndClose(ctx, s.db); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, food.ErrFoodNotFound
		}
		return nil, storage.InternalError(err)
	}
	return r.toDomain(), nil
}

func (s *PostgresStorage) Close() error {
	return nil
}

type foodRow struct {
	FoodID  string
	Name    *string
	Kcal    *float64
	Protein *float64
	Carbs   *float64
	Fat     *float64
}

func (r *foodRow) toDomain() *food.Food {
	f := &food.Food{
		FoodID:  r.FoodID,
		Density: nutrition.NewNutrientDensity(r.Kcal, r.Protein, r.Carbs, r.Fat),
	}
	if r.Name != nil {
		f.Name = *r.Name
	}
	return f
}
