package mealstorage

import (
	"context"
	"database/sql"
	"errors"
	"github.com/burenotti/go_diet_backend/internal/adapter/storage"
	"github.com/burenotti/go_diet_backend/internal/adapter/storage/pgutil"
	"github.com/burenotti/go_diet_backend/internal/domain"
	"github.com/burenotti/go_diet_backend/internal/domain/meal"
	"github.com/burenotti/go_diet_backend/internal/domain/nutrition"
	"github.com/leporo/sqlf"
	"github.com/samber/lo"
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

func (s *PostgresStorage) Add(ctx context.Context, m *meal.Meal) error {
	q := sqlf.InsertInto("meals").
		Set("meal_id", m.MealID).
		Set("user_id", m.UserID).
		Set("date", m.Date).
		Set("meal_type", m.Type).
		Set("created_at", m.CreatedAt)

	if _, err := q.ExecAndClose(ctx, s.base.DB); err != nil {
		if pgutil.ViolatesConstraint(err, "meals_pkey") ||
			pgutil.ViolatesConstraint(err, "meals_user_id_date_meal_type_key") {
			return meal.ErrMealExists
		}
		return storage.InternalError(err)
	}

	for _, it := range m.Items {
		if err := s.addItem(ctx, it); err != nil {
			return err
		}
	}

	s.base.MarkSeen(m.MealID, m)
	return nil
}

func (s *PostgresStorage) addItem(ctx context.Context, it meal.Item) error {
	q := sqlf.InsertInto("meal_items").
		Set("item_id", it.ItemID).
		Set("meal_id", it.MealID).
		Set("food_id", it.FoodID).
		Set("quantity_g", it.QuantityGrams).
		Set("created_at", it.CreatedAt)

	if _, err := q.ExecAndClose(ctx, s.base.DB); err != nil {
		if pgutil.ViolatesConstraint(err, "meal_items_pkey") {
			return meal.ErrItemExists
		}
		if pgutil.ViolatesForeignKey(err) {
			return meal.ErrMealNotFound
		}
		return storage.InternalError(err)
	}
	return nil
}

func (s *PostgresStorage) getMeal(ctx context.Context, where string, args ...any) (*meal.Meal, error) {
	var m meal.Meal
	var mealType string
	q := sqlf.From("meals m").
		Where(where, args...).
		Select("m.meal_id").To(&m.MealID).
		Select("m.user_id").To(&m.UserID).
		Select("m.date").To(&m.Date).
		Select("m.meal_type").To(&mealType).
		Select("m.created_at").To(&m.CreatedAt)

	if err := q.QueryRowAndClose(ctx, s.base.DB); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, meal.ErrMealNotFound
		}
		return nil, storage.InternalError(err)
	}
	m.Type = meal.Type(mealType)

	items, err := s.listItems(ctx, m.MealID)
	if err != nil {
		return nil, err
	}

	res := &meal.Meal{
		MealID:    m.MealID,
		UserID:    m.UserID,
		Date:      m.Date,
		Type:      m.Type,
		CreatedAt: m.CreatedAt,
		Items:     items,
	}
	s.base.MarkSeen(res.MealID, res)
	return res, nil
}

func (s *PostgresStorage) GetByID(ctx context.Context, mealID string) (*meal.Meal, error) {
	return s.getMeal(ctx, "m.meal_id = ?", mealID)
}

func (s *PostgresStorage) FindByDay(ctx context.Context, userID string, day time.Time, t meal.Type) (*meal.Meal, error) {
	return s.getMeal(ctx, "m.user_id = ? AND m.date = ? AND m.meal_type = ?", userID, meal.Day(day), t)
}

// listItems joins items with the food catalogue. Items whose food row is gone
// are kept with a zero density so item counts match what was logged.
func (s *PostgresStorage) listItems(ctx context.Context, mealID string) ([]meal.Item, error) {
	var r itemRow
	q := sqlf.From("meal_items i").
		LeftJoin("foods f", "f.food_id = i.food_id").
		Where("i.meal_id = ?", mealID).
		OrderBy("i.created_at, i.item_id").
		Select("i.item_id").To(&r.ItemID).
		Select("i.meal_id").To(&r.MealID).
		Select("i.food_id").To(&r.FoodID).
		Select("i.quantity_g").To(&r.QuantityGrams).
		Select("i.created_at").To(&r.CreatedAt).
		Select("f.name").To(&r.FoodName).
		Select("f.kcal_per_100g").To(&r.Kcal).
		Select("f.protein").To(&r.Protein).
		Select("f.carbs").To(&r.Carbs).
		Select("f.fat").To(&r.Fat)

	items := make([]meal.Item, 0)
	err := q.QueryAndClose(ctx, s.base.DB, func(rows *sql.Rows) {
		items = append(items, r.toDomain())
	})
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, storage.InternalError(err)
	}
	return items, nil
}

// Persist inserts the items that are not stored yet. Logged items are never
// edited in place.
func (s *PostgresStorage) Persist(ctx context.Context, m *meal.Meal) error {
	stored, err := s.listItems(ctx, m.MealID)
	if err != nil {
		return err
	}
	s.base.MarkSeen(m.MealID, m)

	known := lo.SliceToMap(stored, func(it meal.Item) (string, struct{}) {
		return it.ItemID, struct{}{}
	})
	fresh := lo.Filter(m.Items, func(it meal.Item, _ int) bool {
		_, ok := known[it.ItemID]
		return !ok
	})

	for _, it := range fresh {
		if err := s.addItem(ctx, it); err != nil {
			return err
		}
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

type itemRow struct {
	ItemID        string
	MealID        string
	FoodID        string
	QuantityGrams *float64
	CreatedAt     time.Time
	FoodName      *string
	Kcal          *float64
	Protein       *float64
	Carbs         *float64
	Fat           *float64
}

func (r *itemRow) toDomain() meal.Item {
	it := meal.Item{
		ItemID:    r.ItemID,
		MealID:    r.MealID,
		FoodID:    r.FoodID,
		CreatedAt: r.CreatedAt,
		Density:   nutrition.NewNutrientDensity(r.Kcal, r.Protein, r.Carbs, r.Fat),
	}
	if r.QuantityGrams != nil {
		it.QuantityGrams = *r.QuantityGrams
	}
	if r.FoodName != nil {
		it.FoodName = *r.FoodName
	}
	return it
}
