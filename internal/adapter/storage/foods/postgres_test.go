package foodstorage

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/burenotti/go_diet_backend/internal/adapter/storage"
	"github.com/burenotti/go_diet_backend/internal/domain/food"
	"github.com/burenotti/go_diet_backend/internal/domain/nutrition"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var foodColumns = []string{"food_id", "name", "kcal_per_100g", "protein", "carbs", "fat"}

func newStorage(t *testing.T) (*PostgresStorage, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return NewPostgresStorage(&storage.DB{DB: db}), mock
}

func TestPostgresStorage_List(t *testing.T) {
	s, mock := newStorage(t)

	mock.ExpectQuery(`FROM foods f.*ORDER BY f.name ASC.*LIMIT`).
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows(foodColumns).
			AddRow("apple", "Apple", 52.0, 0.3, 14.0, 0.2).
			AddRow("mystery", nil, nil, 1.5, nil, nil))

	foods, err := s.List(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, foods, 2)

	assert.Equal(t, &food.Food{
		FoodID:  "apple",
		Name:    "Apple",
		Density: nutrition.NutrientDensity{KcalPer100g: 52, ProteinPer100g: 0.3, CarbsPer100g: 14, FatPer100g: 0.2},
	}, foods[0])
	assert.Equal(t, &food.Food{
		FoodID:  "mystery",
		Density: nutrition.NutrientDensity{ProteinPer100g: 1.5},
	}, foods[1])
}

func TestPostgresStorage_List_Empty(t *testing.T) {
	s, mock := newStorage(t)
	mock.ExpectQuery(`FROM foods`).WillReturnRows(sqlmock.NewRows(foodColumns))

	foods, err := s.List(context.Background(), 200)
	require.NoError(t, err)
	assert.Empty(t, foods)
	assert.NotNil(t, foods)
}

func TestPostgresStorage_GetByID(t *testing.T) {
	s, mock := newStorage(t)

	mock.ExpectQuery(`FROM foods f WHERE f.food_id = \?`).
		WithArgs("oats").
		WillReturnRows(sqlmock.NewRows(foodColumns).AddRow("oats", "Oats", 389.0, 16.9, 66.3, 6.9))
	mock.ExpectQuery(`FROM foods f WHERE f.food_id = \?`).
		WithArgs("durian").
		WillReturnRows(sqlmock.NewRows(foodColumns))

	f, err := s.GetByID(context.Background(), "oats")
	require.NoError(t, err)
	assert.Equal(t, "Oats", f.Name)
	assert.Equal(t, 389.0, f.Density.KcalPer100g)

	_, err = s.GetByID(context.Background(), "durian")
	assert.ErrorIs(t, err, food.ErrFoodNotFound)
}

func TestPostgresStorage_GetByID_InternalError(t *testing.T) {
	s, mock := newStorage(t)
	mock.ExpectQuery(`FROM foods`).WillReturnError(assert.AnError)

	_, err := s.GetByID(context.Background(), "oats")
	assert.ErrorIs(t, err, storage.ErrInternal)
	assert.ErrorIs(t, err, assert.AnError)
}
