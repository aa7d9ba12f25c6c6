package food

import (
	"errors"
	"github.com/burenotti/go_diet_backend/internal/domain/nutrition"
)

var ErrFoodNotFound = errors.New("food not found")

type Food struct {
	FoodID  string
	Name    string
	Density nutrition.NutrientDensity
}
