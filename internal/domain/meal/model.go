package meal

import (
	"errors"
	"fmt"
	"github.com/burenotti/go_diet_backend/internal/domain"
	"github.com/burenotti/go_diet_backend/internal/domain/food"
	"github.com/burenotti/go_diet_backend/internal/domain/nutrition"
	"math"
	"time"
)

var (
	ErrMealNotFound    = errors.New("meal not found")
	ErrMealExists      = errors.New("meal already exists")
	ErrItemExists      = errors.New("meal item already exists")
	ErrInvalidMealType = errors.New("invalid meal type")
	ErrInvalidQuantity = errors.New("quantity must be a positive number of grams")
	ErrForeignMeal     = errors.New("meal belongs to another user")
)

const EventItemAdded = "meal.item_added"

type Type string

const (
	Breakfast Type = "breakfast"
	Lunch     Type = "lunch"
	Dinner    Type = "dinner"
	Snack     Type = "snack"
)

func ParseType(s string) (Type, error) {
	switch t := Type(s); t {
	case Breakfast, Lunch, Dinner, Snack:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMealType, s)
	}
}

type Item struct {
	ItemID        string
	MealID        string
	FoodID        string
	FoodName      string
	QuantityGrams float64
	Density       nutrition.NutrientDensity
	CreatedAt     time.Time
}

func (i Item) Logged() nutrition.LoggedItem {
	return nutrition.LoggedItem{
		Density:       i.Density,
		QuantityGrams: i.QuantityGrams,
	}
}

type Meal struct {
	domain.Aggregate
	MealID    string
	UserID    string
	Date      time.Time
	Type      Type
	CreatedAt time.Time
	Items     []Item
}

func New(mealID, userID string, date time.Time, t Type) *Meal {
	return &Meal{
		MealID:    mealID,
		UserID:    userID,
		Date:      Day(date),
		Type:      t,
		CreatedAt: time.Now().UTC(),
	}
}

// Day is the UTC calendar date of t.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (m *Meal) AddItem(itemID string, f *food.Food, quantityGrams float64) (Item, error) {
	if math.IsNaN(quantityGrams) || math.IsInf(quantityGrams, 0) || quantityGrams <= 0 {
		return Item{}, fmt.Errorf("%w: got %v", ErrInvalidQuantity, quantityGrams)
	}

	item := Item{
		ItemID:        itemID,
		MealID:        m.MealID,
		FoodID:        f.FoodID,
		FoodName:      f.Name,
		QuantityGrams: quantityGrams,
		Density:       f.Density,
		CreatedAt:     time.Now().UTC(),
	}
	m.Items = append(m.Items, item)

	m.PushEvent(ItemAddedEvent{
		At:            item.CreatedAt,
		UserID:        m.UserID,
		MealID:        m.MealID,
		ItemID:        item.ItemID,
		FoodID:        item.FoodID,
		QuantityGrams: item.QuantityGrams,
	})
	return item, nil
}

// Totals sums what has been logged in the meal so far.
func (m *Meal) Totals() (nutrition.ConsumedTotals, error) {
	logged := make([]nutrition.LoggedItem, len(m.Items))
	for i, it := range m.Items {
		logged[i] = it.Logged()
	}
	return nutrition.SumConsumed(logged)
}

type ItemAddedEvent struct {
	At            time.Time
	UserID        string
	MealID        string
	ItemID        string
	FoodID        string
	QuantityGrams float64
}

func (e ItemAddedEvent) Type() string {
	return EventItemAdded
}

func (e ItemAddedEvent) PublishedAt() time.Time {
	return e.At
}
