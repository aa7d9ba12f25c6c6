package api

import (
	mealapp "github.com/burenotti/go_diet_backend/internal/app/meal"
	"github.com/burenotti/go_diet_backend/internal/domain/meal"
	"github.com/labstack/echo/v4"
	"github.com/samber/lo"
	"net/http"
	"time"
)

func (s *Server) MountMeals() {
	loginRequired := LoginRequired(s.authService.Authorizer)

	meals := s.handler.Group("/meals", loginRequired)
	meals.GET("/today", s.GetTodayMeal)
	meals.GET("/:meal_id", s.GetMeal)
	meals.GET("/:meal_id/items", s.ListMealItems)
	meals.POST("/:meal_id/items", s.AddMealItem)
}

type itemResp struct {
	ItemID        string      `json:"item_id"`
	FoodID        string      `json:"food_id"`
	FoodName      string      `json:"food_name"`
	QuantityGrams float64     `json:"quantity_g"`
	Density       densityResp `json:"density"`
	CreatedAt     time.Time   `json:"created_at"`
}

func itemOf(it meal.Item) itemResp {
	return itemResp{
		ItemID:        it.ItemID,
		FoodID:        it.FoodID,
		FoodName:      it.FoodName,
		QuantityGrams: roundGrams(it.QuantityGrams),
		Density:       densityOf(it.Density),
		CreatedAt:     it.CreatedAt,
	}
}

func itemsOf(items []meal.Item) []itemResp {
	return lo.Map(items, func(it meal.Item, _ int) itemResp {
		return itemOf(it)
	})
}

type mealResp struct {
	MealID   string     `json:"meal_id"`
	Date     string     `json:"date"`
	MealType string     `json:"meal_type"`
	Items    []itemResp `json:"items"`
	Totals   totalsResp `json:"totals"`
}

func mealOf(sum mealapp.Summary) mealResp {
	return mealResp{
		MealID:   sum.Meal.MealID,
		Date:     sum.Meal.Date.Format(dateLayout),
		MealType: string(sum.Meal.Type),
		Items:    itemsOf(sum.Meal.Items),
		Totals:   totalsOf(sum.Totals),
	}
}

type todayMealReq struct {
	MealType string `query:"meal_type" validate:"omitempty,oneof=breakfast lunch dinner snack"`
}

// GetTodayMeal finds or creates today's meal of the requested type.
func (s *Server) GetTodayMeal(c echo.Context) error {
	var req todayMealReq
	if err := s.bind(c, &req); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}

	user := s.currentUser(c)
	sum, err := s.mealService.EnsureMeal(c.Request().Context(), s.getMealUoW(), user.UserID, meal.Type(req.MealType))
	if err != nil {
		return s.Fail(c, err)
	}
	return c.JSON(http.StatusOK, mealOf(sum))
}

type mealIDReq struct {
	MealID string `param:"meal_id" validate:"required"`
}

func (s *Server) GetMeal(c echo.Context) error {
	var req mealIDReq
	if err := s.bind(c, &req); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}

	user := s.currentUser(c)
	sum, err := s.mealService.Summary(c.Request().Context(), s.getMealUoW(), user.UserID, req.MealID)
	if err != nil {
		return s.Fail(c, err)
	}
	return c.JSON(http.StatusOK, mealOf(sum))
}

func (s *Server) ListMealItems(c echo.Context) error {
	var req mealIDReq
	if err := s.bind(c, &req); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}

	user := s.currentUser(c)
	items, err := s.mealService.ListItems(c.Request().Context(), s.getMealUoW(), user.UserID, req.MealID)
	if err != nil {
		return s.Fail(c, err)
	}
	return c.JSON(http.StatusOK, itemsOf(items))
}

type addItemReq struct {
	MealID        string  `param:"meal_id" validate:"required"`
	FoodID        string  `json:"food_id" validate:"required"`
	QuantityGrams float64 `json:"quantity_g" validate:"required,gt=0"`
}

func (s *Server) AddMealItem(c echo.Context) error {
	var req addItemReq
	if err := s.bind(c, &req); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}

	user := s.currentUser(c)
	item, err := s.mealService.AddItem(
		c.Request().Context(),
		s.getMealUoW(),
		user.UserID,
		req.MealID,
		req.FoodID,
		req.QuantityGrams,
	)
	if err != nil {
		return s.Fail(c, err)
	}
	return c.JSON(http.StatusCreated, itemOf(item))
}
