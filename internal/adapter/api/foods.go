package api

import (
	mealapp "github.com/burenotti/go_diet_backend/internal/app/meal"
	"github.com/burenotti/go_diet_backend/internal/app/unitofwork"
	"github.com/burenotti/go_diet_backend/internal/domain/food"
	"github.com/labstack/echo/v4"
	"github.com/samber/lo"
	"net/http"
)

func (s *Server) MountFoods() {
	loginRequired := LoginRequired(s.authService.Authorizer)

	s.handler.GET("/foods", s.ListFoods, loginRequired)
	s.handler.GET("/foods/:food_id", s.GetFood, loginRequired)
}

func (s *Server) getMealUoW() *unitofwork.UnitOfWork[*mealapp.AtomicContext] {
	return unitofwork.New[*mealapp.AtomicContext](
		s.db,
		mealapp.NewAtomicContext,
		s.msgBus,
		s.logger,
	)
}

type foodResp struct {
	FoodID  string      `json:"food_id"`
	Name    string      `json:"name"`
	Density densityResp `json:"density"`
}

func foodOf(f *food.Food) foodResp {
	return foodResp{
		FoodID:  f.FoodID,
		Name:    f.Name,
		Density: densityOf(f.Density),
	}
}

func (s *Server) ListFoods(c echo.Context) error {
	foods, err := s.mealService.ListFoods(c.Request().Context(), s.getMealUoW())
	if err != nil {
		return s.Fail(c, err)
	}

	return c.JSON(http.StatusOK, lo.Map(foods, func(f *food.Food, _ int) foodResp {
		return foodOf(f)
	}))
}

type getFoodReq struct {
	FoodID string `param:"food_id" validate:"required"`
}

func (s *Server) GetFood(c echo.Context) error {
	var req getFoodReq
	if err := s.bind(c, &req); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}

	f, err := s.mealService.GetFood(c.Request().Context(), s.getMealUoW(), req.FoodID)
	if err != nil {
		return s.Fail(c, err)
	}
	return c.JSON(http.StatusOK, foodOf(f))
}
