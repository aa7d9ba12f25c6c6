package api

import (
	"errors"
	"fmt"
	"github.com/burenotti/go_diet_backend/internal/app/authapp"
	"github.com/burenotti/go_diet_backend/internal/domain/food"
	"github.com/burenotti/go_diet_backend/internal/domain/meal"
	"github.com/burenotti/go_diet_backend/internal/domain/nutrition"
	"github.com/burenotti/go_diet_backend/internal/domain/profile"
	"github.com/burenotti/go_diet_backend/internal/domain/user"
	"github.com/labstack/echo/v4"
	"net/http"
)

type JsonErrorModel struct {
	Message string `json:"message"`
}

func JsonError(c echo.Context, status int, content any) error {
	data := &JsonErrorModel{Message: fmt.Sprintf("%v", content)}
	return c.JSON(status, data)
}

type errorMapping struct {
	err     error
	status  int
	message string
}

// Checked in order, the first match wins.
var knownErrors = []errorMapping{
	{user.ErrInvalidCredentials, http.StatusUnauthorized, "invalid email or password"},
	{authapp.ErrInvalidSession, http.StatusUnauthorized, "invalid session"},
	{user.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
	{user.ErrUserExists, http.StatusConflict, "user already exists"},
	{user.ErrUserEmailDuplicate, http.StatusConflict, "email is already taken"},
	{user.ErrUserNotFound, http.StatusNotFound, "user not found"},
	{profile.ErrProfileNotFound, http.StatusNotFound, "profile not found"},
	{food.ErrFoodNotFound, http.StatusNotFound, "food not found"},
	{meal.ErrMealNotFound, http.StatusNotFound, "meal not found"},
	{meal.ErrForeignMeal, http.StatusNotFound, "meal not found"},
	{meal.ErrInvalidMealType, http.StatusBadRequest, "invalid meal type"},
	{meal.ErrInvalidQuantity, http.StatusBadRequest, "quantity must be a positive number of grams"},
	{nutrition.ErrUnsupportedEnumValue, http.StatusBadRequest, "unsupported value"},
	{nutrition.ErrImplausibleValue, http.StatusUnprocessableEntity, "implausible biometric value"},
	{nutrition.ErrMalformedNutrientData, http.StatusUnprocessableEntity, "malformed nutrient data"},
}

// Fail writes the response for err, hiding anything not listed in knownErrors
// behind a 500.
func (s *Server) Fail(c echo.Context, err error) error {
	for _, m := range knownErrors {
		if errors.Is(err, m.err) {
			return JsonError(c, m.status, m.message)
		}
	}
	s.logger.Error("request failed", "path", c.Path(), "error", err)
	return JsonError(c, http.StatusInternalServerError, "internal error")
}
