package api

import (
	goalapp "github.com/burenotti/go_diet_backend/internal/app/goal"
	"github.com/burenotti/go_diet_backend/internal/app/unitofwork"
	"github.com/burenotti/go_diet_backend/internal/domain/goal"
	"github.com/burenotti/go_diet_backend/internal/domain/nutrition"
	"github.com/labstack/echo/v4"
	"net/http"
)

func (s *Server) MountGoals() {
	loginRequired := LoginRequired(s.authService.Authorizer)

	goals := s.handler.Group("/goals/me", loginRequired)
	goals.GET("", s.GetMyGoal)
	goals.PUT("", s.PutMyGoal)
	goals.GET("/targets", s.GetMyTargets)
}

func (s *Server) getGoalUoW() *unitofwork.UnitOfWork[*goalapp.AtomicContext] {
	return unitofwork.New[*goalapp.AtomicContext](
		s.db,
		goalapp.NewAtomicContext,
		s.msgBus,
		s.logger,
	)
}

type goalResp struct {
	GoalType       string   `json:"goal_type"`
	TargetWeightKg *float64 `json:"target_weight_kg"`
	WeeklyRateKg   float64  `json:"weekly_rate_kg"`
	ProteinPerKg   float64  `json:"protein_g_per_kg"`
}

func goalOf(g *goal.Goal) goalResp {
	return goalResp{
		GoalType:       string(g.GoalType),
		TargetWeightKg: g.TargetWeightKg,
		WeeklyRateKg:   g.WeeklyRateKg,
		ProteinPerKg:   g.ProteinPerKg,
	}
}

func (s *Server) GetMyGoal(c echo.Context) error {
	user := s.currentUser(c)

	g, err := s.goalService.GetGoal(c.Request().Context(), s.getGoalUoW(), user.UserID)
	if err != nil {
		return s.Fail(c, err)
	}
	return c.JSON(http.StatusOK, goalOf(g))
}

type goalReq struct {
	biometricsReq
	GoalType       string   `json:"goal_type" validate:"required,oneof=lose maintain gain"`
	TargetWeightKg *float64 `json:"target_weight_kg" validate:"omitempty,gt=0,lt=700"`
	WeeklyRateKg   *float64 `json:"weekly_rate_kg" validate:"omitempty,gte=0,lte=2"`
	ProteinPerKg   *float64 `json:"protein_g_per_kg" validate:"omitempty,gt=0,lte=5"`
}

type overviewResp struct {
	Profile profileResp `json:"profile"`
	Goal    goalResp    `json:"goal"`
	Targets targetsResp `json:"targets"`
}

func overviewOf(ov goalapp.Overview) overviewResp {
	return overviewResp{
		Profile: profileOf(ov.Profile),
		Goal:    goalOf(ov.Goal),
		Targets: targetsOf(ov.Targets),
	}
}

// PutMyGoal saves the biometrics and the goal together and answers with the
// recomputed targets.
func (s *Server) PutMyGoal(c echo.Context) error {
	var req goalReq
	if err := s.bind(c, &req); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}
	b, err := req.toDomain()
	if err != nil {
		return s.Fail(c, err)
	}
	goalType, err := nutrition.ParseGoalType(req.GoalType)
	if err != nil {
		return s.Fail(c, err)
	}

	in := goalapp.GoalInput{
		GoalType:       goalType,
		TargetWeightKg: req.TargetWeightKg,
		WeeklyRateKg:   goal.DefaultWeeklyRateKg,
	}
	if req.WeeklyRateKg != nil {
		in.WeeklyRateKg = *req.WeeklyRateKg
	}
	if req.ProteinPerKg != nil {
		in.ProteinPerKg = *req.ProteinPerKg
	}

	user := s.currentUser(c)
	ov, err := s.goalService.SaveGoals(c.Request().Context(), s.getGoalUoW(), user.UserID, b, in)
	if err != nil {
		return s.Fail(c, err)
	}
	return c.JSON(http.StatusOK, overviewOf(ov))
}

func (s *Server) GetMyTargets(c echo.Context) error {
	user := s.currentUser(c)

	ov, err := s.goalService.Targets(c.Request().Context(), s.getGoalUoW(), user.UserID)
	if err != nil {
		return s.Fail(c, err)
	}
	return c.JSON(http.StatusOK, targetsOf(ov.Targets))
}
