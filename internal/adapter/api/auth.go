package api

import (
	"github.com/burenotti/go_diet_backend/internal/app/authapp"
	"github.com/burenotti/go_diet_backend/internal/app/unitofwork"
	"github.com/burenotti/go_diet_backend/internal/domain/user"
	"github.com/labstack/echo/v4"
	"github.com/mileusna/useragent"
	"net/http"
)

func (s *Server) MountAuth() {
	loginRequired := LoginRequired(s.authService.Authorizer)

	authRoutes := s.handler.Group("/auth")

	authRoutes.POST("/login", s.Login)
	authRoutes.POST("/sign-up", s.SignUp)
	authRoutes.POST("/refresh", s.Refresh)
	authRoutes.POST("/logout", s.Logout, loginRequired)
}

func (s *Server) getAuthUoW() *unitofwork.UnitOfWork[*authapp.AtomicContext] {
	return unitofwork.New[*authapp.AtomicContext](s.db, authapp.NewAtomicContext, s.msgBus, s.logger)
}

type loginReq struct {
	Email    string `json:"email" form:"username" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required,min=8"`
}

type tokensResp struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func (s *Server) Login(c echo.Context) error {
	var b loginReq
	if err := s.bind(c, &b); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}

	tokens, err := s.authService.Login(c.Request().Context(), s.getAuthUoW(), deviceOf(c), b.Email, b.Password)
	if err != nil {
		return s.Fail(c, err)
	}
	return c.JSON(http.StatusOK, &tokensResp{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	})
}

func deviceOf(c echo.Context) user.Device {
	agent := useragent.Parse(c.Request().UserAgent())

	return user.Device{
		Browser:   agent.Name,
		OS:        agent.OS,
		IPAddress: c.RealIP(),
		Model:     agent.Device,
	}
}

type signUpReq struct {
	UserID   string `json:"user_id" validate:"required,uuid"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

func (s *Server) SignUp(c echo.Context) error {
	var b signUpReq
	if err := s.bind(c, &b); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}

	_, err := s.authService.CreateUser(c.Request().Context(), s.getAuthUoW(), b.UserID, b.Email, b.Password)
	if err != nil {
		return s.Fail(c, err)
	}

	return c.NoContent(http.StatusCreated)
}

type refreshReq struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

func (s *Server) Refresh(c echo.Context) error {
	var b refreshReq
	if err := s.bind(c, &b); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}

	tokens, err := s.authService.Refresh(c.Request().Context(), s.getAuthUoW(), b.RefreshToken)
	if err != nil {
		return s.Fail(c, err)
	}
	return c.JSON(http.StatusOK, &tokensResp{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	})
}

func (s *Server) Logout(c echo.Context) error {
	u := s.currentUser(c)

	if err := s.authService.Logout(c.Request().Context(), s.getAuthUoW(), u.UserID, u.SessionID); err != nil {
		return s.Fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
