package api

import (
	"errors"
	profileapp "github.com/burenotti/go_diet_backend/internal/app/profile"
	"github.com/burenotti/go_diet_backend/internal/app/unitofwork"
	"github.com/burenotti/go_diet_backend/internal/domain/nutrition"
	"github.com/burenotti/go_diet_backend/internal/domain/profile"
	"github.com/labstack/echo/v4"
	"net/http"
	"time"
)

const dateLayout = time.DateOnly

func (s *Server) MountProfile() {
	loginRequired := LoginRequired(s.authService.Authorizer)

	s.handler.GET("/profiles/me", s.GetMyProfile, loginRequired)
	s.handler.PUT("/profiles/me", s.PutMyProfile, loginRequired)
}

func (s *Server) getProfileUoW() *unitofwork.UnitOfWork[*profileapp.AtomicContext] {
	return unitofwork.New[*profileapp.AtomicContext](
		s.db,
		profileapp.NewAtomicContext,
		s.msgBus,
		s.logger,
	)
}

type biometricsReq struct {
	Gender        *string  `json:"gender" validate:"omitempty,oneof=male female"`
	BirthDate     *string  `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	HeightCm      *float64 `json:"height_cm" validate:"omitempty,gt=0,lt=300"`
	WeightKg      *float64 `json:"weight_kg" validate:"omitempty,gt=0,lt=700"`
	ActivityLevel *string  `json:"activity_level" validate:"omitempty,oneof=sedentary light moderate active very_active"`
}

func (r *biometricsReq) toDomain() (b profile.Biometrics, err error) {
	if r.Gender != nil {
		g, err := nutrition.ParseGender(*r.Gender)
		if err != nil {
			return b, err
		}
		b.Gender = &g
	}
	if r.BirthDate != nil {
		d, err := time.Parse(dateLayout, *r.BirthDate)
		if err != nil {
			return b, errors.Join(nutrition.ErrImplausibleValue, err)
		}
		b.BirthDate = &d
	}
	if r.ActivityLevel != nil {
		l, err := nutrition.ParseActivityLevel(*r.ActivityLevel)
		if err != nil {
			return b, err
		}
		b.ActivityLevel = &l
	}
	b.HeightCm = r.HeightCm
	b.WeightKg = r.WeightKg
	return b, nil
}

type profileReq struct {
	Name *string `json:"name" validate:"omitempty,max=100"`
	biometricsReq
}

type profileResp struct {
	UserID        string   `json:"user_id"`
	Name          string   `json:"name"`
	Gender        *string  `json:"gender"`
	BirthDate     *string  `json:"birth_date"`
	HeightCm      *float64 `json:"height_cm"`
	WeightKg      *float64 `json:"weight_kg"`
	ActivityLevel *string  `json:"activity_level"`
	Complete      bool     `json:"complete"`
}

func profileOf(p *profile.Profile) profileResp {
	resp := profileResp{
		UserID:   p.UserID,
		Name:     p.Name,
		HeightCm: p.HeightCm,
		WeightKg: p.WeightKg,
		Complete: p.Nutrition().Complete(),
	}
	if p.Gender != nil {
		g := string(*p.Gender)
		resp.Gender = &g
	}
	if p.BirthDate != nil {
		d := p.BirthDate.Format(dateLayout)
		resp.BirthDate = &d
	}
	if p.ActivityLevel != nil {
		l := string(*p.ActivityLevel)
		resp.ActivityLevel = &l
	}
	return resp
}

// GetMyProfile answers with an empty profile when the user has not saved one.
func (s *Server) GetMyProfile(c echo.Context) error {
	user := s.currentUser(c)

	p, err := s.profileService.GetProfile(c.Request().Context(), user.UserID, s.getProfileUoW())
	if errors.Is(err, profile.ErrProfileNotFound) {
		p, err = profile.New(user.UserID, ""), nil
	}
	if err != nil {
		return s.Fail(c, err)
	}
	return c.JSON(http.StatusOK, profileOf(p))
}

func (s *Server) PutMyProfile(c echo.Context) error {
	var req profileReq
	if err := s.bind(c, &req); err != nil {
		return JsonError(c, http.StatusBadRequest, err)
	}
	b, err := req.toDomain()
	if err != nil {
		return s.Fail(c, err)
	}

	user := s.currentUser(c)
	p, err := s.profileService.UpsertProfile(c.Request().Context(), user.UserID, req.Name, b, s.getProfileUoW())
	if err != nil {
		return s.Fail(c, err)
	}
	return c.JSON(http.StatusOK, profileOf(p))
}
