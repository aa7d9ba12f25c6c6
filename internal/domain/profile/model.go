package profile

import (
	"errors"
	"github.com/burenotti/go_diet_backend/internal/domain"
	"github.com/burenotti/go_diet_backend/internal/domain/nutrition"
	"time"
)

var (
	ErrProfileExists   = errors.New("profile already exists")
	ErrProfileNotFound = errors.New("profile not found")
)

const EventUpdated = "profile.updated"

type Profile struct {
	domain.Aggregate `diff:"-"`
	UserID           string                   `diff:"-"`
	Name             string                   `diff:"name"`
	Gender           *nutrition.Gender        `diff:"gender"`
	BirthDate        *time.Time               `diff:"birth_date"`
	HeightCm         *float64                 `diff:"height_cm"`
	WeightKg         *float64                 `diff:"weight_kg"`
	ActivityLevel    *nutrition.ActivityLevel `diff:"activity_level"`
	UpdatedAt        time.Time                `diff:"updated_at"`
}

func New(userID, name string) *Profile {
	return &Profile{
		UserID:    userID,
		Name:      name,
		UpdatedAt: time.Now().UTC(),
	}
}

type Biometrics struct {
	Gender        *nutrition.Gender
	BirthDate     *time.Time
	HeightCm      *float64
	WeightKg      *float64
	ActivityLevel *nutrition.ActivityLevel
}

// Update sets the name and the biometric fields present in b and records a
// profile.updated event. Nil fields of b keep the stored values.
func (p *Profile) Update(name string, b Biometrics) {
	p.Name = name
	p.Gender = keep(b.Gender, p.Gender)
	p.BirthDate = keep(b.BirthDate, p.BirthDate)
	p.HeightCm = keep(b.HeightCm, p.HeightCm)
	p.WeightKg = keep(b.WeightKg, p.WeightKg)
	p.ActivityLevel = keep(b.ActivityLevel, p.ActivityLevel)
	p.UpdatedAt = time.Now().UTC()

	p.PushEvent(UpdatedEvent{
		At:       p.UpdatedAt,
		UserID:   p.UserID,
		Complete: p.Nutrition().Complete(),
	})
}

func keep[T any](v, stored *T) *T {
	if v == nil {
		return stored
	}
	return v
}

// Nutrition exposes the biometric fields in the shape the calculator expects.
func (p *Profile) Nutrition() nutrition.Profile {
	return nutrition.Profile{
		Gender:        p.Gender,
		BirthDate:     p.BirthDate,
		HeightCm:      p.HeightCm,
		WeightKg:      p.WeightKg,
		ActivityLevel: p.ActivityLevel,
	}
}

type UpdatedEvent struct {
	At       time.Time
	UserID   string
	Complete bool
}

func (e UpdatedEvent) Type() string {
	return EventUpdated
}

func (e UpdatedEvent) PublishedAt() time.Time {
	return e.At
}
