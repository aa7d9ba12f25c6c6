package goal

import (
	"errors"
	"github.com/burenotti/go_diet_backend/internal/domain"
	"github.com/burenotti/go_diet_backend/internal/domain/nutrition"
	"time"
)

var ErrGoalNotFound = errors.New("goal not found")

const EventUpdated = "goal.updated"

const DefaultWeeklyRateKg = 0.25

type Goal struct {
	domain.Aggregate `diff:"-"`
	UserID           string             `diff:"-"`
	GoalType         nutrition.GoalType `diff:"goal_type"`
	TargetWeightKg   *float64           `diff:"target_weight_kg"`
	WeeklyRateKg     float64            `diff:"weekly_rate_kg"`
	ProteinPerKg     float64            `diff:"protein_g_per_kg"`
	UpdatedAt        time.Time          `diff:"updated_at"`
}

// Default is the goal a user has before saving one.
func Default(userID string, proteinPerKg float64) *Goal {
	if proteinPerKg <= 0 {
		proteinPerKg = nutrition.DefaultProteinPerKg
	}
	return &Goal{
		UserID:       userID,
		GoalType:     nutrition.Maintain,
		WeeklyRateKg: DefaultWeeklyRateKg,
		ProteinPerKg: proteinPerKg,
		UpdatedAt:    time.Now().UTC(),
	}
}

func (g *Goal) Update(goalType nutrition.GoalType, targetWeightKg *float64, weeklyRateKg, proteinPerKg float64) {
	g.GoalType = goalType
	g.TargetWeightKg = targetWeightKg
	g.WeeklyRateKg = weeklyRateKg
	g.ProteinPerKg = proteinPerKg
	g.UpdatedAt = time.Now().UTC()

	g.PushEvent(UpdatedEvent{
		At:       g.UpdatedAt,
		UserID:   g.UserID,
		GoalType: g.GoalType,
	})
}

func (g *Goal) Nutrition() nutrition.Goal {
	return nutrition.Goal{
		GoalType:       g.GoalType,
		TargetWeightKg: g.TargetWeightKg,
		WeeklyRateKg:   g.WeeklyRateKg,
		ProteinPerKg:   g.ProteinPerKg,
	}
}

// Targets is the persisted snapshot of a calculation for a user's goal.
type Targets struct {
	UserID     string
	Result     nutrition.CalculationResult
	ComputedAt time.Time
}

type UpdatedEvent struct {
	At       time.Time
	UserID   string
	GoalType nutrition.GoalType
}

func (e UpdatedEvent) Type() string {
	return EventUpdated
}

func (e UpdatedEvent) PublishedAt() time.Time {
	return e.At
}
