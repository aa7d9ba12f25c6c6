// Package nutrition turns a biometric profile and a goal into daily calorie and
// macro targets, and sums logged food quantities into consumed totals.
//
// Everything here is pure: no I/O, no logging, no clock. Callers pass the
// reference date explicitly and decide how to round and render the results.
package nutrition

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInsufficientData      = errors.New("insufficient data")
	ErrUnsupportedEnumValue  = errors.New("unsupported enum value")
	ErrMalformedNutrientData = errors.New("malformed nutrient data")
	ErrImplausibleValue      = errors.New("implausible value")
)

type Gender string

const (
	Male   Gender = "male"
	Female Gender = "female"
)

func ParseGender(s string) (Gender, error) {
	switch g := Gender(s); g {
	case Male, Female:
		return g, nil
	default:
		return "", unsupported("gender", s)
	}
}

type ActivityLevel string

const (
	Sedentary  ActivityLevel = "sedentary"
	Light      ActivityLevel = "light"
	Moderate   ActivityLevel = "moderate"
	Active     ActivityLevel = "active"
	VeryActive ActivityLevel = "very_active"
)

func ParseActivityLevel(s string) (ActivityLevel, error) {
	l := ActivityLevel(s)
	if _, ok := activityFactors[l]; !ok {
		return "", unsupported("activity level", s)
	}
	return l, nil
}

type GoalType string

const (
	Lose     GoalType = "lose"
	Maintain GoalType = "maintain"
	Gain     GoalType = "gain"
)

func ParseGoalType(s string) (GoalType, error) {
	switch g := GoalType(s); g {
	case Lose, Maintain, Gain:
		return g, nil
	default:
		return "", unsupported("goal type", s)
	}
}

// Profile holds the biometric inputs. A nil field means the user has not
// entered it yet.
type Profile struct {
	Gender        *Gender
	BirthDate     *time.Time
	HeightCm      *float64
	WeightKg      *float64
	ActivityLevel *ActivityLevel
}

// Complete reports whether every field needed by ComputeTargets is present.
func (p Profile) Complete() bool {
	return p.Gender != nil &&
		p.BirthDate != nil &&
		p.HeightCm != nil &&
		p.WeightKg != nil &&
		p.ActivityLevel != nil
}

const DefaultProteinPerKg = 1.8

// Goal carries the user's objective. TargetWeightKg and WeeklyRateKg are
// informational and do not take part in the calorie math.
type Goal struct {
	GoalType       GoalType
	TargetWeightKg *float64
	WeeklyRateKg   float64
	ProteinPerKg   float64
}

type NutrientDensity struct {
	KcalPer100g    float64
	ProteinPer100g float64
	CarbsPer100g   float64
	FatPer100g     float64
}

// NewNutrientDensity resolves nullable per-100g columns, treating absent
// values as zero.
func NewNutrientDensity(kcal, protein, carbs, fat *float64) NutrientDensity {
	return NutrientDensity{
		KcalPer100g:    valueOrZero(kcal),
		ProteinPer100g: valueOrZero(protein),
		CarbsPer100g:   valueOrZero(carbs),
		FatPer100g:     valueOrZero(fat),
	}
}

type LoggedItem struct {
	Density       NutrientDensity
	QuantityGrams float64
}

type MacroTarget struct {
	ProteinGrams float64
	CarbsGrams   float64
	FatGrams     float64
}

type CalculationResult struct {
	AgeYears      int
	BMR           float64
	TDEE          float64
	CalorieTarget float64
	Macros        MacroTarget
}

type ConsumedTotals struct {
	Kcal         float64
	ProteinGrams float64
	CarbsGrams   float64
	FatGrams     float64
}

func unsupported(kind, value string) error {
	return fmt.Errorf("%w: %s %q", ErrUnsupportedEnumValue, kind, value)
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
