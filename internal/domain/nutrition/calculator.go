package nutrition

import (
	"fmt"
	"math"
	"time"
)

// Calorie offsets applied to TDEE per goal type.
const (
	LoseCalorieOffset = -500.0
	GainCalorieOffset = 300.0
)

const (
	kcalPerGramProtein = 4.0
	kcalPerGramCarbs   = 4.0
	kcalPerGramFat     = 9.0
	carbsEnergyShare   = 0.5
	fatEnergyShare     = 0.5
)

var activityFactors = map[ActivityLevel]float64{
	Sedentary:  1.2,
	Light:      1.375,
	Moderate:   1.55,
	Active:     1.725,
	VeryActive: 1.9,
}

// Age returns the number of birthdays completed between birthDate and asOf.
func Age(birthDate, asOf time.Time) int {
	age := asOf.Year() - birthDate.Year()
	if asOf.Month() < birthDate.Month() ||
		(asOf.Month() == birthDate.Month() && asOf.Day() < birthDate.Day()) {
		age--
	}
	return age
}

// BasalMetabolicRate uses the Mifflin-St Jeor equation.
func BasalMetabolicRate(gender Gender, weightKg, heightCm float64, ageYears int) (float64, error) {
	base := 10*weightKg + 6.25*heightCm - 5*float64(ageYears)
	switch gender {
	case Male:
		return base + 5, nil
	case Female:
		return base - 161, nil
	default:
		return 0, unsupported("gender", string(gender))
	}
}

func ActivityFactor(level ActivityLevel) (float64, error) {
	f, ok := activityFactors[level]
	if !ok {
		return 0, unsupported("activity level", string(level))
	}
	return f, nil
}

func TotalDailyEnergyExpenditure(bmr float64, level ActivityLevel) (float64, error) {
	f, err := ActivityFactor(level)
	if err != nil {
		return 0, err
	}
	return bmr * f, nil
}

func CalorieTarget(tdee float64, goalType GoalType) (float64, error) {
	switch goalType {
	case Maintain:
		return tdee, nil
	case Lose:
		return tdee + LoseCalorieOffset, nil
	case Gain:
		return tdee + GainCalorieOffset, nil
	default:
		return 0, unsupported("goal type", string(goalType))
	}
}

// MacroTargets reserves protein first and splits whatever energy is left evenly
// between carbs and fat. Protein is never reduced, so for very low targets the
// protein alone may exceed calorieTarget.
func MacroTargets(calorieTarget, weightKg, proteinPerKg float64) MacroTarget {
	protein := proteinPerKg * weightKg
	remaining := math.Max(0, calorieTarget-protein*kcalPerGramProtein)
	return MacroTarget{
		ProteinGrams: protein,
		CarbsGrams:   remaining * carbsEnergyShare / kcalPerGramCarbs,
		FatGrams:     remaining * fatEnergyShare / kcalPerGramFat,
	}
}

// ComputeTargets runs the whole chain for a profile and goal as of the given
// date. It returns ErrInsufficientData when the profile is incomplete.
func ComputeTargets(p Profile, g Goal, asOf time.Time) (CalculationResult, error) {
	if !p.Complete() {
		return CalculationResult{}, ErrInsufficientData
	}

	weight, height := *p.WeightKg, *p.HeightCm
	if !positive(weight) {
		return CalculationResult{}, fmt.Errorf("%w: weight %v kg", ErrImplausibleValue, weight)
	}
	if !positive(height) {
		return CalculationResult{}, fmt.Errorf("%w: height %v cm", ErrImplausibleValue, height)
	}
	if p.BirthDate.After(asOf) {
		return CalculationResult{}, fmt.Errorf("%w: birth date after %s", ErrImplausibleValue, asOf.Format(time.DateOnly))
	}

	proteinPerKg := g.ProteinPerKg
	if proteinPerKg == 0 {
		proteinPerKg = DefaultProteinPerKg
	}
	if !positive(proteinPerKg) {
		return CalculationResult{}, fmt.Errorf("%w: protein %v g/kg", ErrImplausibleValue, proteinPerKg)
	}

	age := Age(*p.BirthDate, asOf)
	bmr, err := BasalMetabolicRate(*p.Gender, weight, height, age)
	if err != nil {
		return CalculationResult{}, err
	}
	tdee, err := TotalDailyEnergyExpenditure(bmr, *p.ActivityLevel)
	if err != nil {
		return CalculationResult{}, err
	}
	kcal, err := CalorieTarget(tdee, g.GoalType)
	if err != nil {
		return CalculationResult{}, err
	}

	return CalculationResult{
		AgeYears:      age,
		BMR:           bmr,
		TDEE:          tdee,
		CalorieTarget: kcal,
		Macros:        MacroTargets(kcal, weight, proteinPerKg),
	}, nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
