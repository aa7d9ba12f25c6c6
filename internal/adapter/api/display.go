package api

import (
	"github.com/burenotti/go_diet_backend/internal/domain/nutrition"
	"github.com/shopspring/decimal"
)

// Calories are shown as whole numbers, grams with one decimal. Rounding is
// half away from zero and happens only here, never in stored values.
func roundKcal(v float64) int64 {
	return decimal.NewFromFloat(v).Round(0).IntPart()
}

func roundGrams(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(1).Float64()
	return f
}

type macrosResp struct {
	ProteinGrams float64 `json:"protein_g"`
	CarbsGrams   float64 `json:"carbs_g"`
	FatGrams     float64 `json:"fat_g"`
}

func macrosOf(m nutrition.MacroTarget) macrosResp {
	return macrosResp{
		ProteinGrams: roundGrams(m.ProteinGrams),
		CarbsGrams:   roundGrams(m.CarbsGrams),
		FatGrams:     roundGrams(m.FatGrams),
	}
}

type targetsResp struct {
	Complete      bool        `json:"complete"`
	AgeYears      *int        `json:"age_years,omitempty"`
	BMR           *int64      `json:"bmr,omitempty"`
	TDEE          *int64      `json:"tdee,omitempty"`
	CalorieTarget *int64      `json:"calorie_target,omitempty"`
	Macros        *macrosResp `json:"macros,omitempty"`
}

// targetsOf renders a nil result as {"complete": false}.
func targetsOf(res *nutrition.CalculationResult) targetsResp {
	if res == nil {
		return targetsResp{Complete: false}
	}
	bmr := roundKcal(res.BMR)
	tdee := roundKcal(res.TDEE)
	target := roundKcal(res.CalorieTarget)
	macros := macrosOf(res.Macros)
	age := res.AgeYears
	return targetsResp{
		Complete:      true,
		AgeYears:      &age,
		BMR:           &bmr,
		TDEE:          &tdee,
		CalorieTarget: &target,
		Macros:        &macros,
	}
}

type totalsResp struct {
	Kcal         int64   `json:"kcal"`
	ProteinGrams float64 `json:"protein_g"`
	CarbsGrams   float64 `json:"carbs_g"`
	FatGrams     float64 `json:"fat_g"`
}

func totalsOf(t nutrition.ConsumedTotals) totalsResp {
	return totalsResp{
		Kcal:         roundKcal(t.Kcal),
		ProteinGrams: roundGrams(t.ProteinGrams),
		CarbsGrams:   roundGrams(t.CarbsGrams),
		FatGrams:     roundGrams(t.FatGrams),
	}
}

type densityResp struct {
	KcalPer100g    int64   `json:"kcal_per_100g"`
	ProteinPer100g float64 `json:"protein_per_100g"`
	CarbsPer100g   float64 `json:"carbs_per_100g"`
	FatPer100g     float64 `json:"fat_per_100g"`
}

func densityOf(d nutrition.NutrientDensity) densityResp {
	return densityResp{
		KcalPer100g:    roundKcal(d.KcalPer100g),
		ProteinPer100g: roundGrams(d.ProteinPer100g),
		CarbsPer100g:   roundGrams(d.CarbsPer100g),
		FatPer100g:     roundGrams(d.FatPer100g),
	}
}
