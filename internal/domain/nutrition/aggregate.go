package nutrition

import (
	"fmt"
	"math"
)

// SumConsumed accumulates the nutrients of every logged item. Unknown or
// invalid densities count as zero; a quantity that is negative or not finite
// fails the whole sum with ErrMalformedNutrientData.
func SumConsumed(items []LoggedItem) (ConsumedTotals, error) {
	var t ConsumedTotals
	for i, it := range items {
		q := it.QuantityGrams
		if math.IsNaN(q) || math.IsInf(q, 0) || q < 0 {
			return ConsumedTotals{}, fmt.Errorf("%w: item %d has quantity %v g", ErrMalformedNutrientData, i, q)
		}

		d := it.Density.Normalize()
		scale := q / 100
		t.Kcal += d.KcalPer100g * scale
		t.ProteinGrams += d.ProteinPer100g * scale
		t.CarbsGrams += d.CarbsPer100g * scale
		t.FatGrams += d.FatPer100g * scale
	}
	return t, nil
}

// Normalize replaces negative and non-finite values with zero.
func (d NutrientDensity) Normalize() NutrientDensity {
	return NutrientDensity{
		KcalPer100g:    nonNegative(d.KcalPer100g),
		ProteinPer100g: nonNegative(d.ProteinPer100g),
		CarbsPer100g:   nonNegative(d.CarbsPer100g),
		FatPer100g:     nonNegative(d.FatPer100g),
	}
}

func nonNegative(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
