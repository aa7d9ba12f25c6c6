package nutrition

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T {
	return &v
}

func completeProfile() Profile {
	return Profile{
		Gender:        ptr(Male),
		BirthDate:     ptr(date(1994, time.March, 10)),
		HeightCm:      ptr(180.0),
		WeightKg:      ptr(80.0),
		ActivityLevel: ptr(Moderate),
	}
}

func TestAge(t *testing.T) {
	asOf := date(2024, time.June, 15)

	cases := []struct {
		name  string
		birth time.Time
		want  int
	}{
		{"birthday yesterday", date(1990, time.June, 14), 34},
		{"birthday today", date(1990, time.June, 15), 34},
		{"birthday tomorrow", date(1990, time.June, 16), 33},
		{"earlier month", date(1990, time.January, 31), 34},
		{"later month", date(1990, time.December, 1), 33},
		{"born today", asOf, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Age(tc.birth, asOf))
		})
	}
}

func TestAge_RelativeToToday(t *testing.T) {
	today := time.Now().UTC()
	const n = 25

	before := today.AddDate(-n, 0, -1)
	after := today.AddDate(-n, 0, 1)

	assert.Equal(t, n, Age(before, today))
	assert.Equal(t, n-1, Age(after, today))
}

func TestAge_LeapDay(t *testing.T) {
	birth := date(2000, time.February, 29)

	assert.Equal(t, 22, Age(birth, date(2023, time.February, 28)))
	assert.Equal(t, 23, Age(birth, date(2023, time.March, 1)))
	assert.Equal(t, 24, Age(birth, date(2024, time.February, 29)))
}

func TestBasalMetabolicRate(t *testing.T) {
	male, err := BasalMetabolicRate(Male, 80, 180, 30)
	require.NoError(t, err)
	assert.Equal(t, 1780.0, male)

	female, err := BasalMetabolicRate(Female, 80, 180, 30)
	require.NoError(t, err)
	assert.Equal(t, 1614.0, female)

	_, err = BasalMetabolicRate(Gender("other"), 80, 180, 30)
	assert.ErrorIs(t, err, ErrUnsupportedEnumValue)
	assert.NotErrorIs(t, err, ErrInsufficientData)
}

func TestBasalMetabolicRate_Monotonic(t *testing.T) {
	for _, g := range []Gender{Male, Female} {
		prev, _ := BasalMetabolicRate(g, 40, 170, 30)
		for w := 41.0; w <= 200; w++ {
			cur, err := BasalMetabolicRate(g, w, 170, 30)
			require.NoError(t, err)
			assert.Greater(t, cur, prev, "weight %v", w)
			prev = cur
		}

		prev, _ = BasalMetabolicRate(g, 70, 120, 30)
		for h := 121.0; h <= 220; h++ {
			cur, err := BasalMetabolicRate(g, 70, h, 30)
			require.NoError(t, err)
			assert.Greater(t, cur, prev, "height %v", h)
			prev = cur
		}

		prev, _ = BasalMetabolicRate(g, 70, 170, 1)
		for a := 2; a <= 110; a++ {
			cur, err := BasalMetabolicRate(g, 70, 170, a)
			require.NoError(t, err)
			assert.Less(t, cur, prev, "age %d", a)
			prev = cur
		}
	}
}

func TestActivityFactor(t *testing.T) {
	want := map[ActivityLevel]float64{
		Sedentary:  1.2,
		Light:      1.375,
		Moderate:   1.55,
		Active:     1.725,
		VeryActive: 1.9,
	}
	for level, factor := range want {
		got, err := ActivityFactor(level)
		require.NoError(t, err)
		assert.Equal(t, factor, got, level)
	}

	for _, bad := range []ActivityLevel{"", "extreme", "Moderate", "very active"} {
		_, err := ActivityFactor(bad)
		assert.ErrorIs(t, err, ErrUnsupportedEnumValue, "level %q", bad)
	}
}

func TestTotalDailyEnergyExpenditure(t *testing.T) {
	tdee, err := TotalDailyEnergyExpenditure(1780, Moderate)
	require.NoError(t, err)
	assert.InDelta(t, 2759.0, tdee, 1e-9)

	_, err = TotalDailyEnergyExpenditure(1780, ActivityLevel("couch"))
	assert.ErrorIs(t, err, ErrUnsupportedEnumValue)
}

func TestCalorieTarget(t *testing.T) {
	cases := []struct {
		goal GoalType
		want float64
	}{
		{Maintain, 2759},
		{Lose, 2259},
		{Gain, 3059},
	}
	for _, tc := range cases {
		got, err := CalorieTarget(2759, tc.goal)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, tc.goal)
	}

	_, err := CalorieTarget(2759, GoalType("bulk"))
	assert.ErrorIs(t, err, ErrUnsupportedEnumValue)
}

func TestMacroTargets(t *testing.T) {
	m := MacroTargets(2259, 80, 1.8)

	assert.InDelta(t, 144.0, m.ProteinGrams, 1e-9)
	assert.InDelta(t, 210.375, m.CarbsGrams, 1e-9)
	assert.InDelta(t, 93.5, m.FatGrams, 1e-9)
}

func TestMacroTargets_ClampsRemainder(t *testing.T) {
	for _, kcal := range []float64{0, 100, 500, 1000, 1500} {
		for _, weight := range []float64{0, 40, 80, 150, 250} {
			m := MacroTargets(kcal, weight, 3)
			assert.GreaterOrEqual(t, m.CarbsGrams, 0.0)
			assert.GreaterOrEqual(t, m.FatGrams, 0.0)
			assert.Equal(t, 3*weight, m.ProteinGrams)
		}
	}

	m := MacroTargets(500, 150, 2)
	assert.Zero(t, m.CarbsGrams)
	assert.Zero(t, m.FatGrams)
	assert.Equal(t, 300.0, m.ProteinGrams)
}

func TestComputeTargets(t *testing.T) {
	p := completeProfile()
	asOf := date(2024, time.June, 15)

	res, err := ComputeTargets(p, Goal{GoalType: Lose, ProteinPerKg: 1.8}, asOf)
	require.NoError(t, err)

	assert.Equal(t, 30, res.AgeYears)
	assert.Equal(t, 1780.0, res.BMR)
	assert.InDelta(t, 2759.0, res.TDEE, 1e-9)
	assert.InDelta(t, 2259.0, res.CalorieTarget, 1e-9)
	assert.InDelta(t, 144.0, res.Macros.ProteinGrams, 1e-9)
	assert.InDelta(t, 210.375, res.Macros.CarbsGrams, 1e-9)
	assert.InDelta(t, 93.5, res.Macros.FatGrams, 1e-9)
}

func TestComputeTargets_DefaultProtein(t *testing.T) {
	res, err := ComputeTargets(completeProfile(), Goal{GoalType: Maintain}, date(2024, time.June, 15))
	require.NoError(t, err)
	assert.InDelta(t, DefaultProteinPerKg*80, res.Macros.ProteinGrams, 1e-9)
}

func TestComputeTargets_InsufficientData(t *testing.T) {
	cases := []struct {
		name string
		mut  func(p *Profile)
	}{
		{"nil Gender", func(p *Profile) { p.Gender = nil }},
		{"nil BirthDate", func(p *Profile) { p.BirthDate = nil }},
		{"nil HeightCm", func(p *Profile) { p.HeightCm = nil }},
		{"nil WeightKg", func(p *Profile) { p.WeightKg = nil }},
		{"nil ActivityLevel", func(p *Profile) { p.ActivityLevel = nil }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := completeProfile()
			tc.mut(&p)
			_, err := ComputeTargets(p, Goal{GoalType: Maintain}, date(2024, time.June, 15))
			assert.ErrorIs(t, err, ErrInsufficientData)
			assert.NotErrorIs(t, err, ErrUnsupportedEnumValue)
		})
	}
}

func TestComputeTargets_Rejects(t *testing.T) {
	asOf := date(2024, time.June, 15)

	cases := []struct {
		name string
		mut  func(p *Profile, g *Goal)
		want error
	}{
		{"garbage gender", func(p *Profile, _ *Goal) { p.Gender = ptr(Gender("x")) }, ErrUnsupportedEnumValue},
		{"garbage activity", func(p *Profile, _ *Goal) { p.ActivityLevel = ptr(ActivityLevel("x")) }, ErrUnsupportedEnumValue},
		{"garbage goal", func(_ *Profile, g *Goal) { g.GoalType = "x" }, ErrUnsupportedEnumValue},
		{"zero weight", func(p *Profile, _ *Goal) { p.WeightKg = ptr(0.0) }, ErrImplausibleValue},
		{"NaN height", func(p *Profile, _ *Goal) { p.HeightCm = ptr(math.NaN()) }, ErrImplausibleValue},
		{"future birth", func(p *Profile, _ *Goal) { p.BirthDate = ptr(date(2030, 1, 1)) }, ErrImplausibleValue},
		{"negative protein", func(_ *Profile, g *Goal) { g.ProteinPerKg = -1 }, ErrImplausibleValue},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := completeProfile()
			g := Goal{GoalType: Maintain, ProteinPerKg: 1.8}
			tc.mut(&p, &g)
			_, err := ComputeTargets(p, g, asOf)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestParseEnums(t *testing.T) {
	g, err := ParseGender("female")
	require.NoError(t, err)
	assert.Equal(t, Female, g)
	_, err = ParseGender("")
	assert.ErrorIs(t, err, ErrUnsupportedEnumValue)

	l, err := ParseActivityLevel("very_active")
	require.NoError(t, err)
	assert.Equal(t, VeryActive, l)
	_, err = ParseActivityLevel("very-active")
	assert.ErrorIs(t, err, ErrUnsupportedEnumValue)

	gt, err := ParseGoalType("gain")
	require.NoError(t, err)
	assert.Equal(t, Gain, gt)
	_, err = ParseGoalType("GAIN")
	assert.ErrorIs(t, err, ErrUnsupportedEnumValue)
}
