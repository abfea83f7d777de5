package nutrition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMealCalories(t *testing.T) {
	assert.Equal(t, 30*4+50*4+10*9.0, Default.MealCalories(30, 50, 10, nil))
	assert.Equal(t, 512.0, Default.MealCalories(30, 50, 10, Float(512)), "explicit calories win")
	assert.Equal(t, 410.0, Default.MealCalories(30, 50, 10, Float(0)), "zero means not given")
	assert.Zero(t, Default.MealCalories(0, 0, 0, nil))
}

func TestWaterGlasses(t *testing.T) {
	assert.Equal(t, 2000.0, Default.WaterFromGlasses(8))
	assert.Zero(t, Default.WaterFromGlasses(-3))
	assert.Equal(t, 11, Default.GlassesFor(2800))
	assert.Equal(t, 13, Default.GlassesFor(3200))
}

func TestCompareIntake(t *testing.T) {
	res := Default.Calculate(baseInput()) // 2759 kcal, 144 g protein, 80 g fat, 2800 ml
	require.NotNil(t, res.Macros)

	in := Intake{Calories: 1379.5, ProteinG: 160, CarbsG: 100, FatG: 40, WaterMl: 1000}
	p := Default.CompareIntake(in, res)

	require.NotNil(t, p.Calories)
	assert.InDelta(t, 50, p.Calories.Percent, 1e-9)
	assert.InDelta(t, 1379.5, p.Calories.Remaining, 1e-9)

	require.NotNil(t, p.Protein)
	assert.Equal(t, 100.0, p.Protein.Percent, "capped")
	assert.Zero(t, p.Protein.Remaining, "overshoot leaves nothing")
	assert.Equal(t, 144.0, p.Protein.Target)

	require.NotNil(t, p.Fat)
	assert.InDelta(t, 50, p.Fat.Percent, 1e-9)
	assert.InDelta(t, res.Macros.CarbsG, p.Carbs.Target, 1e-9)

	require.NotNil(t, p.Water)
	assert.InDelta(t, 1000.0/2800*100, p.Water.Percent, 1e-9)
	require.NotNil(t, p.TargetGlasses)
	assert.Equal(t, 11, *p.TargetGlasses)
}

func TestCompareIntake_NoTargets(t *testing.T) {
	p := Default.CompareIntake(Intake{Calories: 500}, NutritionResult{})
	assert.Nil(t, p.Calories)
	assert.Nil(t, p.Protein)
	assert.Nil(t, p.Water)
	assert.Nil(t, p.TargetGlasses)
}

func TestCompareIntake_NegativeCarbTarget(t *testing.T) {
	res := NutritionResult{Macros: &Macros{ProteinG: 160, FatG: 80, CarbsG: -90}}
	p := Default.CompareIntake(Intake{CarbsG: 20}, res)

	require.NotNil(t, p.Carbs)
	assert.Zero(t, p.Carbs.Percent)
	assert.Zero(t, p.Carbs.Remaining)
	assert.Equal(t, -90.0, p.Carbs.Target)
}
