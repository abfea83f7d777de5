package nutrition

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 80 kg / 180 cm / 30 y male, moderate activity, maintenance, no skinfolds.
func TestCalculate_MifflinMaintenance(t *testing.T) {
	res := Default.Calculate(baseInput())

	assert.Nil(t, res.BodyFatPercent)
	assert.Nil(t, res.LeanMassKg)
	assert.Equal(t, "Mifflin-St Jeor", res.RestingEnergyFormulaUsed)
	require.NotNil(t, res.RestingEnergyKcal)
	assert.InDelta(t, 1780, *res.RestingEnergyKcal, 1e-9)
	assert.InDelta(t, 2759, *res.TotalDailyEnergyKcal, 1e-9)
	assert.InDelta(t, 2759, *res.TargetCaloriesKcal, 1e-9)
	assert.InDelta(t, 275.9, *res.ThermicEffectKcal, 1e-9)
	assert.Equal(t, GoalMaintenance, res.Goal)
	assert.Equal(t, 2800.0, *res.WaterMl)

	require.NotNil(t, res.Macros)
	assert.Equal(t, 144.0, res.Macros.ProteinG)
	assert.Equal(t, 80.0, res.Macros.FatG)
	assert.InDelta(t, 365.75, res.Macros.CarbsG, 0.051)
	assert.Empty(t, res.Issues)
}

func TestCalculate_SkinfoldsSelectKatchMcArdle(t *testing.T) {
	in := baseInput()
	in.Skinfolds = uniformSkinfolds(100)
	res := Default.Calculate(in)

	require.NotNil(t, res.BodyFatPercent)
	require.NotNil(t, res.LeanMassKg)
	assert.InDelta(t, 14.6346, *res.BodyFatPercent, 1e-3)
	assert.InDelta(t, 80*(1-*res.BodyFatPercent/100), *res.LeanMassKg, 1e-9)
	assert.Equal(t, "Katch-McArdle", res.RestingEnergyFormulaUsed)
	assert.InDelta(t, 370+21.6**res.LeanMassKg, *res.RestingEnergyKcal, 1e-9)
}

func TestCalculate_ExplicitFormulaOverridesAuto(t *testing.T) {
	in := baseInput()
	in.Skinfolds = uniformSkinfolds(100)
	in.RestingEnergyFormula = FormulaHarrisBenedict
	res := Default.Calculate(in)

	assert.Equal(t, "Harris-Benedict Revised", res.RestingEnergyFormulaUsed)
	assert.InDelta(t, 1853.632, *res.RestingEnergyKcal, 1e-6)
	assert.NotNil(t, res.BodyFatPercent)
}

func TestCalculate_FormulaUnavailable(t *testing.T) {
	in := baseInput()
	in.RestingEnergyFormula = FormulaKatchMcArdle
	res := Default.Calculate(in)

	assert.True(t, res.HasIssue(IssueFormulaUnavailable))
	assert.Nil(t, res.RestingEnergyKcal)
	assert.Nil(t, res.TotalDailyEnergyKcal)
	assert.Nil(t, res.TargetCaloriesKcal)
	assert.Nil(t, res.Macros)
	assert.Empty(t, res.RestingEnergyFormulaUsed)
	// Hydration only needs weight.
	assert.Equal(t, 2800.0, *res.WaterMl)
}

func TestCalculate_InfeasibleMacros(t *testing.T) {
	in := baseInput()
	in.ProteinGPerKg = Float(10)
	res := Default.Calculate(in)

	require.NotNil(t, res.Macros)
	assert.True(t, res.Macros.Infeasible())
	assert.True(t, res.HasIssue(IssueInfeasibleMacros))
	assert.False(t, res.HasIssue(IssueFormulaUnavailable))
}

func TestCalculate_MissingInputs(t *testing.T) {
	res := Default.Calculate(UserInput{})

	assert.Nil(t, res.BodyFatPercent)
	assert.Nil(t, res.RestingEnergyKcal)
	assert.Nil(t, res.Macros)
	assert.Nil(t, res.WaterMl)
	assert.Equal(t, GoalMaintenance, res.Goal)
	assert.Empty(t, res.Issues)

	b, err := json.Marshal(res)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"targetCaloriesKcal":null`)
	assert.NotContains(t, string(b), `"issues"`)
}

func TestCalculate_Deterministic(t *testing.T) {
	in := baseInput()
	in.Goal = GoalCutting
	in.Skinfolds = uniformSkinfolds(140)
	in.FatPercentOfCalories = Float(30)

	assert.Equal(t, Default.Calculate(in), Default.Calculate(in))
}

func TestCalculate_GoalScalesTarget(t *testing.T) {
	for goal, factor := range map[Goal]float64{GoalCutting: 0.85, GoalMaintenance: 1, GoalBulking: 1.125} {
		in := baseInput()
		in.Goal = goal
		res := Default.Calculate(in)
		assert.InDelta(t, *res.TotalDailyEnergyKcal*factor, *res.TargetCaloriesKcal, 1e-9, "goal %s", goal)
		assert.Equal(t, goal, res.Goal)
	}
}
