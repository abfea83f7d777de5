package nutrition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cuttingInput() UserInput {
	in := baseInput()
	in.Goal = GoalCutting
	return in
}

func assertKcalAddUp(t *testing.T, m Macros, target float64) {
	t.Helper()
	assert.InDelta(t, target, m.ProteinKcal+m.CarbKcal+m.FatKcal, 1e-9)
}

/* ─── AllocateMacros ─────────────────────────────────────────────────── */

// 2246.34 kcal for an 80 kg cutter: protein 2 g/kg, fat floor 1 g/kg wins over
// 25% of the target, carbohydrate takes the remaining 886.34 kcal.
func TestAllocateMacros_CuttingDefaults(t *testing.T) {
	m, ok := Default.AllocateMacros(cuttingInput(), 2246.34, 80)
	require.True(t, ok)

	assert.Equal(t, 160.0, m.ProteinG)
	assert.InDelta(t, 640, m.ProteinKcal, 1e-9)
	assert.Equal(t, 80.0, m.FatG)
	assert.InDelta(t, 720, m.FatKcal, 1e-9)
	assert.InDelta(t, 886.34, m.CarbKcal, 1e-9)
	assert.InDelta(t, 221.6, m.CarbsG, 0.051)
	assert.False(t, m.Infeasible())
	assertKcalAddUp(t, m, 2246.34)
}

func TestAllocateMacros_FatPriority(t *testing.T) {
	const target = 3000.0

	t.Run("grams per kg wins", func(t *testing.T) {
		in := baseInput()
		in.FatGPerKg = Float(0.8)
		in.FatPercentOfCalories = Float(35)
		m, ok := Default.AllocateMacros(in, target, 80)
		require.True(t, ok)
		assert.Equal(t, 64.0, m.FatG)
		assertKcalAddUp(t, m, target)
	})
	t.Run("percent of calories", func(t *testing.T) {
		in := baseInput()
		in.FatPercentOfCalories = Float(30)
		m, ok := Default.AllocateMacros(in, target, 80)
		require.True(t, ok)
		assert.Equal(t, 100.0, m.FatG)
		assertKcalAddUp(t, m, target)
	})
	t.Run("default share above floor", func(t *testing.T) {
		m, ok := Default.AllocateMacros(baseInput(), 3600, 80)
		require.True(t, ok)
		assert.Equal(t, 100.0, m.FatG) // 3600·0.25/9 > 80
		assertKcalAddUp(t, m, 3600)
	})
	t.Run("invalid overrides ignored", func(t *testing.T) {
		in := baseInput()
		in.FatGPerKg = Float(-1)
		in.FatPercentOfCalories = Float(0)
		m, ok := Default.AllocateMacros(in, target, 80)
		require.True(t, ok)
		assert.Equal(t, 83.3, m.FatG) // 3000·0.25/9
	})
}

func TestAllocateMacros_ProteinOverride(t *testing.T) {
	in := baseInput()
	in.ProteinGPerKg = Float(2.2)
	m, ok := Default.AllocateMacros(in, 2759, 80)
	require.True(t, ok)
	assert.Equal(t, 176.0, m.ProteinG)
	assert.InDelta(t, 704, m.ProteinKcal, 1e-9)
}

func TestAllocateMacros_DefaultProteinByGoal(t *testing.T) {
	cases := map[Goal]float64{
		GoalCutting:     160,
		GoalMaintenance: 144,
		GoalBulking:     160,
		"unknown":       144,
	}
	for goal, want := range cases {
		in := baseInput()
		in.Goal = goal
		m, ok := Default.AllocateMacros(in, 2500, 80)
		require.True(t, ok)
		assert.Equal(t, want, m.ProteinG, "goal %q", goal)
	}
}

// Protein and fat alone exceed a 1000 kcal target. The deficit is reported,
// not clamped away.
func TestAllocateMacros_Infeasible(t *testing.T) {
	m, ok := Default.AllocateMacros(cuttingInput(), 1000, 80)
	require.True(t, ok)

	assert.True(t, m.Infeasible())
	assert.InDelta(t, -360, m.CarbKcal, 1e-9)
	assert.Equal(t, -90.0, m.CarbsG)
	assertKcalAddUp(t, m, 1000)
}

func TestAllocateMacros_Unavailable(t *testing.T) {
	_, ok := Default.AllocateMacros(baseInput(), 0, 80)
	assert.False(t, ok, "zero target")
	_, ok = Default.AllocateMacros(baseInput(), 2000, -80)
	assert.False(t, ok, "negative weight")
}

/* ─── EstimateWater ──────────────────────────────────────────────────── */

func TestEstimateWater(t *testing.T) {
	ml, ok := Default.EstimateWater(80, nil)
	require.True(t, ok)
	assert.Equal(t, 2800.0, ml)

	ml, ok = Default.EstimateWater(80, Float(40))
	require.True(t, ok)
	assert.Equal(t, 3200.0, ml)

	ml, ok = Default.EstimateWater(80, Float(0))
	require.True(t, ok)
	assert.Equal(t, 2800.0, ml, "invalid override falls back to default")

	_, ok = Default.EstimateWater(0, nil)
	assert.False(t, ok)
}
