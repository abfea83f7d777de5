package nutrition

import "math"

// Macros is a protein/fat/carbohydrate split of a calorie target. Gram values
// are rounded to 0.1 g; kcal values are unrounded, and carbohydrate kcal is
// the exact remainder of the target.
type Macros struct {
	ProteinG    float64 `json:"proteinG"`
	CarbsG      float64 `json:"carbsG"`
	FatG        float64 `json:"fatG"`
	ProteinKcal float64 `json:"proteinKcal"`
	CarbKcal    float64 `json:"carbKcal"`
	FatKcal     float64 `json:"fatKcal"`
}

// Infeasible reports whether protein and fat already exceed the target,
// leaving a negative carbohydrate allocation. The allocator does not clamp
// this; the caller shows it to the user.
func (m Macros) Infeasible() bool {
	return m.CarbKcal < 0
}

// AllocateMacros partitions targetCalories.
//
// Protein: weight × proteinGPerKg override, else the goal default.
// Fat, first match wins: weight × fatGPerKg; target × fatPercent/100 / 9;
// max(target × DefaultFatShare / 9, weight × DefaultFatGPerKg).
// Carbohydrate: whatever kcal remain, / 4.
func (e *Engine) AllocateMacros(in UserInput, targetCalories, weightKg float64) (Macros, bool) {
	target, ok := positiveValue(targetCalories)
	if !ok {
		return Macros{}, false
	}
	weight, ok := positiveValue(weightKg)
	if !ok {
		return Macros{}, false
	}

	proteinPerKg, ok := positive(in.ProteinGPerKg)
	if !ok {
		proteinPerKg = e.c.ProteinGPerKg[in.goal()]
	}
	proteinG := weight * proteinPerKg
	proteinKcal := proteinG * e.c.ProteinKcalPerGram

	var fatG float64
	if perKg, ok := positive(in.FatGPerKg); ok {
		fatG = weight * perKg
	} else if pct, ok := positive(in.FatPercentOfCalories); ok {
		fatG = target * pct / 100 / e.c.FatKcalPerGram
	} else {
		fatG = math.Max(target*e.c.DefaultFatShare/e.c.FatKcalPerGram, weight*e.c.DefaultFatGPerKg)
	}
	fatKcal := fatG * e.c.FatKcalPerGram

	carbKcal := target - proteinKcal - fatKcal

	return Macros{
		ProteinG:    round1(proteinG),
		CarbsG:      round1(carbKcal / e.c.CarbKcalPerGram),
		FatG:        round1(fatG),
		ProteinKcal: proteinKcal,
		CarbKcal:    carbKcal,
		FatKcal:     fatKcal,
	}, true
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
