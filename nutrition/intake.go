package nutrition

import "math"

// MealCalories returns calories when it holds a positive value, otherwise the
// energy of the macros (4/4/9 kcal per gram).
func (e *Engine) MealCalories(proteinG, carbsG, fatG float64, calories *float64) float64 {
	if kcal, ok := positive(calories); ok {
		return kcal
	}
	return proteinG*e.c.ProteinKcalPerGram + carbsG*e.c.CarbKcalPerGram + fatG*e.c.FatKcalPerGram
}

// WaterFromGlasses converts a glass count into ml.
func (e *Engine) WaterFromGlasses(glasses int) float64 {
	return float64(max(glasses, 0)) * e.c.WaterGlassMl
}

// GlassesFor returns how many glasses cover waterMl, rounded to the nearest
// glass.
func (e *Engine) GlassesFor(waterMl float64) int {
	return int(math.Round(waterMl / e.c.WaterGlassMl))
}

// Intake is what was logged over one day.
type Intake struct {
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"proteinG"`
	CarbsG   float64 `json:"carbsG"`
	FatG     float64 `json:"fatG"`
	WaterMl  float64 `json:"waterMl"`
}

// TargetProgress compares one logged total with its target.
type TargetProgress struct {
	Consumed float64 `json:"consumed"`
	Target   float64 `json:"target"`
	// Remaining is never negative; overshooting leaves nothing remaining.
	Remaining float64 `json:"remaining"`
	// Percent is consumed/target·100, capped at 100. A target ≤ 0 gives 0.
	Percent float64 `json:"percent"`
}

// IntakeProgress holds one row per target. Rows are nil when the result has
// no such target.
type IntakeProgress struct {
	Calories      *TargetProgress `json:"calories"`
	Protein       *TargetProgress `json:"protein"`
	Carbs         *TargetProgress `json:"carbs"`
	Fat           *TargetProgress `json:"fat"`
	Water         *TargetProgress `json:"water"`
	TargetGlasses *int            `json:"targetGlasses"`
}

// CompareIntake measures a day's intake against the targets in res.
func (e *Engine) CompareIntake(in Intake, res NutritionResult) IntakeProgress {
	var p IntakeProgress
	if res.TargetCaloriesKcal != nil {
		p.Calories = progressOf(in.Calories, *res.TargetCaloriesKcal)
	}
	if m := res.Macros; m != nil {
		p.Protein = progressOf(in.ProteinG, m.ProteinG)
		p.Carbs = progressOf(in.CarbsG, m.CarbsG)
		p.Fat = progressOf(in.FatG, m.FatG)
	}
	if res.WaterMl != nil {
		p.Water = progressOf(in.WaterMl, *res.WaterMl)
		glasses := e.GlassesFor(*res.WaterMl)
		p.TargetGlasses = &glasses
	}
	return p
}

func progressOf(consumed, target float64) *TargetProgress {
	p := &TargetProgress{Consumed: consumed, Target: target}
	if target > 0 {
		p.Remaining = math.Max(target-consumed, 0)
		p.Percent = math.Min(consumed/target*100, 100)
	}
	return p
}
