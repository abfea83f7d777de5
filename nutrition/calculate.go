package nutrition

import "errors"

// IssueCode identifies a condition the application should surface to the
// user. Issues never stop the calculation.
type IssueCode string

const (
	// IssueFormulaUnavailable: the explicitly requested resting-energy formula
	// cannot run (Katch-McArdle without skinfolds). Energy fields are absent.
	IssueFormulaUnavailable IssueCode = "formula_unavailable"
	// IssueInfeasibleMacros: protein and fat exceed the calorie target, so
	// carbohydrates came out negative.
	IssueInfeasibleMacros IssueCode = "infeasible_macros"
)

type Issue struct {
	Code    IssueCode `json:"code"`
	Message string    `json:"message"`
}

// NutritionResult aggregates every derived value for one UserInput snapshot.
// Pointer fields are nil when the value is unavailable.
type NutritionResult struct {
	BodyFatPercent           *float64 `json:"bodyFatPercent"`
	LeanMassKg               *float64 `json:"leanMassKg"`
	RestingEnergyKcal        *float64 `json:"restingEnergyKcal"`
	RestingEnergyFormulaUsed string   `json:"restingEnergyFormulaUsed,omitempty"`
	TotalDailyEnergyKcal     *float64 `json:"totalDailyEnergyKcal"`
	TargetCaloriesKcal       *float64 `json:"targetCaloriesKcal"`
	Goal                     Goal     `json:"goal"`
	Macros                   *Macros  `json:"macros"`
	ThermicEffectKcal        *float64 `json:"thermicEffectKcal"`
	WaterMl                  *float64 `json:"waterMl"`
	Issues                   []Issue  `json:"issues,omitempty"`
}

// Calculate runs the whole pipeline: body composition, energy expenditure,
// macros, and hydration. It is a pure function of in and never fails; every
// value whose dependencies are missing is left nil.
func (e *Engine) Calculate(in UserInput) NutritionResult {
	res := NutritionResult{Goal: in.goal()}

	if bf, ok := e.EstimateBodyFat(in); ok {
		res.BodyFatPercent = Float(bf)
		if w, ok := positive(in.WeightKg); ok {
			if lean, ok := e.EstimateLeanMass(w, bf); ok {
				res.LeanMassKg = Float(lean)
			}
		}
	}

	energy, err := e.ComputeEnergyExpenditure(in, res.LeanMassKg)
	switch {
	case errors.Is(err, ErrFormulaUnavailable):
		res.Issues = append(res.Issues, Issue{
			Code:    IssueFormulaUnavailable,
			Message: energy.Formula.DisplayName() + " needs lean mass; provide all seven skinfolds or choose another formula",
		})
	case err == nil:
		res.RestingEnergyKcal = Float(energy.RestingEnergyKcal)
		res.RestingEnergyFormulaUsed = energy.Formula.DisplayName()
		res.TotalDailyEnergyKcal = Float(energy.TotalDailyEnergyKcal)
		res.TargetCaloriesKcal = Float(energy.TargetCaloriesKcal)
		res.ThermicEffectKcal = Float(energy.ThermicEffectKcal)
	}

	if w, ok := positive(in.WeightKg); ok {
		if res.TargetCaloriesKcal != nil {
			if m, ok := e.AllocateMacros(in, *res.TargetCaloriesKcal, w); ok {
				res.Macros = &m
				if m.Infeasible() {
					res.Issues = append(res.Issues, Issue{
						Code:    IssueInfeasibleMacros,
						Message: "protein and fat exceed the calorie target; carbohydrates are negative",
					})
				}
			}
		}
		if water, ok := e.EstimateWater(w, in.WaterMlPerKg); ok {
			res.WaterMl = Float(water)
		}
	}

	return res
}

// HasIssue reports whether res carries an issue with the given code.
func (res NutritionResult) HasIssue(code IssueCode) bool {
	for _, is := range res.Issues {
		if is.Code == code {
			return true
		}
	}
	return false
}
