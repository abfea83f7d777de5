package nutrition

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable means the inputs a value depends on are absent. Callers
	// treat it as "no value", not as a failure.
	ErrUnavailable = errors.New("value unavailable: required inputs missing")

	// ErrFormulaUnavailable means the caller explicitly asked for a formula
	// whose dependency (lean mass for Katch-McArdle) is missing. The engine
	// does not substitute another formula.
	ErrFormulaUnavailable = errors.New("requested resting energy formula is unavailable")
)

// EnergyExpenditure is the output of the energy expenditure step.
type EnergyExpenditure struct {
	RestingEnergyKcal    float64
	Formula              Formula
	TotalDailyEnergyKcal float64
	TargetCaloriesKcal   float64
	ThermicEffectKcal    float64
}

// baseInputs extracts the four values the population formulas share.
func baseInputs(in UserInput) (weight, height, age float64, sex Sex, ok bool) {
	var wOK, hOK, aOK, sOK bool
	weight, wOK = positive(in.WeightKg)
	height, hOK = positive(in.HeightCm)
	age, aOK = positive(in.AgeYears)
	sex, sOK = ParseSex(string(in.Sex))
	return weight, height, age, sex, wOK && hOK && aOK && sOK
}

// MifflinStJeor returns resting energy (kcal/day):
// male 10w + 6.25h − 5a + 5, female 10w + 6.25h − 5a − 161.
func MifflinStJeor(in UserInput) (float64, bool) {
	w, h, a, sex, ok := baseInputs(in)
	if !ok {
		return 0, false
	}
	ree := 10*w + 6.25*h - 5*a
	if sex == SexMale {
		return ree + 5, true
	}
	return ree - 161, true
}

// HarrisBenedict returns resting energy (kcal/day) from the 1984 revision.
func HarrisBenedict(in UserInput) (float64, bool) {
	w, h, a, sex, ok := baseInputs(in)
	if !ok {
		return 0, false
	}
	if sex == SexMale {
		return 88.362 + 13.397*w + 4.799*h - 5.677*a, true
	}
	return 447.593 + 9.247*w + 3.098*h - 4.330*a, true
}

// KatchMcArdle returns resting energy (kcal/day) as 370 + 21.6·lean mass.
func KatchMcArdle(leanMassKg float64) (float64, bool) {
	lean, ok := positiveValue(leanMassKg)
	if !ok {
		return 0, false
	}
	return 370 + 21.6*lean, true
}

// SelectFormula resolves the requested formula. Auto (and any unrecognized
// name) picks Katch-McArdle when lean mass is known, Mifflin-St Jeor
// otherwise. An explicit Katch-McArdle request without lean mass returns
// ErrFormulaUnavailable.
func SelectFormula(requested Formula, leanAvailable bool) (Formula, error) {
	f, _ := ParseFormula(string(requested))
	switch f {
	case FormulaMifflinStJeor, FormulaHarrisBenedict:
		return f, nil
	case FormulaKatchMcArdle:
		if !leanAvailable {
			return f, ErrFormulaUnavailable
		}
		return f, nil
	default:
		if leanAvailable {
			return FormulaKatchMcArdle, nil
		}
		return FormulaMifflinStJeor, nil
	}
}

// ActivityMultiplier returns the TDEE multiplier for level. Absent or unknown
// levels use the sedentary multiplier; that is the defined fallback.
func (e *Engine) ActivityMultiplier(level ActivityLevel) float64 {
	l, _ := ParseActivityLevel(string(level))
	if m, ok := e.c.ActivityMultipliers[l]; ok {
		return m
	}
	return e.c.ActivityMultipliers[ActivitySedentary]
}

// GoalFactor returns the target-calorie factor for goal. Absent or unknown
// goals are treated as maintenance.
func (e *Engine) GoalFactor(goal Goal) float64 {
	g, _ := ParseGoal(string(goal))
	if f, ok := e.c.GoalFactors[g]; ok {
		return f
	}
	return e.c.GoalFactors[GoalMaintenance]
}

// ComputeEnergyExpenditure selects a resting-energy formula, then derives
// TDEE, target calories, and the thermic effect of food. leanMassKg may be
// nil. Errors: ErrFormulaUnavailable for an unsatisfiable explicit request,
// ErrUnavailable when the selected formula's inputs are missing.
func (e *Engine) ComputeEnergyExpenditure(in UserInput, leanMassKg *float64) (EnergyExpenditure, error) {
	lean, leanOK := positive(leanMassKg)

	formula, err := SelectFormula(in.RestingEnergyFormula, leanOK)
	if err != nil {
		return EnergyExpenditure{Formula: formula}, err
	}

	var ree float64
	var ok bool
	switch formula {
	case FormulaKatchMcArdle:
		ree, ok = KatchMcArdle(lean)
	case FormulaHarrisBenedict:
		ree, ok = HarrisBenedict(in)
	default:
		ree, ok = MifflinStJeor(in)
	}
	// Extreme ages can drive the population formulas to zero or below.
	if !ok || ree <= 0 {
		return EnergyExpenditure{Formula: formula}, fmt.Errorf("%s: %w", formula.DisplayName(), ErrUnavailable)
	}

	tdee := ree * e.ActivityMultiplier(in.ActivityLevel)
	return EnergyExpenditure{
		RestingEnergyKcal:    ree,
		Formula:              formula,
		TotalDailyEnergyKcal: tdee,
		TargetCaloriesKcal:   tdee * e.GoalFactor(in.Goal),
		ThermicEffectKcal:    tdee * e.c.ThermicEffectShare,
	}, nil
}
