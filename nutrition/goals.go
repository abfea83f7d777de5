package nutrition

import (
	"math"
	"time"
)

// Goals is a user's target weight and body fat. The start values anchor
// progress: they hold the measurements current when the target was set.
type Goals struct {
	TargetWeightKg       *float64 `json:"targetWeightKg,omitempty"       binding:"omitempty,gt=0"`
	TargetBodyFatPercent *float64 `json:"targetBodyFatPercent,omitempty" binding:"omitempty,gt=0,lt=100"`
	// TargetDate is a calendar day, YYYY-MM-DD.
	TargetDate string `json:"targetDate,omitempty" binding:"omitempty,datetime=2006-01-02"`
	Notes      string `json:"notes,omitempty"      binding:"max=2000"`

	StartWeightKg       *float64 `json:"startWeightKg,omitempty"       binding:"omitempty,gt=0"`
	StartBodyFatPercent *float64 `json:"startBodyFatPercent,omitempty" binding:"omitempty,gt=0,lt=100"`
}

// GoalMetric tracks one measurement against its target.
type GoalMetric struct {
	Start   float64 `json:"start"`
	Current float64 `json:"current"`
	Target  float64 `json:"target"`
	// Diff is target − current.
	Diff float64 `json:"diff"`
	// Progress is the share of the way from start to target, 0..100.
	Progress float64 `json:"progress"`
}

// GoalStatus is the progress report for a set of goals. BodyFat is nil when
// no body-fat target is set.
type GoalStatus struct {
	Weight  GoalMetric  `json:"weight"`
	BodyFat *GoalMetric `json:"bodyFat"`
}

// GoalProgress measures the current profile in and its result res against g.
// ok is false without a target weight or a current weight. While body fat
// cannot be estimated the body-fat row reports a current value of 0 and no
// progress.
func GoalProgress(res NutritionResult, in UserInput, g Goals) (GoalStatus, bool) {
	target, ok := positive(g.TargetWeightKg)
	if !ok {
		return GoalStatus{}, false
	}
	weight, ok := positive(in.WeightKg)
	if !ok {
		return GoalStatus{}, false
	}

	st := GoalStatus{Weight: metricToward(weight, target, g.StartWeightKg)}
	if bfTarget, ok := positive(g.TargetBodyFatPercent); ok {
		m := GoalMetric{Target: bfTarget, Diff: bfTarget}
		if bf, ok := positive(res.BodyFatPercent); ok {
			m = metricToward(bf, bfTarget, g.StartBodyFatPercent)
		}
		st.BodyFat = &m
	}
	return st, true
}

// metricToward builds a GoalMetric. Without a start the current value is the
// start. Reaching the target is 100 regardless of where it started.
func metricToward(current, target float64, start *float64) GoalMetric {
	from, ok := positive(start)
	if !ok {
		from = current
	}
	m := GoalMetric{Start: from, Current: current, Target: target, Diff: target - current}
	switch span := target - from; {
	case current == target:
		m.Progress = 100
	case span == 0:
		m.Progress = 0
	default:
		m.Progress = clamp((current-from)/span*100, 0, 100)
	}
	return m
}

// Anchor fills the start values g lacks. A previous start is kept while its
// target is unchanged; otherwise the current weight and body fat become the
// start.
func (g Goals) Anchor(prev Goals, in UserInput, res NutritionResult) Goals {
	if g.StartWeightKg == nil {
		if sameValue(prev.TargetWeightKg, g.TargetWeightKg) && prev.StartWeightKg != nil {
			g.StartWeightKg = copyFloat(prev.StartWeightKg)
		} else if w, ok := positive(in.WeightKg); ok {
			g.StartWeightKg = Float(w)
		}
	}
	if g.StartBodyFatPercent == nil {
		if sameValue(prev.TargetBodyFatPercent, g.TargetBodyFatPercent) && prev.StartBodyFatPercent != nil {
			g.StartBodyFatPercent = copyFloat(prev.StartBodyFatPercent)
		} else if bf, ok := positive(res.BodyFatPercent); ok {
			g.StartBodyFatPercent = Float(bf)
		}
	}
	return g
}

func sameValue(a, b *float64) bool {
	return a != nil && b != nil && *a == *b
}

// DaysRemaining returns the days from now until the start of TargetDate
// (UTC), rounded up. It is negative once the date has passed. ok is false
// when no valid date is set.
func (g Goals) DaysRemaining(now time.Time) (int, bool) {
	if g.TargetDate == "" {
		return 0, false
	}
	day, err := time.Parse(time.DateOnly, g.TargetDate)
	if err != nil {
		return 0, false
	}
	return int(math.Ceil(day.Sub(now).Hours() / 24)), true
}
