package nutrition

import (
	"iter"
	"math"
	"slices"
)

// Projection estimates where the current energy balance leads.
type Projection struct {
	// DailyEnergyBalanceKcal is TDEE − target; positive means a deficit.
	DailyEnergyBalanceKcal float64 `json:"dailyEnergyBalanceKcal"`
	// WeeklyWeightChangeKg is balance × 7 / KcalPerKg, signed like the balance.
	WeeklyWeightChangeKg float64  `json:"weeklyWeightChangeKg"`
	TargetWeightChangeKg float64  `json:"targetWeightChangeKg"`
	EstimatedWeeks       int      `json:"estimatedWeeks"`
	EstimatedMonths      float64  `json:"estimatedMonths"`
	CurrentWeightKg      float64  `json:"currentWeightKg"`
	ProjectedWeightKg    float64  `json:"projectedWeightKg"`
	CurrentBodyFat       *float64 `json:"currentBodyFatPercent"`
	ProjectedBodyFat     *float64 `json:"projectedBodyFatPercent"`
}

// WeeklyPoint is one week of a projected trajectory. Week 0 is the current
// state.
type WeeklyPoint struct {
	WeekIndex      int      `json:"weekIndex"`
	WeightKg       float64  `json:"weightKg"`
	BodyFatPercent *float64 `json:"bodyFatPercent"`
}

// direction is −1 for cutting, +1 for bulking, 0 otherwise.
func direction(g Goal) float64 {
	switch g {
	case GoalCutting:
		return -1
	case GoalBulking:
		return 1
	default:
		return 0
	}
}

// ProjectTrajectory projects weight and body fat from res and the goal of in.
// ok is false when the current weight, TDEE, or target calories are
// unavailable. Maintenance goals, balances under the noise floor, and
// negligible weekly change yield a projection of zero weeks whose projected
// values equal the current ones.
func (e *Engine) ProjectTrajectory(in UserInput, res NutritionResult) (Projection, bool) {
	weight, ok := positive(in.WeightKg)
	if !ok || res.TotalDailyEnergyKcal == nil || res.TargetCaloriesKcal == nil {
		return Projection{}, false
	}

	balance := *res.TotalDailyEnergyKcal - *res.TargetCaloriesKcal
	p := Projection{
		DailyEnergyBalanceKcal: balance,
		CurrentWeightKg:        weight,
		ProjectedWeightKg:      weight,
		CurrentBodyFat:         copyFloat(res.BodyFatPercent),
		ProjectedBodyFat:       copyFloat(res.BodyFatPercent),
	}

	goal := in.goal()
	dir := direction(goal)
	if dir == 0 || math.Abs(balance) < e.c.NoiseFloorKcal {
		return p, true
	}

	p.WeeklyWeightChangeKg = balance * 7 / e.c.KcalPerKg
	rate := math.Abs(p.WeeklyWeightChangeKg)
	if rate < e.c.MinWeeklyChangeKg {
		return p, true
	}

	p.TargetWeightChangeKg = weight * e.c.TargetChangeFraction
	weeks := math.Min(p.TargetWeightChangeKg/rate, e.c.MaxWeeks)

	p.EstimatedWeeks = int(math.Round(weeks))
	p.EstimatedMonths = round1(weeks / e.c.WeeksPerMonth)
	p.ProjectedWeightKg = e.weightAt(weight, dir*rate*weeks)
	if res.BodyFatPercent != nil {
		p.ProjectedBodyFat = Float(e.bodyFatAt(weight, *res.BodyFatPercent, p.ProjectedWeightKg, goal))
	}
	return p, true
}

// WeeklySeries yields the trajectory week by week, from week 0 through
// min(horizonWeeks, EstimatedWeeks). Each point evaluates the same linear
// formula at an integer week, so the sequence can be ranged over any number
// of times and always recomputes from in and res. A degenerate projection
// yields nothing.
func (e *Engine) WeeklySeries(in UserInput, res NutritionResult, horizonWeeks int) iter.Seq[WeeklyPoint] {
	return func(yield func(WeeklyPoint) bool) {
		p, ok := e.ProjectTrajectory(in, res)
		if !ok || p.EstimatedWeeks == 0 || horizonWeeks < 0 {
			return
		}
		goal := in.goal()
		rate := math.Abs(p.WeeklyWeightChangeKg) * direction(goal)
		last := min(horizonWeeks, p.EstimatedWeeks)

		for week := 0; week <= last; week++ {
			pt := WeeklyPoint{
				WeekIndex: week,
				WeightKg:  e.weightAt(p.CurrentWeightKg, rate*float64(week)),
			}
			if p.CurrentBodyFat != nil {
				pt.BodyFatPercent = Float(e.bodyFatAt(p.CurrentWeightKg, *p.CurrentBodyFat, pt.WeightKg, goal))
			}
			if !yield(pt) {
				return
			}
		}
	}
}

// WeeklyPoints collects WeeklySeries into a slice (never nil).
func (e *Engine) WeeklyPoints(in UserInput, res NutritionResult, horizonWeeks int) []WeeklyPoint {
	points := slices.Collect(e.WeeklySeries(in, res, horizonWeeks))
	if points == nil {
		return []WeeklyPoint{}
	}
	return points
}

// weightAt applies change to current and clamps to the plausible range.
func (e *Engine) weightAt(current, change float64) float64 {
	return clamp(current+change, e.c.MinWeightKg, e.c.MaxWeightKg)
}

// bodyFatAt splits the weight change between fat and lean mass by goal and
// returns the resulting body-fat percent, clamped.
func (e *Engine) bodyFatAt(currentWeight, currentBF, weight float64, goal Goal) float64 {
	fatMass := currentWeight * currentBF / 100
	switch goal {
	case GoalCutting:
		fatMass -= (currentWeight - weight) * e.c.CuttingFatShare
	case GoalBulking:
		fatMass += (weight - currentWeight) * e.c.BulkingFatShare
	}
	return clamp(fatMass/weight*100, e.c.MinBodyFatPercent, e.c.MaxBodyFatPercent)
}

func copyFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	return Float(*p)
}
