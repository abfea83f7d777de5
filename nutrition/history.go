package nutrition

import (
	"math"
	"slices"
	"time"
)

// HistoryEntry is the persisted shape of one calculation: the timestamp, the
// input snapshot, and the result fields flattened alongside them.
//
//	{"timestamp": "...", "userData": {...}, "bodyFatPercent": ..., ...}
type HistoryEntry struct {
	Timestamp time.Time `json:"timestamp"`
	UserData  UserInput `json:"userData"`
	NutritionResult
}

// NewHistoryEntry snapshots in and res at ts (stored in UTC).
func NewHistoryEntry(ts time.Time, in UserInput, res NutritionResult) HistoryEntry {
	return HistoryEntry{Timestamp: ts.UTC(), UserData: in, NutritionResult: res}
}

// Period limits a history listing to a trailing window.
type Period string

const (
	PeriodAll         Period = "all"
	PeriodWeek        Period = "week"
	PeriodMonth       Period = "month"
	PeriodThreeMonths Period = "3months"
)

// ParsePeriod accepts "", "all", "week", "month", and "3months".
func ParsePeriod(s string) (Period, bool) {
	switch Period(s) {
	case "", PeriodAll:
		return PeriodAll, true
	case PeriodWeek, PeriodMonth, PeriodThreeMonths:
		return Period(s), true
	}
	return "", false
}

// Since returns the start of the window ending at now. ok is false for
// PeriodAll.
func (p Period) Since(now time.Time) (time.Time, bool) {
	switch p {
	case PeriodWeek:
		return now.Add(-7 * 24 * time.Hour), true
	case PeriodMonth:
		return now.Add(-30 * 24 * time.Hour), true
	case PeriodThreeMonths:
		return now.Add(-90 * 24 * time.Hour), true
	}
	return time.Time{}, false
}

// Comparison is one first-vs-latest row of the progress summary.
type Comparison struct {
	Metric string  `json:"metric"`
	Unit   string  `json:"unit"`
	First  float64 `json:"first"`
	Last   float64 `json:"last"`
	Change float64 `json:"change"`
}

// sortedByTime returns a copy of entries ordered oldest first.
func sortedByTime(entries []HistoryEntry) []HistoryEntry {
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b HistoryEntry) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
	return sorted
}

// CompareHistory compares the oldest and newest entries. A metric is listed
// only when both entries carry it. Fewer than two entries yields no rows.
func CompareHistory(entries []HistoryEntry) []Comparison {
	rows := []Comparison{}
	if len(entries) < 2 {
		return rows
	}
	sorted := sortedByTime(entries)
	first, last := sorted[0], sorted[len(sorted)-1]

	add := func(metric, unit string, a, b *float64) {
		av, aOK := positive(a)
		bv, bOK := positive(b)
		if !aOK || !bOK {
			return
		}
		rows = append(rows, Comparison{Metric: metric, Unit: unit, First: av, Last: bv, Change: bv - av})
	}

	add("weight", "kg", first.UserData.WeightKg, last.UserData.WeightKg)
	add("bodyFat", "%", first.BodyFatPercent, last.BodyFatPercent)
	add("leanMass", "kg", first.LeanMassKg, last.LeanMassKg)
	add("waist", "cm", waist(first.UserData), waist(last.UserData))
	return rows
}

func waist(in UserInput) *float64 {
	if in.Circumferences == nil {
		return nil
	}
	return in.Circumferences.Waist
}

// Baseline is a projection replayed from the first recorded weight, so the
// expected trajectory can be drawn against what actually happened since.
type Baseline struct {
	StartDate     time.Time     `json:"startDate"`
	FirstWeightKg float64       `json:"firstWeightKg"`
	FirstBodyFat  *float64      `json:"firstBodyFatPercent"`
	Points        []WeeklyPoint `json:"points"`
}

const (
	baselineExtraWeeks = 8
	baselineMaxWeeks   = 20
)

// BaselineSeries projects from the oldest entry's weight and body fat using
// the energy numbers of the current result. The horizon is the number of
// weeks elapsed (rounded up, so any time at all counts as one week) plus
// eight, at most twenty. ok is false when there is no history, the oldest
// entry has no weight, or it is not older than now.
func (e *Engine) BaselineSeries(entries []HistoryEntry, current UserInput, res NutritionResult, now time.Time) (Baseline, bool) {
	if len(entries) == 0 {
		return Baseline{}, false
	}
	first := sortedByTime(entries)[0]
	weight, ok := positive(first.UserData.WeightKg)
	if !ok {
		return Baseline{}, false
	}
	weeks := int(math.Ceil(now.Sub(first.Timestamp).Hours() / (24 * 7)))
	if weeks < 1 {
		return Baseline{}, false
	}

	in := current
	in.WeightKg = Float(weight)
	replay := res
	if bf, ok := positive(first.BodyFatPercent); ok {
		replay.BodyFatPercent = Float(bf)
		if lean, ok := e.EstimateLeanMass(weight, bf); ok {
			replay.LeanMassKg = Float(lean)
		}
	}

	return Baseline{
		StartDate:     first.Timestamp,
		FirstWeightKg: weight,
		FirstBodyFat:  copyFloat(first.BodyFatPercent),
		Points:        e.WeeklyPoints(in, replay, min(weeks+baselineExtraWeeks, baselineMaxWeeks)),
	}, true
}
