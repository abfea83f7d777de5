package nutrition

import "math"

// Pollock seven-site body density coefficients, by sex.
type densityCoefficients struct {
	intercept, linear, quadratic, age float64
}

var pollock7 = map[Sex]densityCoefficients{
	SexMale:   {intercept: 1.112, linear: 0.00043499, quadratic: 0.00000055, age: 0.00028826},
	SexFemale: {intercept: 1.097, linear: 0.00046971, quadratic: 0.00000056, age: 0.00012828},
}

// BodyDensity returns the Pollock seven-site body density (g/cm³) for the
// skinfold sum S (mm):
//
//	d = intercept − linear·S + quadratic·S² − age·years
//
// ok is false when the skinfold set is incomplete or sex/age are unusable.
func BodyDensity(in UserInput) (float64, bool) {
	sum, ok := in.Skinfolds.Sum()
	if !ok {
		return 0, false
	}
	age, ok := positive(in.AgeYears)
	if !ok {
		return 0, false
	}
	sex, ok := ParseSex(string(in.Sex))
	if !ok {
		return 0, false
	}
	k := pollock7[sex]
	return k.intercept - k.linear*sum + k.quadratic*sum*sum - k.age*age, true
}

// EstimateBodyFat converts the seven-site density to body-fat percent with the
// Siri equation, (4.95/d − 4.5)·100, clamped to the configured band.
// Returns ok=false when the inputs are incomplete or the density falls outside
// (0, MaxBodyDensity]; that is an expected "no estimate" state, not an error.
func (e *Engine) EstimateBodyFat(in UserInput) (float64, bool) {
	density, ok := BodyDensity(in)
	if !ok || density <= 0 || density > e.c.MaxBodyDensity {
		return 0, false
	}
	bf := (4.95/density - 4.5) * 100
	if math.IsNaN(bf) || math.IsInf(bf, 0) {
		return 0, false
	}
	return clamp(bf, e.c.MinBodyFatPercent, e.c.MaxBodyFatPercent), true
}

// EstimateLeanMass returns weight × (1 − bodyFat/100). Both inputs must be
// finite and positive.
func (e *Engine) EstimateLeanMass(weightKg, bodyFatPercent float64) (float64, bool) {
	w, ok := positiveValue(weightKg)
	if !ok {
		return 0, false
	}
	bf, ok := positiveValue(bodyFatPercent)
	if !ok || bf >= 100 {
		return 0, false
	}
	return w * (1 - bf/100), true
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
