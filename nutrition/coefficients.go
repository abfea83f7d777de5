package nutrition

// Coefficients is the single table of constants the engine reads. Every
// multiplier, default, and bound lives here so a caller can swap one value
// (e.g. a different energy-per-kg figure) without touching the formulas.
type Coefficients struct {
	ActivityMultipliers map[ActivityLevel]float64
	GoalFactors         map[Goal]float64
	// ProteinGPerKg is the default protein intake per kg of body weight,
	// used when the input carries no proteinGPerKg override.
	ProteinGPerKg map[Goal]float64

	DefaultFatShare    float64 // fraction of target calories from fat
	DefaultFatGPerKg   float64 // fat floor, g per kg body weight
	ProteinKcalPerGram float64
	CarbKcalPerGram    float64
	FatKcalPerGram     float64

	DefaultWaterMlPerKg float64
	ThermicEffectShare  float64

	// Body composition bounds. Siri results outside the body-fat band are
	// clamped; densities outside (0, MaxBodyDensity] are rejected.
	MaxBodyDensity    float64
	MinBodyFatPercent float64
	MaxBodyFatPercent float64

	// KcalPerKg is the energy-to-mass conversion (an approximation, not a
	// measured value).
	KcalPerKg            float64
	TargetChangeFraction float64 // heuristic total change, share of current weight
	NoiseFloorKcal       float64 // daily balance below this has no trajectory
	MinWeeklyChangeKg    float64
	MaxWeeks             float64
	WeeksPerMonth        float64
	CuttingFatShare      float64 // share of weight lost that is fat mass
	BulkingFatShare      float64 // share of weight gained that is fat mass
	MinWeightKg          float64
	MaxWeightKg          float64

	WaterGlassMl float64 // volume of one logged glass of water
}

// DefaultCoefficients returns the documented constant table.
func DefaultCoefficients() Coefficients {
	return Coefficients{
		ActivityMultipliers: map[ActivityLevel]float64{
			ActivitySedentary: 1.2,
			ActivityLight:     1.375,
			ActivityModerate:  1.55,
			ActivityHigh:      1.725,
			ActivityVeryHigh:  1.9,
		},
		GoalFactors: map[Goal]float64{
			GoalCutting:     0.85,  // 15% deficit
			GoalMaintenance: 1.0,
			GoalBulking:     1.125, // 12.5% surplus
		},
		ProteinGPerKg: map[Goal]float64{
			GoalCutting:     2.0,
			GoalMaintenance: 1.8,
			GoalBulking:     2.0,
		},

		DefaultFatShare:    0.25,
		DefaultFatGPerKg:   1.0,
		ProteinKcalPerGram: 4,
		CarbKcalPerGram:    4,
		FatKcalPerGram:     9,

		DefaultWaterMlPerKg: 35,
		ThermicEffectShare:  0.10,

		MaxBodyDensity:    1.2,
		MinBodyFatPercent: 5,
		MaxBodyFatPercent: 50,

		KcalPerKg:            7700,
		TargetChangeFraction: 0.075,
		NoiseFloorKcal:       50,
		MinWeeklyChangeKg:    0.01,
		MaxWeeks:             52,
		WeeksPerMonth:        4.33,
		CuttingFatShare:      0.70,
		BulkingFatShare:      0.50,
		MinWeightKg:          40,
		MaxWeightKg:          200,

		WaterGlassMl: 250,
	}
}

// Engine evaluates the nutrition formulas over one coefficient table. It holds
// no mutable state, so a single Engine is safe for concurrent use.
type Engine struct {
	c Coefficients
}

// NewEngine returns an Engine over c.
func NewEngine(c Coefficients) *Engine {
	return &Engine{c: c}
}

// Default is the Engine over DefaultCoefficients.
var Default = NewEngine(DefaultCoefficients())
