package nutrition

// baseInput is the 80 kg / 180 cm / 30 y male used across the tests.
func baseInput() UserInput {
	return UserInput{
		WeightKg:      Float(80),
		HeightCm:      Float(180),
		AgeYears:      Float(30),
		Sex:           SexMale,
		ActivityLevel: ActivityModerate,
		Goal:          GoalMaintenance,
	}
}

// uniformSkinfolds spreads sum evenly over the seven sites.
func uniformSkinfolds(sum float64) *Skinfolds {
	v := sum / 7
	return &Skinfolds{
		Chest: Float(v), Midaxillary: Float(v), Triceps: Float(v), Subscapular: Float(v),
		Abdominal: Float(v), Suprailiac: Float(v), Thigh: Float(v),
	}
}
