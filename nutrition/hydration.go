package nutrition

// EstimateWater returns the daily water recommendation in ml, weight × ml/kg.
// mlPerKg may be nil (or invalid), in which case the default applies.
func (e *Engine) EstimateWater(weightKg float64, mlPerKg *float64) (float64, bool) {
	weight, ok := positiveValue(weightKg)
	if !ok {
		return 0, false
	}
	perKg, ok := positive(mlPerKg)
	if !ok {
		perKg = e.c.DefaultWaterMlPerKg
	}
	return weight * perKg, true
}
