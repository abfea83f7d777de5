// Package nutrition turns anthropometric inputs into body-composition
// estimates, energy expenditure, macronutrient targets, and weight/body-fat
// projections. Every operation is a pure function of its arguments; values
// that cannot be derived are reported as absent rather than as errors.
package nutrition
