package main

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"lg/nutrition-go-api/nutrition"
)

// parseHorizon reads ?horizon=, defaulting to the configured horizon. Writes a
// 400 and returns false for non-integers and values outside 0..max.
func (h *Handler) parseHorizon(c *gin.Context) (int, bool) {
	raw := c.Query("horizon")
	if raw == "" {
		return h.projection.DefaultHorizonWeeks, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 || n > h.projection.MaxHorizonWeeks {
		apiError(c, http.StatusBadRequest, "horizon must be an integer between 0 and "+strconv.Itoa(h.projection.MaxHorizonWeeks))
		return 0, false
	}
	return n, true
}

// computable reports whether res carries anything worth returning. A
// formula_unavailable result is returned as-is so the client can show the issue.
func computable(res nutrition.NutritionResult) bool {
	return res.TotalDailyEnergyKcal != nil || res.HasIssue(nutrition.IssueFormulaUnavailable)
}

// buildCalculation assembles the result, projection, and weekly series.
func (h *Handler) buildCalculation(in nutrition.UserInput, res nutrition.NutritionResult, horizon int) calculationResponse {
	out := calculationResponse{
		Result:       res,
		HorizonWeeks: horizon,
		WeeklySeries: h.engine.WeeklyPoints(in, res, horizon),
	}
	if p, ok := h.engine.ProjectTrajectory(in, res); ok {
		h.metrics.observeProjection(p)
		out.Projection = &p
	}
	return out
}

// calculate runs the engine on the request body without touching storage.
// POST /api/nutrition/calculate?horizon=N. Body: UserInput.
// Returns 422 when weight, height, age or sex is missing.
func (h *Handler) calculate(c *gin.Context) {
	horizon, ok := h.parseHorizon(c)
	if !ok {
		return
	}

	var body nutrition.UserInput
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	res := h.compute(body)
	if !computable(res) {
		apiError(c, http.StatusUnprocessableEntity, "weight, height, age and sex are required")
		return
	}

	c.JSON(http.StatusOK, h.buildCalculation(body, res, horizon))
}

// getProjection projects from the saved profile.
// GET /api/nutrition/projection?horizon=N.
func (h *Handler) getProjection(c *gin.Context) {
	userID := c.GetInt("user_id")
	horizon, ok := h.parseHorizon(c)
	if !ok {
		return
	}

	_, in, err := h.loadProfile(c, userID)
	if err != nil {
		profileError(c, userID, err)
		return
	}

	res := h.savedResult(c, userID, in)
	if !computable(res) {
		apiError(c, http.StatusUnprocessableEntity, "profile is missing weight, height, age or sex")
		return
	}

	c.JSON(http.StatusOK, h.buildCalculation(in, res, horizon))
}
