package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	log "github.com/sirupsen/logrus"

	"lg/nutrition-go-api/nutrition"
)

// loadGoals fetches and decodes the user's goals. Returns pgx.ErrNoRows when
// none are saved.
func (h *Handler) loadGoals(ctx context.Context, userID int) (goalsRow, nutrition.Goals, error) {
	var g nutrition.Goals
	row, err := queryOne[goalsRow](h.db, ctx,
		"SELECT user_id, data, updated_at FROM nutrition_goals WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		return row, g, err
	}
	if len(row.Data) > 0 {
		err = json.Unmarshal(row.Data, &g)
	}
	return row, g, err
}

// goalsReport measures g against the current profile.
func (h *Handler) goalsReport(g nutrition.Goals, in nutrition.UserInput, res nutrition.NutritionResult, updatedAt time.Time) goalsResponse {
	out := goalsResponse{Goals: g, UpdatedAt: updatedAt}
	if st, ok := nutrition.GoalProgress(res, in, g); ok {
		out.Progress = &st
	}
	if days, ok := g.DaysRemaining(h.now()); ok {
		out.DaysRemaining = &days
	}
	return out
}

// getGoals returns the saved goals and the progress toward them.
// GET /api/goals. 404 when no goals are saved.
func (h *Handler) getGoals(c *gin.Context) {
	userID := c.GetInt("user_id")

	row, g, err := h.loadGoals(c, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		apiError(c, http.StatusNotFound, "goals not found")
		return
	}
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("[getGoals] load failed")
		apiError(c, http.StatusInternalServerError, "failed to fetch goals")
		return
	}

	in, res, err := h.currentProfile(c, userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("[getGoals] profile load failed")
		apiError(c, http.StatusInternalServerError, "failed to fetch profile")
		return
	}

	c.JSON(http.StatusOK, h.goalsReport(g, in, res, row.UpdatedAt))
}

// putGoals replaces the saved goals.
// PUT /api/goals. Body: Goals. Start values the body omits are kept from the
// previous goals while the target is unchanged, otherwise taken from the
// current profile.
func (h *Handler) putGoals(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body nutrition.Goals
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	in, res, err := h.currentProfile(c, userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("[putGoals] profile load failed")
		apiError(c, http.StatusInternalServerError, "failed to fetch profile")
		return
	}
	_, prev, err := h.loadGoals(c, userID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		log.WithError(err).WithField("user_id", userID).Error("[putGoals] load failed")
		apiError(c, http.StatusInternalServerError, "failed to fetch goals")
		return
	}

	goals := body.Anchor(prev, in, res)
	data, err := json.Marshal(goals)
	if err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	row, err := queryOne[goalsRow](h.db, c,
		`INSERT INTO nutrition_goals (user_id, data, updated_at)
		 VALUES (@userID, @data::jsonb, now())
		 ON CONFLICT (user_id) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at
		 RETURNING user_id, data, updated_at`,
		pgx.NamedArgs{"userID": userID, "data": string(data)})
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("[putGoals] upsert failed")
		apiError(c, http.StatusInternalServerError, "failed to save goals")
		return
	}

	c.JSON(http.StatusOK, h.goalsReport(goals, in, res, row.UpdatedAt))
}
