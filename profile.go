package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	log "github.com/sirupsen/logrus"

	"lg/nutrition-go-api/nutrition"
)

// decodeProfile parses a stored UserInput snapshot. An empty document is an
// empty profile.
func decodeProfile(data []byte) (nutrition.UserInput, error) {
	var in nutrition.UserInput
	if len(data) == 0 {
		return in, nil
	}
	err := json.Unmarshal(data, &in)
	return in, err
}

// loadProfile fetches and decodes the user's saved profile. Returns
// pgx.ErrNoRows when the user has none.
func (h *Handler) loadProfile(ctx context.Context, userID int) (profileRow, nutrition.UserInput, error) {
	row, err := queryOne[profileRow](h.db, ctx,
		"SELECT user_id, data, updated_at FROM nutrition_profiles WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		return row, nutrition.UserInput{}, err
	}
	in, err := decodeProfile(row.Data)
	return row, in, err
}

// compute runs the engine and records the calculation metrics.
func (h *Handler) compute(in nutrition.UserInput) nutrition.NutritionResult {
	res := h.engine.Calculate(in)
	h.metrics.observeResult(res)
	return res
}

// savedResult returns the result for the user's saved profile, from the cache
// when possible.
func (h *Handler) savedResult(ctx context.Context, userID int, in nutrition.UserInput) nutrition.NutritionResult {
	if res, ok := h.cache.Get(ctx, userID); ok {
		return res
	}
	res := h.compute(in)
	h.cache.Set(ctx, userID, res)
	return res
}

// currentProfile returns the saved profile and its result. A user without a
// profile gets zero values and no error.
func (h *Handler) currentProfile(ctx context.Context, userID int) (nutrition.UserInput, nutrition.NutritionResult, error) {
	_, in, err := h.loadProfile(ctx, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nutrition.UserInput{}, nutrition.NutritionResult{}, nil
	}
	if err != nil {
		return nutrition.UserInput{}, nutrition.NutritionResult{}, err
	}
	return in, h.savedResult(ctx, userID, in), nil
}

// profileError maps a loadProfile failure to a response.
func profileError(c *gin.Context, userID int, err error) {
	if errors.Is(err, pgx.ErrNoRows) {
		apiError(c, http.StatusNotFound, "profile not found")
		return
	}
	log.WithError(err).WithField("user_id", userID).Error("[profile] load failed")
	apiError(c, http.StatusInternalServerError, "failed to fetch profile")
}

// getProfile returns the saved profile and its computed result.
// GET /api/profile.
func (h *Handler) getProfile(c *gin.Context) {
	userID := c.GetInt("user_id")

	row, in, err := h.loadProfile(c, userID)
	if err != nil {
		profileError(c, userID, err)
		return
	}

	c.JSON(http.StatusOK, profileResponse{
		Profile:   in,
		Result:    h.savedResult(c, userID, in),
		UpdatedAt: row.UpdatedAt,
	})
}

// putProfile replaces the saved profile with the request body.
// PUT /api/profile. Body: UserInput. Numeric fields must be > 0 when present.
// The cached result is invalidated and recomputed.
func (h *Handler) putProfile(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body nutrition.UserInput
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	data, err := json.Marshal(body)
	if err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	// data is sent as text and cast, so it encodes the same under the simple
	// query protocol.
	row, err := queryOne[profileRow](h.db, c,
		`INSERT INTO nutrition_profiles (user_id, data, updated_at)
		 VALUES (@userID, @data::jsonb, now())
		 ON CONFLICT (user_id) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at
		 RETURNING user_id, data, updated_at`,
		pgx.NamedArgs{"userID": userID, "data": string(data)})
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("[putProfile] upsert failed")
		apiError(c, http.StatusInternalServerError, "failed to save profile")
		return
	}

	h.cache.Invalidate(c, userID)
	res := h.compute(body)
	h.cache.Set(c, userID, res)

	c.JSON(http.StatusOK, profileResponse{Profile: body, Result: res, UpdatedAt: row.UpdatedAt})
}
