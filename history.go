package main

import (
	"context"
	"encoding/json"
	"net/http"

	sq "github.com/Masterminds/squirrel"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	log "github.com/sirupsen/logrus"

	"lg/nutrition-go-api/nutrition"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// loadHistory returns the user's entries newest first, limited to period.
// Rows whose JSON cannot be decoded are logged and skipped.
func (h *Handler) loadHistory(ctx context.Context, userID int, period nutrition.Period) ([]historyItem, error) {
	q := psql.Select("id", "user_id", "recorded_at", "entry").
		From("nutrition_history").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("recorded_at DESC")
	if since, ok := period.Since(h.now()); ok {
		q = q.Where(sq.GtOrEq{"recorded_at": since})
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := queryMany[historyRow](h.db, ctx, sql, args...)
	if err != nil {
		return nil, err
	}

	items := make([]historyItem, 0, len(rows))
	for _, r := range rows {
		var e nutrition.HistoryEntry
		if err := json.Unmarshal(r.Entry, &e); err != nil {
			log.WithError(err).WithFields(log.Fields{"user_id": userID, "entry_id": r.ID}).Warn("[loadHistory] skipping undecodable entry")
			continue
		}
		e.Timestamp = r.RecordedAt.UTC()
		items = append(items, historyItem{ID: r.ID.String(), HistoryEntry: e})
	}
	return items, nil
}

func entriesOf(items []historyItem) []nutrition.HistoryEntry {
	out := make([]nutrition.HistoryEntry, len(items))
	for i, it := range items {
		out[i] = it.HistoryEntry
	}
	return out
}

// listHistory returns the user's history newest first.
// GET /api/history?period=all|week|month|3months. Empty array when none.
func (h *Handler) listHistory(c *gin.Context) {
	userID := c.GetInt("user_id")
	period, ok := nutrition.ParsePeriod(c.Query("period"))
	if !ok {
		apiError(c, http.StatusBadRequest, "period must be one of: all, week, month, 3months")
		return
	}

	items, err := h.loadHistory(c, userID, period)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch history")
		return
	}

	c.JSON(http.StatusOK, items)
}

// createHistoryEntry snapshots the saved profile and its result at the
// current server time.
// POST /api/history. No body. 422 when the profile cannot produce a result.
func (h *Handler) createHistoryEntry(c *gin.Context) {
	userID := c.GetInt("user_id")

	_, in, err := h.loadProfile(c, userID)
	if err != nil {
		profileError(c, userID, err)
		return
	}
	res := h.savedResult(c, userID, in)
	if !in.HasRequired() || res.TotalDailyEnergyKcal == nil {
		apiError(c, http.StatusUnprocessableEntity, "profile is missing weight, height, age or sex")
		return
	}

	entry := nutrition.NewHistoryEntry(h.now(), in, res)
	data, err := json.Marshal(entry)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to encode history entry")
		return
	}

	id := uuid.New()
	_, err = h.db.Exec(c,
		`INSERT INTO nutrition_history (id, user_id, recorded_at, entry)
		 VALUES (@id, @userID, @recordedAt, @entry::jsonb)`,
		pgx.NamedArgs{"id": id, "userID": userID, "recordedAt": entry.Timestamp, "entry": string(data)})
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("[createHistoryEntry] insert failed")
		apiError(c, http.StatusInternalServerError, "failed to save history entry")
		return
	}

	c.JSON(http.StatusCreated, historyItem{ID: id.String(), HistoryEntry: entry})
}

// deleteHistoryEntry removes one entry.
// DELETE /api/history/:id. Returns 204 on success, 404 if not found.
// Ownership is enforced by requiring both id and user_id to match.
func (h *Handler) deleteHistoryEntry(c *gin.Context) {
	userID := c.GetInt("user_id")
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apiError(c, http.StatusBadRequest, "invalid history entry id")
		return
	}

	result, err := h.db.Exec(c,
		"DELETE FROM nutrition_history WHERE id = @id AND user_id = @userID",
		pgx.NamedArgs{"id": id, "userID": userID})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to delete history entry")
		return
	}
	if result.RowsAffected() == 0 {
		apiError(c, http.StatusNotFound, "history entry not found")
		return
	}

	c.Status(http.StatusNoContent)
}

// getHistoryComparison compares the oldest and newest entries.
// GET /api/history/comparison. Empty array with fewer than two entries.
func (h *Handler) getHistoryComparison(c *gin.Context) {
	userID := c.GetInt("user_id")

	items, err := h.loadHistory(c, userID, nutrition.PeriodAll)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch history")
		return
	}

	c.JSON(http.StatusOK, nutrition.CompareHistory(entriesOf(items)))
}

// getHistoryProjection replays the current plan from the first recorded
// weight, for plotting expected against actual progress.
// GET /api/history/projection. 422 when there is no history, the oldest entry
// has no weight, or it is not older than now.
func (h *Handler) getHistoryProjection(c *gin.Context) {
	userID := c.GetInt("user_id")

	_, in, err := h.loadProfile(c, userID)
	if err != nil {
		profileError(c, userID, err)
		return
	}
	items, err := h.loadHistory(c, userID, nutrition.PeriodAll)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch history")
		return
	}

	res := h.savedResult(c, userID, in)
	baseline, ok := h.engine.BaselineSeries(entriesOf(items), in, res, h.now())
	if !ok {
		apiError(c, http.StatusUnprocessableEntity, "not enough history for a baseline projection")
		return
	}

	c.JSON(http.StatusOK, baseline)
}

