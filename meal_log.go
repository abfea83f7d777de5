package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	log "github.com/sirupsen/logrus"

	"lg/nutrition-go-api/nutrition"
)

// validMealTypes mirrors the meal_type CHECK constraint. Unknown values get a
// 400 instead of a constraint violation.
var validMealTypes = map[string]bool{
	"breakfast": true,
	"lunch":     true,
	"dinner":    true,
	"snack":     true,
}

const mealTypeError = "mealType must be one of: breakfast, lunch, dinner, snack"

// mealItemColumns is the select list matching mealLogItem.
const mealItemColumns = `id, TO_CHAR(date, 'YYYY-MM-DD') AS date, meal_type, name,
	protein_g, carbs_g, fat_g, calories, created_at`

// mealDaySelect sums meal_log_items per day; callers add the range and GROUP BY.
const mealDaySelect = `SELECT
		TO_CHAR(date, 'YYYY-MM-DD') AS date,
		SUM(calories)  AS calories,
		SUM(protein_g) AS protein_g,
		SUM(carbs_g)   AS carbs_g,
		SUM(fat_g)     AS fat_g
	 FROM meal_log_items`

/* ─── Helpers ────────────────────────────────────────────────────────── */

func (h *Handler) today() string {
	return h.now().UTC().Format(time.DateOnly)
}

// mondayOf returns the Monday (UTC midnight) of the week containing t.
func mondayOf(t time.Time) time.Time {
	t = t.UTC()
	weekday := int(t.Weekday()) // 0=Sun
	if weekday == 0 {
		weekday = 7 // Mon=1..Sun=7
	}
	return t.AddDate(0, 0, 1-weekday).Truncate(24 * time.Hour)
}

// waterGlasses returns the glasses logged on date, 0 when none.
func (h *Handler) waterGlasses(ctx context.Context, userID int, date string) (int, error) {
	row, err := queryOne[waterRow](h.db, ctx,
		`SELECT TO_CHAR(date, 'YYYY-MM-DD') AS date, glasses FROM water_log
		 WHERE user_id = @userID AND date = @date`,
		pgx.NamedArgs{"userID": userID, "date": date})
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	return row.Glasses, err
}

// daySummary builds one day of the week and progress views.
func (h *Handler) daySummary(date string, row mealDayRow, glasses int, res nutrition.NutritionResult) mealDaySummary {
	d := mealDaySummary{
		Date:         date,
		WaterGlasses: glasses,
		Intake: nutrition.Intake{
			Calories: row.Calories,
			ProteinG: row.ProteinG,
			CarbsG:   row.CarbsG,
			FatG:     row.FatG,
			WaterMl:  h.engine.WaterFromGlasses(glasses),
		},
	}
	if res.TargetCaloriesKcal != nil {
		target := *res.TargetCaloriesKcal
		left := target - row.Calories
		d.CalorieTarget = &target
		d.CaloriesLeft = &left
	}
	return d
}

// targetsFor loads the result whose targets the log is measured against.
// Writes a 500 and returns false on failure.
func (h *Handler) targetsFor(c *gin.Context, userID int) (nutrition.NutritionResult, bool) {
	_, res, err := h.currentProfile(c, userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("[mealLog] profile load failed")
		apiError(c, http.StatusInternalServerError, "failed to fetch profile")
		return res, false
	}
	return res, true
}

/* ─── Summaries ──────────────────────────────────────────────────────── */

// getDailyMealLog returns the day's items, water, totals, and progress toward
// the saved profile's targets.
// GET /api/meal-log/daily?date=YYYY-MM-DD (defaults to today, UTC).
func (h *Handler) getDailyMealLog(c *gin.Context) {
	userID := c.GetInt("user_id")
	date := c.DefaultQuery("date", h.today())
	if _, err := time.Parse(time.DateOnly, date); err != nil {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	items, err := queryMany[mealLogItem](h.db, c,
		`SELECT `+mealItemColumns+` FROM meal_log_items
		 WHERE user_id = @userID AND date = @date
		 ORDER BY created_at, id`,
		pgx.NamedArgs{"userID": userID, "date": date})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch meal log")
		return
	}
	if items == nil {
		items = []mealLogItem{}
	}

	glasses, err := h.waterGlasses(c, userID, date)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch water log")
		return
	}

	res, ok := h.targetsFor(c, userID)
	if !ok {
		return
	}

	var totals nutrition.Intake
	for _, it := range items {
		totals.Calories += it.Calories
		totals.ProteinG += it.ProteinG
		totals.CarbsG += it.CarbsG
		totals.FatG += it.FatG
	}
	totals.WaterMl = h.engine.WaterFromGlasses(glasses)

	c.JSON(http.StatusOK, dailyMealLog{
		Date:         date,
		Items:        items,
		WaterGlasses: glasses,
		Totals:       totals,
		Progress:     h.engine.CompareIntake(totals, res),
	})
}

// getMealLogWeek returns the Monday to Sunday week starting at week_start, one
// entry per day. Days with nothing logged have hasData=false.
// GET /api/meal-log/week-summary?week_start=YYYY-MM-DD (defaults to this week).
func (h *Handler) getMealLogWeek(c *gin.Context) {
	userID := c.GetInt("user_id")

	weekStart := mondayOf(h.now())
	if s := c.Query("week_start"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			apiError(c, http.StatusBadRequest, "invalid week_start, expected YYYY-MM-DD")
			return
		}
		weekStart = t
	}
	args := pgx.NamedArgs{
		"userID":    userID,
		"weekStart": weekStart.Format(time.DateOnly),
		"weekEnd":   weekStart.AddDate(0, 0, 6).Format(time.DateOnly),
	}

	res, ok := h.targetsFor(c, userID)
	if !ok {
		return
	}

	rows, err := queryMany[mealDayRow](h.db, c,
		mealDaySelect+`
		 WHERE user_id = @userID AND date >= @weekStart AND date <= @weekEnd
		 GROUP BY date`, args)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch week data")
		return
	}
	water, err := queryMany[waterRow](h.db, c,
		`SELECT TO_CHAR(date, 'YYYY-MM-DD') AS date, glasses FROM water_log
		 WHERE user_id = @userID AND date >= @weekStart AND date <= @weekEnd`, args)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch water log")
		return
	}

	rowByDate := make(map[string]mealDayRow, len(rows))
	for _, r := range rows {
		rowByDate[r.Date] = r
	}
	glassesByDate := make(map[string]int, len(water))
	for _, w := range water {
		glassesByDate[w.Date] = w.Glasses
	}

	days := make([]mealDaySummary, 7)
	for i := range days {
		date := weekStart.AddDate(0, 0, i).Format(time.DateOnly)
		row, logged := rowByDate[date]
		days[i] = h.daySummary(date, row, glassesByDate[date], res)
		days[i].HasData = logged
	}

	c.JSON(http.StatusOK, days)
}

// getMealLogProgress returns per-day totals and aggregate stats for a range.
// GET /api/meal-log/progress?start=YYYY-MM-DD&end=YYYY-MM-DD. Both required.
// Only days with logged items are returned.
func (h *Handler) getMealLogProgress(c *gin.Context) {
	userID := c.GetInt("user_id")
	start, end := c.Query("start"), c.Query("end")

	if start == "" || end == "" {
		apiError(c, http.StatusBadRequest, "start and end query params are required")
		return
	}
	if _, err := time.Parse(time.DateOnly, start); err != nil {
		apiError(c, http.StatusBadRequest, "invalid start, expected YYYY-MM-DD")
		return
	}
	if _, err := time.Parse(time.DateOnly, end); err != nil {
		apiError(c, http.StatusBadRequest, "invalid end, expected YYYY-MM-DD")
		return
	}
	if start > end {
		apiError(c, http.StatusBadRequest, "start must not be after end")
		return
	}

	res, ok := h.targetsFor(c, userID)
	if !ok {
		return
	}

	rows, err := queryMany[mealDayRow](h.db, c,
		mealDaySelect+`
		 WHERE user_id = @userID AND date >= @start AND date <= @end
		 GROUP BY date
		 ORDER BY date ASC`,
		pgx.NamedArgs{"userID": userID, "start": start, "end": end})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch progress data")
		return
	}

	days := make([]mealDaySummary, 0, len(rows))
	var stats mealProgressStats
	for _, row := range rows {
		d := h.daySummary(row.Date, row, 0, res)
		d.HasData = true
		days = append(days, d)

		stats.DaysTracked++
		if d.CaloriesLeft != nil && *d.CaloriesLeft >= 0 {
			stats.DaysOnTarget++
		}
		stats.AvgCalories += row.Calories
		stats.AvgProteinG += row.ProteinG
		stats.AvgCarbsG += row.CarbsG
		stats.AvgFatG += row.FatG
	}
	if n := float64(stats.DaysTracked); n > 0 {
		stats.AvgCalories /= n
		stats.AvgProteinG /= n
		stats.AvgCarbsG /= n
		stats.AvgFatG /= n
	}

	c.JSON(http.StatusOK, mealProgressResponse{Days: days, Stats: stats})
}

/* ─── Items ──────────────────────────────────────────────────────────── */

// bindMealItem decodes and validates an item body. Writes a 400 and returns
// false when invalid.
func bindMealItem(c *gin.Context) (mealItemRequest, bool) {
	var body mealItemRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return body, false
	}
	if !validMealTypes[body.MealType] {
		apiError(c, http.StatusBadRequest, mealTypeError)
		return body, false
	}
	return body, true
}

// createMealLogItem logs one meal.
// POST /api/meal-log/items. Date defaults to today; calories default to the
// energy of the macros.
func (h *Handler) createMealLogItem(c *gin.Context) {
	userID := c.GetInt("user_id")

	body, ok := bindMealItem(c)
	if !ok {
		return
	}
	if body.Date == "" {
		body.Date = h.today()
	}

	item, err := queryOne[mealLogItem](h.db, c,
		`INSERT INTO meal_log_items (user_id, date, meal_type, name, protein_g, carbs_g, fat_g, calories)
		 VALUES (@userID, @date, @mealType, @name, @proteinG, @carbsG, @fatG, @calories)
		 RETURNING `+mealItemColumns,
		pgx.NamedArgs{
			"userID": userID, "date": body.Date, "mealType": body.MealType, "name": body.Name,
			"proteinG": body.ProteinG, "carbsG": body.CarbsG, "fatG": body.FatG,
			"calories": h.engine.MealCalories(body.ProteinG, body.CarbsG, body.FatG, body.Calories),
		})
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("[createMealLogItem] insert failed")
		apiError(c, http.StatusInternalServerError, "failed to create item")
		return
	}

	c.JSON(http.StatusCreated, item)
}

// updateMealLogItem replaces an item. An omitted date keeps the current one.
// PUT /api/meal-log/items/:id.
func (h *Handler) updateMealLogItem(c *gin.Context) {
	userID := c.GetInt("user_id")
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		apiError(c, http.StatusBadRequest, "invalid item id")
		return
	}

	body, ok := bindMealItem(c)
	if !ok {
		return
	}
	var date *string
	if body.Date != "" {
		date = &body.Date
	}

	item, err := queryOne[mealLogItem](h.db, c,
		`UPDATE meal_log_items SET
			date = COALESCE(@date::date, date),
			meal_type = @mealType,
			name = @name,
			protein_g = @proteinG,
			carbs_g = @carbsG,
			fat_g = @fatG,
			calories = @calories,
			updated_at = now()
		 WHERE id = @id AND user_id = @userID
		 RETURNING `+mealItemColumns,
		pgx.NamedArgs{
			"id": id, "userID": userID, "date": date, "mealType": body.MealType, "name": body.Name,
			"proteinG": body.ProteinG, "carbsG": body.CarbsG, "fatG": body.FatG,
			"calories": h.engine.MealCalories(body.ProteinG, body.CarbsG, body.FatG, body.Calories),
		})
	if errors.Is(err, pgx.ErrNoRows) {
		apiError(c, http.StatusNotFound, "item not found")
		return
	}
	if err != nil {
		log.WithError(err).WithFields(log.Fields{"user_id": userID, "item_id": id}).Error("[updateMealLogItem] update failed")
		apiError(c, http.StatusInternalServerError, "failed to update item")
		return
	}

	c.JSON(http.StatusOK, item)
}

// deleteMealLogItem removes an item. Returns 204 on success.
// DELETE /api/meal-log/items/:id.
func (h *Handler) deleteMealLogItem(c *gin.Context) {
	userID := c.GetInt("user_id")
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		apiError(c, http.StatusBadRequest, "invalid item id")
		return
	}

	result, err := h.db.Exec(c,
		"DELETE FROM meal_log_items WHERE id = @id AND user_id = @userID",
		pgx.NamedArgs{"id": id, "userID": userID})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to delete item")
		return
	}
	if result.RowsAffected() == 0 {
		apiError(c, http.StatusNotFound, "item not found")
		return
	}

	c.Status(http.StatusNoContent)
}

/* ─── Water ──────────────────────────────────────────────────────────── */

// putWater sets the glasses of water drunk on a day.
// PUT /api/meal-log/water. Body: {"date": "YYYY-MM-DD", "glasses": N}.
func (h *Handler) putWater(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body waterRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Date == "" {
		body.Date = h.today()
	}

	row, err := queryOne[waterRow](h.db, c,
		`INSERT INTO water_log (user_id, date, glasses, updated_at)
		 VALUES (@userID, @date, @glasses, now())
		 ON CONFLICT (user_id, date) DO UPDATE SET glasses = EXCLUDED.glasses, updated_at = EXCLUDED.updated_at
		 RETURNING TO_CHAR(date, 'YYYY-MM-DD') AS date, glasses`,
		pgx.NamedArgs{"userID": userID, "date": body.Date, "glasses": *body.Glasses})
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("[putWater] upsert failed")
		apiError(c, http.StatusInternalServerError, "failed to save water log")
		return
	}

	c.JSON(http.StatusOK, waterResponse{
		Date:    row.Date,
		Glasses: row.Glasses,
		WaterMl: h.engine.WaterFromGlasses(row.Glasses),
	})
}

/* ─── Template ───────────────────────────────────────────────────────── */

// loadTemplate returns the saved template items; none saved is an empty
// template with a nil timestamp.
func (h *Handler) loadTemplate(ctx context.Context, userID int) (mealTemplate, error) {
	tpl := mealTemplate{Items: []mealTemplateItem{}}
	row, err := queryOne[templateRow](h.db, ctx,
		"SELECT items, updated_at FROM meal_templates WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
	if errors.Is(err, pgx.ErrNoRows) {
		return tpl, nil
	}
	if err != nil {
		return tpl, err
	}
	if err := json.Unmarshal(row.Items, &tpl.Items); err != nil {
		return tpl, err
	}
	if tpl.Items == nil {
		tpl.Items = []mealTemplateItem{}
	}
	tpl.UpdatedAt = &row.UpdatedAt
	return tpl, nil
}

// getMealTemplate returns the user's planned day.
// GET /api/meal-log/template. Empty items when none is saved.
func (h *Handler) getMealTemplate(c *gin.Context) {
	userID := c.GetInt("user_id")

	tpl, err := h.loadTemplate(c, userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("[getMealTemplate] load failed")
		apiError(c, http.StatusInternalServerError, "failed to fetch template")
		return
	}

	c.JSON(http.StatusOK, tpl)
}

// putMealTemplate replaces the planned day.
// PUT /api/meal-log/template. Body: {"items": [...]}.
func (h *Handler) putMealTemplate(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body mealTemplate
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Items == nil {
		body.Items = []mealTemplateItem{}
	}
	for _, it := range body.Items {
		if !validMealTypes[it.MealType] {
			apiError(c, http.StatusBadRequest, mealTypeError)
			return
		}
	}
	data, err := json.Marshal(body.Items)
	if err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	row, err := queryOne[templateRow](h.db, c,
		`INSERT INTO meal_templates (user_id, items, updated_at)
		 VALUES (@userID, @items::jsonb, now())
		 ON CONFLICT (user_id) DO UPDATE SET items = EXCLUDED.items, updated_at = EXCLUDED.updated_at
		 RETURNING items, updated_at`,
		pgx.NamedArgs{"userID": userID, "items": string(data)})
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("[putMealTemplate] upsert failed")
		apiError(c, http.StatusInternalServerError, "failed to save template")
		return
	}

	c.JSON(http.StatusOK, mealTemplate{Items: body.Items, UpdatedAt: &row.UpdatedAt})
}

// applyMealTemplate logs every template item on a day.
// POST /api/meal-log/template/apply?date=YYYY-MM-DD (defaults to today).
// 422 when the template is empty.
func (h *Handler) applyMealTemplate(c *gin.Context) {
	userID := c.GetInt("user_id")
	date := c.DefaultQuery("date", h.today())
	if _, err := time.Parse(time.DateOnly, date); err != nil {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	tpl, err := h.loadTemplate(c, userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("[applyMealTemplate] load failed")
		apiError(c, http.StatusInternalServerError, "failed to fetch template")
		return
	}
	if len(tpl.Items) == 0 {
		apiError(c, http.StatusUnprocessableEntity, "no meal template saved")
		return
	}

	q := psql.Insert("meal_log_items").
		Columns("user_id", "date", "meal_type", "name", "protein_g", "carbs_g", "fat_g", "calories")
	for _, it := range tpl.Items {
		q = q.Values(userID, date, it.MealType, it.Name, it.ProteinG, it.CarbsG, it.FatG,
			h.engine.MealCalories(it.ProteinG, it.CarbsG, it.FatG, it.Calories))
	}
	sql, args, err := q.Suffix("RETURNING " + mealItemColumns).ToSql()
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to build insert")
		return
	}

	items, err := queryMany[mealLogItem](h.db, c, sql, args...)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("[applyMealTemplate] insert failed")
		apiError(c, http.StatusInternalServerError, "failed to apply template")
		return
	}

	c.JSON(http.StatusCreated, items)
}
