package main

import (
	"time"

	"github.com/google/uuid"

	"lg/nutrition-go-api/nutrition"
)

/* ─── Table rows ─────────────────────────────────────────────────────── */

// user maps to the users table. AuthToken and Password are hidden from JSON responses.
type user struct {
	ID        int        `json:"id" db:"id"`
	Username  string     `json:"username" db:"username"`
	Email     string     `json:"email" db:"email"`
	AuthToken string     `json:"-" db:"auth_token"`
	Password  string     `json:"-" db:"password"`
	CreatedAt *time.Time `json:"created_at" db:"created_at"`
}

// profileRow maps to nutrition_profiles. Data is the raw JSONB UserInput
// snapshot; decode it with decodeProfile.
type profileRow struct {
	UserID    int       `db:"user_id"`
	Data      []byte    `db:"data"`
	UpdatedAt time.Time `db:"updated_at"`
}

// historyRow maps to nutrition_history. Entry is the JSONB HistoryEntry.
type historyRow struct {
	ID         uuid.UUID `db:"id"`
	UserID     int       `db:"user_id"`
	RecordedAt time.Time `db:"recorded_at"`
	Entry      []byte    `db:"entry"`
}

// goalsRow maps to nutrition_goals. Data is the JSONB Goals document.
type goalsRow struct {
	UserID    int       `db:"user_id"`
	Data      []byte    `db:"data"`
	UpdatedAt time.Time `db:"updated_at"`
}

// mealLogItem maps to meal_log_items. Date is selected as YYYY-MM-DD text
// (see mealItemColumns).
type mealLogItem struct {
	ID        int       `json:"id" db:"id"`
	Date      string    `json:"date" db:"date"`
	MealType  string    `json:"mealType" db:"meal_type"`
	Name      string    `json:"name" db:"name"`
	ProteinG  float64   `json:"proteinG" db:"protein_g"`
	CarbsG    float64   `json:"carbsG" db:"carbs_g"`
	FatG      float64   `json:"fatG" db:"fat_g"`
	Calories  float64   `json:"calories" db:"calories"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// mealDayRow is one day of meal_log_items summed by the GROUP BY queries.
type mealDayRow struct {
	Date     string  `db:"date"`
	Calories float64 `db:"calories"`
	ProteinG float64 `db:"protein_g"`
	CarbsG   float64 `db:"carbs_g"`
	FatG     float64 `db:"fat_g"`
}

// waterRow maps to water_log.
type waterRow struct {
	Date    string `json:"date" db:"date"`
	Glasses int    `json:"glasses" db:"glasses"`
}

// templateRow maps to meal_templates. Items is the JSONB item list.
type templateRow struct {
	Items     []byte    `db:"items"`
	UpdatedAt time.Time `db:"updated_at"`
}

/* ─── Requests ───────────────────────────────────────────────────────── */

// mealItemRequest is the body for creating or replacing a meal log item.
// Calories may be omitted; they are then derived from the macros.
type mealItemRequest struct {
	Date     string   `json:"date" binding:"omitempty,datetime=2006-01-02"`
	MealType string   `json:"mealType" binding:"required"`
	Name     string   `json:"name" binding:"required,max=200"`
	ProteinG float64  `json:"proteinG" binding:"gte=0"`
	CarbsG   float64  `json:"carbsG" binding:"gte=0"`
	FatG     float64  `json:"fatG" binding:"gte=0"`
	Calories *float64 `json:"calories" binding:"omitempty,gte=0"`
}

// mealTemplateItem is one planned meal of the template.
type mealTemplateItem struct {
	Time     string   `json:"time,omitempty" binding:"omitempty,datetime=15:04"`
	MealType string   `json:"mealType" binding:"required"`
	Name     string   `json:"name" binding:"required,max=200"`
	ProteinG float64  `json:"proteinG" binding:"gte=0"`
	CarbsG   float64  `json:"carbsG" binding:"gte=0"`
	FatG     float64  `json:"fatG" binding:"gte=0"`
	Calories *float64 `json:"calories,omitempty" binding:"omitempty,gte=0"`
}

// waterRequest is the body for PUT /api/meal-log/water. Glasses is a pointer
// so that 0 passes the required check.
type waterRequest struct {
	Date    string `json:"date" binding:"omitempty,datetime=2006-01-02"`
	Glasses *int   `json:"glasses" binding:"required,gte=0"`
}

/* ─── Responses ──────────────────────────────────────────────────────── */

// profileResponse is returned by GET and PUT /api/profile.
type profileResponse struct {
	Profile   nutrition.UserInput       `json:"profile"`
	Result    nutrition.NutritionResult `json:"result"`
	UpdatedAt time.Time                 `json:"updatedAt"`
}

// calculationResponse is returned by the calculate and projection endpoints.
// Projection is null when weight or the energy figures are unavailable;
// WeeklySeries is always an array.
type calculationResponse struct {
	Result       nutrition.NutritionResult `json:"result"`
	Projection   *nutrition.Projection     `json:"projection"`
	HorizonWeeks int                       `json:"horizonWeeks"`
	WeeklySeries []nutrition.WeeklyPoint   `json:"weeklySeries"`
}

// historyItem is one history entry as listed by the API: the stored entry
// shape plus its row id.
type historyItem struct {
	ID string `json:"id"`
	nutrition.HistoryEntry
}

// goalsResponse is returned by GET and PUT /api/goals. Progress is null
// without a target weight or a saved weight; DaysRemaining is null without a
// target date.
type goalsResponse struct {
	Goals         nutrition.Goals       `json:"goals"`
	Progress      *nutrition.GoalStatus `json:"progress"`
	DaysRemaining *int                  `json:"daysRemaining"`
	UpdatedAt     time.Time             `json:"updatedAt"`
}

// dailyMealLog is returned by GET /api/meal-log/daily.
type dailyMealLog struct {
	Date         string                   `json:"date"`
	Items        []mealLogItem            `json:"items"`
	WaterGlasses int                      `json:"waterGlasses"`
	Totals       nutrition.Intake         `json:"totals"`
	Progress     nutrition.IntakeProgress `json:"progress"`
}

// mealDaySummary is one day of the week and progress views. The calorie
// fields are null when the user has no calorie target.
type mealDaySummary struct {
	Date          string           `json:"date"`
	HasData       bool             `json:"hasData"`
	Intake        nutrition.Intake `json:"intake"`
	WaterGlasses  int              `json:"waterGlasses"`
	CalorieTarget *float64         `json:"calorieTarget"`
	CaloriesLeft  *float64         `json:"caloriesLeft"`
}

// mealProgressStats aggregates the tracked days of a range. DaysOnTarget
// counts days at or under the calorie target.
type mealProgressStats struct {
	DaysTracked  int     `json:"daysTracked"`
	DaysOnTarget int     `json:"daysOnTarget"`
	AvgCalories  float64 `json:"avgCalories"`
	AvgProteinG  float64 `json:"avgProteinG"`
	AvgCarbsG    float64 `json:"avgCarbsG"`
	AvgFatG      float64 `json:"avgFatG"`
}

// mealProgressResponse is returned by GET /api/meal-log/progress.
type mealProgressResponse struct {
	Days  []mealDaySummary  `json:"days"`
	Stats mealProgressStats `json:"stats"`
}

// waterResponse is returned by PUT /api/meal-log/water.
type waterResponse struct {
	Date    string  `json:"date"`
	Glasses int     `json:"glasses"`
	WaterMl float64 `json:"waterMl"`
}

// mealTemplate is the body and response of /api/meal-log/template.
// UpdatedAt is null until a template is saved.
type mealTemplate struct {
	Items     []mealTemplateItem `json:"items" binding:"dive"`
	UpdatedAt *time.Time         `json:"updatedAt,omitempty"`
}
