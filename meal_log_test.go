package main

import (
	"errors"
	"net/http"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lg/nutrition-go-api/nutrition"
)

var (
	mealItemCols = []string{"id", "date", "meal_type", "name", "protein_g", "carbs_g", "fat_g", "calories", "created_at"}
	mealDayCols  = []string{"date", "calories", "protein_g", "carbs_g", "fat_g"}
	waterCols    = []string{"date", "glasses"}
	templateCols = []string{"items", "updated_at"}
)

func TestMondayOf(t *testing.T) {
	cases := map[string]string{
		"2024-05-27": "2024-05-27", // Monday
		"2024-06-01": "2024-05-27", // Saturday
		"2024-06-02": "2024-05-27", // Sunday
		"2024-06-03": "2024-06-03",
	}
	for day, want := range cases {
		d, err := time.Parse(time.DateOnly, day)
		require.NoError(t, err)
		assert.Equal(t, want, mondayOf(d.Add(15*time.Hour)).Format(time.DateOnly), day)
	}
}

/* ─── Daily ──────────────────────────────────────────────────────────── */

func TestGetDailyMealLog(t *testing.T) {
	env := setupTest(t)
	env.expectAuth()
	env.mock.ExpectQuery(`SELECT id, .* FROM meal_log_items`).
		WillReturnRows(pgxmock.NewRows(mealItemCols).
			AddRow(1, "2024-06-01", "breakfast", "Oats", 20.0, 60.0, 8.0, 392.0, testNow).
			AddRow(2, "2024-06-01", "lunch", "Chicken rice", 52.0, 70.0, 12.0, 596.0, testNow))
	env.mock.ExpectQuery(`FROM water_log`).
		WillReturnRows(pgxmock.NewRows(waterCols).AddRow("2024-06-01", 4))
	env.expectProfile(t, completeInput(nutrition.GoalMaintenance))

	w := env.do("GET", "/api/meal-log/daily", "")

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[dailyMealLog](t, w)
	assert.Equal(t, "2024-06-01", resp.Date, "defaults to today")
	require.Len(t, resp.Items, 2)
	assert.Equal(t, 4, resp.WaterGlasses)
	assert.Equal(t, nutrition.Intake{Calories: 988, ProteinG: 72, CarbsG: 130, FatG: 20, WaterMl: 1000}, resp.Totals)

	p := resp.Progress
	require.NotNil(t, p.Calories)
	assert.InDelta(t, 2759, p.Calories.Target, 1e-9)
	assert.InDelta(t, 2759-988, p.Calories.Remaining, 1e-9)
	require.NotNil(t, p.Protein)
	assert.Equal(t, 144.0, p.Protein.Target)
	assert.InDelta(t, 50, p.Protein.Percent, 1e-9)
	require.NotNil(t, p.Water)
	assert.Equal(t, 2800.0, p.Water.Target)
	assert.Equal(t, 11, *p.TargetGlasses)
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestGetDailyMealLog_EmptyDayWithoutProfile(t *testing.T) {
	env := setupTest(t)
	env.expectAuth()
	env.mock.ExpectQuery(`FROM meal_log_items`).WillReturnRows(pgxmock.NewRows(mealItemCols))
	env.mock.ExpectQuery(`FROM water_log`).WillReturnRows(pgxmock.NewRows(waterCols))
	env.expectNoProfile()

	w := env.do("GET", "/api/meal-log/daily?date=2024-05-20", "")

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{
		"date": "2024-05-20",
		"items": [],
		"waterGlasses": 0,
		"totals": {"calories": 0, "proteinG": 0, "carbsG": 0, "fatG": 0, "waterMl": 0},
		"progress": {"calories": null, "protein": null, "carbs": null, "fat": null, "water": null, "targetGlasses": null}
	}`, w.Body.String())
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestGetDailyMealLog_Errors(t *testing.T) {
	t.Run("bad date", func(t *testing.T) {
		env := setupTest(t)
		env.expectAuth()
		w := env.do("GET", "/api/meal-log/daily?date=01/06/2024", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.NoError(t, env.mock.ExpectationsWereMet())
	})
	t.Run("db failure", func(t *testing.T) {
		env := setupTest(t)
		env.expectAuth()
		env.mock.ExpectQuery(`FROM meal_log_items`).WillReturnError(errors.New("conn reset"))
		w := env.do("GET", "/api/meal-log/daily", "")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

/* ─── Week and range ─────────────────────────────────────────────────── */

func TestGetMealLogWeek(t *testing.T) {
	env := setupTest(t)
	env.expectAuth()
	env.expectProfile(t, completeInput(nutrition.GoalMaintenance))
	env.mock.ExpectQuery(`GROUP BY date`).
		WillReturnRows(pgxmock.NewRows(mealDayCols).AddRow("2024-05-28", 2000.0, 150.0, 200.0, 60.0))
	env.mock.ExpectQuery(`FROM water_log`).
		WillReturnRows(pgxmock.NewRows(waterCols).AddRow("2024-05-28", 6).AddRow("2024-06-01", 3))

	// testNow is Saturday 2024-06-01.
	w := env.do("GET", "/api/meal-log/week-summary", "")

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	days := decode[[]mealDaySummary](t, w)
	require.Len(t, days, 7)
	assert.Equal(t, "2024-05-27", days[0].Date)
	assert.False(t, days[0].HasData)
	assert.InDelta(t, 2759, *days[0].CaloriesLeft, 1e-9)

	assert.True(t, days[1].HasData)
	assert.Equal(t, 2000.0, days[1].Intake.Calories)
	assert.InDelta(t, 759, *days[1].CaloriesLeft, 1e-9)
	assert.Equal(t, 6, days[1].WaterGlasses)
	assert.Equal(t, 1500.0, days[1].Intake.WaterMl)

	assert.Equal(t, "2024-06-01", days[5].Date)
	assert.False(t, days[5].HasData)
	assert.Equal(t, 3, days[5].WaterGlasses)
	assert.Equal(t, "2024-06-02", days[6].Date)
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestGetMealLogWeek_BadWeekStart(t *testing.T) {
	env := setupTest(t)
	env.expectAuth()

	w := env.do("GET", "/api/meal-log/week-summary?week_start=monday", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetMealLogProgress(t *testing.T) {
	env := setupTest(t)
	env.expectAuth()
	env.expectProfile(t, completeInput(nutrition.GoalCutting)) // target 2345.15 kcal
	env.mock.ExpectQuery(`GROUP BY date\s+ORDER BY date ASC`).
		WillReturnRows(pgxmock.NewRows(mealDayCols).
			AddRow("2024-05-20", 2000.0, 150.0, 180.0, 60.0).
			AddRow("2024-05-22", 2600.0, 130.0, 300.0, 90.0))

	w := env.do("GET", "/api/meal-log/progress?start=2024-05-20&end=2024-05-26", "")

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[mealProgressResponse](t, w)
	require.Len(t, resp.Days, 2)
	assert.True(t, resp.Days[0].HasData)
	assert.Equal(t, mealProgressStats{
		DaysTracked:  2,
		DaysOnTarget: 1,
		AvgCalories:  2300,
		AvgProteinG:  140,
		AvgCarbsG:    240,
		AvgFatG:      75,
	}, resp.Stats)
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestGetMealLogProgress_BadRange(t *testing.T) {
	for name, query := range map[string]string{
		"missing end":     "?start=2024-05-20",
		"bad start":       "?start=yesterday&end=2024-05-26",
		"bad end":         "?start=2024-05-20&end=2024-13-01",
		"start after end": "?start=2024-05-27&end=2024-05-26",
	} {
		t.Run(name, func(t *testing.T) {
			env := setupTest(t)
			env.expectAuth()

			w := env.do("GET", "/api/meal-log/progress"+query, "")
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.NoError(t, env.mock.ExpectationsWereMet())
		})
	}
}

/* ─── Items ──────────────────────────────────────────────────────────── */

func TestCreateMealLogItem(t *testing.T) {
	env := setupTest(t)
	env.expectAuth()
	env.mock.ExpectQuery(`INSERT INTO meal_log_items .* RETURNING id`).
		WillReturnRows(pgxmock.NewRows(mealItemCols).
			AddRow(9, "2024-06-01", "lunch", "Chicken rice", 40.0, 60.0, 10.0, 490.0, testNow))

	w := env.do("POST", "/api/meal-log/items", `{"mealType":"lunch","name":"Chicken rice","proteinG":40,"carbsG":60,"fatG":10}`)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	item := decode[mealLogItem](t, w)
	assert.Equal(t, 9, item.ID)
	assert.Equal(t, 490.0, item.Calories)
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestCreateMealLogItem_Validation(t *testing.T) {
	cases := map[string]struct {
		body string
		msg  string
	}{
		"unknown meal type": {`{"mealType":"brunch","name":"Eggs"}`, mealTypeError},
		"missing name":      {`{"mealType":"lunch"}`, "invalid request body"},
		"negative protein":  {`{"mealType":"lunch","name":"Eggs","proteinG":-1}`, "invalid request body"},
		"bad date":          {`{"mealType":"lunch","name":"Eggs","date":"2024-6-1"}`, "invalid request body"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			env := setupTest(t)
			env.expectAuth()

			w := env.do("POST", "/api/meal-log/items", tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tc.msg, errorMessage(t, w))
			assert.NoError(t, env.mock.ExpectationsWereMet())
		})
	}
}

func TestCreateMealLogItem_DBFailure(t *testing.T) {
	env := setupTest(t)
	env.expectAuth()
	env.mock.ExpectQuery(`INSERT INTO meal_log_items`).WillReturnError(errors.New("conn reset"))

	w := env.do("POST", "/api/meal-log/items", `{"mealType":"snack","name":"Apple","carbsG":25}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestUpdateMealLogItem(t *testing.T) {
	const body = `{"mealType":"dinner","name":"Salmon","proteinG":35,"fatG":18,"calories":420}`

	t.Run("updated", func(t *testing.T) {
		env := setupTest(t)
		env.expectAuth()
		env.mock.ExpectQuery(`UPDATE meal_log_items SET`).
			WillReturnRows(pgxmock.NewRows(mealItemCols).
				AddRow(3, "2024-05-31", "dinner", "Salmon", 35.0, 0.0, 18.0, 420.0, testNow))

		w := env.do("PUT", "/api/meal-log/items/3", body)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "Salmon", decode[mealLogItem](t, w).Name)
		assert.NoError(t, env.mock.ExpectationsWereMet())
	})
	t.Run("not found", func(t *testing.T) {
		env := setupTest(t)
		env.expectAuth()
		env.mock.ExpectQuery(`UPDATE meal_log_items`).WillReturnRows(pgxmock.NewRows(mealItemCols))

		w := env.do("PUT", "/api/meal-log/items/3", body)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
	t.Run("bad id", func(t *testing.T) {
		env := setupTest(t)
		env.expectAuth()

		w := env.do("PUT", "/api/meal-log/items/abc", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.NoError(t, env.mock.ExpectationsWereMet())
	})
}

func TestDeleteMealLogItem(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		env := setupTest(t)
		env.expectAuth()
		env.mock.ExpectExec(`DELETE FROM meal_log_items WHERE id = @id AND user_id = @userID`).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		w := env.do("DELETE", "/api/meal-log/items/3", "")
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.NoError(t, env.mock.ExpectationsWereMet())
	})
	t.Run("not found", func(t *testing.T) {
		env := setupTest(t)
		env.expectAuth()
		env.mock.ExpectExec(`DELETE FROM meal_log_items`).WillReturnResult(pgxmock.NewResult("DELETE", 0))

		w := env.do("DELETE", "/api/meal-log/items/3", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

/* ─── Water ──────────────────────────────────────────────────────────── */

func TestPutWater(t *testing.T) {
	env := setupTest(t)
	env.expectAuth()
	env.mock.ExpectQuery(`INSERT INTO water_log .* ON CONFLICT \(user_id, date\)`).
		WillReturnRows(pgxmock.NewRows(waterCols).AddRow("2024-06-02", 8))

	w := env.do("PUT", "/api/meal-log/water", `{"date":"2024-06-02","glasses":8}`)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, waterResponse{Date: "2024-06-02", Glasses: 8, WaterMl: 2000}, decode[waterResponse](t, w))
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestPutWater_Validation(t *testing.T) {
	for name, body := range map[string]string{
		"missing glasses":  `{"date":"2024-06-02"}`,
		"negative glasses": `{"glasses":-1}`,
		"bad date":         `{"date":"tomorrow","glasses":2}`,
	} {
		t.Run(name, func(t *testing.T) {
			env := setupTest(t)
			env.expectAuth()

			w := env.do("PUT", "/api/meal-log/water", body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.NoError(t, env.mock.ExpectationsWereMet())
		})
	}
}

func TestPutWater_ZeroGlasses(t *testing.T) {
	env := setupTest(t)
	env.expectAuth()
	env.mock.ExpectQuery(`INSERT INTO water_log`).
		WillReturnRows(pgxmock.NewRows(waterCols).AddRow("2024-06-01", 0))

	w := env.do("PUT", "/api/meal-log/water", `{"glasses":0}`)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Zero(t, decode[waterResponse](t, w).WaterMl)
}

/* ─── Template ───────────────────────────────────────────────────────── */

const templateJSON = `[
	{"time":"07:00","mealType":"breakfast","name":"Oats","proteinG":20,"carbsG":60,"fatG":8},
	{"time":"12:30","mealType":"lunch","name":"Chicken rice","proteinG":52,"carbsG":70,"fatG":12,"calories":600}
]`

func TestGetMealTemplate(t *testing.T) {
	t.Run("saved", func(t *testing.T) {
		env := setupTest(t)
		env.expectAuth()
		env.mock.ExpectQuery(`FROM meal_templates`).
			WillReturnRows(pgxmock.NewRows(templateCols).AddRow([]byte(templateJSON), testNow))

		w := env.do("GET", "/api/meal-log/template", "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		tpl := decode[mealTemplate](t, w)
		require.Len(t, tpl.Items, 2)
		assert.Equal(t, "07:00", tpl.Items[0].Time)
		assert.Equal(t, 600.0, *tpl.Items[1].Calories)
		require.NotNil(t, tpl.UpdatedAt)
	})
	t.Run("none saved", func(t *testing.T) {
		env := setupTest(t)
		env.expectAuth()
		env.mock.ExpectQuery(`FROM meal_templates`).WillReturnRows(pgxmock.NewRows(templateCols))

		w := env.do("GET", "/api/meal-log/template", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"items":[]}`, w.Body.String())
	})
}

func TestPutMealTemplate(t *testing.T) {
	env := setupTest(t)
	env.expectAuth()
	env.mock.ExpectQuery(`INSERT INTO meal_templates`).
		WillReturnRows(pgxmock.NewRows(templateCols).AddRow([]byte(templateJSON), testNow))

	w := env.do("PUT", "/api/meal-log/template", `{"items":`+templateJSON+`}`)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	tpl := decode[mealTemplate](t, w)
	assert.Len(t, tpl.Items, 2)
	assert.True(t, testNow.Equal(*tpl.UpdatedAt))
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestPutMealTemplate_Validation(t *testing.T) {
	for name, body := range map[string]string{
		"unknown meal type": `{"items":[{"mealType":"brunch","name":"Eggs"}]}`,
		"bad time":          `{"items":[{"mealType":"lunch","name":"Eggs","time":"noon"}]}`,
		"missing name":      `{"items":[{"mealType":"lunch"}]}`,
	} {
		t.Run(name, func(t *testing.T) {
			env := setupTest(t)
			env.expectAuth()

			w := env.do("PUT", "/api/meal-log/template", body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.NoError(t, env.mock.ExpectationsWereMet())
		})
	}
}

func TestApplyMealTemplate(t *testing.T) {
	env := setupTest(t)
	env.expectAuth()
	env.mock.ExpectQuery(`FROM meal_templates`).
		WillReturnRows(pgxmock.NewRows(templateCols).AddRow([]byte(templateJSON), testNow))
	env.mock.ExpectQuery(`INSERT INTO meal_log_items \(user_id,date,meal_type,name,protein_g,carbs_g,fat_g,calories\) VALUES \(\$1,\$2,\$3,\$4,\$5,\$6,\$7,\$8\),\(\$9,.*RETURNING id`).
		WillReturnRows(pgxmock.NewRows(mealItemCols).
			AddRow(10, "2024-06-03", "breakfast", "Oats", 20.0, 60.0, 8.0, 392.0, testNow).
			AddRow(11, "2024-06-03", "lunch", "Chicken rice", 52.0, 70.0, 12.0, 600.0, testNow))

	w := env.do("POST", "/api/meal-log/template/apply?date=2024-06-03", "")

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	items := decode[[]mealLogItem](t, w)
	require.Len(t, items, 2)
	assert.Equal(t, "2024-06-03", items[1].Date)
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestApplyMealTemplate_Empty(t *testing.T) {
	env := setupTest(t)
	env.expectAuth()
	env.mock.ExpectQuery(`FROM meal_templates`).WillReturnRows(pgxmock.NewRows(templateCols))

	w := env.do("POST", "/api/meal-log/template/apply", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.NoError(t, env.mock.ExpectationsWereMet())
}
