package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadopc/dayplan/internal/store"
)

var fixedNow = time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T) (*Server, *store.Repository) {
	t.Helper()
	repo := store.NewMemory(store.WithClock(func() time.Time { return fixedNow }))
	s := New(repo, zerolog.Nop())
	s.now = func() time.Time { return fixedNow }
	return s, repo
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeMap(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

// addDay creates a day through the API and returns its id.
func addDay(t *testing.T, h http.Handler, date string) string {
	t.Helper()
	rec := do(t, h, "POST", "/api/days", map[string]string{"date": date})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decodeMap(t, rec)["day_id"].(string)
}

func addTask(t *testing.T, h http.Handler, dayID, title string) string {
	t.Helper()
	rec := do(t, h, "POST", "/api/days/"+dayID+"/tasks", map[string]string{"title": title})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decodeMap(t, rec)["task"].(map[string]any)["id"].(string)
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)
	for _, path := range []string{"/health", "/api/health"} {
		rec := do(t, s.Handler(), "GET", path, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	}
}

func TestUnknownRoute(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s.Handler(), "GET", "/api/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, false, decodeMap(t, rec)["success"])

	rec = do(t, s.Handler(), "PATCH", "/api/statistics", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestWrongMethodOnKnownPath(t *testing.T) {
	s, _ := newTestServer(t)
	const id = "8f14e45f-ceea-467f-a0e6-3c5a1f7c9b2d"
	tests := []struct {
		method, path, allow string
	}{
		{"PATCH", "/health", "GET"},
		{"POST", "/api/statistics", "GET"},
		{"PATCH", "/api/days/" + id, "DELETE, GET"},
		{"GET", "/api/days/" + id + "/tasks/" + id + "/toggle", "POST"},
		{"POST", "/api/collections/" + id, "DELETE, GET, PUT"},
		{"GET", "/api/collections/" + id + "/tasks/" + id, "DELETE, PUT"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := do(t, s.Handler(), tt.method, tt.path, nil)
			assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
			assert.Equal(t, tt.allow, rec.Header().Get("Allow"))
			body := decodeMap(t, rec)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, "Method not allowed", body["error"])
		})
	}
}

// ============================================================
// Days
// ============================================================

func TestAddDay(t *testing.T) {
	assert := assert.New(t)
	s, repo := newTestServer(t)

	rec := do(t, s.Handler(), "POST", "/api/days", map[string]string{"date": "2024-03-10"})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeMap(t, rec)

	assert.Equal(true, body["success"])
	day := body["day"].(map[string]any)
	assert.Equal(body["day_id"], day["id"])
	assert.Equal("2024-03-10", day["date"])
	assert.Len(day["tasks"], 3)
	assert.Len(repo.AllDays(), 1)

	// Same date again returns the same day.
	again := decodeMap(t, do(t, s.Handler(), "POST", "/api/days", map[string]string{"date": "2024-03-10"}))
	assert.Equal(body["day_id"], again["day_id"])
	assert.Len(repo.AllDays(), 1)
}

func TestAddDayRejectsBadInput(t *testing.T) {
	s, _ := newTestServer(t)

	cases := []struct {
		name  string
		body  any
		field string
		msg   string
	}{
		{"missing date", map[string]string{}, "date", "Date required"},
		{"empty body", nil, "date", "Date required"},
		{"bad date", map[string]string{"date": "2024-02-30"}, "date", "Invalid date"},
		{"malformed json", "{not json", "body", "Invalid request payload"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, s.Handler(), "POST", "/api/days", tc.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			body := decodeMap(t, rec)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tc.field, body["field"])
			assert.Equal(t, tc.msg, body["error"])
		})
	}
}

func TestGetDay(t *testing.T) {
	assert := assert.New(t)
	s, _ := newTestServer(t)
	id := addDay(t, s.Handler(), "2024-03-15")

	rec := do(t, s.Handler(), "GET", "/api/days/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeMap(t, rec)

	assert.Equal("Today", body["display_date"])
	assert.Equal("none", body["completion_status"])
	assert.EqualValues(0, body["completion_percentage"])
	assert.EqualValues(0, body["completed_count"])
	assert.EqualValues(3, body["total_count"])
}

func TestGetDayErrors(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s.Handler(), "GET", "/api/days/8c5ac4f1-35a4-4c52-9d7e-1f4b2f1d8a10", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, s.Handler(), "GET", "/api/days/not-a-uuid", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "day_id", decodeMap(t, rec)["field"])
}

func TestDeleteDay(t *testing.T) {
	s, repo := newTestServer(t)
	id := addDay(t, s.Handler(), "2024-03-10")

	rec := do(t, s.Handler(), "DELETE", "/api/days/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())
	assert.Empty(t, repo.AllDays())

	rec = do(t, s.Handler(), "DELETE", "/api/days/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestToggleDayExpand(t *testing.T) {
	s, _ := newTestServer(t)
	id := addDay(t, s.Handler(), "2024-03-10")

	rec := do(t, s.Handler(), "POST", "/api/days/"+id+"/expand", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, decodeMap(t, rec)["is_expanded"])
}

// ============================================================
// Tasks
// ============================================================

func TestTaskLifecycle(t *testing.T) {
	assert := assert.New(t)
	s, repo := newTestServer(t)
	h := s.Handler()
	dayID := addDay(t, h, "2024-03-10")

	rec := do(t, h, "POST", "/api/days/"+dayID+"/tasks", map[string]string{"title": "  Write report  "})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeMap(t, rec)
	task := body["task"].(map[string]any)
	taskID := task["id"].(string)
	assert.Equal("Write report", task["title"])
	assert.EqualValues(4, body["total_count"])

	rec = do(t, h, "POST", "/api/days/"+dayID+"/tasks/"+taskID+"/toggle", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeMap(t, rec)
	assert.Equal(true, body["completed"])
	assert.Equal("partial", body["completion_status"])
	assert.EqualValues(25, body["completion_percentage"])
	stats := body["stats"].(map[string]any)
	assert.EqualValues(4, stats["total_tasks"])
	assert.EqualValues(1, stats["completed_tasks"])
	assert.EqualValues(25, stats["completion_rate"])

	rec = do(t, h, "PUT", "/api/days/"+dayID+"/tasks/"+taskID, map[string]string{"title": "Send report"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, "POST", "/api/days/"+dayID+"/tasks/"+taskID+"/expand", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(false, decodeMap(t, rec)["is_expanded"])

	day, err := repo.GetDay(dayID)
	require.NoError(t, err)
	assert.Equal("Send report", day.Task(taskID).Title)

	rec = do(t, h, "DELETE", "/api/days/"+dayID+"/tasks/"+taskID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeMap(t, rec)
	assert.EqualValues(3, body["total_count"])
	assert.EqualValues(0, body["completed_count"])

	rec = do(t, h, "POST", "/api/days/"+dayID+"/tasks/"+taskID+"/toggle", nil)
	assert.Equal(http.StatusNotFound, rec.Code)
}

func TestAddTaskValidation(t *testing.T) {
	s, _ := newTestServer(t)
	dayID := addDay(t, s.Handler(), "2024-03-10")

	rec := do(t, s.Handler(), "POST", "/api/days/"+dayID+"/tasks", map[string]string{"title": "<script>alert(1)</script>"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeMap(t, rec)
	assert.Equal(t, "title", body["field"])
	assert.Equal(t, "title contains invalid content", body["error"])

	rec = do(t, s.Handler(), "POST", "/api/days/"+dayID+"/tasks", map[string]string{"title": "   "})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "title", decodeMap(t, rec)["field"])
}

func TestSubtasks(t *testing.T) {
	assert := assert.New(t)
	s, _ := newTestServer(t)
	h := s.Handler()
	dayID := addDay(t, h, "2024-03-10")
	taskID := addTask(t, h, dayID, "Groceries")
	base := "/api/days/" + dayID + "/tasks/" + taskID + "/subtasks"

	rec := do(t, h, "POST", base, map[string]string{"title": "Milk"})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeMap(t, rec)
	milk := body["subtask"].(map[string]any)["id"].(string)
	assert.Equal([]any{0.0, 1.0}, body["subtask_progress"])

	rec = do(t, h, "POST", base, map[string]string{"title": "Eggs"})
	assert.Equal([]any{0.0, 2.0}, decodeMap(t, rec)["subtask_progress"])

	rec = do(t, h, "POST", base+"/"+milk+"/toggle", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeMap(t, rec)
	assert.Equal(true, body["completed"])
	assert.Equal([]any{1.0, 2.0}, body["subtask_progress"])

	rec = do(t, h, "DELETE", base+"/"+milk, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal([]any{0.0, 1.0}, decodeMap(t, rec)["subtask_progress"])

	rec = do(t, h, "DELETE", base+"/"+milk, nil)
	assert.Equal(http.StatusNotFound, rec.Code)
}

// ============================================================
// Calendar and statistics
// ============================================================

func TestCalendarMonth(t *testing.T) {
	assert := assert.New(t)
	s, repo := newTestServer(t)

	rec := do(t, s.Handler(), "GET", "/api/calendar?year=2024&month=2", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeMap(t, rec)

	assert.EqualValues(2024, body["year"])
	assert.EqualValues(2, body["month"])
	assert.Equal("February", body["month_name"])
	assert.Equal(map[string]any{"year": 2024.0, "month": 1.0}, body["prev_month"])
	assert.Equal(map[string]any{"year": 2024.0, "month": 3.0}, body["next_month"])
	assert.Nil(body["selected_day"])

	weeks := body["weeks"].([]any)
	require.Len(t, weeks, 5)
	first := weeks[0].([]any)
	require.Len(t, first, 7)
	for i := 0; i < 4; i++ {
		assert.Nil(first[i], "Feb 2024 starts on a Thursday")
	}
	cell := first[4].(map[string]any)
	assert.Equal("2024-02-01", cell["date"])
	assert.EqualValues(1, cell["day_num"])
	assert.EqualValues(3, cell["total_count"])
	assert.Equal(false, cell["is_today"])

	// 29 February days plus today.
	assert.Len(repo.AllDays(), 30)

	monthly := body["monthly_stats"].(map[string]any)
	assert.EqualValues(29, monthly["days_with_tasks"])
	assert.Contains(body["stats"], "completion_rate")
}

func TestCalendarIsIdempotent(t *testing.T) {
	s, repo := newTestServer(t)
	do(t, s.Handler(), "GET", "/api/calendar?year=2024&month=3", nil)
	n := len(repo.AllDays())
	do(t, s.Handler(), "GET", "/api/calendar?year=2024&month=3", nil)
	assert.Equal(t, 31, n)
	assert.Len(t, repo.AllDays(), n)
}

func TestCalendarNormalizesMonth(t *testing.T) {
	s, _ := newTestServer(t)

	body := decodeMap(t, do(t, s.Handler(), "GET", "/api/calendar?year=2023&month=13", nil))
	assert.EqualValues(t, 2024, body["year"])
	assert.EqualValues(t, 1, body["month"])
	assert.Equal(t, map[string]any{"year": 2023.0, "month": 12.0}, body["prev_month"])

	body = decodeMap(t, do(t, s.Handler(), "GET", "/api/calendar?year=2024&month=0", nil))
	assert.EqualValues(t, 2023, body["year"])
	assert.EqualValues(t, 12, body["month"])
}

func TestCalendarCellsRelativeToToday(t *testing.T) {
	assert := assert.New(t)
	s, _ := newTestServer(t)

	rec := do(t, s.Handler(), "GET", "/api/calendar?year=2024&month=3", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeMap(t, rec)

	assert.Equal([]any{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}, body["weekdays"])

	// Week of March 10 to 16; today is Friday the 15th.
	week := body["weeks"].([]any)[2].([]any)
	tests := []struct {
		col                 int
		date, weekday       string
		past, today, future bool
	}{
		{4, "2024-03-14", "Thu", true, false, false},
		{5, "2024-03-15", "Fri", false, true, false},
		{6, "2024-03-16", "Sat", false, false, true},
	}
	for _, tt := range tests {
		cell := week[tt.col].(map[string]any)
		assert.Equal(tt.date, cell["date"])
		assert.Equal(tt.weekday, cell["weekday"])
		assert.Equal(tt.past, cell["is_past"], tt.date)
		assert.Equal(tt.today, cell["is_today"], tt.date)
		assert.Equal(tt.future, cell["is_future"], tt.date)
	}
}

func TestCalendarRejectsBadMonthQuery(t *testing.T) {
	s, repo := newTestServer(t)
	tests := []struct {
		query, field string
	}{
		{"year=2024&month=abc", "month"},
		{"year=2024&month=20", "month"},
		{"year=2024&month=-5", "month"},
		{"year=abc&month=3", "year"},
		{"year=0&month=3", "year"},
		{"year=10000&month=3", "year"},
	}
	for _, tt := range tests {
		for _, path := range []string{"/api/calendar?", "/api/statistics/monthly?"} {
			rec := do(t, s.Handler(), "GET", path+tt.query, nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code, path+tt.query)
			body := decodeMap(t, rec)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.field, body["field"], path+tt.query)
		}
	}
	assert.Empty(t, repo.AllDays())
}

func TestCalendarSelectsToday(t *testing.T) {
	s, _ := newTestServer(t)

	body := decodeMap(t, do(t, s.Handler(), "GET", "/api/calendar", nil))
	assert.EqualValues(t, 2024, body["year"])
	assert.EqualValues(t, 3, body["month"])

	selected := body["selected_day"].(map[string]any)
	assert.Equal(t, "Today", selected["display_date"])
	assert.Equal(t, "2024-03-15", selected["day"].(map[string]any)["date"])
}

func TestCalendarSelectsRequestedDay(t *testing.T) {
	s, _ := newTestServer(t)
	id := addDay(t, s.Handler(), "2024-01-20")

	body := decodeMap(t, do(t, s.Handler(), "GET", "/api/calendar?year=2024&month=1&day="+id, nil))
	selected := body["selected_day"].(map[string]any)
	assert.Equal(t, "Saturday, January 20", selected["display_date"])
}

func TestStatistics(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()
	dayID := addDay(t, h, "2024-03-10")
	taskID := addTask(t, h, dayID, "Extra")
	do(t, h, "POST", "/api/days/"+dayID+"/tasks/"+taskID+"/toggle", nil)

	rec := do(t, h, "GET", "/api/statistics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeMap(t, rec)
	assert.EqualValues(t, 1, body["total_days"])
	assert.EqualValues(t, 4, body["total_tasks"])
	assert.EqualValues(t, 25, body["completion_rate"])

	rec = do(t, h, "GET", "/api/statistics/monthly?year=2024&month=3", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeMap(t, rec)
	assert.EqualValues(t, 1, body["days_with_tasks"])
	assert.Equal(t, "2024-03-10", body["best_day"])
	assert.Equal(t, "Sunday", body["most_productive_weekday"])
}

// ============================================================
// Export
// ============================================================

func TestExportCSV(t *testing.T) {
	s, _ := newTestServer(t)
	addDay(t, s.Handler(), "2024-03-10")

	for _, path := range []string{"/api/export/csv", "/export/csv"} {
		rec := do(t, s.Handler(), "GET", path, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
		assert.Equal(t, "attachment;filename=dayplan_export.csv", rec.Header().Get("Content-Disposition"))
		lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
		assert.Len(t, lines, 4)
		assert.True(t, strings.HasPrefix(lines[0], "Date,Task,Completed"))
	}
}

func TestExportJSON(t *testing.T) {
	s, _ := newTestServer(t)
	addDay(t, s.Handler(), "2024-03-10")

	rec := do(t, s.Handler(), "GET", "/export/json", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "attachment;filename=dayplan_export.json", rec.Header().Get("Content-Disposition"))

	body := decodeMap(t, rec)
	assert.Equal(t, "2024-03-15T09:00:00Z", body["exported_at"])
	assert.Len(t, body["days"], 1)
}

// ============================================================
// Collections
// ============================================================

func TestCollectionLifecycle(t *testing.T) {
	assert := assert.New(t)
	s, _ := newTestServer(t)
	h := s.Handler()

	rec := do(t, h, "POST", "/api/collections", map[string]string{"name": "Reading list"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	col := decodeMap(t, rec)["collection"].(map[string]any)
	id := col["id"].(string)
	assert.Equal("blue", col["color"])
	assert.Equal("", col["description"])
	assert.EqualValues(0, col["completion_percentage"])

	rec = do(t, h, "PUT", "/api/collections/"+id, map[string]string{"color": "green", "description": "Books"})
	require.Equal(t, http.StatusOK, rec.Code)
	col = decodeMap(t, rec)["collection"].(map[string]any)
	assert.Equal("green", col["color"])
	assert.Equal("Reading list", col["name"])

	rec = do(t, h, "POST", "/api/collections/"+id+"/tasks", map[string]any{
		"title":    "Dune",
		"priority": "high",
		"tags":     []string{"sci-fi", " classic "},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	task := decodeMap(t, rec)["task"].(map[string]any)
	taskID := task["id"].(string)
	assert.Equal("high", task["priority"])
	assert.Equal([]any{"sci-fi", "classic"}, task["tags"])

	rec = do(t, h, "POST", "/api/collections/"+id+"/tasks/"+taskID+"/toggle", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(true, decodeMap(t, rec)["completed"])

	rec = do(t, h, "GET", "/api/collections/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	col = decodeMap(t, rec)["collection"].(map[string]any)
	assert.EqualValues(100, col["completion_percentage"])
	assert.EqualValues(1, col["completed_count"])

	rec = do(t, h, "PUT", "/api/collections/"+id+"/tasks/"+taskID, map[string]string{"notes": "reread"})
	require.Equal(t, http.StatusOK, rec.Code)
	task = decodeMap(t, rec)["task"].(map[string]any)
	assert.Equal("reread", task["notes"])
	assert.Equal("Dune", task["title"])

	rec = do(t, h, "DELETE", "/api/collections/"+id+"/tasks/"+taskID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, "DELETE", "/api/collections/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = do(t, h, "GET", "/api/collections/"+id, nil)
	assert.Equal(http.StatusNotFound, rec.Code)
}

func TestListCollections(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()
	do(t, h, "POST", "/api/collections", map[string]string{"name": "Home"})

	rec := do(t, h, "GET", "/api/collections", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeMap(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Len(t, body["collections"], 1)
}

func TestCollectionValidation(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()

	cases := []struct {
		name  string
		body  any
		field string
	}{
		{"missing name", map[string]string{}, "name"},
		{"blank name", map[string]string{"name": " "}, "name"},
		{"bad color", map[string]string{"name": "Home", "color": "orange"}, "color"},
		{"injected description", map[string]string{"name": "Home", "description": "javascript:alert(1)"}, "description"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, h, "POST", "/api/collections", tc.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tc.field, decodeMap(t, rec)["field"])
		})
	}

	rec := do(t, h, "POST", "/api/collections", map[string]string{"name": "Home"})
	id := decodeMap(t, rec)["collection"].(map[string]any)["id"].(string)

	rec = do(t, h, "POST", "/api/collections/"+id+"/tasks", map[string]any{"title": "Fix sink", "priority": "urgent"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeMap(t, rec)
	assert.Equal(t, "priority", body["field"])
	assert.Equal(t, "Priority must be one of: none, low, medium, high", body["error"])

	tags := make([]string, 11)
	for i := range tags {
		tags[i] = "t"
	}
	rec = do(t, h, "POST", "/api/collections/"+id+"/tasks", map[string]any{"title": "Fix sink", "tags": tags})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "tags", decodeMap(t, rec)["field"])
}

// ============================================================
// Logging
// ============================================================

func TestHandlerLogsRequests(t *testing.T) {
	var buf bytes.Buffer
	repo := store.NewMemory(store.WithClock(func() time.Time { return fixedNow }))
	s := New(repo, zerolog.New(&buf).Level(zerolog.InfoLevel))

	do(t, s.Handler(), "GET", "/health", nil)
	out := buf.String()
	assert.Contains(t, out, `"message":"request"`)
	assert.Contains(t, out, `"status":200`)
	assert.Contains(t, out, `"req_id"`)

	buf.Reset()
	do(t, s.Handler(), "POST", "/api/days", map[string]string{})
	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), `"field":"date"`)
}
