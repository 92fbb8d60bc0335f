package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/sadopc/dayplan/internal/calendar"
	"github.com/sadopc/dayplan/internal/planner"
	"github.com/sadopc/dayplan/internal/stats"
	"github.com/sadopc/dayplan/internal/store"
)

// calendarCell summarizes one in-month day of the grid.
type calendarCell struct {
	ID      string `json:"id"`
	Date    string `json:"date"`
	DayNum  int    `json:"day_num"`
	Weekday string `json:"weekday"`
	Today   bool   `json:"is_today"`
	Past    bool   `json:"is_past"`
	Future  bool   `json:"is_future"`
	dayMetrics
}

type monthRef struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

type selectedDay struct {
	Day         planner.Day `json:"day"`
	DisplayDate string      `json:"display_date"`
	dayMetrics
}

type calendarResponse struct {
	Success      bool                    `json:"success"`
	Year         int                     `json:"year"`
	Month        int                     `json:"month"`
	MonthName    string                  `json:"month_name"`
	Weekdays     []string                `json:"weekdays"`
	Weeks        [][]*calendarCell       `json:"weeks"`
	Stats        stats.Statistics        `json:"stats"`
	MonthlyStats stats.MonthlyStatistics `json:"monthly_stats"`
	PrevMonth    monthRef                `json:"prev_month"`
	NextMonth    monthRef                `json:"next_month"`
	SelectedDay  *selectedDay            `json:"selected_day"`
}

// requestMonth reads year and month from the query, defaulting to today's
// and folding a one-step overflow into the neighbouring year.
func (s *Server) requestMonth(r *http.Request) (int, int, error) {
	today := s.repo.Today()
	year, err := queryInt(r, "year", today.Year(), 1, 9999)
	if err != nil {
		return 0, 0, err
	}
	month, err := queryInt(r, "month", int(today.Month()), 0, 13)
	if err != nil {
		return 0, 0, err
	}
	year, month = calendar.NormalizeMonth(year, month)
	return year, month, nil
}

// weekdayHeader labels the grid columns, Sunday first.
func weekdayHeader(today time.Time) []string {
	week := calendar.WeekDates(today)
	names := make([]string, len(week))
	for i, d := range week {
		names[i] = calendar.WeekdayName(d)
	}
	return names
}

// handleCalendar builds the month view. Every date of the month is
// materialized so the grid never shows a missing day.
func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	year, month, err := s.requestMonth(r)
	if err != nil {
		fail(w, r, err)
		return
	}

	weeks, err := calendar.MonthWeeks(year, month)
	if err != nil {
		fail(w, r, err)
		return
	}
	if _, err := s.repo.EnsureToday(ctx); err != nil {
		fail(w, r, err)
		return
	}

	var dates []time.Time
	for _, week := range weeks {
		for _, cell := range week {
			if cell != nil {
				dates = append(dates, *cell)
			}
		}
	}
	days, err := s.repo.EnsureDays(ctx, dates)
	if err != nil {
		fail(w, r, err)
		return
	}

	today := s.repo.Today()
	grid := make([][]*calendarCell, len(weeks))
	for i, week := range weeks {
		grid[i] = make([]*calendarCell, len(week))
		for j, cell := range week {
			if cell == nil {
				continue
			}
			d := days[calendar.FormatDate(*cell)]
			grid[i][j] = &calendarCell{
				ID:         d.ID,
				Date:       d.Date,
				DayNum:     calendar.DayNumber(*cell),
				Weekday:    calendar.WeekdayName(*cell),
				Today:      calendar.IsToday(*cell, today),
				Past:       calendar.IsPast(*cell, today),
				Future:     calendar.IsFuture(*cell, today),
				dayMetrics: metricsOf(d),
			}
		}
	}

	monthly, err := s.repo.MonthlyStatistics(year, month)
	if err != nil {
		fail(w, r, err)
		return
	}
	selected, err := s.selectedDay(r, year, month)
	if err != nil {
		fail(w, r, err)
		return
	}

	py, pm := calendar.PrevMonth(year, month)
	ny, nm := calendar.NextMonth(year, month)
	respondJSON(w, http.StatusOK, calendarResponse{
		Success:      true,
		Year:         year,
		Month:        month,
		MonthName:    time.Month(month).String(),
		Weekdays:     weekdayHeader(today),
		Weeks:        grid,
		Stats:        s.repo.Statistics(),
		MonthlyStats: monthly,
		PrevMonth:    monthRef{py, pm},
		NextMonth:    monthRef{ny, nm},
		SelectedDay:  selected,
	})
}

// selectedDay resolves the ?day= query parameter, falling back to today
// when the requested month is the current one. An unknown id selects
// nothing.
func (s *Server) selectedDay(r *http.Request, year, month int) (*selectedDay, error) {
	today := s.repo.Today()

	var (
		day planner.Day
		err error
	)
	switch id := r.URL.Query().Get("day"); {
	case id != "":
		day, err = s.repo.GetDay(id)
	case today.Year() == year && int(today.Month()) == month:
		day, err = s.repo.GetDayByDate(today)
	default:
		return nil, nil
	}
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	date, err := day.Time()
	if err != nil {
		return nil, err
	}
	return &selectedDay{
		Day:         day,
		DisplayDate: calendar.DisplayDate(date, today),
		dayMetrics:  metricsOf(day),
	}, nil
}

func (s *Server) handleStatistics(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, s.repo.Statistics())
}

func (s *Server) handleMonthlyStatistics(w http.ResponseWriter, r *http.Request) {
	year, month, err := s.requestMonth(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	monthly, err := s.repo.MonthlyStatistics(year, month)
	if err != nil {
		fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, monthly)
}
