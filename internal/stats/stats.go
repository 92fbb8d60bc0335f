// Package stats aggregates completion statistics over a snapshot of days.
// Every function is pure: inputs are read, never modified.
package stats

import (
	"encoding/json"
	"sort"
	"strconv"

	"github.com/sadopc/dayplan/internal/calendar"
	"github.com/sadopc/dayplan/internal/planner"
)

var weekdayNames = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// Statistics summarises every day in the planner.
type Statistics struct {
	TotalDays         int     `json:"total_days"`
	TotalTasks        int     `json:"total_tasks"`
	CompletedTasks    int     `json:"completed_tasks"`
	AverageCompletion float64 `json:"average_completion"`
	CurrentStreak     int     `json:"current_streak"`
	BestStreak        int     `json:"best_streak"`
	PerfectDays       int     `json:"perfect_days"`
}

// CompletionRate is the share of completed tasks as a percentage with one
// decimal.
func (s Statistics) CompletionRate() float64 {
	return rate(s.TotalTasks, s.CompletedTasks)
}

func (s Statistics) MarshalJSON() ([]byte, error) {
	type plain Statistics
	return json.Marshal(struct {
		plain
		CompletionRate float64 `json:"completion_rate"`
	}{plain(s), s.CompletionRate()})
}

// MonthlyStatistics summarises the days of one calendar month. BestDay and
// MostProductiveWeekday are nil when no day had any progress.
type MonthlyStatistics struct {
	Year                  int     `json:"year"`
	Month                 int     `json:"month"`
	DaysWithTasks         int     `json:"days_with_tasks"`
	TotalTasks            int     `json:"total_tasks"`
	CompletedTasks        int     `json:"completed_tasks"`
	AverageCompletion     float64 `json:"average_completion"`
	PerfectDays           int     `json:"perfect_days"`
	BestDay               *string `json:"best_day"`
	MostProductiveWeekday *string `json:"most_productive_weekday"`

	// WeekdayAverages holds the mean completion per weekday, Monday first.
	WeekdayAverages [7]float64 `json:"-"`
}

func (s MonthlyStatistics) CompletionRate() float64 {
	return rate(s.TotalTasks, s.CompletedTasks)
}

func (s MonthlyStatistics) MarshalJSON() ([]byte, error) {
	type plain MonthlyStatistics
	return json.Marshal(struct {
		plain
		CompletionRate float64 `json:"completion_rate"`
	}{plain(s), s.CompletionRate()})
}

// Overall computes statistics across all days.
//
// Streaks are counted walking from the newest day to the oldest. The current
// streak is the first complete run that is closed by a non-complete day, or
// the trailing run when no such break occurs. An empty day breaks a streak.
func Overall(days []planner.Day) Statistics {
	var s Statistics
	if len(days) == 0 {
		return s
	}
	s.TotalDays = len(days)

	var percentages []int
	for _, d := range days {
		if len(d.Tasks) == 0 {
			continue
		}
		s.TotalTasks += d.TotalCount()
		s.CompletedTasks += d.CompletedCount()
		percentages = append(percentages, d.CompletionPercentage())
		if d.CompletionStatus() == planner.StatusComplete {
			s.PerfectDays++
		}
	}
	s.AverageCompletion = mean(percentages)

	order := make([]int, len(days))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return days[order[a]].Date > days[order[b]].Date
	})

	current, best, run := 0, 0, 0
	for _, i := range order {
		if days[i].CompletionStatus() == planner.StatusComplete {
			run++
			best = max(best, run)
			continue
		}
		if run > 0 && current == 0 {
			current = run
		}
		run = 0
	}
	best = max(best, run)
	if current == 0 {
		current = run
	}
	s.CurrentStreak = current
	s.BestStreak = best
	return s
}

// Monthly computes statistics for the given month from whichever of days
// fall inside it. Days are visited in date order, so the earliest date wins
// a tie for best day.
func Monthly(year, month int, days []planner.Day) (MonthlyStatistics, error) {
	s := MonthlyStatistics{Year: year, Month: month}
	first, last, err := calendar.MonthBounds(year, month)
	if err != nil {
		return s, err
	}
	lo, hi := calendar.FormatDate(first), calendar.FormatDate(last)

	var inMonth []planner.Day
	for _, d := range days {
		if d.Date >= lo && d.Date <= hi {
			inMonth = append(inMonth, d)
		}
	}
	sort.SliceStable(inMonth, func(a, b int) bool { return inMonth[a].Date < inMonth[b].Date })

	var (
		percentages []int
		byWeekday   [7][]int
		bestPct     int
	)
	for _, d := range inMonth {
		if len(d.Tasks) == 0 {
			continue
		}
		s.DaysWithTasks++
		s.TotalTasks += d.TotalCount()
		s.CompletedTasks += d.CompletedCount()

		pct := d.CompletionPercentage()
		percentages = append(percentages, pct)
		if pct > bestPct {
			bestPct = pct
			date := d.Date
			s.BestDay = &date
		}
		if t, err := d.Time(); err == nil {
			wd := calendar.MondayIndex(t.Weekday())
			byWeekday[wd] = append(byWeekday[wd], pct)
		}
		if d.CompletionStatus() == planner.StatusComplete {
			s.PerfectDays++
		}
	}
	s.AverageCompletion = mean(percentages)

	bestAvg := 0.0
	for wd, pcts := range byWeekday {
		if len(pcts) == 0 {
			continue
		}
		avg := average(pcts)
		s.WeekdayAverages[wd] = round1(avg)
		if avg > bestAvg {
			bestAvg = avg
			name := weekdayNames[wd]
			s.MostProductiveWeekday = &name
		}
	}
	return s, nil
}

func rate(total, completed int) float64 {
	if total == 0 {
		return 0
	}
	return round1(float64(completed) / float64(total) * 100)
}

func mean(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	return round1(average(values))
}

func average(values []int) float64 {
	sum := 0
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}

// round1 rounds x to one decimal. Halfway cases are decided on the exact
// binary value and ties go to even.
func round1(x float64) float64 {
	v, _ := strconv.ParseFloat(strconv.FormatFloat(x, 'f', 1, 64), 64)
	return v
}
