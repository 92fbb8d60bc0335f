package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/dayplan/internal/calendar"
	"github.com/sadopc/dayplan/internal/planner"
	"github.com/sadopc/dayplan/internal/stats"
	"github.com/sadopc/dayplan/internal/store"
)

type chartMode int

const (
	chartWeekday chartMode = iota
	chartDaily
)

var weekdayLabels = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

var weekdayBarStyle = lipgloss.NewStyle().Foreground(colorSecondary)

type statsModel struct {
	repo   *store.Repository
	width  int
	height int

	mode    chartMode
	year    int
	month   int
	overall stats.Statistics
	monthly stats.MonthlyStatistics
	days    map[string]planner.Day

	chart barchart.Model
}

func newStatsModel(repo *store.Repository) statsModel {
	today := repo.Today()
	return statsModel{
		repo:  repo,
		year:  today.Year(),
		month: int(today.Month()),
		chart: barchart.New(60, 12),
	}
}

func (s *statsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type statsDataMsg struct {
	overall stats.Statistics
	monthly stats.MonthlyStatistics
	days    map[string]planner.Day
}

func (s statsModel) refresh() tea.Cmd {
	year, month := s.year, s.month
	return func() tea.Msg {
		monthly, err := s.repo.MonthlyStatistics(year, month)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Stats error: %v", err), isError: true}
		}
		first, last, _ := calendar.MonthBounds(year, month)
		return statsDataMsg{
			overall: s.repo.Statistics(),
			monthly: monthly,
			days:    s.repo.DaysInRange(first, last),
		}
	}
}

func (s statsModel) update(msg tea.Msg) (statsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case statsDataMsg:
		s.overall = msg.overall
		s.monthly = msg.monthly
		s.days = msg.days
		s.buildChart()
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left), key.Matches(msg, keys.PrevMonth):
			s.year, s.month = calendar.PrevMonth(s.year, s.month)
			return s, s.refresh()
		case key.Matches(msg, keys.Right), key.Matches(msg, keys.NextMonth):
			s.year, s.month = calendar.NextMonth(s.year, s.month)
			return s, s.refresh()
		case key.Matches(msg, keys.Today):
			today := s.repo.Today()
			s.year, s.month = today.Year(), int(today.Month())
			return s, s.refresh()
		case key.Matches(msg, keys.Toggle):
			if s.mode == chartWeekday {
				s.mode = chartDaily
			} else {
				s.mode = chartWeekday
			}
			s.buildChart()
			return s, nil
		}
	}
	return s, nil
}

func barStyle(pct float64) lipgloss.Style {
	switch {
	case pct >= 100:
		return completeStyle
	case pct > 0:
		return partialStyle
	}
	return lipgloss.NewStyle().Foreground(colorSubtle)
}

func (s *statsModel) buildChart() {
	chartWidth := max(s.width-8, 20)
	chartHeight := 12
	if s.height > 30 {
		chartHeight = 16
	}

	s.chart = barchart.New(chartWidth, chartHeight, barchart.WithMaxValue(100))

	var bars []barchart.BarData
	if s.mode == chartWeekday {
		for i, avg := range s.monthly.WeekdayAverages {
			bars = append(bars, barchart.BarData{
				Label:  weekdayLabels[i],
				Values: []barchart.BarValue{{Name: weekdayLabels[i], Value: avg, Style: weekdayBarStyle}},
			})
		}
	} else {
		first, last, err := calendar.MonthBounds(s.year, s.month)
		if err != nil {
			return
		}
		for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
			pct := 0.0
			if day, ok := s.days[calendar.FormatDate(d)]; ok {
				pct = float64(day.CompletionPercentage())
			}
			bars = append(bars, barchart.BarData{
				Label:  fmt.Sprintf("%d", d.Day()),
				Values: []barchart.BarValue{{Name: calendar.FormatDate(d), Value: pct, Style: barStyle(pct)}},
			})
		}
	}

	s.chart.PushAll(bars)
	s.chart.Draw()
}

func (s statsModel) view() string {
	w := s.width - 4

	weekdayTab := inactiveTabStyle.Render("By weekday")
	dailyTab := inactiveTabStyle.Render("By day")
	if s.mode == chartWeekday {
		weekdayTab = activeTabStyle.Render("By weekday")
	} else {
		dailyTab = activeTabStyle.Render("By day")
	}
	modeTabs := lipgloss.JoinHorizontal(lipgloss.Bottom, weekdayTab, dailyTab)

	monthLabel := mutedStyle.Render(calendar.MonthYear(calendar.Date(s.year, time.Month(s.month), 1)))
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Statistics"), "  ", modeTabs, "  ", monthLabel,
	)

	nav := mutedStyle.Render("  ←/→: month  t: this month  space: switch chart")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "",
			s.chart.View(), "",
			lipgloss.JoinHorizontal(lipgloss.Top, s.renderMonthly(), "    ", s.renderOverall()), "",
			nav,
		),
	)
}

func (s statsModel) renderOverall() string {
	o := s.overall
	rows := []string{
		subtitleStyle.Render("All time"),
		fmt.Sprintf("Days tracked     %d", o.TotalDays),
		fmt.Sprintf("Tasks done       %d/%d (%.1f%%)", o.CompletedTasks, o.TotalTasks, o.CompletionRate()),
		fmt.Sprintf("Average          %.1f%%", o.AverageCompletion),
		fmt.Sprintf("Perfect days     %d", o.PerfectDays),
		fmt.Sprintf("Current streak   %s", accentStyle.Render(fmt.Sprintf("%d", o.CurrentStreak))),
		fmt.Sprintf("Best streak      %d", o.BestStreak),
	}
	return strings.Join(rows, "\n")
}

func (s statsModel) renderMonthly() string {
	m := s.monthly
	rows := []string{
		subtitleStyle.Render("This month"),
		fmt.Sprintf("Days with tasks  %d", m.DaysWithTasks),
		fmt.Sprintf("Tasks done       %d/%d (%.1f%%)", m.CompletedTasks, m.TotalTasks, m.CompletionRate()),
		fmt.Sprintf("Average          %.1f%%", m.AverageCompletion),
		fmt.Sprintf("Perfect days     %d", m.PerfectDays),
	}
	if m.BestDay != nil {
		rows = append(rows, fmt.Sprintf("Best day         %s", *m.BestDay))
	}
	if m.MostProductiveWeekday != nil {
		rows = append(rows, fmt.Sprintf("Best weekday     %s", *m.MostProductiveWeekday))
	}
	return strings.Join(rows, "\n")
}
