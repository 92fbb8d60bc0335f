package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/dayplan/internal/calendar"
	"github.com/sadopc/dayplan/internal/planner"
	"github.com/sadopc/dayplan/internal/stats"
	"github.com/sadopc/dayplan/internal/store"
)

var weekdayHeader = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

const cellWidth = 6

type calendarModel struct {
	repo   *store.Repository
	width  int
	height int

	year     int
	month    int
	selected time.Time

	weeks   [][]*time.Time
	days    map[string]planner.Day
	monthly stats.MonthlyStatistics
}

func newCalendarModel(repo *store.Repository) calendarModel {
	today := repo.Today()
	return calendarModel{
		repo:     repo,
		year:     today.Year(),
		month:    int(today.Month()),
		selected: today,
	}
}

func (c calendarModel) Init() tea.Cmd {
	return c.loadData()
}

func (c *calendarModel) setSize(w, h int) {
	c.width = w
	c.height = h
}

type calendarDataMsg struct {
	year, month int
	weeks       [][]*time.Time
	days        map[string]planner.Day
	monthly     stats.MonthlyStatistics
}

// loadData makes sure today and every date of the shown month exist, then
// reads the month back.
func (c calendarModel) loadData() tea.Cmd {
	year, month := c.year, c.month
	return func() tea.Msg {
		if _, err := c.repo.EnsureToday(ctx()); err != nil {
			return statusMsg{text: fmt.Sprintf("Save error: %v", err), isError: true}
		}
		weeks, err := calendar.MonthWeeks(year, month)
		if err != nil {
			return statusMsg{text: err.Error(), isError: true}
		}
		var dates []time.Time
		for _, week := range weeks {
			for _, d := range week {
				if d != nil {
					dates = append(dates, *d)
				}
			}
		}
		days, err := c.repo.EnsureDays(ctx(), dates)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Save error: %v", err), isError: true}
		}
		monthly, _ := c.repo.MonthlyStatistics(year, month)
		return calendarDataMsg{year: year, month: month, weeks: weeks, days: days, monthly: monthly}
	}
}

func (c calendarModel) update(msg tea.Msg) (calendarModel, tea.Cmd) {
	switch msg := msg.(type) {
	case calendarDataMsg:
		if msg.year != c.year || msg.month != c.month {
			return c, nil
		}
		c.weeks = msg.weeks
		c.days = msg.days
		c.monthly = msg.monthly
		return c, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			return c.moveTo(c.selected.AddDate(0, 0, -1))
		case key.Matches(msg, keys.Right):
			return c.moveTo(c.selected.AddDate(0, 0, 1))
		case key.Matches(msg, keys.Up):
			return c.moveTo(c.selected.AddDate(0, 0, -7))
		case key.Matches(msg, keys.Down):
			return c.moveTo(c.selected.AddDate(0, 0, 7))
		case key.Matches(msg, keys.PrevMonth):
			y, m := calendar.PrevMonth(c.year, c.month)
			return c.moveTo(calendar.Date(y, time.Month(m), 1))
		case key.Matches(msg, keys.NextMonth):
			y, m := calendar.NextMonth(c.year, c.month)
			return c.moveTo(calendar.Date(y, time.Month(m), 1))
		case key.Matches(msg, keys.Today):
			return c.moveTo(c.repo.Today())
		case key.Matches(msg, keys.Enter):
			date := calendar.FormatDate(c.selected)
			return c, func() tea.Msg { return openDayMsg{date: date} }
		}
	}
	return c, nil
}

// moveTo selects date, reloading when it lies in another month.
func (c calendarModel) moveTo(date time.Time) (calendarModel, tea.Cmd) {
	c.selected = calendar.Truncate(date)
	y, m := c.selected.Year(), int(c.selected.Month())
	if y == c.year && m == c.month {
		return c, nil
	}
	c.year, c.month = y, m
	return c, c.loadData()
}

func (c calendarModel) view() string {
	w := c.width - 4
	first := calendar.Date(c.year, time.Month(c.month), 1)
	title := titleStyle.Render(calendar.MonthYear(first))

	var rows []string
	rows = append(rows, title, "")

	var header []string
	for _, name := range weekdayHeader {
		header = append(header, mutedStyle.Width(cellWidth).Render(name))
	}
	rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, header...))

	today := c.repo.Today()
	for _, week := range c.weeks {
		var cells []string
		for _, d := range week {
			cells = append(cells, c.renderCell(d, today))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	rows = append(rows, "", c.renderSelected(today), "", c.renderMonthly(), "")
	rows = append(rows, mutedStyle.Render("  ←/→/↑/↓: move  [/]: month  t: today  enter: open day"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (c calendarModel) renderCell(d *time.Time, today time.Time) string {
	if d == nil {
		return lipgloss.NewStyle().Width(cellWidth).Render("")
	}
	day := c.days[calendar.FormatDate(*d)]
	label := fmt.Sprintf("%2d", calendar.DayNumber(*d))
	mark := statusStyle(day.CompletionStatus()).Render("●")
	if day.TotalCount() == 0 {
		mark = emptyStyle.Render("·")
	}

	style := c.cellStyle(*d, today)
	return lipgloss.NewStyle().Width(cellWidth).Render(style.Render(label) + mark)
}

// cellStyle styles a day number. The cursor wins over today; past days
// are dimmed.
func (c calendarModel) cellStyle(d, today time.Time) lipgloss.Style {
	switch {
	case d.Equal(c.selected):
		return cursorCellStyle
	case calendar.IsToday(d, today):
		return todayCellStyle
	case calendar.IsPast(d, today):
		return pastCellStyle
	}
	return normalItemStyle
}

func (c calendarModel) renderSelected(today time.Time) string {
	day, ok := c.days[calendar.FormatDate(c.selected)]
	if !ok {
		return mutedStyle.Render(calendar.DisplayDate(c.selected, today))
	}
	status := day.CompletionStatus()
	return fmt.Sprintf("%s  %s %d/%d (%d%%)",
		highlightStyle.Render(calendar.DisplayDate(c.selected, today)),
		statusStyle(status).Render(status.String()),
		day.CompletedCount(), day.TotalCount(), day.CompletionPercentage(),
	)
}

func (c calendarModel) renderMonthly() string {
	m := c.monthly
	best := "-"
	if m.BestDay != nil {
		if t, err := calendar.ParseDate(*m.BestDay); err == nil {
			best = calendar.ShortDate(t)
		}
	}
	weekday := "-"
	if m.MostProductiveWeekday != nil {
		weekday = *m.MostProductiveWeekday
	}
	return mutedStyle.Render(fmt.Sprintf("  %d/%d tasks (%.1f%%)  avg %.1f%%  perfect %d  best %s  top %s",
		m.CompletedTasks, m.TotalTasks, m.CompletionRate(), m.AverageCompletion, m.PerfectDays, best, weekday))
}
