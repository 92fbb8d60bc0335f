package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/dayplan/internal/calendar"
	"github.com/sadopc/dayplan/internal/planner"
	"github.com/sadopc/dayplan/internal/store"
	"github.com/sadopc/dayplan/internal/validate"
)

type dayModel struct {
	repo   *store.Repository
	width  int
	height int

	date   time.Time
	day    planner.Day
	cursor int
	bar    progress.Model

	formActive bool
	form       *huh.Form
	formType   string // "task", "subtask", "rename"
	formTaskID string

	// Form field pointer (survives value copies)
	formTitle *string
}

// dayRow is one line of the task list. sub is -1 for the task itself.
type dayRow struct {
	task int
	sub  int
}

func newDayModel(repo *store.Repository) dayModel {
	title := ""
	return dayModel{
		repo:      repo,
		date:      repo.Today(),
		bar:       progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		formTitle: &title,
	}
}

func (d *dayModel) setSize(w, h int) {
	d.width = w
	d.height = h
	d.bar.Width = max(10, min(w-16, 60))
}

type dayDataMsg struct {
	day planner.Day
}

// load shows date, creating the day if needed.
func (d dayModel) load(date time.Time) tea.Cmd {
	return func() tea.Msg {
		days, err := d.repo.EnsureDays(ctx(), []time.Time{date})
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Save error: %v", err), isError: true}
		}
		return dayDataMsg{day: days[calendar.FormatDate(date)]}
	}
}

func (d dayModel) refresh() tea.Cmd {
	return d.load(d.date)
}

// mutate runs fn and then reloads the day.
func (d dayModel) mutate(fn func(dayID string) error) tea.Cmd {
	id := d.day.ID
	return func() tea.Msg {
		if err := fn(id); err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		day, err := d.repo.GetDay(id)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return dayDataMsg{day: day}
	}
}

func (d dayModel) rows() []dayRow {
	var rows []dayRow
	for i, t := range d.day.Tasks {
		rows = append(rows, dayRow{task: i, sub: -1})
		if t.IsExpanded {
			for j := range t.Subtasks {
				rows = append(rows, dayRow{task: i, sub: j})
			}
		}
	}
	return rows
}

// current returns the row under the cursor.
func (d dayModel) current() (dayRow, bool) {
	rows := d.rows()
	if d.cursor < 0 || d.cursor >= len(rows) {
		return dayRow{}, false
	}
	return rows[d.cursor], true
}

func (d dayModel) update(msg tea.Msg) (dayModel, tea.Cmd) {
	if d.formActive && d.form != nil {
		return d.updateForm(msg)
	}

	switch msg := msg.(type) {
	case dayDataMsg:
		d.day = msg.day
		if t, err := msg.day.Time(); err == nil {
			d.date = t
		}
		if n := len(d.rows()); d.cursor >= n {
			d.cursor = max(0, n-1)
		}
		return d, nil

	case tea.KeyMsg:
		return d.updateKeys(msg)
	}
	return d, nil
}

func (d dayModel) updateKeys(msg tea.KeyMsg) (dayModel, tea.Cmd) {
	row, ok := d.current()

	switch {
	case key.Matches(msg, keys.Up):
		if d.cursor > 0 {
			d.cursor--
		}
	case key.Matches(msg, keys.Down):
		if d.cursor < len(d.rows())-1 {
			d.cursor++
		}
	case key.Matches(msg, keys.Left):
		d.cursor = 0
		return d, d.load(d.date.AddDate(0, 0, -1))
	case key.Matches(msg, keys.Right):
		d.cursor = 0
		return d, d.load(d.date.AddDate(0, 0, 1))
	case key.Matches(msg, keys.Today):
		d.cursor = 0
		return d, d.load(d.repo.Today())
	case key.Matches(msg, keys.New):
		return d.showForm("task", "")
	case !ok:
		return d, nil
	case key.Matches(msg, keys.Toggle), key.Matches(msg, keys.Enter):
		return d, d.toggle(row)
	case key.Matches(msg, keys.Expand):
		taskID := d.day.Tasks[row.task].ID
		return d, d.mutate(func(dayID string) error {
			_, err := d.repo.ToggleTaskExpand(ctx(), dayID, taskID)
			return err
		})
	case key.Matches(msg, keys.AddSub):
		return d.showForm("subtask", d.day.Tasks[row.task].ID)
	case key.Matches(msg, keys.Rename):
		if row.sub < 0 {
			t := d.day.Tasks[row.task]
			*d.formTitle = t.Title
			return d.showForm("rename", t.ID)
		}
	case key.Matches(msg, keys.Delete):
		return d, d.remove(row)
	}
	return d, nil
}

func (d dayModel) toggle(row dayRow) tea.Cmd {
	t := d.day.Tasks[row.task]
	if row.sub < 0 {
		return d.mutate(func(dayID string) error {
			_, err := d.repo.ToggleTask(ctx(), dayID, t.ID)
			return err
		})
	}
	subID := t.Subtasks[row.sub].ID
	return d.mutate(func(dayID string) error {
		_, err := d.repo.ToggleSubtask(ctx(), dayID, t.ID, subID)
		return err
	})
}

func (d dayModel) remove(row dayRow) tea.Cmd {
	t := d.day.Tasks[row.task]
	if row.sub < 0 {
		return d.mutate(func(dayID string) error {
			_, err := d.repo.DeleteTask(ctx(), dayID, t.ID)
			return err
		})
	}
	subID := t.Subtasks[row.sub].ID
	return d.mutate(func(dayID string) error {
		_, err := d.repo.DeleteSubtask(ctx(), dayID, t.ID, subID)
		return err
	})
}

func validTitle(s string) error {
	_, err := validate.Title(s, "title")
	return err
}

func (d dayModel) showForm(formType, taskID string) (dayModel, tea.Cmd) {
	if formType != "rename" {
		*d.formTitle = ""
	}
	d.formType = formType
	d.formTaskID = taskID

	label := "Task"
	if formType == "subtask" {
		label = "Subtask"
	}
	d.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title(label).Value(d.formTitle).Validate(validTitle),
		),
	).WithShowHelp(true).WithShowErrors(true)

	d.formActive = true
	return d, d.form.Init()
}

func (d dayModel) updateForm(msg tea.Msg) (dayModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			d.formActive = false
			d.form = nil
			return d, nil
		}
	}

	form, cmd := d.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		d.form = f
	}

	if d.form.State == huh.StateCompleted {
		d.formActive = false
		title := strings.TrimSpace(*d.formTitle)
		taskID := d.formTaskID
		switch d.formType {
		case "task":
			return d, d.mutate(func(dayID string) error {
				_, err := d.repo.AddTask(ctx(), dayID, title)
				return err
			})
		case "subtask":
			return d, d.mutate(func(dayID string) error {
				_, _, err := d.repo.AddSubtask(ctx(), dayID, taskID, title)
				return err
			})
		case "rename":
			return d, d.mutate(func(dayID string) error {
				_, err := d.repo.EditTask(ctx(), dayID, taskID, title)
				return err
			})
		}
	}

	return d, cmd
}

func (d dayModel) view() string {
	w := d.width - 4
	today := d.repo.Today()
	title := titleStyle.Render(calendar.DisplayDate(d.date, today)) + "  " +
		mutedStyle.Render(calendar.FormatDate(d.date))

	if d.formActive && d.form != nil {
		heading := map[string]string{"task": "New Task", "subtask": "New Subtask", "rename": "Rename Task"}[d.formType]
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", titleStyle.Render(heading), "", d.form.View())
		return panelStyle.Width(w).Render(content)
	}

	status := d.day.CompletionStatus()
	summary := fmt.Sprintf("%s %s  %d/%d",
		d.bar.ViewAs(float64(d.day.CompletionPercentage())/100),
		statusStyle(status).Render(fmt.Sprintf("%3d%%", d.day.CompletionPercentage())),
		d.day.CompletedCount(), d.day.TotalCount(),
	)

	rows := []string{title, "", summary, ""}
	if len(d.day.Tasks) == 0 {
		rows = append(rows, mutedStyle.Render("No tasks. Press n to add one."))
	}
	for i, row := range d.rows() {
		rows = append(rows, d.renderRow(row, i == d.cursor))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  space: toggle  n: new  a: subtask  r: rename  d: delete  o: expand  ←/→: day  esc: calendar"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (d dayModel) renderRow(row dayRow, selected bool) string {
	prefix, style := cursor(selected)
	t := d.day.Tasks[row.task]

	if row.sub >= 0 {
		s := t.Subtasks[row.sub]
		return style.Render(prefix+"    ") + checkbox(s.Completed) + style.Render(" "+s.Title)
	}

	fold := "  "
	if len(t.Subtasks) > 0 {
		fold = "▸ "
		if t.IsExpanded {
			fold = "▾ "
		}
	}
	line := style.Render(prefix+fold) + checkbox(t.Completed) + style.Render(" "+t.Title)
	if done, total := t.SubtaskProgress(); total > 0 {
		line += statusStyle(t.Status()).Render(fmt.Sprintf(" (%d/%d)", done, total))
	}
	if t.IsDefault {
		line += mutedStyle.Render(" ★")
	}
	return line
}
