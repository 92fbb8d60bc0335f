package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/dayplan/internal/planner"
	"github.com/sadopc/dayplan/internal/store"
	"github.com/sadopc/dayplan/internal/validate"
)

var collectionColors = map[planner.Color]lipgloss.Color{
	planner.ColorBlue:   lipgloss.Color("#3498DB"),
	planner.ColorRed:    lipgloss.Color("#E74C3C"),
	planner.ColorGreen:  lipgloss.Color("#2ECC71"),
	planner.ColorYellow: lipgloss.Color("#F1C40F"),
	planner.ColorPurple: lipgloss.Color("#9B59B6"),
	planner.ColorPink:   lipgloss.Color("#FF6B9D"),
}

var priorityMarks = map[planner.Priority]string{
	planner.PriorityNone:   "",
	planner.PriorityLow:    "!",
	planner.PriorityMedium: "!!",
	planner.PriorityHigh:   "!!!",
}

func colorDot(c planner.Color) string {
	return lipgloss.NewStyle().Foreground(collectionColors[c]).Render("●")
}

type collectionsModel struct {
	repo   *store.Repository
	width  int
	height int

	collections  []planner.Collection
	cursor       int
	taskCursor   int
	viewingTasks bool // true = viewing tasks of selected collection

	formActive bool
	form       *huh.Form
	formType   string // "collection", "edit_collection", "task"

	// Form field pointers (survive value copies)
	formName        *string
	formDescription *string
	formColor       *planner.Color
	formPriority    *planner.Priority
	formTags        *string
	formNotes       *string
}

func newCollectionsModel(repo *store.Repository) collectionsModel {
	name, desc, tags, notes := "", "", "", ""
	color, priority := planner.ColorBlue, planner.PriorityNone
	return collectionsModel{
		repo:            repo,
		formName:        &name,
		formDescription: &desc,
		formColor:       &color,
		formPriority:    &priority,
		formTags:        &tags,
		formNotes:       &notes,
	}
}

func (c *collectionsModel) setSize(w, h int) {
	c.width = w
	c.height = h
}

type collectionsDataMsg struct {
	collections []planner.Collection
}

func (c collectionsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		return collectionsDataMsg{collections: c.repo.Collections()}
	}
}

// run performs fn and reloads the list, reporting any error.
func (c collectionsModel) run(fn func() error) tea.Cmd {
	return func() tea.Msg {
		if err := fn(); err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return collectionsDataMsg{collections: c.repo.Collections()}
	}
}

func (c collectionsModel) selected() (planner.Collection, bool) {
	if c.cursor < 0 || c.cursor >= len(c.collections) {
		return planner.Collection{}, false
	}
	return c.collections[c.cursor], true
}

func (c collectionsModel) update(msg tea.Msg) (collectionsModel, tea.Cmd) {
	if c.formActive && c.form != nil {
		return c.updateForm(msg)
	}

	switch msg := msg.(type) {
	case collectionsDataMsg:
		c.collections = msg.collections
		if c.cursor >= len(c.collections) {
			c.cursor = max(0, len(c.collections)-1)
		}
		if col, ok := c.selected(); ok && c.taskCursor >= len(col.Tasks) {
			c.taskCursor = max(0, len(col.Tasks)-1)
		}
		if len(c.collections) == 0 {
			c.viewingTasks = false
		}
		return c, nil

	case tea.KeyMsg:
		if c.viewingTasks {
			return c.updateTaskView(msg)
		}
		return c.updateCollectionList(msg)
	}
	return c, nil
}

func (c collectionsModel) updateCollectionList(msg tea.KeyMsg) (collectionsModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if c.cursor > 0 {
			c.cursor--
		}
	case key.Matches(msg, keys.Down):
		if c.cursor < len(c.collections)-1 {
			c.cursor++
		}
	case key.Matches(msg, keys.Enter):
		if len(c.collections) > 0 {
			c.viewingTasks = true
			c.taskCursor = 0
		}
	case key.Matches(msg, keys.New):
		return c.showCollectionForm(nil)
	case key.Matches(msg, keys.Rename):
		if col, ok := c.selected(); ok {
			return c.showCollectionForm(&col)
		}
	case key.Matches(msg, keys.Delete):
		if col, ok := c.selected(); ok {
			return c, c.run(func() error { return c.repo.DeleteCollection(ctx(), col.ID) })
		}
	}
	return c, nil
}

func (c collectionsModel) updateTaskView(msg tea.KeyMsg) (collectionsModel, tea.Cmd) {
	col, ok := c.selected()
	if !ok {
		c.viewingTasks = false
		return c, nil
	}

	switch {
	case key.Matches(msg, keys.Back):
		c.viewingTasks = false
		return c, nil
	case key.Matches(msg, keys.Up):
		if c.taskCursor > 0 {
			c.taskCursor--
		}
	case key.Matches(msg, keys.Down):
		if c.taskCursor < len(col.Tasks)-1 {
			c.taskCursor++
		}
	case key.Matches(msg, keys.New):
		return c.showTaskForm()
	case key.Matches(msg, keys.Toggle), key.Matches(msg, keys.Enter):
		if c.taskCursor < len(col.Tasks) {
			taskID := col.Tasks[c.taskCursor].ID
			return c, c.run(func() error {
				_, err := c.repo.ToggleCollectionTask(ctx(), col.ID, taskID)
				return err
			})
		}
	case key.Matches(msg, keys.Delete):
		if c.taskCursor < len(col.Tasks) {
			taskID := col.Tasks[c.taskCursor].ID
			return c, c.run(func() error { return c.repo.DeleteCollectionTask(ctx(), col.ID, taskID) })
		}
	}
	return c, nil
}

func colorOptions() []huh.Option[planner.Color] {
	opts := make([]huh.Option[planner.Color], len(planner.Colors))
	for i, col := range planner.Colors {
		opts[i] = huh.NewOption(fmt.Sprintf("%s %s", colorDot(col), col), col)
	}
	return opts
}

func priorityOptions() []huh.Option[planner.Priority] {
	opts := make([]huh.Option[planner.Priority], len(planner.Priorities))
	for i, p := range planner.Priorities {
		opts[i] = huh.NewOption(string(p), p)
	}
	return opts
}

// showCollectionForm opens the create form, or the edit form when col is set.
func (c collectionsModel) showCollectionForm(col *planner.Collection) (collectionsModel, tea.Cmd) {
	*c.formName = ""
	*c.formDescription = ""
	*c.formColor = planner.ColorBlue
	c.formType = "collection"
	if col != nil {
		*c.formName = col.Name
		*c.formDescription = col.Description
		*c.formColor = col.Color
		c.formType = "edit_collection"
	}

	c.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Collection Name").Value(c.formName).
				Validate(func(s string) error {
					_, err := validate.Title(s, "name")
					return err
				}),
			huh.NewText().Title("Description").Value(c.formDescription).
				Validate(func(s string) error {
					_, err := validate.OptionalText(s, "description")
					return err
				}),
			huh.NewSelect[planner.Color]().Title("Color").Options(colorOptions()...).Value(c.formColor),
		),
	).WithShowHelp(true).WithShowErrors(true)

	c.formActive = true
	return c, c.form.Init()
}

func (c collectionsModel) showTaskForm() (collectionsModel, tea.Cmd) {
	*c.formName = ""
	*c.formPriority = planner.PriorityNone
	*c.formTags = ""
	*c.formNotes = ""
	c.formType = "task"

	c.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Task").Value(c.formName).Validate(validTitle),
			huh.NewSelect[planner.Priority]().Title("Priority").Options(priorityOptions()...).Value(c.formPriority),
			huh.NewInput().Title("Tags (comma-separated)").Value(c.formTags).
				Validate(func(s string) error {
					_, err := validate.Tags(splitTags(s), "tags")
					return err
				}),
			huh.NewText().Title("Notes").Value(c.formNotes),
		),
	).WithShowHelp(true).WithShowErrors(true)

	c.formActive = true
	return c, c.form.Init()
}

func (c collectionsModel) updateForm(msg tea.Msg) (collectionsModel, tea.Cmd) {
	// Check for escape to cancel form
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			c.formActive = false
			c.form = nil
			return c, nil
		}
	}

	form, cmd := c.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		c.form = f
	}

	if c.form.State == huh.StateCompleted {
		c.formActive = false
		name, desc, color := *c.formName, *c.formDescription, *c.formColor
		col, ok := c.selected()

		switch c.formType {
		case "collection":
			return c, c.run(func() error {
				_, err := c.repo.CreateCollection(ctx(), name, desc, color)
				return err
			})
		case "edit_collection":
			if !ok {
				return c, nil
			}
			return c, c.run(func() error {
				_, err := c.repo.UpdateCollection(ctx(), col.ID, store.CollectionUpdate{
					Name: &name, Description: &desc, Color: &color,
				})
				return err
			})
		case "task":
			if !ok {
				return c, nil
			}
			priority, tags, notes := *c.formPriority, splitTags(*c.formTags), strings.TrimSpace(*c.formNotes)
			return c, c.run(func() error {
				_, err := c.repo.AddCollectionTask(ctx(), col.ID, name, priority, tags, notes)
				return err
			})
		}
	}

	return c, cmd
}

func (c collectionsModel) view() string {
	if c.formActive && c.form != nil {
		title := titleStyle.Render("New Collection")
		if c.formType == "edit_collection" {
			title = titleStyle.Render("Edit Collection")
		} else if c.formType == "task" {
			title = titleStyle.Render("New Task")
		}
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", c.form.View())
		return panelStyle.Width(c.width - 4).Render(content)
	}

	if c.viewingTasks {
		return c.renderTaskView()
	}
	return c.renderCollectionList()
}

func (c collectionsModel) renderCollectionList() string {
	w := c.width - 4
	title := titleStyle.Render("Collections")

	if len(c.collections) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No collections yet. Press n to create one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	// Table header
	header := mutedStyle.Render(fmt.Sprintf("  %-3s %-24s %-10s %s", "", "Name", "Progress", "Description"))
	rows = append(rows, header)

	for i, col := range c.collections {
		prefix, style := cursor(i == c.cursor)
		progress := fmt.Sprintf("%d/%d %3d%%", col.CompletedCount(), col.TotalCount(), col.CompletionPercentage())
		row := style.Render(prefix) + colorDot(col.Color) + style.Render(fmt.Sprintf(" %-24s %-10s ", col.Name, progress)) +
			mutedStyle.Render(col.Description)
		rows = append(rows, row)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  r: edit  d: delete  enter: tasks"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (c collectionsModel) renderTaskView() string {
	w := c.width - 4
	col := c.collections[c.cursor]
	title := titleStyle.Render(fmt.Sprintf("%s %s: Tasks", colorDot(col.Color), col.Name))

	if len(col.Tasks) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No tasks. Press n to add one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for i, task := range col.Tasks {
		prefix, style := cursor(i == c.taskCursor)
		line := style.Render(prefix) + checkbox(task.Completed) + style.Render(" "+task.Title)
		if mark := priorityMarks[task.Priority]; mark != "" {
			line += warningStyle.Render(" " + mark)
		}
		if len(task.Tags) > 0 {
			line += mutedStyle.Render(" [" + strings.Join(task.Tags, ", ") + "]")
		}
		rows = append(rows, line)
		if task.Notes != "" && i == c.taskCursor {
			rows = append(rows, subtitleStyle.Render("      "+task.Notes))
		}
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new task  space: toggle  d: delete  esc: back"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
