package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/dayplan/internal/config"
	"github.com/sadopc/dayplan/internal/validate"
)

type settingsModel struct {
	cfg    *config.Config
	path   string
	width  int
	height int

	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	env          *string
	addr         *string
	readTimeout  *string
	writeTimeout *string
	backend      *string
	dataPath     *string
	logLevel     *string
	defaultTasks *string
}

func newSettingsModel(cfg *config.Config, path string) settingsModel {
	env, addr, rt, wt := "", "", "", ""
	backend, dataPath, level, tasks := "", "", "", ""
	return settingsModel{
		cfg:          cfg,
		path:         path,
		env:          &env,
		addr:         &addr,
		readTimeout:  &rt,
		writeTimeout: &wt,
		backend:      &backend,
		dataPath:     &dataPath,
		logLevel:     &level,
		defaultTasks: &tasks,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsSavedMsg struct {
	cfg config.Config
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsSavedMsg:
		*s.cfg = msg.cfg
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.New):
			return s.showForm()
		}
	}
	return s, nil
}

func validDuration(v string) error {
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil || d <= 0 {
		return fmt.Errorf("enter a positive duration such as 15s")
	}
	return nil
}

func validTasks(v string) error {
	for _, t := range splitTags(v) {
		if _, err := validate.Title(t, "task"); err != nil {
			return err
		}
	}
	return nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	// Load current values
	*s.env = s.cfg.Env
	*s.addr = s.cfg.Server.Addr
	*s.readTimeout = s.cfg.Server.ReadTimeout.String()
	*s.writeTimeout = s.cfg.Server.WriteTimeout.String()
	*s.backend = s.cfg.Storage.Backend
	*s.dataPath = s.cfg.Storage.Path
	*s.logLevel = s.cfg.Log.Level
	*s.defaultTasks = strings.Join(s.cfg.Planner.DefaultTasks, ", ")

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Environment").
				Options(
					huh.NewOption("Development", config.EnvDevelopment),
					huh.NewOption("Testing", config.EnvTesting),
					huh.NewOption("Production", config.EnvProduction),
				).Value(s.env),
			huh.NewInput().Title("Listen address").Value(s.addr).
				Validate(func(v string) error {
					if strings.TrimSpace(v) == "" {
						return fmt.Errorf("address is required")
					}
					return nil
				}),
			huh.NewInput().Title("Read timeout").Value(s.readTimeout).Validate(validDuration),
			huh.NewInput().Title("Write timeout").Value(s.writeTimeout).Validate(validDuration),
		).Title("Server"),
		huh.NewGroup(
			huh.NewSelect[string]().Title("Storage backend").
				Options(
					huh.NewOption("JSON file", config.BackendJSON),
					huh.NewOption("SQLite", config.BackendSQLite),
				).Value(s.backend),
			huh.NewInput().Title("Data path").Value(s.dataPath),
			huh.NewSelect[string]().Title("Log level").
				Options(
					huh.NewOption("Debug", "debug"),
					huh.NewOption("Info", "info"),
					huh.NewOption("Warn", "warn"),
					huh.NewOption("Error", "error"),
				).Value(s.logLevel),
			huh.NewInput().Title("Default tasks (comma-separated)").Value(s.defaultTasks).Validate(validTasks),
		).Title("General"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		return s, s.save(s.formConfig())
	}

	return s, cmd
}

// formConfig copies the current config with the form values applied.
func (s settingsModel) formConfig() config.Config {
	next := *s.cfg
	next.Env = *s.env
	next.Server.Addr = strings.TrimSpace(*s.addr)
	if d, err := time.ParseDuration(strings.TrimSpace(*s.readTimeout)); err == nil {
		next.Server.ReadTimeout = d
	}
	if d, err := time.ParseDuration(strings.TrimSpace(*s.writeTimeout)); err == nil {
		next.Server.WriteTimeout = d
	}
	next.Storage.Backend = *s.backend
	// A blank path picks the backend's default file name on next load.
	next.Storage.Path = strings.TrimSpace(*s.dataPath)
	next.Log.Level = *s.logLevel
	next.Planner.DefaultTasks = splitTags(*s.defaultTasks)
	return next
}

func (s settingsModel) save(next config.Config) tea.Cmd {
	path := s.path
	return func() tea.Msg {
		if err := config.Save(path, &next); err != nil {
			return statusMsg{text: fmt.Sprintf("Settings error: %v", err), isError: true}
		}
		return settingsSavedMsg{cfg: next}
	}
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		title := titleStyle.Render("Settings")
		formView := s.form.View()
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", formView),
		)
	}

	title := titleStyle.Render("Settings")
	hint := mutedStyle.Render("Press enter to edit settings. Changes apply on restart.")

	var rows []string
	rows = append(rows, title)
	rows = append(rows, mutedStyle.Render(s.path))
	rows = append(rows, "")

	for _, setting := range s.entries() {
		label := lipgloss.NewStyle().Width(24).Render(setting[0])
		value := highlightStyle.Render(setting[1])
		rows = append(rows, fmt.Sprintf("  %s %s", label, value))
	}

	rows = append(rows, "")
	rows = append(rows, hint)

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (s settingsModel) entries() [][2]string {
	c := s.cfg
	return [][2]string{
		{"env", c.Env},
		{"server.addr", c.Server.Addr},
		{"server.read_timeout", c.Server.ReadTimeout.String()},
		{"server.write_timeout", c.Server.WriteTimeout.String()},
		{"storage.backend", c.Storage.Backend},
		{"storage.path", c.Storage.Path},
		{"log.level", c.Log.Level},
		{"log.file", c.Log.File},
		{"planner.default_tasks", strings.Join(c.Planner.DefaultTasks, ", ")},
	}
}
