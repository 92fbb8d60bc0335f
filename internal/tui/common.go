package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/dayplan/internal/planner"
)

// viewState represents the currently active view.
type viewState int

const (
	viewCalendar viewState = iota
	viewDay
	viewCollections
	viewStats
	viewSettings
)

var viewNames = []string{"Calendar", "Day", "Collections", "Stats", "Settings"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type exportDoneMsg struct {
	path string
}

// openDayMsg asks the app to show the day view for a date.
type openDayMsg struct {
	date string
}

// --- Helpers ---

// ctx is used for repository calls made from commands. The TUI never
// cancels them.
func ctx() context.Context { return context.Background() }

func errStatus(prefix string, err error) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: fmt.Sprintf("%s: %v", prefix, err), isError: true}
	}
}

func cursor(selected bool) (string, lipgloss.Style) {
	if selected {
		return "> ", selectedItemStyle
	}
	return "  ", normalItemStyle
}

func checkbox(done bool) string {
	if done {
		return successStyle.Render("[x]")
	}
	return "[ ]"
}

func statusStyle(s planner.CompletionStatus) lipgloss.Style {
	switch s {
	case planner.StatusComplete:
		return completeStyle
	case planner.StatusPartial:
		return partialStyle
	case planner.StatusNone:
		return noneStyle
	}
	return emptyStyle
}

// splitTags parses a comma-separated tag list, dropping blanks.
func splitTags(s string) []string {
	tags := []string{}
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
