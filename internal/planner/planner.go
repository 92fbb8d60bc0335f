// Package planner holds the day planner's entities and their derived
// completion properties.
package planner

import (
	"math"
	"strings"

	"github.com/google/uuid"
)

// DefaultTasks are seeded onto every newly created day unless the caller
// supplies its own list.
var DefaultTasks = []string{
	"🧹 Clean-up",
	"📚 Classwork",
	"💪 Work-out",
}

// CompletionStatus classifies a set of tasks by how many are done. It is
// always computed from counts and never stored.
type CompletionStatus int

const (
	StatusEmpty CompletionStatus = iota // no tasks
	StatusNone                          // tasks, none completed
	StatusPartial                       // some completed
	StatusComplete                      // all completed
)

var statusNames = [...]string{"empty", "none", "partial", "complete"}

func (s CompletionStatus) String() string {
	if s < StatusEmpty || s > StatusComplete {
		return "unknown"
	}
	return statusNames[s]
}

func (s CompletionStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// StatusFromCounts derives the status of total tasks of which completed are done.
func StatusFromCounts(total, completed int) CompletionStatus {
	switch {
	case total == 0:
		return StatusEmpty
	case completed == 0:
		return StatusNone
	case completed >= total:
		return StatusComplete
	default:
		return StatusPartial
	}
}

// Percentage returns 100*completed/total rounded half to even, or 0 when
// there is nothing to count.
func Percentage(total, completed int) int {
	if total == 0 {
		return 0
	}
	return int(math.RoundToEven(float64(completed) / float64(total) * 100))
}

// Priority of a collection task.
type Priority string

const (
	PriorityNone   Priority = "none"
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

var Priorities = []Priority{PriorityNone, PriorityLow, PriorityMedium, PriorityHigh}

func (p Priority) Valid() bool {
	for _, v := range Priorities {
		if p == v {
			return true
		}
	}
	return false
}

// Color is the visual tag of a collection.
type Color string

const (
	ColorBlue   Color = "blue"
	ColorRed    Color = "red"
	ColorGreen  Color = "green"
	ColorYellow Color = "yellow"
	ColorPurple Color = "purple"
	ColorPink   Color = "pink"
)

var Colors = []Color{ColorBlue, ColorRed, ColorGreen, ColorYellow, ColorPurple, ColorPink}

func (c Color) Valid() bool {
	for _, v := range Colors {
		if c == v {
			return true
		}
	}
	return false
}

func newID() string {
	return uuid.New().String()
}

func clean(s string) string {
	return strings.TrimSpace(s)
}
