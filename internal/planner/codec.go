package planner

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// The wire structs below decode snapshot records strictly: unknown keys are
// rejected, required keys must be present and optional keys fall back to
// their defaults.

func decodeStrict(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func required(kind, field string, v *string) (string, error) {
	if v == nil {
		return "", fmt.Errorf("%s: missing %q", kind, field)
	}
	return *v, nil
}

type subTaskWire struct {
	ID        *string `json:"id"`
	Title     *string `json:"title"`
	Completed bool    `json:"completed"`
}

func (s *SubTask) UnmarshalJSON(data []byte) error {
	var w subTaskWire
	if err := decodeStrict(data, &w); err != nil {
		return fmt.Errorf("subtask: %w", err)
	}
	var err error
	out := SubTask{Completed: w.Completed}
	if out.ID, err = required("subtask", "id", w.ID); err != nil {
		return err
	}
	if out.Title, err = required("subtask", "title", w.Title); err != nil {
		return err
	}
	*s = out
	return nil
}

type taskWire struct {
	ID          *string    `json:"id"`
	Title       *string    `json:"title"`
	Completed   bool       `json:"completed"`
	CreatedAt   *Timestamp `json:"created_at"`
	CompletedAt *Timestamp `json:"completed_at"`
	IsDefault   bool       `json:"is_default"`
	IsExpanded  *bool      `json:"is_expanded"`
	Subtasks    []SubTask  `json:"subtasks"`
}

func (t *Task) UnmarshalJSON(data []byte) error {
	var w taskWire
	if err := decodeStrict(data, &w); err != nil {
		return fmt.Errorf("task: %w", err)
	}
	out := Task{
		Completed:   w.Completed,
		CompletedAt: w.CompletedAt,
		IsDefault:   w.IsDefault,
		IsExpanded:  true,
		Subtasks:    w.Subtasks,
	}
	var err error
	if out.ID, err = required("task", "id", w.ID); err != nil {
		return err
	}
	if out.Title, err = required("task", "title", w.Title); err != nil {
		return err
	}
	out.CreatedAt = Now()
	if w.CreatedAt != nil {
		out.CreatedAt = *w.CreatedAt
	}
	if w.IsExpanded != nil {
		out.IsExpanded = *w.IsExpanded
	}
	if out.Subtasks == nil {
		out.Subtasks = []SubTask{}
	}
	*t = out
	return nil
}

type dayWire struct {
	ID         *string `json:"id"`
	Date       *string `json:"date"`
	Tasks      []Task  `json:"tasks"`
	IsExpanded *bool   `json:"is_expanded"`
}

var errBadDate = errors.New("date must be YYYY-MM-DD")

func (d *Day) UnmarshalJSON(data []byte) error {
	var w dayWire
	if err := decodeStrict(data, &w); err != nil {
		return fmt.Errorf("day: %w", err)
	}
	out := Day{Tasks: w.Tasks, IsExpanded: true}
	var err error
	if out.ID, err = required("day", "id", w.ID); err != nil {
		return err
	}
	if out.Date, err = required("day", "date", w.Date); err != nil {
		return err
	}
	if _, err := out.Time(); err != nil {
		return fmt.Errorf("day %s: %w", out.ID, errBadDate)
	}
	if w.IsExpanded != nil {
		out.IsExpanded = *w.IsExpanded
	}
	if out.Tasks == nil {
		out.Tasks = []Task{}
	}
	*d = out
	return nil
}

type collectionTaskWire struct {
	ID          *string    `json:"id"`
	Title       *string    `json:"title"`
	Completed   bool       `json:"completed"`
	CreatedAt   *Timestamp `json:"created_at"`
	CompletedAt *Timestamp `json:"completed_at"`
	Priority    Priority   `json:"priority"`
	Tags        []string   `json:"tags"`
	Notes       string     `json:"notes"`
}

func (t *CollectionTask) UnmarshalJSON(data []byte) error {
	var w collectionTaskWire
	if err := decodeStrict(data, &w); err != nil {
		return fmt.Errorf("collection task: %w", err)
	}
	out := CollectionTask{
		Completed:   w.Completed,
		CompletedAt: w.CompletedAt,
		Priority:    w.Priority,
		Tags:        w.Tags,
		Notes:       w.Notes,
	}
	var err error
	if out.ID, err = required("collection task", "id", w.ID); err != nil {
		return err
	}
	if out.Title, err = required("collection task", "title", w.Title); err != nil {
		return err
	}
	out.CreatedAt = Now()
	if w.CreatedAt != nil {
		out.CreatedAt = *w.CreatedAt
	}
	if out.Priority == "" {
		out.Priority = PriorityNone
	}
	if out.Tags == nil {
		out.Tags = []string{}
	}
	*t = out
	return nil
}

type collectionWire struct {
	ID          *string          `json:"id"`
	Name        *string          `json:"name"`
	Description string           `json:"description"`
	CreatedAt   *Timestamp       `json:"created_at"`
	Color       Color            `json:"color"`
	Tasks       []CollectionTask `json:"tasks"`
}

func (c *Collection) UnmarshalJSON(data []byte) error {
	var w collectionWire
	if err := decodeStrict(data, &w); err != nil {
		return fmt.Errorf("collection: %w", err)
	}
	out := Collection{
		Description: w.Description,
		Color:       w.Color,
		Tasks:       w.Tasks,
	}
	var err error
	if out.ID, err = required("collection", "id", w.ID); err != nil {
		return err
	}
	if out.Name, err = required("collection", "name", w.Name); err != nil {
		return err
	}
	out.CreatedAt = Now()
	if w.CreatedAt != nil {
		out.CreatedAt = *w.CreatedAt
	}
	if out.Color == "" {
		out.Color = ColorBlue
	}
	if out.Tasks == nil {
		out.Tasks = []CollectionTask{}
	}
	*c = out
	return nil
}
