package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/sadopc/dayplan/internal/planner"
)

func (r *Repository) task(dayID, taskID string) (*planner.Day, *planner.Task, error) {
	d, err := r.day(dayID)
	if err != nil {
		return nil, nil, err
	}
	t := d.Task(taskID)
	if t == nil {
		return nil, nil, fmt.Errorf("task %s: %w", taskID, ErrNotFound)
	}
	return d, t, nil
}

// AddTask appends a task to the day and returns it.
func (r *Repository) AddTask(ctx context.Context, dayID, title string) (planner.Task, error) {
	if strings.TrimSpace(title) == "" {
		return planner.Task{}, ErrEmptyTitle
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	d, err := r.day(dayID)
	if err != nil {
		return planner.Task{}, err
	}
	t := d.AddTask(title, false)
	return t, r.save(ctx)
}

// ToggleTask flips completion of a task and returns the updated day.
func (r *Repository) ToggleTask(ctx context.Context, dayID, taskID string) (planner.Day, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, t, err := r.task(dayID, taskID)
	if err != nil {
		return planner.Day{}, err
	}
	t.Toggle()
	return d.Clone(), r.save(ctx)
}

func (r *Repository) EditTask(ctx context.Context, dayID, taskID, title string) (planner.Day, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return planner.Day{}, ErrEmptyTitle
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	d, t, err := r.task(dayID, taskID)
	if err != nil {
		return planner.Day{}, err
	}
	t.Title = title
	return d.Clone(), r.save(ctx)
}

func (r *Repository) DeleteTask(ctx context.Context, dayID, taskID string) (planner.Day, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, err := r.day(dayID)
	if err != nil {
		return planner.Day{}, err
	}
	if !d.RemoveTask(taskID) {
		return planner.Day{}, fmt.Errorf("task %s: %w", taskID, ErrNotFound)
	}
	return d.Clone(), r.save(ctx)
}

func (r *Repository) ToggleTaskExpand(ctx context.Context, dayID, taskID string) (planner.Day, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, t, err := r.task(dayID, taskID)
	if err != nil {
		return planner.Day{}, err
	}
	t.IsExpanded = !t.IsExpanded
	return d.Clone(), r.save(ctx)
}

// ============================================================
// Subtasks
// ============================================================

// AddSubtask appends a subtask and returns it with the updated parent task.
func (r *Repository) AddSubtask(ctx context.Context, dayID, taskID, title string) (planner.SubTask, planner.Task, error) {
	if strings.TrimSpace(title) == "" {
		return planner.SubTask{}, planner.Task{}, ErrEmptyTitle
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	_, t, err := r.task(dayID, taskID)
	if err != nil {
		return planner.SubTask{}, planner.Task{}, err
	}
	st := t.AddSubTask(title)
	return st, t.Clone(), r.save(ctx)
}

// ToggleSubtask flips a subtask and returns the updated parent task. The
// parent's own completion is left alone.
func (r *Repository) ToggleSubtask(ctx context.Context, dayID, taskID, subtaskID string) (planner.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, t, err := r.task(dayID, taskID)
	if err != nil {
		return planner.Task{}, err
	}
	st := t.SubTask(subtaskID)
	if st == nil {
		return planner.Task{}, fmt.Errorf("subtask %s: %w", subtaskID, ErrNotFound)
	}
	st.Toggle()
	return t.Clone(), r.save(ctx)
}

func (r *Repository) DeleteSubtask(ctx context.Context, dayID, taskID, subtaskID string) (planner.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, t, err := r.task(dayID, taskID)
	if err != nil {
		return planner.Task{}, err
	}
	if !t.RemoveSubTask(subtaskID) {
		return planner.Task{}, fmt.Errorf("subtask %s: %w", subtaskID, ErrNotFound)
	}
	return t.Clone(), r.save(ctx)
}
