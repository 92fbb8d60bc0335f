package planner

import "time"

type SubTask struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

func NewSubTask(title string) SubTask {
	return SubTask{ID: newID(), Title: clean(title)}
}

func (s *SubTask) Toggle() {
	s.Completed = !s.Completed
}

// Task is a unit of work on a Day. CompletedAt is set iff Completed.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Completed   bool       `json:"completed"`
	CreatedAt   Timestamp  `json:"created_at"`
	CompletedAt *Timestamp `json:"completed_at"`
	IsDefault   bool       `json:"is_default"`
	IsExpanded  bool       `json:"is_expanded"`
	Subtasks    []SubTask  `json:"subtasks"`
}

// NewTask creates an expanded, incomplete task with a fresh id.
func NewTask(title string, isDefault bool) Task {
	return Task{
		ID:         newID(),
		Title:      clean(title),
		CreatedAt:  Now(),
		IsDefault:  isDefault,
		IsExpanded: true,
		Subtasks:   []SubTask{},
	}
}

// Toggle flips completion. Completing a task completes every subtask;
// un-completing leaves subtasks as they are.
func (t *Task) Toggle() {
	t.setCompleted(!t.Completed, time.Now())
}

func (t *Task) setCompleted(done bool, at time.Time) {
	t.Completed = done
	if !done {
		t.CompletedAt = nil
		return
	}
	t.CompletedAt = &Timestamp{Time: at}
	for i := range t.Subtasks {
		t.Subtasks[i].Completed = true
	}
}

func (t *Task) AddSubTask(title string) SubTask {
	st := NewSubTask(title)
	t.Subtasks = append(t.Subtasks, st)
	return st
}

// SubTask returns the subtask with the given id, or nil.
func (t *Task) SubTask(id string) *SubTask {
	for i := range t.Subtasks {
		if t.Subtasks[i].ID == id {
			return &t.Subtasks[i]
		}
	}
	return nil
}

func (t *Task) RemoveSubTask(id string) bool {
	for i := range t.Subtasks {
		if t.Subtasks[i].ID == id {
			t.Subtasks = append(t.Subtasks[:i], t.Subtasks[i+1:]...)
			return true
		}
	}
	return false
}

// SubtaskProgress returns (completed, total) subtask counts.
func (t Task) SubtaskProgress() (int, int) {
	done := 0
	for _, st := range t.Subtasks {
		if st.Completed {
			done++
		}
	}
	return done, len(t.Subtasks)
}

// Status reports the task's display status. A completed task is always
// complete; otherwise the subtask ratio decides.
func (t Task) Status() CompletionStatus {
	if t.Completed {
		return StatusComplete
	}
	done, total := t.SubtaskProgress()
	if total == 0 {
		return StatusNone
	}
	return StatusFromCounts(total, done)
}

// Clone returns a deep copy of t.
func (t Task) Clone() Task {
	c := t
	if t.CompletedAt != nil {
		at := *t.CompletedAt
		c.CompletedAt = &at
	}
	c.Subtasks = append([]SubTask{}, t.Subtasks...)
	return c
}
