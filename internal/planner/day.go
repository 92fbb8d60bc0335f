package planner

import "time"

// DateLayout is the ISO form of Day.Date. Lexicographic order of dates in
// this layout equals chronological order.
const DateLayout = "2006-01-02"

// Day is a calendar-dated container of tasks.
type Day struct {
	ID         string `json:"id"`
	Date       string `json:"date"`
	Tasks      []Task `json:"tasks"`
	IsExpanded bool   `json:"is_expanded"`
}

// NewDay creates a day for date, seeding one default task per entry in
// defaults.
func NewDay(date time.Time, defaults []string) Day {
	d := Day{
		ID:         newID(),
		Date:       date.Format(DateLayout),
		Tasks:      []Task{},
		IsExpanded: true,
	}
	for _, title := range defaults {
		d.Tasks = append(d.Tasks, NewTask(title, true))
	}
	return d
}

// Time parses Date as midnight UTC.
func (d Day) Time() (time.Time, error) {
	return time.Parse(DateLayout, d.Date)
}

func (d Day) CompletedCount() int {
	n := 0
	for _, t := range d.Tasks {
		if t.Completed {
			n++
		}
	}
	return n
}

func (d Day) TotalCount() int {
	return len(d.Tasks)
}

func (d Day) CompletionStatus() CompletionStatus {
	return StatusFromCounts(d.TotalCount(), d.CompletedCount())
}

func (d Day) CompletionPercentage() int {
	return Percentage(d.TotalCount(), d.CompletedCount())
}

func (d *Day) AddTask(title string, isDefault bool) Task {
	t := NewTask(title, isDefault)
	d.Tasks = append(d.Tasks, t)
	return t
}

// Task returns the task with the given id, or nil.
func (d *Day) Task(id string) *Task {
	for i := range d.Tasks {
		if d.Tasks[i].ID == id {
			return &d.Tasks[i]
		}
	}
	return nil
}

func (d *Day) RemoveTask(id string) bool {
	for i := range d.Tasks {
		if d.Tasks[i].ID == id {
			d.Tasks = append(d.Tasks[:i], d.Tasks[i+1:]...)
			return true
		}
	}
	return false
}

// Clone returns a deep copy of d.
func (d Day) Clone() Day {
	c := d
	c.Tasks = make([]Task, len(d.Tasks))
	for i, t := range d.Tasks {
		c.Tasks[i] = t.Clone()
	}
	return c
}
