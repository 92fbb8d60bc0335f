package planner

import "time"

// CollectionTask is a task inside a Collection. It has no subtasks.
type CollectionTask struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Completed   bool       `json:"completed"`
	CreatedAt   Timestamp  `json:"created_at"`
	CompletedAt *Timestamp `json:"completed_at"`
	Priority    Priority   `json:"priority"`
	Tags        []string   `json:"tags"`
	Notes       string     `json:"notes"`
}

func NewCollectionTask(title string, priority Priority, tags []string, notes string) CollectionTask {
	if priority == "" {
		priority = PriorityNone
	}
	if tags == nil {
		tags = []string{}
	}
	return CollectionTask{
		ID:        newID(),
		Title:     clean(title),
		CreatedAt: Now(),
		Priority:  priority,
		Tags:      tags,
		Notes:     notes,
	}
}

func (t *CollectionTask) Toggle() {
	t.Completed = !t.Completed
	if t.Completed {
		t.CompletedAt = &Timestamp{Time: time.Now()}
	} else {
		t.CompletedAt = nil
	}
}

func (t CollectionTask) Clone() CollectionTask {
	c := t
	if t.CompletedAt != nil {
		at := *t.CompletedAt
		c.CompletedAt = &at
	}
	c.Tags = append([]string{}, t.Tags...)
	return c
}

// Collection is a named, date-independent group of tasks.
type Collection struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	CreatedAt   Timestamp        `json:"created_at"`
	Color       Color            `json:"color"`
	Tasks       []CollectionTask `json:"tasks"`
}

func NewCollection(name, description string, color Color) Collection {
	if color == "" {
		color = ColorBlue
	}
	return Collection{
		ID:          newID(),
		Name:        clean(name),
		Description: clean(description),
		CreatedAt:   Now(),
		Color:       color,
		Tasks:       []CollectionTask{},
	}
}

func (c *Collection) AddTask(title string, priority Priority, tags []string, notes string) CollectionTask {
	t := NewCollectionTask(title, priority, tags, notes)
	c.Tasks = append(c.Tasks, t)
	return t
}

func (c *Collection) Task(id string) *CollectionTask {
	for i := range c.Tasks {
		if c.Tasks[i].ID == id {
			return &c.Tasks[i]
		}
	}
	return nil
}

func (c *Collection) RemoveTask(id string) bool {
	for i := range c.Tasks {
		if c.Tasks[i].ID == id {
			c.Tasks = append(c.Tasks[:i], c.Tasks[i+1:]...)
			return true
		}
	}
	return false
}

func (c Collection) CompletedCount() int {
	n := 0
	for _, t := range c.Tasks {
		if t.Completed {
			n++
		}
	}
	return n
}

func (c Collection) TotalCount() int {
	return len(c.Tasks)
}

// CompletionPercentage truncates rather than rounds.
func (c Collection) CompletionPercentage() int {
	if len(c.Tasks) == 0 {
		return 0
	}
	return c.CompletedCount() * 100 / len(c.Tasks)
}

// Clone returns a deep copy of c.
func (c Collection) Clone() Collection {
	cp := c
	cp.Tasks = make([]CollectionTask, len(c.Tasks))
	for i, t := range c.Tasks {
		cp.Tasks[i] = t.Clone()
	}
	return cp
}
