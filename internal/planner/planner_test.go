package planner

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func dayWith(statuses ...bool) Day {
	d := NewDay(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), nil)
	for _, done := range statuses {
		t := d.AddTask("task", false)
		if done {
			d.Task(t.ID).Toggle()
		}
	}
	return d
}

// ============================================================
// Completion status and percentage
// ============================================================

func TestStatusFromCounts(t *testing.T) {
	tests := []struct {
		total, done int
		want        CompletionStatus
	}{
		{0, 0, StatusEmpty},
		{3, 0, StatusNone},
		{3, 1, StatusPartial},
		{3, 3, StatusComplete},
	}
	for _, tt := range tests {
		if got := StatusFromCounts(tt.total, tt.done); got != tt.want {
			t.Errorf("StatusFromCounts(%d, %d) = %v, want %v", tt.total, tt.done, got, tt.want)
		}
	}
}

func TestCompletionStatusText(t *testing.T) {
	data, err := json.Marshal(map[string]CompletionStatus{"s": StatusPartial})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"s":"partial"}` {
		t.Fatalf("got %s", data)
	}
}

func TestDayEmpty(t *testing.T) {
	d := dayWith()
	if d.CompletionStatus() != StatusEmpty {
		t.Fatalf("status = %v, want empty", d.CompletionStatus())
	}
	if d.CompletionPercentage() != 0 {
		t.Fatalf("percentage = %d, want 0", d.CompletionPercentage())
	}
}

func TestDayPercentageRounds(t *testing.T) {
	d := dayWith(true, true, false)
	if got := d.CompletionPercentage(); got != 67 {
		t.Fatalf("percentage = %d, want 67", got)
	}
	if d.CompletionStatus() != StatusPartial {
		t.Fatalf("status = %v, want partial", d.CompletionStatus())
	}
	if d.CompletedCount() != 2 || d.TotalCount() != 3 {
		t.Fatalf("counts = %d/%d", d.CompletedCount(), d.TotalCount())
	}
}

func TestPercentageHalfEven(t *testing.T) {
	// 1/8 = 12.5 rounds to the even neighbour.
	if got := Percentage(8, 1); got != 12 {
		t.Fatalf("Percentage(8, 1) = %d, want 12", got)
	}
	if got := Percentage(8, 3); got != 38 {
		t.Fatalf("Percentage(8, 3) = %d, want 38", got)
	}
}

func TestNewDaySeedsDefaults(t *testing.T) {
	d := NewDay(time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), DefaultTasks)
	if d.Date != "2024-01-05" {
		t.Fatalf("date = %q", d.Date)
	}
	if len(d.Tasks) != len(DefaultTasks) {
		t.Fatalf("tasks = %d, want %d", len(d.Tasks), len(DefaultTasks))
	}
	for _, task := range d.Tasks {
		if !task.IsDefault {
			t.Fatalf("task %q should be default", task.Title)
		}
	}
	if d.ID == "" || !d.IsExpanded {
		t.Fatalf("unexpected day: %+v", d)
	}
}

// ============================================================
// Task cascade
// ============================================================

func TestToggleCascadesToSubtasks(t *testing.T) {
	task := NewTask("  write report ", false)
	if task.Title != "write report" {
		t.Fatalf("title not trimmed: %q", task.Title)
	}
	task.AddSubTask("outline")
	task.AddSubTask("draft")

	task.Toggle()
	if !task.Completed || task.CompletedAt == nil {
		t.Fatal("task should be completed with completed_at")
	}
	for _, st := range task.Subtasks {
		if !st.Completed {
			t.Fatalf("subtask %q should be completed", st.Title)
		}
	}

	task.Toggle()
	if task.Completed || task.CompletedAt != nil {
		t.Fatal("task should be incomplete without completed_at")
	}
	for _, st := range task.Subtasks {
		if !st.Completed {
			t.Fatalf("un-completing must not touch subtask %q", st.Title)
		}
	}
}

func TestSubtaskToggleDoesNotUncompleteTask(t *testing.T) {
	task := NewTask("t", false)
	st := task.AddSubTask("s")
	task.Toggle()

	task.SubTask(st.ID).Toggle()
	if !task.Completed {
		t.Fatal("task should stay completed")
	}
	if task.Status() != StatusComplete {
		t.Fatalf("status = %v, want complete", task.Status())
	}
	if done, total := task.SubtaskProgress(); done != 0 || total != 1 {
		t.Fatalf("progress = %d/%d", done, total)
	}
}

func TestTaskStatusFromSubtasks(t *testing.T) {
	task := NewTask("t", false)
	if task.Status() != StatusNone {
		t.Fatalf("no subtasks: %v", task.Status())
	}
	a := task.AddSubTask("a")
	task.AddSubTask("b")
	if task.Status() != StatusNone {
		t.Fatalf("none done: %v", task.Status())
	}
	task.SubTask(a.ID).Toggle()
	if task.Status() != StatusPartial {
		t.Fatalf("one done: %v", task.Status())
	}
	for i := range task.Subtasks {
		task.Subtasks[i].Completed = true
	}
	if task.Status() != StatusComplete {
		t.Fatalf("all done: %v", task.Status())
	}
	if task.Completed {
		t.Fatal("subtasks must not complete the task")
	}
}

func TestRemoveTaskAndSubtask(t *testing.T) {
	d := dayWith(false, false)
	id := d.Tasks[0].ID
	st := d.Task(id).AddSubTask("x")

	if !d.Task(id).RemoveSubTask(st.ID) {
		t.Fatal("remove subtask failed")
	}
	if d.Task(id).RemoveSubTask(st.ID) {
		t.Fatal("second remove should report false")
	}
	if !d.RemoveTask(id) || d.Task(id) != nil {
		t.Fatal("remove task failed")
	}
	if d.RemoveTask("missing") {
		t.Fatal("missing task should report false")
	}
}

func TestDayCloneIsDeep(t *testing.T) {
	d := dayWith(false)
	d.Tasks[0].AddSubTask("s")
	c := d.Clone()
	c.Tasks[0].Toggle()
	if d.Tasks[0].Completed || d.Tasks[0].Subtasks[0].Completed {
		t.Fatal("clone shares state with original")
	}
}

// ============================================================
// Collections
// ============================================================

func TestCollectionDefaultsAndPercentage(t *testing.T) {
	c := NewCollection(" Reading ", "", "")
	if c.Name != "Reading" || c.Color != ColorBlue {
		t.Fatalf("unexpected collection: %+v", c)
	}
	a := c.AddTask("a", "", nil, "")
	c.AddTask("b", PriorityHigh, []string{"x"}, "n")
	c.AddTask("c", PriorityLow, nil, "")
	if a.Priority != PriorityNone || a.Tags == nil {
		t.Fatalf("task defaults not applied: %+v", a)
	}

	c.Task(a.ID).Toggle()
	// 1/3 truncates to 33.
	if got := c.CompletionPercentage(); got != 33 {
		t.Fatalf("percentage = %d, want 33", got)
	}
	if c.Task(a.ID).CompletedAt == nil {
		t.Fatal("completed_at should be set")
	}
	c.Task(a.ID).Toggle()
	if c.Task(a.ID).CompletedAt != nil {
		t.Fatal("completed_at should be cleared")
	}
}

func TestEnums(t *testing.T) {
	if !PriorityMedium.Valid() || Priority("urgent").Valid() {
		t.Fatal("priority validity wrong")
	}
	if !ColorPink.Valid() || Color("orange").Valid() {
		t.Fatal("color validity wrong")
	}
}

// ============================================================
// JSON codec
// ============================================================

func TestDecodeTaskDefaults(t *testing.T) {
	var task Task
	err := json.Unmarshal([]byte(`{"id":"t1","title":"Run","created_at":"2024-01-01T08:30:00.123456"}`), &task)
	if err != nil {
		t.Fatal(err)
	}
	if !task.IsExpanded {
		t.Fatal("is_expanded should default to true")
	}
	if task.Subtasks == nil {
		t.Fatal("subtasks should default to empty")
	}
	if task.CreatedAt.Hour() != 8 || task.CreatedAt.Minute() != 30 {
		t.Fatalf("created_at = %v", task.CreatedAt)
	}
}

func TestDecodeRejectsUnknownField(t *testing.T) {
	var d Day
	err := json.Unmarshal([]byte(`{"id":"d","date":"2024-01-01","tasks":[],"mood":"good"}`), &d)
	if err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestDecodeRequiresID(t *testing.T) {
	var task Task
	err := json.Unmarshal([]byte(`{"title":"x"}`), &task)
	if err == nil || !strings.Contains(err.Error(), `"id"`) {
		t.Fatalf("expected missing id error, got %v", err)
	}
}

func TestDecodeRejectsBadDate(t *testing.T) {
	var d Day
	if err := json.Unmarshal([]byte(`{"id":"d","date":"01/02/2024"}`), &d); err == nil {
		t.Fatal("expected error for bad date")
	}
}

func TestCollectionRoundTrip(t *testing.T) {
	c := NewCollection("Books", "to read", ColorGreen)
	c.AddTask("Dune", PriorityHigh, []string{"scifi"}, "library")
	c.Tasks[0].Toggle()

	data, err := json.Marshal(c)
	if err != nil {
		t.Fatal(err)
	}
	var got Collection
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got.Name != "Books" || got.Color != ColorGreen || len(got.Tasks) != 1 {
		t.Fatalf("unexpected collection: %+v", got)
	}
	task := got.Tasks[0]
	if !task.Completed || task.CompletedAt == nil || task.Tags[0] != "scifi" {
		t.Fatalf("unexpected task: %+v", task)
	}
	if !task.CreatedAt.Equal(c.Tasks[0].CreatedAt.Time) {
		t.Fatalf("created_at changed: %v vs %v", task.CreatedAt, c.Tasks[0].CreatedAt)
	}
}

func TestDecodeCollectionDefaults(t *testing.T) {
	var c Collection
	if err := json.Unmarshal([]byte(`{"id":"c","name":"Inbox","tasks":[{"id":"t","title":"x"}]}`), &c); err != nil {
		t.Fatal(err)
	}
	if c.Color != ColorBlue || c.Tasks[0].Priority != PriorityNone || c.Tasks[0].Tags == nil {
		t.Fatalf("defaults not applied: %+v", c)
	}
}
