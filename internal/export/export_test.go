package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sadopc/dayplan/internal/planner"
)

func sampleDays() []planner.Day {
	older := planner.NewDay(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), nil)
	older.AddTask("Run", false)

	newer := planner.NewDay(time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), []string{"Clean-up"})
	done := newer.AddTask("Write report", false)
	newer.Task(done.ID).Toggle()

	// Deliberately oldest first.
	return []planner.Day{older, newer}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	return records
}

// ============================================================
// CSV
// ============================================================

func TestToCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.csv")

	if err := ToCSV(sampleDays(), path); err != nil {
		t.Fatalf("ToCSV: %v", err)
	}
	records := readCSV(t, path)

	// header + 3 task rows
	if len(records) != 4 {
		t.Fatalf("expected 4 rows (1 header + 3 data), got %d", len(records))
	}

	expectedHeader := []string{"Date", "Task", "Completed", "Is Default", "Created At", "Completed At"}
	for i, h := range expectedHeader {
		if records[0][i] != h {
			t.Fatalf("header[%d] = %q, want %q", i, records[0][i], h)
		}
	}

	// Newest day first, tasks in day order.
	first := records[1]
	if first[0] != "2024-03-02" || first[1] != "Clean-up" {
		t.Fatalf("first row = %v", first)
	}
	if first[2] != "No" || first[3] != "Yes" || first[5] != "" {
		t.Fatalf("default task row = %v", first)
	}

	second := records[2]
	if second[1] != "Write report" || second[2] != "Yes" || second[3] != "No" {
		t.Fatalf("completed task row = %v", second)
	}
	if _, err := time.Parse(time.RFC3339Nano, second[5]); err != nil {
		t.Fatalf("completed at is not RFC 3339: %q", second[5])
	}
	if _, err := time.Parse(time.RFC3339Nano, second[4]); err != nil {
		t.Fatalf("created at is not RFC 3339: %q", second[4])
	}

	if records[3][0] != "2024-03-01" {
		t.Fatalf("last row date = %q", records[3][0])
	}
}

func TestToCSVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")

	if err := ToCSV(nil, path); err != nil {
		t.Fatal(err)
	}
	if records := readCSV(t, path); len(records) != 1 {
		t.Fatalf("expected 1 row (header only), got %d", len(records))
	}
}

func TestToCSVBadPath(t *testing.T) {
	err := ToCSV(nil, "/nonexistent/dir/file.csv")
	if err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestWriteCSVSpecialCharacters(t *testing.T) {
	d := planner.NewDay(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), nil)
	d.AddTask(`call "Bob", then Alice`, false)

	var buf bytes.Buffer
	if err := WriteCSV(&buf, []planner.Day{d}); err != nil {
		t.Fatal(err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("CSV should be valid even with special chars: %v", err)
	}
	if records[1][1] != `call "Bob", then Alice` {
		t.Fatalf("title mangled: %q", records[1][1])
	}
}

func TestWriteCSVDoesNotReorderInput(t *testing.T) {
	days := sampleDays()
	var buf bytes.Buffer
	if err := WriteCSV(&buf, days); err != nil {
		t.Fatal(err)
	}
	if days[0].Date != "2024-03-01" {
		t.Fatal("input slice was reordered")
	}
}

// ============================================================
// JSON
// ============================================================

func TestToJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.json")

	if err := ToJSON(sampleDays(), path); err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var result jsonExport
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if len(result.Days) != 2 {
		t.Fatalf("days = %d, want 2", len(result.Days))
	}
	if result.Days[0].Date != "2024-03-02" {
		t.Fatalf("days not newest first: %q", result.Days[0].Date)
	}
	if result.Statistics.TotalDays != 2 || result.Statistics.TotalTasks != 3 || result.Statistics.CompletedTasks != 1 {
		t.Fatalf("unexpected statistics: %+v", result.Statistics)
	}
	if _, err := time.Parse(time.RFC3339Nano, result.ExportedAt); err != nil {
		t.Fatalf("exported_at is not valid RFC 3339: %q", result.ExportedAt)
	}
}

func TestWriteJSONShape(t *testing.T) {
	var buf bytes.Buffer
	at := time.Date(2024, 3, 3, 12, 0, 0, 0, time.UTC)
	if err := WriteJSON(&buf, sampleDays(), at); err != nil {
		t.Fatal(err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(buf.Bytes(), &raw); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"days", "statistics", "exported_at"} {
		if _, ok := raw[key]; !ok {
			t.Fatalf("missing key %q", key)
		}
	}
	if !strings.Contains(string(raw["statistics"]), `"completion_rate"`) {
		t.Fatal("statistics should carry completion_rate")
	}
	if string(raw["exported_at"]) != `"2024-03-03T12:00:00Z"` {
		t.Fatalf("exported_at = %s", raw["exported_at"])
	}
}

func TestToJSONEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")

	if err := ToJSON(nil, path); err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), `"days": []`) {
		t.Fatalf("empty export should carry an empty days list: %s", data)
	}
}

func TestToJSONBadPath(t *testing.T) {
	err := ToJSON(nil, "/nonexistent/dir/file.json")
	if err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestToJSONPrettyPrinted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pretty.json")
	ToJSON(sampleDays(), path)

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "\n") {
		t.Fatal("JSON should be pretty-printed with newlines")
	}
	if !strings.Contains(string(data), "  ") {
		t.Fatal("JSON should be indented with spaces")
	}
}

func TestFilename(t *testing.T) {
	got := Filename(time.Date(2024, 3, 9, 15, 0, 0, 0, time.UTC), "csv")
	if got != "dayplan-export-2024-03-09.csv" {
		t.Fatalf("Filename = %q", got)
	}
}
