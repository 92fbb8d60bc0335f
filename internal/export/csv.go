package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/sadopc/dayplan/internal/planner"
)

var csvHeader = []string{"Date", "Task", "Completed", "Is Default", "Created At", "Completed At"}

// WriteCSV writes one row per task, newest day first.
func WriteCSV(w io.Writer, days []planner.Day) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, d := range newestFirst(days) {
		for _, t := range d.Tasks {
			completedAt := ""
			if t.CompletedAt != nil {
				completedAt = t.CompletedAt.String()
			}
			row := []string{
				d.Date,
				t.Title,
				yesNo(t.Completed),
				yesNo(t.IsDefault),
				t.CreatedAt.String(),
				completedAt,
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

func ToCSV(days []planner.Day, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	if err := WriteCSV(f, days); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return f.Close()
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func newestFirst(days []planner.Day) []planner.Day {
	out := append([]planner.Day(nil), days...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out
}
