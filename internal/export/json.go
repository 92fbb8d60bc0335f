package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sadopc/dayplan/internal/planner"
	"github.com/sadopc/dayplan/internal/stats"
)

type jsonExport struct {
	Days       []planner.Day    `json:"days"`
	Statistics stats.Statistics `json:"statistics"`
	ExportedAt string           `json:"exported_at"`
}

// WriteJSON writes every day, newest first, with the overall statistics
// computed over them.
func WriteJSON(w io.Writer, days []planner.Day, exportedAt time.Time) error {
	export := jsonExport{
		Days:       newestFirst(days),
		Statistics: stats.Overall(days),
		ExportedAt: planner.Timestamp{Time: exportedAt}.String(),
	}
	if export.Days == nil {
		export.Days = []planner.Day{}
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	_, err = w.Write(data)
	return err
}

func ToJSON(days []planner.Day, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create json file: %w", err)
	}
	defer f.Close()

	if err := WriteJSON(f, days, time.Now()); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return f.Close()
}

// Filename is the default export name for the given date and format,
// e.g. dayplan-export-2024-03-01.csv.
func Filename(now time.Time, format string) string {
	return fmt.Sprintf("dayplan-export-%s.%s", now.Format(planner.DateLayout), format)
}
