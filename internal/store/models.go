package store

import "database/sql"

// Row types mirror the SQLite tables. Position keeps the in-memory order of
// child records, since a snapshot is written back exactly as it was held.

type dayRow struct {
	ID         string `db:"id"`
	Date       string `db:"date"`
	IsExpanded bool   `db:"is_expanded"`
}

type taskRow struct {
	ID          string         `db:"id"`
	DayID       string         `db:"day_id"`
	Position    int            `db:"position"`
	Title       string         `db:"title"`
	Completed   bool           `db:"completed"`
	CreatedAt   string         `db:"created_at"`
	CompletedAt sql.NullString `db:"completed_at"`
	IsDefault   bool           `db:"is_default"`
	IsExpanded  bool           `db:"is_expanded"`
}

type subtaskRow struct {
	ID        string `db:"id"`
	TaskID    string `db:"task_id"`
	Position  int    `db:"position"`
	Title     string `db:"title"`
	Completed bool   `db:"completed"`
}

type collectionRow struct {
	ID          string `db:"id"`
	Name        string `db:"name"`
	Description string `db:"description"`
	CreatedAt   string `db:"created_at"`
	Color       string `db:"color"`
}

type collectionTaskRow struct {
	ID           string         `db:"id"`
	CollectionID string         `db:"collection_id"`
	Position     int            `db:"position"`
	Title        string         `db:"title"`
	Completed    bool           `db:"completed"`
	CreatedAt    string         `db:"created_at"`
	CompletedAt  sql.NullString `db:"completed_at"`
	Priority     string         `db:"priority"`
	Tags         string         `db:"tags"` // JSON array
	Notes        string         `db:"notes"`
}
