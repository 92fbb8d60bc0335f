package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/sadopc/dayplan/internal/planner"
)

const currentVersion = 1

// SQLite persists snapshots into a relational schema. Every Save replaces
// the stored rows inside one transaction.
type SQLite struct {
	db *sqlx.DB
}

// NewSQLite opens (or creates) the SQLite database at dbPath and runs migrations.
func NewSQLite(dbPath string) (*SQLite, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// One connection keeps pragmas and in-memory databases consistent.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// NewSQLiteMemory creates an in-memory database for testing.
func NewSQLiteMemory() (*SQLite, error) {
	return NewSQLite(":memory:")
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) migrate() error {
	var version int
	if err := s.db.Get(&version, "PRAGMA user_version"); err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	_, err := s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

func (s *SQLite) migrateV1() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS days (
		id          TEXT PRIMARY KEY,
		date        TEXT NOT NULL,
		is_expanded INTEGER NOT NULL DEFAULT 1
	);

	CREATE INDEX IF NOT EXISTS idx_days_date ON days(date);

	CREATE TABLE IF NOT EXISTS tasks (
		id           TEXT PRIMARY KEY,
		day_id       TEXT NOT NULL REFERENCES days(id) ON DELETE CASCADE,
		position     INTEGER NOT NULL,
		title        TEXT NOT NULL,
		completed    INTEGER NOT NULL DEFAULT 0,
		created_at   TEXT NOT NULL,
		completed_at TEXT,
		is_default   INTEGER NOT NULL DEFAULT 0,
		is_expanded  INTEGER NOT NULL DEFAULT 1
	);

	CREATE INDEX IF NOT EXISTS idx_tasks_day ON tasks(day_id);

	CREATE TABLE IF NOT EXISTS subtasks (
		id        TEXT PRIMARY KEY,
		task_id   TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		position  INTEGER NOT NULL,
		title     TEXT NOT NULL,
		completed INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS collections (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		created_at  TEXT NOT NULL,
		color       TEXT NOT NULL DEFAULT 'blue'
	);

	CREATE TABLE IF NOT EXISTS collection_tasks (
		id            TEXT PRIMARY KEY,
		collection_id TEXT NOT NULL REFERENCES collections(id) ON DELETE CASCADE,
		position      INTEGER NOT NULL,
		title         TEXT NOT NULL,
		completed     INTEGER NOT NULL DEFAULT 0,
		created_at    TEXT NOT NULL,
		completed_at  TEXT,
		priority      TEXT NOT NULL DEFAULT 'none',
		tags          TEXT NOT NULL DEFAULT '[]',
		notes         TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS meta (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(ddl)
	return err
}

// Load assembles the stored rows into a snapshot.
func (s *SQLite) Load(ctx context.Context) (Snapshot, error) {
	var snap Snapshot

	days, err := s.loadDays(ctx)
	if err != nil {
		return snap, err
	}
	collections, err := s.loadCollections(ctx)
	if err != nil {
		return snap, err
	}
	snap.Days = days
	snap.Collections = collections

	var updated string
	err = s.db.GetContext(ctx, &updated, `SELECT value FROM meta WHERE key = 'last_updated'`)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return snap, fmt.Errorf("get last_updated: %w", err)
	default:
		if ts, err := planner.ParseTimestamp(updated); err == nil {
			snap.LastUpdated = ts
		}
	}
	return snap, nil
}

func (s *SQLite) loadDays(ctx context.Context) ([]planner.Day, error) {
	var dayRows []dayRow
	if err := s.db.SelectContext(ctx, &dayRows, `SELECT id, date, is_expanded FROM days ORDER BY date`); err != nil {
		return nil, fmt.Errorf("list days: %w", err)
	}
	var taskRows []taskRow
	if err := s.db.SelectContext(ctx, &taskRows,
		`SELECT id, day_id, position, title, completed, created_at, completed_at, is_default, is_expanded
		 FROM tasks ORDER BY day_id, position`); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	var subRows []subtaskRow
	if err := s.db.SelectContext(ctx, &subRows,
		`SELECT id, task_id, position, title, completed FROM subtasks ORDER BY task_id, position`); err != nil {
		return nil, fmt.Errorf("list subtasks: %w", err)
	}

	subtasks := make(map[string][]planner.SubTask)
	for _, r := range subRows {
		subtasks[r.TaskID] = append(subtasks[r.TaskID], planner.SubTask{ID: r.ID, Title: r.Title, Completed: r.Completed})
	}

	tasks := make(map[string][]planner.Task)
	for _, r := range taskRows {
		t := planner.Task{
			ID:         r.ID,
			Title:      r.Title,
			Completed:  r.Completed,
			IsDefault:  r.IsDefault,
			IsExpanded: r.IsExpanded,
			Subtasks:   subtasks[r.ID],
		}
		if t.Subtasks == nil {
			t.Subtasks = []planner.SubTask{}
		}
		var err error
		if t.CreatedAt, err = planner.ParseTimestamp(r.CreatedAt); err != nil {
			return nil, fmt.Errorf("task %s: %w", r.ID, err)
		}
		if t.CompletedAt, err = parseNullTimestamp(r.CompletedAt); err != nil {
			return nil, fmt.Errorf("task %s: %w", r.ID, err)
		}
		tasks[r.DayID] = append(tasks[r.DayID], t)
	}

	days := make([]planner.Day, 0, len(dayRows))
	for _, r := range dayRows {
		d := planner.Day{ID: r.ID, Date: r.Date, IsExpanded: r.IsExpanded, Tasks: tasks[r.ID]}
		if d.Tasks == nil {
			d.Tasks = []planner.Task{}
		}
		days = append(days, d)
	}
	return days, nil
}

func (s *SQLite) loadCollections(ctx context.Context) ([]planner.Collection, error) {
	var colRows []collectionRow
	if err := s.db.SelectContext(ctx, &colRows,
		`SELECT id, name, description, created_at, color FROM collections ORDER BY created_at`); err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	var taskRows []collectionTaskRow
	if err := s.db.SelectContext(ctx, &taskRows,
		`SELECT id, collection_id, position, title, completed, created_at, completed_at, priority, tags, notes
		 FROM collection_tasks ORDER BY collection_id, position`); err != nil {
		return nil, fmt.Errorf("list collection tasks: %w", err)
	}

	tasks := make(map[string][]planner.CollectionTask)
	for _, r := range taskRows {
		t := planner.CollectionTask{
			ID:        r.ID,
			Title:     r.Title,
			Completed: r.Completed,
			Priority:  planner.Priority(r.Priority),
			Notes:     r.Notes,
		}
		if err := json.Unmarshal([]byte(r.Tags), &t.Tags); err != nil {
			return nil, fmt.Errorf("collection task %s tags: %w", r.ID, err)
		}
		if t.Tags == nil {
			t.Tags = []string{}
		}
		var err error
		if t.CreatedAt, err = planner.ParseTimestamp(r.CreatedAt); err != nil {
			return nil, fmt.Errorf("collection task %s: %w", r.ID, err)
		}
		if t.CompletedAt, err = parseNullTimestamp(r.CompletedAt); err != nil {
			return nil, fmt.Errorf("collection task %s: %w", r.ID, err)
		}
		tasks[r.CollectionID] = append(tasks[r.CollectionID], t)
	}

	collections := make([]planner.Collection, 0, len(colRows))
	for _, r := range colRows {
		c := planner.Collection{
			ID:          r.ID,
			Name:        r.Name,
			Description: r.Description,
			Color:       planner.Color(r.Color),
			Tasks:       tasks[r.ID],
		}
		if c.Tasks == nil {
			c.Tasks = []planner.CollectionTask{}
		}
		created, err := planner.ParseTimestamp(r.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("collection %s: %w", r.ID, err)
		}
		c.CreatedAt = created
		collections = append(collections, c)
	}
	return collections, nil
}

// Save replaces every stored row with the contents of snap.
func (s *SQLite) Save(ctx context.Context, snap Snapshot) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"subtasks", "tasks", "days", "collection_tasks", "collections"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for _, d := range snap.Days {
		if _, err := tx.NamedExecContext(ctx,
			`INSERT INTO days (id, date, is_expanded) VALUES (:id, :date, :is_expanded)`,
			dayRow{ID: d.ID, Date: d.Date, IsExpanded: d.IsExpanded}); err != nil {
			return fmt.Errorf("insert day %s: %w", d.ID, err)
		}
		for i, t := range d.Tasks {
			row := taskRow{
				ID:          t.ID,
				DayID:       d.ID,
				Position:    i,
				Title:       t.Title,
				Completed:   t.Completed,
				CreatedAt:   t.CreatedAt.String(),
				CompletedAt: nullTimestamp(t.CompletedAt),
				IsDefault:   t.IsDefault,
				IsExpanded:  t.IsExpanded,
			}
			if _, err := tx.NamedExecContext(ctx,
				`INSERT INTO tasks (id, day_id, position, title, completed, created_at, completed_at, is_default, is_expanded)
				 VALUES (:id, :day_id, :position, :title, :completed, :created_at, :completed_at, :is_default, :is_expanded)`,
				row); err != nil {
				return fmt.Errorf("insert task %s: %w", t.ID, err)
			}
			for j, st := range t.Subtasks {
				if _, err := tx.NamedExecContext(ctx,
					`INSERT INTO subtasks (id, task_id, position, title, completed)
					 VALUES (:id, :task_id, :position, :title, :completed)`,
					subtaskRow{ID: st.ID, TaskID: t.ID, Position: j, Title: st.Title, Completed: st.Completed}); err != nil {
					return fmt.Errorf("insert subtask %s: %w", st.ID, err)
				}
			}
		}
	}

	for _, c := range snap.Collections {
		if _, err := tx.NamedExecContext(ctx,
			`INSERT INTO collections (id, name, description, created_at, color)
			 VALUES (:id, :name, :description, :created_at, :color)`,
			collectionRow{ID: c.ID, Name: c.Name, Description: c.Description, CreatedAt: c.CreatedAt.String(), Color: string(c.Color)}); err != nil {
			return fmt.Errorf("insert collection %s: %w", c.ID, err)
		}
		for i, t := range c.Tasks {
			tags, err := json.Marshal(t.Tags)
			if err != nil {
				return fmt.Errorf("marshal tags for %s: %w", t.ID, err)
			}
			row := collectionTaskRow{
				ID:           t.ID,
				CollectionID: c.ID,
				Position:     i,
				Title:        t.Title,
				Completed:    t.Completed,
				CreatedAt:    t.CreatedAt.String(),
				CompletedAt:  nullTimestamp(t.CompletedAt),
				Priority:     string(t.Priority),
				Tags:         string(tags),
				Notes:        t.Notes,
			}
			if _, err := tx.NamedExecContext(ctx,
				`INSERT INTO collection_tasks (id, collection_id, position, title, completed, created_at, completed_at, priority, tags, notes)
				 VALUES (:id, :collection_id, :position, :title, :completed, :created_at, :completed_at, :priority, :tags, :notes)`,
				row); err != nil {
				return fmt.Errorf("insert collection task %s: %w", t.ID, err)
			}
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO meta (key, value) VALUES ('last_updated', ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		snap.LastUpdated.String()); err != nil {
		return fmt.Errorf("set last_updated: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

func nullTimestamp(ts *planner.Timestamp) sql.NullString {
	if ts == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: ts.String(), Valid: true}
}

func parseNullTimestamp(ns sql.NullString) (*planner.Timestamp, error) {
	if !ns.Valid {
		return nil, nil
	}
	ts, err := planner.ParseTimestamp(ns.String)
	if err != nil {
		return nil, err
	}
	return &ts, nil
}
