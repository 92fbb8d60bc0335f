package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sadopc/dayplan/internal/planner"
)

// ErrCorruptSnapshot marks a snapshot that exists but cannot be decoded.
var ErrCorruptSnapshot = errors.New("corrupt snapshot")

// Snapshot is the whole persisted state of the planner.
type Snapshot struct {
	Days        []planner.Day        `json:"days"`
	Collections []planner.Collection `json:"collections"`
	LastUpdated planner.Timestamp    `json:"last_updated"`
}

// Persister loads and stores whole snapshots. Save always overwrites the
// previous snapshot.
type Persister interface {
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, snap Snapshot) error
	Close() error
}

// Memory keeps the last saved snapshot in memory.
type Memory struct {
	mu    sync.Mutex
	snap  Snapshot
	saves int
}

func (m *Memory) Load(context.Context) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap, nil
}

func (m *Memory) Save(_ context.Context, snap Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap = snap
	m.saves++
	return nil
}

// Saves reports how many snapshots have been written.
func (m *Memory) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

func (m *Memory) Close() error { return nil }

// JSONFile persists snapshots as an indented JSON document.
type JSONFile struct {
	path string
}

// NewJSONFile returns a persister for path, creating its directory.
func NewJSONFile(path string) (*JSONFile, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &JSONFile{path: path}, nil
}

func (f *JSONFile) Path() string { return f.path }

// Load reads the snapshot. A missing file is an empty snapshot.
func (f *JSONFile) Load(context.Context) (Snapshot, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return Snapshot{}, nil
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("read snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot %s: %w: %w", f.path, ErrCorruptSnapshot, err)
	}
	return snap, nil
}

// Save writes snap to a temporary file next to the target and renames it
// into place.
func (f *JSONFile) Save(_ context.Context, snap Snapshot) error {
	if snap.Days == nil {
		snap.Days = []planner.Day{}
	}
	if snap.Collections == nil {
		snap.Collections = []planner.Collection{}
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".dayplan-*.json")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

func (f *JSONFile) Close() error { return nil }
