// Package store owns the planner's in-memory state and its persistence.
//
// A Repository holds every day and collection in maps guarded by one
// RWMutex. Each mutation runs mutate-then-persist under the write lock and
// writes the whole snapshot through a Persister. Reads hand out deep copies.
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/sadopc/dayplan/internal/calendar"
	"github.com/sadopc/dayplan/internal/planner"
	"github.com/sadopc/dayplan/internal/stats"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrEmptyTitle = errors.New("title must not be empty")
)

type Repository struct {
	mu          sync.RWMutex
	days        map[string]*planner.Day
	collections map[string]*planner.Collection

	persister Persister
	log       zerolog.Logger
	defaults  []string
	now       func() time.Time
}

type Option func(*Repository)

func WithLogger(l zerolog.Logger) Option {
	return func(r *Repository) { r.log = l }
}

// WithDefaultTasks replaces the titles seeded onto new days.
func WithDefaultTasks(titles []string) Option {
	return func(r *Repository) { r.defaults = append([]string(nil), titles...) }
}

// WithClock sets the source of "today".
func WithClock(now func() time.Time) Option {
	return func(r *Repository) { r.now = now }
}

// Open loads the snapshot from p. A corrupt snapshot is logged and the
// repository starts empty; any other load error is returned.
func Open(ctx context.Context, p Persister, opts ...Option) (*Repository, error) {
	r := &Repository{
		days:        make(map[string]*planner.Day),
		collections: make(map[string]*planner.Collection),
		persister:   p,
		log:         zerolog.Nop(),
		defaults:    planner.DefaultTasks,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}

	snap, err := p.Load(ctx)
	switch {
	case errors.Is(err, ErrCorruptSnapshot):
		r.log.Error().Err(err).Msg("discarding unreadable snapshot")
		return r, nil
	case err != nil:
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	for i := range snap.Days {
		d := snap.Days[i]
		r.days[d.ID] = &d
	}
	for i := range snap.Collections {
		c := snap.Collections[i]
		r.collections[c.ID] = &c
	}
	r.log.Debug().Int("days", len(r.days)).Int("collections", len(r.collections)).Msg("snapshot loaded")
	return r, nil
}

// NewMemory returns a repository backed by a Memory persister.
func NewMemory(opts ...Option) *Repository {
	r, _ := Open(context.Background(), &Memory{}, opts...)
	return r
}

func (r *Repository) Close() error {
	return r.persister.Close()
}

// snapshot copies the current state. Callers hold the lock.
func (r *Repository) snapshot() Snapshot {
	snap := Snapshot{
		Days:        make([]planner.Day, 0, len(r.days)),
		Collections: make([]planner.Collection, 0, len(r.collections)),
		LastUpdated: planner.Timestamp{Time: r.now()},
	}
	for _, d := range r.days {
		snap.Days = append(snap.Days, d.Clone())
	}
	for _, c := range r.collections {
		snap.Collections = append(snap.Collections, c.Clone())
	}
	sort.Slice(snap.Days, func(i, j int) bool { return snap.Days[i].Date < snap.Days[j].Date })
	sort.Slice(snap.Collections, func(i, j int) bool {
		return snap.Collections[i].CreatedAt.Before(snap.Collections[j].CreatedAt.Time)
	})
	return snap
}

// save writes the full snapshot. Callers hold the write lock. A failed
// write leaves the in-memory change in place.
func (r *Repository) save(ctx context.Context) error {
	if err := r.persister.Save(ctx, r.snapshot()); err != nil {
		r.log.Error().Err(err).Msg("persist snapshot")
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// Snapshot returns a consistent copy of the current state.
func (r *Repository) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot()
}

// ============================================================
// Days
// ============================================================

func (r *Repository) dayByDate(date string) *planner.Day {
	for _, d := range r.days {
		if d.Date == date {
			return d
		}
	}
	return nil
}

func (r *Repository) day(id string) (*planner.Day, error) {
	d, ok := r.days[id]
	if !ok {
		return nil, fmt.Errorf("day %s: %w", id, ErrNotFound)
	}
	return d, nil
}

// AddDay returns the day for date, creating it with the default tasks when
// absent. An existing day is expanded.
func (r *Repository) AddDay(ctx context.Context, date time.Time) (planner.Day, error) {
	return r.addDay(ctx, date, true)
}

// AddEmptyDay is AddDay without default tasks.
func (r *Repository) AddEmptyDay(ctx context.Context, date time.Time) (planner.Day, error) {
	return r.addDay(ctx, date, false)
}

func (r *Repository) addDay(ctx context.Context, date time.Time, withDefaults bool) (planner.Day, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if d := r.dayByDate(calendar.FormatDate(date)); d != nil {
		d.IsExpanded = true
		return d.Clone(), r.save(ctx)
	}

	var defaults []string
	if withDefaults {
		defaults = r.defaults
	}
	d := planner.NewDay(calendar.Truncate(date), defaults)
	r.days[d.ID] = &d
	r.log.Debug().Str("date", d.Date).Msg("day created")
	return d.Clone(), r.save(ctx)
}

// EnsureDays creates every missing date in dates with the default tasks
// and persists once.
func (r *Repository) EnsureDays(ctx context.Context, dates []time.Time) (map[string]planner.Day, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]planner.Day, len(dates))
	created := 0
	for _, date := range dates {
		key := calendar.FormatDate(date)
		d := r.dayByDate(key)
		if d == nil {
			nd := planner.NewDay(calendar.Truncate(date), r.defaults)
			r.days[nd.ID] = &nd
			d = &nd
			created++
		}
		out[key] = d.Clone()
	}
	if created == 0 {
		return out, nil
	}
	r.log.Debug().Int("created", created).Msg("days created")
	return out, r.save(ctx)
}

// EnsureToday makes sure the current date has a day.
func (r *Repository) EnsureToday(ctx context.Context) (planner.Day, error) {
	return r.AddDay(ctx, calendar.Truncate(r.now()))
}

// Today is the repository's current date.
func (r *Repository) Today() time.Time {
	return calendar.Truncate(r.now())
}

func (r *Repository) GetDay(id string) (planner.Day, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, err := r.day(id)
	if err != nil {
		return planner.Day{}, err
	}
	return d.Clone(), nil
}

func (r *Repository) GetDayByDate(date time.Time) (planner.Day, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	key := calendar.FormatDate(date)
	d := r.dayByDate(key)
	if d == nil {
		return planner.Day{}, fmt.Errorf("day on %s: %w", key, ErrNotFound)
	}
	return d.Clone(), nil
}

// DaysInRange returns the days dated within [start, end], keyed by date.
func (r *Repository) DaysInRange(start, end time.Time) map[string]planner.Day {
	lo, hi := calendar.FormatDate(start), calendar.FormatDate(end)

	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]planner.Day)
	for _, d := range r.days {
		if d.Date >= lo && d.Date <= hi {
			out[d.Date] = d.Clone()
		}
	}
	return out
}

// AllDays returns every day, newest first.
func (r *Repository) AllDays() []planner.Day {
	r.mu.RLock()
	defer r.mu.RUnlock()
	days := make([]planner.Day, 0, len(r.days))
	for _, d := range r.days {
		days = append(days, d.Clone())
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date > days[j].Date })
	return days
}

func (r *Repository) DeleteDay(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := r.day(id); err != nil {
		return err
	}
	delete(r.days, id)
	return r.save(ctx)
}

func (r *Repository) ToggleDayExpand(ctx context.Context, id string) (planner.Day, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, err := r.day(id)
	if err != nil {
		return planner.Day{}, err
	}
	d.IsExpanded = !d.IsExpanded
	return d.Clone(), r.save(ctx)
}

// ============================================================
// Statistics
// ============================================================

func (r *Repository) Statistics() stats.Statistics {
	return stats.Overall(r.AllDays())
}

func (r *Repository) MonthlyStatistics(year, month int) (stats.MonthlyStatistics, error) {
	first, last, err := calendar.MonthBounds(year, month)
	if err != nil {
		return stats.MonthlyStatistics{Year: year, Month: month}, err
	}
	inRange := r.DaysInRange(first, last)
	days := make([]planner.Day, 0, len(inRange))
	for _, d := range inRange {
		days = append(days, d)
	}
	return stats.Monthly(year, month, days)
}
