package store

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sadopc/dayplan/internal/planner"
)

// CollectionUpdate changes the non-nil fields of a collection.
type CollectionUpdate struct {
	Name        *string
	Description *string
	Color       *planner.Color
}

// CollectionTaskUpdate changes the non-nil fields of a collection task.
type CollectionTaskUpdate struct {
	Title    *string
	Priority *planner.Priority
	Tags     *[]string
	Notes    *string
}

func (r *Repository) collection(id string) (*planner.Collection, error) {
	c, ok := r.collections[id]
	if !ok {
		return nil, fmt.Errorf("collection %s: %w", id, ErrNotFound)
	}
	return c, nil
}

// Collections returns every collection, newest first.
func (r *Repository) Collections() []planner.Collection {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]planner.Collection, 0, len(r.collections))
	for _, c := range r.collections {
		out = append(out, c.Clone())
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt.Time)
	})
	return out
}

func (r *Repository) GetCollection(id string) (planner.Collection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, err := r.collection(id)
	if err != nil {
		return planner.Collection{}, err
	}
	return c.Clone(), nil
}

func (r *Repository) CreateCollection(ctx context.Context, name, description string, color planner.Color) (planner.Collection, error) {
	if strings.TrimSpace(name) == "" {
		return planner.Collection{}, ErrEmptyTitle
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	c := planner.NewCollection(name, description, color)
	r.collections[c.ID] = &c
	return c.Clone(), r.save(ctx)
}

func (r *Repository) UpdateCollection(ctx context.Context, id string, u CollectionUpdate) (planner.Collection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, err := r.collection(id)
	if err != nil {
		return planner.Collection{}, err
	}
	if u.Name != nil {
		c.Name = strings.TrimSpace(*u.Name)
	}
	if u.Description != nil {
		c.Description = strings.TrimSpace(*u.Description)
	}
	if u.Color != nil {
		c.Color = *u.Color
	}
	return c.Clone(), r.save(ctx)
}

func (r *Repository) DeleteCollection(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := r.collection(id); err != nil {
		return err
	}
	delete(r.collections, id)
	return r.save(ctx)
}

// ============================================================
// Collection tasks
// ============================================================

func (r *Repository) collectionTask(collectionID, taskID string) (*planner.CollectionTask, error) {
	c, err := r.collection(collectionID)
	if err != nil {
		return nil, err
	}
	t := c.Task(taskID)
	if t == nil {
		return nil, fmt.Errorf("collection task %s: %w", taskID, ErrNotFound)
	}
	return t, nil
}

func (r *Repository) AddCollectionTask(ctx context.Context, collectionID, title string, priority planner.Priority, tags []string, notes string) (planner.CollectionTask, error) {
	if strings.TrimSpace(title) == "" {
		return planner.CollectionTask{}, ErrEmptyTitle
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	c, err := r.collection(collectionID)
	if err != nil {
		return planner.CollectionTask{}, err
	}
	t := c.AddTask(title, priority, append([]string(nil), tags...), notes)
	return t.Clone(), r.save(ctx)
}

func (r *Repository) UpdateCollectionTask(ctx context.Context, collectionID, taskID string, u CollectionTaskUpdate) (planner.CollectionTask, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, err := r.collectionTask(collectionID, taskID)
	if err != nil {
		return planner.CollectionTask{}, err
	}
	if u.Title != nil {
		t.Title = strings.TrimSpace(*u.Title)
	}
	if u.Priority != nil {
		t.Priority = *u.Priority
	}
	if u.Tags != nil {
		t.Tags = append([]string{}, (*u.Tags)...)
	}
	if u.Notes != nil {
		t.Notes = *u.Notes
	}
	return t.Clone(), r.save(ctx)
}

func (r *Repository) ToggleCollectionTask(ctx context.Context, collectionID, taskID string) (planner.CollectionTask, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, err := r.collectionTask(collectionID, taskID)
	if err != nil {
		return planner.CollectionTask{}, err
	}
	t.Toggle()
	return t.Clone(), r.save(ctx)
}

func (r *Repository) DeleteCollectionTask(ctx context.Context, collectionID, taskID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, err := r.collection(collectionID)
	if err != nil {
		return err
	}
	if !c.RemoveTask(taskID) {
		return fmt.Errorf("collection task %s: %w", taskID, ErrNotFound)
	}
	return r.save(ctx)
}
