package server

import (
	"net/http"

	"github.com/sadopc/dayplan/internal/planner"
	"github.com/sadopc/dayplan/internal/store"
	"github.com/sadopc/dayplan/internal/validate"
)

// collectionView is a collection with its derived completion numbers.
type collectionView struct {
	planner.Collection
	CompletedCount       int `json:"completed_count"`
	TotalCount           int `json:"total_count"`
	CompletionPercentage int `json:"completion_percentage"`
}

func viewOf(c planner.Collection) collectionView {
	return collectionView{
		Collection:           c,
		CompletedCount:       c.CompletedCount(),
		TotalCount:           c.TotalCount(),
		CompletionPercentage: c.CompletionPercentage(),
	}
}

type collectionResponse struct {
	Success    bool           `json:"success"`
	Collection collectionView `json:"collection"`
}

type collectionTaskResponse struct {
	Success   bool                   `json:"success"`
	Completed bool                   `json:"completed"`
	Task      planner.CollectionTask `json:"task"`
}

type collectionRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
}

func (req collectionRequest) update() (store.CollectionUpdate, error) {
	var u store.CollectionUpdate
	if req.Name != nil {
		name, err := validate.Title(*req.Name, "name")
		if err != nil {
			return u, err
		}
		u.Name = &name
	}
	if req.Description != nil {
		desc, err := validate.OptionalText(*req.Description, "description")
		if err != nil {
			return u, err
		}
		u.Description = &desc
	}
	if req.Color != nil {
		color, err := validate.Color(*req.Color)
		if err != nil {
			return u, err
		}
		u.Color = &color
	}
	return u, nil
}

type collectionTaskRequest struct {
	Title    *string   `json:"title"`
	Priority *string   `json:"priority"`
	Tags     *[]string `json:"tags"`
	Notes    *string   `json:"notes"`
}

func (req collectionTaskRequest) update() (store.CollectionTaskUpdate, error) {
	var u store.CollectionTaskUpdate
	if req.Title != nil {
		title, err := validate.Title(*req.Title, "title")
		if err != nil {
			return u, err
		}
		u.Title = &title
	}
	if req.Priority != nil {
		p, err := validate.Priority(*req.Priority)
		if err != nil {
			return u, err
		}
		u.Priority = &p
	}
	if req.Tags != nil {
		tags, err := validate.Tags(*req.Tags, "tags")
		if err != nil {
			return u, err
		}
		u.Tags = &tags
	}
	if req.Notes != nil {
		notes, err := validate.OptionalText(*req.Notes, "notes")
		if err != nil {
			return u, err
		}
		u.Notes = &notes
	}
	return u, nil
}

func (s *Server) handleListCollections(w http.ResponseWriter, _ *http.Request) {
	collections := s.repo.Collections()
	views := make([]collectionView, len(collections))
	for i, c := range collections {
		views[i] = viewOf(c)
	}
	respondJSON(w, http.StatusOK, struct {
		Success     bool             `json:"success"`
		Collections []collectionView `json:"collections"`
	}{true, views})
}

func (s *Server) handleCreateCollection(w http.ResponseWriter, r *http.Request) {
	var req collectionRequest
	if err := decode(w, r, &req); err != nil {
		fail(w, r, err)
		return
	}
	if req.Name == nil {
		fail(w, r, &validate.Error{Field: "name", Message: "name is required"})
		return
	}
	u, err := req.update()
	if err != nil {
		fail(w, r, err)
		return
	}
	color := planner.ColorBlue
	if u.Color != nil {
		color = *u.Color
	}
	var desc string
	if u.Description != nil {
		desc = *u.Description
	}

	c, err := s.repo.CreateCollection(r.Context(), *u.Name, desc, color)
	if err != nil {
		fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, collectionResponse{true, viewOf(c)})
}

func (s *Server) handleGetCollection(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "collection_id")
	if err != nil {
		fail(w, r, err)
		return
	}
	c, err := s.repo.GetCollection(id)
	if err != nil {
		fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, collectionResponse{true, viewOf(c)})
}

func (s *Server) handleUpdateCollection(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "collection_id")
	if err != nil {
		fail(w, r, err)
		return
	}
	var req collectionRequest
	if err := decode(w, r, &req); err != nil {
		fail(w, r, err)
		return
	}
	u, err := req.update()
	if err != nil {
		fail(w, r, err)
		return
	}
	c, err := s.repo.UpdateCollection(r.Context(), id, u)
	if err != nil {
		fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, collectionResponse{true, viewOf(c)})
}

func (s *Server) handleDeleteCollection(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "collection_id")
	if err != nil {
		fail(w, r, err)
		return
	}
	if err := s.repo.DeleteCollection(r.Context(), id); err != nil {
		fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, okResponse)
}

// ============================================================
// Collection tasks
// ============================================================

func collectionTaskIDs(r *http.Request) (collectionID, taskID string, err error) {
	if collectionID, err = pathID(r, "id", "collection_id"); err != nil {
		return "", "", err
	}
	if taskID, err = pathID(r, "taskID", "task_id"); err != nil {
		return "", "", err
	}
	return collectionID, taskID, nil
}

func (s *Server) handleAddCollectionTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "collection_id")
	if err != nil {
		fail(w, r, err)
		return
	}
	var req collectionTaskRequest
	if err := decode(w, r, &req); err != nil {
		fail(w, r, err)
		return
	}
	if req.Title == nil {
		fail(w, r, &validate.Error{Field: "title", Message: "title is required"})
		return
	}
	u, err := req.update()
	if err != nil {
		fail(w, r, err)
		return
	}
	priority := planner.PriorityNone
	if u.Priority != nil {
		priority = *u.Priority
	}
	var tags []string
	if u.Tags != nil {
		tags = *u.Tags
	}
	var notes string
	if u.Notes != nil {
		notes = *u.Notes
	}

	t, err := s.repo.AddCollectionTask(r.Context(), id, *u.Title, priority, tags, notes)
	if err != nil {
		fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, collectionTaskResponse{true, t.Completed, t})
}

func (s *Server) handleUpdateCollectionTask(w http.ResponseWriter, r *http.Request) {
	collectionID, taskID, err := collectionTaskIDs(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	var req collectionTaskRequest
	if err := decode(w, r, &req); err != nil {
		fail(w, r, err)
		return
	}
	u, err := req.update()
	if err != nil {
		fail(w, r, err)
		return
	}
	t, err := s.repo.UpdateCollectionTask(r.Context(), collectionID, taskID, u)
	if err != nil {
		fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, collectionTaskResponse{true, t.Completed, t})
}

func (s *Server) handleToggleCollectionTask(w http.ResponseWriter, r *http.Request) {
	collectionID, taskID, err := collectionTaskIDs(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	t, err := s.repo.ToggleCollectionTask(r.Context(), collectionID, taskID)
	if err != nil {
		fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, collectionTaskResponse{true, t.Completed, t})
}

func (s *Server) handleDeleteCollectionTask(w http.ResponseWriter, r *http.Request) {
	collectionID, taskID, err := collectionTaskIDs(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	if err := s.repo.DeleteCollectionTask(r.Context(), collectionID, taskID); err != nil {
		fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, okResponse)
}
