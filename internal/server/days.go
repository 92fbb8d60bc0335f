package server

import (
	"net/http"

	"github.com/sadopc/dayplan/internal/calendar"
	"github.com/sadopc/dayplan/internal/planner"
	"github.com/sadopc/dayplan/internal/stats"
	"github.com/sadopc/dayplan/internal/validate"
)

type titleRequest struct {
	Title string `json:"title"`
}

func (s *Server) handleAddDay(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date string `json:"date"`
	}
	if err := decode(w, r, &req); err != nil {
		fail(w, r, err)
		return
	}
	if req.Date == "" {
		fail(w, r, &validate.Error{Field: "date", Message: "Date required"})
		return
	}
	date, err := calendar.ParseDate(req.Date)
	if err != nil {
		fail(w, r, &validate.Error{Field: "date", Message: "Invalid date"})
		return
	}

	day, err := s.repo.AddDay(r.Context(), date)
	if err != nil {
		fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, struct {
		Success bool        `json:"success"`
		DayID   string      `json:"day_id"`
		Day     planner.Day `json:"day"`
	}{true, day.ID, day})
}

func (s *Server) handleGetDay(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "day_id")
	if err != nil {
		fail(w, r, err)
		return
	}
	day, err := s.repo.GetDay(id)
	if err != nil {
		fail(w, r, err)
		return
	}
	date, err := day.Time()
	if err != nil {
		fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, struct {
		Success bool        `json:"success"`
		Day     planner.Day `json:"day"`
		dayMetrics
		DisplayDate string `json:"display_date"`
	}{true, day, metricsOf(day), calendar.DisplayDate(date, s.repo.Today())})
}

func (s *Server) handleDeleteDay(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "day_id")
	if err != nil {
		fail(w, r, err)
		return
	}
	if err := s.repo.DeleteDay(r.Context(), id); err != nil {
		fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, okResponse)
}

func (s *Server) handleToggleDayExpand(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "day_id")
	if err != nil {
		fail(w, r, err)
		return
	}
	day, err := s.repo.ToggleDayExpand(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, struct {
		Success    bool `json:"success"`
		IsExpanded bool `json:"is_expanded"`
	}{true, day.IsExpanded})
}

// ============================================================
// Tasks
// ============================================================

func taskIDs(r *http.Request) (dayID, taskID string, err error) {
	if dayID, err = pathID(r, "id", "day_id"); err != nil {
		return "", "", err
	}
	if taskID, err = pathID(r, "taskID", "task_id"); err != nil {
		return "", "", err
	}
	return dayID, taskID, nil
}

func (s *Server) handleAddTask(w http.ResponseWriter, r *http.Request) {
	dayID, err := pathID(r, "id", "day_id")
	if err != nil {
		fail(w, r, err)
		return
	}
	var req titleRequest
	if err := decode(w, r, &req); err != nil {
		fail(w, r, err)
		return
	}
	title, err := validate.Title(req.Title, "title")
	if err != nil {
		fail(w, r, err)
		return
	}

	task, err := s.repo.AddTask(r.Context(), dayID, title)
	if err != nil {
		fail(w, r, err)
		return
	}
	day, err := s.repo.GetDay(dayID)
	if err != nil {
		fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, struct {
		Success bool         `json:"success"`
		Task    planner.Task `json:"task"`
		dayMetrics
	}{true, task, metricsOf(day)})
}

func (s *Server) handleEditTask(w http.ResponseWriter, r *http.Request) {
	dayID, taskID, err := taskIDs(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	var req titleRequest
	if err := decode(w, r, &req); err != nil {
		fail(w, r, err)
		return
	}
	title, err := validate.Title(req.Title, "title")
	if err != nil {
		fail(w, r, err)
		return
	}
	if _, err := s.repo.EditTask(r.Context(), dayID, taskID, title); err != nil {
		fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, okResponse)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	dayID, taskID, err := taskIDs(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	day, err := s.repo.DeleteTask(r.Context(), dayID, taskID)
	if err != nil {
		fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, struct {
		Success bool `json:"success"`
		dayMetrics
	}{true, metricsOf(day)})
}

func (s *Server) handleToggleTask(w http.ResponseWriter, r *http.Request) {
	dayID, taskID, err := taskIDs(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	day, err := s.repo.ToggleTask(r.Context(), dayID, taskID)
	if err != nil {
		fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, struct {
		Success   bool `json:"success"`
		Completed bool `json:"completed"`
		dayMetrics
		Stats stats.Statistics `json:"stats"`
	}{true, day.Task(taskID).Completed, metricsOf(day), s.repo.Statistics()})
}

func (s *Server) handleToggleTaskExpand(w http.ResponseWriter, r *http.Request) {
	dayID, taskID, err := taskIDs(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	day, err := s.repo.ToggleTaskExpand(r.Context(), dayID, taskID)
	if err != nil {
		fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, struct {
		Success    bool `json:"success"`
		IsExpanded bool `json:"is_expanded"`
	}{true, day.Task(taskID).IsExpanded})
}

// ============================================================
// Subtasks
// ============================================================

func (s *Server) handleAddSubtask(w http.ResponseWriter, r *http.Request) {
	dayID, taskID, err := taskIDs(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	var req titleRequest
	if err := decode(w, r, &req); err != nil {
		fail(w, r, err)
		return
	}
	title, err := validate.Title(req.Title, "title")
	if err != nil {
		fail(w, r, err)
		return
	}

	sub, task, err := s.repo.AddSubtask(r.Context(), dayID, taskID, title)
	if err != nil {
		fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, struct {
		Success         bool            `json:"success"`
		Subtask         planner.SubTask `json:"subtask"`
		SubtaskProgress [2]int          `json:"subtask_progress"`
	}{true, sub, progress(task)})
}

func (s *Server) handleToggleSubtask(w http.ResponseWriter, r *http.Request) {
	dayID, taskID, err := taskIDs(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	subID, err := pathID(r, "subID", "subtask_id")
	if err != nil {
		fail(w, r, err)
		return
	}
	task, err := s.repo.ToggleSubtask(r.Context(), dayID, taskID, subID)
	if err != nil {
		fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, struct {
		Success         bool   `json:"success"`
		Completed       bool   `json:"completed"`
		SubtaskProgress [2]int `json:"subtask_progress"`
	}{true, task.SubTask(subID).Completed, progress(task)})
}

func (s *Server) handleDeleteSubtask(w http.ResponseWriter, r *http.Request) {
	dayID, taskID, err := taskIDs(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	subID, err := pathID(r, "subID", "subtask_id")
	if err != nil {
		fail(w, r, err)
		return
	}
	task, err := s.repo.DeleteSubtask(r.Context(), dayID, taskID, subID)
	if err != nil {
		fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, struct {
		Success         bool   `json:"success"`
		SubtaskProgress [2]int `json:"subtask_progress"`
	}{true, progress(task)})
}
