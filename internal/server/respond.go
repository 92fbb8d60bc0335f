package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/hlog"

	"github.com/sadopc/dayplan/internal/calendar"
	"github.com/sadopc/dayplan/internal/planner"
	"github.com/sadopc/dayplan/internal/store"
	"github.com/sadopc/dayplan/internal/validate"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Field   string `json:"field,omitempty"`
}

type successResponse struct {
	Success bool `json:"success"`
}

var okResponse = successResponse{Success: true}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_, _ = w.Write(response)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message})
}

// fail maps err onto a status code: validation failures are 400, missing
// entities 404, everything else 500.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	logger := hlog.FromRequest(r)

	var verr *validate.Error
	switch {
	case errors.As(err, &verr):
		logger.Warn().Str("field", verr.Field).Msg(verr.Message)
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: verr.Message, Field: verr.Field})
	case errors.Is(err, store.ErrEmptyTitle):
		logger.Warn().Err(err).Msg("rejected")
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "Title required", Field: "title"})
	case errors.Is(err, calendar.ErrInvalidMonth):
		logger.Warn().Err(err).Msg("rejected")
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Field: "month"})
	case errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	default:
		logger.Error().Err(err).Msg("request failed")
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// decode reads an optional JSON body into v. An empty body leaves v as is.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return &validate.Error{Field: "body", Message: "Invalid request payload"}
}

// pathID returns the UUID path variable key.
func pathID(r *http.Request, key, field string) (string, error) {
	return validate.UUID(mux.Vars(r)[key], field)
}

// queryInt parses an integer query parameter within [lo, hi], falling back
// to def when it is absent.
func queryInt(r *http.Request, key string, def, lo, hi int) (int, error) {
	return validate.ParseInt(r.URL.Query().Get(key), key, def, &lo, &hi)
}

type dayMetrics struct {
	CompletionStatus     planner.CompletionStatus `json:"completion_status"`
	CompletionPercentage int                      `json:"completion_percentage"`
	CompletedCount       int                      `json:"completed_count"`
	TotalCount           int                      `json:"total_count"`
}

func metricsOf(d planner.Day) dayMetrics {
	return dayMetrics{
		CompletionStatus:     d.CompletionStatus(),
		CompletionPercentage: d.CompletionPercentage(),
		CompletedCount:       d.CompletedCount(),
		TotalCount:           d.TotalCount(),
	}
}

// progress is [completed, total].
func progress(t planner.Task) [2]int {
	done, total := t.SubtaskProgress()
	return [2]int{done, total}
}
