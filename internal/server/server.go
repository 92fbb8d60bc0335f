// Package server exposes the planner over a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"maps"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/sadopc/dayplan/internal/config"
	"github.com/sadopc/dayplan/internal/store"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	repo   *store.Repository
	log    zerolog.Logger
	router *mux.Router
	now    func() time.Time
}

func New(repo *store.Repository, logger zerolog.Logger) *Server {
	s := &Server{
		repo:   repo,
		log:    logger,
		router: mux.NewRouter(),
		now:    time.Now,
	}
	s.routes()
	return s
}

// methods dispatches one path on the request method. Each path is
// registered once so a known path with the wrong method is a 405, not a 404.
type methods map[string]http.HandlerFunc

func (m methods) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h, ok := m[r.Method]; ok {
		h(w, r)
		return
	}
	w.Header().Set("Allow", strings.Join(slices.Sorted(maps.Keys(m)), ", "))
	respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
}

func (s *Server) routes() {
	r := s.router
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusNotFound, "Not found")
	})

	r.Handle("/health", methods{"GET": s.handleHealth})
	r.Handle("/export/json", methods{"GET": s.handleExportJSON})
	r.Handle("/export/csv", methods{"GET": s.handleExportCSV})

	api := r.PathPrefix("/api").Subrouter()
	api.Handle("/health", methods{"GET": s.handleHealth})
	api.Handle("/calendar", methods{"GET": s.handleCalendar})

	// Days
	api.Handle("/days", methods{"POST": s.handleAddDay})
	api.Handle("/days/{id}", methods{"GET": s.handleGetDay, "DELETE": s.handleDeleteDay})
	api.Handle("/days/{id}/expand", methods{"POST": s.handleToggleDayExpand})

	// Tasks
	api.Handle("/days/{id}/tasks", methods{"POST": s.handleAddTask})
	api.Handle("/days/{id}/tasks/{taskID}", methods{"PUT": s.handleEditTask, "DELETE": s.handleDeleteTask})
	api.Handle("/days/{id}/tasks/{taskID}/toggle", methods{"POST": s.handleToggleTask})
	api.Handle("/days/{id}/tasks/{taskID}/expand", methods{"POST": s.handleToggleTaskExpand})

	// Subtasks
	api.Handle("/days/{id}/tasks/{taskID}/subtasks", methods{"POST": s.handleAddSubtask})
	api.Handle("/days/{id}/tasks/{taskID}/subtasks/{subID}/toggle", methods{"POST": s.handleToggleSubtask})
	api.Handle("/days/{id}/tasks/{taskID}/subtasks/{subID}", methods{"DELETE": s.handleDeleteSubtask})

	// Statistics and export
	api.Handle("/statistics", methods{"GET": s.handleStatistics})
	api.Handle("/statistics/monthly", methods{"GET": s.handleMonthlyStatistics})
	api.Handle("/export/json", methods{"GET": s.handleExportJSON})
	api.Handle("/export/csv", methods{"GET": s.handleExportCSV})

	// Collections
	api.Handle("/collections", methods{"GET": s.handleListCollections, "POST": s.handleCreateCollection})
	api.Handle("/collections/{id}", methods{
		"GET":    s.handleGetCollection,
		"PUT":    s.handleUpdateCollection,
		"DELETE": s.handleDeleteCollection,
	})
	api.Handle("/collections/{id}/tasks", methods{"POST": s.handleAddCollectionTask})
	api.Handle("/collections/{id}/tasks/{taskID}", methods{
		"PUT":    s.handleUpdateCollectionTask,
		"DELETE": s.handleDeleteCollectionTask,
	})
	api.Handle("/collections/{id}/tasks/{taskID}/toggle", methods{"POST": s.handleToggleCollectionTask})
}

// Handler returns the router wrapped with request logging.
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.router
	h = hlog.AccessHandler(func(r *http.Request, status, size int, d time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Stringer("url", r.URL).
			Int("status", status).
			Int("size", size).
			Dur("duration", d).
			Msg("request")
	})(h)
	h = hlog.RemoteAddrHandler("ip")(h)
	h = hlog.RequestIDHandler("req_id", "X-Request-Id")(h)
	h = hlog.NewHandler(s.log)(h)
	return h
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, cfg config.ServerConfig) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", cfg.Addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-serverErr:
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
