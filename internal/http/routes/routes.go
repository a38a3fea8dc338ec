// Package routes serves the computed activity statistics over HTTP.
package routes

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/ridelog/ridestats/internal/jobs"
	"github.com/ridelog/ridestats/internal/store"
)

type Server struct {
	Router *chi.Mux
	Store  *store.Store
	Queue  *asynq.Client
	Log    zerolog.Logger
}

type ServerOptions struct {
	Store *store.Store
	Queue *asynq.Client
	Log   zerolog.Logger
}

func New(opts ServerOptions) *Server {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	s := &Server{Router: r, Store: opts.Store, Queue: opts.Queue, Log: opts.Log}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Get("/activities", s.listActivities)
	r.Get("/activities/{id}", s.getActivity)
	r.Get("/activities/{id}/statistics", s.getStatistics)
	r.Post("/activities/{id}/recompute", s.recompute)

	return s
}

func (s *Server) listActivities(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)
	activities, err := s.Store.Activities(r.Context(), limit, offset)
	if err != nil {
		s.serverError(w, err)
		return
	}
	if activities == nil {
		activities = []store.Activity{}
	}
	writeJSON(w, http.StatusOK, activities)
}

func (s *Server) getActivity(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	a, err := s.Store.Activity(r.Context(), id)
	if errors.Is(err, pgx.ErrNoRows) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		s.serverError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) getStatistics(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	values, err := s.Store.Statistics(r.Context(), id)
	if err != nil {
		s.serverError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, values)
}

func (s *Server) recompute(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	a, err := s.Store.Activity(r.Context(), id)
	if errors.Is(err, pgx.ErrNoRows) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		s.serverError(w, err)
		return
	}
	payload, _ := json.Marshal(jobs.ComputeActivityPayload{Path: a.Path})
	if _, err := s.Queue.EnqueueContext(r.Context(),
		asynq.NewTask(jobs.TaskComputeActivity, payload), asynq.Queue("compute")); err != nil {
		s.serverError(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) serverError(w http.ResponseWriter, err error) {
	s.Log.Error().Err(err).Msg("request failed")
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "bad activity id", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

func queryInt(r *http.Request, name string, fallback int) int {
	if v := r.URL.Query().Get(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return fallback
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
