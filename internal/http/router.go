// Package http exposes the interview scheduling API and health
// endpoints of the service.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"interview-live-service/internal/app"
	"interview-live-service/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// HealthChecker probes the remote turn-processing backend.
type HealthChecker interface {
	Health(ctx context.Context) bool
}

// createInterviewRequest is the scheduling payload. Date is
// YYYY-MM-DD, Time is HH:MM in 24h local time.
type createInterviewRequest struct {
	CandidateName  string   `json:"candidateName"`
	CandidateEmail string   `json:"candidateEmail"`
	Position       string   `json:"position"`
	Date           string   `json:"date"`
	Time           string   `json:"time"`
	Duration       string   `json:"duration"`
	Type           string   `json:"type"`
	Interviewers   []string `json:"interviewers"`
	Notes          string   `json:"notes"`
}

type listInterviewsResponse struct {
	Upcoming []*store.Interview `json:"upcoming"`
	Past     []*store.Interview `json:"past"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// API bundles the dependencies of the HTTP handlers.
type API struct {
	interviews store.Repository
	backend    HealthChecker
	logger     zerolog.Logger
}

// NewRouter constructs the HTTP router for the service.
func NewRouter(application *app.Application, interviews store.Repository, backend HealthChecker) http.Handler {
	api := &API{
		interviews: interviews,
		backend:    backend,
		logger:     application.Logger.With().Str("component", "http").Logger(),
	}

	r := chi.NewRouter()

	// Basic middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	// Health endpoints
	r.Get("/v1/liveness", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/v1/readiness", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	// API routes
	r.Route("/v1", func(r chi.Router) {
		r.Get("/backend/health", api.backendHealth)
		r.Route("/interviews", func(r chi.Router) {
			r.Post("/", api.createInterview)
			r.Get("/", api.listInterviews)
			r.Get("/{id}", api.getInterview)
			r.Post("/{id}/cancel", api.cancelInterview)
			r.Post("/{id}/complete", api.completeInterview)
		})
	})

	return r
}

func (a *API) createInterview(w http.ResponseWriter, r *http.Request) {
	var req createInterviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validateCreate(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	scheduledAt, err := parseSchedule(req.Date, req.Time)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	iv := &store.Interview{
		CandidateName:  req.CandidateName,
		CandidateEmail: req.CandidateEmail,
		Position:       req.Position,
		Date:           req.Date,
		Time:           req.Time,
		Duration:       req.Duration,
		Type:           req.Type,
		Interviewers:   req.Interviewers,
		Notes:          req.Notes,
		ScheduledAt:    scheduledAt,
	}
	if err := a.interviews.Create(r.Context(), iv); err != nil {
		a.logger.Error().Err(err).Msg("Failed to create interview")
		writeError(w, http.StatusInternalServerError, "failed to create interview")
		return
	}

	a.logger.Info().
		Str("interviewId", iv.ID).
		Str("candidate", iv.CandidateName).
		Time("scheduledAt", iv.ScheduledAt).
		Msg("Interview scheduled")
	writeJSON(w, http.StatusCreated, iv)
}

func (a *API) listInterviews(w http.ResponseWriter, r *http.Request) {
	all, err := a.interviews.List(r.Context())
	if err != nil {
		a.logger.Error().Err(err).Msg("Failed to list interviews")
		writeError(w, http.StatusInternalServerError, "failed to list interviews")
		return
	}
	upcoming, past := store.Partition(all, time.Now())
	if upcoming == nil {
		upcoming = []*store.Interview{}
	}
	if past == nil {
		past = []*store.Interview{}
	}
	writeJSON(w, http.StatusOK, listInterviewsResponse{Upcoming: upcoming, Past: past})
}

func (a *API) getInterview(w http.ResponseWriter, r *http.Request) {
	iv, err := a.interviews.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "interview not found")
			return
		}
		a.logger.Error().Err(err).Msg("Failed to get interview")
		writeError(w, http.StatusInternalServerError, "failed to get interview")
		return
	}
	writeJSON(w, http.StatusOK, iv)
}

func (a *API) cancelInterview(w http.ResponseWriter, r *http.Request) {
	a.updateStatus(w, r, store.StatusCancelled)
}

func (a *API) completeInterview(w http.ResponseWriter, r *http.Request) {
	a.updateStatus(w, r, store.StatusCompleted)
}

func (a *API) updateStatus(w http.ResponseWriter, r *http.Request, status store.Status) {
	id := chi.URLParam(r, "id")
	if err := a.interviews.UpdateStatus(r.Context(), id, status); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "interview not found")
			return
		}
		a.logger.Error().Err(err).Str("interviewId", id).Msg("Failed to update interview status")
		writeError(w, http.StatusInternalServerError, "failed to update interview")
		return
	}
	iv, err := a.interviews.Get(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load interview")
		return
	}
	writeJSON(w, http.StatusOK, iv)
}

func (a *API) backendHealth(w http.ResponseWriter, r *http.Request) {
	healthy := a.backend.Health(r.Context())
	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]bool{"healthy": healthy})
}

func validateCreate(req *createInterviewRequest) error {
	if strings.TrimSpace(req.CandidateName) == "" {
		return errors.New("candidateName is required")
	}
	if req.Date == "" || req.Time == "" {
		return errors.New("date and time are required")
	}
	return nil
}

func parseSchedule(date, timeOfDay string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02 15:04", date+" "+timeOfDay, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date or time: expected YYYY-MM-DD and HH:MM")
	}
	return t, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
