// Package api is the HTTP surface over the catalog: job queries, the
// application tracker, and the scrape trigger.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"jobcompass/internal/events"
	"jobcompass/internal/models"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Catalog is the slice of the catalog service the API serves.
type Catalog interface {
	ActiveJobs(ctx context.Context) ([]models.Job, error)
	JobByID(ctx context.Context, id int64) (*models.Job, error)
	RecentJobs(ctx context.Context, days int) ([]models.Job, error)
	JobsBySkills(ctx context.Context, skillNames []string) ([]models.Job, error)
	JobsByLocation(ctx context.Context, location string) ([]models.Job, error)
	JobsByCompany(ctx context.Context, companyName string) ([]models.Job, error)
	JobsBySource(ctx context.Context, source models.Source) ([]models.Job, error)
	DeactivateJob(ctx context.Context, id int64) error
	AddJobSkills(ctx context.Context, jobID int64, names []string, category models.SkillCategory) ([]models.Skill, error)
	JobSkills(ctx context.Context, jobID int64) ([]models.Skill, error)

	Apply(ctx context.Context, jobID int64, userEmail, notes string) (*models.Application, error)
	ApplicationByID(ctx context.Context, id int64) (*models.Application, error)
	ApplicationsByUser(ctx context.Context, userEmail string) ([]models.Application, error)
	ApplicationsByUserAndStatus(ctx context.Context, userEmail string, status models.ApplicationStatus) ([]models.Application, error)
	ApplicationsByJob(ctx context.Context, jobID int64) ([]models.Application, error)
	UpdateApplicationStatus(ctx context.Context, id int64, status models.ApplicationStatus) (*models.Application, error)
	UpdateApplicationNotes(ctx context.Context, id int64, notes string) (*models.Application, error)
}

// ScrapeTrigger starts a scrape cycle on demand.
type ScrapeTrigger interface {
	ScrapeAll(ctx context.Context, params events.ScrapeParameters)
}

type Server struct {
	catalog Catalog
	trigger ScrapeTrigger
	srv     *http.Server
	logger  *zap.Logger
}

func NewServer(addr string, catalog Catalog, trigger ScrapeTrigger, logger *zap.Logger) *Server {
	s := &Server{
		catalog: catalog,
		trigger: trigger,
		logger:  logger,
	}

	r := mux.NewRouter()
	r.Use(Recovery(logger))
	r.Use(RequestLogger(logger))

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	r.HandleFunc("/api/jobs", s.handleListJobs).Methods(http.MethodGet)
	r.HandleFunc("/api/jobs/recent", s.handleRecentJobs).Methods(http.MethodGet)
	r.HandleFunc("/api/jobs/search/by-skills", s.handleJobsBySkills).Methods(http.MethodGet)
	r.HandleFunc("/api/jobs/search/by-location", s.handleJobsByLocation).Methods(http.MethodGet)
	r.HandleFunc("/api/jobs/search/by-company", s.handleJobsByCompany).Methods(http.MethodGet)
	r.HandleFunc("/api/jobs/source/{source}", s.handleJobsBySource).Methods(http.MethodGet)
	r.HandleFunc("/api/jobs/{id:[0-9]+}", s.handleGetJob).Methods(http.MethodGet)
	r.HandleFunc("/api/jobs/{id:[0-9]+}", s.handleDeactivateJob).Methods(http.MethodDelete)
	r.HandleFunc("/api/jobs/{id:[0-9]+}/skills", s.handleJobSkills).Methods(http.MethodGet)
	r.HandleFunc("/api/jobs/{id:[0-9]+}/skills", s.handleAddJobSkills).Methods(http.MethodPost)

	r.HandleFunc("/api/applications", s.handleCreateApplication).Methods(http.MethodPost)
	r.HandleFunc("/api/applications/user/{email}", s.handleApplicationsByUser).Methods(http.MethodGet)
	r.HandleFunc("/api/applications/job/{jobID:[0-9]+}", s.handleApplicationsByJob).Methods(http.MethodGet)
	r.HandleFunc("/api/applications/{id:[0-9]+}", s.handleGetApplication).Methods(http.MethodGet)
	r.HandleFunc("/api/applications/{id:[0-9]+}/status", s.handleUpdateApplicationStatus).Methods(http.MethodPut)
	r.HandleFunc("/api/applications/{id:[0-9]+}/notes", s.handleUpdateApplicationNotes).Methods(http.MethodPut)

	r.HandleFunc("/api/scrape", s.handleTriggerScrape).Methods(http.MethodPost)

	s.srv = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return s
}

// Handler exposes the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Start serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("HTTP server listening", zap.String("addr", s.srv.Addr))
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return s.srv.Shutdown(shutdownCtx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
	}
}

// writeError maps domain errors onto HTTP statuses: missing entities are
// 404, uniqueness conflicts 409, bad input 400, everything else 500 with
// the detail kept out of the response body.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var status int
	message := err.Error()

	switch {
	case errors.Is(err, models.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrDuplicate):
		status = http.StatusConflict
	case errors.Is(err, models.ErrMalformedEvent):
		status = http.StatusBadRequest
	default:
		status = http.StatusInternalServerError
		message = "internal error"
		s.logger.Error("request failed", zap.Error(err))
	}

	s.writeJSON(w, status, map[string]string{"error": message})
}

func (s *Server) writeBadRequest(w http.ResponseWriter, message string) {
	s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": message})
}
