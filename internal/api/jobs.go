package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"jobcompass/internal/models"

	"github.com/gorilla/mux"
)

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := s.catalog.ActiveJobs(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, jobs)
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}

	job, err := s.catalog.JobByID(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, job)
}

func (s *Server) handleRecentJobs(w http.ResponseWriter, r *http.Request) {
	days := 7
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			s.writeBadRequest(w, "days must be a positive integer")
			return
		}
		days = n
	}

	jobs, err := s.catalog.RecentJobs(r.Context(), days)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, jobs)
}

func (s *Server) handleJobsBySkills(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("skills")
	if raw == "" {
		s.writeBadRequest(w, "skills query parameter is required")
		return
	}

	var skills []string
	for _, skill := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(skill); trimmed != "" {
			skills = append(skills, trimmed)
		}
	}

	jobs, err := s.catalog.JobsBySkills(r.Context(), skills)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, jobs)
}

func (s *Server) handleJobsByLocation(w http.ResponseWriter, r *http.Request) {
	location := r.URL.Query().Get("location")
	if location == "" {
		s.writeBadRequest(w, "location query parameter is required")
		return
	}

	jobs, err := s.catalog.JobsByLocation(r.Context(), location)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, jobs)
}

func (s *Server) handleJobsByCompany(w http.ResponseWriter, r *http.Request) {
	company := r.URL.Query().Get("company")
	if company == "" {
		s.writeBadRequest(w, "company query parameter is required")
		return
	}

	jobs, err := s.catalog.JobsByCompany(r.Context(), company)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, jobs)
}

func (s *Server) handleJobsBySource(w http.ResponseWriter, r *http.Request) {
	source := models.Source(mux.Vars(r)["source"])

	jobs, err := s.catalog.JobsBySource(r.Context(), source)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, jobs)
}

func (s *Server) handleDeactivateJob(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}

	if err := s.catalog.DeactivateJob(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleJobSkills(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}

	skills, err := s.catalog.JobSkills(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, skills)
}

type addSkillsRequest struct {
	Skills   []string `json:"skills"`
	Category string   `json:"category,omitempty"`
}

func (s *Server) handleAddJobSkills(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}

	var req addSkillsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeBadRequest(w, "invalid request body")
		return
	}
	if len(req.Skills) == 0 {
		s.writeBadRequest(w, "skills must not be empty")
		return
	}

	skills, err := s.catalog.AddJobSkills(r.Context(), id, req.Skills, models.SkillCategory(req.Category))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, skills)
}

// pathID parses a numeric path variable, answering 400 itself on garbage.
func (s *Server) pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil {
		s.writeBadRequest(w, "invalid "+name)
		return 0, false
	}
	return id, true
}
