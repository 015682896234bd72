package api

import (
	"encoding/json"
	"net/http"

	"jobcompass/internal/models"

	"github.com/gorilla/mux"
)

type createApplicationRequest struct {
	JobID     int64  `json:"jobId"`
	UserEmail string `json:"userEmail"`
	Notes     string `json:"notes,omitempty"`
}

func (s *Server) handleCreateApplication(w http.ResponseWriter, r *http.Request) {
	var req createApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeBadRequest(w, "invalid request body")
		return
	}
	if req.JobID == 0 || req.UserEmail == "" {
		s.writeBadRequest(w, "jobId and userEmail are required")
		return
	}

	app, err := s.catalog.Apply(r.Context(), req.JobID, req.UserEmail, req.Notes)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, app)
}

func (s *Server) handleGetApplication(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}

	app, err := s.catalog.ApplicationByID(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, app)
}

func (s *Server) handleApplicationsByUser(w http.ResponseWriter, r *http.Request) {
	email := mux.Vars(r)["email"]

	if raw := r.URL.Query().Get("status"); raw != "" {
		status, err := models.ParseApplicationStatus(raw)
		if err != nil {
			s.writeBadRequest(w, err.Error())
			return
		}

		apps, err := s.catalog.ApplicationsByUserAndStatus(r.Context(), email, status)
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, apps)
		return
	}

	apps, err := s.catalog.ApplicationsByUser(r.Context(), email)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, apps)
}

func (s *Server) handleApplicationsByJob(w http.ResponseWriter, r *http.Request) {
	jobID, ok := s.pathID(w, r, "jobID")
	if !ok {
		return
	}

	apps, err := s.catalog.ApplicationsByJob(r.Context(), jobID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, apps)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) handleUpdateApplicationStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeBadRequest(w, "invalid request body")
		return
	}

	status, err := models.ParseApplicationStatus(req.Status)
	if err != nil {
		s.writeBadRequest(w, err.Error())
		return
	}

	app, err := s.catalog.UpdateApplicationStatus(r.Context(), id, status)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, app)
}

type updateNotesRequest struct {
	Notes string `json:"notes"`
}

func (s *Server) handleUpdateApplicationNotes(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}

	var req updateNotesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeBadRequest(w, "invalid request body")
		return
	}

	app, err := s.catalog.UpdateApplicationNotes(r.Context(), id, req.Notes)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, app)
}
