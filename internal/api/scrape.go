package api

import (
	"context"
	"encoding/json"
	"net/http"

	"jobcompass/internal/events"
)

type scrapeRequest struct {
	MaxJobAgeDays int    `json:"maxJobAgeDays,omitempty"`
	MaxResults    int    `json:"maxResults,omitempty"`
	Skill         string `json:"skill,omitempty"`
	Location      string `json:"location,omitempty"`
	AuthCookie    string `json:"authCookie,omitempty"`
}

// handleTriggerScrape kicks off a scrape cycle in the background and
// returns immediately; a cycle can take minutes and callers only need to
// know it was accepted.
func (s *Server) handleTriggerScrape(w http.ResponseWriter, r *http.Request) {
	params := events.DefaultScrapeParameters()

	if r.Body != nil && r.ContentLength != 0 {
		var req scrapeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeBadRequest(w, "invalid request body")
			return
		}

		if req.MaxJobAgeDays > 0 {
			params.MaxJobAgeDays = req.MaxJobAgeDays
		}
		if req.MaxResults > 0 {
			params.MaxResults = req.MaxResults
		}
		params.Skill = req.Skill
		params.Location = req.Location
		params.AuthCookie = req.AuthCookie
	}

	// Detached from the request context: the cycle outlives the response.
	go s.trigger.ScrapeAll(context.Background(), params)

	s.writeJSON(w, http.StatusAccepted, map[string]string{"status": "scrape started"})
}
