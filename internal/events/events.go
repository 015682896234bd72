// Package events defines the wire types that flow over the job streams.
// Raw events come straight off a scraper; processed events carry fields
// already normalized by an external enrichment step. Both share the posting
// URL as their identity key and both drive the same upsert path.
package events

import (
	"time"

	"jobcompass/internal/models"
)

// RawJobEvent is a minimally-shaped posting as scraped. PostedDate is free
// text from the site ("2 days ago"), not a timestamp.
type RawJobEvent struct {
	Source      models.Source `json:"source"`
	ExternalID  string        `json:"externalId,omitempty"`
	Title       string        `json:"title"`
	Company     string        `json:"company,omitempty"`
	Location    string        `json:"location,omitempty"`
	Description string        `json:"description,omitempty"`
	URL         string        `json:"url"`
	PostedDate  string        `json:"postedDate,omitempty"`
	ScrapedAt   time.Time     `json:"scrapedAt"`
}

// ProcessedJobEvent is a posting after external normalization: typed posting
// date, precomputed age and a standardized salary string.
type ProcessedJobEvent struct {
	Title        string        `json:"title"`
	Company      string        `json:"company,omitempty"`
	Location     string        `json:"location,omitempty"`
	Salary       string        `json:"salary,omitempty"`
	URL          string        `json:"url"`
	PostedDate   *time.Time    `json:"postedDate,omitempty"`
	Source       models.Source `json:"source"`
	JobAgeInDays *int          `json:"jobAgeInDays,omitempty"`
}

// ScrapeParameters bounds a single scrape invocation.
type ScrapeParameters struct {
	MaxJobAgeDays int    `json:"maxJobAgeDays"`
	MaxResults    int    `json:"maxResults"`
	Skill         string `json:"skill,omitempty"`
	Location      string `json:"location,omitempty"`
	AuthCookie    string `json:"-"`
}

// DefaultScrapeParameters returns the baseline bounds: postings from the
// last week, at most 20 per source.
func DefaultScrapeParameters() ScrapeParameters {
	return ScrapeParameters{
		MaxJobAgeDays: 7,
		MaxResults:    20,
	}
}
