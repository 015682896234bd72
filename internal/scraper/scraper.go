// Package scraper holds the scrape-side of the pipeline: pluggable source
// scrapers behind one capability interface, and the orchestrator that runs
// them and publishes what they find onto the raw stream.
package scraper

import (
	"context"

	"jobcompass/internal/events"
	"jobcompass/internal/models"
)

// Scraper is the capability a job source plugs in with. Orchestration
// iterates registered scrapers without knowing the concrete source count;
// disabled scrapers stay registered and are skipped.
type Scraper interface {
	Source() models.Source
	Scrape(ctx context.Context, params events.ScrapeParameters) ([]events.RawJobEvent, error)
	Enabled() bool
}

// Registry is an ordered collection of source scrapers.
type Registry struct {
	scrapers []Scraper
}

func NewRegistry(scrapers ...Scraper) *Registry {
	return &Registry{scrapers: scrapers}
}

func (r *Registry) Register(s Scraper) {
	r.scrapers = append(r.scrapers, s)
}

func (r *Registry) All() []Scraper {
	return r.scrapers
}
