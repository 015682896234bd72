package scraper

import (
	"context"
	"time"

	"jobcompass/internal/events"

	"go.uber.org/zap"
)

// RawPublisher is the slice of the event channel the orchestrator needs.
type RawPublisher interface {
	PublishRaw(ctx context.Context, event events.RawJobEvent) error
}

// LanguageGate is the boolean classifier applied to each posting before
// publication.
type LanguageGate interface {
	IsEnglish(text string) bool
}

// SeenCache suppresses republication of recently scraped URLs. MarkSeen
// reports whether the URL is new within the cache's window.
type SeenCache interface {
	MarkSeen(ctx context.Context, url string) (bool, error)
}

// Orchestrator runs every enabled scraper in the registry, gates each
// posting through the language filter, and publishes the survivors to the
// raw stream. One source failing never stops the others.
type Orchestrator struct {
	registry    *Registry
	publisher   RawPublisher
	gate        LanguageGate
	seen        SeenCache
	sourcePause time.Duration
	logger      *zap.Logger
}

// NewOrchestrator wires a scrape cycle. seen may be nil, in which case
// every gated posting is published.
func NewOrchestrator(registry *Registry, publisher RawPublisher, gate LanguageGate, seen SeenCache, sourcePause time.Duration, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		registry:    registry,
		publisher:   publisher,
		gate:        gate,
		seen:        seen,
		sourcePause: sourcePause,
		logger:      logger,
	}
}

// ScrapeAll runs one scrape cycle over all registered sources.
func (o *Orchestrator) ScrapeAll(ctx context.Context, params events.ScrapeParameters) {
	o.logger.Info("starting scrape cycle",
		zap.Int("max_job_age_days", params.MaxJobAgeDays),
		zap.Int("max_results", params.MaxResults),
		zap.String("skill", params.Skill),
		zap.String("location", params.Location),
	)

	var totalPublished int

	for _, s := range o.registry.All() {
		if ctx.Err() != nil {
			o.logger.Info("scrape cycle cancelled")
			return
		}

		if !s.Enabled() {
			o.logger.Info("skipping disabled scraper",
				zap.String("source", s.Source().String()),
			)
			continue
		}

		published, err := o.scrapeSource(ctx, s, params)
		if err != nil {
			o.logger.Error("failed to scrape source",
				zap.String("source", s.Source().String()),
				zap.Error(err),
			)
			continue
		}

		totalPublished += published

		// Pace between sources to stay under their rate limits.
		select {
		case <-ctx.Done():
			return
		case <-time.After(o.sourcePause):
		}
	}

	o.logger.Info("scrape cycle completed", zap.Int("published", totalPublished))
}

func (o *Orchestrator) scrapeSource(ctx context.Context, s Scraper, params events.ScrapeParameters) (int, error) {
	source := s.Source()
	o.logger.Info("scraping source", zap.String("source", source.String()))

	jobs, err := s.Scrape(ctx, params)
	if err != nil {
		return 0, err
	}

	var published, filtered, deduped int
	for _, job := range jobs {
		if !o.gate.IsEnglish(job.Title + "\n" + job.Description) {
			filtered++
			continue
		}

		if o.seen != nil {
			fresh, err := o.seen.MarkSeen(ctx, job.URL)
			if err != nil {
				// Cache trouble must not drop postings; the upsert
				// downstream is idempotent anyway.
				o.logger.Warn("seen cache unavailable, publishing anyway",
					zap.String("url", job.URL),
					zap.Error(err),
				)
			} else if !fresh {
				deduped++
				continue
			}
		}

		if err := o.publisher.PublishRaw(ctx, job); err != nil {
			o.logger.Error("failed to publish raw job",
				zap.String("source", source.String()),
				zap.String("url", job.URL),
				zap.Error(err),
			)
			continue
		}
		published++
	}

	o.logger.Info("scraped source",
		zap.String("source", source.String()),
		zap.Int("scraped", len(jobs)),
		zap.Int("filtered", filtered),
		zap.Int("deduped", deduped),
		zap.Int("published", published),
	)

	return published, nil
}
