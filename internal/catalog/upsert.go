package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"jobcompass/internal/events"
	"jobcompass/internal/models"

	"go.uber.org/zap"
)

// upsertRetries bounds the find-then-write loop. One retry is enough: a
// retry only happens after losing a constraint race, and the winner's row
// is then guaranteed to exist.
const upsertRetries = 2

// UpsertRaw applies a raw scrape event to the catalog: create the job if
// its URL is new, otherwise overwrite the scraped fields on the existing
// row. Idempotent under redelivery, last-write-wins under reordering.
func (s *Service) UpsertRaw(ctx context.Context, event events.RawJobEvent) (*models.Job, error) {
	if err := validateEvent(event.URL, event.Title); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	posted := ParsePostedDate(event.PostedDate, now)
	if posted == nil && strings.TrimSpace(event.PostedDate) != "" {
		s.logger.Warn("unparseable posted date, storing null",
			zap.String("url", event.URL),
			zap.String("posted_date", event.PostedDate),
		)
	}

	return s.upsert(ctx, event.URL, event.Source, event.Company, now, func(job *models.Job) {
		job.Title = event.Title
		job.Location = nullIfBlank(event.Location)
		job.Description = nullIfBlank(event.Description)
		job.PostedDate = posted
		job.JobAgeDays = ageInDays(posted, now)
		// An event without the source's identifier never clears one a
		// previous event recorded.
		if id := strings.TrimSpace(event.ExternalID); id != "" {
			job.ExternalID = &id
		}
	})
}

// UpsertProcessed applies an externally normalized event through the same
// path. The only difference from the raw path is which fields the event
// carries: a typed posting date, a precomputed age, a salary string.
func (s *Service) UpsertProcessed(ctx context.Context, event events.ProcessedJobEvent) (*models.Job, error) {
	if err := validateEvent(event.URL, event.Title); err != nil {
		return nil, err
	}

	now := s.now().UTC()

	return s.upsert(ctx, event.URL, event.Source, event.Company, now, func(job *models.Job) {
		job.Title = event.Title
		job.Location = nullIfBlank(event.Location)
		job.SalaryRange = nullIfBlank(event.Salary)
		job.PostedDate = event.PostedDate
		job.JobAgeDays = event.JobAgeInDays
	})
}

// upsert is the single entry point both event kinds converge on. overwrite
// mutates the job (new or existing) with the event's fields; identity
// (id, url) and the stored source are never rewritten on update.
//
// Concurrent creates for the same URL are serialized by the store's unique
// constraint: the losing insert comes back as ErrDuplicate and the loop
// re-reads the winner's row, taking the update path instead. The company is
// resolved before the job row is written so a resolver failure cannot
// leave a half-written job behind.
func (s *Service) upsert(ctx context.Context, url string, source models.Source, company string, scrapedAt time.Time, overwrite func(*models.Job)) (*models.Job, error) {
	for attempt := 0; attempt < upsertRetries; attempt++ {
		existing, err := s.store.GetJobByURL(ctx, url)
		if err != nil {
			return nil, fmt.Errorf("lookup job: %w", err)
		}

		if existing == nil {
			job := &models.Job{
				URL:       url,
				Source:    source,
				ScrapedAt: scrapedAt,
				IsActive:  true,
			}
			overwrite(job)

			if err := s.attachCompany(ctx, job, company); err != nil {
				return nil, err
			}

			err = s.store.InsertJob(ctx, job)
			if errors.Is(err, models.ErrDuplicate) {
				// Another worker created this URL between our read and
				// write. Re-read and update instead.
				s.logger.Debug("lost create race, retrying as update",
					zap.String("url", url),
				)
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("create job: %w", err)
			}

			s.logger.Info("created job",
				zap.Int64("job_id", job.ID),
				zap.String("url", url),
				zap.String("source", source.String()),
			)
			return job, nil
		}

		existing.ScrapedAt = scrapedAt
		overwrite(existing)

		if err := s.attachCompany(ctx, existing, company); err != nil {
			return nil, err
		}

		// An update always reactivates a previously deactivated posting.
		existing.IsActive = true

		err = s.store.UpdateJob(ctx, existing)
		if errors.Is(err, models.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("update job: %w", err)
		}

		s.logger.Info("updated job",
			zap.Int64("job_id", existing.ID),
			zap.String("url", url),
		)
		return existing, nil
	}

	return nil, fmt.Errorf("upsert job %s: retries exhausted", url)
}

// attachCompany resolves the company name and links it to the job. A blank
// name means "no company supplied": no resolver call, and any existing
// company link is left untouched.
func (s *Service) attachCompany(ctx context.Context, job *models.Job, name string) error {
	if strings.TrimSpace(name) == "" {
		return nil
	}

	company, err := s.store.FindOrCreateCompany(ctx, name)
	if err != nil {
		return fmt.Errorf("resolve company %q: %w", name, err)
	}
	if company != nil {
		job.CompanyID = &company.ID
	}
	return nil
}

func validateEvent(url, title string) error {
	if strings.TrimSpace(url) == "" {
		return fmt.Errorf("%w: missing url", models.ErrMalformedEvent)
	}
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: missing title", models.ErrMalformedEvent)
	}
	return nil
}

func nullIfBlank(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
