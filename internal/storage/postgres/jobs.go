package postgres

import (
	"context"
	"fmt"
	"time"

	"jobcompass/internal/models"

	"github.com/gocraft/dbr/v2"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

// GetJobByURL returns the job for the given URL or (nil, nil) when no row
// exists. URL is the authoritative dedup key for the upsert flow.
func (s *Store) GetJobByURL(ctx context.Context, url string) (*models.Job, error) {
	var job models.Job

	err := s.sess.
		Select("*").
		From("jobs").
		Where("url = ?", url).
		LoadOneContext(ctx, &job)

	if err == dbr.ErrNotFound {
		return nil, nil
	}

	if err != nil {
		s.logger.Error("failed to get job by url",
			zap.String("url", url),
			zap.Error(err),
		)
		return nil, fmt.Errorf("get job by url: %w", err)
	}

	return &job, nil
}

func (s *Store) GetJobByID(ctx context.Context, id int64) (*models.Job, error) {
	var job models.Job

	err := s.sess.
		Select("*").
		From("jobs").
		Where("id = ?", id).
		LoadOneContext(ctx, &job)

	if err == dbr.ErrNotFound {
		return nil, nil
	}

	if err != nil {
		s.logger.Error("failed to get job by id",
			zap.Int64("job_id", id),
			zap.Error(err),
		)
		return nil, fmt.Errorf("get job by id: %w", err)
	}

	return &job, nil
}

// GetJobBySourceExternalID is the secondary lookup path for sources that
// expose their own posting identifier. Misses return (nil, nil).
func (s *Store) GetJobBySourceExternalID(ctx context.Context, source models.Source, externalID string) (*models.Job, error) {
	var job models.Job

	err := s.sess.
		Select("*").
		From("jobs").
		Where("source = ? AND external_id = ?", source, externalID).
		LoadOneContext(ctx, &job)

	if err == dbr.ErrNotFound {
		return nil, nil
	}

	if err != nil {
		s.logger.Error("failed to get job by source and external id",
			zap.String("source", source.String()),
			zap.String("external_id", externalID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("get job by source and external id: %w", err)
	}

	return &job, nil
}

// InsertJob creates a new job row and fills in the generated id and
// timestamps. Returns models.ErrDuplicate when another writer created a row
// for the same URL first; callers resolve that by re-reading.
func (s *Store) InsertJob(ctx context.Context, job *models.Job) error {
	query := `
		INSERT INTO jobs (
			external_id, title, description, location, salary_range, url,
			posted_date, job_age_days, source, scraped_at, company_id, is_active
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (url) DO NOTHING
		RETURNING id, created_at, updated_at
	`

	err := s.sess.
		SelectBySql(query,
			job.ExternalID,
			job.Title,
			job.Description,
			job.Location,
			job.SalaryRange,
			job.URL,
			job.PostedDate,
			job.JobAgeDays,
			job.Source,
			job.ScrapedAt,
			job.CompanyID,
			job.IsActive,
		).
		LoadOneContext(ctx, job)

	if err == dbr.ErrNotFound {
		// Conflicting url inserted concurrently.
		return models.ErrDuplicate
	}

	if err != nil {
		s.logger.Error("failed to insert job",
			zap.String("url", job.URL),
			zap.Error(err),
		)
		return fmt.Errorf("insert job: %w", err)
	}

	return nil
}

// UpdateJob overwrites the mutable fields of an existing job. Identity
// fields (id, url) are never touched. The row is always reactivated.
func (s *Store) UpdateJob(ctx context.Context, job *models.Job) error {
	query := `
		UPDATE jobs SET
			external_id = $1,
			title = $2,
			description = $3,
			location = $4,
			salary_range = $5,
			posted_date = $6,
			job_age_days = $7,
			scraped_at = $8,
			company_id = $9,
			is_active = TRUE,
			updated_at = NOW()
		WHERE id = $10
	`

	result, err := s.sess.
		UpdateBySql(query,
			job.ExternalID,
			job.Title,
			job.Description,
			job.Location,
			job.SalaryRange,
			job.PostedDate,
			job.JobAgeDays,
			job.ScrapedAt,
			job.CompanyID,
			job.ID,
		).
		ExecContext(ctx)

	if err != nil {
		s.logger.Error("failed to update job",
			zap.Int64("job_id", job.ID),
			zap.String("url", job.URL),
			zap.Error(err),
		)
		return fmt.Errorf("update job: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update job rows affected: %w", err)
	}
	if rows == 0 {
		return models.ErrNotFound
	}

	job.IsActive = true
	return nil
}

// DeactivateJob soft-deletes a posting. The pipeline never hard-deletes.
func (s *Store) DeactivateJob(ctx context.Context, id int64) error {
	result, err := s.sess.
		UpdateBySql(`UPDATE jobs SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, id).
		ExecContext(ctx)

	if err != nil {
		s.logger.Error("failed to deactivate job",
			zap.Int64("job_id", id),
			zap.Error(err),
		)
		return fmt.Errorf("deactivate job: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deactivate job rows affected: %w", err)
	}
	if rows == 0 {
		return models.ErrNotFound
	}

	return nil
}

func (s *Store) ListActiveJobs(ctx context.Context) ([]models.Job, error) {
	var jobs []models.Job

	_, err := s.sess.
		Select("*").
		From("jobs").
		Where("is_active = TRUE").
		OrderDesc("scraped_at").
		LoadContext(ctx, &jobs)

	if err != nil {
		s.logger.Error("failed to list active jobs", zap.Error(err))
		return nil, fmt.Errorf("list active jobs: %w", err)
	}

	return jobs, nil
}

// ListRecentJobs returns active jobs posted on or after the given date,
// newest first.
func (s *Store) ListRecentJobs(ctx context.Context, since time.Time) ([]models.Job, error) {
	var jobs []models.Job

	_, err := s.sess.
		Select("*").
		From("jobs").
		Where("posted_date >= ? AND is_active = TRUE", since).
		OrderDesc("posted_date").
		LoadContext(ctx, &jobs)

	if err != nil {
		s.logger.Error("failed to list recent jobs",
			zap.Time("since", since),
			zap.Error(err),
		)
		return nil, fmt.Errorf("list recent jobs: %w", err)
	}

	return jobs, nil
}

// ListJobsBySkills returns active jobs tagged with any of the given skill
// names. Names are matched exactly, the way the resolver stores them.
func (s *Store) ListJobsBySkills(ctx context.Context, skillNames []string) ([]models.Job, error) {
	if len(skillNames) == 0 {
		return []models.Job{}, nil
	}

	query := `
		SELECT DISTINCT j.* FROM jobs j
		JOIN job_skills js ON js.job_id = j.id
		JOIN skills s ON s.id = js.skill_id
		WHERE s.name = ANY($1) AND j.is_active = TRUE
	`

	var jobs []models.Job

	_, err := s.sess.
		SelectBySql(query, pq.Array(skillNames)).
		LoadContext(ctx, &jobs)

	if err != nil {
		s.logger.Error("failed to list jobs by skills",
			zap.Strings("skills", skillNames),
			zap.Error(err),
		)
		return nil, fmt.Errorf("list jobs by skills: %w", err)
	}

	return jobs, nil
}

// ListJobsByLocation matches the location column by case-insensitive
// substring.
func (s *Store) ListJobsByLocation(ctx context.Context, location string) ([]models.Job, error) {
	var jobs []models.Job

	_, err := s.sess.
		Select("*").
		From("jobs").
		Where("location ILIKE ? AND is_active = TRUE", "%"+location+"%").
		LoadContext(ctx, &jobs)

	if err != nil {
		s.logger.Error("failed to list jobs by location",
			zap.String("location", location),
			zap.Error(err),
		)
		return nil, fmt.Errorf("list jobs by location: %w", err)
	}

	return jobs, nil
}

// ListJobsByCompanyName matches the linked company's name by
// case-insensitive substring.
func (s *Store) ListJobsByCompanyName(ctx context.Context, companyName string) ([]models.Job, error) {
	query := `
		SELECT j.* FROM jobs j
		JOIN companies c ON c.id = j.company_id
		WHERE c.name ILIKE $1 AND j.is_active = TRUE
	`

	var jobs []models.Job

	_, err := s.sess.
		SelectBySql(query, "%"+companyName+"%").
		LoadContext(ctx, &jobs)

	if err != nil {
		s.logger.Error("failed to list jobs by company name",
			zap.String("company", companyName),
			zap.Error(err),
		)
		return nil, fmt.Errorf("list jobs by company name: %w", err)
	}

	return jobs, nil
}

func (s *Store) ListJobsBySource(ctx context.Context, source models.Source) ([]models.Job, error) {
	var jobs []models.Job

	_, err := s.sess.
		Select("*").
		From("jobs").
		Where("source = ? AND is_active = TRUE", source).
		OrderDesc("scraped_at").
		LoadContext(ctx, &jobs)

	if err != nil {
		s.logger.Error("failed to list jobs by source",
			zap.String("source", source.String()),
			zap.Error(err),
		)
		return nil, fmt.Errorf("list jobs by source: %w", err)
	}

	return jobs, nil
}
