package catalog

import (
	"context"
	"fmt"
	"time"

	"jobcompass/internal/models"

	"go.uber.org/zap"
)

func (s *Service) ActiveJobs(ctx context.Context) ([]models.Job, error) {
	return s.store.ListActiveJobs(ctx)
}

func (s *Service) JobByID(ctx context.Context, id int64) (*models.Job, error) {
	job, err := s.store.GetJobByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, fmt.Errorf("job %d: %w", id, models.ErrNotFound)
	}
	return job, nil
}

func (s *Service) JobByURL(ctx context.Context, url string) (*models.Job, error) {
	job, err := s.store.GetJobByURL(ctx, url)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, fmt.Errorf("job %s: %w", url, models.ErrNotFound)
	}
	return job, nil
}

// JobBySourceExternalID looks a job up by the identifier its source
// assigned, for sources that expose one.
func (s *Service) JobBySourceExternalID(ctx context.Context, source models.Source, externalID string) (*models.Job, error) {
	job, err := s.store.GetJobBySourceExternalID(ctx, source, externalID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, fmt.Errorf("job %s/%s: %w", source, externalID, models.ErrNotFound)
	}
	return job, nil
}

// RecentJobs returns active jobs posted within the last N days.
func (s *Service) RecentJobs(ctx context.Context, days int) ([]models.Job, error) {
	since := s.now().UTC().AddDate(0, 0, -days).Truncate(24 * time.Hour)
	return s.store.ListRecentJobs(ctx, since)
}

func (s *Service) JobsBySkills(ctx context.Context, skillNames []string) ([]models.Job, error) {
	return s.store.ListJobsBySkills(ctx, skillNames)
}

func (s *Service) JobsByLocation(ctx context.Context, location string) ([]models.Job, error) {
	return s.store.ListJobsByLocation(ctx, location)
}

func (s *Service) JobsByCompany(ctx context.Context, companyName string) ([]models.Job, error) {
	return s.store.ListJobsByCompanyName(ctx, companyName)
}

func (s *Service) JobsBySource(ctx context.Context, source models.Source) ([]models.Job, error) {
	return s.store.ListJobsBySource(ctx, source)
}

// DeactivateJob soft-deletes a posting. A later update event for the same
// URL will reactivate it.
func (s *Service) DeactivateJob(ctx context.Context, id int64) error {
	err := s.store.DeactivateJob(ctx, id)
	if err == nil {
		s.logger.Info("deactivated job", zap.Int64("job_id", id))
	}
	return err
}

// AddJobSkills resolves each name through the skill resolver and links the
// results to the job. Blank names are skipped, duplicate links are no-ops.
func (s *Service) AddJobSkills(ctx context.Context, jobID int64, names []string, category models.SkillCategory) ([]models.Skill, error) {
	job, err := s.store.GetJobByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, fmt.Errorf("job %d: %w", jobID, models.ErrNotFound)
	}

	for _, name := range names {
		skill, err := s.store.FindOrCreateSkill(ctx, name, category)
		if err != nil {
			return nil, fmt.Errorf("resolve skill %q: %w", name, err)
		}
		if skill == nil {
			continue
		}
		if err := s.store.LinkJobSkill(ctx, jobID, skill.ID); err != nil {
			return nil, err
		}
	}

	return s.store.ListJobSkills(ctx, jobID)
}

func (s *Service) JobSkills(ctx context.Context, jobID int64) ([]models.Skill, error) {
	return s.store.ListJobSkills(ctx, jobID)
}
