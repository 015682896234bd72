package catalog

import (
	"context"
	"fmt"

	"jobcompass/internal/models"

	"go.uber.org/zap"
)

// Apply records a user's intent to apply for a job. Fails with
// models.ErrNotFound when the job does not exist and models.ErrDuplicate
// when the user already has an application for it. The pre-check catches
// the common duplicate early; the store's unique constraint on
// (user_email, job_id) is what actually guards against races.
func (s *Service) Apply(ctx context.Context, jobID int64, userEmail, notes string) (*models.Application, error) {
	job, err := s.store.GetJobByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("lookup job: %w", err)
	}
	if job == nil {
		return nil, fmt.Errorf("job %d: %w", jobID, models.ErrNotFound)
	}

	existing, err := s.store.GetApplicationForUserAndJob(ctx, userEmail, jobID)
	if err != nil {
		return nil, fmt.Errorf("check existing application: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("user %s already applied to job %d: %w", userEmail, jobID, models.ErrDuplicate)
	}

	app := &models.Application{
		JobID:     jobID,
		UserEmail: userEmail,
		Status:    models.StatusApplied,
		AppliedAt: s.now().UTC(),
	}
	if notes != "" {
		app.Notes = &notes
	}

	if err := s.store.InsertApplication(ctx, app); err != nil {
		return nil, fmt.Errorf("create application: %w", err)
	}

	s.logger.Info("user applied to job",
		zap.String("user_email", userEmail),
		zap.Int64("job_id", jobID),
		zap.Int64("application_id", app.ID),
	)

	return app, nil
}

// UpdateApplicationStatus overwrites the status label unconditionally; the
// statuses form no enforced transition graph.
func (s *Service) UpdateApplicationStatus(ctx context.Context, id int64, status models.ApplicationStatus) (*models.Application, error) {
	if err := s.store.UpdateApplicationStatus(ctx, id, status); err != nil {
		return nil, err
	}

	s.logger.Info("updated application status",
		zap.Int64("application_id", id),
		zap.String("status", string(status)),
	)

	return s.getApplication(ctx, id)
}

func (s *Service) UpdateApplicationNotes(ctx context.Context, id int64, notes string) (*models.Application, error) {
	if err := s.store.UpdateApplicationNotes(ctx, id, notes); err != nil {
		return nil, err
	}

	return s.getApplication(ctx, id)
}

func (s *Service) ApplicationByID(ctx context.Context, id int64) (*models.Application, error) {
	return s.getApplication(ctx, id)
}

func (s *Service) ApplicationsByUser(ctx context.Context, userEmail string) ([]models.Application, error) {
	return s.store.ListApplicationsByUser(ctx, userEmail)
}

func (s *Service) ApplicationsByUserAndStatus(ctx context.Context, userEmail string, status models.ApplicationStatus) ([]models.Application, error) {
	return s.store.ListApplicationsByUserAndStatus(ctx, userEmail, status)
}

func (s *Service) ApplicationsByJob(ctx context.Context, jobID int64) ([]models.Application, error) {
	return s.store.ListApplicationsByJob(ctx, jobID)
}

func (s *Service) CountApplicationsByJob(ctx context.Context, jobID int64) (int64, error) {
	return s.store.CountApplicationsByJob(ctx, jobID)
}

func (s *Service) getApplication(ctx context.Context, id int64) (*models.Application, error) {
	app, err := s.store.GetApplicationByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, fmt.Errorf("application %d: %w", id, models.ErrNotFound)
	}
	return app, nil
}
