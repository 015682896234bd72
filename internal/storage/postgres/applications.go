package postgres

import (
	"context"
	"fmt"

	"jobcompass/internal/models"

	"github.com/gocraft/dbr/v2"
	"go.uber.org/zap"
)

// InsertApplication creates an application row and fills in the generated
// id and timestamps. Returns models.ErrDuplicate when the (user_email,
// job_id) pair already has an application; the unique constraint is the
// authoritative guard, the caller's pre-check only produces a friendlier
// path for the common case.
func (s *Store) InsertApplication(ctx context.Context, app *models.Application) error {
	query := `
		INSERT INTO applications (job_id, user_email, status, applied_at, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := s.sess.
		SelectBySql(query,
			app.JobID,
			app.UserEmail,
			app.Status,
			app.AppliedAt,
			app.Notes,
		).
		LoadOneContext(ctx, app)

	if err != nil {
		if isUniqueViolation(err) {
			return models.ErrDuplicate
		}
		s.logger.Error("failed to insert application",
			zap.Int64("job_id", app.JobID),
			zap.String("user_email", app.UserEmail),
			zap.Error(err),
		)
		return fmt.Errorf("insert application: %w", err)
	}

	return nil
}

func (s *Store) GetApplicationByID(ctx context.Context, id int64) (*models.Application, error) {
	var app models.Application

	err := s.sess.
		Select("*").
		From("applications").
		Where("id = ?", id).
		LoadOneContext(ctx, &app)

	if err == dbr.ErrNotFound {
		return nil, nil
	}

	if err != nil {
		s.logger.Error("failed to get application by id",
			zap.Int64("application_id", id),
			zap.Error(err),
		)
		return nil, fmt.Errorf("get application by id: %w", err)
	}

	return &app, nil
}

func (s *Store) GetApplicationForUserAndJob(ctx context.Context, userEmail string, jobID int64) (*models.Application, error) {
	var app models.Application

	err := s.sess.
		Select("*").
		From("applications").
		Where("user_email = ? AND job_id = ?", userEmail, jobID).
		LoadOneContext(ctx, &app)

	if err == dbr.ErrNotFound {
		return nil, nil
	}

	if err != nil {
		s.logger.Error("failed to get application for user and job",
			zap.String("user_email", userEmail),
			zap.Int64("job_id", jobID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("get application for user and job: %w", err)
	}

	return &app, nil
}

func (s *Store) ListApplicationsByUser(ctx context.Context, userEmail string) ([]models.Application, error) {
	var apps []models.Application

	_, err := s.sess.
		Select("*").
		From("applications").
		Where("user_email = ?", userEmail).
		OrderDesc("applied_at").
		LoadContext(ctx, &apps)

	if err != nil {
		s.logger.Error("failed to list applications by user",
			zap.String("user_email", userEmail),
			zap.Error(err),
		)
		return nil, fmt.Errorf("list applications by user: %w", err)
	}

	return apps, nil
}

func (s *Store) ListApplicationsByUserAndStatus(ctx context.Context, userEmail string, status models.ApplicationStatus) ([]models.Application, error) {
	var apps []models.Application

	_, err := s.sess.
		Select("*").
		From("applications").
		Where("user_email = ? AND status = ?", userEmail, status).
		OrderDesc("applied_at").
		LoadContext(ctx, &apps)

	if err != nil {
		s.logger.Error("failed to list applications by user and status",
			zap.String("user_email", userEmail),
			zap.String("status", string(status)),
			zap.Error(err),
		)
		return nil, fmt.Errorf("list applications by user and status: %w", err)
	}

	return apps, nil
}

func (s *Store) ListApplicationsByJob(ctx context.Context, jobID int64) ([]models.Application, error) {
	var apps []models.Application

	_, err := s.sess.
		Select("*").
		From("applications").
		Where("job_id = ?", jobID).
		OrderDesc("applied_at").
		LoadContext(ctx, &apps)

	if err != nil {
		s.logger.Error("failed to list applications by job",
			zap.Int64("job_id", jobID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("list applications by job: %w", err)
	}

	return apps, nil
}

func (s *Store) CountApplicationsByJob(ctx context.Context, jobID int64) (int64, error) {
	var count int64

	err := s.sess.
		Select("COUNT(*)").
		From("applications").
		Where("job_id = ?", jobID).
		LoadOneContext(ctx, &count)

	if err != nil {
		s.logger.Error("failed to count applications by job",
			zap.Int64("job_id", jobID),
			zap.Error(err),
		)
		return 0, fmt.Errorf("count applications by job: %w", err)
	}

	return count, nil
}

func (s *Store) UpdateApplicationStatus(ctx context.Context, id int64, status models.ApplicationStatus) error {
	result, err := s.sess.
		UpdateBySql(`UPDATE applications SET status = $1, updated_at = NOW() WHERE id = $2`, status, id).
		ExecContext(ctx)

	if err != nil {
		s.logger.Error("failed to update application status",
			zap.Int64("application_id", id),
			zap.String("status", string(status)),
			zap.Error(err),
		)
		return fmt.Errorf("update application status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update application status rows affected: %w", err)
	}
	if rows == 0 {
		return models.ErrNotFound
	}

	return nil
}

func (s *Store) UpdateApplicationNotes(ctx context.Context, id int64, notes string) error {
	result, err := s.sess.
		UpdateBySql(`UPDATE applications SET notes = $1, updated_at = NOW() WHERE id = $2`, notes, id).
		ExecContext(ctx)

	if err != nil {
		s.logger.Error("failed to update application notes",
			zap.Int64("application_id", id),
			zap.Error(err),
		)
		return fmt.Errorf("update application notes: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update application notes rows affected: %w", err)
	}
	if rows == 0 {
		return models.ErrNotFound
	}

	return nil
}
