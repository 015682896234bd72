package catalog

import (
	"context"
	"time"

	"jobcompass/internal/models"
)

// Store is the persistence contract the catalog runs on. The postgres
// package provides the production implementation; lookups return (nil, nil)
// when no row matches, inserts guarded by unique constraints return
// models.ErrDuplicate when another writer got there first.
type Store interface {
	GetJobByURL(ctx context.Context, url string) (*models.Job, error)
	GetJobByID(ctx context.Context, id int64) (*models.Job, error)
	GetJobBySourceExternalID(ctx context.Context, source models.Source, externalID string) (*models.Job, error)
	InsertJob(ctx context.Context, job *models.Job) error
	UpdateJob(ctx context.Context, job *models.Job) error
	DeactivateJob(ctx context.Context, id int64) error
	ListActiveJobs(ctx context.Context) ([]models.Job, error)
	ListRecentJobs(ctx context.Context, since time.Time) ([]models.Job, error)
	ListJobsBySkills(ctx context.Context, skillNames []string) ([]models.Job, error)
	ListJobsByLocation(ctx context.Context, location string) ([]models.Job, error)
	ListJobsByCompanyName(ctx context.Context, companyName string) ([]models.Job, error)
	ListJobsBySource(ctx context.Context, source models.Source) ([]models.Job, error)

	FindOrCreateCompany(ctx context.Context, name string) (*models.Company, error)
	FindOrCreateSkill(ctx context.Context, name string, category models.SkillCategory) (*models.Skill, error)
	LinkJobSkill(ctx context.Context, jobID, skillID int64) error
	ListJobSkills(ctx context.Context, jobID int64) ([]models.Skill, error)

	InsertApplication(ctx context.Context, app *models.Application) error
	GetApplicationByID(ctx context.Context, id int64) (*models.Application, error)
	GetApplicationForUserAndJob(ctx context.Context, userEmail string, jobID int64) (*models.Application, error)
	ListApplicationsByUser(ctx context.Context, userEmail string) ([]models.Application, error)
	ListApplicationsByUserAndStatus(ctx context.Context, userEmail string, status models.ApplicationStatus) ([]models.Application, error)
	ListApplicationsByJob(ctx context.Context, jobID int64) ([]models.Application, error)
	CountApplicationsByJob(ctx context.Context, jobID int64) (int64, error)
	UpdateApplicationStatus(ctx context.Context, id int64, status models.ApplicationStatus) error
	UpdateApplicationNotes(ctx context.Context, id int64, notes string) error
}
