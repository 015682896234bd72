package catalog

import (
	"context"
	"strings"
	"time"

	"jobcompass/internal/models"
)

// memStore is an in-memory Store that mirrors the constraint behavior of
// the postgres implementation: lookups miss with (nil, nil), inserts that
// would break a unique constraint come back as models.ErrDuplicate.
type memStore struct {
	jobs         map[int64]models.Job
	jobsByURL    map[string]int64
	companies    map[string]models.Company
	skills       map[string]models.Skill
	jobSkills    map[int64]map[int64]bool
	applications map[int64]models.Application

	nextJobID     int64
	nextCompanyID int64
	nextSkillID   int64
	nextAppID     int64

	// companyLookups counts FindOrCreateCompany calls so tests can assert
	// blank names never reach the resolver.
	companyLookups int
}

func newMemStore() *memStore {
	return &memStore{
		jobs:         make(map[int64]models.Job),
		jobsByURL:    make(map[string]int64),
		companies:    make(map[string]models.Company),
		skills:       make(map[string]models.Skill),
		jobSkills:    make(map[int64]map[int64]bool),
		applications: make(map[int64]models.Application),
	}
}

func (m *memStore) GetJobByURL(_ context.Context, url string) (*models.Job, error) {
	id, ok := m.jobsByURL[url]
	if !ok {
		return nil, nil
	}
	job := m.jobs[id]
	return &job, nil
}

func (m *memStore) GetJobByID(_ context.Context, id int64) (*models.Job, error) {
	job, ok := m.jobs[id]
	if !ok {
		return nil, nil
	}
	return &job, nil
}

func (m *memStore) GetJobBySourceExternalID(_ context.Context, source models.Source, externalID string) (*models.Job, error) {
	for _, job := range m.jobs {
		if job.Source == source && job.ExternalID != nil && *job.ExternalID == externalID {
			j := job
			return &j, nil
		}
	}
	return nil, nil
}

func (m *memStore) InsertJob(_ context.Context, job *models.Job) error {
	if _, exists := m.jobsByURL[job.URL]; exists {
		return models.ErrDuplicate
	}
	m.nextJobID++
	job.ID = m.nextJobID
	job.CreatedAt = time.Now()
	job.UpdatedAt = job.CreatedAt
	m.jobs[job.ID] = *job
	m.jobsByURL[job.URL] = job.ID
	return nil
}

func (m *memStore) UpdateJob(_ context.Context, job *models.Job) error {
	if _, ok := m.jobs[job.ID]; !ok {
		return models.ErrNotFound
	}
	job.IsActive = true
	job.UpdatedAt = time.Now()
	m.jobs[job.ID] = *job
	return nil
}

func (m *memStore) DeactivateJob(_ context.Context, id int64) error {
	job, ok := m.jobs[id]
	if !ok {
		return models.ErrNotFound
	}
	job.IsActive = false
	m.jobs[id] = job
	return nil
}

func (m *memStore) ListActiveJobs(_ context.Context) ([]models.Job, error) {
	var jobs []models.Job
	for _, job := range m.jobs {
		if job.IsActive {
			jobs = append(jobs, job)
		}
	}
	return jobs, nil
}

func (m *memStore) ListRecentJobs(_ context.Context, since time.Time) ([]models.Job, error) {
	var jobs []models.Job
	for _, job := range m.jobs {
		if job.IsActive && job.PostedDate != nil && !job.PostedDate.Before(since) {
			jobs = append(jobs, job)
		}
	}
	return jobs, nil
}

func (m *memStore) ListJobsBySkills(_ context.Context, skillNames []string) ([]models.Job, error) {
	wanted := make(map[int64]bool)
	for _, name := range skillNames {
		if skill, ok := m.skills[name]; ok {
			wanted[skill.ID] = true
		}
	}

	var jobs []models.Job
	for jobID, linked := range m.jobSkills {
		job := m.jobs[jobID]
		if !job.IsActive {
			continue
		}
		for skillID := range linked {
			if wanted[skillID] {
				jobs = append(jobs, job)
				break
			}
		}
	}
	return jobs, nil
}

func (m *memStore) ListJobsByLocation(_ context.Context, location string) ([]models.Job, error) {
	var jobs []models.Job
	for _, job := range m.jobs {
		if !job.IsActive || job.Location == nil {
			continue
		}
		if strings.Contains(strings.ToLower(*job.Location), strings.ToLower(location)) {
			jobs = append(jobs, job)
		}
	}
	return jobs, nil
}

func (m *memStore) ListJobsByCompanyName(_ context.Context, companyName string) ([]models.Job, error) {
	var jobs []models.Job
	for _, job := range m.jobs {
		if !job.IsActive || job.CompanyID == nil {
			continue
		}
		for _, company := range m.companies {
			if company.ID == *job.CompanyID &&
				strings.Contains(strings.ToLower(company.Name), strings.ToLower(companyName)) {
				jobs = append(jobs, job)
				break
			}
		}
	}
	return jobs, nil
}

func (m *memStore) ListJobsBySource(_ context.Context, source models.Source) ([]models.Job, error) {
	var jobs []models.Job
	for _, job := range m.jobs {
		if job.IsActive && job.Source == source {
			jobs = append(jobs, job)
		}
	}
	return jobs, nil
}

func (m *memStore) FindOrCreateCompany(_ context.Context, name string) (*models.Company, error) {
	m.companyLookups++
	if strings.TrimSpace(name) == "" {
		return nil, nil
	}
	if company, ok := m.companies[name]; ok {
		return &company, nil
	}
	m.nextCompanyID++
	company := models.Company{
		ID:        m.nextCompanyID,
		Name:      name,
		CreatedAt: time.Now(),
	}
	m.companies[name] = company
	return &company, nil
}

func (m *memStore) FindOrCreateSkill(_ context.Context, name string, category models.SkillCategory) (*models.Skill, error) {
	if strings.TrimSpace(name) == "" {
		return nil, nil
	}
	if skill, ok := m.skills[name]; ok {
		return &skill, nil
	}
	if category == "" {
		category = models.SkillCategoryOther
	}
	m.nextSkillID++
	skill := models.Skill{
		ID:        m.nextSkillID,
		Name:      name,
		Category:  category,
		CreatedAt: time.Now(),
	}
	m.skills[name] = skill
	return &skill, nil
}

func (m *memStore) LinkJobSkill(_ context.Context, jobID, skillID int64) error {
	if m.jobSkills[jobID] == nil {
		m.jobSkills[jobID] = make(map[int64]bool)
	}
	m.jobSkills[jobID][skillID] = true
	return nil
}

func (m *memStore) ListJobSkills(_ context.Context, jobID int64) ([]models.Skill, error) {
	var skills []models.Skill
	for skillID := range m.jobSkills[jobID] {
		for _, skill := range m.skills {
			if skill.ID == skillID {
				skills = append(skills, skill)
			}
		}
	}
	return skills, nil
}

func (m *memStore) InsertApplication(_ context.Context, app *models.Application) error {
	for _, existing := range m.applications {
		if existing.UserEmail == app.UserEmail && existing.JobID == app.JobID {
			return models.ErrDuplicate
		}
	}
	m.nextAppID++
	app.ID = m.nextAppID
	app.CreatedAt = time.Now()
	app.UpdatedAt = app.CreatedAt
	m.applications[app.ID] = *app
	return nil
}

func (m *memStore) GetApplicationByID(_ context.Context, id int64) (*models.Application, error) {
	app, ok := m.applications[id]
	if !ok {
		return nil, nil
	}
	return &app, nil
}

func (m *memStore) GetApplicationForUserAndJob(_ context.Context, userEmail string, jobID int64) (*models.Application, error) {
	for _, app := range m.applications {
		if app.UserEmail == userEmail && app.JobID == jobID {
			a := app
			return &a, nil
		}
	}
	return nil, nil
}

func (m *memStore) ListApplicationsByUser(_ context.Context, userEmail string) ([]models.Application, error) {
	var apps []models.Application
	for _, app := range m.applications {
		if app.UserEmail == userEmail {
			apps = append(apps, app)
		}
	}
	return apps, nil
}

func (m *memStore) ListApplicationsByUserAndStatus(_ context.Context, userEmail string, status models.ApplicationStatus) ([]models.Application, error) {
	var apps []models.Application
	for _, app := range m.applications {
		if app.UserEmail == userEmail && app.Status == status {
			apps = append(apps, app)
		}
	}
	return apps, nil
}

func (m *memStore) ListApplicationsByJob(_ context.Context, jobID int64) ([]models.Application, error) {
	var apps []models.Application
	for _, app := range m.applications {
		if app.JobID == jobID {
			apps = append(apps, app)
		}
	}
	return apps, nil
}

func (m *memStore) CountApplicationsByJob(_ context.Context, jobID int64) (int64, error) {
	var count int64
	for _, app := range m.applications {
		if app.JobID == jobID {
			count++
		}
	}
	return count, nil
}

func (m *memStore) UpdateApplicationStatus(_ context.Context, id int64, status models.ApplicationStatus) error {
	app, ok := m.applications[id]
	if !ok {
		return models.ErrNotFound
	}
	app.Status = status
	app.UpdatedAt = time.Now()
	m.applications[id] = app
	return nil
}

func (m *memStore) UpdateApplicationNotes(_ context.Context, id int64, notes string) error {
	app, ok := m.applications[id]
	if !ok {
		return models.ErrNotFound
	}
	app.Notes = &notes
	app.UpdatedAt = time.Now()
	m.applications[id] = app
	return nil
}
