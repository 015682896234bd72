package models

import "time"

// Source is the symbolic name of the site a posting was scraped from,
// e.g. "LinkedIn".
type Source string

func (s Source) String() string {
	return string(s)
}

// Job is a single posting in the catalog. URL is the dedup key: two events
// carrying the same URL always resolve to the same row.
type Job struct {
	ID          int64      `db:"id" json:"id"`
	ExternalID  *string    `db:"external_id" json:"externalId,omitempty"`
	Title       string     `db:"title" json:"title"`
	Description *string    `db:"description" json:"description,omitempty"`
	Location    *string    `db:"location" json:"location,omitempty"`
	SalaryRange *string    `db:"salary_range" json:"salaryRange,omitempty"`
	URL         string     `db:"url" json:"url"`
	PostedDate  *time.Time `db:"posted_date" json:"postedDate,omitempty"`
	JobAgeDays  *int       `db:"job_age_days" json:"jobAgeDays,omitempty"`
	Source      Source     `db:"source" json:"source"`
	ScrapedAt   time.Time  `db:"scraped_at" json:"scrapedAt"`
	CompanyID   *int64     `db:"company_id" json:"companyId,omitempty"`
	IsActive    bool       `db:"is_active" json:"isActive"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updatedAt"`
}

// Company is a canonical employer identity keyed by exact name.
// Created lazily on first reference, never deleted by the pipeline.
type Company struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Industry  *string   `db:"industry" json:"industry,omitempty"`
	Website   *string   `db:"website" json:"website,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Skill is a canonical technology tag keyed by exact name.
type Skill struct {
	ID        int64         `db:"id" json:"id"`
	Name      string        `db:"name" json:"name"`
	Category  SkillCategory `db:"category" json:"category"`
	CreatedAt time.Time     `db:"created_at" json:"createdAt"`
}

type SkillCategory string

const (
	SkillCategoryProgrammingLanguage SkillCategory = "PROGRAMMING_LANGUAGE"
	SkillCategoryFramework           SkillCategory = "FRAMEWORK"
	SkillCategoryDatabase            SkillCategory = "DATABASE"
	SkillCategoryCloud               SkillCategory = "CLOUD"
	SkillCategoryDevOps              SkillCategory = "DEVOPS"
	SkillCategoryTool                SkillCategory = "TOOL"
	SkillCategorySoftSkill           SkillCategory = "SOFT_SKILL"
	SkillCategoryOther               SkillCategory = "OTHER"
)
