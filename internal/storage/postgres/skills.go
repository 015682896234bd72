package postgres

import (
	"context"
	"fmt"
	"strings"

	"jobcompass/internal/models"

	"github.com/gocraft/dbr/v2"
	"go.uber.org/zap"
)

// FindOrCreateSkill resolves a skill name to its canonical row, creating it
// on first reference. Same contract as FindOrCreateCompany: exact
// case-sensitive match, blank name resolves to (nil, nil), creation races
// settle through the unique constraint plus a re-read.
func (s *Store) FindOrCreateSkill(ctx context.Context, name string, category models.SkillCategory) (*models.Skill, error) {
	if strings.TrimSpace(name) == "" {
		return nil, nil
	}

	skill, err := s.getSkillByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if skill != nil {
		return skill, nil
	}

	if category == "" {
		category = models.SkillCategoryOther
	}

	s.logger.Info("creating new skill",
		zap.String("name", name),
		zap.String("category", string(category)),
	)

	query := `
		INSERT INTO skills (name, category)
		VALUES ($1, $2)
		ON CONFLICT (name) DO NOTHING
		RETURNING id, name, category, created_at
	`

	var created models.Skill
	err = s.sess.
		SelectBySql(query, name, category).
		LoadOneContext(ctx, &created)

	if err == dbr.ErrNotFound {
		return s.getSkillByName(ctx, name)
	}

	if err != nil {
		s.logger.Error("failed to create skill",
			zap.String("name", name),
			zap.Error(err),
		)
		return nil, fmt.Errorf("create skill: %w", err)
	}

	return &created, nil
}

func (s *Store) getSkillByName(ctx context.Context, name string) (*models.Skill, error) {
	var skill models.Skill

	err := s.sess.
		Select("*").
		From("skills").
		Where("name = ?", name).
		LoadOneContext(ctx, &skill)

	if err == dbr.ErrNotFound {
		return nil, nil
	}

	if err != nil {
		s.logger.Error("failed to get skill by name",
			zap.String("name", name),
			zap.Error(err),
		)
		return nil, fmt.Errorf("get skill by name: %w", err)
	}

	return &skill, nil
}

// LinkJobSkill attaches a skill to a job. Re-linking an existing pair is a
// no-op, which keeps skill tagging idempotent under event redelivery.
func (s *Store) LinkJobSkill(ctx context.Context, jobID, skillID int64) error {
	query := `
		INSERT INTO job_skills (job_id, skill_id)
		VALUES ($1, $2)
		ON CONFLICT (job_id, skill_id) DO NOTHING
	`

	_, err := s.sess.
		InsertBySql(query, jobID, skillID).
		ExecContext(ctx)

	if err != nil {
		s.logger.Error("failed to link job skill",
			zap.Int64("job_id", jobID),
			zap.Int64("skill_id", skillID),
			zap.Error(err),
		)
		return fmt.Errorf("link job skill: %w", err)
	}

	return nil
}

func (s *Store) ListJobSkills(ctx context.Context, jobID int64) ([]models.Skill, error) {
	query := `
		SELECT s.* FROM skills s
		JOIN job_skills js ON js.skill_id = s.id
		WHERE js.job_id = $1
		ORDER BY s.name
	`

	var skills []models.Skill

	_, err := s.sess.
		SelectBySql(query, jobID).
		LoadContext(ctx, &skills)

	if err != nil {
		s.logger.Error("failed to list job skills",
			zap.Int64("job_id", jobID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("list job skills: %w", err)
	}

	return skills, nil
}
