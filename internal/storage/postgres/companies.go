package postgres

import (
	"context"
	"fmt"
	"strings"

	"jobcompass/internal/models"

	"github.com/gocraft/dbr/v2"
	"go.uber.org/zap"
)

// FindOrCreateCompany resolves a free-text company name to its canonical
// row, creating it on first reference. Matching is exact and
// case-sensitive. A blank name resolves to no company at all: (nil, nil).
//
// Concurrent creates of the same name are serialized by the unique
// constraint: the losing insert sees zero rows back and re-reads the
// winner's row instead of surfacing the violation.
func (s *Store) FindOrCreateCompany(ctx context.Context, name string) (*models.Company, error) {
	if strings.TrimSpace(name) == "" {
		return nil, nil
	}

	company, err := s.getCompanyByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if company != nil {
		return company, nil
	}

	s.logger.Info("creating new company", zap.String("name", name))

	query := `
		INSERT INTO companies (name)
		VALUES ($1)
		ON CONFLICT (name) DO NOTHING
		RETURNING id, name, industry, website, created_at
	`

	var created models.Company
	err = s.sess.
		SelectBySql(query, name).
		LoadOneContext(ctx, &created)

	if err == dbr.ErrNotFound {
		// Lost the race: someone else inserted this name first.
		return s.getCompanyByName(ctx, name)
	}

	if err != nil {
		s.logger.Error("failed to create company",
			zap.String("name", name),
			zap.Error(err),
		)
		return nil, fmt.Errorf("create company: %w", err)
	}

	return &created, nil
}

func (s *Store) getCompanyByName(ctx context.Context, name string) (*models.Company, error) {
	var company models.Company

	err := s.sess.
		Select("*").
		From("companies").
		Where("name = ?", name).
		LoadOneContext(ctx, &company)

	if err == dbr.ErrNotFound {
		return nil, nil
	}

	if err != nil {
		s.logger.Error("failed to get company by name",
			zap.String("name", name),
			zap.Error(err),
		)
		return nil, fmt.Errorf("get company by name: %w", err)
	}

	return &company, nil
}

func (s *Store) GetCompanyByID(ctx context.Context, id int64) (*models.Company, error) {
	var company models.Company

	err := s.sess.
		Select("*").
		From("companies").
		Where("id = ?", id).
		LoadOneContext(ctx, &company)

	if err == dbr.ErrNotFound {
		return nil, nil
	}

	if err != nil {
		s.logger.Error("failed to get company by id",
			zap.Int64("company_id", id),
			zap.Error(err),
		)
		return nil, fmt.Errorf("get company by id: %w", err)
	}

	return &company, nil
}
