package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/portfolio/internal/common"
	"github.com/dmitrijs2005/portfolio/internal/server/models"
	"github.com/dmitrijs2005/portfolio/internal/server/repositories/projects"
)

// ProjectService serves the portfolio catalog to authenticated users.
type ProjectService struct {
	repo projects.Repository
}

func NewProjectService(repo projects.Repository) *ProjectService {
	return &ProjectService{repo: repo}
}

func (s *ProjectService) List(ctx context.Context, category string) ([]models.Project, error) {
	items, err := s.repo.List(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("%w: list projects: %v", common.ErrorInternal, err)
	}
	return items, nil
}
