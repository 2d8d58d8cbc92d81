// Package projects serves the read-only portfolio catalog.
package projects

import (
	"context"
	"slices"
	"strings"

	"github.com/dmitrijs2005/portfolio/internal/server/models"
)

// CategoryAll disables category filtering.
const CategoryAll = "all"

type Repository interface {
	List(ctx context.Context, category string) ([]models.Project, error)
}

// MemoryRepository is fixed at construction and safe for concurrent reads.
type MemoryRepository struct {
	items []models.Project
}

func NewMemoryRepository(items []models.Project) *MemoryRepository {
	return &MemoryRepository{items: slices.Clone(items)}
}

// List returns projects in catalog order. An empty category or "all"
// returns everything; matching is case-insensitive.
func (r *MemoryRepository) List(_ context.Context, category string) ([]models.Project, error) {
	category = strings.ToLower(strings.TrimSpace(category))

	out := make([]models.Project, 0, len(r.items))
	for _, p := range r.items {
		if category == "" || category == CategoryAll || strings.ToLower(p.Category) == category {
			p.Technologies = slices.Clone(p.Technologies)
			out = append(out, p)
		}
	}
	return out, nil
}
