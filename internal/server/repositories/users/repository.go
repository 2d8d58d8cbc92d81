// Package users is the persistence collaborator for user records. Two
// implementations share the Repository contract: PostgresRepository for
// production and MemoryRepository for demo mode and tests. Both enforce
// uniqueness of email and username at the storage layer and report
// conflicts as *common.DuplicateError.
package users

import (
	"context"
	"time"

	"github.com/dmitrijs2005/portfolio/internal/server/models"
)

type Repository interface {
	// Create inserts user as given (ID included). Email and username
	// collisions return an error matching common.ErrDuplicateIdentity.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// Lookups return common.ErrorNotFound when nothing matches.
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	Count(ctx context.Context) (int, error)
}
