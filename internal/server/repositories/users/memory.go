package users

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/portfolio/internal/common"
	"github.com/dmitrijs2005/portfolio/internal/server/models"
)

// MemoryRepository keeps users in process memory. A single mutex makes the
// uniqueness check and the insert one atomic step.
type MemoryRepository struct {
	mu         sync.RWMutex
	byID       map[string]*models.User
	byEmail    map[string]string
	byUsername map[string]string
	now        func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:       make(map[string]*models.User),
		byEmail:    make(map[string]string),
		byUsername: make(map[string]string),
		now:        time.Now,
	}
}

func (r *MemoryRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	email := models.NormalizeEmail(user.Email)
	username := usernameKey(user.UserName)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[email]; ok {
		return nil, &common.DuplicateError{Field: "email"}
	}
	if _, ok := r.byUsername[username]; ok {
		return nil, &common.DuplicateError{Field: "username"}
	}

	stored := clone(user)
	stored.Email = email
	stored.CreatedAt = r.now().UTC()

	r.byID[stored.ID] = stored
	r.byEmail[email] = stored.ID
	r.byUsername[username] = stored.ID

	user.CreatedAt = stored.CreatedAt
	user.Email = email
	return user, nil
}

func (r *MemoryRepository) GetUserByID(_ context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return clone(u), nil
}

func (r *MemoryRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	id, ok := r.byEmail[models.NormalizeEmail(email)]
	r.mu.RUnlock()

	if !ok {
		return nil, common.ErrorNotFound
	}
	return r.GetUserByID(ctx, id)
}

func (r *MemoryRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	r.mu.RLock()
	id, ok := r.byUsername[usernameKey(username)]
	r.mu.RUnlock()

	if !ok {
		return nil, common.ErrorNotFound
	}
	return r.GetUserByID(ctx, id)
}

func (r *MemoryRepository) UpdateLastLogin(_ context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	t := at
	u.LastLoginAt = &t
	return nil
}

func (r *MemoryRepository) Count(context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID), nil
}

func usernameKey(username string) string {
	return strings.TrimSpace(username)
}

func clone(u *models.User) *models.User {
	c := *u
	c.PasswordHash = append([]byte(nil), u.PasswordHash...)
	if u.LastLoginAt != nil {
		t := *u.LastLoginAt
		c.LastLoginAt = &t
	}
	return &c
}
