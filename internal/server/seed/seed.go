// Package seed loads demo users and the project catalog from a YAML file.
package seed

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dmitrijs2005/portfolio/internal/common"
	"github.com/dmitrijs2005/portfolio/internal/server/auth"
	"github.com/dmitrijs2005/portfolio/internal/server/models"
	"github.com/dmitrijs2005/portfolio/internal/server/repositories/users"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// User is one seeded account. Either Password (hashed on load) or
// PasswordHash (a bcrypt hash) must be set.
type User struct {
	ID           string              `yaml:"id"`
	Username     string              `yaml:"username"`
	Email        string              `yaml:"email"`
	Password     string              `yaml:"password"`
	PasswordHash string              `yaml:"passwordHash"`
	FirstName    string              `yaml:"firstName"`
	LastName     string              `yaml:"lastName"`
	Role         string              `yaml:"role"`
	Preferences  *models.Preferences `yaml:"preferences"`
}

type File struct {
	Users    []User           `yaml:"users"`
	Projects []models.Project `yaml:"projects"`
}

// Load reads and parses path. An empty path yields an empty File.
func Load(path string) (*File, error) {
	if path == "" {
		return &File{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	return Parse(data)
}

func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return &f, nil
}

// ApplyUsers creates every seeded user that is not present yet, matched by
// email. Entries lacking an email or any password are skipped. It returns
// the number of users created.
func ApplyUsers(ctx context.Context, repo users.Repository, hasher *auth.Hasher, seeded []User) (int, error) {
	created := 0

	for _, su := range seeded {
		if su.Email == "" || (su.Password == "" && su.PasswordHash == "") {
			continue
		}

		if _, err := repo.GetUserByEmail(ctx, su.Email); err == nil {
			continue
		} else if !errors.Is(err, common.ErrorNotFound) {
			return created, err
		}

		u, err := toModel(su, hasher)
		if err != nil {
			return created, fmt.Errorf("seed user %s: %w", su.Email, err)
		}

		if _, err := repo.Create(ctx, u); err != nil {
			if errors.Is(err, common.ErrDuplicateIdentity) {
				continue
			}
			return created, fmt.Errorf("seed user %s: %w", su.Email, err)
		}
		created++
	}

	return created, nil
}

func toModel(su User, hasher *auth.Hasher) (*models.User, error) {
	hash := []byte(su.PasswordHash)
	if len(hash) == 0 {
		var err error
		if hash, err = hasher.Hash(su.Password); err != nil {
			return nil, err
		}
	}

	id := su.ID
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}

	role := su.Role
	switch role {
	case models.RoleUser, models.RoleAdmin, models.RolePremium:
	default:
		role = models.RoleUser
	}

	prefs := models.DefaultPreferences()
	if su.Preferences != nil {
		prefs = *su.Preferences
	}

	return &models.User{
		ID:           id,
		UserName:     su.Username,
		Email:        models.NormalizeEmail(su.Email),
		PasswordHash: hash,
		FirstName:    su.FirstName,
		LastName:     su.LastName,
		Role:         role,
		Preferences:  prefs,
	}, nil
}
