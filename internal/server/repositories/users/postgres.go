package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/portfolio/internal/common"
	"github.com/dmitrijs2005/portfolio/internal/dbx"
	"github.com/dmitrijs2005/portfolio/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectUser = `SELECT id, username, email, password_hash, first_name, last_name, role,
		theme, notifications, voice_assistant, created_at, last_login_at
		FROM users`

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	query :=
		`INSERT INTO users (id, username, email, password_hash, first_name, last_name, role,
			theme, notifications, voice_assistant)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.ID, user.UserName, user.Email, user.PasswordHash, user.FirstName, user.LastName, user.Role,
		user.Preferences.Theme, user.Preferences.Notifications, user.Preferences.VoiceAssistant,
	).Scan(&user.CreatedAt)

	if err != nil {
		if dup := duplicateFromPg(err); dup != nil {
			return nil, dup
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return r.getOne(ctx, selectUser+` WHERE id = $1`, id)
}

func (r *PostgresRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, selectUser+` WHERE email = $1`, models.NormalizeEmail(email))
}

func (r *PostgresRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getOne(ctx, selectUser+` WHERE username = $1`, strings.TrimSpace(username))
}

func (r *PostgresRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	query := `UPDATE users SET last_login_at = $2 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id, at)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg any) (*models.User, error) {
	user := &models.User{}
	var lastLogin sql.NullTime

	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.UserName, &user.Email, &user.PasswordHash, &user.FirstName, &user.LastName, &user.Role,
		&user.Preferences.Theme, &user.Preferences.Notifications, &user.Preferences.VoiceAssistant,
		&user.CreatedAt, &lastLogin,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if lastLogin.Valid {
		t := lastLogin.Time
		user.LastLoginAt = &t
	}

	return user, nil
}

// duplicateFromPg maps a unique violation to the field it concerns.
func duplicateFromPg(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return nil
	}

	switch {
	case strings.Contains(pgErr.ConstraintName, "email"):
		return &common.DuplicateError{Field: "email"}
	case strings.Contains(pgErr.ConstraintName, "username"):
		return &common.DuplicateError{Field: "username"}
	default:
		return &common.DuplicateError{}
	}
}
