package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/portfolio/internal/client/models"
	"github.com/dmitrijs2005/portfolio/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/portfolio/internal/dbx"
)

// Keys of the persisted session.
const (
	KeyAuthToken    = "authToken"
	KeyUser         = "user"
	KeyLastActivity = "lastActivity"
)

// ErrCorruptSession is returned by Load when a credential is stored without
// a readable user.
var ErrCorruptSession = errors.New("stored session is corrupt")

// SessionStore persists the session under three metadata keys. Writes that
// touch more than one key run in a single transaction.
type SessionStore struct {
	db *sql.DB
}

func NewSessionStore(db *sql.DB) *SessionStore {
	return &SessionStore{db: db}
}

// Load returns the stored session, or a zero Session if nothing is stored.
// A missing or unreadable lastActivity comes back as the zero time.
func (s *SessionStore) Load(ctx context.Context) (models.Session, error) {
	repo := metadata.NewSQLiteRepository(s.db)

	token, ok, err := repo.Get(ctx, KeyAuthToken)
	if err != nil {
		return models.Session{}, err
	}
	if !ok || token == "" {
		return models.Session{}, nil
	}

	raw, ok, err := repo.Get(ctx, KeyUser)
	if err != nil {
		return models.Session{}, err
	}
	if !ok {
		return models.Session{}, fmt.Errorf("%w: user missing", ErrCorruptSession)
	}

	var user models.UserSummary
	if err := json.Unmarshal([]byte(raw), &user); err != nil || user.ID == "" {
		return models.Session{}, fmt.Errorf("%w: user unreadable", ErrCorruptSession)
	}

	session := models.Session{Token: token, User: &user}

	if v, ok, err := repo.Get(ctx, KeyLastActivity); err != nil {
		return models.Session{}, err
	} else if ok {
		if ms, err := strconv.ParseInt(v, 10, 64); err == nil {
			session.LastActivity = time.UnixMilli(ms)
		}
	}

	return session, nil
}

// Save writes token, user and last activity atomically.
func (s *SessionStore) Save(ctx context.Context, session models.Session) error {
	if !session.Active() {
		return errors.New("refusing to save an inactive session")
	}

	user, err := json.Marshal(session.User)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, KeyAuthToken, session.Token); err != nil {
			return err
		}
		if err := repo.Set(ctx, KeyUser, string(user)); err != nil {
			return err
		}
		return repo.Set(ctx, KeyLastActivity, formatMillis(session.LastActivity))
	})
}

// SaveUser replaces the cached user of the session holding token. It is a
// no-op once that session has been cleared or replaced.
func (s *SessionStore) SaveUser(ctx context.Context, token string, user *models.UserSummary) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	return s.ifCurrent(ctx, token, func(ctx context.Context, repo *metadata.SQLiteRepository) error {
		return repo.Set(ctx, KeyUser, string(data))
	})
}

// Touch records the last activity of the session holding token. Like
// SaveUser it never recreates keys of a cleared session.
func (s *SessionStore) Touch(ctx context.Context, token string, at time.Time) error {
	return s.ifCurrent(ctx, token, func(ctx context.Context, repo *metadata.SQLiteRepository) error {
		return repo.Set(ctx, KeyLastActivity, formatMillis(at))
	})
}

// Clear removes every session key in one transaction. With a non-empty
// token only the session holding that token is removed; a session saved
// since then is left alone.
func (s *SessionStore) Clear(ctx context.Context, token string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if token != "" {
			current, err := storedToken(ctx, repo)
			if err != nil {
				return err
			}
			if current != "" && current != token {
				return nil
			}
		}
		return repo.Delete(ctx, KeyAuthToken, KeyUser, KeyLastActivity)
	})
}

func (s *SessionStore) ifCurrent(ctx context.Context, token string, fn func(context.Context, *metadata.SQLiteRepository) error) error {
	if token == "" {
		return nil
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		current, err := storedToken(ctx, repo)
		if err != nil {
			return err
		}
		if current != token {
			return nil
		}
		return fn(ctx, repo)
	})
}

func storedToken(ctx context.Context, repo *metadata.SQLiteRepository) (string, error) {
	v, _, err := repo.Get(ctx, KeyAuthToken)
	return v, err
}

func formatMillis(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}
