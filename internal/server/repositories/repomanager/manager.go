// Package repomanager selects and owns the user store backend. The choice
// between Postgres and in-memory storage is made once, at construction.
package repomanager

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/portfolio/internal/server/repositories/users"
)

// Store modes accepted by New.
const (
	ModeMemory   = "memory"
	ModePostgres = "postgres"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Users() users.Repository
	Ping(ctx context.Context) error
	Close() error
}

// New builds the manager for mode. dsn is only used by the Postgres backend.
func New(ctx context.Context, mode, dsn string) (RepositoryManager, error) {
	switch mode {
	case ModeMemory:
		return NewMemoryRepositoryManager(), nil
	case ModePostgres:
		m, err := NewPostgresRepositoryManager(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unknown store mode %q", mode)
	}
}
