package repomanager

import (
	"context"

	"github.com/dmitrijs2005/portfolio/internal/server/repositories/users"
)

// MemoryRepositoryManager serves demo mode and tests. State lives as long
// as the process.
type MemoryRepositoryManager struct {
	users *users.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{users: users.NewMemoryRepository()}
}

func (m *MemoryRepositoryManager) RunMigrations(context.Context) error { return nil }
func (m *MemoryRepositoryManager) Users() users.Repository             { return m.users }
func (m *MemoryRepositoryManager) Ping(context.Context) error          { return nil }
func (m *MemoryRepositoryManager) Close() error                        { return nil }
