package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/casfod/staff-portal-backend/internal/core/ports/repositories"
)

// NewRepositoryProvider wires the Postgres-backed repositories.
func NewRepositoryProvider(dbPool *pgxpool.Pool) *portsrepo.RepositoryProvider {
	return &portsrepo.RepositoryProvider{
		RequestRepo:  newPgxRequestRepository(dbPool),
		LeaveRepo:    newPgxLeaveRepository(dbPool),
		UserRepo:     newPgxUserRepository(dbPool),
		SettingsRepo: newPgxSettingsRepository(dbPool),
	}
}
