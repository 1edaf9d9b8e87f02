package repositories

import (
	"context"

	"github.com/casfod/staff-portal-backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// LeaveApplicationReader defines read operations for leave applications.
type LeaveApplicationReader interface {
	// FindApplicationByID retrieves a single leave application.
	FindApplicationByID(ctx context.Context, applicationID string) (*domain.LeaveApplication, error)

	// ListApplicationsByUser retrieves a user's leave applications, newest first.
	ListApplicationsByUser(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.LeaveApplication, *string, error)

	// ListApplicationsForActor retrieves applications where the user is an
	// assigned reviewer, approver, or copied-to recipient.
	ListApplicationsForActor(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.LeaveApplication, *string, error)
}

// LeaveApplicationWriter defines write operations for leave applications.
// The InTx variants participate in a caller-owned transaction so an
// application and its balance bucket commit or roll back together.
type LeaveApplicationWriter interface {
	SaveApplicationInTx(ctx context.Context, tx pgx.Tx, app domain.LeaveApplication) error
	UpdateApplicationInTx(ctx context.Context, tx pgx.Tx, app domain.LeaveApplication) error
}

// LeaveBalanceRepository manages the per-user, per-type entitlement buckets.
type LeaveBalanceRepository interface {
	// FindBalance retrieves the current bucket for (user, leaveType), or
	// apperrors.ErrNotFound if none exists yet.
	FindBalance(ctx context.Context, userID string, leaveType domain.LeaveType) (*domain.LeaveBalance, error)

	// ListBalancesByUser retrieves every bucket the user has.
	ListBalancesByUser(ctx context.Context, userID string) ([]domain.LeaveBalance, error)

	// FindBalanceForUpdateInTx locks the bucket row for the duration of tx.
	FindBalanceForUpdateInTx(ctx context.Context, tx pgx.Tx, userID string, leaveType domain.LeaveType) (*domain.LeaveBalance, error)

	// SaveBalanceInTx inserts a freshly created bucket.
	SaveBalanceInTx(ctx context.Context, tx pgx.Tx, balance domain.LeaveBalance) error

	// UpdateBalanceInTx writes the bucket counters guarded by the optimistic
	// version token; returns apperrors.ErrConflict when the token is stale.
	UpdateBalanceInTx(ctx context.Context, tx pgx.Tx, balance domain.LeaveBalance) error
}

// LeaveRepositoryFacade combines leave repositories with transaction control.
type LeaveRepositoryFacade interface {
	LeaveApplicationReader
	LeaveApplicationWriter
	LeaveBalanceRepository
	TransactionManager
}
