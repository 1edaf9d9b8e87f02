package services

import (
	"context"

	"github.com/casfod/staff-portal-backend/internal/core/domain"
	"github.com/casfod/staff-portal-backend/internal/dto"
)

// LeaveReaderSvc defines read operations for leave applications and balances.
type LeaveReaderSvc interface {
	GetLeaveByID(ctx context.Context, applicationID string, requestingUserID string) (*domain.LeaveApplication, error)
	ListMyLeaves(ctx context.Context, userID string, params dto.ListRequestsParams) (*dto.ListLeavesResponse, error)
	ListAssignedLeaves(ctx context.Context, userID string, params dto.ListRequestsParams) (*dto.ListLeavesResponse, error)

	// GetBalances returns the user's entitlement buckets for the current year,
	// performing the lazy year rollover where needed.
	GetBalances(ctx context.Context, userID string) ([]domain.LeaveBalance, error)
}

// LeaveWriterSvc defines write operations for leave applications.
type LeaveWriterSvc interface {
	// ApplyForLeave computes the day count from the date range, reserves the
	// days against the balance bucket, and creates the application. The
	// reservation and the application commit atomically.
	ApplyForLeave(ctx context.Context, req dto.ApplyLeaveRequest, userID string) (*domain.LeaveApplication, error)

	// UpdateLeaveStatus applies a status change through the workflow engine
	// and drives the matching ledger transition in the same transaction.
	UpdateLeaveStatus(ctx context.Context, applicationID string, change dto.StatusChangeRequest, actorUserID string) (*domain.LeaveApplication, error)
}

// LeaveSvcFacade combines the leave service interfaces.
type LeaveSvcFacade interface {
	LeaveReaderSvc
	LeaveWriterSvc
}
