package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/casfod/staff-portal-backend/internal/apperrors"
	"github.com/casfod/staff-portal-backend/internal/core/domain"
	portsrepo "github.com/casfod/staff-portal-backend/internal/core/ports/repositories"
	portssvc "github.com/casfod/staff-portal-backend/internal/core/ports/services"
	"github.com/casfod/staff-portal-backend/internal/dto"
	"github.com/casfod/staff-portal-backend/internal/middleware"
)

// leaveService owns leave applications and their balance ledger. Status
// changes go through the shared workflow engine; the matching ledger effect
// and the application update commit in one database transaction so the
// balance invariant cannot be violated by a partial write.
type leaveService struct {
	leaveRepo   portsrepo.LeaveRepositoryFacade
	userSvc     portssvc.UserReaderSvc
	settingsSvc portssvc.SettingsSvcFacade
	notifier    portssvc.NotificationDispatcher
	engine      statusEngine
}

// NewLeaveService creates a new LeaveSvcFacade.
func NewLeaveService(leaveRepo portsrepo.LeaveRepositoryFacade, userSvc portssvc.UserReaderSvc, settingsSvc portssvc.SettingsSvcFacade, notifier portssvc.NotificationDispatcher) portssvc.LeaveSvcFacade {
	return &leaveService{
		leaveRepo:   leaveRepo,
		userSvc:     userSvc,
		settingsSvc: settingsSvc,
		notifier:    notifier,
	}
}

var _ portssvc.LeaveSvcFacade = (*leaveService)(nil)

// ApplyForLeave computes the day count, reserves it against the user's
// bucket, and creates the application atomically.
func (s *leaveService) ApplyForLeave(ctx context.Context, req dto.ApplyLeaveRequest, userID string) (*domain.LeaveApplication, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.LeaveType.IsValid() {
		return nil, fmt.Errorf("%w: unknown leave type %q", apperrors.ErrValidation, req.LeaveType)
	}

	days, err := CountLeaveDays(req.LeaveType.DayCountRule(), req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	settings, err := s.settingsSvc.GetSettings(ctx)
	if err != nil {
		logger.Error("Failed to load settings for leave application", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	entitlement := settings.EntitlementFor(req.LeaveType)

	now := time.Now().UTC()
	status := domain.StatusPending
	if req.Draft {
		status = domain.StatusDraft
	}

	app := domain.LeaveApplication{
		RequestDocument: domain.RequestDocument{
			RequestID:  uuid.NewString(),
			Kind:       domain.KindLeaveApplication,
			Title:      fmt.Sprintf("%s leave, %s to %s", req.LeaveType, req.StartDate.Format("2006-01-02"), req.EndDate.Format("2006-01-02")),
			Status:     status,
			CreatorRef: userID,
			ReviewedBy: req.ReviewedBy,
			Approver:   req.Approver,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		},
		LeaveType:        req.LeaveType,
		StartDate:        truncateToDay(req.StartDate),
		EndDate:          truncateToDay(req.EndDate),
		TotalDaysApplied: days,
		Reason:           req.Reason,
	}

	tx, err := s.leaveRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.leaveRepo.Rollback(ctx, tx)

	balance, rolled, err := s.lockOrCreateBalance(ctx, tx, userID, req.LeaveType, entitlement, now)
	if err != nil {
		return nil, err
	}

	// Snapshot before the reservation so the application records what the
	// user saw when they applied.
	app.LeaveBalanceAtApplication = balance.Balance

	if !req.Draft {
		if err := ApplyLedgerTransition(balance, days, "", domain.StatusPending); err != nil {
			return nil, err
		}
	}
	// A draft reserves nothing, but a year rollover that fired while loading
	// the bucket still has to reach the database.
	if !req.Draft || rolled {
		balance.LastUpdatedAt = now
		balance.LastUpdatedBy = userID
		if err := s.leaveRepo.UpdateBalanceInTx(ctx, tx, *balance); err != nil {
			logger.Error("Failed to update balance for leave application", slog.String("error", err.Error()))
			return nil, fmt.Errorf("failed to reserve leave days: %w", err)
		}
	}

	if err := s.leaveRepo.SaveApplicationInTx(ctx, tx, app); err != nil {
		logger.Error("Failed to save leave application", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save leave application: %w", err)
	}

	if err := s.leaveRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit leave application: %w", err)
	}

	logger.Info("Leave application created",
		slog.String("application_id", app.RequestID),
		slog.String("leave_type", string(app.LeaveType)),
		slog.Int("days", days))

	if !req.Draft {
		s.dispatch(ctx, ResolveRecipients("", domain.StatusPending, &app.RequestDocument, userID))
	}
	return &app, nil
}

// UpdateLeaveStatus runs the workflow engine over the application and drives
// the matching ledger transition in the same transaction.
func (s *leaveService) UpdateLeaveStatus(ctx context.Context, applicationID string, change dto.StatusChangeRequest, actorUserID string) (*domain.LeaveApplication, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	app, err := s.leaveRepo.FindApplicationByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	actor, err := s.userSvc.GetUserByID(ctx, actorUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve acting user: %w", err)
	}

	now := time.Now().UTC()
	result, err := s.engine.Transition(&app.RequestDocument, change, *actor, now)
	if err != nil {
		return nil, err
	}
	if !result.StatusChanged && !result.CommentAdded {
		return app, nil
	}

	settings, err := s.settingsSvc.GetSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	tx, err := s.leaveRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.leaveRepo.Rollback(ctx, tx)

	if result.StatusChanged {
		balance, _, err := s.lockOrCreateBalance(ctx, tx, app.CreatorRef, app.LeaveType, settings.EntitlementFor(app.LeaveType), now)
		if err != nil {
			return nil, err
		}
		if err := ApplyLedgerTransition(balance, app.TotalDaysApplied, result.PreviousStatus, app.Status); err != nil {
			return nil, err
		}
		balance.LastUpdatedAt = now
		balance.LastUpdatedBy = actorUserID
		if err := s.leaveRepo.UpdateBalanceInTx(ctx, tx, *balance); err != nil {
			logger.Error("Failed to update balance during leave transition", slog.String("error", err.Error()))
			return nil, fmt.Errorf("failed to update leave balance: %w", err)
		}
	}

	if err := s.leaveRepo.UpdateApplicationInTx(ctx, tx, *app); err != nil {
		logger.Error("Failed to update leave application", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to update leave application: %w", err)
	}

	if err := s.leaveRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit leave transition: %w", err)
	}

	logger.Info("Leave status updated",
		slog.String("application_id", applicationID),
		slog.String("previous", string(result.PreviousStatus)),
		slog.String("status", string(app.Status)))

	if result.StatusChanged {
		s.dispatch(ctx, ResolveRecipients(result.PreviousStatus, app.Status, &app.RequestDocument, actorUserID))
	}
	return app, nil
}

// GetBalances returns the user's buckets for the current year, applying
// the lazy rollover to any bucket still carrying last year's counters.
func (s *leaveService) GetBalances(ctx context.Context, userID string) ([]domain.LeaveBalance, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	balances, err := s.leaveRepo.ListBalancesByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave balances: %w", err)
	}

	settings, err := s.settingsSvc.GetSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	now := time.Now().UTC()
	stale := make([]int, 0)
	for i := range balances {
		if EnsureCurrentYear(&balances[i], now, settings.EntitlementFor(balances[i].LeaveType)) {
			stale = append(stale, i)
		}
	}
	if len(stale) == 0 {
		return balances, nil
	}

	tx, err := s.leaveRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.leaveRepo.Rollback(ctx, tx)
	for _, i := range stale {
		balances[i].LastUpdatedAt = now
		balances[i].LastUpdatedBy = userID
		if err := s.leaveRepo.UpdateBalanceInTx(ctx, tx, balances[i]); err != nil {
			logger.Error("Failed to persist year rollover", slog.String("error", err.Error()), slog.String("leave_type", string(balances[i].LeaveType)))
			return nil, fmt.Errorf("failed to persist year rollover: %w", err)
		}
	}
	if err := s.leaveRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit year rollover: %w", err)
	}
	return balances, nil
}

// GetLeaveByID retrieves an application the requesting user may see.
func (s *leaveService) GetLeaveByID(ctx context.Context, applicationID string, requestingUserID string) (*domain.LeaveApplication, error) {
	app, err := s.leaveRepo.FindApplicationByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	user, err := s.userSvc.GetUserByID(ctx, requestingUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve requesting user: %w", err)
	}
	if !canViewDocument(&app.RequestDocument, user) {
		// Obscure existence from users outside the document's audience.
		return nil, apperrors.ErrNotFound
	}
	return app, nil
}

// ListMyLeaves lists the user's own applications.
func (s *leaveService) ListMyLeaves(ctx context.Context, userID string, params dto.ListRequestsParams) (*dto.ListLeavesResponse, error) {
	apps, nextToken, err := s.leaveRepo.ListApplicationsByUser(ctx, userID, normalizeLimit(params.Limit), params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave applications: %w", err)
	}
	return &dto.ListLeavesResponse{Leaves: dto.ToLeaveResponses(apps), NextToken: nextToken}, nil
}

// ListAssignedLeaves lists applications awaiting the user's action or copied to them.
func (s *leaveService) ListAssignedLeaves(ctx context.Context, userID string, params dto.ListRequestsParams) (*dto.ListLeavesResponse, error) {
	apps, nextToken, err := s.leaveRepo.ListApplicationsForActor(ctx, userID, normalizeLimit(params.Limit), params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list assigned leave applications: %w", err)
	}
	return &dto.ListLeavesResponse{Leaves: dto.ToLeaveResponses(apps), NextToken: nextToken}, nil
}

// lockOrCreateBalance locks the bucket row for the transaction, creating it
// lazily on first use and rolling it over to the current year if stale. The
// second return reports a rollover the caller must persist before commit.
func (s *leaveService) lockOrCreateBalance(ctx context.Context, tx pgx.Tx, userID string, leaveType domain.LeaveType, entitlement int, now time.Time) (*domain.LeaveBalance, bool, error) {
	balance, err := s.leaveRepo.FindBalanceForUpdateInTx(ctx, tx, userID, leaveType)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, false, fmt.Errorf("failed to load leave balance: %w", err)
		}
		fresh := domain.LeaveBalance{
			BalanceID:     uuid.NewString(),
			UserID:        userID,
			LeaveType:     leaveType,
			MaxDays:       entitlement,
			LastResetYear: now.Year(),
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
		fresh.Recompute()
		if err := s.leaveRepo.SaveBalanceInTx(ctx, tx, fresh); err != nil {
			return nil, false, fmt.Errorf("failed to create leave balance: %w", err)
		}
		return &fresh, false, nil
	}
	rolled := EnsureCurrentYear(balance, now, entitlement)
	return balance, rolled, nil
}

// dispatch forwards a notification without letting transport failures reach
// the caller. The transition is already committed by the time this runs.
func (s *leaveService) dispatch(ctx context.Context, notification domain.Notification) {
	dispatchNotification(ctx, s.notifier, notification)
}
