package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/casfod/staff-portal-backend/internal/apperrors"
	"github.com/casfod/staff-portal-backend/internal/core/domain"
	portsrepo "github.com/casfod/staff-portal-backend/internal/core/ports/repositories"
	portssvc "github.com/casfod/staff-portal-backend/internal/core/ports/services"
	"github.com/casfod/staff-portal-backend/internal/dto"
	"github.com/casfod/staff-portal-backend/internal/middleware"
)

type settingsService struct {
	settingsRepo portsrepo.SettingsRepository
	userRepo     portsrepo.UserRepository
}

// NewSettingsService creates a new SettingsSvcFacade.
func NewSettingsService(settingsRepo portsrepo.SettingsRepository, userRepo portsrepo.UserRepository) portssvc.SettingsSvcFacade {
	return &settingsService{settingsRepo: settingsRepo, userRepo: userRepo}
}

var _ portssvc.SettingsSvcFacade = (*settingsService)(nil)

// GetSettings returns the settings record, falling back to defaults when
// nothing has been saved yet.
func (s *settingsService) GetSettings(ctx context.Context) (*domain.SystemSettings, error) {
	settings, err := s.settingsRepo.FindSettings(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return &domain.SystemSettings{
				LeaveEntitlements: domain.DefaultLeaveEntitlements(),
			}, nil
		}
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	// Unconfigured leave types still resolve to their defaults.
	defaults := domain.DefaultLeaveEntitlements()
	for leaveType, days := range defaults {
		if _, ok := settings.LeaveEntitlements[leaveType]; !ok {
			if settings.LeaveEntitlements == nil {
				settings.LeaveEntitlements = make(map[domain.LeaveType]int, len(defaults))
			}
			settings.LeaveEntitlements[leaveType] = days
		}
	}
	return settings, nil
}

// UpdateSettings applies the given changes. Administrators only.
func (s *settingsService) UpdateSettings(ctx context.Context, req dto.UpdateSettingsRequest, actorUserID string) (*domain.SystemSettings, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	actor, err := s.userRepo.FindUserByID(ctx, actorUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve acting user: %w", err)
	}
	if !actor.Role.CanOverrideStatus() {
		return nil, fmt.Errorf("%w: only administrators may change settings", apperrors.ErrForbidden)
	}

	settings, err := s.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if settings.SettingsID == "" {
		settings.SettingsID = uuid.NewString()
		settings.CreatedAt = now
		settings.CreatedBy = actorUserID
	}
	if req.EmploymentInfoLocked != nil {
		settings.EmploymentInfoLocked = *req.EmploymentInfoLocked
	}
	for leaveType, days := range req.LeaveEntitlements {
		if !leaveType.IsValid() {
			return nil, fmt.Errorf("%w: unknown leave type %q", apperrors.ErrValidation, leaveType)
		}
		settings.LeaveEntitlements[leaveType] = days
	}
	settings.LastUpdatedAt = now
	settings.LastUpdatedBy = actorUserID

	if err := s.settingsRepo.SaveSettings(ctx, *settings); err != nil {
		logger.Error("Failed to save settings", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save settings: %w", err)
	}

	logger.Info("Settings updated", slog.String("actor", actorUserID))
	return settings, nil
}
