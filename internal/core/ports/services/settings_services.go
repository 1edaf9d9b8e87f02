package services

import (
	"context"

	"github.com/casfod/staff-portal-backend/internal/core/domain"
	"github.com/casfod/staff-portal-backend/internal/dto"
)

// SettingsSvcFacade manages the system settings record. Reads return defaults
// when no record has been written yet; writes require an administrative role.
type SettingsSvcFacade interface {
	GetSettings(ctx context.Context) (*domain.SystemSettings, error)
	UpdateSettings(ctx context.Context, req dto.UpdateSettingsRequest, actorUserID string) (*domain.SystemSettings, error)
}
