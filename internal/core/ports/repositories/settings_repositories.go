package repositories

import (
	"context"

	"github.com/casfod/staff-portal-backend/internal/core/domain"
)

// SettingsRepository defines persistence for the system settings record.
type SettingsRepository interface {
	// FindSettings retrieves the singleton settings row, or
	// apperrors.ErrNotFound if it has never been written.
	FindSettings(ctx context.Context) (*domain.SystemSettings, error)

	// SaveSettings upserts the settings record.
	SaveSettings(ctx context.Context, settings domain.SystemSettings) error
}
