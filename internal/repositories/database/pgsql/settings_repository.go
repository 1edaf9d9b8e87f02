package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/casfod/staff-portal-backend/internal/apperrors"
	"github.com/casfod/staff-portal-backend/internal/core/domain"
	portsrepo "github.com/casfod/staff-portal-backend/internal/core/ports/repositories"
)

// PgxSettingsRepository persists the singleton system settings row. The
// entitlement map is stored as JSONB.
type PgxSettingsRepository struct {
	db *pgxpool.Pool
}

func newPgxSettingsRepository(db *pgxpool.Pool) portsrepo.SettingsRepository {
	return &PgxSettingsRepository{db: db}
}

var _ portsrepo.SettingsRepository = (*PgxSettingsRepository)(nil)

func (r *PgxSettingsRepository) FindSettings(ctx context.Context) (*domain.SystemSettings, error) {
	query := `
		SELECT settings_id, employment_info_locked, leave_entitlements,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM system_settings
		ORDER BY created_at
		LIMIT 1;
	`
	var s domain.SystemSettings
	var entitlements []byte
	var createdAt, lastUpdatedAt time.Time

	err := r.db.QueryRow(ctx, query).Scan(
		&s.SettingsID, &s.EmploymentInfoLocked, &entitlements,
		&createdAt, &s.CreatedBy, &lastUpdatedAt, &s.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find settings: %w", err)
	}

	s.CreatedAt = createdAt.UTC()
	s.LastUpdatedAt = lastUpdatedAt.UTC()
	if len(entitlements) > 0 {
		if err := json.Unmarshal(entitlements, &s.LeaveEntitlements); err != nil {
			return nil, fmt.Errorf("failed to unmarshal leave entitlements: %w", err)
		}
	}
	return &s, nil
}

func (r *PgxSettingsRepository) SaveSettings(ctx context.Context, settings domain.SystemSettings) error {
	entitlements, err := json.Marshal(settings.LeaveEntitlements)
	if err != nil {
		return fmt.Errorf("failed to marshal leave entitlements: %w", err)
	}

	query := `
		INSERT INTO system_settings (settings_id, employment_info_locked, leave_entitlements,
		                             created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (settings_id) DO UPDATE SET
			employment_info_locked = EXCLUDED.employment_info_locked,
			leave_entitlements = EXCLUDED.leave_entitlements,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err = r.db.Exec(ctx, query,
		settings.SettingsID, settings.EmploymentInfoLocked, entitlements,
		settings.CreatedAt, settings.CreatedBy, settings.LastUpdatedAt, settings.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
