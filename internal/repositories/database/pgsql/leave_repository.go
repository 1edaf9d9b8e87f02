package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/casfod/staff-portal-backend/internal/apperrors"
	"github.com/casfod/staff-portal-backend/internal/core/domain"
	portsrepo "github.com/casfod/staff-portal-backend/internal/core/ports/repositories"
	"github.com/casfod/staff-portal-backend/internal/utils/pagination"
)

// PgxLeaveRepository persists leave applications and balance buckets. The
// InTx write variants let the service commit an application and its balance
// mutation atomically; balance writes carry an optimistic version check on
// top of the row lock.
type PgxLeaveRepository struct {
	BaseRepository
}

func newPgxLeaveRepository(db *pgxpool.Pool) portsrepo.LeaveRepositoryFacade {
	return &PgxLeaveRepository{BaseRepository{Pool: db}}
}

var _ portsrepo.LeaveRepositoryFacade = (*PgxLeaveRepository)(nil)

const leaveAppColumns = `
	application_id, title, status, creator_ref,
	reviewed_by, approved_by, approver,
	comments, copied_to,
	leave_type, start_date, end_date, total_days_applied, balance_at_application, reason,
	created_at, created_by, last_updated_at, last_updated_by`

func (r *PgxLeaveRepository) SaveApplicationInTx(ctx context.Context, tx pgx.Tx, app domain.LeaveApplication) error {
	_, comments, copiedTo, err := marshalRequestJSON(app.RequestDocument)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO leave_applications (` + leaveAppColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19);
	`
	_, err = tx.Exec(ctx, query,
		app.RequestID, app.Title, app.Status, app.CreatorRef,
		app.ReviewedBy, app.ApprovedBy, app.Approver,
		comments, copiedTo,
		app.LeaveType, app.StartDate, app.EndDate, app.TotalDaysApplied, app.LeaveBalanceAtApplication, app.Reason,
		app.CreatedAt, app.CreatedBy, app.LastUpdatedAt, app.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save leave application %s: %w", app.RequestID, err)
	}
	return nil
}

func (r *PgxLeaveRepository) UpdateApplicationInTx(ctx context.Context, tx pgx.Tx, app domain.LeaveApplication) error {
	_, comments, copiedTo, err := marshalRequestJSON(app.RequestDocument)
	if err != nil {
		return err
	}

	query := `
		UPDATE leave_applications SET
			status = $2,
			reviewed_by = $3,
			approved_by = $4,
			approver = $5,
			comments = $6,
			copied_to = $7,
			last_updated_at = $8,
			last_updated_by = $9
		WHERE application_id = $1;
	`
	tag, err := tx.Exec(ctx, query,
		app.RequestID,
		app.Status, app.ReviewedBy, app.ApprovedBy, app.Approver,
		comments, copiedTo,
		app.LastUpdatedAt, app.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update leave application %s: %w", app.RequestID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxLeaveRepository) FindApplicationByID(ctx context.Context, applicationID string) (*domain.LeaveApplication, error) {
	query := `SELECT ` + leaveAppColumns + ` FROM leave_applications WHERE application_id = $1;`
	app, err := scanLeaveApplication(r.Pool.QueryRow(ctx, query, applicationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find leave application %s: %w", applicationID, err)
	}
	return app, nil
}

func (r *PgxLeaveRepository) ListApplicationsByUser(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.LeaveApplication, *string, error) {
	return r.list(ctx, `creator_ref = $1`, userID, limit, nextToken)
}

func (r *PgxLeaveRepository) ListApplicationsForActor(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.LeaveApplication, *string, error) {
	condition := `(
		reviewed_by = $1 OR approver = $1 OR approved_by = $1
		OR copied_to @> to_jsonb($1::text)
	)`
	return r.list(ctx, condition, userID, limit, nextToken)
}

func (r *PgxLeaveRepository) list(ctx context.Context, condition string, userID string, limit int, nextToken *string) ([]domain.LeaveApplication, *string, error) {
	args := []any{userID}
	cursorClause := ""
	if nextToken != nil && *nextToken != "" {
		cursorTime, cursorID, err := pagination.DecodeCursor(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		cursorClause = ` AND (created_at, application_id) < ($2, $3)`
		args = append(args, cursorTime, cursorID)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM leave_applications
		WHERE %s%s
		ORDER BY created_at DESC, application_id DESC
		LIMIT %d;
	`, leaveAppColumns, condition, cursorClause, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query leave applications: %w", err)
	}
	defer rows.Close()

	apps := []domain.LeaveApplication{}
	for rows.Next() {
		app, err := scanLeaveApplication(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan leave application row: %w", err)
		}
		apps = append(apps, *app)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed while iterating leave applications: %w", err)
	}

	var token *string
	if len(apps) > limit {
		apps = apps[:limit]
		last := apps[len(apps)-1]
		t := pagination.EncodeCursor(last.CreatedAt, last.RequestID)
		token = &t
	}
	return apps, token, nil
}

func scanLeaveApplication(row pgx.Row) (*domain.LeaveApplication, error) {
	var app domain.LeaveApplication
	var comments, copiedTo []byte
	var createdAt, lastUpdatedAt, startDate, endDate time.Time

	err := row.Scan(
		&app.RequestID, &app.Title, &app.Status, &app.CreatorRef,
		&app.ReviewedBy, &app.ApprovedBy, &app.Approver,
		&comments, &copiedTo,
		&app.LeaveType, &startDate, &endDate, &app.TotalDaysApplied, &app.LeaveBalanceAtApplication, &app.Reason,
		&createdAt, &app.CreatedBy, &lastUpdatedAt, &app.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}

	app.Kind = domain.KindLeaveApplication
	app.StartDate = startDate.UTC()
	app.EndDate = endDate.UTC()
	app.CreatedAt = createdAt.UTC()
	app.LastUpdatedAt = lastUpdatedAt.UTC()
	if err := unmarshalRequestJSON(&app.RequestDocument, nil, comments, copiedTo); err != nil {
		return nil, err
	}
	return &app, nil
}

const balanceColumns = `
	balance_id, user_id, leave_type, max_days, total_applied, accrued, last_reset_year, version,
	created_at, created_by, last_updated_at, last_updated_by`

func (r *PgxLeaveRepository) FindBalance(ctx context.Context, userID string, leaveType domain.LeaveType) (*domain.LeaveBalance, error) {
	query := `SELECT ` + balanceColumns + ` FROM leave_balances WHERE user_id = $1 AND leave_type = $2;`
	return r.scanBalanceRow(r.Pool.QueryRow(ctx, query, userID, leaveType))
}

func (r *PgxLeaveRepository) FindBalanceForUpdateInTx(ctx context.Context, tx pgx.Tx, userID string, leaveType domain.LeaveType) (*domain.LeaveBalance, error) {
	query := `SELECT ` + balanceColumns + ` FROM leave_balances WHERE user_id = $1 AND leave_type = $2 FOR UPDATE;`
	return r.scanBalanceRow(tx.QueryRow(ctx, query, userID, leaveType))
}

func (r *PgxLeaveRepository) ListBalancesByUser(ctx context.Context, userID string) ([]domain.LeaveBalance, error) {
	query := `SELECT ` + balanceColumns + ` FROM leave_balances WHERE user_id = $1 ORDER BY leave_type;`
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query leave balances: %w", err)
	}
	defer rows.Close()

	balances := []domain.LeaveBalance{}
	for rows.Next() {
		balance, err := scanBalance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave balance row: %w", err)
		}
		balances = append(balances, *balance)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed while iterating leave balances: %w", err)
	}
	return balances, nil
}

func (r *PgxLeaveRepository) SaveBalanceInTx(ctx context.Context, tx pgx.Tx, balance domain.LeaveBalance) error {
	query := `
		INSERT INTO leave_balances (` + balanceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := tx.Exec(ctx, query,
		balance.BalanceID, balance.UserID, balance.LeaveType,
		balance.MaxDays, balance.TotalApplied, balance.Accrued, balance.LastResetYear, balance.Version,
		balance.CreatedAt, balance.CreatedBy, balance.LastUpdatedAt, balance.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save leave balance %s: %w", balance.BalanceID, err)
	}
	return nil
}

func (r *PgxLeaveRepository) UpdateBalanceInTx(ctx context.Context, tx pgx.Tx, balance domain.LeaveBalance) error {
	query := `
		UPDATE leave_balances SET
			max_days = $3,
			total_applied = $4,
			accrued = $5,
			last_reset_year = $6,
			version = version + 1,
			last_updated_at = $7,
			last_updated_by = $8
		WHERE balance_id = $1 AND version = $2;
	`
	tag, err := tx.Exec(ctx, query,
		balance.BalanceID, balance.Version,
		balance.MaxDays, balance.TotalApplied, balance.Accrued, balance.LastResetYear,
		balance.LastUpdatedAt, balance.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update leave balance %s: %w", balance.BalanceID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: leave balance %s was modified concurrently", apperrors.ErrConflict, balance.BalanceID)
	}
	return nil
}

func (r *PgxLeaveRepository) scanBalanceRow(row pgx.Row) (*domain.LeaveBalance, error) {
	balance, err := scanBalance(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find leave balance: %w", err)
	}
	return balance, nil
}

func scanBalance(row pgx.Row) (*domain.LeaveBalance, error) {
	var b domain.LeaveBalance
	var createdAt, lastUpdatedAt time.Time

	err := row.Scan(
		&b.BalanceID, &b.UserID, &b.LeaveType,
		&b.MaxDays, &b.TotalApplied, &b.Accrued, &b.LastResetYear, &b.Version,
		&createdAt, &b.CreatedBy, &lastUpdatedAt, &b.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	b.CreatedAt = createdAt.UTC()
	b.LastUpdatedAt = lastUpdatedAt.UTC()
	b.Recompute()
	return &b, nil
}
