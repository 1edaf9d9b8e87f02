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
	"github.com/casfod/staff-portal-backend/internal/utils/pagination"
)

// PgxRequestRepository persists request documents. Line items, the comment
// thread and the copied-to set live in JSONB columns; they are always read
// and written together with the document row.
type PgxRequestRepository struct {
	db *pgxpool.Pool
}

func newPgxRequestRepository(db *pgxpool.Pool) portsrepo.RequestRepositoryFacade {
	return &PgxRequestRepository{db: db}
}

var _ portsrepo.RequestRepositoryFacade = (*PgxRequestRepository)(nil)

const requestColumns = `
	request_id, kind, title, amount, status, creator_ref,
	reviewed_by, approved_by, approver,
	finance_reviewer, procurement_reviewer, finance_review_status, procurement_review_status,
	items, comments, copied_to,
	created_at, created_by, last_updated_at, last_updated_by`

func (r *PgxRequestRepository) SaveRequest(ctx context.Context, doc domain.RequestDocument) error {
	items, comments, copiedTo, err := marshalRequestJSON(doc)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO requests (` + requestColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20);
	`
	_, err = r.db.Exec(ctx, query,
		doc.RequestID, doc.Kind, doc.Title, doc.Amount, doc.Status, doc.CreatorRef,
		doc.ReviewedBy, doc.ApprovedBy, doc.Approver,
		doc.FinanceReviewer, doc.ProcurementReviewer, nullableReview(doc.FinanceReviewStatus), nullableReview(doc.ProcurementReviewStatus),
		items, comments, copiedTo,
		doc.CreatedAt, doc.CreatedBy, doc.LastUpdatedAt, doc.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save request %s: %w", doc.RequestID, err)
	}
	return nil
}

func (r *PgxRequestRepository) UpdateRequest(ctx context.Context, doc domain.RequestDocument) error {
	items, comments, copiedTo, err := marshalRequestJSON(doc)
	if err != nil {
		return err
	}

	query := `
		UPDATE requests SET
			title = $2,
			amount = $3,
			status = $4,
			reviewed_by = $5,
			approved_by = $6,
			approver = $7,
			finance_reviewer = $8,
			procurement_reviewer = $9,
			finance_review_status = $10,
			procurement_review_status = $11,
			items = $12,
			comments = $13,
			copied_to = $14,
			last_updated_at = $15,
			last_updated_by = $16
		WHERE request_id = $1;
	`
	tag, err := r.db.Exec(ctx, query,
		doc.RequestID,
		doc.Title, doc.Amount, doc.Status,
		doc.ReviewedBy, doc.ApprovedBy, doc.Approver,
		doc.FinanceReviewer, doc.ProcurementReviewer, nullableReview(doc.FinanceReviewStatus), nullableReview(doc.ProcurementReviewStatus),
		items, comments, copiedTo,
		doc.LastUpdatedAt, doc.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update request %s: %w", doc.RequestID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxRequestRepository) FindRequestByID(ctx context.Context, kind domain.RequestKind, requestID string) (*domain.RequestDocument, error) {
	query := `SELECT ` + requestColumns + ` FROM requests WHERE request_id = $1 AND kind = $2;`
	doc, err := scanRequest(r.db.QueryRow(ctx, query, requestID, kind))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find request %s: %w", requestID, err)
	}
	return doc, nil
}

func (r *PgxRequestRepository) ListRequestsByCreator(ctx context.Context, kind domain.RequestKind, creatorID string, limit int, nextToken *string) ([]domain.RequestDocument, *string, error) {
	return r.list(ctx, `kind = $1 AND creator_ref = $2`, kind, creatorID, limit, nextToken)
}

func (r *PgxRequestRepository) ListRequestsForActor(ctx context.Context, kind domain.RequestKind, userID string, limit int, nextToken *string) ([]domain.RequestDocument, *string, error) {
	condition := `kind = $1 AND (
		reviewed_by = $2 OR approver = $2 OR approved_by = $2
		OR finance_reviewer = $2 OR procurement_reviewer = $2
		OR copied_to @> to_jsonb($2::text)
	)`
	return r.list(ctx, condition, kind, userID, limit, nextToken)
}

// list runs a keyset-paginated query over the requests table. The cursor is
// the (created_at, request_id) pair of the last row on the previous page.
func (r *PgxRequestRepository) list(ctx context.Context, condition string, kind domain.RequestKind, userID string, limit int, nextToken *string) ([]domain.RequestDocument, *string, error) {
	args := []any{kind, userID}
	cursorClause := ""
	if nextToken != nil && *nextToken != "" {
		cursorTime, cursorID, err := pagination.DecodeCursor(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		cursorClause = ` AND (created_at, request_id) < ($3, $4)`
		args = append(args, cursorTime, cursorID)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM requests
		WHERE %s%s
		ORDER BY created_at DESC, request_id DESC
		LIMIT %d;
	`, requestColumns, condition, cursorClause, limit+1)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query requests: %w", err)
	}
	defer rows.Close()

	docs := []domain.RequestDocument{}
	for rows.Next() {
		doc, err := scanRequest(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan request row: %w", err)
		}
		docs = append(docs, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed while iterating requests: %w", err)
	}

	var token *string
	if len(docs) > limit {
		docs = docs[:limit]
		last := docs[len(docs)-1]
		t := pagination.EncodeCursor(last.CreatedAt, last.RequestID)
		token = &t
	}
	return docs, token, nil
}

// scanRequest reads one document from a row shaped by requestColumns.
func scanRequest(row pgx.Row) (*domain.RequestDocument, error) {
	var doc domain.RequestDocument
	var financeStatus, procurementStatus *string
	var items, comments, copiedTo []byte
	var createdAt, lastUpdatedAt time.Time

	err := row.Scan(
		&doc.RequestID, &doc.Kind, &doc.Title, &doc.Amount, &doc.Status, &doc.CreatorRef,
		&doc.ReviewedBy, &doc.ApprovedBy, &doc.Approver,
		&doc.FinanceReviewer, &doc.ProcurementReviewer, &financeStatus, &procurementStatus,
		&items, &comments, &copiedTo,
		&createdAt, &doc.CreatedBy, &lastUpdatedAt, &doc.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}

	doc.CreatedAt = createdAt.UTC()
	doc.LastUpdatedAt = lastUpdatedAt.UTC()
	if financeStatus != nil {
		doc.FinanceReviewStatus = domain.ReviewStatus(*financeStatus)
	}
	if procurementStatus != nil {
		doc.ProcurementReviewStatus = domain.ReviewStatus(*procurementStatus)
	}
	if err := unmarshalRequestJSON(&doc, items, comments, copiedTo); err != nil {
		return nil, err
	}
	return &doc, nil
}

func marshalRequestJSON(doc domain.RequestDocument) (items, comments, copiedTo []byte, err error) {
	if items, err = json.Marshal(doc.Items); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to marshal request items: %w", err)
	}
	if comments, err = json.Marshal(doc.Comments); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to marshal request comments: %w", err)
	}
	if copiedTo, err = json.Marshal(doc.CopiedTo); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to marshal copied-to list: %w", err)
	}
	return items, comments, copiedTo, nil
}

func unmarshalRequestJSON(doc *domain.RequestDocument, items, comments, copiedTo []byte) error {
	if len(items) > 0 {
		if err := json.Unmarshal(items, &doc.Items); err != nil {
			return fmt.Errorf("failed to unmarshal request items: %w", err)
		}
	}
	if len(comments) > 0 {
		if err := json.Unmarshal(comments, &doc.Comments); err != nil {
			return fmt.Errorf("failed to unmarshal request comments: %w", err)
		}
	}
	if len(copiedTo) > 0 {
		if err := json.Unmarshal(copiedTo, &doc.CopiedTo); err != nil {
			return fmt.Errorf("failed to unmarshal copied-to list: %w", err)
		}
	}
	return nil
}

// nullableReview maps the empty sub-status to NULL for the simple kinds.
func nullableReview(s domain.ReviewStatus) *string {
	if s == "" {
		return nil
	}
	v := string(s)
	return &v
}
