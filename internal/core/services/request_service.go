package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/casfod/staff-portal-backend/internal/apperrors"
	"github.com/casfod/staff-portal-backend/internal/core/domain"
	portsrepo "github.com/casfod/staff-portal-backend/internal/core/ports/repositories"
	portssvc "github.com/casfod/staff-portal-backend/internal/core/ports/services"
	"github.com/casfod/staff-portal-backend/internal/dto"
	"github.com/casfod/staff-portal-backend/internal/middleware"
)

// requestService provides the generic workflow operations shared by every
// non-leave request kind. Leave applications get the same engine through
// leaveService because their transitions also drive the balance ledger.
type requestService struct {
	requestRepo portsrepo.RequestRepositoryFacade
	userSvc     portssvc.UserReaderSvc
	notifier    portssvc.NotificationDispatcher
	copier      *copyService
	engine      statusEngine
}

// NewRequestService creates a new RequestSvcFacade.
func NewRequestService(requestRepo portsrepo.RequestRepositoryFacade, userSvc portssvc.UserReaderSvc, notifier portssvc.NotificationDispatcher) portssvc.RequestSvcFacade {
	return &requestService{
		requestRepo: requestRepo,
		userSvc:     userSvc,
		notifier:    notifier,
		copier:      newCopyService(requestRepo, notifier),
	}
}

var _ portssvc.RequestSvcFacade = (*requestService)(nil)

// CreateRequest creates a new document in DRAFT or PENDING status.
func (s *requestService) CreateRequest(ctx context.Context, kind domain.RequestKind, req dto.CreateRequestRequest, creatorUserID string) (*domain.RequestDocument, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !kind.IsValid() || kind == domain.KindLeaveApplication {
		return nil, fmt.Errorf("%w: unsupported request kind %q", apperrors.ErrValidation, kind)
	}
	if kind.DualReview() && (req.FinanceReviewer == nil || req.ProcurementReviewer == nil) {
		return nil, fmt.Errorf("%w: purchase requests need both a finance and a procurement reviewer", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	status := domain.StatusPending
	if req.Draft {
		if !kind.Allows(domain.StatusDraft) {
			return nil, fmt.Errorf("%w: %s requests cannot be saved as drafts", apperrors.ErrValidation, kind)
		}
		status = domain.StatusDraft
	}

	items := make([]domain.RequestItem, len(req.Items))
	total := req.Amount
	if len(req.Items) > 0 {
		total = decimal.Zero
		for i, item := range req.Items {
			lineTotal := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
			items[i] = domain.RequestItem{
				ItemID:      uuid.NewString(),
				Description: item.Description,
				Quantity:    item.Quantity,
				UnitPrice:   item.UnitPrice,
				Total:       lineTotal,
			}
			total = total.Add(lineTotal)
		}
	}

	doc := domain.RequestDocument{
		RequestID:           uuid.NewString(),
		Kind:                kind,
		Title:               req.Title,
		Amount:              total,
		Status:              status,
		CreatorRef:          creatorUserID,
		ReviewedBy:          req.ReviewedBy,
		Approver:            req.Approver,
		FinanceReviewer:     req.FinanceReviewer,
		ProcurementReviewer: req.ProcurementReviewer,
		Items:               items,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	if kind.DualReview() {
		doc.FinanceReviewStatus = domain.ReviewPending
		doc.ProcurementReviewStatus = domain.ReviewPending
	}

	if err := s.requestRepo.SaveRequest(ctx, doc); err != nil {
		logger.Error("Failed to save request", slog.String("error", err.Error()), slog.String("kind", string(kind)))
		return nil, fmt.Errorf("failed to save request: %w", err)
	}

	logger.Info("Request created", slog.String("request_id", doc.RequestID), slog.String("kind", string(kind)), slog.String("status", string(status)))

	if status == domain.StatusPending {
		dispatchNotification(ctx, s.notifier, ResolveRecipients("", domain.StatusPending, &doc, creatorUserID))
	}
	return &doc, nil
}

// UpdateRequestStatus applies a status change and/or comment on behalf of the
// acting user, persists the document, and dispatches notifications.
func (s *requestService) UpdateRequestStatus(ctx context.Context, kind domain.RequestKind, requestID string, change dto.StatusChangeRequest, actorUserID string) (*domain.RequestDocument, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	doc, err := s.requestRepo.FindRequestByID(ctx, kind, requestID)
	if err != nil {
		return nil, err
	}

	actor, err := s.userSvc.GetUserByID(ctx, actorUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve acting user: %w", err)
	}

	now := time.Now().UTC()
	result, err := s.engine.Transition(doc, change, *actor, now)
	if err != nil {
		return nil, err
	}
	if !result.StatusChanged && !result.CommentAdded {
		return doc, nil
	}

	if err := s.requestRepo.UpdateRequest(ctx, *doc); err != nil {
		logger.Error("Failed to persist status change", slog.String("error", err.Error()), slog.String("request_id", requestID))
		return nil, fmt.Errorf("failed to persist status change: %w", err)
	}

	logger.Info("Request status updated",
		slog.String("request_id", requestID),
		slog.String("kind", string(kind)),
		slog.String("previous", string(result.PreviousStatus)),
		slog.String("status", string(doc.Status)),
	)

	if result.StatusChanged {
		dispatchNotification(ctx, s.notifier, ResolveRecipients(result.PreviousStatus, doc.Status, doc, actorUserID))
	}
	return doc, nil
}

// GetRequestByID retrieves a document the requesting user is allowed to see.
func (s *requestService) GetRequestByID(ctx context.Context, kind domain.RequestKind, requestID string, requestingUserID string) (*domain.RequestDocument, error) {
	doc, err := s.requestRepo.FindRequestByID(ctx, kind, requestID)
	if err != nil {
		return nil, err
	}
	user, err := s.userSvc.GetUserByID(ctx, requestingUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve requesting user: %w", err)
	}
	if !canViewDocument(doc, user) {
		// Obscure existence from users outside the document's audience.
		return nil, apperrors.ErrNotFound
	}
	return doc, nil
}

// ListMyRequests lists documents created by the user.
func (s *requestService) ListMyRequests(ctx context.Context, kind domain.RequestKind, userID string, params dto.ListRequestsParams) (*dto.ListRequestsResponse, error) {
	docs, nextToken, err := s.requestRepo.ListRequestsByCreator(ctx, kind, userID, normalizeLimit(params.Limit), params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	return &dto.ListRequestsResponse{Requests: dto.ToRequestResponses(docs), NextToken: nextToken}, nil
}

// ListAssignedRequests lists documents awaiting the user's action or copied to them.
func (s *requestService) ListAssignedRequests(ctx context.Context, kind domain.RequestKind, userID string, params dto.ListRequestsParams) (*dto.ListRequestsResponse, error) {
	docs, nextToken, err := s.requestRepo.ListRequestsForActor(ctx, kind, userID, normalizeLimit(params.Limit), params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list assigned requests: %w", err)
	}
	return &dto.ListRequestsResponse{Requests: dto.ToRequestResponses(docs), NextToken: nextToken}, nil
}

// CopyRequest delegates to the copy/share service.
func (s *requestService) CopyRequest(ctx context.Context, kind domain.RequestKind, requestID string, actorUserID string, recipients []string) (*domain.RequestDocument, error) {
	return s.copier.CopyDocument(ctx, kind, requestID, actorUserID, recipients)
}

// EditComment rewrites a comment's text, flagging it as edited.
func (s *requestService) EditComment(ctx context.Context, kind domain.RequestKind, requestID, commentID, text string, actorUserID string) (*domain.RequestDocument, error) {
	return s.mutateComment(ctx, kind, requestID, commentID, actorUserID, func(c *domain.Comment, now time.Time) {
		c.Text = text
		c.Edited = true
		c.UpdatedAt = now
	})
}

// DeleteComment soft-deletes a comment; the entry stays in storage and is
// filtered out at the DTO boundary.
func (s *requestService) DeleteComment(ctx context.Context, kind domain.RequestKind, requestID, commentID string, actorUserID string) (*domain.RequestDocument, error) {
	return s.mutateComment(ctx, kind, requestID, commentID, actorUserID, func(c *domain.Comment, now time.Time) {
		c.Deleted = true
		c.UpdatedAt = now
	})
}

func (s *requestService) mutateComment(ctx context.Context, kind domain.RequestKind, requestID, commentID, actorUserID string, mutate func(*domain.Comment, time.Time)) (*domain.RequestDocument, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	doc, err := s.requestRepo.FindRequestByID(ctx, kind, requestID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	found := false
	for i := range doc.Comments {
		c := &doc.Comments[i]
		if c.CommentID != commentID || c.Deleted {
			continue
		}
		if c.Author != actorUserID {
			return nil, fmt.Errorf("%w: only the comment author may modify it", apperrors.ErrForbidden)
		}
		mutate(c, now)
		found = true
		break
	}
	if !found {
		return nil, fmt.Errorf("%w: comment %s", apperrors.ErrNotFound, commentID)
	}

	doc.LastUpdatedAt = now
	doc.LastUpdatedBy = actorUserID
	if err := s.requestRepo.UpdateRequest(ctx, *doc); err != nil {
		logger.Error("Failed to persist comment change", slog.String("error", err.Error()), slog.String("request_id", requestID))
		return nil, fmt.Errorf("failed to persist comment change: %w", err)
	}
	return doc, nil
}
