package services

import (
	"context"

	"github.com/casfod/staff-portal-backend/internal/core/domain"
	"github.com/casfod/staff-portal-backend/internal/dto"
)

// RequestReaderSvc defines read operations for request documents.
type RequestReaderSvc interface {
	// GetRequestByID retrieves a document the requesting user is allowed to see:
	// its creator, an assigned reviewer/approver, a copied-to recipient, or an
	// administrative role.
	GetRequestByID(ctx context.Context, kind domain.RequestKind, requestID string, requestingUserID string) (*domain.RequestDocument, error)

	// ListMyRequests lists documents created by the user.
	ListMyRequests(ctx context.Context, kind domain.RequestKind, userID string, params dto.ListRequestsParams) (*dto.ListRequestsResponse, error)

	// ListAssignedRequests lists documents awaiting the user's action or copied to them.
	ListAssignedRequests(ctx context.Context, kind domain.RequestKind, userID string, params dto.ListRequestsParams) (*dto.ListRequestsResponse, error)
}

// RequestWriterSvc defines write operations for request documents.
type RequestWriterSvc interface {
	// CreateRequest creates a new document in DRAFT or PENDING status.
	CreateRequest(ctx context.Context, kind domain.RequestKind, req dto.CreateRequestRequest, creatorUserID string) (*domain.RequestDocument, error)

	// UpdateRequestStatus applies a status change (and/or comment) on behalf of
	// the acting user, then dispatches notifications fire-and-forget.
	UpdateRequestStatus(ctx context.Context, kind domain.RequestKind, requestID string, change dto.StatusChangeRequest, actorUserID string) (*domain.RequestDocument, error)

	// EditComment rewrites a comment's text, flagging it as edited. Only the
	// comment's author may edit it.
	EditComment(ctx context.Context, kind domain.RequestKind, requestID, commentID, text string, actorUserID string) (*domain.RequestDocument, error)

	// DeleteComment soft-deletes a comment. Only the author may delete it.
	DeleteComment(ctx context.Context, kind domain.RequestKind, requestID, commentID string, actorUserID string) (*domain.RequestDocument, error)
}

// RequestCopierSvc shares documents beyond the role-based visibility rules.
type RequestCopierSvc interface {
	// CopyRequest adds recipients to the document's copiedTo set. Only the
	// document's creator may copy it. Idempotent per recipient.
	CopyRequest(ctx context.Context, kind domain.RequestKind, requestID string, actorUserID string, recipients []string) (*domain.RequestDocument, error)
}

// RequestSvcFacade combines all request-document service interfaces.
type RequestSvcFacade interface {
	RequestReaderSvc
	RequestWriterSvc
	RequestCopierSvc
}
