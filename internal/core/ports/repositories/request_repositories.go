package repositories

import (
	"context"

	"github.com/casfod/staff-portal-backend/internal/core/domain"
)

// RequestReader defines read operations for request documents.
type RequestReader interface {
	// FindRequestByID retrieves a document by kind and identifier.
	FindRequestByID(ctx context.Context, kind domain.RequestKind, requestID string) (*domain.RequestDocument, error)

	// ListRequestsByCreator retrieves a paginated list of documents created by a user,
	// newest first, using token-based pagination.
	ListRequestsByCreator(ctx context.Context, kind domain.RequestKind, creatorID string, limit int, nextToken *string) ([]domain.RequestDocument, *string, error)

	// ListRequestsForActor retrieves documents where the user is an assigned
	// reviewer, approver, or copied-to recipient.
	ListRequestsForActor(ctx context.Context, kind domain.RequestKind, userID string, limit int, nextToken *string) ([]domain.RequestDocument, *string, error)
}

// RequestWriter defines write operations for request documents.
type RequestWriter interface {
	// SaveRequest inserts a new document with its items.
	SaveRequest(ctx context.Context, doc domain.RequestDocument) error

	// UpdateRequest persists the document's mutable workflow fields (status,
	// role references, sub-statuses, comments, copiedTo) in one atomic write.
	UpdateRequest(ctx context.Context, doc domain.RequestDocument) error
}

// RequestRepositoryFacade combines all request-document repository interfaces.
type RequestRepositoryFacade interface {
	RequestReader
	RequestWriter
}
