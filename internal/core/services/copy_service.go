package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/casfod/staff-portal-backend/internal/apperrors"
	"github.com/casfod/staff-portal-backend/internal/core/domain"
	portsrepo "github.com/casfod/staff-portal-backend/internal/core/ports/repositories"
	portssvc "github.com/casfod/staff-portal-backend/internal/core/ports/services"
	"github.com/casfod/staff-portal-backend/internal/middleware"
)

// copyService handles sharing a document with additional users. Copying is
// idempotent per recipient and never notifies users who already had it.
type copyService struct {
	requestRepo portsrepo.RequestRepositoryFacade
	notifier    portssvc.NotificationDispatcher
}

func newCopyService(requestRepo portsrepo.RequestRepositoryFacade, notifier portssvc.NotificationDispatcher) *copyService {
	return &copyService{requestRepo: requestRepo, notifier: notifier}
}

// CopyDocument adds recipients to the document's copied-to list. Only the
// creator may share a document.
func (s *copyService) CopyDocument(ctx context.Context, kind domain.RequestKind, requestID string, actorUserID string, recipients []string) (*domain.RequestDocument, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	doc, err := s.requestRepo.FindRequestByID(ctx, kind, requestID)
	if err != nil {
		return nil, err
	}
	if doc.CreatorRef != actorUserID {
		return nil, fmt.Errorf("%w: only the creator may share a request", apperrors.ErrForbidden)
	}

	var added []string
	for _, recipient := range recipients {
		if recipient == "" || recipient == actorUserID || doc.IsCopiedTo(recipient) {
			continue
		}
		doc.CopiedTo = append(doc.CopiedTo, recipient)
		added = append(added, recipient)
	}
	if len(added) == 0 {
		return doc, nil
	}

	now := time.Now().UTC()
	doc.LastUpdatedAt = now
	doc.LastUpdatedBy = actorUserID
	if err := s.requestRepo.UpdateRequest(ctx, *doc); err != nil {
		logger.Error("Failed to persist copy", slog.String("error", err.Error()), slog.String("request_id", requestID))
		return nil, fmt.Errorf("failed to persist copy: %w", err)
	}

	logger.Info("Request copied", slog.String("request_id", requestID), slog.Int("new_recipients", len(added)))
	dispatchNotification(ctx, s.notifier, CopyNotification(doc, added))
	return doc, nil
}
