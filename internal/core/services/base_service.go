package services

import (
	"context"
	"log/slog"

	"github.com/casfod/staff-portal-backend/internal/core/domain"
	portssvc "github.com/casfod/staff-portal-backend/internal/core/ports/services"
	"github.com/casfod/staff-portal-backend/internal/middleware"
)

const defaultListLimit = 20

func normalizeLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return defaultListLimit
	}
	return limit
}

// canViewDocument implements the role-based visibility rule shared by every
// request kind: the creator, the assigned actors, copied-to recipients, and
// administrative roles may read a document.
func canViewDocument(doc *domain.RequestDocument, user *domain.User) bool {
	if user.Role.CanOverrideStatus() {
		return true
	}
	if doc.CreatorRef == user.UserID {
		return true
	}
	for _, ref := range []*string{doc.ReviewedBy, doc.ApprovedBy, doc.Approver, doc.FinanceReviewer, doc.ProcurementReviewer} {
		if refMatches(ref, user.UserID) {
			return true
		}
	}
	return doc.IsCopiedTo(user.UserID)
}

// dispatchNotification sends fire-and-forget: the status change is committed
// before this runs, so a transport failure is logged and suppressed, never
// surfaced to the caller. The send happens on a detached context so it is not
// cancelled when the HTTP request finishes.
func dispatchNotification(ctx context.Context, notifier portssvc.NotificationDispatcher, notification domain.Notification) {
	if notifier == nil || notification.Empty() {
		return
	}
	logger := middleware.GetLoggerFromCtx(ctx)
	go func() {
		if err := notifier.Send(context.WithoutCancel(ctx), notification); err != nil {
			logger.Error("Notification dispatch failed",
				slog.String("error", err.Error()),
				slog.String("request_id", notification.RequestID),
				slog.String("reason", string(notification.Reason)),
				slog.Int("recipients", len(notification.Recipients)))
		}
	}()
}
