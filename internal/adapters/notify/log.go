package notify

import (
	"context"
	"log/slog"

	"github.com/casfod/staff-portal-backend/internal/core/domain"
	portssvc "github.com/casfod/staff-portal-backend/internal/core/ports/services"
	"github.com/casfod/staff-portal-backend/internal/middleware"
)

// logDispatcher records notifications in the structured log instead of
// sending them. Used in development and when SMTP is not configured.
type logDispatcher struct{}

// NewLogDispatcher creates a NotificationDispatcher that only logs.
func NewLogDispatcher() portssvc.NotificationDispatcher {
	return logDispatcher{}
}

var _ portssvc.NotificationDispatcher = logDispatcher{}

func (logDispatcher) Send(ctx context.Context, n domain.Notification) error {
	if n.Empty() {
		return nil
	}
	middleware.GetLoggerFromCtx(ctx).Info("Notification",
		slog.String("reason", string(n.Reason)),
		slog.String("request_id", n.RequestID),
		slog.String("kind", string(n.Kind)),
		slog.Any("recipients", n.Recipients),
		slog.String("summary", n.Summary),
	)
	return nil
}
