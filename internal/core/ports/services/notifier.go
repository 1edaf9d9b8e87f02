package services

import (
	"context"

	"github.com/casfod/staff-portal-backend/internal/core/domain"
)

// NotificationDispatcher delivers a notification to its recipients. The
// workflow engine treats dispatch as fire-and-forget: a failed send is logged
// by the caller and never rolls back the status change that produced it.
type NotificationDispatcher interface {
	Send(ctx context.Context, notification domain.Notification) error
}
