package repositories

import (
	"context"

	"github.com/casfod/staff-portal-backend/internal/core/domain"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	SaveUser(ctx context.Context, user domain.User) error
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	FindUsersByIDs(ctx context.Context, userIDs []string) (map[string]domain.User, error)
	ListUsers(ctx context.Context, limit int, offset int) ([]domain.User, error)
	MarkUserDeleted(ctx context.Context, userID string, deletedByUserID string) error
}
