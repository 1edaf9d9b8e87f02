package services

import (
	"context"

	"github.com/casfod/staff-portal-backend/internal/core/domain"
	"github.com/casfod/staff-portal-backend/internal/dto"
)

// UserReaderSvc defines read operations over the user directory.
type UserReaderSvc interface {
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	GetUsersByIDs(ctx context.Context, userIDs []string) (map[string]domain.User, error)
	ListUsers(ctx context.Context, limit int, offset int) ([]domain.User, error)
}

// UserWriterSvc defines account management operations.
type UserWriterSvc interface {
	RegisterUser(ctx context.Context, req dto.RegisterUserRequest, creatorUserID string) (*domain.User, error)
	DeactivateUser(ctx context.Context, userID string, actorUserID string) error
}

// UserAuthSvc authenticates credentials against the user directory.
type UserAuthSvc interface {
	// AuthenticateUser verifies email/password and returns the matching user,
	// or apperrors.ErrUnauthorized for bad credentials.
	AuthenticateUser(ctx context.Context, email, password string) (*domain.User, error)
}

// UserSvcFacade combines all user service interfaces.
type UserSvcFacade interface {
	UserReaderSvc
	UserWriterSvc
	UserAuthSvc
}
