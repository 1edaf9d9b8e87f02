package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/casfod/staff-portal-backend/internal/apperrors"
	"github.com/casfod/staff-portal-backend/internal/core/domain"
	portsrepo "github.com/casfod/staff-portal-backend/internal/core/ports/repositories"
	portssvc "github.com/casfod/staff-portal-backend/internal/core/ports/services"
	"github.com/casfod/staff-portal-backend/internal/dto"
	"github.com/casfod/staff-portal-backend/internal/middleware"
	"github.com/casfod/staff-portal-backend/internal/utils"
)

type userService struct {
	userRepo portsrepo.UserRepository
}

// NewUserService creates a new UserSvcFacade.
func NewUserService(userRepo portsrepo.UserRepository) portssvc.UserSvcFacade {
	return &userService{userRepo: userRepo}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

// RegisterUser creates a new staff account. Privileged roles can only be
// granted by an administrator; self-registration always yields STAFF.
func (s *userService) RegisterUser(ctx context.Context, req dto.RegisterUserRequest, creatorUserID string) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if existing, err := s.userRepo.FindUserByEmail(ctx, req.Email); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: email already registered", apperrors.ErrDuplicate)
	} else if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check for existing user: %w", err)
	}

	role := domain.RoleStaff
	if req.Role != "" && req.Role != domain.RoleStaff {
		creator, err := s.userRepo.FindUserByID(ctx, creatorUserID)
		if err != nil || !creator.Role.CanOverrideStatus() {
			return nil, fmt.Errorf("%w: only administrators may assign roles", apperrors.ErrForbidden)
		}
		role = req.Role
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := domain.User{
		UserID:       uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		Role:         role,
		PasswordHash: hash,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	if user.CreatedBy == "" {
		user.CreatedBy = user.UserID
		user.LastUpdatedBy = user.UserID
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		logger.Error("Failed to save user", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	logger.Info("User registered", slog.String("user_id", user.UserID), slog.String("role", string(user.Role)))
	return &user, nil
}

// AuthenticateUser verifies email/password credentials.
func (s *userService) AuthenticateUser(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user.DeletedAt != nil || !utils.CheckPassword(user.PasswordHash, password) {
		return nil, apperrors.ErrUnauthorized
	}
	return user, nil
}

// GetUserByID retrieves a single active user.
func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.DeletedAt != nil {
		return nil, apperrors.ErrNotFound
	}
	return user, nil
}

// GetUsersByIDs batch-resolves users, keyed by ID. Missing IDs are absent
// from the result rather than an error.
func (s *userService) GetUsersByIDs(ctx context.Context, userIDs []string) (map[string]domain.User, error) {
	if len(userIDs) == 0 {
		return map[string]domain.User{}, nil
	}
	return s.userRepo.FindUsersByIDs(ctx, userIDs)
}

// ListUsers returns a page of active users.
func (s *userService) ListUsers(ctx context.Context, limit int, offset int) ([]domain.User, error) {
	if offset < 0 {
		offset = 0
	}
	return s.userRepo.ListUsers(ctx, normalizeLimit(limit), offset)
}

// DeactivateUser soft-deletes an account. Administrators only, and never
// their own account.
func (s *userService) DeactivateUser(ctx context.Context, userID string, actorUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	actor, err := s.userRepo.FindUserByID(ctx, actorUserID)
	if err != nil {
		return fmt.Errorf("failed to resolve acting user: %w", err)
	}
	if !actor.Role.CanOverrideStatus() {
		return fmt.Errorf("%w: only administrators may deactivate users", apperrors.ErrForbidden)
	}
	if userID == actorUserID {
		return fmt.Errorf("%w: cannot deactivate own account", apperrors.ErrValidation)
	}

	if err := s.userRepo.MarkUserDeleted(ctx, userID, actorUserID); err != nil {
		return err
	}
	logger.Info("User deactivated", slog.String("user_id", userID), slog.String("actor", actorUserID))
	return nil
}
