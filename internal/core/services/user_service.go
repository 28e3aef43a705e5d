package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Caqil/iprofit-admin-sub008/internal/apperrors"
	"github.com/Caqil/iprofit-admin-sub008/internal/core/domain"
	portsrepo "github.com/Caqil/iprofit-admin-sub008/internal/core/ports/repositories"
	portssvc "github.com/Caqil/iprofit-admin-sub008/internal/core/ports/services"
	"github.com/Caqil/iprofit-admin-sub008/internal/dto"
	"github.com/Caqil/iprofit-admin-sub008/internal/middleware"
	"github.com/Caqil/iprofit-admin-sub008/internal/utils"
	"github.com/Caqil/iprofit-admin-sub008/internal/utils/objectid"
)

// userService provides admin user management.
type userService struct {
	userRepo portsrepo.UserRepositoryFacade
	audit    portssvc.AuditSvcFacade
}

// NewUserService creates a new UserService.
func NewUserService(userRepo portsrepo.UserRepositoryFacade, audit portssvc.AuditSvcFacade) portssvc.UserSvcFacade {
	return &userService{
		userRepo: userRepo,
		audit:    audit,
	}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

// CreateUser creates a new admin-panel user with a hashed password.
func (s *userService) CreateUser(ctx context.Context, req dto.CreateUserRequest, creatorUserID string) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	role := domain.UserRole(req.Role)
	switch role {
	case domain.RoleSuperAdmin, domain.RoleAdmin, domain.RoleViewer:
	default:
		return nil, fmt.Errorf("%w: unknown role %s", apperrors.ErrValidation, req.Role)
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		logger.Error("Failed to hash password", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := domain.User{
		UserID:       objectid.New(),
		LoginName:    req.LoginName,
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: passwordHash,
		Role:         role,
		IsActive:     true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: login name %s already taken", apperrors.ErrDuplicate, req.LoginName)
		}
		logger.Error("Failed to save user", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	s.audit.Record(ctx, creatorUserID, "user.create", "user", user.UserID, domain.AuditSuccess, map[string]any{
		"loginName": user.LoginName,
		"role":      string(user.Role),
	})
	logger.Info("User created", slog.String("user_id", user.UserID), slog.String("role", string(user.Role)))
	return &user, nil
}

// GetUserByID retrieves a user by their ID.
func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			middleware.GetLoggerFromCtx(ctx).Error("Failed to find user by ID", slog.String("error", err.Error()), slog.String("user_id", userID))
		}
		return nil, err
	}
	return user, nil
}

// GetUserByLoginName retrieves a user by their login name.
func (s *userService) GetUserByLoginName(ctx context.Context, loginName string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByLoginName(ctx, loginName)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			middleware.GetLoggerFromCtx(ctx).Error("Failed to find user by login name", slog.String("error", err.Error()))
		}
		return nil, err
	}
	return user, nil
}

// ListUsers retrieves a page of users.
func (s *userService) ListUsers(ctx context.Context, limit int, offset int) ([]domain.User, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	users, err := s.userRepo.ListUsers(ctx, limit, offset)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to list users", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to retrieve users: %w", err)
	}
	return users, nil
}

// UpdateRefreshTokenDetails stores the hash and expiry of the user's current
// refresh token; an empty hash with nil expiry clears it.
func (s *userService) UpdateRefreshTokenDetails(ctx context.Context, userID string, tokenHash string, expiry *time.Time) error {
	if err := s.userRepo.UpdateRefreshToken(ctx, userID, tokenHash, expiry); err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to update refresh token details", slog.String("error", err.Error()), slog.String("user_id", userID))
		return fmt.Errorf("failed to update refresh token details: %w", err)
	}
	return nil
}
