package services

import (
	"context"
	"time"

	"github.com/Caqil/iprofit-admin-sub008/internal/core/domain"
	"github.com/Caqil/iprofit-admin-sub008/internal/dto"
)

// UserSvcFacade is the service interface for admin user management.
type UserSvcFacade interface {
	CreateUser(ctx context.Context, req dto.CreateUserRequest, creatorUserID string) (*domain.User, error)
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	GetUserByLoginName(ctx context.Context, loginName string) (*domain.User, error)
	ListUsers(ctx context.Context, limit int, offset int) ([]domain.User, error)
	UpdateRefreshTokenDetails(ctx context.Context, userID string, tokenHash string, expiry *time.Time) error
}
