package repositories

import (
	"context"
	"time"

	"github.com/Caqil/iprofit-admin-sub008/internal/core/domain"
)

// UserRepositoryFacade defines persistence operations for admin users.
type UserRepositoryFacade interface {
	SaveUser(ctx context.Context, user domain.User) error
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)
	FindUserByLoginName(ctx context.Context, loginName string) (*domain.User, error)
	ListUsers(ctx context.Context, limit int, offset int) ([]domain.User, error)
	// UpdateRefreshToken stores the hash and expiry of the user's current
	// refresh token; empty hash with nil expiry clears it.
	UpdateRefreshToken(ctx context.Context, userID string, tokenHash string, expiry *time.Time) error
}
