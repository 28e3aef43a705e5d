package services

import (
	"context"
	"time"

	"github.com/Caqil/iprofit-admin-sub008/internal/core/domain"
)

// TokenSvcFacade issues and validates access and refresh tokens.
type TokenSvcFacade interface {
	GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error)
	GenerateRefreshToken(ctx context.Context, user *domain.User) (string, time.Time, error)
	ValidateAndParseRefreshToken(ctx context.Context, userID string, refreshTokenString string) (*domain.User, error)
}
