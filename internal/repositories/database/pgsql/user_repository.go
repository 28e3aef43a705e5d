package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Caqil/iprofit-admin-sub008/internal/apperrors"
	"github.com/Caqil/iprofit-admin-sub008/internal/core/domain"
	portsrepo "github.com/Caqil/iprofit-admin-sub008/internal/core/ports/repositories"
	"github.com/Caqil/iprofit-admin-sub008/internal/models"
	"github.com/Caqil/iprofit-admin-sub008/internal/utils/mapping"
)

type PgxUserRepository struct {
	BaseRepository
}

// newPgxUserRepository creates a new repository for user data.
func newPgxUserRepository(pool *pgxpool.Pool) portsrepo.UserRepositoryFacade {
	return &PgxUserRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

const userColumns = `user_id, login_name, name, email, password_hash, role, is_active,
       refresh_token_hash, refresh_token_expiry_time,
       created_at, created_by, last_updated_at, last_updated_by`

func scanUserRow(row pgx.Row) (models.User, error) {
	var m models.User
	err := row.Scan(
		&m.UserID,
		&m.LoginName,
		&m.Name,
		&m.Email,
		&m.PasswordHash,
		&m.Role,
		&m.IsActive,
		&m.RefreshTokenHash,
		&m.RefreshTokenExpiryTime,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveUser inserts a new user. Login names are unique.
func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	modelUser := mapping.ToModelUser(user)

	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.Pool.Exec(ctx, query,
		modelUser.UserID,
		modelUser.LoginName,
		modelUser.Name,
		modelUser.Email,
		modelUser.PasswordHash,
		modelUser.Role,
		modelUser.IsActive,
		modelUser.RefreshTokenHash,
		modelUser.RefreshTokenExpiryTime,
		modelUser.CreatedAt,
		modelUser.CreatedBy,
		modelUser.LastUpdatedAt,
		modelUser.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return fmt.Errorf("%w: user with login name %s already exists", apperrors.ErrDuplicate, modelUser.LoginName)
		}
		return fmt.Errorf("failed to insert user %s: %w", modelUser.UserID, err)
	}
	return nil
}

// FindUserByID retrieves a user by their ID.
func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1;`

	modelUser, err := scanUserRow(r.Pool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by id %s: %w", userID, err)
	}

	user := mapping.ToDomainUser(modelUser)
	return &user, nil
}

// FindUserByLoginName retrieves a user by their unique login name.
func (r *PgxUserRepository) FindUserByLoginName(ctx context.Context, loginName string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE login_name = $1;`

	modelUser, err := scanUserRow(r.Pool.QueryRow(ctx, query, loginName))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by login name: %w", err)
	}

	user := mapping.ToDomainUser(modelUser)
	return &user, nil
}

// ListUsers retrieves a page of users ordered by creation time.
func (r *PgxUserRepository) ListUsers(ctx context.Context, limit int, offset int) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at, user_id LIMIT $1 OFFSET $2;`

	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	modelUsers, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.User, error) {
		return scanUserRow(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan users: %w", err)
	}

	return mapping.ToDomainUserSlice(modelUsers), nil
}

// UpdateRefreshToken stores the hash and expiry of the user's current refresh
// token; an empty hash with nil expiry clears it.
func (r *PgxUserRepository) UpdateRefreshToken(ctx context.Context, userID string, tokenHash string, expiry *time.Time) error {
	var hash *string
	if tokenHash != "" {
		hash = &tokenHash
	}

	query := `
		UPDATE users
		SET refresh_token_hash = $1, refresh_token_expiry_time = $2, last_updated_at = $3, last_updated_by = $4
		WHERE user_id = $5;
	`
	tag, err := r.Pool.Exec(ctx, query, hash, expiry, time.Now().UTC(), userID, userID)
	if err != nil {
		return fmt.Errorf("failed to update refresh token for user %s: %w", userID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
