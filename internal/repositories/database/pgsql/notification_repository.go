package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Caqil/iprofit-admin-sub008/internal/apperrors"
	"github.com/Caqil/iprofit-admin-sub008/internal/core/domain"
	portsrepo "github.com/Caqil/iprofit-admin-sub008/internal/core/ports/repositories"
	"github.com/Caqil/iprofit-admin-sub008/internal/utils/mapping"
)

type PgxNotificationRepository struct {
	BaseRepository
}

// newPgxNotificationRepository creates a new repository for notification records.
func newPgxNotificationRepository(pool *pgxpool.Pool) portsrepo.NotificationRepositoryFacade {
	return &PgxNotificationRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.NotificationRepositoryFacade = (*PgxNotificationRepository)(nil)

// SaveNotification inserts a new notification record.
func (r *PgxNotificationRepository) SaveNotification(ctx context.Context, notification domain.Notification) error {
	m := mapping.ToModelNotification(notification)

	query := `
		INSERT INTO notifications (notification_id, user_id, channel, subject, body, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.NotificationID,
		m.UserID,
		m.Channel,
		m.Subject,
		m.Body,
		m.Status,
		m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert notification %s: %w", m.NotificationID, err)
	}
	return nil
}

// UpdateNotificationStatus records the delivery outcome of a notification.
func (r *PgxNotificationRepository) UpdateNotificationStatus(ctx context.Context, notificationID string, status domain.NotificationStatus) error {
	query := `UPDATE notifications SET status = $1 WHERE notification_id = $2;`

	tag, err := r.Pool.Exec(ctx, query, string(status), notificationID)
	if err != nil {
		return fmt.Errorf("failed to update status of notification %s: %w", notificationID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
