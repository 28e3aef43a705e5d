package repositories

import (
	"context"

	"github.com/Caqil/iprofit-admin-sub008/internal/core/domain"
)

// AuditRepositoryFacade defines persistence for the admin audit trail.
type AuditRepositoryFacade interface {
	SaveAuditLog(ctx context.Context, entry domain.AuditLog) error
}

// NotificationRepositoryFacade defines persistence for notification records.
type NotificationRepositoryFacade interface {
	SaveNotification(ctx context.Context, notification domain.Notification) error
	UpdateNotificationStatus(ctx context.Context, notificationID string, status domain.NotificationStatus) error
}
