package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/Caqil/iprofit-admin-sub008/internal/core/domain"
	portsrepo "github.com/Caqil/iprofit-admin-sub008/internal/core/ports/repositories"
	portssvc "github.com/Caqil/iprofit-admin-sub008/internal/core/ports/services"
	"github.com/Caqil/iprofit-admin-sub008/internal/middleware"
	"github.com/Caqil/iprofit-admin-sub008/internal/utils/objectid"
)

// auditService writes the admin audit trail. Recording is best effort: a
// failed write is logged and never fails the operation being audited.
type auditService struct {
	auditRepo portsrepo.AuditRepositoryFacade
}

// NewAuditService creates a new AuditService.
func NewAuditService(auditRepo portsrepo.AuditRepositoryFacade) portssvc.AuditSvcFacade {
	return &auditService{auditRepo: auditRepo}
}

var _ portssvc.AuditSvcFacade = (*auditService)(nil)

func (s *auditService) Record(ctx context.Context, actorUserID, action, entityType, entityID string, outcome domain.AuditOutcome, detail map[string]any) {
	entry := domain.AuditLog{
		AuditID:     objectid.New(),
		ActorUserID: actorUserID,
		Action:      action,
		EntityType:  entityType,
		EntityID:    entityID,
		Outcome:     outcome,
		Detail:      detail,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.auditRepo.SaveAuditLog(ctx, entry); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Failed to write audit log entry",
			slog.String("error", err.Error()),
			slog.String("action", action),
			slog.String("entity_id", entityID),
		)
	}
}
