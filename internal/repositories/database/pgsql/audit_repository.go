package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Caqil/iprofit-admin-sub008/internal/core/domain"
	portsrepo "github.com/Caqil/iprofit-admin-sub008/internal/core/ports/repositories"
	"github.com/Caqil/iprofit-admin-sub008/internal/utils/mapping"
)

type PgxAuditRepository struct {
	BaseRepository
}

// newPgxAuditRepository creates a new repository for the audit trail.
func newPgxAuditRepository(pool *pgxpool.Pool) portsrepo.AuditRepositoryFacade {
	return &PgxAuditRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.AuditRepositoryFacade = (*PgxAuditRepository)(nil)

// SaveAuditLog inserts one audit trail entry. The detail document lands in a
// jsonb column.
func (r *PgxAuditRepository) SaveAuditLog(ctx context.Context, entry domain.AuditLog) error {
	modelEntry, err := mapping.ToModelAuditLog(entry)
	if err != nil {
		return fmt.Errorf("failed to serialize audit detail for %s: %w", entry.AuditID, err)
	}

	query := `
		INSERT INTO audit_logs (audit_id, actor_user_id, action, entity_type, entity_id, outcome, detail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err = r.Pool.Exec(ctx, query,
		modelEntry.AuditID,
		modelEntry.ActorUserID,
		modelEntry.Action,
		modelEntry.EntityType,
		modelEntry.EntityID,
		modelEntry.Outcome,
		modelEntry.Detail,
		modelEntry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit log %s: %w", modelEntry.AuditID, err)
	}
	return nil
}
