package postgres

import (
	"context"
	"database/sql"
	"log"

	"github.com/danprat/ABSEN-DESA/internal/store"
)

// AuditLog writes audit entries to the audit_logs table. Recording is
// best-effort: failures are logged and never propagated to the caller.
type AuditLog struct {
	pool *Pool
}

// NewAuditLog creates a PostgreSQL-backed audit sink.
func NewAuditLog(pool *Pool) *AuditLog {
	return &AuditLog{pool: pool}
}

// Record inserts one audit row.
func (a *AuditLog) Record(ctx context.Context, entry store.AuditEntry) {
	query := `
		INSERT INTO audit_logs (action, entity, entity_id, description, actor, details)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	var entityID sql.NullInt64
	if entry.EntityID != 0 {
		entityID = sql.NullInt64{Int64: entry.EntityID, Valid: true}
	}

	if _, err := a.pool.Exec(ctx, query,
		entry.Action, entry.Entity, entityID, entry.Description, entry.Actor, entry.Details,
	); err != nil {
		log.Printf("audit: failed to record %s: %v", entry.Action, err)
	}
}

var _ store.AuditSink = (*AuditLog)(nil)
