package history

import (
	"context"
	"time"
)

// Repo is the persistence contract for enhancement history. The audit table
// is append-only; nothing in this interface deletes.
type Repo interface {
	// SaveRecordWithRollback persists the record and its rollback point as
	// one atomic unit. Neither exists without the other.
	SaveRecordWithRollback(ctx context.Context, rec EnhancementRecord, point RollbackPoint) error
	GetRecord(ctx context.Context, enhancementID string) (EnhancementRecord, error)
	ListRecordsByPath(ctx context.Context, filePath string, limit, offset int) ([]EnhancementRecord, error)
	GetRollbackPoint(ctx context.Context, enhancementID string) (RollbackPoint, error)
	// ConsumeRollback marks the point used and flips the record's
	// rollback_available flag in one atomic unit. Fails with
	// ErrRollbackNotAvailable if the point was already consumed.
	ConsumeRollback(ctx context.Context, enhancementID string, usedAt time.Time) error
	AppendEvent(ctx context.Context, ev AuditEvent) error
	ListEvents(ctx context.Context, enhancementID string) ([]AuditEvent, error)
}
