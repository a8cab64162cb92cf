package history

import "time"

// Audit event types.
const (
	EventApplied    = "applied"
	EventRolledBack = "rollback"
)

// EnhancementRecord is the durable record of one committed enhancement.
type EnhancementRecord struct {
	EnhancementID     string
	FilePath          string
	HashBefore        string
	HashAfter         string
	AppliedIDs        []string
	SafetyScore       float64
	AppliedBy         string
	AppliedAt         time.Time
	RollbackAvailable bool
}

// RollbackPoint holds a full backup of the pre-edit content. Single use:
// once consumed, UsedAt is set and the point never restores again. The row
// itself is never deleted; it stays as evidence in the audit trail.
type RollbackPoint struct {
	RollbackID    string
	EnhancementID string
	BackupKey     string
	CreatedAt     time.Time
	ExpiresAt     time.Time
	UsedAt        *time.Time
}

// AuditEvent is one append-only trail entry for an enhancement.
type AuditEvent struct {
	ID            int64
	EnhancementID string
	EventType     string
	Actor         string
	Detail        string
	CreatedAt     time.Time
}

// RollbackResult reports a completed restore.
type RollbackResult struct {
	EnhancementID string    `json:"enhancementId"`
	FilePath      string    `json:"filePath"`
	RestoredHash  string    `json:"restoredHash"`
	RolledBackAt  time.Time `json:"rolledBackAt"`
}
