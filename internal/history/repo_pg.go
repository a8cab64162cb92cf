package history

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// SaveRecordWithRollback inserts the record and its rollback point in one
// transaction.
func (r *PGRepo) SaveRecordWithRollback(ctx context.Context, rec EnhancementRecord, point RollbackPoint) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const insertRecord = `
INSERT INTO enhancement_records (
    enhancement_id, file_path, hash_before, hash_after,
    applied_ids, safety_score, applied_by, applied_at, rollback_available
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	if _, err := tx.ExecContext(ctx, insertRecord,
		rec.EnhancementID,
		rec.FilePath,
		rec.HashBefore,
		rec.HashAfter,
		strings.Join(rec.AppliedIDs, ","),
		rec.SafetyScore,
		rec.AppliedBy,
		rec.AppliedAt,
		rec.RollbackAvailable,
	); err != nil {
		return err
	}

	const insertPoint = `
INSERT INTO rollback_points (
    rollback_id, enhancement_id, backup_key, created_at, expires_at, used_at
) VALUES ($1, $2, $3, $4, $5, NULL)`
	if _, err := tx.ExecContext(ctx, insertPoint,
		point.RollbackID,
		point.EnhancementID,
		point.BackupKey,
		point.CreatedAt,
		point.ExpiresAt,
	); err != nil {
		return err
	}

	return tx.Commit()
}

const recordColumns = `
enhancement_id, file_path, hash_before, hash_after, applied_ids, safety_score, applied_by, applied_at, rollback_available`

// GetRecord fetches a record by enhancement id.
func (r *PGRepo) GetRecord(ctx context.Context, enhancementID string) (EnhancementRecord, error) {
	const query = `
SELECT` + recordColumns + `
FROM enhancement_records
WHERE enhancement_id = $1
LIMIT 1`
	rec, err := scanRecord(r.DB.QueryRowContext(ctx, query, enhancementID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return EnhancementRecord{}, ErrRecordNotFound
		}
		return EnhancementRecord{}, err
	}
	return rec, nil
}

// ListRecordsByPath lists records for a document path, newest first.
func (r *PGRepo) ListRecordsByPath(ctx context.Context, filePath string, limit, offset int) ([]EnhancementRecord, error) {
	const query = `
SELECT` + recordColumns + `
FROM enhancement_records
WHERE file_path = $1
ORDER BY applied_at DESC, enhancement_id ASC
LIMIT $2 OFFSET $3`
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.DB.QueryContext(ctx, query, filePath, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EnhancementRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// GetRollbackPoint fetches the rollback point for an enhancement.
func (r *PGRepo) GetRollbackPoint(ctx context.Context, enhancementID string) (RollbackPoint, error) {
	const query = `
SELECT rollback_id, enhancement_id, backup_key, created_at, expires_at, used_at
FROM rollback_points
WHERE enhancement_id = $1
LIMIT 1`
	var point RollbackPoint
	var usedAt sql.NullTime
	err := r.DB.QueryRowContext(ctx, query, enhancementID).Scan(
		&point.RollbackID,
		&point.EnhancementID,
		&point.BackupKey,
		&point.CreatedAt,
		&point.ExpiresAt,
		&usedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return RollbackPoint{}, ErrRollbackNotAvailable
		}
		return RollbackPoint{}, err
	}
	if usedAt.Valid {
		t := usedAt.Time
		point.UsedAt = &t
	}
	return point, nil
}

// ConsumeRollback marks the point used and clears the record's availability
// flag in one transaction. The guard on used_at makes a double consume lose
// the race cleanly.
func (r *PGRepo) ConsumeRollback(ctx context.Context, enhancementID string, usedAt time.Time) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const markPoint = `
UPDATE rollback_points
SET used_at = $1
WHERE enhancement_id = $2 AND used_at IS NULL`
	res, err := tx.ExecContext(ctx, markPoint, usedAt, enhancementID)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrRollbackNotAvailable
	}

	const markRecord = `
UPDATE enhancement_records
SET rollback_available = FALSE
WHERE enhancement_id = $1`
	if _, err := tx.ExecContext(ctx, markRecord, enhancementID); err != nil {
		return err
	}

	return tx.Commit()
}

// AppendEvent appends one audit event.
func (r *PGRepo) AppendEvent(ctx context.Context, ev AuditEvent) error {
	const query = `
INSERT INTO audit_events (enhancement_id, event_type, actor, detail, created_at)
VALUES ($1, $2, $3, $4, $5)`
	_, err := r.DB.ExecContext(ctx, query, ev.EnhancementID, ev.EventType, ev.Actor, ev.Detail, ev.CreatedAt)
	return err
}

// ListEvents returns the audit trail for an enhancement, oldest first.
func (r *PGRepo) ListEvents(ctx context.Context, enhancementID string) ([]AuditEvent, error) {
	const query = `
SELECT id, enhancement_id, event_type, actor, detail, created_at
FROM audit_events
WHERE enhancement_id = $1
ORDER BY id ASC`
	rows, err := r.DB.QueryContext(ctx, query, enhancementID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AuditEvent
	for rows.Next() {
		var ev AuditEvent
		if err := rows.Scan(&ev.ID, &ev.EnhancementID, &ev.EventType, &ev.Actor, &ev.Detail, &ev.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (EnhancementRecord, error) {
	var rec EnhancementRecord
	var appliedIDs string
	if err := row.Scan(
		&rec.EnhancementID,
		&rec.FilePath,
		&rec.HashBefore,
		&rec.HashAfter,
		&appliedIDs,
		&rec.SafetyScore,
		&rec.AppliedBy,
		&rec.AppliedAt,
		&rec.RollbackAvailable,
	); err != nil {
		return EnhancementRecord{}, err
	}
	if appliedIDs != "" {
		rec.AppliedIDs = strings.Split(appliedIDs, ",")
	}
	return rec, nil
}

var _ Repo = (*PGRepo)(nil)
