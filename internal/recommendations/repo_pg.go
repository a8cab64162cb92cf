package recommendations

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new recommendation.
func (r *PGRepo) Create(ctx context.Context, rec Recommendation) error {
	if rec.ID == "" {
		return ErrInvalidInput
	}
	const query = `
INSERT INTO recommendations (
    id,
    validation_id,
    file_path,
    rec_type,
    scope_kind,
    scope_name,
    start_line,
    end_line,
    instruction,
    confidence,
    status,
    skip_reason,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NULL, $12)`

	var scopeName sql.NullString
	if rec.Scope.Name != "" {
		scopeName = sql.NullString{String: rec.Scope.Name, Valid: true}
	}
	var startLine, endLine sql.NullInt64
	if rec.Scope.Kind == ScopeLineRange {
		startLine = sql.NullInt64{Int64: int64(rec.Scope.StartLine), Valid: true}
		endLine = sql.NullInt64{Int64: int64(rec.Scope.EndLine), Valid: true}
	}
	status := rec.Status
	if status == "" {
		status = StatusProposed
	}

	_, err := r.DB.ExecContext(
		ctx,
		query,
		rec.ID,
		rec.ValidationID,
		rec.FilePath,
		rec.Type,
		rec.Scope.Kind,
		scopeName,
		startLine,
		endLine,
		rec.Instruction,
		rec.Confidence,
		status,
		rec.CreatedAt,
	)
	return err
}

const selectColumns = `
id, validation_id, file_path, rec_type, scope_kind, scope_name, start_line, end_line, instruction, confidence, status, skip_reason, created_at`

// GetByID fetches a recommendation by id.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Recommendation, error) {
	const query = `
SELECT` + selectColumns + `
FROM recommendations
WHERE id = $1
LIMIT 1`
	rec, err := scanRecommendation(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Recommendation{}, ErrNotFound
		}
		return Recommendation{}, err
	}
	return rec, nil
}

// ListByValidation lists recommendations for a validation run, oldest first.
func (r *PGRepo) ListByValidation(ctx context.Context, validationID string, status string) ([]Recommendation, error) {
	query := `
SELECT` + selectColumns + `
FROM recommendations
WHERE validation_id = $1
ORDER BY created_at ASC, id ASC`
	args := []any{validationID}
	if status != "" {
		query = `
SELECT` + selectColumns + `
FROM recommendations
WHERE validation_id = $1 AND status = $2
ORDER BY created_at ASC, id ASC`
		args = append(args, status)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Recommendation
	for rows.Next() {
		rec, err := scanRecommendation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// SetStatus updates a recommendation's review status.
func (r *PGRepo) SetStatus(ctx context.Context, id, status string) error {
	const query = `
UPDATE recommendations
SET status = $1
WHERE id = $2`
	res, err := r.DB.ExecContext(ctx, query, status, id)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkApplied flips a recommendation to applied and clears any skip reason.
func (r *PGRepo) MarkApplied(ctx context.Context, id string) error {
	const query = `
UPDATE recommendations
SET status = $1, skip_reason = NULL
WHERE id = $2`
	res, err := r.DB.ExecContext(ctx, query, StatusApplied, id)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkSkipped records the skip reason.
func (r *PGRepo) MarkSkipped(ctx context.Context, id, reason string) error {
	const query = `
UPDATE recommendations
SET skip_reason = $1
WHERE id = $2`
	res, err := r.DB.ExecContext(ctx, query, reason, id)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecommendation(row rowScanner) (Recommendation, error) {
	var rec Recommendation
	var scopeName, skipReason sql.NullString
	var startLine, endLine sql.NullInt64
	if err := row.Scan(
		&rec.ID,
		&rec.ValidationID,
		&rec.FilePath,
		&rec.Type,
		&rec.Scope.Kind,
		&scopeName,
		&startLine,
		&endLine,
		&rec.Instruction,
		&rec.Confidence,
		&rec.Status,
		&skipReason,
		&rec.CreatedAt,
	); err != nil {
		return Recommendation{}, err
	}
	if scopeName.Valid {
		rec.Scope.Name = scopeName.String
	}
	if startLine.Valid {
		rec.Scope.StartLine = int(startLine.Int64)
	}
	if endLine.Valid {
		rec.Scope.EndLine = int(endLine.Int64)
	}
	if skipReason.Valid {
		rec.SkipReason = skipReason.String
	}
	return rec, nil
}

var _ Repo = (*PGRepo)(nil)
