package docs

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new document record.
func (r *PGRepo) Create(ctx context.Context, doc Document) error {
	if doc.FilePath == "" {
		return ErrInvalidInput
	}
	const query = `
INSERT INTO documents (
    id,
    file_path,
    content_key,
    content_hash,
    size_bytes,
    created_at,
    updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.DB.ExecContext(
		ctx,
		query,
		doc.ID,
		doc.FilePath,
		doc.ContentKey,
		doc.ContentHash,
		doc.SizeBytes,
		doc.CreatedAt,
		doc.UpdatedAt,
	)
	return err
}

// GetByPath fetches a document by its file path.
func (r *PGRepo) GetByPath(ctx context.Context, filePath string) (Document, error) {
	const query = `
SELECT id, file_path, content_key, content_hash, size_bytes, created_at, updated_at
FROM documents
WHERE file_path = $1
LIMIT 1`
	var doc Document
	err := r.DB.QueryRowContext(ctx, query, filePath).Scan(
		&doc.ID,
		&doc.FilePath,
		&doc.ContentKey,
		&doc.ContentHash,
		&doc.SizeBytes,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	return doc, nil
}

// UpdateContent points the document at new stored content.
func (r *PGRepo) UpdateContent(ctx context.Context, filePath, contentKey, contentHash string, sizeBytes int64) error {
	const query = `
UPDATE documents
SET content_key = $1, content_hash = $2, size_bytes = $3, updated_at = $4
WHERE file_path = $5`
	res, err := r.DB.ExecContext(ctx, query, contentKey, contentHash, sizeBytes, time.Now().UTC(), filePath)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns documents ordered by path.
func (r *PGRepo) List(ctx context.Context, limit, offset int) ([]Document, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
SELECT id, file_path, content_key, content_hash, size_bytes, created_at, updated_at
FROM documents
ORDER BY file_path ASC
LIMIT $1 OFFSET $2`

	rows, err := r.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		var doc Document
		if err := rows.Scan(
			&doc.ID,
			&doc.FilePath,
			&doc.ContentKey,
			&doc.ContentHash,
			&doc.SizeBytes,
			&doc.CreatedAt,
			&doc.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

var _ Repo = (*PGRepo)(nil)
