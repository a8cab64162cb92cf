package docs

import "context"

// Repo is the persistence contract for document metadata.
type Repo interface {
	Create(ctx context.Context, doc Document) error
	GetByPath(ctx context.Context, filePath string) (Document, error)
	UpdateContent(ctx context.Context, filePath, contentKey, contentHash string, sizeBytes int64) error
	List(ctx context.Context, limit, offset int) ([]Document, error)
}
