package docs

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Document // filePath -> document
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data: make(map[string]Document),
	}
}

// Create stores a new document record.
func (r *MemoryRepo) Create(ctx context.Context, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if doc.FilePath == "" {
		return ErrInvalidInput
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[doc.FilePath] = doc
	return nil
}

// GetByPath returns the document registered at filePath.
func (r *MemoryRepo) GetByPath(ctx context.Context, filePath string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.data[filePath]
	if !ok {
		return Document{}, ErrNotFound
	}
	return doc, nil
}

// UpdateContent points the document at new stored content.
func (r *MemoryRepo) UpdateContent(ctx context.Context, filePath, contentKey, contentHash string, sizeBytes int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.data[filePath]
	if !ok {
		return ErrNotFound
	}
	doc.ContentKey = contentKey
	doc.ContentHash = contentHash
	doc.SizeBytes = sizeBytes
	doc.UpdatedAt = time.Now().UTC()
	r.data[filePath] = doc
	return nil
}

// List returns documents ordered by path, honoring limit/offset.
func (r *MemoryRepo) List(ctx context.Context, limit, offset int) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if offset < 0 {
		offset = 0
	}
	if limit < 0 {
		limit = 0
	}

	r.mu.RLock()
	all := make([]Document, 0, len(r.data))
	for _, doc := range r.data {
		all = append(all, doc)
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		return all[i].FilePath < all[j].FilePath
	})

	if offset >= len(all) {
		return []Document{}, nil
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end], nil
}

var _ Repo = (*MemoryRepo)(nil)
