package recommendations

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Recommendation // id -> record
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data: make(map[string]Recommendation),
	}
}

// Create stores a recommendation.
func (r *MemoryRepo) Create(ctx context.Context, rec Recommendation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if rec.ID == "" {
		return ErrInvalidInput
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[rec.ID] = rec
	return nil
}

// GetByID returns a recommendation by id.
func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Recommendation, error) {
	if err := ctx.Err(); err != nil {
		return Recommendation{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.data[id]
	if !ok {
		return Recommendation{}, ErrNotFound
	}
	return rec, nil
}

// ListByValidation returns recommendations for a validation run, oldest
// first. An empty status matches all statuses.
func (r *MemoryRepo) ListByValidation(ctx context.Context, validationID string, status string) ([]Recommendation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Recommendation, 0, 8)
	for _, rec := range r.data {
		if rec.ValidationID != validationID {
			continue
		}
		if status != "" && rec.Status != status {
			continue
		}
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// SetStatus updates a recommendation's review status.
func (r *MemoryRepo) SetStatus(ctx context.Context, id, status string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.data[id]
	if !ok {
		return ErrNotFound
	}
	rec.Status = status
	r.data[id] = rec
	return nil
}

// MarkApplied flips a recommendation to applied.
func (r *MemoryRepo) MarkApplied(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.data[id]
	if !ok {
		return ErrNotFound
	}
	rec.Status = StatusApplied
	rec.SkipReason = ""
	r.data[id] = rec
	return nil
}

// MarkSkipped records a skip reason without changing approval status.
func (r *MemoryRepo) MarkSkipped(ctx context.Context, id, reason string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.data[id]
	if !ok {
		return ErrNotFound
	}
	rec.SkipReason = reason
	r.data[id] = rec
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
