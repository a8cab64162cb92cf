package history

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu      sync.RWMutex
	records map[string]EnhancementRecord // enhancement id -> record
	points  map[string]RollbackPoint     // enhancement id -> point
	events  []AuditEvent
	nextID  int64
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		records: make(map[string]EnhancementRecord),
		points:  make(map[string]RollbackPoint),
	}
}

// SaveRecordWithRollback stores the record and its rollback point together.
func (r *MemoryRepo) SaveRecordWithRollback(ctx context.Context, rec EnhancementRecord, point RollbackPoint) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[rec.EnhancementID] = rec
	r.points[rec.EnhancementID] = point
	return nil
}

// GetRecord returns the record for an enhancement id.
func (r *MemoryRepo) GetRecord(ctx context.Context, enhancementID string) (EnhancementRecord, error) {
	if err := ctx.Err(); err != nil {
		return EnhancementRecord{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[enhancementID]
	if !ok {
		return EnhancementRecord{}, ErrRecordNotFound
	}
	return rec, nil
}

// ListRecordsByPath returns records for a path, newest first.
func (r *MemoryRepo) ListRecordsByPath(ctx context.Context, filePath string, limit, offset int) ([]EnhancementRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []EnhancementRecord
	for _, rec := range r.records {
		if rec.FilePath == filePath {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AppliedAt.Equal(out[j].AppliedAt) {
			return out[i].EnhancementID < out[j].EnhancementID
		}
		return out[i].AppliedAt.After(out[j].AppliedAt)
	})
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

// GetRollbackPoint returns the rollback point for an enhancement id.
func (r *MemoryRepo) GetRollbackPoint(ctx context.Context, enhancementID string) (RollbackPoint, error) {
	if err := ctx.Err(); err != nil {
		return RollbackPoint{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	point, ok := r.points[enhancementID]
	if !ok {
		return RollbackPoint{}, ErrRollbackNotAvailable
	}
	return point, nil
}

// ConsumeRollback marks the point used and the record no longer rollbackable.
func (r *MemoryRepo) ConsumeRollback(ctx context.Context, enhancementID string, usedAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	point, ok := r.points[enhancementID]
	if !ok || point.UsedAt != nil {
		return ErrRollbackNotAvailable
	}
	point.UsedAt = &usedAt
	r.points[enhancementID] = point

	rec, ok := r.records[enhancementID]
	if !ok {
		return ErrRecordNotFound
	}
	rec.RollbackAvailable = false
	r.records[enhancementID] = rec
	return nil
}

// AppendEvent appends an audit event.
func (r *MemoryRepo) AppendEvent(ctx context.Context, ev AuditEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	ev.ID = r.nextID
	r.events = append(r.events, ev)
	return nil
}

// ListEvents returns the audit trail for an enhancement, oldest first.
func (r *MemoryRepo) ListEvents(ctx context.Context, enhancementID string) ([]AuditEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []AuditEvent
	for _, ev := range r.events {
		if ev.EnhancementID == enhancementID {
			out = append(out, ev)
		}
	}
	return out, nil
}

var _ Repo = (*MemoryRepo)(nil)
