package recommendations

import "context"

// Repo is the persistence contract for recommendation records.
type Repo interface {
	Create(ctx context.Context, rec Recommendation) error
	GetByID(ctx context.Context, id string) (Recommendation, error)
	ListByValidation(ctx context.Context, validationID string, status string) ([]Recommendation, error)
	SetStatus(ctx context.Context, id, status string) error
	MarkApplied(ctx context.Context, id string) error
	MarkSkipped(ctx context.Context, id, reason string) error
}
