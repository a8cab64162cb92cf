package history

import "errors"

var (
	// ErrRecordNotFound means no enhancement record exists for the id.
	ErrRecordNotFound = errors.New("enhancement record not found")

	// ErrRollbackNotAvailable means the rollback point is missing, expired,
	// or already consumed. The record itself stays queryable.
	ErrRollbackNotAvailable = errors.New("rollback not available")

	// ErrNotCommittable means the result failed its safety gate and must
	// never reach persisted state.
	ErrNotCommittable = errors.New("enhancement result is not committable")
)
