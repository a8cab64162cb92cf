package preview

import (
	"time"

	"docguard-backend/internal/enhance"
)

// Preview statuses. pending is the only non-terminal state; a terminal
// preview is never reused.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
	StatusExpired  = "expired"
)

// DefaultTTL is how long a preview stays applicable.
const DefaultTTL = 30 * time.Minute

// Preview wraps one orchestrator result as a time-boxed reviewable
// artifact. Nothing persisted changes until the preview is applied.
type Preview struct {
	PreviewID    string                     `json:"previewId"`
	ValidationID string                     `json:"validationId"`
	FilePath     string                     `json:"filePath"`
	Result       *enhance.EnhancementResult `json:"result"`
	CreatedAt    time.Time                  `json:"createdAt"`
	ExpiresAt    time.Time                  `json:"expiresAt"`
	Status       string                     `json:"status"`
}

// ApplyResult reports an approved and committed preview.
type ApplyResult struct {
	PreviewID     string    `json:"previewId"`
	EnhancementID string    `json:"enhancementId"`
	FilePath      string    `json:"filePath"`
	AppliedAt     time.Time `json:"appliedAt"`
}
