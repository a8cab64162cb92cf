package preview

import "errors"

var (
	// ErrPreviewNotFound means no preview exists for the id.
	ErrPreviewNotFound = errors.New("preview not found")

	// ErrPreviewExpired means the preview is past its expiry or already in a
	// terminal state.
	ErrPreviewExpired = errors.New("preview expired")

	// ErrNoRecommendations means the validation has no approved
	// recommendations to preview.
	ErrNoRecommendations = errors.New("no approved recommendations for validation")

	// ErrMixedFilePaths means the batch targets more than one document. A
	// preview covers exactly one file.
	ErrMixedFilePaths = errors.New("recommendations target multiple file paths")
)
