package docs

import "time"

// Document is a registered documentation file. Content lives in the object
// store under ContentKey; the row carries metadata and the current content
// hash.
type Document struct {
	ID          string
	FilePath    string
	ContentKey  string
	ContentHash string
	SizeBytes   int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
