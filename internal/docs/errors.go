package docs

import "errors"

var (
	ErrNotFound     = errors.New("document not found")
	ErrInvalidInput = errors.New("invalid document")
)
