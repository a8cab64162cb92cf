package recommendations

import "errors"

var (
	ErrNotFound     = errors.New("recommendation not found")
	ErrInvalidInput = errors.New("invalid recommendation")
)
