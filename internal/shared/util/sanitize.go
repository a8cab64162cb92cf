package util

import (
	"errors"
	"strings"
)

// ErrInvalidFileName is returned when a name cannot be made store-safe.
var ErrInvalidFileName = errors.New("invalid file name")

// SanitizeFileName flattens a document path into a single store-safe name.
// Documentation paths carry slashes ("docs/plugins/words/install.md"); the
// object stores key flat names, so separators become underscores. Traversal
// patterns are rejected outright.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", ErrInvalidFileName
	}
	s := strings.TrimSpace(name)
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.Trim(s, "_")
	if s == "" {
		return "", ErrInvalidFileName
	}
	return s, nil
}
