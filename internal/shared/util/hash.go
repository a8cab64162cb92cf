package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashContent returns the hex SHA-256 of document content. Used for audit
// records and content-addressed backup keys.
func HashContent(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// HashPathKey returns a filesystem-safe identifier for a document path.
func HashPathKey(path string) string {
	sum := sha256.Sum256([]byte(path))
	return hex.EncodeToString(sum[:])
}
