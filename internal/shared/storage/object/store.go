package object

import (
	"context"
	"io"
	"strings"
)

// ObjectStore defines the contract for saving and retrieving document
// payloads: current document content and rollback backups.
type ObjectStore interface {
	Save(ctx context.Context, namespace string, fileName string, r io.Reader) (storageKey string, sizeBytes int64, err error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
}

// SaveText stores a text payload and returns its storage key.
func SaveText(ctx context.Context, store ObjectStore, namespace, fileName, content string) (string, int64, error) {
	return store.Save(ctx, namespace, fileName, strings.NewReader(content))
}

// LoadText reads a stored text payload in full.
func LoadText(ctx context.Context, store ObjectStore, storageKey string) (string, error) {
	reader, err := store.Open(ctx, storageKey)
	if err != nil {
		return "", err
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
