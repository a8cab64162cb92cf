package docs

import (
	"context"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"docguard-backend/internal/shared/storage/object"
	"docguard-backend/internal/shared/util"
)

// Service manages document registration and content access. All mutation of
// stored content outside this service goes through the history manager's
// atomic commit.
type Service struct {
	Repo  Repo
	Store object.ObjectStore
}

// Register stores content for a new or existing path and returns the record.
func (s *Service) Register(ctx context.Context, filePath, content string) (Document, error) {
	filePath = strings.TrimSpace(filePath)
	if filePath == "" || content == "" {
		return Document{}, ErrInvalidInput
	}

	hash := util.HashContent(content)
	key, size, err := object.SaveText(ctx, s.Store, util.HashPathKey(filePath), path.Base(filePath), content)
	if err != nil {
		return Document{}, err
	}

	existing, err := s.Repo.GetByPath(ctx, filePath)
	if err == nil {
		if err := s.Repo.UpdateContent(ctx, filePath, key, hash, size); err != nil {
			return Document{}, err
		}
		existing.ContentKey = key
		existing.ContentHash = hash
		existing.SizeBytes = size
		existing.UpdatedAt = time.Now().UTC()
		return existing, nil
	}
	if err != ErrNotFound {
		return Document{}, err
	}

	now := time.Now().UTC()
	doc := Document{
		ID:          uuid.NewString(),
		FilePath:    filePath,
		ContentKey:  key,
		ContentHash: hash,
		SizeBytes:   size,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Repo.Create(ctx, doc); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// Content loads the current content of a registered document.
func (s *Service) Content(ctx context.Context, filePath string) (Document, string, error) {
	doc, err := s.Repo.GetByPath(ctx, filePath)
	if err != nil {
		return Document{}, "", err
	}
	content, err := object.LoadText(ctx, s.Store, doc.ContentKey)
	if err != nil {
		return Document{}, "", err
	}
	return doc, content, nil
}

// ReplaceContent commits new content for a registered document and returns
// the new hash. Called by the history manager on approved application and on
// rollback; never by handlers directly.
func (s *Service) ReplaceContent(ctx context.Context, filePath, content string) (string, error) {
	doc, err := s.Repo.GetByPath(ctx, filePath)
	if err != nil {
		return "", err
	}
	hash := util.HashContent(content)
	key, size, err := object.SaveText(ctx, s.Store, util.HashPathKey(filePath), path.Base(doc.FilePath), content)
	if err != nil {
		return "", err
	}
	if err := s.Repo.UpdateContent(ctx, filePath, key, hash, size); err != nil {
		return "", err
	}
	return hash, nil
}
