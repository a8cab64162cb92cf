package history

import (
	"context"
	"time"

	"github.com/google/uuid"

	"docguard-backend/internal/docs"
	"docguard-backend/internal/enhance"
	"docguard-backend/internal/recommendations"
	"docguard-backend/internal/shared/storage/object"
	"docguard-backend/internal/shared/telemetry"
	"docguard-backend/internal/shared/util"
)

// DefaultRetention is how long a rollback point stays restorable.
const DefaultRetention = 30 * 24 * time.Hour

// backupNamespace is the object-store prefix for pre-edit snapshots.
const backupNamespace = "backups"

// Service commits approved enhancement results and restores rollback
// points. It is the only writer of document content besides registration.
type Service struct {
	Repo      Repo
	Docs      *docs.Service
	Recs      recommendations.Repo
	Store     object.ObjectStore
	Retention time.Duration
}

func (s *Service) retention() time.Duration {
	if s.Retention > 0 {
		return s.Retention
	}
	return DefaultRetention
}

// Commit persists an accepted enhancement result: backs up the pre-edit
// content, writes the record and rollback point atomically, replaces the
// document, updates recommendation statuses, and appends the audit event.
//
// The record and point land before the document is replaced, so a crash in
// between leaves the document untouched with a stale record rather than a
// mutated document with no rollback point.
func (s *Service) Commit(ctx context.Context, result *enhance.EnhancementResult, actor string) (EnhancementRecord, error) {
	if result == nil || !result.Accepted {
		return EnhancementRecord{}, ErrNotCommittable
	}

	backupKey, _, err := object.SaveText(ctx, s.Store, backupNamespace, result.EnhancementID+".md", result.OriginalContent)
	if err != nil {
		return EnhancementRecord{}, err
	}

	now := time.Now().UTC()
	appliedIDs := make([]string, 0, len(result.Applied))
	for _, a := range result.Applied {
		appliedIDs = append(appliedIDs, a.RecommendationID)
	}

	rec := EnhancementRecord{
		EnhancementID:     result.EnhancementID,
		FilePath:          result.FilePath,
		HashBefore:        util.HashContent(result.OriginalContent),
		HashAfter:         util.HashContent(result.EnhancedContent),
		AppliedIDs:        appliedIDs,
		SafetyScore:       result.SafetyScore.Overall,
		AppliedBy:         actor,
		AppliedAt:         now,
		RollbackAvailable: true,
	}
	point := RollbackPoint{
		RollbackID:    uuid.NewString(),
		EnhancementID: result.EnhancementID,
		BackupKey:     backupKey,
		CreatedAt:     now,
		ExpiresAt:     now.Add(s.retention()),
	}
	if err := s.Repo.SaveRecordWithRollback(ctx, rec, point); err != nil {
		return EnhancementRecord{}, err
	}

	if _, err := s.Docs.ReplaceContent(ctx, result.FilePath, result.EnhancedContent); err != nil {
		return EnhancementRecord{}, err
	}

	for _, id := range appliedIDs {
		if err := s.Recs.MarkApplied(ctx, id); err != nil {
			telemetry.Warn("history.mark_applied_failed", map[string]any{
				"enhancement_id":    result.EnhancementID,
				"recommendation_id": id,
				"err":               err.Error(),
			})
		}
	}
	for _, skip := range result.Skipped {
		if err := s.Recs.MarkSkipped(ctx, skip.RecommendationID, skip.Reason+": "+skip.Detail); err != nil {
			telemetry.Warn("history.mark_skipped_failed", map[string]any{
				"enhancement_id":    result.EnhancementID,
				"recommendation_id": skip.RecommendationID,
				"err":               err.Error(),
			})
		}
	}

	if err := s.Repo.AppendEvent(ctx, AuditEvent{
		EnhancementID: result.EnhancementID,
		EventType:     EventApplied,
		Actor:         actor,
		Detail:        result.FilePath,
		CreatedAt:     now,
	}); err != nil {
		return EnhancementRecord{}, err
	}

	telemetry.Info("history.committed", map[string]any{
		"enhancement_id": result.EnhancementID,
		"file_path":      result.FilePath,
		"applied":        len(result.Applied),
		"skipped":        len(result.Skipped),
		"safety_score":   result.SafetyScore.Overall,
	})
	return rec, nil
}

// Rollback restores the pre-edit content for a committed enhancement. The
// restore is byte-for-byte from the backup; the audit trail only grows.
func (s *Service) Rollback(ctx context.Context, enhancementID, actor string) (RollbackResult, error) {
	rec, err := s.Repo.GetRecord(ctx, enhancementID)
	if err != nil {
		return RollbackResult{}, err
	}

	point, err := s.Repo.GetRollbackPoint(ctx, enhancementID)
	if err != nil {
		return RollbackResult{}, err
	}
	now := time.Now().UTC()
	if point.UsedAt != nil || !rec.RollbackAvailable || now.After(point.ExpiresAt) {
		return RollbackResult{}, ErrRollbackNotAvailable
	}

	content, err := object.LoadText(ctx, s.Store, point.BackupKey)
	if err != nil {
		return RollbackResult{}, err
	}

	// Restore before consuming the point: a failure between the two leaves
	// the rollback re-runnable instead of consumed-but-unrestored.
	hash, err := s.Docs.ReplaceContent(ctx, rec.FilePath, content)
	if err != nil {
		return RollbackResult{}, err
	}

	if err := s.Repo.ConsumeRollback(ctx, enhancementID, now); err != nil {
		return RollbackResult{}, err
	}

	if err := s.Repo.AppendEvent(ctx, AuditEvent{
		EnhancementID: enhancementID,
		EventType:     EventRolledBack,
		Actor:         actor,
		Detail:        rec.FilePath,
		CreatedAt:     now,
	}); err != nil {
		return RollbackResult{}, err
	}

	telemetry.Info("history.rolled_back", map[string]any{
		"enhancement_id": enhancementID,
		"file_path":      rec.FilePath,
	})
	return RollbackResult{
		EnhancementID: enhancementID,
		FilePath:      rec.FilePath,
		RestoredHash:  hash,
		RolledBackAt:  now,
	}, nil
}

// Record returns the enhancement record for an id.
func (s *Service) Record(ctx context.Context, enhancementID string) (EnhancementRecord, error) {
	return s.Repo.GetRecord(ctx, enhancementID)
}

// RecordsForPath returns the enhancement history of a document, newest
// first.
func (s *Service) RecordsForPath(ctx context.Context, filePath string, limit, offset int) ([]EnhancementRecord, error) {
	return s.Repo.ListRecordsByPath(ctx, filePath, limit, offset)
}

// Events returns the audit trail for an enhancement, oldest first.
func (s *Service) Events(ctx context.Context, enhancementID string) ([]AuditEvent, error) {
	return s.Repo.ListEvents(ctx, enhancementID)
}
