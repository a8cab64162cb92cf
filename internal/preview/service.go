package preview

import (
	"context"
	"time"

	"github.com/google/uuid"

	"docguard-backend/internal/docs"
	"docguard-backend/internal/enhance"
	"docguard-backend/internal/history"
	"docguard-backend/internal/recommendations"
	"docguard-backend/internal/shared/telemetry"
)

// Service generates previews and gates document mutation behind explicit
// approval of a non-expired preview.
type Service struct {
	Orchestrator *enhance.Orchestrator
	Recs         recommendations.Repo
	Docs         *docs.Service
	History      *history.Service
	Store        *Store
	TTL          time.Duration
	Now          func() time.Time // defaults to time.Now; overridable in tests
}

func (s *Service) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return DefaultTTL
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Generate runs the orchestrator over a validation's approved
// recommendations and stores the result as a pending preview. No persisted
// document changes.
func (s *Service) Generate(ctx context.Context, validationID string, rules enhance.PreservationRules) (Preview, error) {
	recs, err := s.Recs.ListByValidation(ctx, validationID, recommendations.StatusApproved)
	if err != nil {
		return Preview{}, err
	}
	if len(recs) == 0 {
		return Preview{}, ErrNoRecommendations
	}
	filePath := recs[0].FilePath
	for _, rec := range recs[1:] {
		if rec.FilePath != filePath {
			return Preview{}, ErrMixedFilePaths
		}
	}

	_, content, err := s.Docs.Content(ctx, filePath)
	if err != nil {
		return Preview{}, err
	}

	result, err := s.Orchestrator.EnhanceFromRecommendations(ctx, content, recs, rules, filePath)
	if err != nil {
		return Preview{}, err
	}

	now := s.now()
	p := Preview{
		PreviewID:    uuid.NewString(),
		ValidationID: validationID,
		FilePath:     filePath,
		Result:       result,
		CreatedAt:    now,
		ExpiresAt:    now.Add(s.ttl()),
		Status:       StatusPending,
	}
	s.Store.Put(p)

	telemetry.Info("preview.generated", map[string]any{
		"preview_id":    p.PreviewID,
		"validation_id": validationID,
		"file_path":     filePath,
		"accepted":      result.Accepted,
		"applied":       len(result.Applied),
		"skipped":       len(result.Skipped),
	})
	return p, nil
}

// Get returns a preview by id, marking it expired first if its window has
// passed.
func (s *Service) Get(ctx context.Context, previewID string) (Preview, error) {
	var out Preview
	err := s.Store.WithLock(previewID, func(p *Preview) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.expireIfDue(p, s.now())
		out = *p
		return nil
	})
	return out, err
}

// Apply commits a pending preview. Holding the preview's lock across the
// whole commit keeps the sweeper and concurrent applies on the same id out.
func (s *Service) Apply(ctx context.Context, previewID, actor string) (ApplyResult, error) {
	var out ApplyResult
	err := s.Store.WithLock(previewID, func(p *Preview) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		now := s.now()
		s.expireIfDue(p, now)
		if p.Status != StatusPending {
			return ErrPreviewExpired
		}

		rec, err := s.History.Commit(ctx, p.Result, actor)
		if err != nil {
			return err
		}

		p.Status = StatusApproved
		out = ApplyResult{
			PreviewID:     p.PreviewID,
			EnhancementID: rec.EnhancementID,
			FilePath:      rec.FilePath,
			AppliedAt:     rec.AppliedAt,
		}
		return nil
	})
	if err != nil {
		return ApplyResult{}, err
	}
	telemetry.Info("preview.applied", map[string]any{
		"preview_id":     out.PreviewID,
		"enhancement_id": out.EnhancementID,
		"applied_by":     actor,
	})
	return out, nil
}

// Reject marks a pending preview rejected. The document is untouched.
func (s *Service) Reject(ctx context.Context, previewID string) error {
	return s.Store.WithLock(previewID, func(p *Preview) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.expireIfDue(p, s.now())
		if p.Status != StatusPending {
			return ErrPreviewExpired
		}
		p.Status = StatusRejected
		return nil
	})
}

// SweepExpired flips every overdue pending preview to expired and reports
// how many it flipped.
func (s *Service) SweepExpired(now time.Time) int {
	swept := 0
	for _, id := range s.Store.IDs() {
		_ = s.Store.WithLock(id, func(p *Preview) error {
			if s.expireIfDue(p, now) {
				swept++
			}
			return nil
		})
	}
	if swept > 0 {
		telemetry.Info("preview.swept", map[string]any{"count": swept})
	}
	return swept
}

// RunSweeper sweeps on a ticker until the context ends.
func (s *Service) RunSweeper(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.SweepExpired(now.UTC())
		}
	}
}

func (s *Service) expireIfDue(p *Preview, now time.Time) bool {
	if p.Status == StatusPending && now.After(p.ExpiresAt) {
		p.Status = StatusExpired
		return true
	}
	return false
}
