package recommendations

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service validates and stores incoming recommendations.
type Service struct {
	Repo Repo
}

// Draft is one recommendation as submitted by the upstream validation
// pipeline, before it gets an id.
type Draft struct {
	FilePath    string  `json:"filePath"`
	Type        string  `json:"type"`
	Scope       Scope   `json:"scope"`
	Instruction string  `json:"instruction"`
	Confidence  float64 `json:"confidence"`
	Status      string  `json:"status"`
}

// Intake validates and persists a batch of drafts for a validation run.
// The whole batch is checked before anything is written.
func (s *Service) Intake(ctx context.Context, validationID string, drafts []Draft) ([]Recommendation, error) {
	if strings.TrimSpace(validationID) == "" || len(drafts) == 0 {
		return nil, ErrInvalidInput
	}
	for i, d := range drafts {
		if err := validateDraft(d); err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", ErrInvalidInput, i, err)
		}
	}

	now := time.Now().UTC()
	out := make([]Recommendation, 0, len(drafts))
	for _, d := range drafts {
		status := d.Status
		if status == "" {
			status = StatusProposed
		}
		rec := Recommendation{
			ID:           uuid.NewString(),
			ValidationID: validationID,
			FilePath:     d.FilePath,
			Type:         d.Type,
			Scope:        d.Scope,
			Instruction:  d.Instruction,
			Confidence:   d.Confidence,
			Status:       status,
			CreatedAt:    now,
		}
		if err := s.Repo.Create(ctx, rec); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// ListForValidation returns recommendations for a validation run, optionally
// filtered by status.
func (s *Service) ListForValidation(ctx context.Context, validationID, status string) ([]Recommendation, error) {
	if strings.TrimSpace(validationID) == "" {
		return nil, ErrInvalidInput
	}
	return s.Repo.ListByValidation(ctx, validationID, status)
}

// SetStatus moves a recommendation between review states. Applied is owned
// by the commit path and cannot be set here.
func (s *Service) SetStatus(ctx context.Context, id, status string) (Recommendation, error) {
	if status != StatusApproved && status != StatusRejected && status != StatusProposed {
		return Recommendation{}, ErrInvalidInput
	}
	rec, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return Recommendation{}, err
	}
	if rec.Status == StatusApplied {
		return Recommendation{}, ErrInvalidInput
	}
	if err := s.Repo.SetStatus(ctx, id, status); err != nil {
		return Recommendation{}, err
	}
	rec.Status = status
	return rec, nil
}

func validateDraft(d Draft) error {
	if strings.TrimSpace(d.FilePath) == "" {
		return fmt.Errorf("file path is required")
	}
	if strings.TrimSpace(d.Type) == "" {
		return fmt.Errorf("type is required")
	}
	if strings.TrimSpace(d.Instruction) == "" {
		return fmt.Errorf("instruction is required")
	}
	if d.Confidence < 0 || d.Confidence > 1 {
		return fmt.Errorf("confidence must be in [0,1]")
	}
	switch d.Scope.Kind {
	case ScopeFrontmatter, ScopePrerequisites, ScopeGlobal:
	case ScopeHeadingSection:
		if strings.TrimSpace(d.Scope.Name) == "" {
			return fmt.Errorf("heading-section scope requires a name")
		}
	case ScopeLineRange:
		if d.Scope.StartLine < 1 || d.Scope.EndLine < d.Scope.StartLine {
			return fmt.Errorf("invalid line range %d-%d", d.Scope.StartLine, d.Scope.EndLine)
		}
	default:
		return fmt.Errorf("unknown scope kind %q", d.Scope.Kind)
	}
	if d.Status != "" && d.Status != StatusProposed && d.Status != StatusApproved {
		return fmt.Errorf("status %q cannot be submitted", d.Status)
	}
	return nil
}
