package enhance

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"docguard-backend/internal/recommendations"
)

// Skip reasons. Every skipped recommendation carries one of these plus a
// human-readable detail.
const (
	SkipUnsupportedType        = "unsupported-type"
	SkipExtractionFailed       = "extraction-failed"
	SkipValidationViolation    = "validation-violation"
	SkipExternalServiceFailure = "external-service-failure"
)

// AppliedRecommendation records one edit that made it into the assembled
// document.
type AppliedRecommendation struct {
	RecommendationID string  `json:"recommendationId"`
	OriginalSection  string  `json:"originalSection"`
	EnhancedSection  string  `json:"enhancedSection"`
	HandlerUsed      string  `json:"handlerUsed"`
	EditConfidence   float64 `json:"editConfidence"`
}

// SkippedRecommendation records one edit that was not applied and why.
type SkippedRecommendation struct {
	RecommendationID string `json:"recommendationId"`
	Reason           string `json:"reason"`
	Detail           string `json:"detail"`
}

// EnhancementResult is the immutable outcome of one orchestrator run. When
// Accepted is false the document failed the final safety gate and
// EnhancedContent is byte-identical to the input.
type EnhancementResult struct {
	EnhancementID   string                  `json:"enhancementId"`
	FilePath        string                  `json:"filePath"`
	OriginalContent string                  `json:"originalContent"`
	EnhancedContent string                  `json:"enhancedContent"`
	Applied         []AppliedRecommendation `json:"applied"`
	Skipped         []SkippedRecommendation `json:"skipped"`
	UnifiedDiff     string                  `json:"unifiedDiff"`
	DiffStats       DiffStats               `json:"diffStats"`
	SafetyScore     SafetyScore             `json:"safetyScore"`
	Accepted        bool                    `json:"accepted"`
}

// Orchestrator sequences one enhancement run end to end: pre-flight, ordered
// handler dispatch with per-edit validation, whole-document scoring, diff.
type Orchestrator struct {
	Handlers  *Registry
	Validator Validator
	Extractor Extractor
}

// NewOrchestrator wires an orchestrator around a handler registry.
func NewOrchestrator(handlers *Registry) *Orchestrator {
	return &Orchestrator{Handlers: handlers, Extractor: NewExtractor()}
}

// EnhanceFromRecommendations applies a recommendation batch to content and
// returns the assembled result without touching any persisted state.
//
// Recommendations run in descending confidence order so the most trusted
// edits see the cleanest document and a later conflict lands on the least
// trusted change. A recommendation that cannot be applied is recorded as a
// skip and the batch continues; only pre-flight failure aborts the run.
func (o *Orchestrator) EnhanceFromRecommendations(ctx context.Context, content string, recs []recommendations.Recommendation, rules PreservationRules, filePath string) (*EnhancementResult, error) {
	if pre := o.Validator.ValidateBeforeEnhancement(content, recs, rules); !pre.CanProceed {
		return nil, &PreflightError{Diagnostics: pre.Diagnostics}
	}

	ordered := make([]recommendations.Recommendation, len(recs))
	copy(ordered, recs)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Confidence != ordered[j].Confidence {
			return ordered[i].Confidence > ordered[j].Confidence
		}
		return ordered[i].ID < ordered[j].ID
	})

	result := &EnhancementResult{
		EnhancementID:   uuid.New().String(),
		FilePath:        filePath,
		OriginalContent: content,
		Applied:         []AppliedRecommendation{},
		Skipped:         []SkippedRecommendation{},
	}

	doc := SplitSections(content)
	for _, rec := range ordered {
		handler, ok := o.Handlers.For(rec.Type)
		if !ok {
			result.Skipped = append(result.Skipped, SkippedRecommendation{
				RecommendationID: rec.ID,
				Reason:           SkipUnsupportedType,
				Detail:           "no handler registered for type " + rec.Type,
			})
			continue
		}

		ec, err := o.Extractor.Extract(doc, rec, rules)
		if err != nil {
			result.Skipped = append(result.Skipped, SkippedRecommendation{
				RecommendationID: rec.ID,
				Reason:           SkipExtractionFailed,
				Detail:           err.Error(),
			})
			continue
		}

		candidate, confidence, err := handler.Apply(ctx, ec, rec, rules)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			result.Skipped = append(result.Skipped, SkippedRecommendation{
				RecommendationID: rec.ID,
				Reason:           SkipExternalServiceFailure,
				Detail:           err.Error(),
			})
			continue
		}

		verdict := o.Validator.ValidateEdit(ec.Target, candidate, rec, rules)
		if !verdict.IsValid {
			result.Skipped = append(result.Skipped, SkippedRecommendation{
				RecommendationID: rec.ID,
				Reason:           SkipValidationViolation,
				Detail:           violationSummary(verdict.Violations),
			})
			continue
		}

		if ec.Global {
			doc = SplitSections(candidate)
		} else {
			doc.Replace(ec.TargetID, candidate)
		}
		result.Applied = append(result.Applied, AppliedRecommendation{
			RecommendationID: rec.ID,
			OriginalSection:  ec.Target,
			EnhancedSection:  candidate,
			HandlerUsed:      handler.Type(),
			EditConfidence:   confidence,
		})
	}

	assembled := doc.Render()
	result.SafetyScore = o.Validator.CalculateSafetyScore(content, assembled, rules)
	result.Accepted = result.SafetyScore.IsSafe()
	if result.Accepted {
		result.EnhancedContent = assembled
	} else {
		// Conservative all-or-nothing acceptance: the caller gets the
		// original back along with the full violation list.
		result.EnhancedContent = content
	}

	diff, err := GenerateDiff(result.OriginalContent, result.EnhancedContent)
	if err != nil {
		return nil, err
	}
	result.UnifiedDiff = diff
	result.DiffStats = DiffStatistics(diff)

	return result, nil
}

func violationSummary(violations []SafetyViolation) string {
	parts := make([]string, 0, len(violations))
	for _, v := range violations {
		parts = append(parts, v.Severity+": "+v.Description)
	}
	return strings.Join(parts, "; ")
}
