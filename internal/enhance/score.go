package enhance

import (
	"fmt"
	"strings"
)

// Score weights. Keyword retention dominates because a lost keyword is the
// one failure a reader cannot recover from by context.
const (
	weightKeyword   = 0.35
	weightStructure = 0.25
	weightStability = 0.25
	weightAccuracy  = 0.15
)

// safeOverallThreshold is the minimum overall score for acceptance.
const safeOverallThreshold = 0.8

// SafetyScore is the holistic verdict over the fully assembled document.
type SafetyScore struct {
	Overall               float64           `json:"overall"`
	KeywordPreservation   float64           `json:"keywordPreservation"`
	StructurePreservation float64           `json:"structurePreservation"`
	ContentStability      float64           `json:"contentStability"`
	TechnicalAccuracy     float64           `json:"technicalAccuracy"`
	Violations            []SafetyViolation `json:"violations,omitempty"`
}

// IsSafe reports whether the assembled document may replace the original.
func (s SafetyScore) IsSafe() bool {
	return s.Overall > safeOverallThreshold && !hasCritical(s.Violations)
}

// ValidateAfterEnhancement re-runs the keyword, structure, and size checks
// over the entire document pair. Whole-document granularity catches
// cross-section interactions the per-edit stage cannot see, such as two
// individually-valid edits that together delete every occurrence of a term.
func (Validator) ValidateAfterEnhancement(original, enhanced string, rules PreservationRules) []SafetyViolation {
	var violations []SafetyViolation

	for _, term := range rules.Keywords {
		if strings.Contains(original, term) && !strings.Contains(enhanced, term) {
			violations = append(violations, SafetyViolation{
				Severity:    SeverityCritical,
				Category:    CategoryKeywordLoss,
				Description: fmt.Sprintf("required keyword %q is absent from the final document", term),
				Evidence:    term,
			})
		}
	}

	if len(original) > 0 && len(enhanced) < len(original) {
		reduction := float64(len(original)-len(enhanced)) / float64(len(original)) * 100
		if reduction > rules.MaxContentReductionPercent {
			violations = append(violations, SafetyViolation{
				Severity:    SeverityCritical,
				Category:    CategoryContentReduction,
				Description: fmt.Sprintf("final document is %.1f%% smaller than the original, limit is %.1f%%", reduction, rules.MaxContentReductionPercent),
			})
		}
	}

	violations = append(violations, structureViolations(original, enhanced, rules)...)

	if rules.PreserveFrontmatter && hasFrontmatter(original) && !hasFrontmatter(enhanced) {
		violations = append(violations, SafetyViolation{
			Severity:    SeverityHigh,
			Category:    CategoryFrontmatterLoss,
			Description: "frontmatter block is absent from the final document",
		})
	}

	if rules.PreserveHeadingHierarchy {
		for _, h := range headingLines(original) {
			if !containsHeading(enhanced, h) {
				violations = append(violations, SafetyViolation{
					Severity:    SeverityHigh,
					Category:    CategoryStructureLoss,
					Description: fmt.Sprintf("heading %q is absent from the final document", h),
					Evidence:    h,
				})
			}
		}
	}

	for _, term := range rules.requiredTerms() {
		if strings.Contains(original, term) && !strings.Contains(enhanced, term) {
			violations = append(violations, SafetyViolation{
				Severity:    SeverityMedium,
				Category:    CategoryTermLoss,
				Description: fmt.Sprintf("technical term %q is absent from the final document", term),
				Evidence:    term,
			})
		}
	}

	return violations
}

// CalculateSafetyScore computes the weighted safety score for the document
// pair. Deterministic: the same pair always yields the same score.
func (v Validator) CalculateSafetyScore(original, enhanced string, rules PreservationRules) SafetyScore {
	score := SafetyScore{
		KeywordPreservation:   retentionRatio(original, enhanced, rules.Keywords),
		StructurePreservation: structureRatio(original, enhanced),
		ContentStability:      stabilityRatio(original, enhanced),
		TechnicalAccuracy:     retentionRatio(original, enhanced, rules.requiredTerms()),
		Violations:            v.ValidateAfterEnhancement(original, enhanced, rules),
	}
	score.Overall = score.KeywordPreservation*weightKeyword +
		score.StructurePreservation*weightStructure +
		score.ContentStability*weightStability +
		score.TechnicalAccuracy*weightAccuracy
	return score
}

// retentionRatio is the fraction of terms occurring in the original that
// still occur in the enhanced text. 1 when the original uses none of them.
func retentionRatio(original, enhanced string, terms []string) float64 {
	present, kept := 0, 0
	for _, term := range terms {
		if !strings.Contains(original, term) {
			continue
		}
		present++
		if strings.Contains(enhanced, term) {
			kept++
		}
	}
	if present == 0 {
		return 1
	}
	return float64(kept) / float64(present)
}

// structureRatio averages the per-kind retention of code blocks, list items,
// table rows, and headings. Growth never scores above 1.
func structureRatio(original, enhanced string) float64 {
	counters := []func(string) int{countCodeFences, countListItems, countTableRows, countHeadings}
	sum, kinds := 0.0, 0
	for _, count := range counters {
		before := count(original)
		if before == 0 {
			continue
		}
		kinds++
		after := count(enhanced)
		if after >= before {
			sum += 1
		} else {
			sum += float64(after) / float64(before)
		}
	}
	if kinds == 0 {
		return 1
	}
	return sum / float64(kinds)
}

// stabilityRatio is 1 for any expansion and decays linearly with reduction.
func stabilityRatio(original, enhanced string) float64 {
	if len(original) == 0 || len(enhanced) >= len(original) {
		return 1
	}
	return float64(len(enhanced)) / float64(len(original))
}

func hasFrontmatter(content string) bool {
	doc := SplitSections(content)
	_, ok := doc.Frontmatter()
	return ok
}

func headingLines(content string) []string {
	var out []string
	inFence := false
	for _, line := range strings.Split(content, "\n") {
		if isFenceLine(line) {
			inFence = !inFence
			continue
		}
		if !inFence && isHeadingLine(line) {
			out = append(out, strings.TrimSpace(line))
		}
	}
	return out
}

func containsHeading(content, heading string) bool {
	for _, h := range headingLines(content) {
		if h == heading {
			return true
		}
	}
	return false
}

func countHeadings(content string) int {
	return len(headingLines(content))
}
