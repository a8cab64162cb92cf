package enhance

import (
	"fmt"
	"strings"

	"docguard-backend/internal/recommendations"
)

// Violation severities. A critical violation alone is enough to reject an
// edit or a whole run; the lower grades only drag the safety score down.
const (
	SeverityCritical = "critical"
	SeverityHigh     = "high"
	SeverityMedium   = "medium"
	SeverityLow      = "low"
)

// Violation categories.
const (
	CategoryKeywordLoss      = "keyword-loss"
	CategoryTermLoss         = "term-loss"
	CategoryContentReduction = "content-reduction"
	CategoryStructureLoss    = "structure-loss"
	CategoryFrontmatterLoss  = "frontmatter-loss"
)

// SafetyViolation is one concrete rule breach found by the validator.
type SafetyViolation struct {
	Severity    string `json:"severity"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Evidence    string `json:"evidence,omitempty"`
}

// PreflightResult is the outcome of whole-batch validation before any edit
// is attempted. CanProceed false aborts the run with no partial state.
type PreflightResult struct {
	CanProceed  bool     `json:"canProceed"`
	Diagnostics []string `json:"diagnostics,omitempty"`
}

// EditValidation is the outcome of checking one candidate section against
// its original.
type EditValidation struct {
	IsValid    bool              `json:"isValid"`
	Violations []SafetyViolation `json:"violations,omitempty"`
}

// Validator runs the first two gate stages: pre-flight over the batch and
// per-edit checks on each candidate section. The third stage, whole-document
// scoring, lives in ValidateAfterEnhancement.
type Validator struct{}

// ValidateBeforeEnhancement checks the document, the batch, and the rules
// before any handler runs. Every problem found is reported; the caller gets
// the full list, not the first failure.
func (Validator) ValidateBeforeEnhancement(content string, recs []recommendations.Recommendation, rules PreservationRules) PreflightResult {
	var diags []string

	if strings.TrimSpace(content) == "" {
		diags = append(diags, "document is empty")
	}
	if err := rules.Validate(); err != nil {
		diags = append(diags, fmt.Sprintf("preservation rules: %v", err))
	}

	for i := 0; i < len(recs); i++ {
		a := recs[i]
		if a.Scope.Kind != recommendations.ScopeLineRange {
			continue
		}
		for j := i + 1; j < len(recs); j++ {
			b := recs[j]
			if b.Scope.Kind != recommendations.ScopeLineRange {
				continue
			}
			if !rangesOverlap(a.Scope, b.Scope) || a.Instruction == b.Instruction {
				continue
			}
			diags = append(diags, fmt.Sprintf(
				"recommendations %s and %s target overlapping lines %d-%d and %d-%d with conflicting instructions",
				a.ID, b.ID, a.Scope.StartLine, a.Scope.EndLine, b.Scope.StartLine, b.Scope.EndLine))
		}
	}

	return PreflightResult{CanProceed: len(diags) == 0, Diagnostics: diags}
}

// ValidateEdit checks one candidate replacement against the original section
// text. Any critical violation means the edit must not be applied.
func (Validator) ValidateEdit(originalSection, candidateSection string, rec recommendations.Recommendation, rules PreservationRules) EditValidation {
	var violations []SafetyViolation

	for _, term := range rules.Keywords {
		if strings.Contains(originalSection, term) && !strings.Contains(candidateSection, term) {
			violations = append(violations, SafetyViolation{
				Severity:    SeverityCritical,
				Category:    CategoryKeywordLoss,
				Description: fmt.Sprintf("required keyword %q was removed by the edit", term),
				Evidence:    term,
			})
		}
	}

	// Expansion is always fine; only reduction is bounded.
	origLen := len(originalSection)
	if origLen > 0 && len(candidateSection) < origLen {
		reduction := float64(origLen-len(candidateSection)) / float64(origLen) * 100
		if reduction > rules.MaxContentReductionPercent {
			violations = append(violations, SafetyViolation{
				Severity:    SeverityCritical,
				Category:    CategoryContentReduction,
				Description: fmt.Sprintf("edit shrinks the section by %.1f%%, limit is %.1f%%", reduction, rules.MaxContentReductionPercent),
			})
		}
	}

	violations = append(violations, structureViolations(originalSection, candidateSection, rules)...)

	for _, term := range rules.requiredTerms() {
		if strings.Contains(originalSection, term) && !strings.Contains(candidateSection, term) {
			violations = append(violations, SafetyViolation{
				Severity:    SeverityMedium,
				Category:    CategoryTermLoss,
				Description: fmt.Sprintf("technical term %q was removed by the edit", term),
				Evidence:    term,
			})
		}
	}

	return EditValidation{IsValid: !hasBlocking(violations), Violations: violations}
}

// structureViolations compares structural element counts between two texts.
// A structure kind that disappears entirely is high severity; a reduced
// count with the kind still present is medium.
func structureViolations(original, candidate string, rules PreservationRules) []SafetyViolation {
	type check struct {
		enabled bool
		name    string
		count   func(string) int
	}
	checks := []check{
		{rules.PreserveCodeBlocks, "code block", countCodeFences},
		{true, "list item", countListItems},
		{true, "table row", countTableRows},
	}

	var out []SafetyViolation
	for _, c := range checks {
		if !c.enabled {
			continue
		}
		before, after := c.count(original), c.count(candidate)
		if before == 0 || after >= before {
			continue
		}
		severity := SeverityMedium
		desc := fmt.Sprintf("%s count dropped from %d to %d", c.name, before, after)
		if after == 0 {
			severity = SeverityHigh
			desc = fmt.Sprintf("all %d %s(s) were removed by the edit", before, c.name)
		}
		out = append(out, SafetyViolation{
			Severity:    severity,
			Category:    CategoryStructureLoss,
			Description: desc,
		})
	}
	return out
}

// hasBlocking reports whether any violation is severe enough to stop an
// individual edit from being applied.
func hasBlocking(violations []SafetyViolation) bool {
	for _, v := range violations {
		if v.Severity == SeverityCritical || v.Severity == SeverityHigh {
			return true
		}
	}
	return false
}

func hasCritical(violations []SafetyViolation) bool {
	for _, v := range violations {
		if v.Severity == SeverityCritical {
			return true
		}
	}
	return false
}

func rangesOverlap(a, b recommendations.Scope) bool {
	return a.StartLine <= b.EndLine && b.StartLine <= a.EndLine
}
