package enhance

import (
	"strings"
	"testing"

	"docguard-backend/internal/recommendations"
)

func TestPreflightEmptyDocument(t *testing.T) {
	pre := Validator{}.ValidateBeforeEnhancement("   \n", nil, DefaultRules())
	if pre.CanProceed {
		t.Fatal("empty document must not pass pre-flight")
	}
	if len(pre.Diagnostics) == 0 {
		t.Error("expected a diagnostic for the empty document")
	}
}

func TestPreflightConflictingRanges(t *testing.T) {
	mk := func(id, instruction string, start, end int) recommendations.Recommendation {
		return recommendations.Recommendation{
			ID:          id,
			Instruction: instruction,
			Scope:       recommendations.Scope{Kind: recommendations.ScopeLineRange, StartLine: start, EndLine: end},
		}
	}

	conflict := Validator{}.ValidateBeforeEnhancement("# Doc\nbody",
		[]recommendations.Recommendation{
			mk("rec-1", "add a note", 1, 3),
			mk("rec-2", "delete the note", 2, 4),
		}, DefaultRules())
	if conflict.CanProceed {
		t.Fatal("overlapping ranges with different instructions must fail pre-flight")
	}

	sameInstruction := Validator{}.ValidateBeforeEnhancement("# Doc\nbody",
		[]recommendations.Recommendation{
			mk("rec-1", "add a note", 1, 3),
			mk("rec-2", "add a note", 2, 4),
		}, DefaultRules())
	if !sameInstruction.CanProceed {
		t.Errorf("identical instructions are not a conflict: %v", sameInstruction.Diagnostics)
	}

	disjoint := Validator{}.ValidateBeforeEnhancement("# Doc\nbody",
		[]recommendations.Recommendation{
			mk("rec-1", "add a note", 1, 2),
			mk("rec-2", "delete the note", 3, 4),
		}, DefaultRules())
	if !disjoint.CanProceed {
		t.Errorf("disjoint ranges must pass pre-flight: %v", disjoint.Diagnostics)
	}
}

func TestPreflightBadRules(t *testing.T) {
	rules := DefaultRules()
	rules.MaxContentReductionPercent = 150
	pre := Validator{}.ValidateBeforeEnhancement("# Doc\nbody", nil, rules)
	if pre.CanProceed {
		t.Fatal("inconsistent rules must fail pre-flight")
	}
}

func TestValidateEditKeywordLossIsCritical(t *testing.T) {
	rules := DefaultRules()
	rules.Keywords = []string{"Aspose.Words"}
	original := "## Prerequisites\n\n- Aspose.Words for .NET\n- .NET 6 or later\n- One more entry to keep the reduction small"
	candidate := "## Prerequisites\n\n- A document library for .NET\n- .NET 6 or later\n- One more entry to keep the reduction small"

	verdict := Validator{}.ValidateEdit(original, candidate, recommendations.Recommendation{}, rules)
	if verdict.IsValid {
		t.Fatal("keyword loss must invalidate the edit")
	}
	found := false
	for _, v := range verdict.Violations {
		if v.Severity == SeverityCritical && v.Category == CategoryKeywordLoss {
			found = true
			if !strings.Contains(v.Description, "Aspose.Words") {
				t.Errorf("violation must name the lost keyword: %q", v.Description)
			}
		}
	}
	if !found {
		t.Fatalf("expected a critical keyword-loss violation, got %+v", verdict.Violations)
	}
}

func TestValidateEditReductionBound(t *testing.T) {
	original := strings.Repeat("line of text\n", 20)
	rules := DefaultRules()

	over := original[:len(original)/2]
	verdict := Validator{}.ValidateEdit(original, over, recommendations.Recommendation{}, rules)
	if verdict.IsValid {
		t.Fatal("50% reduction must exceed the 10% bound")
	}

	slight := original[:len(original)-13] // one dropped line, 5%
	verdict = Validator{}.ValidateEdit(original, slight, recommendations.Recommendation{}, rules)
	if !verdict.IsValid {
		t.Fatalf("5%% reduction is within bounds: %+v", verdict.Violations)
	}

	expanded := original + strings.Repeat("extra detail\n", 50)
	verdict = Validator{}.ValidateEdit(original, expanded, recommendations.Recommendation{}, rules)
	if !verdict.IsValid {
		t.Fatalf("expansion is never penalized: %+v", verdict.Violations)
	}
}

func TestValidateEditStructureLoss(t *testing.T) {
	original := "## Usage\n\n```go\nfmt.Println(1)\n```\n\nSome trailing prose to keep the text long enough."
	candidate := "## Usage\n\nfmt.Println(1) is how you print.\n\nSome trailing prose to keep the text long enough."

	verdict := Validator{}.ValidateEdit(original, candidate, recommendations.Recommendation{}, DefaultRules())
	if verdict.IsValid {
		t.Fatal("removing a code block must invalidate the edit")
	}
	if !hasViolation(verdict.Violations, SeverityHigh, CategoryStructureLoss) {
		t.Fatalf("expected high structure-loss violation, got %+v", verdict.Violations)
	}
}

func TestValidateEditReducedListIsMedium(t *testing.T) {
	original := "- one\n- two\n- three\nplus a long trailing sentence so the size stays near the original"
	candidate := "- one\n- two\nplus a much longer trailing sentence so the size stays near the original"

	verdict := Validator{}.ValidateEdit(original, candidate, recommendations.Recommendation{}, DefaultRules())
	if !verdict.IsValid {
		t.Fatalf("a reduced but surviving list is not blocking: %+v", verdict.Violations)
	}
	if !hasViolation(verdict.Violations, SeverityMedium, CategoryStructureLoss) {
		t.Fatalf("expected medium structure-loss violation, got %+v", verdict.Violations)
	}
}

func TestValidateEditTermLossIsMedium(t *testing.T) {
	rules := DefaultRules()
	rules.TechnicalTerms = []string{"LINQ Reporting"}
	original := "Use LINQ Reporting to build reports from templates without writing code by hand."
	candidate := "Use the reporting engine to build reports from templates without writing code by hand."

	verdict := Validator{}.ValidateEdit(original, candidate, recommendations.Recommendation{}, rules)
	if !verdict.IsValid {
		t.Fatalf("term loss alone is not blocking: %+v", verdict.Violations)
	}
	if !hasViolation(verdict.Violations, SeverityMedium, CategoryTermLoss) {
		t.Fatalf("expected medium term-loss violation, got %+v", verdict.Violations)
	}
}

func hasViolation(violations []SafetyViolation, severity, category string) bool {
	for _, v := range violations {
		if v.Severity == severity && v.Category == category {
			return true
		}
	}
	return false
}
