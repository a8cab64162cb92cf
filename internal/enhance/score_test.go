package enhance

import (
	"math"
	"strings"
	"testing"
)

func TestSafetyScorePerfectPreservation(t *testing.T) {
	rules := DefaultRules()
	rules.Keywords = []string{"Aspose.Words"}
	rules.TechnicalTerms = []string{"LINQ Reporting"}

	original := sampleDoc
	enhanced := original + "\n\nAdded paragraph mentioning LINQ Reporting."

	score := Validator{}.CalculateSafetyScore(original, enhanced, rules)
	if score.Overall != 1 {
		t.Fatalf("pure addition must score 1.0, got %v (%+v)", score.Overall, score)
	}
	if !score.IsSafe() {
		t.Error("perfect score must be safe")
	}
}

func TestSafetyScoreCriticalBlocksEvenWithHighOverall(t *testing.T) {
	rules := DefaultRules()
	rules.Keywords = []string{"alpha", "beta", "gamma", "delta", "epsilon"}
	filler := strings.Repeat("neutral filler text to keep the size loss negligible. ", 40)
	original := "alpha beta gamma delta epsilon " + filler
	enhanced := "alpha beta gamma delta " + filler + "plus some replacement text"

	score := Validator{}.CalculateSafetyScore(original, enhanced, rules)
	// 4 of 5 keywords kept: 0.8*0.35 + 1*0.25 + 1*0.25 + 1*0.15 = 0.93.
	if score.Overall <= safeOverallThreshold {
		t.Fatalf("overall should stay above the threshold here, got %v", score.Overall)
	}
	if !hasCritical(score.Violations) {
		t.Fatal("lost keyword must yield a critical violation")
	}
	if score.IsSafe() {
		t.Error("a critical violation blocks acceptance regardless of overall")
	}
}

func TestSafetyScoreWeights(t *testing.T) {
	rules := DefaultRules()
	rules.Keywords = []string{"kw1", "kw2"}
	rules.TechnicalTerms = []string{"term1", "term2"}

	original := "# H\nkw1 kw2 term1 term2 " + strings.Repeat("x", 200)
	enhanced := "# H\nkw1 term1 " + strings.Repeat("x", 200)

	score := Validator{}.CalculateSafetyScore(original, enhanced, rules)
	want := 0.5*weightKeyword + 1*weightStructure + score.ContentStability*weightStability + 0.5*weightAccuracy
	if math.Abs(score.Overall-want) > 1e-9 {
		t.Errorf("overall = %v, want %v", score.Overall, want)
	}
	if score.KeywordPreservation != 0.5 || score.TechnicalAccuracy != 0.5 {
		t.Errorf("sub-scores: keyword=%v accuracy=%v, want 0.5 both", score.KeywordPreservation, score.TechnicalAccuracy)
	}
}

func TestValidateAfterEnhancementCatchesLostHeading(t *testing.T) {
	original := "# Guide\n\n## Setup\n\ntext\n\n## Usage\n\nmore text"
	enhanced := "# Guide\n\n## Setup\n\ntext\n\nmore text padded out so size is not the issue here at all"

	violations := Validator{}.ValidateAfterEnhancement(original, enhanced, DefaultRules())
	found := false
	for _, v := range violations {
		if v.Category == CategoryStructureLoss && strings.Contains(v.Description, "## Usage") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a lost-heading violation, got %+v", violations)
	}
}

func TestValidateAfterEnhancementCatchesLostFrontmatter(t *testing.T) {
	original := "---\ntitle: Guide\n---\n# Guide\n\nbody text that is long enough to stay under the reduction bound"
	enhanced := "# Guide\n\nbody text that is long enough to stay under the reduction bound and then some more"

	violations := Validator{}.ValidateAfterEnhancement(original, enhanced, DefaultRules())
	if !hasViolation(violations, SeverityHigh, CategoryFrontmatterLoss) {
		t.Fatalf("expected frontmatter-loss violation, got %+v", violations)
	}
}

func TestStabilityRatio(t *testing.T) {
	if got := stabilityRatio("abcd", "abcdefgh"); got != 1 {
		t.Errorf("expansion must score 1, got %v", got)
	}
	if got := stabilityRatio("abcdefgh", "abcd"); got != 0.5 {
		t.Errorf("half-size document must score 0.5, got %v", got)
	}
	if got := stabilityRatio("", ""); got != 1 {
		t.Errorf("empty pair must score 1, got %v", got)
	}
}
