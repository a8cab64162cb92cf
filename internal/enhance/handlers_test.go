package enhance

import (
	"context"
	"strings"
	"testing"

	"docguard-backend/internal/recommendations"
)

func recommendationWithInstruction(instruction string) recommendations.Recommendation {
	return recommendations.Recommendation{
		ID:          "rec-1",
		Type:        recommendations.TypePluginCorrection,
		Instruction: instruction,
	}
}

func TestParseSubstitution(t *testing.T) {
	cases := []struct {
		instruction string
		oldText     string
		newText     string
		ok          bool
	}{
		{`replace "Aspose.Word" with "Aspose.Words"`, "Aspose.Word", "Aspose.Words", true},
		{`swap "a" for "b" everywhere`, "a", "b", true},
		{`replace "same" with "same"`, "", "", false},
		{`make the section clearer`, "", "", false},
		{`replace "only one quoted part`, "", "", false},
	}
	for _, c := range cases {
		oldText, newText, ok := parseSubstitution(c.instruction)
		if ok != c.ok || oldText != c.oldText || newText != c.newText {
			t.Errorf("parseSubstitution(%q) = (%q, %q, %v), want (%q, %q, %v)",
				c.instruction, oldText, newText, ok, c.oldText, c.newText, c.ok)
		}
	}
}

func TestCorrectionHandlerMechanicalPathSkipsLLM(t *testing.T) {
	client := &stubClient{err: context.DeadlineExceeded}
	h := &correctionHandler{client: client}

	ec := EditContext{Target: "Install the Aspose.Word library first."}
	rec := recommendationWithInstruction(`replace "Aspose.Word" with "Aspose.Words"`)

	candidate, confidence, err := h.Apply(context.Background(), ec, rec, DefaultRules())
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if candidate != "Install the Aspose.Words library first." {
		t.Errorf("candidate = %q", candidate)
	}
	if confidence != 0.95 {
		t.Errorf("confidence = %v, want 0.95", confidence)
	}
	if len(client.prompts) != 0 {
		t.Error("exact substitution must not call the generation service")
	}
}

func TestCorrectionHandlerFallsBackWhenNoLiteralMatch(t *testing.T) {
	client := &stubClient{reply: "Install the Aspose.Words library first."}
	h := &correctionHandler{client: client}

	ec := EditContext{Target: "Install the aspose word library first."}
	rec := recommendationWithInstruction(`replace "Aspose.Word" with "Aspose.Words"`)

	_, confidence, err := h.Apply(context.Background(), ec, rec, DefaultRules())
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if confidence != 0.85 {
		t.Errorf("fallback confidence = %v, want 0.85", confidence)
	}
	if len(client.prompts) != 1 {
		t.Fatal("fallback must call the generation service once")
	}
}

func TestBuildSectionPromptSpellsOutConstraints(t *testing.T) {
	ec := EditContext{
		Target:        "## Usage\n\n- step one",
		BeforeContext: "earlier lines",
		AfterContext:  "later lines",
		Constraints:   []string{ConstraintList, "keyword:Aspose.Words"},
	}
	prompt := buildSectionPrompt(ec, "Add a step.", "mention the plugin")

	for _, want := range []string{
		"keep every existing item",
		`"Aspose.Words" must remain present`,
		"context only",
		"## Usage",
		"mention the plugin",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}
