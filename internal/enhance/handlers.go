package enhance

import (
	"context"
	"fmt"
	"strings"

	"docguard-backend/internal/llm"
	"docguard-backend/internal/recommendations"
)

const generationTemperature = 0.2

// Handler turns one recommendation plus its context into a candidate
// replacement for the target section. Mechanical paths are deterministic;
// LLM-backed paths may vary between calls, and the validator screens the
// result rather than the generation process.
type Handler interface {
	Type() string
	Apply(ctx context.Context, ec EditContext, rec recommendations.Recommendation, rules PreservationRules) (candidate string, confidence float64, err error)
}

// Registry maps recommendation type tags to handlers. Unknown tags are
// reported by For, never dispatched; the orchestrator records an
// unsupported-type skip for them.
type Registry struct {
	handlers map[string]Handler
}

// NewRegistry builds the registry with the built-in handlers.
func NewRegistry(client llm.Client) *Registry {
	r := &Registry{handlers: make(map[string]Handler)}
	r.Register(&mentionHandler{client: client})
	r.Register(&correctionHandler{client: client})
	r.Register(&infoAdditionHandler{client: client})
	return r
}

// Register adds or replaces a handler for its type tag.
func (r *Registry) Register(h Handler) {
	r.handlers[h.Type()] = h
}

// For returns the handler for a type tag.
func (r *Registry) For(typeTag string) (Handler, bool) {
	h, ok := r.handlers[typeTag]
	return h, ok
}

// mentionHandler inserts a reference to a named capability into a
// prerequisites-like section.
type mentionHandler struct {
	client llm.Client
}

func (h *mentionHandler) Type() string { return recommendations.TypePluginMention }

func (h *mentionHandler) Apply(ctx context.Context, ec EditContext, rec recommendations.Recommendation, rules PreservationRules) (string, float64, error) {
	prompt := buildSectionPrompt(ec,
		"Insert a mention of the capability described in the instruction into this section. "+
			"If the section is a list, add one list item; otherwise add one sentence.",
		rec.Instruction)
	candidate, err := h.client.Generate(ctx, prompt, generationTemperature)
	if err != nil {
		return "", 0, err
	}
	return trimCandidate(candidate), 0.9, nil
}

// correctionHandler fixes an incorrect reference. It tries an exact literal
// substitution first and only falls back to the text-generation service when
// no exact match exists, so the common fully-mechanical case costs no
// external call.
type correctionHandler struct {
	client llm.Client
}

func (h *correctionHandler) Type() string { return recommendations.TypePluginCorrection }

func (h *correctionHandler) Apply(ctx context.Context, ec EditContext, rec recommendations.Recommendation, rules PreservationRules) (string, float64, error) {
	if oldText, newText, ok := parseSubstitution(rec.Instruction); ok && strings.Contains(ec.Target, oldText) {
		return strings.ReplaceAll(ec.Target, oldText, newText), 0.95, nil
	}

	prompt := buildSectionPrompt(ec,
		"Apply the correction described in the instruction. Change only the incorrect reference; "+
			"every other word must remain as written.",
		rec.Instruction)
	candidate, err := h.client.Generate(ctx, prompt, generationTemperature)
	if err != nil {
		return "", 0, err
	}
	return trimCandidate(candidate), 0.85, nil
}

// infoAdditionHandler inserts missing technical detail.
type infoAdditionHandler struct {
	client llm.Client
}

func (h *infoAdditionHandler) Type() string { return recommendations.TypeInfoAddition }

func (h *infoAdditionHandler) Apply(ctx context.Context, ec EditContext, rec recommendations.Recommendation, rules PreservationRules) (string, float64, error) {
	prompt := buildSectionPrompt(ec,
		"Add the missing information described in the instruction. Keep every existing sentence; "+
			"only add new content.",
		rec.Instruction)
	candidate, err := h.client.Generate(ctx, prompt, generationTemperature)
	if err != nil {
		return "", 0, err
	}
	return trimCandidate(candidate), 0.8, nil
}

// buildSectionPrompt assembles a bounded prompt for one section edit. The
// preservation constraints derived from the context are spelled out as
// forbidden deletions, which makes the output independently checkable.
func buildSectionPrompt(ec EditContext, task, instruction string) string {
	var b strings.Builder
	b.WriteString("You are editing one section of a technical document.\n\n")
	b.WriteString("TASK: ")
	b.WriteString(task)
	b.WriteString("\n\nINSTRUCTION: ")
	b.WriteString(instruction)
	b.WriteString("\n\nRULES:\n")
	b.WriteString("- Return ONLY the rewritten section text, no commentary, no fences around the whole answer.\n")
	b.WriteString("- Do not delete or reword existing sentences unless the instruction requires it.\n")
	b.WriteString("- Keep all headings, code blocks, lists, and tables that are present.\n")
	for _, c := range ec.Constraints {
		switch {
		case c == ConstraintCodeBlock:
			b.WriteString("- The section contains a code block; it must remain intact.\n")
		case c == ConstraintList:
			b.WriteString("- The section contains a list; keep every existing item.\n")
		case c == ConstraintTable:
			b.WriteString("- The section contains a table; keep every existing row.\n")
		case strings.HasPrefix(c, "keyword:"):
			fmt.Fprintf(&b, "- The exact term %q must remain present.\n", strings.TrimPrefix(c, "keyword:"))
		}
	}
	if ec.BeforeContext != "" {
		b.WriteString("\nTEXT BEFORE THE SECTION (context only, do not return it):\n")
		b.WriteString(ec.BeforeContext)
		b.WriteString("\n")
	}
	b.WriteString("\nSECTION TO EDIT:\n")
	b.WriteString(ec.Target)
	if ec.AfterContext != "" {
		b.WriteString("\n\nTEXT AFTER THE SECTION (context only, do not return it):\n")
		b.WriteString(ec.AfterContext)
	}
	return b.String()
}

// parseSubstitution extracts the old and new literals from instructions of
// the form: replace "old" with "new".
func parseSubstitution(instruction string) (oldText, newText string, ok bool) {
	parts := strings.Split(instruction, `"`)
	if len(parts) < 5 {
		return "", "", false
	}
	oldText = parts[1]
	newText = parts[3]
	if oldText == "" || oldText == newText {
		return "", "", false
	}
	return oldText, newText, true
}

func trimCandidate(candidate string) string {
	return strings.Trim(candidate, "\n")
}
