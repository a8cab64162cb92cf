package enhance

import (
	"fmt"
	"strings"

	"docguard-backend/internal/recommendations"
)

// defaultContextWindow is the number of lines carried before and after the
// target section for flow continuity.
const defaultContextWindow = 10

// Local constraint tags derived from the target section.
const (
	ConstraintCodeBlock = "code-block"
	ConstraintList      = "list"
	ConstraintTable     = "table"
)

// EditContext is the minimal addressable slice of a document needed to
// process one recommendation. Lifetime: one recommendation's processing.
type EditContext struct {
	TargetID      string // section anchor; empty for global scope
	Target        string
	StartLine     int
	EndLine       int
	BeforeContext string
	AfterContext  string
	Constraints   []string
	Global        bool
}

// Extractor carves the target section and surrounding context out of a
// working document.
type Extractor struct {
	Window int
}

// NewExtractor returns an Extractor with the default context window.
func NewExtractor() Extractor {
	return Extractor{Window: defaultContextWindow}
}

// Extract resolves the recommendation's scope against the current working
// document. Returns ErrContextExtraction when a named scope cannot be
// located; the caller records a skip and the batch continues.
func (e Extractor) Extract(doc *SectionDoc, rec recommendations.Recommendation, rules PreservationRules) (EditContext, error) {
	window := e.Window
	if window <= 0 {
		window = defaultContextWindow
	}

	if rec.Scope.Kind == recommendations.ScopeGlobal {
		target := doc.Render()
		return EditContext{
			Target:      target,
			StartLine:   1,
			EndLine:     doc.LineCount(),
			Constraints: scanConstraints(target, rules),
			Global:      true,
		}, nil
	}

	section, err := e.resolveSection(doc, rec)
	if err != nil {
		return EditContext{}, err
	}

	start, end, _ := doc.LineRange(section.ID)
	before, after := doc.ContextAround(section.ID, window)
	return EditContext{
		TargetID:      section.ID,
		Target:        section.Text,
		StartLine:     start,
		EndLine:       end,
		BeforeContext: before,
		AfterContext:  after,
		Constraints:   scanConstraints(section.Text, rules),
	}, nil
}

func (e Extractor) resolveSection(doc *SectionDoc, rec recommendations.Recommendation) (*Section, error) {
	switch rec.Scope.Kind {
	case recommendations.ScopeLineRange:
		// Explicit range takes precedence over any named scope hints.
		if rec.Scope.StartLine < 1 || rec.Scope.EndLine < rec.Scope.StartLine {
			return nil, fmt.Errorf("%w: invalid line range %d-%d", ErrContextExtraction, rec.Scope.StartLine, rec.Scope.EndLine)
		}
		if rec.Scope.StartLine > doc.LineCount() {
			return nil, fmt.Errorf("%w: line %d beyond end of document (%d lines)", ErrContextExtraction, rec.Scope.StartLine, doc.LineCount())
		}
		section, ok := doc.SectionAt(rec.Scope.StartLine)
		if !ok {
			return nil, fmt.Errorf("%w: no section at line %d", ErrContextExtraction, rec.Scope.StartLine)
		}
		return section, nil
	case recommendations.ScopeFrontmatter:
		section, ok := doc.Frontmatter()
		if !ok {
			return nil, fmt.Errorf("%w: document has no frontmatter", ErrContextExtraction)
		}
		return section, nil
	case recommendations.ScopePrerequisites:
		section, ok := doc.FindHeading("prerequisite")
		if !ok {
			section, ok = doc.FindHeading("requirements")
		}
		if !ok {
			return nil, fmt.Errorf("%w: no prerequisites section found", ErrContextExtraction)
		}
		return section, nil
	case recommendations.ScopeHeadingSection:
		section, ok := doc.FindHeading(rec.Scope.Name)
		if !ok {
			return nil, fmt.Errorf("%w: heading %q not found", ErrContextExtraction, rec.Scope.Name)
		}
		return section, nil
	default:
		return nil, fmt.Errorf("%w: unknown scope kind %q", ErrContextExtraction, rec.Scope.Kind)
	}
}

// scanConstraints derives local preservation constraints from the target
// text: structural markers plus any rule terms that occur inside it.
func scanConstraints(target string, rules PreservationRules) []string {
	var out []string
	if countCodeFences(target) > 0 {
		out = append(out, ConstraintCodeBlock)
	}
	if countListItems(target) > 0 {
		out = append(out, ConstraintList)
	}
	if countTableRows(target) > 0 {
		out = append(out, ConstraintTable)
	}
	seen := make(map[string]struct{})
	for _, term := range append(append(append([]string{}, rules.Keywords...), rules.ProductNames...), rules.TechnicalTerms...) {
		if _, dup := seen[term]; dup {
			continue
		}
		seen[term] = struct{}{}
		if strings.Contains(target, term) {
			out = append(out, "keyword:"+term)
		}
	}
	return out
}

func countCodeFences(text string) int {
	count := 0
	for _, line := range strings.Split(text, "\n") {
		if isFenceLine(line) {
			count++
		}
	}
	return count / 2
}

func countListItems(text string) int {
	count := 0
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* ") || strings.HasPrefix(trimmed, "+ ") {
			count++
			continue
		}
		if len(trimmed) > 2 && trimmed[0] >= '0' && trimmed[0] <= '9' {
			rest := strings.TrimLeft(trimmed, "0123456789")
			if strings.HasPrefix(rest, ". ") || strings.HasPrefix(rest, ") ") {
				count++
			}
		}
	}
	return count
}

func countTableRows(text string) int {
	count := 0
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "|") && strings.HasSuffix(trimmed, "|") && len(trimmed) > 1 {
			count++
		}
	}
	return count
}
