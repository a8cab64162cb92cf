package enhance

import (
	"fmt"
	"strings"
)

// PreservationRules constrain what an edit may do to a document. Immutable
// for the duration of one enhancement run. Expansion is never penalized;
// only reduction is bounded.
type PreservationRules struct {
	Keywords                   []string
	ProductNames               []string
	TechnicalTerms             []string
	PreserveCodeBlocks         bool
	PreserveFrontmatter        bool
	PreserveHeadingHierarchy   bool
	MaxContentReductionPercent float64
}

// DefaultRules returns the conservative default rule set.
func DefaultRules() PreservationRules {
	return PreservationRules{
		PreserveCodeBlocks:         true,
		PreserveFrontmatter:        true,
		PreserveHeadingHierarchy:   true,
		MaxContentReductionPercent: 10,
	}
}

// Validate reports whether the rules are internally consistent.
func (r PreservationRules) Validate() error {
	if r.MaxContentReductionPercent < 0 || r.MaxContentReductionPercent > 100 {
		return fmt.Errorf("max content reduction percent must be in [0,100], got %v", r.MaxContentReductionPercent)
	}
	for _, set := range [][]string{r.Keywords, r.ProductNames, r.TechnicalTerms} {
		for _, term := range set {
			if strings.TrimSpace(term) == "" {
				return fmt.Errorf("preservation term must not be blank")
			}
		}
	}
	return nil
}

// requiredTerms returns product names and technical terms as one list.
func (r PreservationRules) requiredTerms() []string {
	out := make([]string, 0, len(r.ProductNames)+len(r.TechnicalTerms))
	out = append(out, r.ProductNames...)
	out = append(out, r.TechnicalTerms...)
	return out
}
