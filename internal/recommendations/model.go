package recommendations

import "time"

// Recommendation statuses. The engine only ever reads approved
// recommendations and later flips them to applied or records a skip.
const (
	StatusProposed = "proposed"
	StatusApproved = "approved"
	StatusRejected = "rejected"
	StatusApplied  = "applied"
)

// Recommendation type tags. The set is open: unknown tags are handled by the
// engine as unsupported, never as an error.
const (
	TypePluginMention    = "plugin-mention"
	TypePluginCorrection = "plugin-correction"
	TypeInfoAddition     = "info-addition"
)

// Scope kinds.
const (
	ScopeFrontmatter    = "frontmatter"
	ScopePrerequisites  = "prerequisites"
	ScopeHeadingSection = "heading-section"
	ScopeLineRange      = "line-range"
	ScopeGlobal         = "global"
)

// Scope addresses the part of a document a recommendation targets.
// StartLine/EndLine are 1-based inclusive and only meaningful for
// ScopeLineRange; Name carries the heading for ScopeHeadingSection.
type Scope struct {
	Kind      string `json:"kind"`
	Name      string `json:"name,omitempty"`
	StartLine int    `json:"startLine,omitempty"`
	EndLine   int    `json:"endLine,omitempty"`
}

// Recommendation is an approved, scoped instruction to change part of a
// document. Owned by the upstream validation pipeline; immutable once read
// into a batch.
type Recommendation struct {
	ID           string
	ValidationID string
	FilePath     string
	Type         string
	Scope        Scope
	Instruction  string
	Confidence   float64
	Status       string
	SkipReason   string
	CreatedAt    time.Time
}
