package enhance

import (
	"fmt"
	"strings"
)

// Section is one anchor-stable slice of a document. Edits replace a section
// by ID; raw line offsets are recomputed lazily from the current state, so an
// earlier edit's length change never invalidates a later target.
type Section struct {
	ID            string
	Heading       string
	Text          string
	IsFrontmatter bool
}

// SectionDoc is a working copy of a document as an ordered sequence of
// sections: optional frontmatter, an optional preamble, then one section per
// markdown heading.
type SectionDoc struct {
	sections []*Section
}

// SplitSections builds the section model from raw content. The split
// partitions the document's lines exactly, so Render reproduces the input
// byte-for-byte.
func SplitSections(content string) *SectionDoc {
	lines := strings.Split(content, "\n")
	doc := &SectionDoc{}
	next := 0

	appendSection := func(chunk []string, heading string, frontmatter bool) {
		if len(chunk) == 0 {
			return
		}
		next++
		doc.sections = append(doc.sections, &Section{
			ID:            fmt.Sprintf("s%d", next),
			Heading:       heading,
			Text:          strings.Join(chunk, "\n"),
			IsFrontmatter: frontmatter,
		})
	}

	idx := 0
	if len(lines) > 0 && strings.TrimSpace(lines[0]) == "---" {
		for j := 1; j < len(lines); j++ {
			if strings.TrimSpace(lines[j]) == "---" {
				appendSection(lines[:j+1], "", true)
				idx = j + 1
				break
			}
		}
	}

	start := idx
	heading := ""
	if start < len(lines) && isHeadingLine(lines[start]) {
		heading = strings.TrimSpace(lines[start])
	}
	inFence := false
	for i := idx; i < len(lines); i++ {
		if isFenceLine(lines[i]) {
			inFence = !inFence
			continue
		}
		if inFence || !isHeadingLine(lines[i]) || i == start {
			continue
		}
		appendSection(lines[start:i], heading, false)
		start = i
		heading = strings.TrimSpace(lines[i])
	}
	appendSection(lines[start:], heading, false)

	return doc
}

// Render reassembles the current document text.
func (d *SectionDoc) Render() string {
	parts := make([]string, 0, len(d.sections))
	for _, s := range d.sections {
		parts = append(parts, s.Text)
	}
	return strings.Join(parts, "\n")
}

// Sections returns the ordered section records.
func (d *SectionDoc) Sections() []*Section {
	return d.sections
}

// ByID returns the section with the given anchor.
func (d *SectionDoc) ByID(id string) (*Section, bool) {
	for _, s := range d.sections {
		if s.ID == id {
			return s, true
		}
	}
	return nil, false
}

// Replace swaps a section's text by anchor id.
func (d *SectionDoc) Replace(id, text string) bool {
	s, ok := d.ByID(id)
	if !ok {
		return false
	}
	s.Text = text
	return true
}

// FindHeading locates the first section whose heading contains name,
// case-insensitive.
func (d *SectionDoc) FindHeading(name string) (*Section, bool) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return nil, false
	}
	for _, s := range d.sections {
		if s.Heading == "" {
			continue
		}
		title := strings.ToLower(strings.TrimLeft(s.Heading, "# "))
		if strings.Contains(title, needle) {
			return s, true
		}
	}
	return nil, false
}

// Frontmatter returns the frontmatter section if the document has one.
func (d *SectionDoc) Frontmatter() (*Section, bool) {
	if len(d.sections) > 0 && d.sections[0].IsFrontmatter {
		return d.sections[0], true
	}
	return nil, false
}

// SectionAt returns the section covering the 1-based line in the current
// rendering.
func (d *SectionDoc) SectionAt(line int) (*Section, bool) {
	if line < 1 {
		return nil, false
	}
	cursor := 1
	for _, s := range d.sections {
		n := lineCount(s.Text)
		if line < cursor+n {
			return s, true
		}
		cursor += n
	}
	return nil, false
}

// LineRange reports the current 1-based inclusive line span of a section.
func (d *SectionDoc) LineRange(id string) (start, end int, ok bool) {
	cursor := 1
	for _, s := range d.sections {
		n := lineCount(s.Text)
		if s.ID == id {
			return cursor, cursor + n - 1, true
		}
		cursor += n
	}
	return 0, 0, false
}

// LineCount returns the number of lines in the current rendering.
func (d *SectionDoc) LineCount() int {
	total := 0
	for _, s := range d.sections {
		total += lineCount(s.Text)
	}
	return total
}

// ContextAround returns up to window lines before and after a section in the
// current rendering.
func (d *SectionDoc) ContextAround(id string, window int) (before, after string) {
	start, end, ok := d.LineRange(id)
	if !ok || window <= 0 {
		return "", ""
	}
	lines := strings.Split(d.Render(), "\n")
	lo := start - 1 - window
	if lo < 0 {
		lo = 0
	}
	hi := end + window
	if hi > len(lines) {
		hi = len(lines)
	}
	if lo < start-1 {
		before = strings.Join(lines[lo:start-1], "\n")
	}
	if end < hi {
		after = strings.Join(lines[end:hi], "\n")
	}
	return before, after
}

func lineCount(text string) int {
	return strings.Count(text, "\n") + 1
}

func isHeadingLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "#") {
		return false
	}
	hashes := 0
	for hashes < len(trimmed) && trimmed[hashes] == '#' {
		hashes++
	}
	if hashes > 6 {
		return false
	}
	return hashes == len(trimmed) || trimmed[hashes] == ' '
}

func isFenceLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	return strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~")
}
