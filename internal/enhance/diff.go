package enhance

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// DiffStats summarizes a generated diff. SectionsChanged counts hunks, not
// markdown sections.
type DiffStats struct {
	LinesAdded      int `json:"linesAdded"`
	LinesRemoved    int `json:"linesRemoved"`
	SectionsChanged int `json:"sectionsChanged"`
}

// DiffRow is one line of a side-by-side rendering. Op is "equal", "delete",
// "insert", or "replace"; absent sides are empty strings.
type DiffRow struct {
	Op       string `json:"op"`
	Original string `json:"original"`
	Enhanced string `json:"enhanced"`
}

// GenerateDiff produces a unified diff between original and enhanced
// content. Deterministic for a given input pair.
func GenerateDiff(original, enhanced string) (string, error) {
	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(original),
		B:        difflib.SplitLines(enhanced),
		FromFile: "original",
		ToFile:   "enhanced",
		Context:  3,
	})
	if err != nil {
		return "", fmt.Errorf("generating unified diff: %w", err)
	}
	return text, nil
}

// DiffStatistics counts added and removed lines and changed hunks from a
// unified diff produced by GenerateDiff. Only the file header lines before
// the first hunk are skipped; a removed "--flag" line renders as "---flag"
// and must still count.
func DiffStatistics(unifiedDiff string) DiffStats {
	var stats DiffStats
	inHunk := false
	for _, line := range strings.Split(unifiedDiff, "\n") {
		if strings.HasPrefix(line, "@@") {
			stats.SectionsChanged++
			inHunk = true
			continue
		}
		if !inHunk {
			continue
		}
		switch {
		case strings.HasPrefix(line, "+"):
			stats.LinesAdded++
		case strings.HasPrefix(line, "-"):
			stats.LinesRemoved++
		}
	}
	return stats
}

// SideBySide renders the document pair as aligned rows for review UIs.
func SideBySide(original, enhanced string) []DiffRow {
	a := difflib.SplitLines(original)
	b := difflib.SplitLines(enhanced)
	matcher := difflib.NewMatcher(a, b)

	var rows []DiffRow
	for _, op := range matcher.GetOpCodes() {
		switch op.Tag {
		case 'e':
			for i := op.I1; i < op.I2; i++ {
				rows = append(rows, DiffRow{Op: "equal", Original: trimLine(a[i]), Enhanced: trimLine(a[i])})
			}
		case 'd':
			for i := op.I1; i < op.I2; i++ {
				rows = append(rows, DiffRow{Op: "delete", Original: trimLine(a[i])})
			}
		case 'i':
			for j := op.J1; j < op.J2; j++ {
				rows = append(rows, DiffRow{Op: "insert", Enhanced: trimLine(b[j])})
			}
		case 'r':
			n := op.I2 - op.I1
			if m := op.J2 - op.J1; m > n {
				n = m
			}
			for k := 0; k < n; k++ {
				row := DiffRow{Op: "replace"}
				if op.I1+k < op.I2 {
					row.Original = trimLine(a[op.I1+k])
				}
				if op.J1+k < op.J2 {
					row.Enhanced = trimLine(b[op.J1+k])
				}
				rows = append(rows, row)
			}
		}
	}
	return rows
}

func trimLine(line string) string {
	return strings.TrimSuffix(line, "\n")
}
