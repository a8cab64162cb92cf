package enhance

import (
	"strings"
	"testing"
)

func TestGenerateDiffIdempotent(t *testing.T) {
	original := sampleDoc
	enhanced := strings.Replace(sampleDoc, "- .NET 6 or later", "- .NET 8 or later", 1)

	first, err := GenerateDiff(original, enhanced)
	if err != nil {
		t.Fatalf("generate diff: %v", err)
	}
	second, err := GenerateDiff(original, enhanced)
	if err != nil {
		t.Fatalf("generate diff: %v", err)
	}
	if first != second {
		t.Fatal("the same input pair must yield identical diff text")
	}
	if !strings.Contains(first, "-- .NET 6 or later") || !strings.Contains(first, "+- .NET 8 or later") {
		t.Errorf("diff missing expected change lines:\n%s", first)
	}
}

func TestGenerateDiffIdenticalInputsIsEmpty(t *testing.T) {
	diff, err := GenerateDiff(sampleDoc, sampleDoc)
	if err != nil {
		t.Fatalf("generate diff: %v", err)
	}
	if diff != "" {
		t.Errorf("identical inputs must produce an empty diff, got:\n%s", diff)
	}
}

func TestDiffStatistics(t *testing.T) {
	original := "a\nb\nc\nd\ne\nf\ng\nh\ni\nj\nk\nl\nm\n"
	enhanced := "a\nB\nc\nd\ne\nf\ng\nh\ni\nj\nk\nl\nm\nn\n"

	diff, err := GenerateDiff(original, enhanced)
	if err != nil {
		t.Fatalf("generate diff: %v", err)
	}
	stats := DiffStatistics(diff)
	if stats.LinesAdded != 2 || stats.LinesRemoved != 1 {
		t.Errorf("stats = %+v, want 2 added / 1 removed", stats)
	}
	if stats.SectionsChanged != 2 {
		t.Errorf("expected 2 hunks, got %d", stats.SectionsChanged)
	}
}

func TestDiffStatisticsCountsDashPrefixedLines(t *testing.T) {
	original := "run the tool\n--verbose flag\nprints extra output\n"
	enhanced := "run the tool\nprints extra output\n++synced flag\n"

	diff, err := GenerateDiff(original, enhanced)
	if err != nil {
		t.Fatalf("generate diff: %v", err)
	}
	// The removal renders as "---verbose flag" and the addition as
	// "+++synced flag"; neither is a file header.
	if !strings.Contains(diff, "---verbose flag") || !strings.Contains(diff, "+++synced flag") {
		t.Fatalf("unexpected diff text:\n%s", diff)
	}
	stats := DiffStatistics(diff)
	if stats.LinesRemoved != 1 {
		t.Errorf("LinesRemoved = %d, want 1", stats.LinesRemoved)
	}
	if stats.LinesAdded != 1 {
		t.Errorf("LinesAdded = %d, want 1", stats.LinesAdded)
	}
}

func TestDiffStatisticsFrontmatterDelimiter(t *testing.T) {
	original := "---\ntitle: Guide\n---\n\nbody\n"
	enhanced := "body\n"

	diff, err := GenerateDiff(original, enhanced)
	if err != nil {
		t.Fatalf("generate diff: %v", err)
	}
	stats := DiffStatistics(diff)
	if stats.LinesRemoved != 4 {
		t.Errorf("LinesRemoved = %d, want 4", stats.LinesRemoved)
	}
	if stats.LinesAdded != 0 {
		t.Errorf("LinesAdded = %d, want 0", stats.LinesAdded)
	}
}

func TestSideBySideAlignment(t *testing.T) {
	rows := SideBySide("one\ntwo\nthree\n", "one\n2\nthree\nfour\n")

	var ops []string
	for _, r := range rows {
		ops = append(ops, r.Op)
	}
	want := []string{"equal", "replace", "equal", "insert"}
	if len(ops) != len(want) {
		t.Fatalf("rows = %v, want %v", ops, want)
	}
	for i := range want {
		if ops[i] != want[i] {
			t.Fatalf("rows = %v, want %v", ops, want)
		}
	}
	if rows[1].Original != "two" || rows[1].Enhanced != "2" {
		t.Errorf("replace row = %+v", rows[1])
	}
	if rows[3].Original != "" || rows[3].Enhanced != "four" {
		t.Errorf("insert row = %+v", rows[3])
	}
}
