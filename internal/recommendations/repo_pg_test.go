package recommendations

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMockRepo(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &PGRepo{DB: db}, mock
}

func TestPGRepoCreateDefaultsStatus(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	rec := Recommendation{
		ID:           "rec-1",
		ValidationID: "val-1",
		FilePath:     "docs/guide.md",
		Type:         TypePluginMention,
		Scope:        Scope{Kind: ScopePrerequisites},
		Instruction:  "mention the plugin",
		Confidence:   0.9,
		CreatedAt:    now,
	}

	mock.ExpectExec("INSERT INTO recommendations").
		WithArgs(rec.ID, rec.ValidationID, rec.FilePath, rec.Type, rec.Scope.Kind,
			nil, nil, nil, rec.Instruction, rec.Confidence, StatusProposed, now).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), rec); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoCreateLineRangeCarriesBounds(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	rec := Recommendation{
		ID:           "rec-1",
		ValidationID: "val-1",
		FilePath:     "docs/guide.md",
		Type:         TypePluginCorrection,
		Scope:        Scope{Kind: ScopeLineRange, StartLine: 4, EndLine: 9},
		Instruction:  `replace "a" with "b"`,
		Confidence:   0.95,
		Status:       StatusApproved,
		CreatedAt:    now,
	}

	mock.ExpectExec("INSERT INTO recommendations").
		WithArgs(rec.ID, rec.ValidationID, rec.FilePath, rec.Type, rec.Scope.Kind,
			nil, int64(4), int64(9), rec.Instruction, rec.Confidence, StatusApproved, now).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), rec); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoSetStatusNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("UPDATE recommendations").
		WithArgs(StatusApproved, "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.SetStatus(context.Background(), "missing", StatusApproved); !errors.Is(err, ErrNotFound) {
		t.Fatalf("SetStatus = %v, want ErrNotFound", err)
	}
}

func TestPGRepoListByValidationFiltersStatus(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	rows := sqlmock.NewRows([]string{
		"id", "validation_id", "file_path", "rec_type", "scope_kind", "scope_name",
		"start_line", "end_line", "instruction", "confidence", "status", "skip_reason", "created_at",
	}).AddRow("rec-1", "val-1", "docs/guide.md", TypePluginMention, ScopeHeadingSection, "Usage",
		nil, nil, "mention it", 0.9, StatusApproved, nil, now)

	mock.ExpectQuery("SELECT").
		WithArgs("val-1", StatusApproved).
		WillReturnRows(rows)

	recs, err := repo.ListByValidation(context.Background(), "val-1", StatusApproved)
	if err != nil {
		t.Fatalf("ListByValidation: %v", err)
	}
	if len(recs) != 1 || recs[0].Scope.Name != "Usage" {
		t.Errorf("recs = %+v", recs)
	}
}
