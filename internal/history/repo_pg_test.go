package history

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

func TestPGRepoSaveRecordWithRollbackIsTransactional(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	rec := EnhancementRecord{
		EnhancementID:     "enh-1",
		FilePath:          "docs/guide.md",
		HashBefore:        "aaa",
		HashAfter:         "bbb",
		AppliedIDs:        []string{"rec-1", "rec-2"},
		SafetyScore:       0.97,
		AppliedBy:         "reviewer-1",
		AppliedAt:         now,
		RollbackAvailable: true,
	}
	point := RollbackPoint{
		RollbackID:    "rb-1",
		EnhancementID: "enh-1",
		BackupKey:     "backups/enh-1.md",
		CreatedAt:     now,
		ExpiresAt:     now.Add(DefaultRetention),
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO enhancement_records").
		WithArgs(rec.EnhancementID, rec.FilePath, rec.HashBefore, rec.HashAfter,
			"rec-1,rec-2", rec.SafetyScore, rec.AppliedBy, rec.AppliedAt, true).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO rollback_points").
		WithArgs(point.RollbackID, point.EnhancementID, point.BackupKey, point.CreatedAt, point.ExpiresAt).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	if err := repo.SaveRecordWithRollback(context.Background(), rec, point); err != nil {
		t.Fatalf("SaveRecordWithRollback: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoSaveRecordRollsBackOnPointFailure(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO enhancement_records").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO rollback_points").
		WillReturnError(errors.New("unique violation"))
	mock.ExpectRollback()

	err := repo.SaveRecordWithRollback(context.Background(),
		EnhancementRecord{EnhancementID: "enh-1", AppliedAt: now},
		RollbackPoint{RollbackID: "rb-1", EnhancementID: "enh-1", CreatedAt: now, ExpiresAt: now})
	if err == nil {
		t.Fatal("expected error from failed point insert")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetRecordNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{
			"enhancement_id", "file_path", "hash_before", "hash_after",
			"applied_ids", "safety_score", "applied_by", "applied_at", "rollback_available",
		}))

	if _, err := repo.GetRecord(context.Background(), "missing"); !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("GetRecord = %v, want ErrRecordNotFound", err)
	}
}

func TestPGRepoConsumeRollbackAlreadyUsed(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE rollback_points").
		WithArgs(now, "enh-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	if err := repo.ConsumeRollback(context.Background(), "enh-1", now); !errors.Is(err, ErrRollbackNotAvailable) {
		t.Fatalf("ConsumeRollback = %v, want ErrRollbackNotAvailable", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoConsumeRollback(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE rollback_points").
		WithArgs(now, "enh-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE enhancement_records").
		WithArgs("enh-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.ConsumeRollback(context.Background(), "enh-1", now); err != nil {
		t.Fatalf("ConsumeRollback: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoScanRecordSplitsAppliedIDs(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	rows := sqlmock.NewRows([]string{
		"enhancement_id", "file_path", "hash_before", "hash_after",
		"applied_ids", "safety_score", "applied_by", "applied_at", "rollback_available",
	}).AddRow("enh-1", "docs/guide.md", "aaa", "bbb", "rec-1,rec-2", 0.9, "reviewer-1", now, true)

	mock.ExpectQuery("SELECT").WithArgs("enh-1").WillReturnRows(rows)

	rec, err := repo.GetRecord(context.Background(), "enh-1")
	if err != nil {
		t.Fatalf("GetRecord: %v", err)
	}
	if len(rec.AppliedIDs) != 2 || rec.AppliedIDs[0] != "rec-1" {
		t.Errorf("AppliedIDs = %v", rec.AppliedIDs)
	}
}
