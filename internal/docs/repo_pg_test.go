package docs

import (
	"context"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	doc := Document{
		ID:          "doc-1",
		FilePath:    "docs/plugins/words/install.md",
		ContentKey:  "documents/abc123.md",
		ContentHash: "abc123",
		SizeBytes:   512,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	mock.ExpectExec("INSERT INTO documents").
		WithArgs(doc.ID, doc.FilePath, doc.ContentKey, doc.ContentHash, doc.SizeBytes, doc.CreatedAt, doc.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := &PGRepo{DB: db}
	if err := repo.Create(context.Background(), doc); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPGRepoGetByPathNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT id, file_path").
		WithArgs("docs/missing.md").
		WillReturnRows(sqlmock.NewRows([]string{"id", "file_path", "content_key", "content_hash", "size_bytes", "created_at", "updated_at"}))

	repo := &PGRepo{DB: db}
	_, err = repo.GetByPath(context.Background(), "docs/missing.md")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoUpdateContentNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE documents").
		WithArgs("documents/def456.md", "def456", int64(640), sqlmock.AnyArg(), "docs/missing.md").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := &PGRepo{DB: db}
	err = repo.UpdateContent(context.Background(), "docs/missing.md", "documents/def456.md", "def456", 640)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoList(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "file_path", "content_key", "content_hash", "size_bytes", "created_at", "updated_at"}).
		AddRow("doc-1", "docs/a.md", "documents/a.md", "aaa", int64(100), now, now).
		AddRow("doc-2", "docs/b.md", "documents/b.md", "bbb", int64(200), now, now)

	mock.ExpectQuery("SELECT id, file_path").
		WithArgs(20, 0).
		WillReturnRows(rows)

	repo := &PGRepo{DB: db}
	docs, err := repo.List(context.Background(), 0, -1)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
	if docs[0].FilePath != "docs/a.md" || docs[1].FilePath != "docs/b.md" {
		t.Fatalf("unexpected ordering: %q, %q", docs[0].FilePath, docs[1].FilePath)
	}
}
