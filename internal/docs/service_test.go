package docs

import (
	"context"
	"errors"
	"testing"

	"docguard-backend/internal/shared/storage/object/local"
	"docguard-backend/internal/shared/util"
)

func newService(t *testing.T) *Service {
	t.Helper()
	return &Service{Repo: NewMemoryRepo(), Store: local.New(t.TempDir())}
}

func TestRegisterAndContentRoundTrip(t *testing.T) {
	svc := newService(t)
	const content = "# Guide\n\nSome body text.\n"

	doc, err := svc.Register(context.Background(), "docs/guide.md", content)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if doc.ContentHash != util.HashContent(content) {
		t.Errorf("hash = %q", doc.ContentHash)
	}
	if doc.SizeBytes != int64(len(content)) {
		t.Errorf("size = %d, want %d", doc.SizeBytes, len(content))
	}

	got, loaded, err := svc.Content(context.Background(), "docs/guide.md")
	if err != nil {
		t.Fatalf("content: %v", err)
	}
	if loaded != content {
		t.Error("loaded content differs from registered content")
	}
	if got.ID != doc.ID {
		t.Errorf("document id changed: %q vs %q", got.ID, doc.ID)
	}
}

func TestRegisterExistingPathUpdatesInPlace(t *testing.T) {
	svc := newService(t)

	first, err := svc.Register(context.Background(), "docs/guide.md", "v1")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	second, err := svc.Register(context.Background(), "docs/guide.md", "v2 content")
	if err != nil {
		t.Fatalf("re-register: %v", err)
	}
	if second.ID != first.ID {
		t.Error("re-registering a path must keep the document id")
	}

	_, loaded, err := svc.Content(context.Background(), "docs/guide.md")
	if err != nil {
		t.Fatalf("content: %v", err)
	}
	if loaded != "v2 content" {
		t.Errorf("loaded = %q", loaded)
	}
}

func TestReplaceContent(t *testing.T) {
	svc := newService(t)
	if _, err := svc.Register(context.Background(), "docs/guide.md", "before"); err != nil {
		t.Fatalf("register: %v", err)
	}

	hash, err := svc.ReplaceContent(context.Background(), "docs/guide.md", "after")
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if hash != util.HashContent("after") {
		t.Errorf("hash = %q", hash)
	}

	doc, loaded, err := svc.Content(context.Background(), "docs/guide.md")
	if err != nil {
		t.Fatalf("content: %v", err)
	}
	if loaded != "after" || doc.ContentHash != hash {
		t.Errorf("loaded = %q, hash = %q", loaded, doc.ContentHash)
	}

	if _, err := svc.ReplaceContent(context.Background(), "docs/unknown.md", "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("replace unknown = %v, want ErrNotFound", err)
	}
}

func TestRegisterInvalidInput(t *testing.T) {
	svc := newService(t)
	if _, err := svc.Register(context.Background(), "  ", "content"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("blank path = %v, want ErrInvalidInput", err)
	}
	if _, err := svc.Register(context.Background(), "docs/guide.md", ""); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("empty content = %v, want ErrInvalidInput", err)
	}
}
