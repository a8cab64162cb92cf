package preview

import (
	"errors"
	"fmt"
	"sync"
	"testing"
)

func TestStoreWithLockPersistsChanges(t *testing.T) {
	store := NewStore()
	store.Put(Preview{PreviewID: "prev-1", Status: StatusPending})

	err := store.WithLock("prev-1", func(p *Preview) error {
		p.Status = StatusApproved
		return nil
	})
	if err != nil {
		t.Fatalf("WithLock: %v", err)
	}

	p, ok := store.Get("prev-1")
	if !ok {
		t.Fatalf("preview missing after WithLock")
	}
	if p.Status != StatusApproved {
		t.Fatalf("expected approved, got %s", p.Status)
	}
}

func TestStoreWithLockUnknownID(t *testing.T) {
	store := NewStore()
	err := store.WithLock("nope", func(p *Preview) error { return nil })
	if !errors.Is(err, ErrPreviewNotFound) {
		t.Fatalf("expected ErrPreviewNotFound, got %v", err)
	}
}

func TestStoreConcurrentTransitionsStaySerial(t *testing.T) {
	store := NewStore()
	store.Put(Preview{PreviewID: "prev-1", Status: StatusPending})

	var approved int
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.WithLock("prev-1", func(p *Preview) error {
				if p.Status != StatusPending {
					return ErrPreviewExpired
				}
				p.Status = StatusApproved
				approved++
				return nil
			})
		}()
	}
	wg.Wait()

	if approved != 1 {
		t.Fatalf("expected exactly one transition, got %d", approved)
	}
}

func TestStoreIDs(t *testing.T) {
	store := NewStore()
	for i := 0; i < 3; i++ {
		store.Put(Preview{PreviewID: fmt.Sprintf("prev-%d", i)})
	}
	ids := store.IDs()
	if len(ids) != 3 {
		t.Fatalf("expected 3 ids, got %d", len(ids))
	}
}
