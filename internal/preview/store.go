package preview

import "sync"

// Store holds previews in memory with one lock per preview id. Previews are
// short-lived review artifacts; they do not survive a restart and that is
// fine, the underlying documents and history do.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

type entry struct {
	mu      sync.Mutex
	preview Preview
}

// NewStore constructs an empty Store.
func NewStore() *Store {
	return &Store{entries: make(map[string]*entry)}
}

// Put stores a new preview under its id.
func (s *Store) Put(p Preview) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[p.PreviewID] = &entry{preview: p}
}

// Get returns a snapshot of the preview.
func (s *Store) Get(id string) (Preview, bool) {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok {
		return Preview{}, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.preview, true
}

// WithLock runs fn inside the preview's critical section. Apply, reject,
// and the expiry sweeper all go through here, so state transitions on one
// id never interleave. Changes fn makes to the preview are kept.
func (s *Store) WithLock(id string, fn func(p *Preview) error) error {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok {
		return ErrPreviewNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(&e.preview)
}

// IDs returns the ids of all stored previews.
func (s *Store) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.entries))
	for id := range s.entries {
		out = append(out, id)
	}
	return out
}
