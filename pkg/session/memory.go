package session

import (
	"context"
	"sync"
	"time"
)

type memoryRecord struct {
	updatedAt time.Time
	values    Values
}

// MemoryStore keeps sessions in a process-local map.
type MemoryStore struct {
	records map[string]memoryRecord
	now     func() time.Time
	mu      sync.Mutex
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]memoryRecord),
		now:     time.Now,
	}
}

// Create adds an empty record unless one already exists.
func (s *MemoryStore) Create(_ context.Context, id string) error {
	if !ValidID(id) {
		return ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		s.records[id] = memoryRecord{values: Values{}, updatedAt: s.now()}
	}
	return nil
}

// Load returns a copy of the stored bag.
func (s *MemoryStore) Load(_ context.Context, id string) (Values, error) {
	if !ValidID(id) {
		return nil, ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	return rec.values.Clone(), nil
}

// Save replaces the stored bag with a copy of v.
func (s *MemoryStore) Save(_ context.Context, id string, v Values) error {
	if !ValidID(id) {
		return ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[id] = memoryRecord{values: v.Clone(), updatedAt: s.now()}
	return nil
}

// Sweep removes records last written before the cutoff.
func (s *MemoryStore) Sweep(_ context.Context, before time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, rec := range s.records {
		if rec.updatedAt.Before(before) {
			delete(s.records, id)
			removed++
		}
	}
	return removed, nil
}

// Len returns the number of stored sessions.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

var (
	_ Store     = (*MemoryStore)(nil)
	_ Sweepable = (*MemoryStore)(nil)
)
