package session

import (
	"context"
	"sync"
	"time"
)

type memoryRecord struct {
	rec     Record
	expires time.Time
}

// MemoryStore is the application-lifetime store used when Redis is disabled.
// Like the Redis store, every Save restarts the record's ttl; expired records
// are dropped lazily on Load.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]memoryRecord
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStore creates a store whose records live for ttl after their last
// save. A zero ttl keeps records until they are deleted.
func NewMemoryStore(ttl time.Duration, now func() time.Time) *MemoryStore {
	return &MemoryStore{
		records: make(map[string]memoryRecord),
		ttl:     ttl,
		now:     now,
	}
}

func (s *MemoryStore) Load(_ context.Context, id string) (*Record, error) {
	s.mu.RLock()
	r, ok := s.records[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	if s.expired(r) {
		s.mu.Lock()
		if cur, ok := s.records[id]; ok && s.expired(cur) {
			delete(s.records, id)
		}
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	rec := r.rec
	return &rec, nil
}

func (s *MemoryStore) Save(_ context.Context, id string, rec *Record) error {
	r := memoryRecord{rec: *rec}
	if s.ttl > 0 {
		r.expires = s.now().Add(s.ttl)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[id] = r
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, id)
	return nil
}

// Len returns the number of live sessions
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, r := range s.records {
		if !s.expired(r) {
			n++
		}
	}
	return n
}

func (s *MemoryStore) expired(r memoryRecord) bool {
	return !r.expires.IsZero() && !s.now().Before(r.expires)
}
