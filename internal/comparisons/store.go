package comparisons

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store persists job records keyed by job ID. Each record expires a fixed
// TTL after Create; updates never extend it.
type Store interface {
	// Create stores a new record. It returns ErrExists if the ID is taken.
	Create(ctx context.Context, job *Job) error
	// Find returns ErrNotFound for unknown and expired records.
	Find(ctx context.Context, id uuid.UUID) (*Job, error)
	// Update replaces an existing record. It returns ErrNotFound if the
	// record has expired.
	Update(ctx context.Context, job *Job) error
}

type memoryEntry struct {
	job     Job
	expires time.Time
}

// MemoryStore is a Store held in process memory.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[uuid.UUID]memoryEntry
}

// NewMemoryStore creates a MemoryStore whose records expire after ttl.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[uuid.UUID]memoryEntry),
	}
}

// WithClock replaces the store's time source.
func (s *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	s.now = now
	return s
}

func (s *MemoryStore) Create(_ context.Context, job *Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweep(now)

	if _, ok := s.entries[job.JobID]; ok {
		return ErrExists
	}
	s.entries[job.JobID] = memoryEntry{job: *job, expires: now.Add(s.ttl)}
	return nil
}

func (s *MemoryStore) Find(_ context.Context, id uuid.UUID) (*Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.live(id)
	if !ok {
		return nil, ErrNotFound
	}
	job := e.job
	return &job, nil
}

func (s *MemoryStore) Update(_ context.Context, job *Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.live(job.JobID)
	if !ok {
		return ErrNotFound
	}
	e.job = *job
	s.entries[job.JobID] = e
	return nil
}

// Len returns the number of unexpired records.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweep(s.now())
	return len(s.entries)
}

func (s *MemoryStore) live(id uuid.UUID) (memoryEntry, bool) {
	e, ok := s.entries[id]
	if !ok {
		return e, false
	}
	if !s.now().Before(e.expires) {
		delete(s.entries, id)
		return e, false
	}
	return e, true
}

func (s *MemoryStore) sweep(now time.Time) {
	for id, e := range s.entries {
		if !now.Before(e.expires) {
			delete(s.entries, id)
		}
	}
}
