package session

import (
	"context"
	"sync"
	"time"
)

type memoryLog struct {
	turns    []Turn
	lastSeen time.Time
}

// MemoryStore keeps logs in process memory. Logs idle for longer than the TTL are dropped
// lazily on the next access; a zero TTL keeps them until cleared.
type MemoryStore struct {
	mu   sync.Mutex
	logs map[string]*memoryLog
	ttl  time.Duration
	now  func() time.Time
}

// NewMemoryStore creates a new MemoryStore.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		logs: make(map[string]*memoryLog),
		ttl:  ttl,
		now:  time.Now,
	}
}

var _ Store = (*MemoryStore)(nil)

// Append adds turns to the end of the session's log.
func (s *MemoryStore) Append(ctx context.Context, id string, turns ...Turn) error {
	if id == "" {
		return ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictExpired()
	log, ok := s.logs[id]
	if !ok {
		log = &memoryLog{}
		s.logs[id] = log
	}
	log.turns = append(log.turns, turns...)
	log.lastSeen = s.now()
	return nil
}

// List returns a copy of the session's turns.
func (s *MemoryStore) List(ctx context.Context, id string) ([]Turn, error) {
	if id == "" {
		return nil, ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictExpired()
	log, ok := s.logs[id]
	if !ok {
		return []Turn{}, nil
	}
	log.lastSeen = s.now()
	out := make([]Turn, len(log.turns))
	copy(out, log.turns)
	return out, nil
}

// Clear drops the session's log.
func (s *MemoryStore) Clear(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.logs, id)
	return nil
}

// Len returns the number of live sessions.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictExpired()
	return len(s.logs)
}

// evictExpired must be called with mu held.
func (s *MemoryStore) evictExpired() {
	if s.ttl <= 0 {
		return
	}
	cutoff := s.now().Add(-s.ttl)
	for id, log := range s.logs {
		if log.lastSeen.Before(cutoff) {
			delete(s.logs, id)
		}
	}
}
