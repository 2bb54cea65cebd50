package session

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	token     string
	expiresAt time.Time
}

// MemoryStore is an in-process session store. TTL expiry is enforced lazily
// on read.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryStore constructs an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (s *MemoryStore) SaveAccessToken(_ context.Context, runID, accessToken string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[runID] = memoryEntry{
		token:     accessToken,
		expiresAt: s.now().Add(ttl),
	}
	return nil
}

func (s *MemoryStore) AccessToken(_ context.Context, runID string) (string, bool, error) {
	s.mu.RLock()
	entry, ok := s.entries[runID]
	s.mu.RUnlock()
	if !ok {
		return "", false, nil
	}
	if s.now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.entries, runID)
		s.mu.Unlock()
		return "", false, nil
	}
	return entry.token, true, nil
}
