package sessions

import (
	"context"
	"sync"
	"time"

	"github.com/sunsweeper/sunsweeper-ai-platform/internal/conversation"
)

// MemoryStore is an in-process Store for development and tests. Entries
// expire lazily on read.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

type memoryEntry struct {
	state     conversation.State
	expiresAt time.Time
}

// NewMemoryStore creates an in-memory store. A zero ttl uses DefaultTTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *MemoryStore) Save(ctx context.Context, conversationID string, state conversation.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[conversationID] = memoryEntry{
		state:     state,
		expiresAt: s.now().Add(s.ttl),
	}
	return nil
}

func (s *MemoryStore) Load(ctx context.Context, conversationID string) (conversation.State, error) {
	s.mu.RLock()
	entry, ok := s.entries[conversationID]
	s.mu.RUnlock()
	if !ok {
		return conversation.State{}, ErrNotFound
	}
	if s.now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.entries, conversationID)
		s.mu.Unlock()
		return conversation.State{}, ErrNotFound
	}
	return entry.state, nil
}
