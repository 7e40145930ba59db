package repo

import (
	"context"
	"sync"

	"github.com/evebot-core/server/internal/assistant/model"
)

// MemoryConversationStore is a process-local store used in tests and for
// redis-less local runs. Turns are kept oldest-first per user.
type MemoryConversationStore struct {
	mu    sync.RWMutex
	turns map[string][]model.ConversationTurn
}

func NewMemoryConversationStore() *MemoryConversationStore {
	return &MemoryConversationStore{turns: make(map[string][]model.ConversationTurn)}
}

func (s *MemoryConversationStore) Append(_ context.Context, turn model.ConversationTurn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns[turn.UserID] = append(s.turns[turn.UserID], turn)
	return nil
}

func (s *MemoryConversationStore) Recent(_ context.Context, userID string, limit int) ([]model.ConversationTurn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.turns[userID]
	if limit > len(all) {
		limit = len(all)
	}
	out := make([]model.ConversationTurn, 0, limit)
	for i := len(all) - 1; i >= len(all)-limit; i-- {
		out = append(out, all[i])
	}
	return out, nil
}

func (s *MemoryConversationStore) Count(_ context.Context, userID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.turns[userID]), nil
}

var _ model.ConversationStore = (*MemoryConversationStore)(nil)
