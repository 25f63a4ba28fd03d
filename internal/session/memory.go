package session

import (
	"context"
	"sync"

	"github.com/nsoftlabs/whitespace-server/internal/model"
)

// MemoryStore is the in-process fallback used when Redis is not configured,
// and by tests. Session state then lives for the lifetime of the process
// only.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]model.User
	chats map[string]model.ChatSession
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users: make(map[string]model.User),
		chats: make(map[string]model.ChatSession),
	}
}

func (s *MemoryStore) PutUser(ctx context.Context, u model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
	return nil
}

func (s *MemoryStore) GetUser(ctx context.Context, userID string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[userID]
	if !ok {
		return model.User{}, ErrNotFound
	}
	return u, nil
}

func (s *MemoryStore) DeleteUser(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, userID)
	return nil
}

func (s *MemoryStore) PutChat(ctx context.Context, cs model.ChatSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chats[cs.ID] = cs
	return nil
}

func (s *MemoryStore) GetChat(ctx context.Context, sessionID string) (model.ChatSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cs, ok := s.chats[sessionID]
	if !ok {
		return model.ChatSession{}, ErrNotFound
	}
	return cs, nil
}
