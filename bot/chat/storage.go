package chat

import (
	"context"
	"slices"
	"sync"
)

// ChatStateRepository defines the database operations for chat state.
type ChatStateRepository interface {
	SaveChatState(ctx context.Context, state *ChatState) error
	LoadChatState(ctx context.Context, conversationID string) (*ChatState, error)
	DeleteChatState(ctx context.Context, conversationID string) error
	ListChatStates(ctx context.Context) ([]string, error)
}

// MongoChatStateStorage adapts the database repository to the ChatStateStorage interface.
type MongoChatStateStorage struct {
	repo ChatStateRepository
}

// NewMongoChatStateStorage creates a new MongoDB chat state storage.
func NewMongoChatStateStorage(repo ChatStateRepository) *MongoChatStateStorage {
	return &MongoChatStateStorage{repo: repo}
}

func (s *MongoChatStateStorage) Save(ctx context.Context, state *ChatState) error {
	return s.repo.SaveChatState(ctx, state)
}

func (s *MongoChatStateStorage) Load(ctx context.Context, conversationID string) (*ChatState, error) {
	return s.repo.LoadChatState(ctx, conversationID)
}

func (s *MongoChatStateStorage) Delete(ctx context.Context, conversationID string) error {
	return s.repo.DeleteChatState(ctx, conversationID)
}

func (s *MongoChatStateStorage) List(ctx context.Context) ([]string, error) {
	return s.repo.ListChatStates(ctx)
}

// MemoryChatStateStorage keeps states in process memory. It stores and
// returns copies, so callers never share a state with the store.
type MemoryChatStateStorage struct {
	mu     sync.RWMutex
	states map[string]*ChatState
}

// NewMemoryChatStateStorage creates an empty in-memory storage.
func NewMemoryChatStateStorage() *MemoryChatStateStorage {
	return &MemoryChatStateStorage{states: make(map[string]*ChatState)}
}

func (s *MemoryChatStateStorage) Save(_ context.Context, state *ChatState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[state.ConversationID] = state.Clone()
	return nil
}

func (s *MemoryChatStateStorage) Load(_ context.Context, conversationID string) (*ChatState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.states[conversationID]
	if !ok {
		return nil, nil
	}
	return state.Clone(), nil
}

func (s *MemoryChatStateStorage) Delete(_ context.Context, conversationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, conversationID)
	return nil
}

// List returns the stored conversation ids in lexical order.
func (s *MemoryChatStateStorage) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.states))
	for id := range s.states {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}
