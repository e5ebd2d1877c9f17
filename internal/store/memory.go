package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/esgis/chatbot/internal/domain"
)

// MemoryStore implements Store with process-local state. Useful for local
// development and tests; history is lost on restart.
type MemoryStore struct {
	mu            sync.Mutex
	conversations map[int64][]domain.Message
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		conversations: make(map[int64][]domain.Message),
	}
}

// SaveMessage appends a user message.
func (s *MemoryStore) SaveMessage(ctx context.Context, chatID int64, username, text string) error {
	s.append(chatID, domain.SenderUser, username, text)
	return nil
}

// SaveResponse appends a bot message.
func (s *MemoryStore) SaveResponse(ctx context.Context, chatID int64, text string) error {
	s.append(chatID, domain.SenderBot, "", text)
	return nil
}

func (s *MemoryStore) append(chatID int64, sender domain.Sender, username, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conversations[chatID] = append(s.conversations[chatID], domain.Message{
		ID:        uuid.New().String(),
		ChatID:    chatID,
		Sender:    sender,
		Username:  username,
		Content:   content,
		Timestamp: time.Now().Unix(),
	})
}

// GetConversation returns a copy of the chat history in ascending timestamp
// order. Insertion order is the tie-break for equal timestamps.
func (s *MemoryStore) GetConversation(ctx context.Context, chatID int64) ([]domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	messages := make([]domain.Message, len(s.conversations[chatID]))
	copy(messages, s.conversations[chatID])
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].Timestamp < messages[j].Timestamp
	})
	return messages, nil
}

// ResetConversation drops all messages for the chat.
func (s *MemoryStore) ResetConversation(ctx context.Context, chatID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conversations, chatID)
	return nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
