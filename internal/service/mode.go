package service

import "sync"

// ChatModes tracks which chats have chat mode engaged. State is
// process-local and resets on restart. The check-and-set in Activate happens
// under one lock so concurrent messages for the same chat cannot lose an
// activation.
type ChatModes struct {
	mu     sync.Mutex
	active map[int64]bool
}

// NewChatModes creates an empty mode map.
func NewChatModes() *ChatModes {
	return &ChatModes{
		active: make(map[int64]bool),
	}
}

// Activate marks the chat active and reports whether it was idle before.
func (m *ChatModes) Activate(chatID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	wasIdle := !m.active[chatID]
	m.active[chatID] = true
	return wasIdle
}

// Active reports whether chat mode is engaged for the chat.
func (m *ChatModes) Active(chatID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active[chatID]
}
