// Package domain defines the core domain models for the chatbot.
package domain

// Sender identifies who produced a message in a conversation.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Message is a single turn in a conversation.
type Message struct {
	ID        string `json:"message_id"`
	ChatID    int64  `json:"chat_id"`
	Sender    Sender `json:"sender"`
	Username  string `json:"username,omitempty"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"`
}
