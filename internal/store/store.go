// Package store defines the conversation storage interface and its
// implementations.
package store

import (
	"context"
	"errors"

	"github.com/esgis/chatbot/internal/domain"
)

// ErrStorageUnavailable indicates that the backend could not be reached or
// returned a malformed response. Callers can distinguish it from an empty
// conversation, which is not an error.
var ErrStorageUnavailable = errors.New("storage unavailable")

// Store persists conversation history keyed by chat id.
type Store interface {
	// SaveMessage appends a user message at the current time.
	SaveMessage(ctx context.Context, chatID int64, username, text string) error

	// SaveResponse appends a bot message at the current time.
	SaveResponse(ctx context.Context, chatID int64, text string) error

	// GetConversation returns all messages for the chat in ascending
	// timestamp order. An unknown chat id yields an empty slice, not an
	// error.
	GetConversation(ctx context.Context, chatID int64) ([]domain.Message, error)

	// ResetConversation deletes all messages for the chat. Resetting an
	// unknown chat id is a no-op.
	ResetConversation(ctx context.Context, chatID int64) error

	// Lifecycle
	Close() error
}
