// Package service orchestrates conversation flow between the store, the
// completion gateway, and the per-chat mode state.
package service

import (
	"context"

	"github.com/esgis/chatbot/internal/domain"
	"github.com/esgis/chatbot/internal/store"
)

// CompletionGateway produces a reply for a prompt given the conversation
// history. Implementations never fail; a degraded gateway returns fallback
// text instead.
type CompletionGateway interface {
	Complete(ctx context.Context, prompt string, history []domain.Message) string
}

// Service drives message processing for all conversations.
type Service struct {
	store   store.Store
	gateway CompletionGateway
	modes   *ChatModes
}

// New creates a service around the given store and gateway. Mode state is
// injected so independent service instances stay isolated.
func New(st store.Store, gateway CompletionGateway, modes *ChatModes) *Service {
	return &Service{
		store:   st,
		gateway: gateway,
		modes:   modes,
	}
}
