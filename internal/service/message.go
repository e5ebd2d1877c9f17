package service

import (
	"context"
	"fmt"
	"log"
)

// ProcessMessage persists the inbound message, fetches the conversation
// history, asks the gateway for a reply, persists it, and returns it.
//
// The inbound message is durably recorded before the model is invoked, so
// every prompt sent to the gateway can be reconstructed from stored history.
// If that write fails the error is returned and no completion is requested.
// A failed write of the reply is logged but the reply is still returned:
// losing a history entry beats losing a user-visible answer.
func (s *Service) ProcessMessage(ctx context.Context, chatID int64, username, text string) (string, error) {
	if s.modes.Activate(chatID) {
		log.Printf("chat mode auto-activated for chat %d", chatID)
	}

	if err := s.store.SaveMessage(ctx, chatID, username, text); err != nil {
		return "", fmt.Errorf("failed to save message for chat %d: %w", chatID, err)
	}

	history, err := s.store.GetConversation(ctx, chatID)
	if err != nil {
		// The inbound turn is already durable; degrade to an empty
		// history rather than dropping the reply.
		log.Printf("WARN: failed to load history for chat %d: %v", chatID, err)
		history = nil
	}

	reply := s.gateway.Complete(ctx, text, history)

	if err := s.store.SaveResponse(ctx, chatID, reply); err != nil {
		log.Printf("WARN: failed to save response for chat %d: %v", chatID, err)
	}

	return reply, nil
}

// ActivateChat engages chat mode for the chat.
func (s *Service) ActivateChat(chatID int64) {
	s.modes.Activate(chatID)
}

// ChatModeActive reports whether chat mode is engaged for the chat.
func (s *Service) ChatModeActive(chatID int64) bool {
	return s.modes.Active(chatID)
}

// ResetConversation clears the stored history for the chat. Chat mode is
// left untouched.
func (s *Service) ResetConversation(ctx context.Context, chatID int64) error {
	if err := s.store.ResetConversation(ctx, chatID); err != nil {
		return fmt.Errorf("failed to reset conversation for chat %d: %w", chatID, err)
	}
	return nil
}
