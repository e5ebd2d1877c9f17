// Package completion turns stored conversation history into chat-completion
// calls and normalizes failures into a user-safe fallback reply.
package completion

import (
	"context"
	"log"

	"github.com/esgis/chatbot/internal/adapter/llm"
	"github.com/esgis/chatbot/internal/domain"
)

// Sampling parameters sent with every completion request.
const (
	temperature = 0.7
	maxTokens   = 1000
)

// FallbackText is returned in place of a completion whenever the remote call
// fails. It is persisted like any other bot reply so the stored history
// matches what the user saw.
const FallbackText = "An error occurred while communicating with Mistral AI."

// Gateway wraps an LLM client with history translation and failure handling.
type Gateway struct {
	client llm.LLMClient
	model  string
}

// NewGateway creates a gateway that requests completions from the given
// model.
func NewGateway(client llm.LLMClient, model string) *Gateway {
	return &Gateway{
		client: client,
		model:  model,
	}
}

// Complete requests a completion for the prompt given the conversation
// history. It never fails: any transport or remote error is logged and
// FallbackText is returned instead.
func (g *Gateway) Complete(ctx context.Context, prompt string, history []domain.Message) string {
	messages := make([]llm.ChatMessage, 0, len(history)+1)
	for _, msg := range history {
		role := "assistant"
		if msg.Sender == domain.SenderUser {
			role = "user"
		}
		messages = append(messages, llm.ChatMessage{Role: role, Content: msg.Content})
	}
	messages = append(messages, llm.ChatMessage{Role: "user", Content: prompt})

	temp := float64(temperature)
	maxTok := maxTokens
	resp, err := g.client.CreateChatCompletion(ctx, &llm.ChatCompletionRequest{
		Model:       g.model,
		Messages:    messages,
		Temperature: &temp,
		MaxTokens:   &maxTok,
	})
	if err != nil {
		log.Printf("WARN: completion request failed: %v", err)
		return FallbackText
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message == nil {
		log.Printf("WARN: completion response has no choices (id=%s)", resp.ID)
		return FallbackText
	}
	return resp.Choices[0].Message.Content
}
