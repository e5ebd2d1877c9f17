// Package llm provides an abstraction for chat-completion API clients.
package llm

import "context"

// LLMClient defines the interface for chat-completion operations.
type LLMClient interface {
	// CreateChatCompletion sends a chat completion request.
	CreateChatCompletion(ctx context.Context, req *ChatCompletionRequest) (*ChatCompletionResponse, error)
}

// Ensure Client implements LLMClient interface.
var _ LLMClient = (*Client)(nil)
