package llm

import (
	"context"
	"fmt"
	"time"
)

// MockClient is a mock implementation of LLMClient for local development and
// testing without a Mistral API key.
type MockClient struct{}

// NewMockClient creates a new mock LLM client.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// Ensure MockClient implements LLMClient interface.
var _ LLMClient = (*MockClient)(nil)

// CreateChatCompletion returns a canned response echoing the last user turn.
func (m *MockClient) CreateChatCompletion(ctx context.Context, req *ChatCompletionRequest) (*ChatCompletionResponse, error) {
	content := m.generateMockResponse(req)

	return &ChatCompletionResponse{
		ID:      fmt.Sprintf("mock-chatcmpl-%d", time.Now().UnixNano()),
		Object:  "chat.completion",
		Created: time.Now().Unix(),
		Model:   req.Model,
		Choices: []Choice{
			{
				Index: 0,
				Message: &ChatMessage{
					Role:    "assistant",
					Content: content,
				},
				FinishReason: "stop",
			},
		},
		Usage: &Usage{
			PromptTokens:     len(req.Messages),
			CompletionTokens: len(content) / 4,
			TotalTokens:      len(req.Messages) + len(content)/4,
		},
	}, nil
}

func (m *MockClient) generateMockResponse(req *ChatCompletionRequest) string {
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role == "user" {
			return fmt.Sprintf("Mock reply to: %s", req.Messages[i].Content)
		}
	}
	return "Mock reply"
}
