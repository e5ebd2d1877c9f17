package llm

import (
	"log"
	"os"
	"time"
)

const (
	// EnvChatbotMode is the environment variable name for mode selection.
	EnvChatbotMode = "CHATBOT_MODE"
	// ModeMock indicates mock mode should be used.
	ModeMock = "MOCK"
)

// NewLLMClient creates an LLM client based on the CHATBOT_MODE environment
// variable. If CHATBOT_MODE=MOCK, returns a MockClient; otherwise returns a
// real Client.
func NewLLMClient(baseURL, apiKey string, timeout time.Duration) LLMClient {
	if os.Getenv(EnvChatbotMode) == ModeMock {
		log.Println("CHATBOT_MODE=MOCK detected, using mock LLM client")
		return NewMockClient()
	}

	return NewClient(baseURL, apiKey, timeout)
}
