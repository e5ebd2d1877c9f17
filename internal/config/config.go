// Package config provides configuration for the chatbot.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the chatbot configuration.
type Config struct {
	// Server settings
	HTTPPort int

	// Telegram
	TelegramToken      string
	PollTimeoutSeconds int

	// Mistral
	MistralAPIKey  string
	MistralBaseURL string
	MistralModel   string
	LLMTimeout     time.Duration

	// Database
	DatabaseURL    string
	UseMemoryStore bool
}

// Load loads configuration from environment variables.
func Load() *Config {
	return &Config{
		HTTPPort:           getEnvInt("PORT", 3000),
		TelegramToken:      getEnv("TELEGRAM_BOT_TOKEN", ""),
		PollTimeoutSeconds: getEnvInt("POLL_TIMEOUT_SECONDS", 30),
		MistralAPIKey:      getEnv("MISTRAL_API_KEY", ""),
		MistralBaseURL:     getEnv("MISTRAL_BASE_URL", "https://api.mistral.ai/v1"),
		MistralModel:       getEnv("MISTRAL_MODEL", "mistral-medium"),
		LLMTimeout:         time.Duration(getEnvInt("MISTRAL_TIMEOUT_MS", 30000)) * time.Millisecond,
		DatabaseURL:        getEnv("DATABASE_URL", "file:chatbot.db?cache=shared&mode=rwc"),
		UseMemoryStore:     getEnvBool("USE_MEMORY_STORE", false),
	}
}

// Validate returns the names of required environment variables that are not
// set. A missing TELEGRAM_BOT_TOKEN blocks the Telegram listener only; the
// HTTP surface can still serve.
func (c *Config) Validate() []string {
	var missing []string
	if c.TelegramToken == "" {
		missing = append(missing, "TELEGRAM_BOT_TOKEN")
	}
	if c.MistralAPIKey == "" {
		missing = append(missing, "MISTRAL_API_KEY")
	}
	return missing
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if boolVal, err := strconv.ParseBool(val); err == nil {
			return boolVal
		}
	}
	return defaultVal
}
