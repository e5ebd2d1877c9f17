package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/esgis/chatbot/internal/adapter/llm"
	tgclient "github.com/esgis/chatbot/internal/adapter/telegram"
	"github.com/esgis/chatbot/internal/completion"
	"github.com/esgis/chatbot/internal/config"
	"github.com/esgis/chatbot/internal/service"
	"github.com/esgis/chatbot/internal/store"
	httptransport "github.com/esgis/chatbot/internal/transport/http"
	tglistener "github.com/esgis/chatbot/internal/transport/telegram"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log.Printf("Starting chatbot...")
	log.Printf("HTTP Port: %d", cfg.HTTPPort)
	log.Printf("Model: %s", cfg.MistralModel)

	if missing := cfg.Validate(); len(missing) > 0 {
		log.Printf("ERROR: missing required environment variables: %s", strings.Join(missing, ", "))
		log.Printf("ERROR: please complete the environment before full operation; health endpoint stays available")
	}

	// Initialize store
	db, err := newStore(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer db.Close()

	// Initialize completion gateway
	llmClient := llm.NewLLMClient(cfg.MistralBaseURL, cfg.MistralAPIKey, cfg.LLMTimeout)
	gateway := completion.NewGateway(llmClient, cfg.MistralModel)

	// Initialize service
	svc := service.New(db, gateway, service.NewChatModes())

	// Create HTTP server
	server := httptransport.NewServer(svc)

	// Start HTTP server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := server.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()
	log.Printf("HTTP API started on port %d", cfg.HTTPPort)

	// Start Telegram listener only when a bot token is configured; the HTTP
	// surface serves either way.
	listenerCtx, stopListener := context.WithCancel(context.Background())
	defer stopListener()
	if cfg.TelegramToken != "" {
		bot := tgclient.NewClient(
			"https://api.telegram.org/bot"+cfg.TelegramToken,
			time.Duration(cfg.PollTimeoutSeconds+10)*time.Second,
		)
		listener := tglistener.NewListener(bot, svc, cfg.PollTimeoutSeconds)
		go listener.Run(listenerCtx)
	} else {
		log.Printf("WARN: TELEGRAM_BOT_TOKEN not set, Telegram listener not started")
	}

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down chatbot...")
	stopListener()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown HTTP server gracefully: %v", err)
	}

	log.Println("Chatbot stopped")
}

func newStore(cfg *config.Config) (store.Store, error) {
	if cfg.UseMemoryStore {
		log.Println("Using in-memory store")
		return store.NewMemoryStore(), nil
	}
	log.Printf("Using SQLite store at %s", cfg.DatabaseURL)
	return store.NewSQLiteStore(cfg.DatabaseURL)
}
