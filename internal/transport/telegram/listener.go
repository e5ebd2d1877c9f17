// Package telegram runs the long-poll listener that relays Telegram updates
// to the conversation service.
package telegram

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/esgis/chatbot/internal/adapter/telegram"
	"github.com/esgis/chatbot/internal/service"
)

// Static replies for commands and feedback callbacks.
const (
	welcomeText = "Hi! I'm your AI assistant powered by Mistral AI. " +
		"Use /chat to start a conversation, /reset to clear your history, " +
		"or /help to see every available command."
	chatModeText = "Chat mode enabled! You can talk to me now."
	resetText    = "Your conversation history has been reset."
	helpText     = "Available commands:\n" +
		"/start - Start the conversation\n" +
		"/chat - Enable chat mode\n" +
		"/reset - Reset your history\n" +
		"/help - Show this help message"
	feedbackPositiveText = "Thanks for the positive feedback!"
	feedbackNegativeText = "Sorry the answer wasn't helpful. Feel free to rephrase your question."
	processErrorText     = "Sorry, I couldn't process your message right now. Please try again later."
)

// Callback tokens carried by the feedback keyboard.
const (
	callbackFeedbackPositive = "feedback_positive"
	callbackFeedbackNegative = "feedback_negative"
)

const pollRetryDelay = 3 * time.Second

// BotClient is the subset of the Telegram client the listener needs.
type BotClient interface {
	GetUpdates(ctx context.Context, offset int64, timeoutSeconds int) ([]telegram.Update, error)
	SendMessage(ctx context.Context, chatID int64, text string) error
	SendMessageWithKeyboard(ctx context.Context, chatID int64, text string, markup *telegram.InlineKeyboardMarkup) error
	SendChatAction(ctx context.Context, chatID int64, action string) error
	AnswerCallbackQuery(ctx context.Context, callbackID string) error
	EditMessageReplyMarkup(ctx context.Context, chatID, messageID int64) error
}

// Listener polls Telegram for updates and dispatches them to the service.
type Listener struct {
	client      BotClient
	service     *service.Service
	pollTimeout int
}

// NewListener creates a listener over the given bot client.
func NewListener(client BotClient, svc *service.Service, pollTimeoutSeconds int) *Listener {
	return &Listener{
		client:      client,
		service:     svc,
		pollTimeout: pollTimeoutSeconds,
	}
}

// Run polls for updates until the context is cancelled. Each update is
// handled in its own goroutine so a slow completion for one chat does not
// block the others.
func (l *Listener) Run(ctx context.Context) {
	log.Println("Telegram listener started")
	var offset int64

	for {
		select {
		case <-ctx.Done():
			log.Println("Telegram listener stopped")
			return
		default:
		}

		updates, err := l.client.GetUpdates(ctx, offset, l.pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				log.Println("Telegram listener stopped")
				return
			}
			log.Printf("WARN: getUpdates failed: %v", err)
			select {
			case <-ctx.Done():
			case <-time.After(pollRetryDelay):
			}
			continue
		}

		for _, update := range updates {
			if update.UpdateID >= offset {
				offset = update.UpdateID + 1
			}
			go l.handleUpdate(ctx, update)
		}
	}
}

func (l *Listener) handleUpdate(ctx context.Context, update telegram.Update) {
	switch {
	case update.CallbackQuery != nil:
		l.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil && update.Message.Text != "":
		msg := update.Message
		if strings.HasPrefix(msg.Text, "/") {
			l.handleCommand(ctx, msg)
		} else {
			l.handleText(ctx, msg)
		}
	}
}

func (l *Listener) handleCommand(ctx context.Context, msg *telegram.Message) {
	chatID := msg.Chat.ID
	command := strings.Fields(msg.Text)[0]
	// Group chats address commands as /cmd@botname.
	if at := strings.Index(command, "@"); at != -1 {
		command = command[:at]
	}

	switch command {
	case "/start":
		l.reply(ctx, chatID, welcomeText)
	case "/chat":
		l.service.ActivateChat(chatID)
		l.reply(ctx, chatID, chatModeText)
	case "/reset":
		if err := l.service.ResetConversation(ctx, chatID); err != nil {
			log.Printf("WARN: reset failed for chat %d: %v", chatID, err)
			l.reply(ctx, chatID, processErrorText)
			return
		}
		l.reply(ctx, chatID, resetText)
	case "/help":
		l.reply(ctx, chatID, helpText)
	default:
		log.Printf("ignoring unknown command %q from chat %d", command, chatID)
	}
}

func (l *Listener) handleText(ctx context.Context, msg *telegram.Message) {
	chatID := msg.Chat.ID
	username := "user"
	if msg.From != nil && msg.From.Username != "" {
		username = msg.From.Username
	}

	if err := l.client.SendChatAction(ctx, chatID, "typing"); err != nil {
		log.Printf("WARN: sendChatAction failed for chat %d: %v", chatID, err)
	}

	reply, err := l.service.ProcessMessage(ctx, chatID, username, msg.Text)
	if err != nil {
		log.Printf("ERROR: processing message for chat %d: %v", chatID, err)
		l.reply(ctx, chatID, processErrorText)
		return
	}

	markup := &telegram.InlineKeyboardMarkup{
		InlineKeyboard: [][]telegram.InlineKeyboardButton{
			{
				{Text: "👍", CallbackData: callbackFeedbackPositive},
				{Text: "👎", CallbackData: callbackFeedbackNegative},
			},
		},
	}
	if err := l.client.SendMessageWithKeyboard(ctx, chatID, reply, markup); err != nil {
		log.Printf("WARN: sendMessage failed for chat %d: %v", chatID, err)
	}
}

func (l *Listener) handleCallback(ctx context.Context, query *telegram.CallbackQuery) {
	if err := l.client.AnswerCallbackQuery(ctx, query.ID); err != nil {
		log.Printf("WARN: answerCallbackQuery failed: %v", err)
	}
	if query.Message == nil {
		return
	}
	chatID := query.Message.Chat.ID

	var ack string
	switch query.Data {
	case callbackFeedbackPositive:
		ack = feedbackPositiveText
	case callbackFeedbackNegative:
		ack = feedbackNegativeText
	default:
		return
	}

	if err := l.client.EditMessageReplyMarkup(ctx, chatID, query.Message.MessageID); err != nil {
		log.Printf("WARN: editMessageReplyMarkup failed for chat %d: %v", chatID, err)
	}
	l.reply(ctx, chatID, ack)
}

func (l *Listener) reply(ctx context.Context, chatID int64, text string) {
	if err := l.client.SendMessage(ctx, chatID, text); err != nil {
		log.Printf("WARN: sendMessage failed for chat %d: %v", chatID, err)
	}
}
