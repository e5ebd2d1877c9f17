package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/esgis/chatbot/internal/domain"
	"github.com/esgis/chatbot/internal/store"
)

type stubGateway struct {
	reply string
	calls int
}

func (g *stubGateway) Complete(ctx context.Context, prompt string, history []domain.Message) string {
	g.calls++
	return g.reply
}

// failingStore fails the configured operations and delegates the rest to an
// in-memory store.
type failingStore struct {
	store.Store
	failSaveMessage  bool
	failSaveResponse bool
	failGet          bool
}

func (f *failingStore) SaveMessage(ctx context.Context, chatID int64, username, text string) error {
	if f.failSaveMessage {
		return fmt.Errorf("%w: simulated outage", store.ErrStorageUnavailable)
	}
	return f.Store.SaveMessage(ctx, chatID, username, text)
}

func (f *failingStore) SaveResponse(ctx context.Context, chatID int64, text string) error {
	if f.failSaveResponse {
		return fmt.Errorf("%w: simulated outage", store.ErrStorageUnavailable)
	}
	return f.Store.SaveResponse(ctx, chatID, text)
}

func (f *failingStore) GetConversation(ctx context.Context, chatID int64) ([]domain.Message, error) {
	if f.failGet {
		return nil, fmt.Errorf("%w: simulated outage", store.ErrStorageUnavailable)
	}
	return f.Store.GetConversation(ctx, chatID)
}

func TestProcessMessage(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	gw := &stubGateway{reply: "hi there"}
	svc := New(st, gw, NewChatModes())

	reply, err := svc.ProcessMessage(ctx, 42, "alice", "hello")
	if err != nil {
		t.Fatalf("ProcessMessage failed: %v", err)
	}
	if reply != "hi there" {
		t.Fatalf("unexpected reply: %q", reply)
	}

	history, err := st.GetConversation(ctx, 42)
	if err != nil {
		t.Fatalf("GetConversation failed: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(history))
	}
	if history[0].Sender != domain.SenderUser || history[0].Content != "hello" {
		t.Fatalf("unexpected first message: %+v", history[0])
	}
	if history[1].Sender != domain.SenderBot || history[1].Content != "hi there" {
		t.Fatalf("unexpected second message: %+v", history[1])
	}
}

func TestProcessMessageAutoActivatesChatMode(t *testing.T) {
	ctx := context.Background()
	svc := New(store.NewMemoryStore(), &stubGateway{reply: "ok"}, NewChatModes())

	if svc.ChatModeActive(42) {
		t.Fatalf("chat mode must start idle")
	}
	if _, err := svc.ProcessMessage(ctx, 42, "alice", "hello"); err != nil {
		t.Fatalf("ProcessMessage failed: %v", err)
	}
	if !svc.ChatModeActive(42) {
		t.Fatalf("first message must activate chat mode")
	}
}

func TestProcessMessageInboundWriteFailure(t *testing.T) {
	ctx := context.Background()
	gw := &stubGateway{reply: "should not be used"}
	st := &failingStore{Store: store.NewMemoryStore(), failSaveMessage: true}
	svc := New(st, gw, NewChatModes())

	_, err := svc.ProcessMessage(ctx, 42, "alice", "hello")
	if err == nil {
		t.Fatalf("expected error when inbound write fails")
	}
	if !errors.Is(err, store.ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
	if gw.calls != 0 {
		t.Fatalf("gateway must not be called after a failed inbound write, got %d calls", gw.calls)
	}
}

func TestProcessMessageOutboundWriteFailure(t *testing.T) {
	ctx := context.Background()
	st := &failingStore{Store: store.NewMemoryStore(), failSaveResponse: true}
	svc := New(st, &stubGateway{reply: "still delivered"}, NewChatModes())

	reply, err := svc.ProcessMessage(ctx, 42, "alice", "hello")
	if err != nil {
		t.Fatalf("ProcessMessage failed: %v", err)
	}
	if reply != "still delivered" {
		t.Fatalf("the computed reply must survive a failed outbound write, got %q", reply)
	}
}

func TestProcessMessageHistoryFetchFailure(t *testing.T) {
	ctx := context.Background()
	st := &failingStore{Store: store.NewMemoryStore(), failGet: true}
	gw := &stubGateway{reply: "degraded"}
	svc := New(st, gw, NewChatModes())

	reply, err := svc.ProcessMessage(ctx, 42, "alice", "hello")
	if err != nil {
		t.Fatalf("ProcessMessage failed: %v", err)
	}
	if reply != "degraded" || gw.calls != 1 {
		t.Fatalf("a failed history fetch must still produce a reply: %q (%d calls)", reply, gw.calls)
	}
}

func TestProcessMessageFallbackPersisted(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	fallback := "An error occurred while communicating with Mistral AI."
	svc := New(st, &stubGateway{reply: fallback}, NewChatModes())

	reply, err := svc.ProcessMessage(ctx, 42, "alice", "hello")
	if err != nil {
		t.Fatalf("ProcessMessage failed: %v", err)
	}
	if reply == "" {
		t.Fatalf("reply must be non-empty even when the gateway degraded")
	}

	history, _ := st.GetConversation(ctx, 42)
	if len(history) != 2 || history[1].Sender != domain.SenderBot || history[1].Content != fallback {
		t.Fatalf("fallback text must be persisted as a bot entry: %+v", history)
	}
}

func TestResetConversationKeepsChatMode(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	svc := New(st, &stubGateway{reply: "ok"}, NewChatModes())

	if _, err := svc.ProcessMessage(ctx, 42, "alice", "hello"); err != nil {
		t.Fatalf("ProcessMessage failed: %v", err)
	}
	if err := svc.ResetConversation(ctx, 42); err != nil {
		t.Fatalf("ResetConversation failed: %v", err)
	}

	history, _ := st.GetConversation(ctx, 42)
	if len(history) != 0 {
		t.Fatalf("expected empty history after reset, got %+v", history)
	}
	if !svc.ChatModeActive(42) {
		t.Fatalf("reset must not deactivate chat mode")
	}
}
