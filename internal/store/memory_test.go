package store

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/esgis/chatbot/internal/domain"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if err := s.SaveMessage(ctx, 42, "alice", "hello"); err != nil {
		t.Fatalf("SaveMessage failed: %v", err)
	}
	if err := s.SaveResponse(ctx, 42, "hi there"); err != nil {
		t.Fatalf("SaveResponse failed: %v", err)
	}

	messages, err := s.GetConversation(ctx, 42)
	if err != nil {
		t.Fatalf("GetConversation failed: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
	if messages[0].Sender != domain.SenderUser || messages[0].Username != "alice" || messages[0].Content != "hello" {
		t.Fatalf("unexpected user message: %+v", messages[0])
	}
	if messages[1].Sender != domain.SenderBot || messages[1].Username != "" || messages[1].Content != "hi there" {
		t.Fatalf("unexpected bot message: %+v", messages[1])
	}
}

func TestMemoryStoreInterleavedOrdering(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	for i := 0; i < 5; i++ {
		if err := s.SaveMessage(ctx, 1, "alice", fmt.Sprintf("q%d", i)); err != nil {
			t.Fatalf("SaveMessage failed: %v", err)
		}
		if err := s.SaveResponse(ctx, 1, fmt.Sprintf("a%d", i)); err != nil {
			t.Fatalf("SaveResponse failed: %v", err)
		}
	}

	messages, err := s.GetConversation(ctx, 1)
	if err != nil {
		t.Fatalf("GetConversation failed: %v", err)
	}
	if len(messages) != 10 {
		t.Fatalf("expected 10 messages, got %d", len(messages))
	}
	for i := 0; i < 5; i++ {
		if messages[2*i].Content != fmt.Sprintf("q%d", i) || messages[2*i+1].Content != fmt.Sprintf("a%d", i) {
			t.Fatalf("messages out of order: %+v", messages)
		}
	}
	for i := 1; i < len(messages); i++ {
		if messages[i].Timestamp < messages[i-1].Timestamp {
			t.Fatalf("timestamps not non-decreasing at %d", i)
		}
	}
}

func TestMemoryStoreResetIdempotent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if err := s.ResetConversation(ctx, 5); err != nil {
		t.Fatalf("reset of unknown conversation must be a no-op, got %v", err)
	}

	if err := s.SaveMessage(ctx, 5, "bob", "hello"); err != nil {
		t.Fatalf("SaveMessage failed: %v", err)
	}
	if err := s.ResetConversation(ctx, 5); err != nil {
		t.Fatalf("ResetConversation failed: %v", err)
	}
	if err := s.ResetConversation(ctx, 5); err != nil {
		t.Fatalf("second reset failed: %v", err)
	}

	messages, err := s.GetConversation(ctx, 5)
	if err != nil {
		t.Fatalf("GetConversation failed: %v", err)
	}
	if len(messages) != 0 {
		t.Fatalf("expected empty conversation after reset, got %+v", messages)
	}
}

func TestMemoryStoreConcurrentWrites(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			chatID := int64(n % 4)
			if err := s.SaveMessage(ctx, chatID, "user", fmt.Sprintf("m%d", n)); err != nil {
				t.Errorf("SaveMessage failed: %v", err)
			}
		}(i)
	}
	wg.Wait()

	total := 0
	for chatID := int64(0); chatID < 4; chatID++ {
		messages, err := s.GetConversation(ctx, chatID)
		if err != nil {
			t.Fatalf("GetConversation failed: %v", err)
		}
		total += len(messages)
	}
	if total != 20 {
		t.Fatalf("expected 20 messages across chats, got %d", total)
	}
}

func TestMemoryStoreReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if err := s.SaveMessage(ctx, 3, "alice", "original"); err != nil {
		t.Fatalf("SaveMessage failed: %v", err)
	}

	messages, _ := s.GetConversation(ctx, 3)
	messages[0].Content = "mutated"

	again, _ := s.GetConversation(ctx, 3)
	if again[0].Content != "original" {
		t.Fatalf("store state leaked to callers: %+v", again)
	}
}
