package memory

import (
	"fmt"
	"testing"
	"time"

	"audit-copilot-be/pkg/workflow"
)

func TestConversationHistoryRoundTrip(t *testing.T) {
	repo := NewConversationRepository()

	if err := repo.Append("conv-1", workflow.ConversationTurn{Role: "user", Content: "hello", CreatedAt: time.Now()}); err != nil {
		t.Fatal(err)
	}
	if err := repo.Append("conv-1", workflow.ConversationTurn{Role: "assistant", Content: "hi", CreatedAt: time.Now()}); err != nil {
		t.Fatal(err)
	}

	turns, err := repo.History("conv-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(turns) != 2 || turns[0].Role != "user" || turns[1].Role != "assistant" {
		t.Errorf("unexpected history: %+v", turns)
	}

	// Unknown conversation yields empty history, not an error.
	turns, err = repo.History("missing")
	if err != nil || len(turns) != 0 {
		t.Errorf("expected empty history, got %v, %v", turns, err)
	}
}

func TestConversationTrimsToTenTurns(t *testing.T) {
	repo := NewConversationRepository()

	for i := 0; i < 11; i++ {
		turn := workflow.ConversationTurn{Role: "user", Content: fmt.Sprintf("turn %d", i), CreatedAt: time.Now()}
		if err := repo.Append("conv-1", turn); err != nil {
			t.Fatal(err)
		}
	}

	turns, err := repo.History("conv-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(turns) != 10 {
		t.Fatalf("expected 10 turns after trim, got %d", len(turns))
	}
	// The oldest turn is the one that got dropped.
	if turns[0].Content != "turn 1" || turns[9].Content != "turn 10" {
		t.Errorf("unexpected window: first = %q, last = %q", turns[0].Content, turns[9].Content)
	}
}

func TestConversationDeleteAndList(t *testing.T) {
	repo := NewConversationRepository()

	_ = repo.Append("conv-1", workflow.ConversationTurn{Role: "user", Content: "a"})
	_ = repo.Append("conv-2", workflow.ConversationTurn{Role: "user", Content: "b"})

	ids, err := repo.List()
	if err != nil || len(ids) != 2 {
		t.Fatalf("expected 2 conversations, got %v, %v", ids, err)
	}

	if err := repo.Delete("conv-1"); err != nil {
		t.Fatal(err)
	}
	turns, _ := repo.History("conv-1")
	if len(turns) != 0 {
		t.Errorf("expected deleted conversation to be empty, got %+v", turns)
	}
}
