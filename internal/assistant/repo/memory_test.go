package repo

import (
	"context"
	"strconv"
	"testing"

	"github.com/evebot-core/server/internal/assistant/model"
)

func TestMemoryStoreRecentOrdering(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryConversationStore()

	for i := 0; i < 4; i++ {
		err := store.Append(ctx, model.ConversationTurn{
			ID:     strconv.Itoa(i),
			UserID: "user-1",
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	turns, err := store.Recent(ctx, "user-1", 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(turns) != 3 {
		t.Fatalf("expected 3 turns, got %d", len(turns))
	}
	// Most recent first.
	for i, wantID := range []string{"3", "2", "1"} {
		if turns[i].ID != wantID {
			t.Errorf("turns[%d].ID = %q, want %q", i, turns[i].ID, wantID)
		}
	}
}

func TestMemoryStoreIsolatesUsers(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryConversationStore()

	if err := store.Append(ctx, model.ConversationTurn{ID: "a", UserID: "user-1"}); err != nil {
		t.Fatal(err)
	}

	count, err := store.Count(ctx, "user-2")
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("user-2 count = %d, want 0", count)
	}

	turns, err := store.Recent(ctx, "user-2", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(turns) != 0 {
		t.Errorf("user-2 turns = %d, want 0", len(turns))
	}
}
