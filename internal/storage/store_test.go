package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/ready4uni/advisor-go/internal/chat"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "sessions.db"))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func saveTurn(t *testing.T, db *DB, session, user, assistant string) {
	t.Helper()
	err := db.SaveTurn(context.Background(), chat.Turn{
		SessionID:        session,
		UserID:           "user-1",
		UserMessage:      user,
		AssistantMessage: assistant,
		Intent:           "general_question",
		Success:          true,
	})
	if err != nil {
		t.Fatalf("SaveTurn: %v", err)
	}
}

func TestSaveTurnAndRecentMessages(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	saveTurn(t, db, "s-1", "first question", "first answer")
	saveTurn(t, db, "s-1", "second question", "second answer")
	saveTurn(t, db, "s-2", "other session", "other answer")

	messages, err := db.RecentMessages(ctx, "s-1", 10)
	if err != nil {
		t.Fatalf("RecentMessages: %v", err)
	}
	if len(messages) != 4 {
		t.Fatalf("got %d messages, want 4", len(messages))
	}
	if messages[0].Role != "user" || messages[0].Content != "first question" {
		t.Errorf("messages[0] = %+v", messages[0])
	}
	if messages[3].Role != "assistant" || messages[3].Content != "second answer" {
		t.Errorf("messages[3] = %+v", messages[3])
	}
}

func TestRecentMessagesLimit(t *testing.T) {
	db := testDB(t)

	saveTurn(t, db, "s-1", "first question", "first answer")
	saveTurn(t, db, "s-1", "second question", "second answer")

	messages, err := db.RecentMessages(context.Background(), "s-1", 2)
	if err != nil {
		t.Fatalf("RecentMessages: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("got %d messages, want 2", len(messages))
	}
	// The newest two, still in chronological order.
	if messages[0].Content != "second question" || messages[1].Content != "second answer" {
		t.Errorf("messages = %+v", messages)
	}
}

func TestRecentMessagesEmptySession(t *testing.T) {
	db := testDB(t)

	messages, err := db.RecentMessages(context.Background(), "nope", 10)
	if err != nil {
		t.Fatalf("RecentMessages: %v", err)
	}
	if len(messages) != 0 {
		t.Errorf("got %d messages, want 0", len(messages))
	}
}

func TestSessionCountAndPrune(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	saveTurn(t, db, "s-1", "q", "a")
	saveTurn(t, db, "s-2", "q", "a")

	count, err := db.SessionCount(ctx)
	if err != nil || count != 2 {
		t.Fatalf("SessionCount = %d, %v; want 2", count, err)
	}

	removed, err := db.PruneSessions(ctx, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("PruneSessions: %v", err)
	}
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}

	messages, err := db.RecentMessages(ctx, "s-1", 10)
	if err != nil {
		t.Fatalf("RecentMessages: %v", err)
	}
	if len(messages) != 0 {
		t.Errorf("messages should cascade on prune, got %d", len(messages))
	}
}

func TestInMemoryDatabase(t *testing.T) {
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("open in-memory database: %v", err)
	}
	defer func() { _ = db.Close() }()

	saveTurn(t, db, "s-1", "q", "a")
	messages, err := db.RecentMessages(context.Background(), "s-1", 10)
	if err != nil || len(messages) != 2 {
		t.Fatalf("messages = %v, %v", messages, err)
	}
}
