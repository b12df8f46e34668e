package repository

import (
	"context"
	"path/filepath"
	"testing"

	"deskbot/internal/model"
)

func newConversationRepo(t *testing.T) *ConversationRepository {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	return NewConversationRepository(db)
}

func TestConversationRoundTrip(t *testing.T) {
	repo := newConversationRepo(t)
	ctx := context.Background()

	messages := []model.Message{
		{Role: "user", Content: "Hello"},
		{Role: "assistant", Content: "Hi there!"},
	}
	if err := repo.SaveLatest(ctx, messages); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := repo.GetLatest(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 2 || got[0].Content != "Hello" || got[1].Content != "Hi there!" {
		t.Errorf("round trip = %+v, want the two saved messages", got)
	}
}

func TestConversationEmpty(t *testing.T) {
	repo := newConversationRepo(t)

	got, err := repo.GetLatest(context.Background())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no messages, got %+v", got)
	}
}

func TestConversationUpdateReplacesMessages(t *testing.T) {
	repo := newConversationRepo(t)
	ctx := context.Background()

	if err := repo.SaveLatest(ctx, []model.Message{{Role: "user", Content: "First"}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	longer := []model.Message{
		{Role: "user", Content: "First"},
		{Role: "assistant", Content: "Response"},
		{Role: "user", Content: "Second"},
	}
	if err := repo.SaveLatest(ctx, longer); err != nil {
		t.Fatalf("second save: %v", err)
	}

	got, err := repo.GetLatest(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d messages, want 3", len(got))
	}
	if got[2].Content != "Second" {
		t.Errorf("last message = %q, want Second", got[2].Content)
	}
}
