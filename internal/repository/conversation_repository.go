package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"deskbot/internal/model"
)

// ConversationRepository persists chat history with the assistant.
type ConversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

// GetLatest returns the messages of the most recently updated conversation,
// or an empty slice when none exists yet.
func (r *ConversationRepository) GetLatest(ctx context.Context) ([]model.Message, error) {
	var conv model.Conversation
	err := r.db.WithContext(ctx).Order("updated_at DESC").First(&conv).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return []model.Message{}, nil
	case err != nil:
		return nil, fmt.Errorf("load conversation: %w", err)
	}

	messages := []model.Message{}
	if conv.Messages != "" {
		if err := json.Unmarshal([]byte(conv.Messages), &messages); err != nil {
			return nil, fmt.Errorf("decode conversation: %w", err)
		}
	}
	return messages, nil
}

// SaveLatest replaces the most recent conversation's messages, creating the
// conversation on first use.
func (r *ConversationRepository) SaveLatest(ctx context.Context, messages []model.Message) error {
	encoded, err := json.Marshal(messages)
	if err != nil {
		return fmt.Errorf("encode conversation: %w", err)
	}
	now := time.Now().Format(createdAtLayout)

	db := r.db.WithContext(ctx)
	var conv model.Conversation
	err = db.Order("updated_at DESC").First(&conv).Error
	switch {
	case err == nil:
		updates := map[string]interface{}{
			"messages":   string(encoded),
			"updated_at": now,
		}
		if err := db.Model(&conv).Updates(updates).Error; err != nil {
			return fmt.Errorf("update conversation: %w", err)
		}
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		conv = model.Conversation{
			Title:     "Untitled",
			Messages:  string(encoded),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := db.Create(&conv).Error; err != nil {
			return fmt.Errorf("create conversation: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("find conversation: %w", err)
	}
}
