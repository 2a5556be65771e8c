package repository

import (
	"context"

	"unified-ai-chat/internal/domain/model"
)

type ChatSessionRepository interface {
	Save(ctx context.Context, s *model.ChatSession) error
	FindByID(ctx context.Context, id string) (*model.ChatSession, error)
	FindAllByUser(ctx context.Context, userID string) ([]*model.ChatSession, error)
	// Delete removes the session and all of its messages.
	Delete(ctx context.Context, id string) error

	SaveMessage(ctx context.Context, m *model.ChatMessage) error
	FindMessages(ctx context.Context, sessionID string) ([]*model.ChatMessage, error)
	// FindRecentByUser returns the user's most recent messages across all
	// sessions, oldest first.
	FindRecentByUser(ctx context.Context, userID string, limit int) ([]*model.ChatMessage, error)
}
