package model

import (
	"time"
)

type MessageType string

const (
	MessageUser MessageType = "user"
	MessageAI   MessageType = "ai"
)

// ChatMessage is one persisted message within a session. For AI messages
// ModelsUsed records which providers contributed to the reply.
type ChatMessage struct {
	ID         string      `json:"id"`
	UserID     string      `json:"user_id"`
	SessionID  string      `json:"session_id"`
	Type       MessageType `json:"type"`
	Content    string      `json:"content"`
	ModelsUsed []string    `json:"ai_models_used,omitempty"`
	Timestamp  time.Time   `json:"timestamp"`
}

// ChatSession is the aggregate root for one conversation. AISettings is a
// free-form blob owned by the frontend; the backend stores it verbatim.
type ChatSession struct {
	ID         string         `json:"id"`
	UserID     string         `json:"user_id"`
	AISettings map[string]any `json:"ai_settings"`
	Title      string         `json:"title"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

func NewChatSession(id, userID string, settings map[string]any) *ChatSession {
	now := time.Now()
	if settings == nil {
		settings = map[string]any{}
	}
	return &ChatSession{
		ID:         id,
		UserID:     userID,
		AISettings: settings,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func (s *ChatSession) Touch() { s.UpdatedAt = time.Now() }
