package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"unified-ai-chat/internal/domain"
	"unified-ai-chat/internal/domain/model"
	"unified-ai-chat/internal/domain/ports/repository"
)

var _ repository.ChatSessionRepository = (*ChatSessionRepo)(nil)

type ChatSessionRepo struct {
	pool *pgxpool.Pool
}

func NewChatSessionRepo(pool *pgxpool.Pool) *ChatSessionRepo {
	return &ChatSessionRepo{pool: pool}
}

func (r *ChatSessionRepo) Save(ctx context.Context, s *model.ChatSession) error {
	const q = `
INSERT INTO chat_sessions (id, user_id, title, ai_settings, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6)
ON CONFLICT (id) DO UPDATE SET
  title=$3, ai_settings=$4, updated_at=$6;
`
	_, err := r.pool.Exec(ctx, q, s.ID, s.UserID, s.Title, s.AISettings, s.CreatedAt, s.UpdatedAt)
	return err
}

func (r *ChatSessionRepo) FindByID(ctx context.Context, id string) (*model.ChatSession, error) {
	const q = `
SELECT id, user_id, title, ai_settings, created_at, updated_at
  FROM chat_sessions WHERE id=$1;
`
	var s model.ChatSession
	err := r.pool.QueryRow(ctx, q, id).Scan(&s.ID, &s.UserID, &s.Title, &s.AISettings, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *ChatSessionRepo) FindAllByUser(ctx context.Context, userID string) ([]*model.ChatSession, error) {
	const q = `
SELECT id, user_id, title, ai_settings, created_at, updated_at
  FROM chat_sessions WHERE user_id=$1
 ORDER BY updated_at DESC;
`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.ChatSession
	for rows.Next() {
		var s model.ChatSession
		if err := rows.Scan(&s.ID, &s.UserID, &s.Title, &s.AISettings, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}

// Delete removes the session row and its messages in one transaction.
func (r *ChatSessionRepo) Delete(ctx context.Context, id string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete session: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM chat_messages WHERE session_id=$1;`, id); err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM chat_sessions WHERE id=$1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return tx.Commit(ctx)
}

func (r *ChatSessionRepo) SaveMessage(ctx context.Context, m *model.ChatMessage) error {
	const q = `
INSERT INTO chat_messages (id, user_id, session_id, message_type, content, ai_models_used, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7);
`
	_, err := r.pool.Exec(ctx, q, m.ID, m.UserID, m.SessionID, string(m.Type), m.Content, m.ModelsUsed, m.Timestamp)
	return err
}

func (r *ChatSessionRepo) FindMessages(ctx context.Context, sessionID string) ([]*model.ChatMessage, error) {
	const q = `
SELECT id, user_id, session_id, message_type, content, ai_models_used, created_at
  FROM chat_messages WHERE session_id=$1
 ORDER BY created_at ASC;
`
	rows, err := r.pool.Query(ctx, q, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMessages(rows)
}

func (r *ChatSessionRepo) FindRecentByUser(ctx context.Context, userID string, limit int) ([]*model.ChatMessage, error) {
	// Newest N selected inside, then flipped to chronological order.
	const q = `
SELECT id, user_id, session_id, message_type, content, ai_models_used, created_at
  FROM (
    SELECT id, user_id, session_id, message_type, content, ai_models_used, created_at
      FROM chat_messages WHERE user_id=$1
     ORDER BY created_at DESC
     LIMIT $2
  ) recent
 ORDER BY created_at ASC;
`
	rows, err := r.pool.Query(ctx, q, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMessages(rows)
}

func scanMessages(rows pgx.Rows) ([]*model.ChatMessage, error) {
	var out []*model.ChatMessage
	for rows.Next() {
		var (
			m   model.ChatMessage
			typ string
		)
		if err := rows.Scan(&m.ID, &m.UserID, &m.SessionID, &typ, &m.Content, &m.ModelsUsed, &m.Timestamp); err != nil {
			return nil, err
		}
		m.Type = model.MessageType(typ)
		out = append(out, &m)
	}
	return out, rows.Err()
}
