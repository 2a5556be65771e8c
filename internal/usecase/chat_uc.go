package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"unified-ai-chat/internal/domain"
	"unified-ai-chat/internal/domain/model"
	"unified-ai-chat/internal/domain/ports/repository"
	"unified-ai-chat/internal/infra/logging"
	"unified-ai-chat/internal/unified"
)

// userHistoryLimit caps the cross-session history endpoint.
const userHistoryLimit = 50

// Orchestrator is the slice of the AI service the chat flow needs.
type Orchestrator interface {
	Handle(ctx context.Context, message, sessionID, userID string) unified.Result
	SetPreferences(sessionID string, prefs map[string]any)
	Info() unified.ModelsInfo
}

// ResponseCache is satisfied by the redis-backed cache. A nil cache
// disables caching without changing the flow.
type ResponseCache interface {
	GetResponse(ctx context.Context, sessionID, message string) (*unified.Result, bool)
	StoreResponse(ctx context.Context, sessionID, message string, res *unified.Result) error
	GetUserHistory(ctx context.Context, userID string) ([]*model.ChatMessage, bool)
	StoreUserHistory(ctx context.Context, userID string, msgs []*model.ChatMessage) error
	InvalidateUserHistory(ctx context.Context, userID string) error
	GetModelsInfo(ctx context.Context) (*unified.ModelsInfo, bool)
	StoreModelsInfo(ctx context.Context, info *unified.ModelsInfo) error
}

// Compile-time check
var _ ChatUseCase = (*chatUC)(nil)

// ChatTurn is one completed chat exchange. SessionID always names the
// session the turn landed in, including sessions created implicitly.
type ChatTurn struct {
	unified.Result
	SessionID string `json:"session_id"`
}

// ChatUseCase drives sessions, messages and the AI orchestration cycle.
type ChatUseCase interface {
	CreateSession(ctx context.Context, userID, title string, settings map[string]any) (*model.ChatSession, error)
	ListSessions(ctx context.Context, userID string) ([]*model.ChatSession, error)
	SessionHistory(ctx context.Context, userID, sessionID string) ([]*model.ChatMessage, error)
	DeleteSession(ctx context.Context, userID, sessionID string) error

	SendMessage(ctx context.Context, userID, sessionID, message string) (*ChatTurn, error)
	UserHistory(ctx context.Context, requesterID, userID string) ([]*model.ChatMessage, error)
	Models(ctx context.Context) (*unified.ModelsInfo, error)
}

type chatUC struct {
	sessions repository.ChatSessionRepository
	ai       Orchestrator
	cache    ResponseCache
	log      *zerolog.Logger
}

func NewChatUseCase(sessions repository.ChatSessionRepository, ai Orchestrator, cache ResponseCache, logger *zerolog.Logger) *chatUC {
	return &chatUC{sessions: sessions, ai: ai, cache: cache, log: logger}
}

func (c *chatUC) CreateSession(ctx context.Context, userID, title string, settings map[string]any) (*model.ChatSession, error) {
	defer logging.TraceDuration(c.log, "ChatUC.CreateSession")()

	s := model.NewChatSession(uuid.NewString(), userID, settings)
	s.Title = title
	if err := c.sessions.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	if len(settings) > 0 {
		c.ai.SetPreferences(s.ID, settings)
	}
	c.log.Info().Str("session_id", s.ID).Str("user_id", userID).Msg("session created")
	return s, nil
}

func (c *chatUC) ListSessions(ctx context.Context, userID string) ([]*model.ChatSession, error) {
	defer logging.TraceDuration(c.log, "ChatUC.ListSessions")()
	return c.sessions.FindAllByUser(ctx, userID)
}

func (c *chatUC) SessionHistory(ctx context.Context, userID, sessionID string) ([]*model.ChatMessage, error) {
	defer logging.TraceDuration(c.log, "ChatUC.SessionHistory")()

	if _, err := c.ownedSession(ctx, userID, sessionID); err != nil {
		return nil, err
	}
	return c.sessions.FindMessages(ctx, sessionID)
}

func (c *chatUC) DeleteSession(ctx context.Context, userID, sessionID string) error {
	defer logging.TraceDuration(c.log, "ChatUC.DeleteSession")()

	if _, err := c.ownedSession(ctx, userID, sessionID); err != nil {
		return err
	}
	if err := c.sessions.Delete(ctx, sessionID); err != nil {
		return err
	}
	if c.cache != nil {
		if err := c.cache.InvalidateUserHistory(ctx, userID); err != nil {
			c.log.Warn().Err(err).Msg("history cache invalidation failed")
		}
	}
	return nil
}

// SendMessage runs one chat turn: resolve (or create) the session, consult
// the short-lived response cache, persist the user message, orchestrate a
// reply, persist it, and refresh caches.
func (c *chatUC) SendMessage(ctx context.Context, userID, sessionID, message string) (*ChatTurn, error) {
	defer logging.TraceDuration(c.log, "ChatUC.SendMessage")()

	message = strings.TrimSpace(message)
	if message == "" {
		return nil, fmt.Errorf("%w: message is empty", domain.ErrInvalidArgument)
	}

	if sessionID == "" {
		s, err := c.CreateSession(ctx, userID, "", nil)
		if err != nil {
			return nil, err
		}
		sessionID = s.ID
	} else {
		session, err := c.ownedSession(ctx, userID, sessionID)
		if err != nil {
			return nil, err
		}
		session.Touch()
		if err := c.sessions.Save(ctx, session); err != nil {
			c.log.Warn().Err(err).Str("session_id", sessionID).Msg("session touch failed")
		}
	}
	ctx = logging.WithSessID(ctx, sessionID)
	log := logging.With(ctx, c.log)

	if c.cache != nil {
		if res, ok := c.cache.GetResponse(ctx, sessionID, message); ok {
			return &ChatTurn{Result: *res, SessionID: sessionID}, nil
		}
	}

	userMsg := &model.ChatMessage{
		ID:        ulid.Make().String(),
		UserID:    userID,
		SessionID: sessionID,
		Type:      model.MessageUser,
		Content:   message,
		Timestamp: time.Now().UTC(),
	}
	if err := c.sessions.SaveMessage(ctx, userMsg); err != nil {
		return nil, fmt.Errorf("save user message: %w", err)
	}

	res := c.ai.Handle(ctx, message, sessionID, userID)

	aiMsg := &model.ChatMessage{
		ID:         ulid.Make().String(),
		UserID:     userID,
		SessionID:  sessionID,
		Type:       model.MessageAI,
		Content:    res.Response,
		ModelsUsed: res.ProvidersUsed,
		Timestamp:  res.Timestamp,
	}
	if err := c.sessions.SaveMessage(ctx, aiMsg); err != nil {
		// The reply was already produced; losing the log row should not
		// fail the request.
		log.Error().Err(err).Msg("save ai message failed")
	}

	if c.cache != nil {
		if err := c.cache.StoreResponse(ctx, sessionID, message, &res); err != nil {
			log.Warn().Err(err).Msg("response cache store failed")
		}
		if err := c.cache.InvalidateUserHistory(ctx, userID); err != nil {
			log.Warn().Err(err).Msg("history cache invalidation failed")
		}
	}
	return &ChatTurn{Result: res, SessionID: sessionID}, nil
}

// UserHistory returns the requester's own recent messages across sessions.
// Reading another user's history is forbidden.
func (c *chatUC) UserHistory(ctx context.Context, requesterID, userID string) ([]*model.ChatMessage, error) {
	defer logging.TraceDuration(c.log, "ChatUC.UserHistory")()

	if requesterID != userID {
		return nil, domain.ErrForbidden
	}
	if c.cache != nil {
		if msgs, ok := c.cache.GetUserHistory(ctx, userID); ok {
			return msgs, nil
		}
	}
	msgs, err := c.sessions.FindRecentByUser(ctx, userID, userHistoryLimit)
	if err != nil {
		return nil, err
	}
	if c.cache != nil {
		if err := c.cache.StoreUserHistory(ctx, userID, msgs); err != nil {
			c.log.Warn().Err(err).Msg("history cache store failed")
		}
	}
	return msgs, nil
}

func (c *chatUC) Models(ctx context.Context) (*unified.ModelsInfo, error) {
	defer logging.TraceDuration(c.log, "ChatUC.Models")()

	if c.cache != nil {
		if info, ok := c.cache.GetModelsInfo(ctx); ok {
			return info, nil
		}
	}
	info := c.ai.Info()
	if c.cache != nil {
		if err := c.cache.StoreModelsInfo(ctx, &info); err != nil {
			c.log.Warn().Err(err).Msg("models cache store failed")
		}
	}
	return &info, nil
}

// ownedSession resolves a session for the given user. A session owned by
// someone else reports not-found, so callers cannot probe for foreign ids.
func (c *chatUC) ownedSession(ctx context.Context, userID, sessionID string) (*model.ChatSession, error) {
	session, err := c.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return session, nil
}
