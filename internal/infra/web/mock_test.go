package web

import (
	"context"
	"time"

	"unified-ai-chat/internal/domain"
	"unified-ai-chat/internal/domain/model"
	"unified-ai-chat/internal/unified"
	"unified-ai-chat/internal/usecase"
)

type fakeUserUC struct {
	users map[string]*model.User
}

var _ usecase.UserUseCase = (*fakeUserUC)(nil)

func newFakeUserUC() *fakeUserUC {
	return &fakeUserUC{users: map[string]*model.User{}}
}

func (f *fakeUserUC) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidArgument
	}
	for _, u := range f.users {
		if u.Username == username {
			return nil, domain.ErrAlreadyExists
		}
	}
	u := model.NewUser("user-"+username, username, email, "hash")
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeUserUC) Login(ctx context.Context, username, password string) (*model.User, error) {
	for _, u := range f.users {
		if u.Username == username && password == "correct" {
			return u, nil
		}
	}
	return nil, domain.ErrUnauthorized
}

func (f *fakeUserUC) Get(ctx context.Context, id string) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

type fakeChatUC struct {
	sessions map[string]*model.ChatSession
	messages map[string][]*model.ChatMessage
	sent     []string
}

var _ usecase.ChatUseCase = (*fakeChatUC)(nil)

func newFakeChatUC() *fakeChatUC {
	return &fakeChatUC{
		sessions: map[string]*model.ChatSession{},
		messages: map[string][]*model.ChatMessage{},
	}
}

func (f *fakeChatUC) CreateSession(ctx context.Context, userID, title string, settings map[string]any) (*model.ChatSession, error) {
	s := model.NewChatSession("sess-1", userID, settings)
	s.Title = title
	f.sessions[s.ID] = s
	return s, nil
}

func (f *fakeChatUC) ListSessions(ctx context.Context, userID string) ([]*model.ChatSession, error) {
	var out []*model.ChatSession
	for _, s := range f.sessions {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeChatUC) SessionHistory(ctx context.Context, userID, sessionID string) ([]*model.ChatMessage, error) {
	s, ok := f.sessions[sessionID]
	if !ok || s.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return f.messages[sessionID], nil
}

func (f *fakeChatUC) DeleteSession(ctx context.Context, userID, sessionID string) error {
	s, ok := f.sessions[sessionID]
	if !ok || s.UserID != userID {
		return domain.ErrNotFound
	}
	delete(f.sessions, sessionID)
	return nil
}

func (f *fakeChatUC) SendMessage(ctx context.Context, userID, sessionID, message string) (*usecase.ChatTurn, error) {
	if message == "" {
		return nil, domain.ErrInvalidArgument
	}
	if sessionID == "" {
		sessionID = "sess-implicit"
	}
	f.sent = append(f.sent, message)
	return &usecase.ChatTurn{
		Result: unified.Result{
			Response:      "echo: " + message,
			ProvidersUsed: []string{unified.ProviderDeepSeek},
			Timestamp:     time.Now().UTC(),
		},
		SessionID: sessionID,
	}, nil
}

func (f *fakeChatUC) UserHistory(ctx context.Context, requesterID, userID string) ([]*model.ChatMessage, error) {
	if requesterID != userID {
		return nil, domain.ErrForbidden
	}
	return f.messages[userID], nil
}

func (f *fakeChatUC) Models(ctx context.Context) (*unified.ModelsInfo, error) {
	return &unified.ModelsInfo{
		Models:         unified.DefaultProviders(),
		TotalModels:    3,
		SimulationMode: true,
	}, nil
}

type allowAllLimiter struct{ allowed bool }

func (l *allowAllLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	return l.allowed, nil
}
