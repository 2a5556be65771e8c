package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"unified-ai-chat/internal/domain"
	"unified-ai-chat/internal/domain/model"
	"unified-ai-chat/internal/domain/ports/repository"
	"unified-ai-chat/internal/unified"
)

// ---- user repository ----

type memUserRepo struct {
	mu    sync.Mutex
	byID  map[string]*model.User
	byUsr map[string]*model.User
}

var _ repository.UserRepository = (*memUserRepo)(nil)

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byID: map[string]*model.User{}, byUsr: map[string]*model.User{}}
}

func (m *memUserRepo) Save(ctx context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byUsr[u.Username]; ok {
		return domain.ErrAlreadyExists
	}
	cp := *u
	m.byID[u.ID] = &cp
	m.byUsr[u.Username] = &cp
	return nil
}

func (m *memUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byUsr[username]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUserRepo) UpdateLastLogin(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	now := time.Now()
	u.LastLogin = &now
	return nil
}

// ---- chat session repository ----

type memSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*model.ChatSession
	messages []*model.ChatMessage
}

var _ repository.ChatSessionRepository = (*memSessionRepo)(nil)

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{sessions: map[string]*model.ChatSession{}}
}

func (m *memSessionRepo) Save(ctx context.Context, s *model.ChatSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.sessions[s.ID] = &cp
	return nil
}

func (m *memSessionRepo) FindByID(ctx context.Context, id string) (*model.ChatSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memSessionRepo) FindAllByUser(ctx context.Context, userID string) ([]*model.ChatSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.ChatSession
	for _, s := range m.sessions {
		if s.UserID == userID {
			cp := *s
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (m *memSessionRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.sessions, id)
	kept := m.messages[:0]
	for _, msg := range m.messages {
		if msg.SessionID != id {
			kept = append(kept, msg)
		}
	}
	m.messages = kept
	return nil
}

func (m *memSessionRepo) SaveMessage(ctx context.Context, msg *model.ChatMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *msg
	m.messages = append(m.messages, &cp)
	return nil
}

func (m *memSessionRepo) FindMessages(ctx context.Context, sessionID string) ([]*model.ChatMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.ChatMessage
	for _, msg := range m.messages {
		if msg.SessionID == sessionID {
			cp := *msg
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memSessionRepo) FindRecentByUser(ctx context.Context, userID string, limit int) ([]*model.ChatMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.ChatMessage
	for _, msg := range m.messages {
		if msg.UserID == userID {
			cp := *msg
			out = append(out, &cp)
		}
	}
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

// ---- orchestrator ----

type fakeOrchestrator struct {
	mu      sync.Mutex
	calls   int
	lastMsg string
	prefs   map[string]map[string]any
	info    unified.ModelsInfo
}

var _ Orchestrator = (*fakeOrchestrator)(nil)

func newFakeOrchestrator() *fakeOrchestrator {
	return &fakeOrchestrator{
		prefs: map[string]map[string]any{},
		info: unified.ModelsInfo{
			Models:         unified.DefaultProviders(),
			TotalModels:    3,
			SimulationMode: true,
		},
	}
}

func (f *fakeOrchestrator) Handle(ctx context.Context, message, sessionID, userID string) unified.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastMsg = message
	return unified.Result{
		Response:      "echo: " + message,
		ProvidersUsed: []string{unified.ProviderDeepSeek},
		Timestamp:     time.Now().UTC(),
	}
}

func (f *fakeOrchestrator) SetPreferences(sessionID string, prefs map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prefs[sessionID] = prefs
}

func (f *fakeOrchestrator) Info() unified.ModelsInfo { return f.info }

// ---- response cache ----

type memCache struct {
	mu        sync.Mutex
	responses map[string]*unified.Result
	histories map[string][]*model.ChatMessage
	models    *unified.ModelsInfo
}

var _ ResponseCache = (*memCache)(nil)

func newMemCache() *memCache {
	return &memCache{
		responses: map[string]*unified.Result{},
		histories: map[string][]*model.ChatMessage{},
	}
}

func (m *memCache) GetResponse(ctx context.Context, sessionID, message string) (*unified.Result, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	res, ok := m.responses[sessionID+"|"+message]
	return res, ok
}

func (m *memCache) StoreResponse(ctx context.Context, sessionID, message string, res *unified.Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[sessionID+"|"+message] = res
	return nil
}

func (m *memCache) GetUserHistory(ctx context.Context, userID string) ([]*model.ChatMessage, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	msgs, ok := m.histories[userID]
	return msgs, ok
}

func (m *memCache) StoreUserHistory(ctx context.Context, userID string, msgs []*model.ChatMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.histories[userID] = msgs
	return nil
}

func (m *memCache) InvalidateUserHistory(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.histories, userID)
	return nil
}

func (m *memCache) GetModelsInfo(ctx context.Context) (*unified.ModelsInfo, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.models, m.models != nil
}

func (m *memCache) StoreModelsInfo(ctx context.Context, info *unified.ModelsInfo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.models = info
	return nil
}
