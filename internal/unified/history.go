package unified

import (
	"sync"
	"time"
)

// Turn is one user-message/AI-reply exchange plus the context that
// produced it. Turns are append-only.
type Turn struct {
	UserMessage string    `json:"user_message"`
	AIResponse  string    `json:"ai_response"`
	Context     Context   `json:"context"`
	Timestamp   time.Time `json:"timestamp"`
}

const (
	historyCap  = 50
	historyKeep = 25
)

// HistoryStore keeps a bounded in-memory turn log per session. When a
// session exceeds historyCap turns it is truncated to the most recent
// historyKeep in one step (halving, not a sliding trim). Not durable;
// the persistence layer keeps the full log.
type HistoryStore struct {
	mu        sync.Mutex
	bySession map[string][]Turn
}

func NewHistoryStore() *HistoryStore {
	return &HistoryStore{bySession: make(map[string][]Turn)}
}

// Append records a turn. The append-then-possibly-halve step is atomic
// under the store lock, so concurrent appends to one session cannot
// corrupt the truncation.
func (h *HistoryStore) Append(sessionID string, t Turn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	turns := append(h.bySession[sessionID], t)
	if len(turns) > historyCap {
		turns = turns[len(turns)-historyKeep:]
	}
	h.bySession[sessionID] = turns
}

// Get returns a copy of the session's turns, oldest first. Unknown
// sessions yield an empty slice.
func (h *HistoryStore) Get(sessionID string) []Turn {
	h.mu.Lock()
	defer h.mu.Unlock()
	turns := h.bySession[sessionID]
	out := make([]Turn, len(turns))
	copy(out, turns)
	return out
}

// Len reports the current turn count for a session.
func (h *HistoryStore) Len(sessionID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.bySession[sessionID])
}
