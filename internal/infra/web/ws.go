package web

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"unified-ai-chat/internal/infra/metrics"
	"unified-ai-chat/internal/infra/worker"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = 45 * time.Second
	// One chat turn may hit a slow provider; cap it rather than hold the
	// worker slot forever.
	wsHandleTimeout = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// The API is token-authenticated; cross-origin browser pages are fine.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsEvent is the envelope for every frame in both directions.
type wsEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

type wsConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsConn) send(eventType string, data any) error {
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return c.conn.WriteJSON(wsEvent{Type: eventType, Data: b})
}

func (c *wsConn) sendError(msg string) {
	_ = c.send("error", map[string]string{"message": msg})
}

type wsChatPayload struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

// handleWS upgrades the connection and pumps chat turns through the worker
// pool so a slow provider call never blocks the read loop.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	claims, err := s.auth.Parse(token)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid or missing token")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("ws upgrade failed")
		return
	}
	metrics.WSConnOpened()
	defer func() {
		metrics.WSConnClosed()
		conn.Close()
	}()

	c := &wsConn{conn: conn}
	log := s.log.With().Str("user_id", claims.Subject).Logger()

	_ = c.send("status", map[string]any{"connected": true, "user_id": claims.Subject})

	conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(wsPongWait))
		return nil
	})

	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(wsPingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				c.mu.Lock()
				conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
				err := conn.WriteMessage(websocket.PingMessage, nil)
				c.mu.Unlock()
				if err != nil {
					return
				}
			}
		}
	}()

	for {
		var evt wsEvent
		if err := conn.ReadJSON(&evt); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug().Err(err).Msg("ws closed unexpectedly")
			}
			return
		}

		switch evt.Type {
		case "send_message":
			var payload wsChatPayload
			if err := json.Unmarshal(evt.Data, &payload); err != nil {
				c.sendError("invalid send_message payload")
				continue
			}
			s.submitChatTurn(c, &log, claims.Subject, payload)
		case "ping":
			_ = c.send("pong", nil)
		default:
			c.sendError("unknown event type: " + evt.Type)
		}
	}
}

// submitChatTurn hands the turn to the pool. A saturated pool reports back
// instead of queueing unbounded work.
func (s *Server) submitChatTurn(c *wsConn, log *zerolog.Logger, userID string, payload wsChatPayload) {
	task := func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, wsHandleTimeout)
		defer cancel()

		res, err := s.chatUC.SendMessage(ctx, userID, payload.SessionID, payload.Message)
		if err != nil {
			c.sendError(err.Error())
			return nil
		}
		return c.send("ai_response", res)
	}
	if err := s.pool.Submit(task); err != nil {
		if err == worker.ErrQueueFull {
			c.sendError("server busy, try again shortly")
			return
		}
		log.Error().Err(err).Msg("ws task submit failed")
		c.sendError("internal error")
	}
}
