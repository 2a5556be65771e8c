package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"unified-ai-chat/internal/domain/model"
	"unified-ai-chat/internal/infra/metrics"
	"unified-ai-chat/internal/unified"
)

const (
	responseTTL = 60 * time.Second
	historyTTL  = 5 * time.Minute
	modelsTTL   = 10 * time.Minute
)

// ResponseCache short-circuits repeated chat requests and the read-heavy
// history and models endpoints. Entries are small JSON blobs; a miss is
// never an error for callers.
type ResponseCache struct {
	client RedisClient
}

func NewResponseCache(client RedisClient) *ResponseCache {
	return &ResponseCache{client: client}
}

func responseKey(sessionID, message string) string {
	sum := sha256.Sum256([]byte(message))
	return "chat_response:" + sessionID + ":" + hex.EncodeToString(sum[:8])
}

func (c *ResponseCache) GetResponse(ctx context.Context, sessionID, message string) (*unified.Result, bool) {
	data, err := c.client.Get(ctx, responseKey(sessionID, message))
	if err != nil {
		metrics.IncCacheMiss("chat_response")
		return nil, false
	}
	var res unified.Result
	if err := json.Unmarshal([]byte(data), &res); err != nil {
		return nil, false
	}
	metrics.IncCacheHit("chat_response")
	return &res, true
}

func (c *ResponseCache) StoreResponse(ctx context.Context, sessionID, message string, res *unified.Result) error {
	data, err := json.Marshal(res)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, responseKey(sessionID, message), data, responseTTL)
}

func (c *ResponseCache) GetUserHistory(ctx context.Context, userID string) ([]*model.ChatMessage, bool) {
	data, err := c.client.Get(ctx, "user_history:"+userID)
	if err != nil {
		metrics.IncCacheMiss("user_history")
		return nil, false
	}
	var msgs []*model.ChatMessage
	if err := json.Unmarshal([]byte(data), &msgs); err != nil {
		return nil, false
	}
	metrics.IncCacheHit("user_history")
	return msgs, true
}

func (c *ResponseCache) StoreUserHistory(ctx context.Context, userID string, msgs []*model.ChatMessage) error {
	data, err := json.Marshal(msgs)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, "user_history:"+userID, data, historyTTL)
}

// InvalidateUserHistory drops the cached history after a new message so the
// next read reflects it.
func (c *ResponseCache) InvalidateUserHistory(ctx context.Context, userID string) error {
	err := c.client.Del(ctx, "user_history:"+userID)
	if err != nil && !errors.Is(err, ErrCacheMiss) {
		return err
	}
	return nil
}

func (c *ResponseCache) GetModelsInfo(ctx context.Context) (*unified.ModelsInfo, bool) {
	data, err := c.client.Get(ctx, "models_info")
	if err != nil {
		metrics.IncCacheMiss("models_info")
		return nil, false
	}
	var info unified.ModelsInfo
	if err := json.Unmarshal([]byte(data), &info); err != nil {
		return nil, false
	}
	metrics.IncCacheHit("models_info")
	return &info, true
}

func (c *ResponseCache) StoreModelsInfo(ctx context.Context, info *unified.ModelsInfo) error {
	data, err := json.Marshal(info)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, "models_info", data, modelsTTL)
}
