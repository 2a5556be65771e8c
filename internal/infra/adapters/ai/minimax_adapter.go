package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"unified-ai-chat/internal/domain/ports/adapter"
	"unified-ai-chat/internal/infra/metrics"
)

// Compile-time assurance this client satisfies the port
var _ adapter.ProviderClient = (*MiniMaxClient)(nil)

// MiniMaxClient speaks MiniMax's chatcompletion_v2 API directly. The wire
// format is close to chat completions but carries a base_resp envelope and
// wants the group id as a query parameter.
type MiniMaxClient struct {
	apiKey  string
	groupID string
	base    string // e.g., https://api.minimax.chat/v1
	model   string
	client  *http.Client
}

func NewMiniMaxClient(apiKey, groupID, base, model string) (*MiniMaxClient, error) {
	if apiKey == "" {
		return nil, errors.New("minimax api key empty")
	}
	if model == "" {
		model = "abab6.5s-chat"
	}
	if base == "" {
		base = "https://api.minimax.chat/v1"
	}
	return &MiniMaxClient{
		apiKey:  apiKey,
		groupID: groupID,
		base:    strings.TrimRight(base, "/"),
		model:   model,
		client:  &http.Client{Timeout: 30 * time.Second},
	}, nil
}

type minimaxMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func (m *MiniMaxClient) Generate(ctx context.Context, prompt string, uc adapter.UserContext) (string, error) {
	reqBody := struct {
		Model    string           `json:"model"`
		Messages []minimaxMessage `json:"messages"`
	}{Model: m.model, Messages: []minimaxMessage{{Role: "user", Content: prompt}}}

	b, _ := json.Marshal(reqBody)
	url := m.base + "/text/chatcompletion_v2"
	if m.groupID != "" {
		url += "?GroupId=" + m.groupID
	}
	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return "", adapter.NewCallError("minimax", adapter.KindTransport, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return "", adapter.NewCallError("minimax", kindFromStatus(resp.StatusCode),
			fmt.Errorf("minimax http %d", resp.StatusCode))
	}

	var payload struct {
		Choices []struct {
			Message minimaxMessage `json:"message"`
		} `json:"choices"`
		BaseResp struct {
			StatusCode int    `json:"status_code"`
			StatusMsg  string `json:"status_msg"`
		} `json:"base_resp"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", adapter.NewCallError("minimax", adapter.KindTransport, err)
	}
	// MiniMax reports API-level failures with HTTP 200 and a nonzero
	// base_resp status code.
	if payload.BaseResp.StatusCode != 0 {
		return "", adapter.NewCallError("minimax", adapter.KindTransport,
			fmt.Errorf("minimax status %d: %s", payload.BaseResp.StatusCode, payload.BaseResp.StatusMsg))
	}
	for _, c := range payload.Choices {
		if c.Message.Content != "" {
			metrics.ObserveTokens("minimax", countTokens(prompt), countTokens(c.Message.Content))
			return c.Message.Content, nil
		}
	}
	return "", adapter.NewCallError("minimax", adapter.KindTransport, errors.New("no choice content"))
}

func kindFromStatus(code int) adapter.ErrorKind {
	switch code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return adapter.KindAuth
	case http.StatusTooManyRequests:
		return adapter.KindRateLimit
	}
	return adapter.KindTransport
}
