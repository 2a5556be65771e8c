package ai

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/pkoukk/tiktoken-go"

	"unified-ai-chat/internal/domain/ports/adapter"
	"unified-ai-chat/internal/infra/metrics"
)

// Compile-time assurance this client satisfies the port
var _ adapter.ProviderClient = (*OpenAICompatClient)(nil)

// OpenAICompatClient talks to any chat-completions compatible gateway
// (DeepSeek and StepChat both expose one) through the official SDK with a
// swapped base URL.
type OpenAICompatClient struct {
	provider string
	model    string
	client   openai.Client
}

var (
	tokenizer     *tiktoken.Tiktoken
	tokenizerOnce sync.Once
	tokenizerErr  error
)

func getTokenizer() (*tiktoken.Tiktoken, error) {
	tokenizerOnce.Do(func() {
		tokenizer, tokenizerErr = tiktoken.GetEncoding("cl100k_base")
	})
	return tokenizer, tokenizerErr
}

// countTokens is a local estimate. Gateways differ on whether they report
// usage, so metrics are fed from the same tokenizer on both sides.
func countTokens(text string) int {
	tk, err := getTokenizer()
	if err != nil {
		return 0
	}
	return len(tk.Encode(text, nil, nil))
}

func NewOpenAICompatClient(provider, apiKey, baseURL, model string) (*OpenAICompatClient, error) {
	if apiKey == "" {
		return nil, errors.New("api key empty")
	}
	if baseURL == "" {
		return nil, errors.New("base url empty")
	}
	if model == "" {
		return nil, errors.New("model empty")
	}
	return &OpenAICompatClient{
		provider: provider,
		model:    model,
		client: openai.NewClient(
			option.WithAPIKey(apiKey),
			option.WithBaseURL(strings.TrimRight(baseURL, "/")),
			option.WithRequestTimeout(30*time.Second),
		),
	}, nil
}

func (c *OpenAICompatClient) Generate(ctx context.Context, prompt string, uc adapter.UserContext) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", adapter.NewCallError(c.provider, classifyOpenAIError(err), err)
	}
	for _, choice := range resp.Choices {
		if choice.Message.Content != "" {
			metrics.ObserveTokens(c.provider, countTokens(prompt), countTokens(choice.Message.Content))
			return choice.Message.Content, nil
		}
	}
	return "", adapter.NewCallError(c.provider, adapter.KindTransport, errors.New("no choice content"))
}

func classifyOpenAIError(err error) adapter.ErrorKind {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case 401, 403:
			return adapter.KindAuth
		case 429:
			return adapter.KindRateLimit
		}
	}
	return adapter.KindTransport
}
