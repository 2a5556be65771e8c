package ai

import (
	"context"
	"errors"

	"google.golang.org/genai"

	"unified-ai-chat/internal/domain/ports/adapter"
	"unified-ai-chat/internal/infra/metrics"
)

var _ adapter.ProviderClient = (*GeminiClient)(nil)

// GeminiClient is an optional driver for running a configured provider
// against the Gemini API through the official SDK.
type GeminiClient struct {
	provider string
	client   *genai.Client
	model    string
}

func NewGeminiClient(ctx context.Context, provider, apiKey, baseURL, model string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: empty api key")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: baseURL,
		},
	})
	if err != nil {
		return nil, err
	}
	return &GeminiClient{provider: provider, client: c, model: model}, nil
}

func (g *GeminiClient) Generate(ctx context.Context, prompt string, uc adapter.UserContext) (string, error) {
	contents := []*genai.Content{
		{Role: genai.RoleUser, Parts: []*genai.Part{{Text: prompt}}},
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", adapter.NewCallError(g.provider, adapter.KindTransport, err)
	}

	text := ""
	if resp != nil && len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil && len(resp.Candidates[0].Content.Parts) > 0 {
		text = resp.Candidates[0].Content.Parts[0].Text
	}
	if text == "" {
		return "", adapter.NewCallError(g.provider, adapter.KindTransport, errors.New("no candidate content"))
	}
	if resp.UsageMetadata != nil {
		metrics.ObserveTokens(g.provider,
			int(resp.UsageMetadata.PromptTokenCount),
			int(resp.UsageMetadata.CandidatesTokenCount))
	}
	return text, nil
}
