package ai

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"unified-ai-chat/internal/config"
	"unified-ai-chat/internal/domain/ports/adapter"
	"unified-ai-chat/internal/unified"
)

// testKeys are placeholder credentials that must never reach a live
// gateway. A provider configured with one of these is treated as absent.
var testKeys = map[string]struct{}{
	"":                    {},
	"test_key":            {},
	"sk-1234567890abcdef": {},
}

func isTestKey(key string) bool {
	_, ok := testKeys[key]
	return ok
}

// BuildClients constructs one live client per validly configured provider,
// each wrapped with retry and a concurrency cap. Providers with placeholder
// keys or unknown drivers are skipped with a log line, never an error:
// mode resolution decides what to do with an empty result.
func BuildClients(ctx context.Context, cfg *config.AIConfig, log *zerolog.Logger) map[string]adapter.ProviderClient {
	clients := make(map[string]adapter.ProviderClient)
	for id, pc := range cfg.Providers {
		if isTestKey(pc.APIKey) {
			log.Info().Str("provider", id).Msg("placeholder credentials, provider will simulate")
			continue
		}
		client, err := buildOne(ctx, id, pc)
		if err != nil {
			log.Warn().Err(err).Str("provider", id).Msg("provider client init failed")
			continue
		}
		client = NewRetryingClient(client, cfg.Retry)
		client = NewLimitedClient(client, cfg.ConcurrentLimit)
		clients[id] = client
	}
	return clients
}

func buildOne(ctx context.Context, id string, pc config.ProviderConfig) (adapter.ProviderClient, error) {
	switch pc.Driver {
	case "openai":
		return NewOpenAICompatClient(id, pc.APIKey, pc.BaseURL, pc.Model)
	case "minimax":
		return NewMiniMaxClient(pc.APIKey, pc.GroupID, pc.BaseURL, pc.Model)
	case "gemini":
		return NewGeminiClient(ctx, id, pc.APIKey, pc.BaseURL, pc.Model)
	default:
		return nil, fmt.Errorf("unknown driver %q", pc.Driver)
	}
}

// ResolveMode turns the configured mode into an operating one. Auto picks
// live only when at least one provider passed credential validation.
func ResolveMode(configured string, clients map[string]adapter.ProviderClient) unified.Mode {
	switch configured {
	case config.ModeLive:
		return unified.ModeLive
	case config.ModeSimulated:
		return unified.ModeSimulated
	default:
		if len(clients) > 0 {
			return unified.ModeLive
		}
		return unified.ModeSimulated
	}
}
