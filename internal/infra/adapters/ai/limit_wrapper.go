package ai

import (
	"context"

	"unified-ai-chat/internal/domain/ports/adapter"
)

// Compile-time check
var _ adapter.ProviderClient = (*limitedClient)(nil)

type limitedClient struct {
	inner adapter.ProviderClient
	sem   chan struct{}
}

// NewLimitedClient caps in-flight calls to the wrapped client. The semaphore
// also honors context cancellation while waiting for a slot.
func NewLimitedClient(inner adapter.ProviderClient, maxConcurrent int) adapter.ProviderClient {
	if maxConcurrent <= 0 {
		return inner
	}
	return &limitedClient{
		inner: inner,
		sem:   make(chan struct{}, maxConcurrent),
	}
}

func (l *limitedClient) Generate(ctx context.Context, prompt string, uc adapter.UserContext) (string, error) {
	select {
	case l.sem <- struct{}{}:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	defer func() { <-l.sem }()
	return l.inner.Generate(ctx, prompt, uc)
}
