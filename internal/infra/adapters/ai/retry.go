package ai

import (
	"context"
	"errors"
	"time"

	"unified-ai-chat/internal/config"
	"unified-ai-chat/internal/domain/ports/adapter"
)

var _ adapter.ProviderClient = (*retryingClient)(nil)

type retryingClient struct {
	inner       adapter.ProviderClient
	maxAttempts int
	backoff     time.Duration
}

// NewRetryingClient retries transient failures with exponential backoff.
// Auth failures are terminal: a bad key does not get better on retry.
func NewRetryingClient(inner adapter.ProviderClient, cfg config.RetryConfig) adapter.ProviderClient {
	if cfg.MaxAttempts <= 1 {
		return inner
	}
	return &retryingClient{
		inner:       inner,
		maxAttempts: cfg.MaxAttempts,
		backoff:     cfg.InitialBackoff,
	}
}

func (r *retryingClient) Generate(ctx context.Context, prompt string, uc adapter.UserContext) (string, error) {
	var lastErr error
	delay := r.backoff
	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		text, err := r.inner.Generate(ctx, prompt, uc)
		if err == nil {
			return text, nil
		}
		lastErr = err

		var callErr *adapter.CallError
		if errors.As(err, &callErr) && callErr.Kind == adapter.KindAuth {
			return "", err
		}
		if attempt == r.maxAttempts {
			break
		}
		select {
		case <-time.After(delay):
			delay *= 2
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return "", lastErr
}
