package adapter

import (
	"context"
	"fmt"
)

// UserContext carries per-request caller info to a provider client.
type UserContext struct {
	UserID    string
	StyleHint string // "formal" | "casual" | "creative"
}

// ProviderClient is the port for one live AI vendor: prompt in, text out.
// Implementations enforce their own HTTP timeout; callers treat any error
// as a signal to fall back, never as fatal.
type ProviderClient interface {
	Generate(ctx context.Context, prompt string, uc UserContext) (string, error)
}

// ErrorKind classifies provider call failures.
type ErrorKind string

const (
	KindTransport ErrorKind = "transport"
	KindAuth      ErrorKind = "auth"
	KindRateLimit ErrorKind = "rate_limit"
)

// CallError is a typed provider failure. The orchestration layer absorbs
// every kind per-provider; the kind only feeds logs and metrics.
type CallError struct {
	Provider string
	Kind     ErrorKind
	Err      error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("%s provider %s error: %v", e.Provider, e.Kind, e.Err)
}

func (e *CallError) Unwrap() error { return e.Err }

func NewCallError(provider string, kind ErrorKind, err error) *CallError {
	return &CallError{Provider: provider, Kind: kind, Err: err}
}
