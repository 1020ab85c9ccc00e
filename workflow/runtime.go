package workflow

import (
	"context"
	"log/slog"

	"github.com/JaimeStill/sibyl/internal/prompts"
)

// LLM is the minimal chat-inference surface the workflow nodes require.
// Implementations must not carry conversation state between calls.
type LLM interface {
	Chat(ctx context.Context, prompt string) (string, error)
}

// SearchProvider returns a textual summary of web results for a query,
// or an error when the search call fails.
type SearchProvider interface {
	Search(ctx context.Context, query string) (string, error)
}

// Runtime bundles the dependencies that workflow nodes require.
// It is constructed by higher-level composition code and substituted
// with fakes in tests.
type Runtime struct {
	LLM     LLM
	Search  SearchProvider
	Prompts prompts.System
	Logger  *slog.Logger
}
