// Package agents adapts the go-agents chat surface to the minimal
// interface the workflow consumes. A fresh agent is constructed per call
// so no conversation state leaks between requests.
package agents

import (
	"context"
	"fmt"

	"github.com/JaimeStill/go-agents/pkg/agent"
	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
)

// Client issues single-turn chat completions against a configured provider.
type Client struct {
	cfg gaconfig.AgentConfig
}

// New creates a Client from an agent configuration.
func New(cfg gaconfig.AgentConfig) *Client {
	return &Client{cfg: cfg}
}

// Chat sends a prompt and returns the model's text content.
func (c *Client) Chat(ctx context.Context, prompt string) (string, error) {
	a, err := agent.New(&c.cfg)
	if err != nil {
		return "", fmt.Errorf("create agent: %w", err)
	}

	resp, err := a.Chat(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("chat call: %w", err)
	}

	return resp.Content(), nil
}

// ModelName returns the configured model identifier, or an empty string
// when no model is configured.
func (c *Client) ModelName() string {
	if c.cfg.Model == nil {
		return ""
	}
	return c.cfg.Model.Name
}

// ProviderName returns the configured provider identifier, or an empty
// string when no provider is configured.
func (c *Client) ProviderName() string {
	if c.cfg.Provider == nil {
		return ""
	}
	return c.cfg.Provider.Name
}
