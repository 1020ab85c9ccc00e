// Package search provides the web search provider used to ground answers
// in current information. The Tavily implementation is the only provider;
// the System interface exists so workflow code and tests can substitute
// fakes.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// System defines the contract for web search providers. Search returns a
// textual summary of the top results for a query.
type System interface {
	Search(ctx context.Context, query string) (string, error)
}

type tavily struct {
	config Config
	client *http.Client
}

// New creates a Tavily-backed search System from a finalized config.
func New(config Config) System {
	return &tavily{
		config: config,
		client: &http.Client{Timeout: config.TimeoutDuration()},
	}
}

type tavilyRequest struct {
	Query      string `json:"query"`
	APIKey     string `json:"api_key"`
	Depth      string `json:"search_depth"`
	MaxResults int    `json:"max_results"`
}

type tavilyResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

type tavilyResponse struct {
	Results []tavilyResult `json:"results"`
}

func (t *tavily) Search(ctx context.Context, query string) (string, error) {
	payload, err := json.Marshal(tavilyRequest{
		Query:      query,
		APIKey:     t.config.APIKey,
		Depth:      t.config.Depth,
		MaxResults: t.config.MaxResults,
	})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		t.config.BaseURL,
		bytes.NewReader(payload),
	)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("search request: status %d", resp.StatusCode)
	}

	var decoded tavilyResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	return t.summarize(decoded.Results), nil
}

// summarize flattens results into the numbered text block injected into the
// respond prompt. Results beyond the configured maximum are dropped even if
// the provider returns more.
func (t *tavily) summarize(results []tavilyResult) string {
	if len(results) == 0 {
		return "No results found."
	}

	if len(results) > t.config.MaxResults {
		results = results[:t.config.MaxResults]
	}

	var sb strings.Builder
	for i, r := range results {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "%d. %s\n%s\n%s", i+1, r.Title, r.URL, r.Content)
	}

	return sb.String()
}
