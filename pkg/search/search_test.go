package search_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JaimeStill/sibyl/pkg/search"
)

func testConfig(baseURL string) search.Config {
	return search.Config{
		APIKey:     "tvly-test",
		BaseURL:    baseURL,
		Depth:      "basic",
		MaxResults: 2,
		Timeout:    "5s",
	}
}

type capturedRequest struct {
	Query      string `json:"query"`
	APIKey     string `json:"api_key"`
	Depth      string `json:"search_depth"`
	MaxResults int    `json:"max_results"`
}

func TestSearchRequest(t *testing.T) {
	var captured capturedRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q, want application/json", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode request: %v", err)
		}

		json.NewEncoder(w).Encode(map[string]any{"results": []any{}})
	}))
	defer srv.Close()

	sys := search.New(testConfig(srv.URL))
	if _, err := sys.Search(context.Background(), "current weather"); err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if captured.Query != "current weather" {
		t.Errorf("query = %q, want %q", captured.Query, "current weather")
	}
	if captured.APIKey != "tvly-test" {
		t.Errorf("api_key = %q, want tvly-test", captured.APIKey)
	}
	if captured.Depth != "basic" {
		t.Errorf("search_depth = %q, want basic", captured.Depth)
	}
	if captured.MaxResults != 2 {
		t.Errorf("max_results = %d, want 2", captured.MaxResults)
	}
}

func TestSearchSummary(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]string{
				{
					"title":   "Weather Today",
					"url":     "https://example.com/weather",
					"content": "Sunny with a high of 72.",
				},
				{
					"title":   "Forecast",
					"url":     "https://example.com/forecast",
					"content": "Clear skies through the weekend.",
				},
			},
		})
	}))
	defer srv.Close()

	sys := search.New(testConfig(srv.URL))
	got, err := sys.Search(context.Background(), "weather")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	want := "1. Weather Today\nhttps://example.com/weather\nSunny with a high of 72." +
		"\n\n2. Forecast\nhttps://example.com/forecast\nClear skies through the weekend."
	if got != want {
		t.Errorf("summary = %q, want %q", got, want)
	}
}

func TestSearchTruncatesResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]string{
				{"title": "One", "url": "https://example.com/1", "content": "first"},
				{"title": "Two", "url": "https://example.com/2", "content": "second"},
				{"title": "Three", "url": "https://example.com/3", "content": "third"},
				{"title": "Four", "url": "https://example.com/4", "content": "fourth"},
			},
		})
	}))
	defer srv.Close()

	sys := search.New(testConfig(srv.URL))
	got, err := sys.Search(context.Background(), "anything")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if !strings.Contains(got, "1. One") || !strings.Contains(got, "2. Two") {
		t.Errorf("summary missing retained results: %q", got)
	}
	if strings.Contains(got, "Three") || strings.Contains(got, "Four") {
		t.Errorf("summary includes results beyond max_results: %q", got)
	}
}

func TestSearchNoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"results": []any{}})
	}))
	defer srv.Close()

	sys := search.New(testConfig(srv.URL))
	got, err := sys.Search(context.Background(), "obscure query")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if got != "No results found." {
		t.Errorf("summary = %q, want %q", got, "No results found.")
	}
}

func TestSearchErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	sys := search.New(testConfig(srv.URL))
	_, err := sys.Search(context.Background(), "anything")
	if err == nil {
		t.Fatal("Search() should fail on non-200 status")
	}
	if !strings.Contains(err.Error(), "status 401") {
		t.Errorf("error = %v, want status 401 mention", err)
	}
}

func TestSearchUnreachableServer(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1")

	sys := search.New(cfg)
	_, err := sys.Search(context.Background(), "anything")
	if err == nil {
		t.Fatal("Search() should fail when the server is unreachable")
	}
}

func TestConfigFinalize(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		cfg := search.Config{APIKey: "tvly-test"}
		if err := cfg.Finalize(nil); err != nil {
			t.Fatalf("Finalize() error = %v", err)
		}

		if cfg.BaseURL != "https://api.tavily.com/search" {
			t.Errorf("base_url = %q, want tavily default", cfg.BaseURL)
		}
		if cfg.Depth != "basic" {
			t.Errorf("depth = %q, want basic", cfg.Depth)
		}
		if cfg.MaxResults != 2 {
			t.Errorf("max_results = %d, want 2", cfg.MaxResults)
		}
		if cfg.Timeout != "10s" {
			t.Errorf("timeout = %q, want 10s", cfg.Timeout)
		}
	})

	t.Run("missing api key fails", func(t *testing.T) {
		cfg := search.Config{}
		if err := cfg.Finalize(nil); err == nil {
			t.Error("Finalize() should fail without an api key")
		}
	})

	t.Run("env overrides", func(t *testing.T) {
		t.Setenv("TEST_SEARCH_API_KEY", "tvly-env")
		t.Setenv("TEST_SEARCH_MAX_RESULTS", "5")

		cfg := search.Config{APIKey: "tvly-file"}
		env := &search.Env{
			APIKey:     "TEST_SEARCH_API_KEY",
			MaxResults: "TEST_SEARCH_MAX_RESULTS",
		}
		if err := cfg.Finalize(env); err != nil {
			t.Fatalf("Finalize() error = %v", err)
		}

		if cfg.APIKey != "tvly-env" {
			t.Errorf("api_key = %q, want tvly-env", cfg.APIKey)
		}
		if cfg.MaxResults != 5 {
			t.Errorf("max_results = %d, want 5", cfg.MaxResults)
		}
	})

	t.Run("invalid timeout fails", func(t *testing.T) {
		cfg := search.Config{APIKey: "tvly-test", Timeout: "not-a-duration"}
		if err := cfg.Finalize(nil); err == nil {
			t.Error("Finalize() should fail on invalid timeout")
		}
	})

	t.Run("merge overlays non-zero fields", func(t *testing.T) {
		cfg := search.Config{
			APIKey:     "tvly-base",
			BaseURL:    "https://api.tavily.com/search",
			MaxResults: 2,
		}
		cfg.Merge(&search.Config{APIKey: "tvly-overlay", MaxResults: 3})

		if cfg.APIKey != "tvly-overlay" {
			t.Errorf("api_key = %q, want tvly-overlay", cfg.APIKey)
		}
		if cfg.MaxResults != 3 {
			t.Errorf("max_results = %d, want 3", cfg.MaxResults)
		}
		if cfg.BaseURL != "https://api.tavily.com/search" {
			t.Errorf("base_url = %q, should be untouched", cfg.BaseURL)
		}
	})
}
