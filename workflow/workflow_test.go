package workflow_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/JaimeStill/sibyl/internal/prompts"
	"github.com/JaimeStill/sibyl/pkg/pagination"
	"github.com/JaimeStill/sibyl/workflow"
)

// scriptedLLM replays canned responses in order and records every prompt
// it receives. A nil error paired with each response lets tests fail a
// specific call in the sequence.
type scriptedLLM struct {
	responses []string
	errs      []error
	prompts   []string
}

func (l *scriptedLLM) Chat(_ context.Context, prompt string) (string, error) {
	i := len(l.prompts)
	l.prompts = append(l.prompts, prompt)

	if i < len(l.errs) && l.errs[i] != nil {
		return "", l.errs[i]
	}
	if i < len(l.responses) {
		return l.responses[i], nil
	}
	return "", errors.New("no scripted response")
}

type fakeSearch struct {
	results string
	err     error
	queries []string
}

func (f *fakeSearch) Search(_ context.Context, query string) (string, error) {
	f.queries = append(f.queries, query)
	if f.err != nil {
		return "", f.err
	}
	return f.results, nil
}

// stubPrompts serves hardcoded defaults without a database.
type stubPrompts struct{}

func (stubPrompts) Handler() *prompts.Handler { return nil }

func (stubPrompts) List(context.Context, pagination.PageRequest, prompts.Filters) (*pagination.PageResult[prompts.Prompt], error) {
	return nil, errors.New("not implemented")
}

func (stubPrompts) Find(context.Context, uuid.UUID) (*prompts.Prompt, error) {
	return nil, errors.New("not implemented")
}

func (stubPrompts) Create(context.Context, prompts.CreateCommand) (*prompts.Prompt, error) {
	return nil, errors.New("not implemented")
}

func (stubPrompts) Update(context.Context, uuid.UUID, prompts.UpdateCommand) (*prompts.Prompt, error) {
	return nil, errors.New("not implemented")
}

func (stubPrompts) Delete(context.Context, uuid.UUID) error {
	return errors.New("not implemented")
}

func (stubPrompts) Activate(context.Context, uuid.UUID) (*prompts.Prompt, error) {
	return nil, errors.New("not implemented")
}

func (stubPrompts) Deactivate(context.Context, uuid.UUID) (*prompts.Prompt, error) {
	return nil, errors.New("not implemented")
}

func (stubPrompts) Instructions(_ context.Context, stage prompts.Stage) (string, error) {
	return prompts.DefaultInstructions(stage)
}

func (stubPrompts) Spec(_ context.Context, stage prompts.Stage) (string, error) {
	return prompts.DefaultSpec(stage)
}

func newRuntime(llm *scriptedLLM, search *fakeSearch) *workflow.Runtime {
	return &workflow.Runtime{
		LLM:     llm,
		Search:  search,
		Prompts: stubPrompts{},
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestExecuteDirectResponse(t *testing.T) {
	llm := &scriptedLLM{
		responses: []string{
			`{"needs_search": false, "search_query": ""}`,
			"2+2 equals 4.",
		},
	}
	search := &fakeSearch{results: "should never be used"}

	result, err := workflow.Execute(context.Background(), newRuntime(llm, search), "What's 2+2?")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if result.Answer != "2+2 equals 4." {
		t.Errorf("answer = %q, want %q", result.Answer, "2+2 equals 4.")
	}
	if result.NeedsSearch {
		t.Error("needs_search = true, want false")
	}
	if len(search.queries) != 0 {
		t.Errorf("search called %d times, want 0", len(search.queries))
	}
	if len(llm.prompts) != 2 {
		t.Fatalf("llm called %d times, want 2", len(llm.prompts))
	}
	if strings.Contains(llm.prompts[1], "SEARCH RESULTS:") {
		t.Error("respond prompt contains search context without a search")
	}
	if !strings.Contains(llm.prompts[1], "Human: What's 2+2?") {
		t.Errorf("respond prompt missing user message: %q", llm.prompts[1])
	}
}

func TestExecuteWithSearch(t *testing.T) {
	llm := &scriptedLLM{
		responses: []string{
			`{"needs_search": true, "search_query": "today's news"}`,
			"Here is a summary of today's news.",
		},
	}
	search := &fakeSearch{
		results: "1. Markets rally\nhttps://example.com/markets\nStocks rose sharply today.",
	}

	result, err := workflow.Execute(context.Background(), newRuntime(llm, search), "What happened in the news today?")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if len(search.queries) != 1 {
		t.Fatalf("search called %d times, want 1", len(search.queries))
	}
	if search.queries[0] != "today's news" {
		t.Errorf("search query = %q, want %q", search.queries[0], "today's news")
	}
	if result.SearchQuery != "today's news" {
		t.Errorf("result search query = %q, want %q", result.SearchQuery, "today's news")
	}
	if result.SearchResults != search.results {
		t.Errorf("result search results = %q, want %q", result.SearchResults, search.results)
	}

	respond := llm.prompts[1]
	if !strings.Contains(respond, "SEARCH RESULTS:\n"+search.results) {
		t.Errorf("respond prompt missing search context: %q", respond)
	}
	if !strings.Contains(respond, "Use these facts to answer the user's question.") {
		t.Errorf("respond prompt missing grounding directive: %q", respond)
	}
	if strings.Index(respond, "SEARCH RESULTS:") > strings.Index(respond, "Conversation:") {
		t.Error("search context should precede the conversation")
	}
}

func TestExecuteSearchFailure(t *testing.T) {
	llm := &scriptedLLM{
		responses: []string{
			`{"needs_search": true, "search_query": "server status"}`,
			"I could not retrieve live data, but here is what I know.",
		},
	}
	search := &fakeSearch{err: errors.New("connection refused")}

	result, err := workflow.Execute(context.Background(), newRuntime(llm, search), "Is the service up?")
	if err != nil {
		t.Fatalf("Execute() error = %v, search failure must not abort the run", err)
	}

	if result.SearchResults != "Search error: connection refused" {
		t.Errorf("search results = %q, want %q", result.SearchResults, "Search error: connection refused")
	}
	if result.Answer != "I could not retrieve live data, but here is what I know." {
		t.Errorf("answer = %q, want the responder output", result.Answer)
	}
	if !strings.Contains(llm.prompts[1], "Search error: connection refused") {
		t.Errorf("respond prompt missing folded search error: %q", llm.prompts[1])
	}
}

func TestExecuteClassifyFailure(t *testing.T) {
	llm := &scriptedLLM{
		errs: []error{errors.New("model unavailable")},
	}
	search := &fakeSearch{}

	_, err := workflow.Execute(context.Background(), newRuntime(llm, search), "hello")
	if err == nil {
		t.Fatal("Execute() should fail when classification fails")
	}
	if !strings.Contains(err.Error(), workflow.ErrClassifyFailed.Error()) {
		t.Errorf("error = %v, want classification failure", err)
	}
	if len(search.queries) != 0 {
		t.Errorf("search called %d times after classify failure, want 0", len(search.queries))
	}
	if len(llm.prompts) != 1 {
		t.Errorf("llm called %d times after classify failure, want 1", len(llm.prompts))
	}
}

func TestExecuteUnparseableClassification(t *testing.T) {
	llm := &scriptedLLM{
		responses: []string{"I think you should search for that."},
	}

	_, err := workflow.Execute(context.Background(), newRuntime(llm, &fakeSearch{}), "hello")
	if err == nil || !strings.Contains(err.Error(), workflow.ErrClassifyFailed.Error()) {
		t.Errorf("error = %v, want classification failure", err)
	}
}

func TestExecuteRespondFailure(t *testing.T) {
	llm := &scriptedLLM{
		responses: []string{`{"needs_search": false, "search_query": ""}`},
		errs:      []error{nil, errors.New("model unavailable")},
	}

	_, err := workflow.Execute(context.Background(), newRuntime(llm, &fakeSearch{}), "hello")
	if err == nil || !strings.Contains(err.Error(), workflow.ErrRespondFailed.Error()) {
		t.Errorf("error = %v, want response failure", err)
	}
}

func TestExecuteEmptySearchQueryFallsBack(t *testing.T) {
	llm := &scriptedLLM{
		responses: []string{
			`{"needs_search": true, "search_query": ""}`,
			"Answer.",
		},
	}
	search := &fakeSearch{results: "some results"}

	result, err := workflow.Execute(context.Background(), newRuntime(llm, search), "latest Go release")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if len(search.queries) != 1 {
		t.Fatalf("search called %d times, want 1", len(search.queries))
	}
	if search.queries[0] != "latest Go release" {
		t.Errorf("search query = %q, want the raw user text", search.queries[0])
	}
	if result.SearchQuery != "latest Go release" {
		t.Errorf("result search query = %q, want the raw user text", result.SearchQuery)
	}
}

func TestExecuteEmptyAnswerFallback(t *testing.T) {
	llm := &scriptedLLM{
		responses: []string{
			`{"needs_search": false, "search_query": ""}`,
			"   \n",
		},
	}

	result, err := workflow.Execute(context.Background(), newRuntime(llm, &fakeSearch{}), "hello")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if result.Answer != workflow.FallbackAnswer {
		t.Errorf("answer = %q, want %q", result.Answer, workflow.FallbackAnswer)
	}
}

func TestRunFoldsFailures(t *testing.T) {
	t.Run("classify failure yields error text", func(t *testing.T) {
		llm := &scriptedLLM{errs: []error{errors.New("model unavailable")}}

		answer := workflow.Run(context.Background(), newRuntime(llm, &fakeSearch{}), "hello")
		if !strings.HasPrefix(answer, "An error occurred:") {
			t.Errorf("answer = %q, want An error occurred: prefix", answer)
		}
	})

	t.Run("success yields answer text", func(t *testing.T) {
		llm := &scriptedLLM{
			responses: []string{
				`{"needs_search": false, "search_query": ""}`,
				"All good.",
			},
		}

		answer := workflow.Run(context.Background(), newRuntime(llm, &fakeSearch{}), "hello")
		if answer != "All good." {
			t.Errorf("answer = %q, want %q", answer, "All good.")
		}
	})

	t.Run("search failure still yields a normal answer", func(t *testing.T) {
		llm := &scriptedLLM{
			responses: []string{
				`{"needs_search": true, "search_query": "q"}`,
				"Partial answer.",
			},
		}
		search := &fakeSearch{err: errors.New("timeout")}

		answer := workflow.Run(context.Background(), newRuntime(llm, search), "hello")
		if strings.HasPrefix(answer, "An error occurred:") {
			t.Errorf("answer = %q, search failure must not surface as a run failure", answer)
		}
		if answer != "Partial answer." {
			t.Errorf("answer = %q, want %q", answer, "Partial answer.")
		}
	})
}

func TestExecuteFencedClassification(t *testing.T) {
	llm := &scriptedLLM{
		responses: []string{
			"```json\n{\"needs_search\": false, \"search_query\": \"\"}\n```",
			"Answer.",
		},
	}

	result, err := workflow.Execute(context.Background(), newRuntime(llm, &fakeSearch{}), "hello")
	if err != nil {
		t.Fatalf("Execute() error = %v, fenced JSON should parse", err)
	}
	if result.NeedsSearch {
		t.Error("needs_search = true, want false")
	}
}

func TestComposePrompt(t *testing.T) {
	ctx := context.Background()

	t.Run("orders instructions, spec, payload", func(t *testing.T) {
		prompt, err := workflow.ComposePrompt(ctx, stubPrompts{}, prompts.StageClassify, "User query:\n\nhello")
		if err != nil {
			t.Fatalf("ComposePrompt() error = %v", err)
		}

		instructions, _ := prompts.DefaultInstructions(prompts.StageClassify)
		spec, _ := prompts.DefaultSpec(prompts.StageClassify)

		if !strings.HasPrefix(prompt, instructions) {
			t.Error("prompt should start with stage instructions")
		}
		if !strings.Contains(prompt, spec) {
			t.Error("prompt should contain the stage spec")
		}
		if !strings.HasSuffix(prompt, "User query:\n\nhello") {
			t.Error("prompt should end with the payload")
		}
	})

	t.Run("empty payload omitted", func(t *testing.T) {
		prompt, err := workflow.ComposePrompt(ctx, stubPrompts{}, prompts.StageRespond, "")
		if err != nil {
			t.Fatalf("ComposePrompt() error = %v", err)
		}
		if strings.HasSuffix(prompt, "\n\n") {
			t.Error("prompt should not carry a trailing separator for empty payload")
		}
	})

	t.Run("invalid stage surfaces error", func(t *testing.T) {
		_, err := workflow.ComposePrompt(ctx, stubPrompts{}, prompts.Stage("banana"), "payload")
		if err == nil {
			t.Error("ComposePrompt() should fail for an unknown stage")
		}
	})
}
