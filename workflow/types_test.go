package workflow_test

import (
	"encoding/json"
	"testing"

	"github.com/JaimeStill/sibyl/workflow"
)

func TestNewConversationState(t *testing.T) {
	cs := workflow.NewConversationState("What's 2+2?")

	if len(cs.Messages) != 1 {
		t.Fatalf("messages length = %d, want 1", len(cs.Messages))
	}
	if cs.Messages[0].Role != workflow.RoleHuman {
		t.Errorf("role = %q, want human", cs.Messages[0].Role)
	}
	if cs.Messages[0].Content != "What's 2+2?" {
		t.Errorf("content = %q, want the user input", cs.Messages[0].Content)
	}
	if cs.NeedsSearch {
		t.Error("needs_search should default to false")
	}
	if cs.SearchQuery != "" || cs.SearchResults != "" {
		t.Error("search fields should default to empty")
	}
}

func TestLatestUserText(t *testing.T) {
	tests := []struct {
		name     string
		messages []workflow.Message
		want     string
	}{
		{
			"no messages",
			nil,
			"",
		},
		{
			"single human message",
			[]workflow.Message{
				{Role: workflow.RoleHuman, Content: "hello"},
			},
			"hello",
		},
		{
			"latest human wins",
			[]workflow.Message{
				{Role: workflow.RoleHuman, Content: "first"},
				{Role: workflow.RoleAI, Content: "reply"},
				{Role: workflow.RoleHuman, Content: "second"},
			},
			"second",
		},
		{
			"only non-human messages",
			[]workflow.Message{
				{Role: workflow.RoleSystem, Content: "context"},
				{Role: workflow.RoleAI, Content: "reply"},
			},
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cs := workflow.ConversationState{Messages: tt.messages}
			if got := cs.LatestUserText(); got != tt.want {
				t.Errorf("LatestUserText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFinalAnswer(t *testing.T) {
	tests := []struct {
		name     string
		messages []workflow.Message
		want     string
	}{
		{
			"no messages",
			nil,
			"",
		},
		{
			"no ai message",
			[]workflow.Message{
				{Role: workflow.RoleHuman, Content: "hello"},
			},
			"",
		},
		{
			"single ai message",
			[]workflow.Message{
				{Role: workflow.RoleHuman, Content: "hello"},
				{Role: workflow.RoleAI, Content: "hi there"},
			},
			"hi there",
		},
		{
			"latest ai wins",
			[]workflow.Message{
				{Role: workflow.RoleAI, Content: "first"},
				{Role: workflow.RoleHuman, Content: "again"},
				{Role: workflow.RoleAI, Content: "second"},
			},
			"second",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cs := workflow.ConversationState{Messages: tt.messages}
			if got := cs.FinalAnswer(); got != tt.want {
				t.Errorf("FinalAnswer() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConversationStateJSON(t *testing.T) {
	cs := workflow.ConversationState{
		Messages: []workflow.Message{
			{Role: workflow.RoleHuman, Content: "What's new?"},
			{Role: workflow.RoleAI, Content: "Not much."},
		},
		NeedsSearch:   true,
		SearchQuery:   "news",
		SearchResults: "1. Something happened.",
	}

	data, err := json.Marshal(cs)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got workflow.ConversationState
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if len(got.Messages) != 2 {
		t.Fatalf("messages length = %d, want 2", len(got.Messages))
	}
	if got.Messages[0].Role != workflow.RoleHuman {
		t.Errorf("role = %q, want human", got.Messages[0].Role)
	}
	if !got.NeedsSearch || got.SearchQuery != "news" {
		t.Errorf("decision fields did not round-trip: %+v", got)
	}
	if got.SearchResults != "1. Something happened." {
		t.Errorf("search results = %q, want original", got.SearchResults)
	}
}
