package workflow

import (
	"context"
	"fmt"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/JaimeStill/sibyl/internal/prompts"
	"github.com/JaimeStill/sibyl/pkg/formatting"
)

type classifyResponse struct {
	NeedsSearch bool   `json:"needs_search"`
	SearchQuery string `json:"search_query"`
}

// ClassifyNode returns a state node that decides whether the user's query
// requires a live web search. The model is instructed to answer with the
// exact two-field decision shape; a response that cannot be parsed into it
// is a fatal error for the run. An empty search query from the model falls
// back to the raw user text.
func ClassifyNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		cs, err := extractConversation(s)
		if err != nil {
			return s, fmt.Errorf("classify: %w", err)
		}

		userText := cs.LatestUserText()

		prompt, err := ComposePrompt(ctx, rt.Prompts, prompts.StageClassify, "User query:\n\n"+userText)
		if err != nil {
			return s, fmt.Errorf("classify: %w", err)
		}

		content, err := rt.LLM.Chat(ctx, prompt)
		if err != nil {
			return s, fmt.Errorf("%w: chat call: %w", ErrClassifyFailed, err)
		}

		parsed, err := formatting.Parse[classifyResponse](content)
		if err != nil {
			return s, fmt.Errorf("%w: parse response: %w", ErrClassifyFailed, err)
		}

		cs.NeedsSearch = parsed.NeedsSearch
		cs.SearchQuery = parsed.SearchQuery
		if cs.SearchQuery == "" {
			cs.SearchQuery = userText
		}

		rt.Logger.InfoContext(
			ctx, "classify node complete",
			"needs_search", cs.NeedsSearch,
			"search_query", cs.SearchQuery,
		)

		s = s.Set(KeyConversation, *cs)
		return s, nil
	})
}

func extractConversation(s state.State) (*ConversationState, error) {
	val, ok := s.Get(KeyConversation)
	if !ok {
		return nil, fmt.Errorf("%w: missing %s in state", ErrStateMissing, KeyConversation)
	}

	cs, ok := val.(ConversationState)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not ConversationState", ErrStateMissing, KeyConversation)
	}

	return &cs, nil
}
