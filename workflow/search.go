package workflow

import (
	"context"
	"fmt"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
)

// SearchNode returns a state node that runs the web search using the query
// produced by classification. A search failure never aborts the run: the
// error is folded into SearchResults as inline text and the workflow
// proceeds to respond without useful context.
func SearchNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		cs, err := extractConversation(s)
		if err != nil {
			return s, fmt.Errorf("search: %w", err)
		}

		results, err := rt.Search.Search(ctx, cs.SearchQuery)
		if err != nil {
			cs.SearchResults = fmt.Sprintf("Search error: %v", err)

			rt.Logger.WarnContext(
				ctx, "search failed",
				"query", cs.SearchQuery,
				"error", err,
			)
		} else {
			cs.SearchResults = results

			rt.Logger.InfoContext(
				ctx, "search node complete",
				"query", cs.SearchQuery,
				"result_length", len(results),
			)
		}

		s = s.Set(KeyConversation, *cs)
		return s, nil
	})
}
