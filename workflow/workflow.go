package workflow

import (
	"context"
	"fmt"
	"time"

	gaoconfig "github.com/JaimeStill/go-agents-orchestration/pkg/config"
	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
)

const (
	nodeClassify = "classify"
	nodeSearch   = "search"
	nodeRespond  = "respond"
)

// buildGraph assembles the three-node state graph. A fresh graph is built
// for every execution so no state survives between requests.
func buildGraph(rt *Runtime) (state.StateGraph, error) {
	cfg := gaoconfig.DefaultGraphConfig("sibyl-chat")
	cfg.Observer = "noop"

	graph, err := state.NewGraph(cfg)
	if err != nil {
		return nil, err
	}

	if err := graph.AddNode(nodeClassify, ClassifyNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode(nodeSearch, SearchNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode(nodeRespond, RespondNode(rt)); err != nil {
		return nil, err
	}

	// classify → search (when the query needs live context)
	if err := graph.AddEdge(nodeClassify, nodeSearch, needsSearch); err != nil {
		return nil, err
	}

	// classify → respond (when no search is needed)
	if err := graph.AddEdge(nodeClassify, nodeRespond, state.Not(needsSearch)); err != nil {
		return nil, err
	}

	// search → respond (unconditional)
	if err := graph.AddEdge(nodeSearch, nodeRespond, nil); err != nil {
		return nil, err
	}

	if err := graph.SetEntryPoint(nodeClassify); err != nil {
		return nil, err
	}

	if err := graph.SetExitPoint(nodeRespond); err != nil {
		return nil, err
	}

	return graph, nil
}

// needsSearch routes classify output: true sends the run through the search
// node, false goes straight to respond.
func needsSearch(s state.State) bool {
	val, ok := s.Get(KeyConversation)
	if !ok {
		return false
	}

	cs, ok := val.(ConversationState)
	if !ok {
		return false
	}

	return cs.NeedsSearch
}

// Execute runs the workflow for a single user message and returns the
// structured result. Search failures are folded into the result; node
// failures (classification, response generation) surface as errors.
func Execute(ctx context.Context, rt *Runtime, userInput string) (*WorkflowResult, error) {
	graph, err := buildGraph(rt)
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}

	initial := state.New(nil).Set(KeyConversation, NewConversationState(userInput))

	final, err := graph.Execute(ctx, initial)
	if err != nil {
		return nil, fmt.Errorf("execute graph: %w", err)
	}

	return extractResult(final)
}

// Run executes the workflow and folds any failure into the returned answer
// text. It never returns an error: callers always receive a displayable
// string.
func Run(ctx context.Context, rt *Runtime, userInput string) string {
	result, err := Execute(ctx, rt, userInput)
	if err != nil {
		return fmt.Sprintf("An error occurred: %v", err)
	}

	return result.Answer
}

func extractResult(s state.State) (*WorkflowResult, error) {
	cs, err := extractConversation(s)
	if err != nil {
		return nil, fmt.Errorf("result: %w", err)
	}

	return &WorkflowResult{
		Answer:        cs.FinalAnswer(),
		NeedsSearch:   cs.NeedsSearch,
		SearchQuery:   cs.SearchQuery,
		SearchResults: cs.SearchResults,
		CompletedAt:   time.Now(),
	}, nil
}
