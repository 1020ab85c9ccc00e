// Package workflow implements the search-augmented answer workflow for Sibyl.
// It provides the conversation state types, the classify/search/respond nodes, and
// the 3-node state graph (classify → search? → respond) executed once per
// incoming message.
package workflow

import "errors"

// Sentinel errors for workflow operations.
var (
	ErrStateMissing   = errors.New("conversation state missing")
	ErrClassifyFailed = errors.New("classification failed")
	ErrRespondFailed  = errors.New("response generation failed")
)
