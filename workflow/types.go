package workflow

import "time"

const KeyConversation = "conversation_state"

// Role tags the author of a conversation message.
type Role string

// Roles for conversation messages.
const (
	RoleHuman  Role = "human"
	RoleAI     Role = "ai"
	RoleSystem Role = "system"
)

// Message is a single role-tagged entry in the conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ConversationState is the per-request record threaded through the workflow.
// Messages is append-only within a run. SearchResults holds either a result
// summary or an inline error description; the respond node cannot distinguish
// them structurally, only by content. It is non-empty only when NeedsSearch
// was set for this run.
type ConversationState struct {
	Messages      []Message `json:"messages"`
	NeedsSearch   bool      `json:"needs_search"`
	SearchQuery   string    `json:"search_query"`
	SearchResults string    `json:"search_results"`
}

// NewConversationState constructs the initial state for a run with the
// user's message as the sole entry and all decision fields at their defaults.
func NewConversationState(userInput string) ConversationState {
	return ConversationState{
		Messages: []Message{
			{Role: RoleHuman, Content: userInput},
		},
	}
}

// LatestUserText returns the content of the most recent human-authored message.
func (s *ConversationState) LatestUserText() string {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Role == RoleHuman {
			return s.Messages[i].Content
		}
	}
	return ""
}

// FinalAnswer returns the content of the most recent AI-authored message,
// or an empty string if the workflow has not produced one.
func (s *ConversationState) FinalAnswer() string {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Role == RoleAI {
			return s.Messages[i].Content
		}
	}
	return ""
}

// WorkflowResult is the terminal value of a workflow execution.
// It is fully owned by the caller; no shared state survives the run.
type WorkflowResult struct {
	Answer        string    `json:"answer"`
	NeedsSearch   bool      `json:"needs_search"`
	SearchQuery   string    `json:"search_query"`
	SearchResults string    `json:"search_results"`
	CompletedAt   time.Time `json:"completed_at"`
}
