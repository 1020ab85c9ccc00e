// Package chat implements the conversational domain for Sibyl. It runs the
// search-augmented answer workflow for incoming messages and records each
// exchange as an audit trail entry, with data access and HTTP handlers for
// querying the recorded history.
package chat

import (
	"time"

	"github.com/google/uuid"
)

// Exchange represents a completed question/answer pair. It mirrors the
// exchanges table schema with flattened workflow metadata.
type Exchange struct {
	ID            uuid.UUID `json:"id"`
	Question      string    `json:"question"`
	Answer        string    `json:"answer"`
	NeedsSearch   bool      `json:"needs_search"`
	SearchQuery   string    `json:"search_query"`
	SearchResults string    `json:"search_results"`
	ModelName     string    `json:"model_name"`
	ProviderName  string    `json:"provider_name"`
	DurationMs    int64     `json:"duration_ms"`
	CreatedAt     time.Time `json:"created_at"`
}

// SendCommand carries an incoming user message.
type SendCommand struct {
	Message string `json:"message"`
}

// SendResponse is the reply body for the message endpoint.
type SendResponse struct {
	Output string `json:"output"`
}
