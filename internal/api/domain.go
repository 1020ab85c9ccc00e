package api

import (
	"github.com/JaimeStill/sibyl/internal/chat"
	"github.com/JaimeStill/sibyl/internal/prompts"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Chat    chat.System
	Prompts prompts.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	promptsSystem := prompts.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
	)

	chatSystem := chat.New(
		runtime.Database.Connection(),
		runtime.Agent,
		runtime.Search,
		promptsSystem,
		runtime.Logger,
		runtime.Pagination,
	)

	return &Domain{
		Chat:    chatSystem,
		Prompts: promptsSystem,
	}
}
